// Package validate scores a semantic graph against a human word-similarity
// benchmark such as WordSim353.
package validate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

// Pair is one benchmark row: two words and their mean human similarity.
type Pair struct {
	Word1 string  `json:"word1"`
	Word2 string  `json:"word2"`
	Human float64 `json:"human"`
}

// LoadPairs reads benchmark pairs from a CSV file.
func LoadPairs(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open benchmark: %w", err)
	}
	defer f.Close()

	pairs, err := ReadPairs(f)
	if err != nil {
		return nil, fmt.Errorf("parse benchmark %s: %w", path, err)
	}
	return pairs, nil
}

// ReadPairs parses benchmark CSV. The first row is either a header naming
// "Word 1", "Word 2" and "Human (mean)" columns, or already a data row of
// three unnamed columns. Words are lower-cased.
func ReadPairs(r io.Reader) ([]Pair, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := [3]int{0, 1, 2}
	var pairs []Pair
	if isHeader(first) {
		cols = headerColumns(first)
	} else {
		p, err := parseRow(first, cols, 1)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}
		p, err := parseRow(record, cols, line)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func isHeader(record []string) bool {
	if len(record) < 3 {
		return true
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	return err != nil
}

// headerColumns locates the word and score columns, falling back to the
// first three positions for names it does not recognize.
func headerColumns(header []string) [3]int {
	cols := [3]int{0, 1, 2}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "word 1", "word1":
			cols[0] = i
		case "word 2", "word2":
			cols[1] = i
		case "human (mean)", "human", "score":
			cols[2] = i
		}
	}
	return cols
}

func parseRow(record []string, cols [3]int, line int) (Pair, error) {
	for _, c := range cols {
		if c >= len(record) {
			return Pair{}, fmt.Errorf("row %d: %w", line, domain.NewValidationError("columns", fmt.Sprintf("want at least %d, got %d", c+1, len(record))))
		}
	}
	w1 := domain.NormalizeText(record[cols[0]])
	w2 := domain.NormalizeText(record[cols[1]])
	if w1 == "" || w2 == "" {
		return Pair{}, fmt.Errorf("row %d: %w", line, domain.NewValidationError("word", "required"))
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(record[cols[2]]), 64)
	if err != nil {
		return Pair{}, fmt.Errorf("row %d: %w", line, domain.NewValidationError("human", fmt.Sprintf("not a number: %q", record[cols[2]])))
	}
	return Pair{Word1: w1, Word2: w2, Human: score}, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
