// Package parser turns dictionary definition text into candidate words for
// the graph: content words, lemmatized and deduplicated in order of
// appearance.
package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

// Candidate is a content word extracted from a definition.
type Candidate struct {
	Lemma        string
	PartOfSpeech domain.PartOfSpeech
}

var (
	bracketed = regexp.MustCompile(`\([^()]*\)|\[[^\[\]]*\]`)
	wordRe    = regexp.MustCompile(`\p{L}+(?:['’\-]\p{L}+)*`)
)

// Parser extracts candidates from definitions. The zero value is usable and
// applies no keyword preference.
type Parser struct {
	keywords []string
}

// New returns a Parser that moves candidates matching any of keywords to the
// front of the result.
func New(keywords []string) *Parser {
	p := &Parser{}
	for _, k := range keywords {
		if k = domain.NormalizeText(k); k != "" {
			p.keywords = append(p.keywords, k)
		}
	}
	return p
}

// Parse returns the candidate words of definition, which belongs to a sense
// of headword with part of speech pos. Output depends only on the inputs.
// Empty or unusable text yields an empty slice.
func (p *Parser) Parse(definition string, pos domain.PartOfSpeech, headword string) []Candidate {
	tokens := Tokenize(definition)
	if len(tokens) == 0 {
		return []Candidate{}
	}

	self := domain.NormalizeText(headword)
	selfLemma := lemmatize(self, pos)

	tags := tag(tokens, pos)
	seen := make(map[string]bool, len(tokens))
	out := make([]Candidate, 0, len(tokens))

	for i, tok := range tokens {
		if in(stopwords, tok) || utf8.RuneCountInString(tok) <= 2 || !tags[i].IsContent() {
			continue
		}
		lemma := lemmatize(tok, tags[i])
		if utf8.RuneCountInString(lemma) <= 2 || lemma == self || lemma == selfLemma || seen[lemma] {
			continue
		}
		seen[lemma] = true
		out = append(out, Candidate{Lemma: lemma, PartOfSpeech: tags[i]})
	}

	return p.prioritize(out)
}

// Check reports whether definition contains any word at all.
func Check(definition string) error {
	if len(Tokenize(definition)) == 0 {
		return fmt.Errorf("definition %q: %w", definition, domain.ErrMalformedDefinition)
	}
	return nil
}

// Tokenize normalizes text, drops parenthesized and bracketed spans and
// splits the rest into lower-case words. Digits and punctuation are not
// words; inner hyphens and apostrophes are kept and a possessive "'s" is
// removed.
func Tokenize(text string) []string {
	text = domain.NormalizeText(text)
	if text == "" {
		return nil
	}
	// Nested brackets are removed from the inside out.
	for {
		stripped := bracketed.ReplaceAllString(text, " ")
		if stripped == text {
			break
		}
		text = stripped
	}

	words := wordRe.FindAllString(text, -1)
	for i, w := range words {
		w = strings.ReplaceAll(w, "’", "'")
		words[i] = strings.TrimSuffix(w, "'s")
	}
	return words
}

// prioritize stably moves keyword matches to the front. A lemma matches a
// keyword when they are equal, or, for keywords longer than three letters,
// when one contains the other.
func (p *Parser) prioritize(cands []Candidate) []Candidate {
	if len(p.keywords) == 0 || len(cands) == 0 {
		return cands
	}
	matched := make([]Candidate, 0, len(cands))
	var rest []Candidate
	for _, c := range cands {
		if p.matches(c.Lemma) {
			matched = append(matched, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(matched, rest...)
}

func (p *Parser) matches(lemma string) bool {
	for _, k := range p.keywords {
		if lemma == k {
			return true
		}
		if utf8.RuneCountInString(k) > 3 && (strings.Contains(lemma, k) || strings.Contains(k, lemma)) {
			return true
		}
	}
	return false
}
