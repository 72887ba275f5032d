package provider

import "github.com/heartmarshall/wordgraph/internal/domain"

// DictionaryResult is the structured result of a dictionary lookup.
// It is also the cached form of a lookup, so its JSON shape is part of the
// on-disk cache format.
type DictionaryResult struct {
	Word   string        `json:"word"`
	Senses []SenseResult `json:"senses"`
}

// SenseResult represents a single word sense from an external dictionary.
type SenseResult struct {
	PartOfSpeech string   `json:"part_of_speech"`
	Definition   string   `json:"definition"`
	Examples     []string `json:"examples,omitempty"`
}

// POS returns the sense's part of speech as a domain enum.
func (s SenseResult) POS() domain.PartOfSpeech {
	return domain.ParsePartOfSpeech(s.PartOfSpeech)
}

// DefinitionsFor returns the definitions of all senses with the given part
// of speech, in dictionary order.
func (r *DictionaryResult) DefinitionsFor(pos domain.PartOfSpeech) []string {
	if r == nil {
		return nil
	}
	var defs []string
	for _, s := range r.Senses {
		if s.POS() == pos && s.Definition != "" {
			defs = append(defs, s.Definition)
		}
	}
	return defs
}

// HasPOS reports whether any sense carries the given part of speech.
func (r *DictionaryResult) HasPOS(pos domain.PartOfSpeech) bool {
	if r == nil {
		return false
	}
	for _, s := range r.Senses {
		if s.POS() == pos {
			return true
		}
	}
	return false
}

// PrimaryPOS returns the part of speech of the first content-word sense,
// or false if the entry has none.
func (r *DictionaryResult) PrimaryPOS() (domain.PartOfSpeech, bool) {
	if r == nil {
		return "", false
	}
	for _, s := range r.Senses {
		if p := s.POS(); p.IsContent() {
			return p, true
		}
	}
	return "", false
}
