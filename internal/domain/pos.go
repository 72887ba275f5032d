package domain

import "strings"

// PartOfSpeech represents the grammatical category of a word.
type PartOfSpeech string

const (
	PartOfSpeechNoun         PartOfSpeech = "NOUN"
	PartOfSpeechVerb         PartOfSpeech = "VERB"
	PartOfSpeechAdjective    PartOfSpeech = "ADJECTIVE"
	PartOfSpeechAdverb       PartOfSpeech = "ADVERB"
	PartOfSpeechPronoun      PartOfSpeech = "PRONOUN"
	PartOfSpeechPreposition  PartOfSpeech = "PREPOSITION"
	PartOfSpeechConjunction  PartOfSpeech = "CONJUNCTION"
	PartOfSpeechDeterminer   PartOfSpeech = "DETERMINER"
	PartOfSpeechAuxiliary    PartOfSpeech = "AUXILIARY"
	PartOfSpeechInterjection PartOfSpeech = "INTERJECTION"
	PartOfSpeechOther        PartOfSpeech = "OTHER"
)

func (p PartOfSpeech) String() string { return string(p) }

func (p PartOfSpeech) IsValid() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb,
		PartOfSpeechPronoun, PartOfSpeechPreposition, PartOfSpeechConjunction,
		PartOfSpeechDeterminer, PartOfSpeechAuxiliary, PartOfSpeechInterjection,
		PartOfSpeechOther:
		return true
	}
	return false
}

// IsContent reports whether p is one of the content-word categories that may
// become graph nodes: noun, verb, adjective, adverb.
func (p PartOfSpeech) IsContent() bool {
	switch p {
	case PartOfSpeechNoun, PartOfSpeechVerb, PartOfSpeechAdjective, PartOfSpeechAdverb:
		return true
	}
	return false
}

// posMap maps lowercase dictionary POS labels to PartOfSpeech values.
var posMap = map[string]PartOfSpeech{
	"noun":         PartOfSpeechNoun,
	"n":            PartOfSpeechNoun,
	"name":         PartOfSpeechNoun,
	"proper noun":  PartOfSpeechNoun,
	"verb":         PartOfSpeechVerb,
	"v":            PartOfSpeechVerb,
	"adjective":    PartOfSpeechAdjective,
	"adj":          PartOfSpeechAdjective,
	"adverb":       PartOfSpeechAdverb,
	"adv":          PartOfSpeechAdverb,
	"pronoun":      PartOfSpeechPronoun,
	"pron":         PartOfSpeechPronoun,
	"preposition":  PartOfSpeechPreposition,
	"prep":         PartOfSpeechPreposition,
	"conjunction":  PartOfSpeechConjunction,
	"conj":         PartOfSpeechConjunction,
	"determiner":   PartOfSpeechDeterminer,
	"det":          PartOfSpeechDeterminer,
	"article":      PartOfSpeechDeterminer,
	"auxiliary":    PartOfSpeechAuxiliary,
	"interjection": PartOfSpeechInterjection,
	"intj":         PartOfSpeechInterjection,
}

// ParsePartOfSpeech converts a dictionary POS label ("noun", "adj", "NOUN")
// to the PartOfSpeech enum. The lookup is case-insensitive. Unknown or empty
// values map to PartOfSpeechOther.
func ParsePartOfSpeech(label string) PartOfSpeech {
	label = strings.ToLower(strings.TrimSpace(label))
	if pos, ok := posMap[label]; ok {
		return pos
	}
	if p := PartOfSpeech(strings.ToUpper(label)); p.IsValid() {
		return p
	}
	return PartOfSpeechOther
}
