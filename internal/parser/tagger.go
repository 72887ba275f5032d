package parser

import (
	"strings"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

var (
	adjectiveSuffixes = []string{"ous", "ful", "less", "ive", "able", "ible", "ical", "ish"}
	verbSuffixes      = []string{"ize", "ise", "ify", "ate", "ing", "ed"}
	nounSuffixes      = []string{"tion", "sion", "ment", "ness", "ity", "ance", "ence", "dom", "ship", "hood", "ism", "ist", "er", "or"}
)

// nounsWithVerbSuffix end like verbs but are nouns in definition text.
var nounsWithVerbSuffix = setOf("state", "rate", "date", "plate", "climate", "estate", "senate",
	"thing", "nothing", "king", "ring", "spring", "string", "wing", "morning", "evening",
	"feeling", "meaning", "building", "clothing", "ceiling", "bed", "need", "seed", "speed",
	"exercise", "promise", "surprise", "noise", "premise", "enterprise", "advertise",
	"comprise", "expertise", "merchandise", "paradise", "precise", "concise")

// tag assigns a part of speech to every token. defPOS is the part of speech
// of the definition the tokens came from.
func tag(tokens []string, defPOS domain.PartOfSpeech) []domain.PartOfSpeech {
	tags := make([]domain.PartOfSpeech, len(tokens))
	for i, tok := range tokens {
		if p, ok := functionWords[tok]; ok {
			tags[i] = p
			continue
		}
		if i > 0 && tokens[i-1] == "to" && defPOS == domain.PartOfSpeechVerb {
			tags[i] = domain.PartOfSpeechVerb
			continue
		}
		tags[i] = tagWord(tok)
	}
	return tags
}

// tagWord guesses a part of speech from the word alone.
func tagWord(w string) domain.PartOfSpeech {
	if p, ok := openClass[w]; ok {
		return p
	}
	if _, ok := irregular[w]; ok {
		return irregular[w].pos
	}
	if in(stopwords, w) {
		return domain.PartOfSpeechOther
	}

	if strings.HasSuffix(w, "ly") && len(w) > 4 {
		switch {
		case in(lyNouns, w):
			return domain.PartOfSpeechNoun
		case in(lyAdjectives, w):
			return domain.PartOfSpeechAdjective
		default:
			return domain.PartOfSpeechAdverb
		}
	}

	if in(nounsWithVerbSuffix, w) {
		return domain.PartOfSpeechNoun
	}
	if isComparative(w) {
		return domain.PartOfSpeechAdjective
	}
	for _, s := range nounSuffixes {
		if strings.HasSuffix(w, s) && len(w) > len(s)+2 {
			return domain.PartOfSpeechNoun
		}
	}
	for _, s := range adjectiveSuffixes {
		if strings.HasSuffix(w, s) && len(w) > len(s)+2 {
			return domain.PartOfSpeechAdjective
		}
	}
	for _, s := range verbSuffixes {
		if strings.HasSuffix(w, s) && len(w) > len(s)+2 {
			return domain.PartOfSpeechVerb
		}
	}
	return domain.PartOfSpeechNoun
}

// isComparative reports whether w is the -er or -est form of a known
// adjective, e.g. "softer" or "easiest".
func isComparative(w string) bool {
	_, ok := comparativeBase(w)
	return ok
}

func comparativeBase(w string) (string, bool) {
	for _, suf := range []string{"est", "er"} {
		if !strings.HasSuffix(w, suf) || len(w) <= len(suf)+2 {
			continue
		}
		stem := strings.TrimSuffix(w, suf)
		candidates := []string{stem, stem + "e"}
		if strings.HasSuffix(stem, "i") {
			candidates = append(candidates, strings.TrimSuffix(stem, "i")+"y")
		}
		if n := len(stem); n > 2 && stem[n-1] == stem[n-2] {
			candidates = append(candidates, stem[:n-1])
		}
		for _, c := range candidates {
			if openClass[c] == domain.PartOfSpeechAdjective {
				return c, true
			}
		}
	}
	return "", false
}
