package parser

import (
	"strings"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

type irregularForm struct {
	lemma string
	pos   domain.PartOfSpeech
}

var irregular = map[string]irregularForm{
	"children": {"child", domain.PartOfSpeechNoun},
	"men":      {"man", domain.PartOfSpeechNoun},
	"women":    {"woman", domain.PartOfSpeechNoun},
	"people":   {"person", domain.PartOfSpeechNoun},
	"feet":     {"foot", domain.PartOfSpeechNoun},
	"teeth":    {"tooth", domain.PartOfSpeechNoun},
	"mice":     {"mouse", domain.PartOfSpeechNoun},
	"geese":    {"goose", domain.PartOfSpeechNoun},
	"lives":    {"life", domain.PartOfSpeechNoun},
	"wives":    {"wife", domain.PartOfSpeechNoun},
	"knives":   {"knife", domain.PartOfSpeechNoun},
	"leaves":   {"leaf", domain.PartOfSpeechNoun},
	"data":     {"datum", domain.PartOfSpeechNoun},

	"better": {"good", domain.PartOfSpeechAdjective},
	"best":   {"good", domain.PartOfSpeechAdjective},
	"worse":  {"bad", domain.PartOfSpeechAdjective},
	"worst":  {"bad", domain.PartOfSpeechAdjective},

	"ran":     {"run", domain.PartOfSpeechVerb},
	"gave":    {"give", domain.PartOfSpeechVerb},
	"given":   {"give", domain.PartOfSpeechVerb},
	"took":    {"take", domain.PartOfSpeechVerb},
	"taken":   {"take", domain.PartOfSpeechVerb},
	"made":    {"make", domain.PartOfSpeechVerb},
	"went":    {"go", domain.PartOfSpeechVerb},
	"gone":    {"go", domain.PartOfSpeechVerb},
	"done":    {"do", domain.PartOfSpeechVerb},
	"said":    {"say", domain.PartOfSpeechVerb},
	"found":   {"find", domain.PartOfSpeechVerb},
	"thought": {"think", domain.PartOfSpeechVerb},
	"brought": {"bring", domain.PartOfSpeechVerb},
	"bought":  {"buy", domain.PartOfSpeechVerb},
	"felt":    {"feel", domain.PartOfSpeechVerb},
	"kept":    {"keep", domain.PartOfSpeechVerb},
	"held":    {"hold", domain.PartOfSpeechVerb},
	"known":   {"know", domain.PartOfSpeechVerb},
	"knew":    {"know", domain.PartOfSpeechVerb},
	"seen":    {"see", domain.PartOfSpeechVerb},
	"written": {"write", domain.PartOfSpeechVerb},
	"wrote":   {"write", domain.PartOfSpeechVerb},
	"spoken":  {"speak", domain.PartOfSpeechVerb},
	"spoke":   {"speak", domain.PartOfSpeechVerb},
	"began":   {"begin", domain.PartOfSpeechVerb},
	"begun":   {"begin", domain.PartOfSpeechVerb},
	"chosen":  {"choose", domain.PartOfSpeechVerb},
	"lying":   {"lie", domain.PartOfSpeechVerb},
	"dying":   {"die", domain.PartOfSpeechVerb},
	"slept":   {"sleep", domain.PartOfSpeechVerb},
	"ate":     {"eat", domain.PartOfSpeechVerb},
	"eaten":   {"eat", domain.PartOfSpeechVerb},
	"drank":   {"drink", domain.PartOfSpeechVerb},
	"drunk":   {"drink", domain.PartOfSpeechVerb},
	"became":  {"become", domain.PartOfSpeechVerb},
	"caught":  {"catch", domain.PartOfSpeechVerb},
	"taught":  {"teach", domain.PartOfSpeechVerb},
	"used":    {"use", domain.PartOfSpeechVerb},
}

// stemsWithoutE are -ing/-ed stems that look like they dropped a final "e"
// but did not.
var stemsWithoutE = setOf("visit", "limit", "edit", "exit", "credit", "benefit", "profit",
	"deposit", "vomit", "omit", "open", "happen", "listen", "travel", "offer", "differ",
	"consider", "focus", "bias", "gas")

// lemmatize reduces w to its dictionary form for the given part of speech.
func lemmatize(w string, pos domain.PartOfSpeech) string {
	if f, ok := irregular[w]; ok {
		return f.lemma
	}
	switch pos {
	case domain.PartOfSpeechNoun:
		return singular(w)
	case domain.PartOfSpeechVerb:
		return verbBase(w)
	case domain.PartOfSpeechAdjective:
		if base, ok := comparativeBase(w); ok {
			return base
		}
	}
	return w
}

func singular(w string) string {
	switch {
	case len(w) <= 3:
		return w
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return strings.TrimSuffix(w, "ies") + "y"
	case strings.HasSuffix(w, "sses"),
		strings.HasSuffix(w, "xes"),
		strings.HasSuffix(w, "ches"),
		strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "zzes"):
		return strings.TrimSuffix(w, "es")
	case strings.HasSuffix(w, "ss"),
		strings.HasSuffix(w, "us"),
		strings.HasSuffix(w, "is"),
		strings.HasSuffix(w, "ous"):
		return w
	case strings.HasSuffix(w, "s"):
		return strings.TrimSuffix(w, "s")
	}
	return w
}

func verbBase(w string) string {
	switch {
	case strings.HasSuffix(w, "ied") && len(w) > 4:
		return strings.TrimSuffix(w, "ied") + "y"
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return strings.TrimSuffix(w, "ies") + "y"
	case strings.HasSuffix(w, "eed"):
		return w
	case strings.HasSuffix(w, "ing") && len(w) > 5:
		return restoreStem(strings.TrimSuffix(w, "ing"))
	case strings.HasSuffix(w, "ed") && len(w) > 3:
		return restoreStem(strings.TrimSuffix(w, "ed"))
	case strings.HasSuffix(w, "sses"),
		strings.HasSuffix(w, "ches"),
		strings.HasSuffix(w, "shes"),
		strings.HasSuffix(w, "xes"):
		return strings.TrimSuffix(w, "es")
	case strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") && len(w) > 3:
		return strings.TrimSuffix(w, "s")
	}
	return w
}

// restoreStem undoes the spelling changes of -ing and -ed: doubled final
// consonants ("running") and dropped final "e" ("providing").
func restoreStem(stem string) string {
	n := len(stem)
	if n < 3 {
		return stem + "e"
	}
	if in(stemsWithoutE, stem) {
		return stem
	}
	last, prev := stem[n-1], stem[n-2]
	if last == prev && !strings.ContainsRune("lsz", rune(last)) && !isVowel(last) {
		return stem[:n-1]
	}
	if strings.ContainsRune("cgsvz", rune(last)) && isVowel(prev) {
		return stem + "e"
	}
	if !isVowel(last) && isVowel(prev) && !isVowel(stem[n-3]) && !strings.ContainsRune("wxyrn", rune(last)) {
		return stem + "e"
	}
	return stem
}

func isVowel(b byte) bool {
	return strings.IndexByte("aeiou", b) >= 0
}
