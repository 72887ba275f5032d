package parser

import "github.com/heartmarshall/wordgraph/internal/domain"

// stopwords are dropped before tagging. They carry no content of their own.
var stopwords = setOf(
	// articles
	"a", "an", "the",
	// prepositions
	"aboard", "about", "above", "across", "after", "against", "along", "amid", "among", "around",
	"as", "at", "before", "behind", "below", "beneath", "beside", "between", "beyond", "but",
	"by", "concerning", "considering", "despite", "down", "during", "except", "for", "from",
	"in", "inside", "into", "like", "near", "of", "off", "on", "onto", "out", "outside",
	"over", "past", "regarding", "round", "since", "through", "throughout", "to", "toward",
	"towards", "under", "underneath", "until", "unto", "up", "upon", "with", "within", "without",
	// conjunctions
	"and", "or", "nor", "so", "yet", "if", "than", "that", "though", "although", "because",
	"whether", "while", "whereas", "unless",
	// other function words
	"also", "often", "very", "just", "only", "not", "no", "yes", "well", "too", "etc",
	"usually", "especially", "typically", "sometimes", "generally",
)

// functionWords maps closed-class words to their category. Tokens found here
// never become candidates; the tagger still uses them as context.
var functionWords = map[string]domain.PartOfSpeech{}

func init() {
	for _, w := range []string{"a", "an", "the", "this", "that", "these", "those", "each", "every",
		"some", "any", "all", "both", "either", "neither", "another", "other", "such", "many", "much",
		"more", "most", "few", "several", "which", "what", "whose"} {
		functionWords[w] = domain.PartOfSpeechDeterminer
	}
	for _, w := range []string{"i", "me", "my", "you", "your", "he", "him", "his", "she", "her",
		"it", "its", "we", "us", "our", "they", "them", "their", "one", "oneself", "someone",
		"something", "somebody", "anyone", "anything", "everyone", "everything", "who", "whom",
		"itself", "himself", "herself", "themselves", "yourself"} {
		functionWords[w] = domain.PartOfSpeechPronoun
	}
	for _, w := range []string{"be", "is", "am", "are", "was", "were", "been", "being", "have",
		"has", "had", "having", "do", "does", "did", "can", "could", "may", "might", "must",
		"shall", "should", "will", "would"} {
		functionWords[w] = domain.PartOfSpeechAuxiliary
	}
	for _, w := range []string{"and", "or", "nor", "but", "yet", "so", "if", "than", "because",
		"although", "though", "whether", "while", "unless"} {
		functionWords[w] = domain.PartOfSpeechConjunction
	}
	for _, w := range []string{"of", "in", "on", "at", "by", "for", "from", "with", "to", "into",
		"onto", "about", "as", "over", "under", "through", "between", "without", "within"} {
		functionWords[w] = domain.PartOfSpeechPreposition
	}
}

// openClass lists frequent content words whose category suffixes cannot
// predict.
var openClass = map[string]domain.PartOfSpeech{
	"good": domain.PartOfSpeechAdjective, "bad": domain.PartOfSpeechAdjective,
	"free": domain.PartOfSpeechAdjective, "easy": domain.PartOfSpeechAdjective,
	"soft": domain.PartOfSpeechAdjective, "hard": domain.PartOfSpeechAdjective,
	"great": domain.PartOfSpeechAdjective, "small": domain.PartOfSpeechAdjective,
	"large": domain.PartOfSpeechAdjective, "big": domain.PartOfSpeechAdjective,
	"new": domain.PartOfSpeechAdjective, "old": domain.PartOfSpeechAdjective,
	"high": domain.PartOfSpeechAdjective, "low": domain.PartOfSpeechAdjective,
	"long": domain.PartOfSpeechAdjective, "short": domain.PartOfSpeechAdjective,
	"able": domain.PartOfSpeechAdjective, "calm": domain.PartOfSpeechAdjective,
	"quiet": domain.PartOfSpeechAdjective, "warm": domain.PartOfSpeechAdjective,
	"cold": domain.PartOfSpeechAdjective, "quick": domain.PartOfSpeechAdjective,
	"slow": domain.PartOfSpeechAdjective, "simple": domain.PartOfSpeechAdjective,
	"certain": domain.PartOfSpeechAdjective, "common": domain.PartOfSpeechAdjective,
	"same": domain.PartOfSpeechAdjective, "different": domain.PartOfSpeechAdjective,
	"particular": domain.PartOfSpeechAdjective, "whole": domain.PartOfSpeechAdjective,
	"full": domain.PartOfSpeechAdjective, "clear": domain.PartOfSpeechAdjective,

	"make": domain.PartOfSpeechVerb, "give": domain.PartOfSpeechVerb,
	"take": domain.PartOfSpeechVerb, "get": domain.PartOfSpeechVerb,
	"put": domain.PartOfSpeechVerb, "provide": domain.PartOfSpeechVerb,
	"cause": domain.PartOfSpeechVerb, "become": domain.PartOfSpeechVerb,
	"use": domain.PartOfSpeechVerb, "move": domain.PartOfSpeechVerb,
	"keep": domain.PartOfSpeechVerb, "bring": domain.PartOfSpeechVerb,
	"reduce": domain.PartOfSpeechVerb, "relieve": domain.PartOfSpeechVerb,
	"remove": domain.PartOfSpeechVerb, "allow": domain.PartOfSpeechVerb,

	"almost": domain.PartOfSpeechAdverb, "again": domain.PartOfSpeechAdverb,
	"always": domain.PartOfSpeechAdverb, "never": domain.PartOfSpeechAdverb,
	"soon": domain.PartOfSpeechAdverb, "quite": domain.PartOfSpeechAdverb,
	"rather": domain.PartOfSpeechAdverb, "together": domain.PartOfSpeechAdverb,
}

// lyNouns and lyAdjectives end in -ly without being adverbs.
var lyNouns = setOf("family", "supply", "reply", "ally", "belly", "jelly", "rally", "fly",
	"anomaly", "assembly", "monopoly", "melancholy", "butterfly", "bully")

var lyAdjectives = setOf("friendly", "lovely", "lonely", "likely", "holy", "ugly", "silly",
	"early", "daily", "weekly", "monthly", "yearly", "costly", "elderly", "only", "curly")

func setOf(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func in(set map[string]struct{}, w string) bool {
	_, ok := set[w]
	return ok
}
