package provider

import (
	"testing"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

func TestDictionaryResult_DefinitionsFor(t *testing.T) {
	t.Parallel()

	r := &DictionaryResult{
		Word: "run",
		Senses: []SenseResult{
			{PartOfSpeech: "verb", Definition: "To move swiftly."},
			{PartOfSpeech: "noun", Definition: "An act of running."},
			{PartOfSpeech: "verb", Definition: "To manage."},
			{PartOfSpeech: "verb", Definition: ""},
		},
	}

	got := r.DefinitionsFor(domain.PartOfSpeechVerb)
	if len(got) != 2 || got[0] != "To move swiftly." || got[1] != "To manage." {
		t.Errorf("DefinitionsFor(VERB) = %v", got)
	}
	if got := r.DefinitionsFor(domain.PartOfSpeechAdverb); len(got) != 0 {
		t.Errorf("DefinitionsFor(ADVERB) = %v, want empty", got)
	}
}

func TestDictionaryResult_PrimaryPOS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *DictionaryResult
		want   domain.PartOfSpeech
		wantOK bool
	}{
		{name: "nil", result: nil, wantOK: false},
		{name: "no senses", result: &DictionaryResult{Word: "x"}, wantOK: false},
		{
			name: "skips function senses",
			result: &DictionaryResult{Senses: []SenseResult{
				{PartOfSpeech: "interjection", Definition: "Hi."},
				{PartOfSpeech: "noun", Definition: "A greeting."},
			}},
			want:   domain.PartOfSpeechNoun,
			wantOK: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := tt.result.PrimaryPOS()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("PrimaryPOS() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDictionaryResult_HasPOS(t *testing.T) {
	t.Parallel()

	r := &DictionaryResult{Senses: []SenseResult{{PartOfSpeech: "Adjective", Definition: "Soft."}}}
	if !r.HasPOS(domain.PartOfSpeechAdjective) {
		t.Error("HasPOS(ADJECTIVE) = false, want true")
	}
	if r.HasPOS(domain.PartOfSpeechNoun) {
		t.Error("HasPOS(NOUN) = true, want false")
	}
}
