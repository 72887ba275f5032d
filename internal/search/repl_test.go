package search

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestREPL_Run(t *testing.T) {
	t.Parallel()

	g := build(t, []string{"ease", "freedom", "difficulty", "state"},
		"ease>freedom", "ease>difficulty", "difficulty>state")
	e := newEngine(t, g, DirectionOutgoing)

	in := strings.NewReader(strings.Join([]string{
		"",
		"sim ease",
		"path ease state",
		"neigh ease",
		"sim unknown",
		"path state ease",
		"fly me",
		"exit",
		"sim ease",
	}, "\n"))
	var out bytes.Buffer

	require.NoError(t, NewREPL(e, in, &out).Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Loaded graph with 4 nodes and 3 edges")
	assert.Contains(t, got, "Words most similar to 'ease':\n- freedom/noun (score: 0.500)")
	assert.Contains(t, got, "1. ease/noun -> difficulty/noun -> state/noun")
	assert.Contains(t, got, "  1 hop away: freedom/noun, difficulty/noun\n  2 hops away: state/noun")
	assert.Contains(t, got, "No similar words found for 'unknown'")
	assert.Contains(t, got, "No paths found between 'state' and 'ease'")
	assert.Contains(t, got, replUsage)
	assert.Equal(t, 1, strings.Count(got, "Words most similar to 'ease'"), "commands after exit must not run")
}

func TestREPL_EndOfInput(t *testing.T) {
	t.Parallel()

	e := newEngine(t, build(t, []string{"a"}), DirectionOutgoing)
	var out bytes.Buffer
	require.NoError(t, NewREPL(e, strings.NewReader("neigh a"), &out).Run(context.Background()))
	assert.Contains(t, out.String(), "Semantic neighborhood of 'a/noun'")
}

func TestREPL_ExactKey(t *testing.T) {
	t.Parallel()

	e := newEngine(t, build(t, []string{"a", "b"}, "a>b"), DirectionOutgoing)
	var out bytes.Buffer
	r := NewREPL(e, nil, &out)

	assert.False(t, r.Exec("path a/noun b/noun"))
	assert.Contains(t, out.String(), "1. a/noun -> b/noun")
	assert.True(t, r.Exec("EXIT"))
}
