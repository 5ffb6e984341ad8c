package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreAllPositive(t *testing.T) {
	store := New([]string{"profit", "growth"}, []string{"loss", "decline"})

	score := store.Score("Company reports strong profit growth")
	assert.Equal(t, 1.0, score)
}

func TestScoreAllNegative(t *testing.T) {
	store := New([]string{"profit", "growth"}, []string{"loss", "decline"})

	score := store.Score("Revenue decline amid heavy loss")
	assert.Equal(t, -1.0, score)
}

func TestScoreMixed(t *testing.T) {
	store := New([]string{"profit"}, []string{"loss", "decline"})

	// 1 positive, 2 negative -> (1-2)/3
	score := store.Score("profit offset by loss and decline")
	assert.InDelta(t, -1.0/3.0, score, 1e-9)
}

func TestScoreNeutralOnEmpty(t *testing.T) {
	store := New([]string{"profit"}, []string{"loss"})

	assert.Equal(t, 0.0, store.Score(""))
	assert.Equal(t, 0.0, store.Score("nothing financial about this sentence"))
}

func TestScoreCaseFolding(t *testing.T) {
	store := New([]string{"PROFIT"}, nil)

	assert.Equal(t, 1.0, store.Score("Record PROFIT and more Profit"))
}

func TestScoreBounds(t *testing.T) {
	store := New([]string{"up"}, []string{"down"})

	for _, text := range []string{
		"up up up", "down down", "up down", "", "up and down and up",
	} {
		score := store.Score(text)
		assert.GreaterOrEqual(t, score, -1.0, "text %q", text)
		assert.LessOrEqual(t, score, 1.0, "text %q", text)
	}
}

func TestNewRemovesOverlap(t *testing.T) {
	store := New([]string{"gain", "volatile"}, []string{"loss", "volatile"})

	assert.False(t, store.IsPositive("volatile"))
	assert.False(t, store.IsNegative("volatile"))
	assert.True(t, store.IsPositive("gain"))
	assert.True(t, store.IsNegative("loss"))

	// a term in both lists contributes no signal at all
	assert.Equal(t, 0.0, store.Score("volatile markets stay volatile"))
}

func TestLoadBundledLexicon(t *testing.T) {
	store := Load()

	pos, neg := store.Counts()
	require.Positive(t, pos)
	require.Positive(t, neg)

	// base list entries, lowercased on load
	assert.True(t, store.IsPositive("strong"))
	assert.True(t, store.IsNegative("bankruptcy"))

	// zero-marked rows belong to neither set
	assert.False(t, store.IsPositive("disclosed"))
	assert.False(t, store.IsNegative("disclosed"))

	// custom overlay entries
	assert.True(t, store.IsPositive("rally"))
	assert.True(t, store.IsNegative("bearish"))
}

func TestLoadDisjointSets(t *testing.T) {
	store := Load()

	// downgrade appears in both the base negatives and the custom
	// negative overlay, growth in both base (unassigned) and custom
	// positives; neither may end up on both sides.
	for _, term := range []string{"downgrade", "growth", "strong", "loss"} {
		assert.False(t, store.IsPositive(term) && store.IsNegative(term),
			"term %q is in both sets", term)
	}
}

func TestLoadSkipsCommentRows(t *testing.T) {
	store := Load()

	assert.False(t, store.IsPositive("# finance slang the base list misses"))
}
