package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	chunks := Split("a short paragraph", DefaultOptions())
	require.Len(t, chunks, 1)
	assert.Equal(t, "a short paragraph", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Greater(t, chunks[0].TokenCount, 0)
}

func TestSplitEmptyText(t *testing.T) {
	assert.Empty(t, Split("", DefaultOptions()))
	assert.Empty(t, Split("   \n\n  ", DefaultOptions()))
}

func TestSplitRecursivePrefersParagraphs(t *testing.T) {
	para1 := strings.Repeat("first paragraph sentence. ", 4)
	para2 := strings.Repeat("second paragraph sentence. ", 4)
	text := para1 + "\n\n" + para2

	chunks := Split(text, Options{ChunkSize: 120, Strategy: "recursive"})
	require.GreaterOrEqual(t, len(chunks), 2)

	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 120)
	}
}

func TestSplitRecursiveIndexesSequential(t *testing.T) {
	text := strings.Repeat("some words here. ", 50)
	chunks := Split(text, Options{ChunkSize: 100, Strategy: "recursive"})
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}

func TestSplitFixedOverlap(t *testing.T) {
	text := strings.Repeat("abcdefghij", 10) // 100 runes
	chunks := Split(text, Options{ChunkSize: 40, ChunkOverlap: 10, Strategy: "fixed"})
	require.Len(t, chunks, 4) // steps of 30: 0, 30, 60, 90

	// Each chunk starts where the previous one left off minus the overlap.
	assert.Equal(t, chunks[0].Content[30:40], chunks[1].Content[:10])
}

func TestSplitFixedNoInfiniteLoop(t *testing.T) {
	// Overlap >= size would make the step non-positive; it must still finish.
	chunks := Split(strings.Repeat("x", 50), Options{ChunkSize: 10, ChunkOverlap: 10, Strategy: "fixed"})
	assert.Len(t, chunks, 5)
}

func TestSplitOversizedWordFallsBackToRuneSlices(t *testing.T) {
	text := strings.Repeat("a", 250)
	chunks := Split(text, Options{ChunkSize: 100, Strategy: "recursive"})
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 100)
	}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 1, estimateTokens(""))
	assert.Equal(t, 4, estimateTokens("one two three"))
}
