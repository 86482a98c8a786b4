package polish

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadabilityEmptyText(t *testing.T) {
	assert.Equal(t, 0.0, ReadabilityScore(""))
	assert.Equal(t, 0.0, ReadabilityScore("   \n\t  "))
}

func TestReadabilitySimpleTextScoresHigher(t *testing.T) {
	simple := "The cat sat on the mat. The dog ran to the park. We had fun."
	dense := "Notwithstanding considerable organizational complexities, interdisciplinary collaboration facilitates unprecedented technological innovation contingent upon institutional infrastructure."

	assert.Greater(t, ReadabilityScore(simple), ReadabilityScore(dense))
}

func TestReadabilityClampedToRange(t *testing.T) {
	// Extremely long unpunctuated text drives the raw formula negative.
	long := strings.Repeat("incomprehensibility ", 200)
	score := ReadabilityScore(long)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)

	short := "Go. Run. Hide."
	score = ReadabilityScore(short)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestCountSyllables(t *testing.T) {
	cases := map[string]int{
		"cat":      1,
		"water":    2,
		"syllable": 3,
		"idea":     2,
		"make":     1,
		"a":        1,
	}
	for word, want := range cases {
		assert.Equal(t, want, countSyllables(word), "word %q", word)
	}
}

func TestVisibleLength(t *testing.T) {
	assert.Equal(t, 0, visibleLength("  \n\t "))
	assert.Equal(t, 5, visibleLength(" he llo "))
}
