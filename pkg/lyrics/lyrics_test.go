package lyrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word     string
		expected int
	}{
		{"the", 1},
		{"fox", 1},
		{"dog.", 1},
		{"quick", 1},
		{"jumps", 1},
		{"over", 2},
		{"lazy", 2},
		{"brown", 1},
		{"processor.", 3},
		{"lyric", 2},
		{"make", 1},
		{"beautiful", 3},
		{"rhythm", 1},
		{"résumé", 2},
		{"HELLO", 2},
		{"...", 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountSyllables(tt.word))
		})
	}
}

func TestProcess(t *testing.T) {
	words, counts := Process("The quick brown fox jumps over the lazy dog.")

	assert.Equal(t, []string{"The", "quick", "brown", "fox", "jumps", "over", "the", "lazy", "dog."}, words)
	assert.Equal(t, []int{1, 1, 1, 1, 1, 2, 1, 2, 1}, counts)
	assert.Equal(t, 11, Total(counts))
}

func TestProcess_DropsTokensWithoutLetters(t *testing.T) {
	words, counts := Process("  la -- la  42 !! ")

	assert.Equal(t, []string{"la", "la"}, words)
	assert.Len(t, counts, len(words))
}

func TestProcess_Empty(t *testing.T) {
	words, counts := Process("   \n\t ")

	assert.Empty(t, words)
	assert.Empty(t, counts)
	assert.NotNil(t, words)
	assert.Equal(t, 0, Total(counts))
}
