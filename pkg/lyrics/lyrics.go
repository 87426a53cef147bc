// Package lyrics splits lyric text into words and estimates their syllable counts
package lyrics

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const vowels = "aeiouy"

var lower = cases.Lower(language.Und)

// Process splits text on whitespace and counts syllables per word.
// Tokens without any letters are dropped. len(words) == len(counts).
func Process(text string) (words []string, counts []int) {
	words = []string{}
	counts = []int{}
	for _, token := range strings.Fields(text) {
		if normalize(token) == "" {
			continue
		}
		words = append(words, token)
		counts = append(counts, CountSyllables(token))
	}
	return words, counts
}

// Total sums syllable counts
func Total(counts []int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// CountSyllables estimates the syllables in a word by counting vowel groups
func CountSyllables(word string) int {
	w := normalize(word)
	if len(w) <= 3 {
		return 1
	}
	w = strings.TrimSuffix(w, "e")

	count := 0
	prevVowel := false
	for _, r := range w {
		isVowel := strings.ContainsRune(vowels, r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if count == 0 {
		return 1
	}
	return count
}

// normalize lower-cases the word, folds accents and keeps only the letters a-z
func normalize(word string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, lower.String(word))
	if err != nil {
		folded = strings.ToLower(word)
	}

	var b strings.Builder
	for _, r := range folded {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
