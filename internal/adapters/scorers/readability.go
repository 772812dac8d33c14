package scorers

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// FleschScorer implements the readability capability with the Flesch
// reading-ease formula computed locally: 206.835 - 1.015*(words per
// sentence) - 84.6*(syllables per word). The syllable counter is a
// vowel-group approximation, so scores are close to, not identical
// with, dictionary-based implementations. Higher = easier to read.
type FleschScorer struct{}

func NewFleschScorer() *FleschScorer {
	return &FleschScorer{}
}

func (f *FleschScorer) ReadingEase(ctx context.Context, text string) (float64, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0, fmt.Errorf("readability: no words in text")
	}

	sentences := countSentences(text)
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(len(words))

	return 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord, nil
}

func countSentences(text string) int {
	n := 0
	inTerminator := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if !inTerminator {
				n++
				inTerminator = true
			}
		default:
			inTerminator = false
		}
	}
	return n
}

// countSyllables approximates syllables as vowel groups, with a
// silent-e correction. Every word counts as at least one syllable.
func countSyllables(word string) int {
	var letters []rune
	for _, r := range strings.ToLower(word) {
		if unicode.IsLetter(r) {
			letters = append(letters, r)
		}
	}
	if len(letters) == 0 {
		return 1
	}

	groups := 0
	prevVowel := false
	for _, r := range letters {
		v := isVowel(r)
		if v && !prevVowel {
			groups++
		}
		prevVowel = v
	}

	if groups > 1 && letters[len(letters)-1] == 'e' && !isVowel(letters[len(letters)-2]) {
		groups--
	}

	if groups < 1 {
		return 1
	}
	return groups
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
