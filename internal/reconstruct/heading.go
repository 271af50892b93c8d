package reconstruct

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxHeadingRunes is the length cutoff for heading candidates; real
// section titles in extracted documents are short.
const maxHeadingRunes = 70

// LooksLikeHeading reports whether text has the shape of a section
// title: short, no terminal sentence punctuation, and either all-caps
// or title-case. The decision is purely shape-based; no font or layout
// information is consulted.
func LooksLikeHeading(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if utf8.RuneCountInString(text) >= maxHeadingRunes {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	if strings.ContainsRune(sentenceEnders, last) {
		return false
	}
	return isAllCaps(text) || isTitleCase(text)
}

// isAllCaps reports whether every alphabetic rune is uppercase. Text
// with no letters at all does not qualify.
func isAllCaps(text string) bool {
	hasLetter := false
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		hasLetter = true
	}
	return hasLetter
}

// isTitleCase reports whether every word is capitalized: one-rune words
// must be uppercase, longer words need an uppercase first rune and a
// lowercase remainder.
func isTitleCase(text string) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		runes := []rune(w)
		if len(runes) == 1 {
			if !unicode.IsUpper(runes[0]) {
				return false
			}
			continue
		}
		if !unicode.IsUpper(runes[0]) || !isLowerTail(runes[1:]) {
			return false
		}
	}
	return true
}

// isLowerTail reports whether the remainder of a word reads as
// lowercase: at least one cased rune, and no uppercase or titlecase
// runes anywhere. Uncased runes (digits, hyphens) are ignored.
func isLowerTail(runes []rune) bool {
	hasCased := false
	for _, r := range runes {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsLower(r) {
			hasCased = true
		}
	}
	return hasCased
}
