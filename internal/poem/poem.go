// Package poem holds the pure text checks that decide whether a chat
// message is plausible 飞花令 material. No I/O, no external calls.
package poem

import "strings"

const (
	minPhraseRunes = 3
	maxPhraseRunes = 20
)

// numeralRunes are the characters used to write numbers in words.
// A phrase built only from these (一百二十 …) is never a poem line.
const numeralRunes = "一二三四五六七八九十百千万零"

// fillerPhrases is an exact-match denylist of common chat filler that
// survives the other checks.
var fillerPhrases = map[string]struct{}{
	"哈哈哈":  {},
	"呵呵呵":  {},
	"嘿嘿嘿":  {},
	"好的好的": {},
	"知道了":  {},
	"明白了":  {},
	"收到收到": {},
	"没问题":  {},
	"可以的":  {},
	"谢谢谢":  {},
	"不客气":  {},
	"再见再见": {},
}

// IsHanChar reports whether r falls in the CJK Unified Ideographs block.
func IsHanChar(r rune) bool {
	return r >= 0x4e00 && r <= 0x9fff
}

// Normalize strips every rune outside the ideographic range. The result is
// the phrase key used for duplicate detection.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if IsHanChar(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContainsTarget reports whether the raw text contains the target character
// literally, before any normalization.
func ContainsTarget(text, targetChar string) bool {
	return strings.Contains(text, targetChar)
}

// IsPlausible classifies raw text as syntactically plausible poem material.
// Checks run cheapest first; the filler denylist is an exact-match safety
// net at the end, not a substring filter.
func IsPlausible(text string) bool {
	cleaned := Normalize(text)
	runes := []rune(cleaned)

	if len(runes) < minPhraseRunes || len(runes) > maxPhraseRunes {
		return false
	}
	if isNumeralSequence(runes) {
		return false
	}
	if distinctRuneCount(runes) < max(1, len(runes)/3) {
		return false
	}
	if _, banned := fillerPhrases[cleaned]; banned {
		return false
	}
	return true
}

func isNumeralSequence(runes []rune) bool {
	for _, r := range runes {
		if !strings.ContainsRune(numeralRunes, r) {
			return false
		}
	}
	return len(runes) > 0
}

func distinctRuneCount(runes []rune) int {
	seen := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		seen[r] = struct{}{}
	}
	return len(seen)
}
