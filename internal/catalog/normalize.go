// Package catalog implements the deterministic storefront algorithms:
// text normalization, fuzzy match scoring, time-windowed rotation, and
// category identity resolution. Everything here is a pure function over
// in-memory catalog records; callers own caching and data loading.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes to NFD and strips combining marks, so that
// "décor" and "decor" normalize to the same text.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText canonicalizes a display string or query for matching:
// lowercase, diacritics folded, "&" spelled out as "and", and every run
// of characters outside [a-z0-9] collapsed to a single space.
//
// The result is trimmed and idempotent: NormalizeText(NormalizeText(s))
// always equals NormalizeText(s).
func NormalizeText(s string) string {
	s = strings.ToLower(s)

	if folded, _, err := transform.String(foldMarks, s); err == nil {
		s = folded
	}

	s = strings.ReplaceAll(s, "&", "and")

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// ToSlug converts a display string to its derived slug form:
// normalized text with spaces replaced by hyphens.
//
//	"Men's Shoes" → "men-s-shoes"
func ToSlug(s string) string {
	return strings.ReplaceAll(NormalizeText(s), " ", "-")
}

// Tokenize splits normalized text into its words. Empty input yields a
// nil slice.
func Tokenize(normalized string) []string {
	return strings.Fields(normalized)
}
