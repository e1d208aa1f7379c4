package catalog

import (
	"sort"
	"strings"
)

// Scoring weights. The absolute values matter only relative to each
// other, but they are kept stable so ranked orderings do not churn
// between releases.
const (
	scorePrefix       = 100 // text starts with the whole query
	scoreSubstring    = 60  // text contains the whole query
	scoreToken        = 10  // text contains a query token
	scoreCloseToken   = 6   // a word of text is one edit away from a token
	scoreFullCoverage = 20  // every token matched by containment
)

// minCloseTokenLen guards the typo fallback: tokens shorter than this
// match too much under a one-edit budget ("cat" vs "car").
const minCloseTokenLen = 4

// Query is a parsed, normalized search query.
type Query struct {
	Normalized string
	Tokens     []string
}

// ParseQuery normalizes raw input into a Query. A Query with an empty
// Normalized field matches nothing.
func ParseQuery(raw string) Query {
	n := NormalizeText(raw)
	return Query{
		Normalized: n,
		Tokens:     Tokenize(n),
	}
}

// IsEmpty reports whether the query has no matchable content.
func (q Query) IsEmpty() bool {
	return q.Normalized == ""
}

// IsCloseMatch reports whether a and b are within a single character
// edit (insertion, deletion, or substitution) of each other. Strings
// whose lengths differ by more than one are rejected before any scan.
func IsCloseMatch(a, b string) bool {
	la, lb := len(a), len(b)
	if la-lb > 1 || lb-la > 1 {
		return false
	}
	if la > lb {
		a, b = b, a
		la, lb = lb, la
	}

	// a is now the shorter (or equal) string. A single pass suffices
	// for an exact distance-1 decision: on the first mismatch, spend
	// the one edit as a substitution (equal lengths) or a skip in the
	// longer string, then the remainders must match.
	i, j, edits := 0, 0, 0
	for i < la && j < lb {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		edits++
		if edits > 1 {
			return false
		}
		if la == lb {
			i++
		}
		j++
	}
	edits += (la - i) + (lb - j)
	return edits <= 1
}

// ScoreText scores pre-normalized text against a parsed query. Zero
// means no affinity; callers should filter with Eligible first so that
// non-matches are dropped rather than ranked at zero.
func ScoreText(text string, q Query) int {
	score := 0
	if q.Normalized != "" {
		if strings.HasPrefix(text, q.Normalized) {
			score += scorePrefix
		}
		if strings.Contains(text, q.Normalized) {
			score += scoreSubstring
		}
	}

	var words []string
	allContained := len(q.Tokens) > 0
	for _, tok := range q.Tokens {
		if strings.Contains(text, tok) {
			score += scoreToken
			continue
		}
		allContained = false
		if len(tok) < minCloseTokenLen {
			continue
		}
		if words == nil {
			words = Tokenize(text)
		}
		for _, w := range words {
			if IsCloseMatch(w, tok) {
				score += scoreCloseToken
				break
			}
		}
	}
	if allContained {
		score += scoreFullCoverage
	}
	return score
}

// Eligible reports whether pre-normalized text qualifies for scoring:
// it must contain the full query, contain at least one token, or have
// a word within one edit of a token.
func Eligible(text string, q Query) bool {
	if q.IsEmpty() {
		return false
	}
	if strings.Contains(text, q.Normalized) {
		return true
	}
	var words []string
	for _, tok := range q.Tokens {
		if strings.Contains(text, tok) {
			return true
		}
		if len(tok) < minCloseTokenLen {
			continue
		}
		if words == nil {
			words = Tokenize(text)
		}
		for _, w := range words {
			if IsCloseMatch(w, tok) {
				return true
			}
		}
	}
	return false
}

// Match pairs an item with its relevance score.
type Match[T any] struct {
	Item  T
	Score int
}

// Rank filters items to those eligible for the query, scores them, and
// returns the top k by descending score. Ties keep input order (stable
// sort). An empty query returns an empty result. The bonus function may
// be nil; when set, its value is added to each eligible item's score
// before sorting (e.g. a popularity nudge).
func Rank[T any](items []T, textOf func(T) string, q Query, k int, bonus func(T) int) []Match[T] {
	matches := []Match[T]{}
	if q.IsEmpty() || k <= 0 {
		return matches
	}

	for _, item := range items {
		text := NormalizeText(textOf(item))
		if !Eligible(text, q) {
			continue
		}
		score := ScoreText(text, q)
		if bonus != nil {
			score += bonus(item)
		}
		matches = append(matches, Match[T]{Item: item, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}
