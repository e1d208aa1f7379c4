package catalog

import (
	"fmt"
	"time"
)

// Granularity selects the calendar window that keys a rotation.
type Granularity string

const (
	// GranularityDay rotates at UTC midnight.
	GranularityDay Granularity = "day"
	// GranularityWeek rotates at the ISO-8601 week boundary.
	GranularityWeek Granularity = "week"
)

// WindowKey returns the calendar bucket for now at the given
// granularity. Day keys are UTC dates ("2026-01-18"); week keys use the
// ISO-8601 week of the first-Thursday rule ("2026-W03"). The key is
// identical for every caller within the same window and only ever moves
// forward as now advances.
func WindowKey(g Granularity, now time.Time) string {
	now = now.UTC()
	if g == GranularityWeek {
		year, week := now.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	}
	return now.Format("2006-01-02")
}

// Seed derives a 32-bit seed from "<namespace>:<windowKey>" using the
// 32-bit FNV-1a hash. The constants are load-bearing: they keep the
// selection bit-for-bit stable across processes and releases, so every
// user sees the same rotation within a window.
func Seed(namespace, windowKey string) uint32 {
	const (
		offsetBasis uint32 = 2166136261
		prime       uint32 = 16777619
	)
	h := offsetBasis
	for i := 0; i < len(namespace); i++ {
		h ^= uint32(namespace[i])
		h *= prime
	}
	h ^= uint32(':')
	h *= prime
	for i := 0; i < len(windowKey); i++ {
		h ^= uint32(windowKey[i])
		h *= prime
	}
	return h
}

// lcg is the linear-congruential generator driving Shuffle. Each draw
// is normalized to [0,1) by dividing the 32-bit state by 2^32.
type lcg struct {
	state uint32
}

func (r *lcg) next() float64 {
	r.state = r.state*1664525 + 1013904223
	return float64(r.state) / 4294967296.0
}

// Shuffle returns a new slice holding a Fisher–Yates permutation of
// items, fully determined by (input order, seed). The input is never
// mutated.
func Shuffle[T any](items []T, seed uint32) []T {
	out := make([]T, len(items))
	copy(out, items)

	r := lcg{state: seed}
	for i := len(out) - 1; i > 0; i-- {
		j := int(r.next() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SelectRoundRobin interleaves the groups, taking the next unconsumed
// item from each group in cycling index order and skipping exhausted
// groups, until limit items are collected or every group is empty. No
// group contributes a second item before every non-empty group has
// contributed its first.
//
// If limit exceeds the total available, all items are returned; empty
// input yields an empty result.
func SelectRoundRobin[T any](groups [][]T, limit int) []T {
	out := []T{}
	if limit <= 0 || len(groups) == 0 {
		return out
	}

	remaining := 0
	for _, g := range groups {
		remaining += len(g)
	}

	pos := make([]int, len(groups))
	for idx := 0; len(out) < limit && remaining > 0; idx++ {
		g := idx % len(groups)
		if pos[g] < len(groups[g]) {
			out = append(out, groups[g][pos[g]])
			pos[g]++
			remaining--
		}
	}
	return out
}
