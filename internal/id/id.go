// Package id generates prefixed NanoID identifiers for domain entities.
package id

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Entity prefixes. The prefix makes IDs self-describing in logs and
// API payloads (e.g. "prod-V1StGXR8_Z5jdHi6B-myT").
const (
	PrefixUser     = "usr"
	PrefixSeller   = "sel"
	PrefixRegion   = "reg"
	PrefixProduct  = "prod"
	PrefixCategory = "cat"
	PrefixSession  = "ses"
)

// Generate creates a prefixed unique ID using NanoID.
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure
// random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use only where failure should crash the program, such as seeding.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// HasPrefix reports whether id carries the given entity prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"-")
}
