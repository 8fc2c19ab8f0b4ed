// Package id generates prefixed unique identifiers for storage rows.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// BodyLength is the number of NanoID characters after the prefix.
// Internal identifiers have a fixed total length of len(prefix)+1+BodyLength,
// which is what makes format-based recognition of internal IDs possible.
const BodyLength = 21

// Well-known prefixes.
const (
	PrefixUser  = "usr"
	PrefixQuote = "qte"
	PrefixPhoto = "pht"
)

// Generate creates a prefixed unique ID using NanoID.
// Format: prefix-nanoid (e.g., "usr-V1StGXR8_Z5jdHi6B-myT").
//
// NanoIDs are URL-friendly, compact (21 characters vs UUID's 36),
// and use a larger alphabet for better entropy per character.
//
// Returns an error if the system has insufficient entropy for secure random
// generation.
func Generate(prefix string) (string, error) {
	body, err := gonanoid.New(BodyLength)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + body, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
// Use this only when you're certain system entropy is available, or when
// failure should crash the program (e.g., during seeding).
func MustGenerate(prefix string) string {
	v, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return v
}
