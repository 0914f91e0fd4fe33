// Package namenorm canonicalizes personal and institution names for matching.
//
// All matching in the engine runs on normalized tokens: lowercased, accents
// stripped, hyphens folded to spaces, punctuation removed. Normalization is
// idempotent, so normalized values can be re-normalized safely.
package namenorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes characters and removes combining marks, so that
// "Núñez" and "Nunez" normalize identically.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// hyphenLike characters are folded to spaces before punctuation removal, so
// "Acin-Perez" tokenizes the same as "Acin Perez".
const hyphenLike = "-‐‑‒–—"

// Normalize lowercases a name, strips diacritics, folds hyphen-like
// characters to spaces, drops everything that is not a letter, digit, or
// space, and collapses whitespace.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case strings.ContainsRune(hyphenLike, r):
			b.WriteRune(' ')
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits a normalized name into tokens, dropping empty ones.
func Tokenize(name string) []string {
	return strings.Fields(Normalize(name))
}

// commonInstitutionWords are generic institutional terms (English and
// Spanish) dropped before matching, so that matching is driven by the
// distinctive words of an institution name only.
var commonInstitutionWords = map[string]bool{
	"universidad": true,
	"university":  true,
	"college":     true,
	"institute":   true,
	"instituto":   true,
	"institut":    true,
	"facultad":    true,
	"faculty":     true,
	"escuela":     true,
	"school":      true,
	"politecnica": true,
	"autonoma":    true,
	"superior":    true,
	"council":     true,
}

// NormalizeInstitution normalizes an institution name and drops common
// filler words, returning the remaining tokens.
func NormalizeInstitution(name string) []string {
	tokens := Tokenize(name)
	filtered := tokens[:0]
	for _, t := range tokens {
		if !commonInstitutionWords[t] {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// InstitutionOverlap reports whether the two institution strings share at
// least one distinctive token after normalization.
func InstitutionOverlap(a, b string) bool {
	aTokens := NormalizeInstitution(a)
	if len(aTokens) == 0 {
		return false
	}
	bTokens := NormalizeInstitution(b)
	for _, t := range aTokens {
		for _, u := range bTokens {
			if t == u {
				return true
			}
		}
	}
	return false
}
