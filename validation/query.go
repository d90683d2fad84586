// Package validation provides user input validation and normalization
// for medicine queries before they reach any upstream service.
package validation

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxQueryLength bounds the raw query; medicine names plus strength
// never come close to this.
const MaxQueryLength = 200

// ValidateQuery checks a raw user query for basic sanity
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if len(trimmed) > MaxQueryLength {
		return fmt.Errorf("query too long: %d characters (max %d)", len(trimmed), MaxQueryLength)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return fmt.Errorf("query contains control characters")
		}
	}

	return nil
}

// NormalizeQuery prepares a query for upstream lookups: Unicode
// normalization, diacritics stripped (users paste names like
// "Nurofén"), and whitespace collapsed. Case is preserved since brand
// names are proper nouns.
func NormalizeQuery(query string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(t, query)
	if err != nil {
		normalized = query
	}

	return strings.Join(strings.Fields(normalized), " ")
}
