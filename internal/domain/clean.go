package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// cleanNumber converts a spreadsheet cell to a number. Empty cells, "-"
// placeholders, and anything that is not a plain decimal after stripping
// separators, quotes, percent signs, and whitespace all yield 0.
func cleanNumber(s string) float64 {
	if isPlaceholder(s) {
		return 0
	}

	s = strings.Map(func(r rune) rune {
		if r == ',' || r == '"' || r == '%' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if s == "" || !isDecimal(s) {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// cleanCount is cleanNumber for counts, which are never negative.
func cleanCount(s string) float64 {
	return max(cleanNumber(s), 0)
}

// cleanString trims a text cell, mapping "-" placeholders to "".
func cleanString(s string) string {
	if isPlaceholder(s) {
		return ""
	}
	return strings.TrimSpace(s)
}

func isPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "-"
}

// isDecimal rejects the inputs strconv.ParseFloat accepts beyond plain
// decimal notation: hex floats, "Inf", "NaN".
func isDecimal(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !strings.ContainsRune("0123456789.eE+-", r)
	}) < 0
}

// cleanYear drops the ".0" a spreadsheet adds when a year column is stored as
// a float, e.g. "2019.0" -> "2019".
func cleanYear(s string) string {
	s = cleanString(s)
	return strings.TrimSuffix(s, ".0")
}
