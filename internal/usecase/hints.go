package usecase

import (
	"regexp"
	"strings"

	"github.com/specforms/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	lineBreakRegex  = regexp.MustCompile(`\r\n|\n|\r`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// NormalizeKey lower-cases s and replaces every whitespace run with a single hyphen.
// "Battery  Life" becomes "battery-life".
func NormalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespaceRegex.ReplaceAllString(s, "-")
}

// ParseHints parses a free-text cell of "key = value" lines.
// Lines without "=" or with an empty side are dropped; later duplicates win.
func ParseHints(text string) domain.HintMap {
	hints := make(domain.HintMap)
	if strings.TrimSpace(text) == "" {
		return hints
	}

	for _, line := range lineBreakRegex.Split(text, -1) {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = NormalizeKey(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		hints[key] = value
	}

	return hints
}

// SplitLines splits a multi-value cell on line breaks, trimming items and dropping blanks
func SplitLines(cell string) []string {
	return splitTrimmed(lineBreakRegex.Split(cell, -1))
}

// SplitEnum splits a comma-separated option list, trimming items and dropping blanks
func SplitEnum(cell string) []string {
	return splitTrimmed(strings.Split(cell, ","))
}

func splitTrimmed(parts []string) []string {
	var items []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
