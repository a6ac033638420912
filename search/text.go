package search

import "strings"

// maxSnippetLength bounds how much of a description a search result carries.
const maxSnippetLength = 300

// cleanQuery lowercases and trims a raw query string.
func cleanQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// snippet truncates a description to maxSnippetLength without splitting a
// multi-byte rune.
func snippet(description string) string {
	if len(description) <= maxSnippetLength {
		return description
	}
	runes := []rune(description)
	if len(runes) <= maxSnippetLength {
		return description
	}
	return string(runes[:maxSnippetLength])
}
