// Package prompt turns markdown prompt files into the text sent to a model.
package prompt

import "strings"

// Normalize drops leading blank lines, then drops the first remaining line if
// it starts with '#' (a markdown title), and trims the result. Only one title
// line is ever removed.
func Normalize(content string) string {
	lines := strings.SplitAfter(content, "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), "#") {
		lines = lines[1:]
	}

	return strings.TrimSpace(strings.Join(lines, ""))
}
