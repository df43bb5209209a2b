package validator

import "strings"

// ExtractFinalAnswer returns the last line of text whose trimmed,
// case-insensitive form starts with "answer:". Models sometimes revise
// their answer mid-response, so later occurrences win. Returns "" when no
// such line exists.
func ExtractFinalAnswer(text string) string {
	var final string
	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(strings.ToLower(stripped), "answer:") {
			final = stripped
		}
	}
	return final
}
