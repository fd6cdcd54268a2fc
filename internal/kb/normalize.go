package kb

import (
	"regexp"
	"strings"
)

var descLabelPattern = regexp.MustCompile(`(\d+:)`)

// CleanToDigits reduces an arbitrary cell value to its digit characters.
// Spreadsheet exports frequently hand back codes as floats ("621.0") or with
// stray punctuation; everything after the first dot is dropped, then any
// non-digit is stripped. Missing markers ("nan", blanks) become the empty
// string.
func CleanToDigits(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") {
		return ""
	}
	if idx := strings.IndexByte(trimmed, '.'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	var b strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatDescription reflows a multi-valued description field. Descriptions
// pack several settings into one cell as "0: off 1: on 2: auto"; each
// "<digits>:" label starts a new pair and the pairs are rejoined with the
// " <br> " break marker the chat UI renders. Text without labels passes
// through untouched.
func FormatDescription(text string) string {
	cleaned := strings.TrimSpace(text)
	parts := descLabelPattern.Split(cleaned, -1)
	labels := descLabelPattern.FindAllString(cleaned, -1)
	if len(labels) == 0 {
		return cleaned
	}
	formatted := make([]string, 0, len(labels))
	for i, label := range labels {
		value := ""
		if i+1 < len(parts) {
			value = strings.TrimSpace(parts[i+1])
		}
		formatted = append(formatted, label+" "+value)
	}
	return strings.Join(formatted, " <br> ")
}
