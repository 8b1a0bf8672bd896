package render

import (
	"strings"

	"github.com/fogleman/gg"
)

func isBreakRune(r rune) bool {
	switch r {
	case ' ', ',', '.', '!', '?':
		return true
	}
	return false
}

// nextUnit returns the run of characters up to the next break rune.
func nextUnit(runes []rune) string {
	for i, r := range runes {
		if isBreakRune(r) {
			return string(runes[:i])
		}
	}
	return string(runes)
}

// wrapText breaks `text` into lines that fit maxWidth under the context's
// current font face. Greedy: characters are appended until a candidate line
// would overflow, with an early break at whitespace/punctuation when the
// following unit alone cannot fit. Lines are never truncated, so very long
// input just produces more of them.
func wrapText(dc *gg.Context, text string, maxWidth float64) []string {
	var lines []string
	runes := []rune(text)
	currentLine := ""

	for i := 0; i < len(runes); i++ {
		char := string(runes[i])
		testLine := currentLine + char
		width, _ := dc.MeasureString(testLine)

		if width > maxWidth && currentLine != "" {
			lines = append(lines, strings.TrimSpace(currentLine))
			currentLine = char
		} else {
			currentLine = testLine
		}

		if isBreakRune(runes[i]) && i+1 < len(runes) {
			unit := nextUnit(runes[i+1:])
			if unit != "" {
				unitWidth, _ := dc.MeasureString(currentLine + unit)
				if unitWidth > maxWidth {
					if trimmed := strings.TrimSpace(currentLine); trimmed != "" {
						lines = append(lines, trimmed)
					}
					currentLine = ""
				}
			}
		}
	}

	if trimmed := strings.TrimSpace(currentLine); trimmed != "" {
		lines = append(lines, trimmed)
	}
	return lines
}
