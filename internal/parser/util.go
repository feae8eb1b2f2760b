package parser

import (
	"regexp"
	"strings"
)

// Line shapes used by the metadata scan. All of them anchor at the start of
// a trimmed line only; trailing text is tolerated.
var (
	// 4000 XXXX XXXX 0001
	cardNumberPattern = regexp.MustCompile(`^\d{4}\sXXXX\sXXXX\s\d{4}`)
	// 1,234.56 or 25.99
	amountPattern = regexp.MustCompile(`^\d{1,3}(?:,\d{3})*\.\d{2}`)
	// DD/MM/YYYY or DD-Mon-YY / DD-Mon-YYYY
	datePattern = regexp.MustCompile(`^(?:\d{2}/\d{2}/\d{4}|\d{2}-(?i:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)-\d{2,4})`)
)

func isCardNumber(line string) bool {
	return cardNumberPattern.MatchString(line)
}

func isAmount(line string) bool {
	return amountPattern.MatchString(line)
}

func isDate(line string) bool {
	return datePattern.MatchString(line)
}

// stripThousands removes the comma grouping from an amount string.
func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

// splitLines flattens pages into one line sequence, page order first and
// line order within the page second. Blank lines are kept so that fixed
// offsets count them the same way the decoder emitted them.
func splitLines(pages []string) []string {
	var lines []string
	for _, page := range pages {
		lines = append(lines, strings.Split(page, "\n")...)
	}
	return lines
}
