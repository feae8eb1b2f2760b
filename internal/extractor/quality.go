package extractor

import (
	"regexp"
	"strings"
	"unicode"
)

// textQuality returns the ratio of basic ASCII readable characters to total
// characters, 0.0-1.0. unicode.IsLetter is too broad here: it accepts the
// accented garbage produced by identity-encoded fonts.
func textQuality(text string) float64 {
	total := 0
	readable := 0
	for _, r := range text {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(".,-/:;()'\"$%&@#!?+=*", r) {
			readable++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// commonWords appear on virtually every card statement page.
var commonWords = []string{
	"card", "statement", "balance", "date", "payment", "credit", "limit",
	"amount", "transaction", "due", "posting", "description", "total", "page",
}

func containsCommonWords(text string) bool {
	lower := strings.ToLower(text)
	for _, word := range commonWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// IsReadableText reports whether decoded page text looks like real statement
// text rather than binary garbage: more than 20 characters, more than 60%
// readable ASCII and at least one expected word.
func IsReadableText(text string) bool {
	if len(strings.TrimSpace(text)) <= 20 {
		return false
	}
	if textQuality(text) <= 0.6 {
		return false
	}
	return containsCommonWords(text)
}

var (
	ocrSemicolonDecimal = regexp.MustCompile(`(\d);(\s*)(\d)`)
	ocrColonDecimal     = regexp.MustCompile(`(\d):(\d{2})\b`)
)

// sanitizeOCRAmounts fixes Tesseract misreading the decimal point in
// amounts: "1,234; 56" -> "1,234.56", "19,720:15" -> "19,720.15".
func sanitizeOCRAmounts(text string) string {
	text = ocrSemicolonDecimal.ReplaceAllString(text, "$1.$3")
	return ocrColonDecimal.ReplaceAllString(text, "$1.$2")
}
