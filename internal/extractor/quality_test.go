package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"statement text", "Credit Card Statement\n4000 XXXX XXXX 0001\nPayment Due Date", true},
		{"too short", "Statement", false},
		{"no statement words", "lorem ipsum dolor sit amet consectetur", false},
		{"garbage", strings.Repeat("ÃÆ¶§¤", 10) + " statement", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReadableText(tt.input))
		})
	}
}

func TestSanitizeOCRAmounts(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1,234; 56", "1,234.56"},
		{"19,720:15", "19,720.15"},
		{"1.00", "1.00"},
		{"Time 10:30", "Time 10.30"},
		{"Page 1 of 3", "Page 1 of 3"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeOCRAmounts(tt.input))
		})
	}
}
