package consolidator

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/insightdelivered/cc-statement-consolidator/internal/models"
)

// MaxSheetNameLength is the longest sheet name a workbook accepts.
const MaxSheetNameLength = 31

// Naming strategies for per-document sheets.
const (
	// NamingSegment uses the third underscore-separated token of the file
	// name, e.g. "Card_Statement_Jan2024.pdf" -> "<prefix>Jan2024".
	NamingSegment = "segment"
	// NamingFilename uses the file name without extension.
	NamingFilename = "filename"
	// NamingIndex numbers sheets in listing order.
	NamingIndex = "index"
)

var forbiddenSheetChars = strings.NewReplacer(
	"[", "_", "]", "_", ":", "_", "*", "_", "?", "_", "/", "_", `\`, "_",
)

// SheetNamer derives a valid, unique sheet name for each document. It is not
// safe for concurrent use; names are assigned after extraction, in listing
// order.
type SheetNamer struct {
	Strategy string
	Prefix   string

	used map[string]bool
}

// NewSheetNamer returns a namer for the given strategy. The metadata sheet
// name is reserved up front.
func NewSheetNamer(strategy, prefix string) (*SheetNamer, error) {
	switch strategy {
	case "", NamingSegment:
		strategy = NamingSegment
	case NamingFilename, NamingIndex:
	default:
		return nil, fmt.Errorf("unknown sheet naming strategy %q", strategy)
	}
	return &SheetNamer{
		Strategy: strategy,
		Prefix:   prefix,
		used:     map[string]bool{strings.ToLower(models.MetadataSheetName): true},
	}, nil
}

// Name returns the sheet name for the document at position index (0-based)
// in the listing.
func (n *SheetNamer) Name(fileName string, index int) string {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	var raw string
	switch n.Strategy {
	case NamingFilename:
		raw = n.Prefix + base
	case NamingIndex:
		raw = n.Prefix + strconv.Itoa(index+1)
	default:
		parts := strings.Split(base, "_")
		if len(parts) > 2 && parts[2] != "" {
			raw = n.Prefix + parts[2]
		} else {
			raw = n.Prefix + base
		}
	}
	return n.unique(sanitizeSheetName(raw))
}

// unique appends " (2)", " (3)"... until the name is unused. Sheet names
// compare case-insensitively.
func (n *SheetNamer) unique(name string) string {
	candidate := name
	for i := 2; n.used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		candidate = truncateRunes(name, MaxSheetNameLength-len(suffix)) + suffix
	}
	n.used[strings.ToLower(candidate)] = true
	return candidate
}

// sanitizeSheetName replaces characters a sheet name may not contain, drops
// leading and trailing apostrophes and enforces the length limit.
func sanitizeSheetName(name string) string {
	name = forbiddenSheetChars.Replace(name)
	name = strings.Trim(strings.TrimSpace(name), "'")
	name = truncateRunes(name, MaxSheetNameLength)
	if name == "" {
		return "Sheet"
	}
	return name
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
