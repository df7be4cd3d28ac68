package deck

import (
	"fmt"
	"strconv"
	"strings"
)

// LineKind discriminates the three shapes a deck file line can take.
type LineKind int

const (
	// LineEntry is a parseable "<quantity> <card name>" line.
	LineEntry LineKind = iota
	// LineBlank is an empty or whitespace-only separator line.
	LineBlank
	// LineOpaque is any other line, preserved verbatim and excluded
	// from parsed entries.
	LineOpaque
)

// Line is a single deck file line. Raw always holds the original text
// (without trailing newline) so serialization is lossless.
type Line struct {
	Kind     LineKind
	Quantity int
	Name     string
	Raw      string
}

// ParseLine classifies a single line of deck text.
func ParseLine(raw string) Line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Line{Kind: LineBlank, Raw: raw}
	}

	parts := strings.SplitN(trimmed, " ", 2)
	if len(parts) != 2 {
		return Line{Kind: LineOpaque, Raw: raw}
	}

	quantity, err := strconv.Atoi(parts[0])
	if err != nil {
		return Line{Kind: LineOpaque, Raw: raw}
	}

	return Line{Kind: LineEntry, Quantity: quantity, Name: parts[1], Raw: raw}
}

// NewEntry builds an entry line with canonical "<quantity> <name>" text.
func NewEntry(quantity int, name string) Line {
	return Line{
		Kind:     LineEntry,
		Quantity: quantity,
		Name:     name,
		Raw:      fmt.Sprintf("%d %s", quantity, name),
	}
}
