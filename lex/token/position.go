package token

import "fmt"

// Position is an absolute source location, measured in UTF-16 code units to
// match the code-unit addressing the M lexer's incremental update algorithm
// was designed around.
type Position struct {
	// CodeUnit is the offset from the start of the full text.
	CodeUnit int
	// LineCodeUnit is the offset from the start of the containing line.
	LineCodeUnit int
	// LineNumber is zero-based.
	LineNumber int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.LineNumber, p.LineCodeUnit)
}

// Less reports whether p sorts strictly before other by absolute code unit.
func (p Position) Less(other Position) bool {
	return p.CodeUnit < other.CodeUnit
}

// GraphemePosition is a source location suitable for human-facing
// diagnostics: ColumnNumber counts extended grapheme clusters, not code
// units, from the start of the line.
type GraphemePosition struct {
	LineNumber   int
	LineCodeUnit int
	ColumnNumber int
}

func (p GraphemePosition) String() string {
	return fmt.Sprintf("line %d, column %d", p.LineNumber+1, p.ColumnNumber+1)
}

// LineTerminator records the verbatim terminator text for one line plus its
// absolute starting offset, so the original text can be reproduced exactly
// by concatenating every line's text with its terminator.
type LineTerminator struct {
	CodeUnit int
	Text     string
}

// Recognized line terminator spellings. The empty string is reserved for
// the final line of a text, which has no terminator.
const (
	TerminatorCRLF = "\r\n"
	TerminatorLF   = "\n"
	TerminatorCR   = "\r"
	TerminatorNone = ""
)
