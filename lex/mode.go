package lex

import "fmt"

// LexMode is the lexer automaton's state at a line boundary. It is the
// value threaded from one line's tail into the next line's head by the
// incremental update algorithm in state.go.
type LexMode int

const (
	ModeDefault LexMode = iota
	ModeComment
	ModeText
	ModeQuotedIdentifier
)

func (m LexMode) String() string {
	switch m {
	case ModeDefault:
		return "Default"
	case ModeComment:
		return "Comment"
	case ModeText:
		return "Text"
	case ModeQuotedIdentifier:
		return "QuotedIdentifier"
	default:
		return fmt.Sprintf("LexMode(%d)", int(m))
	}
}
