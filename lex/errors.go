package lex

import (
	"fmt"
	"strings"

	"github.com/lukeod/qlex/lex/token"
)

// ErrorKind is the closed set of lex-error variants a line lexer or
// snapshot builder can report. Every variant carries a source position;
// none of them is raised for a programming bug (see InvariantError, which
// is deliberately excluded from this enum because it never crosses the
// Result-like envelope these kinds live in — it panics instead).
type ErrorKind int

const (
	UnexpectedEof ErrorKind = iota
	UnexpectedRead
	ExpectedHexLiteral
	ExpectedKeywordOrIdentifier
	ExpectedNumericLiteral
	UnterminatedMultilineToken
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedEof:
		return "UnexpectedEof"
	case UnexpectedRead:
		return "UnexpectedRead"
	case ExpectedHexLiteral:
		return "ExpectedHexLiteral"
	case ExpectedKeywordOrIdentifier:
		return "ExpectedKeywordOrIdentifier"
	case ExpectedNumericLiteral:
		return "ExpectedNumericLiteral"
	case UnterminatedMultilineToken:
		return "UnterminatedMultilineToken"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// UnterminatedKind names which construct was left open when
// UnterminatedMultilineToken is reported.
type UnterminatedKind int

const (
	UnterminatedMultilineComment UnterminatedKind = iota
	UnterminatedString
	UnterminatedQuotedIdentifier
)

func (k UnterminatedKind) String() string {
	switch k {
	case UnterminatedMultilineComment:
		return "MultilineComment"
	case UnterminatedString:
		return "String"
	case UnterminatedQuotedIdentifier:
		return "QuotedIdentifier"
	default:
		return fmt.Sprintf("UnterminatedKind(%d)", int(k))
	}
}

// lineError is the lightweight error value a line lexer attaches to a Line.
// It is expressed in line-relative code units because a line lexer never
// sees the rest of the text; ErrorEntry.Position (grapheme-accurate, line-
// number-qualified) is only computable once the line is known, which is
// why lineError is promoted to an ErrorEntry at snapshot time instead of
// carrying a GraphemePosition itself.
type lineError struct {
	kind          ErrorKind
	unterminated  UnterminatedKind
	lineCodeUnit  int
	message       string
}

func (e *lineError) Error() string {
	return e.message
}

// ErrorEntry is one affected site within a LexerError.
type ErrorEntry struct {
	Kind         ErrorKind
	Unterminated UnterminatedKind // meaningful only when Kind == UnterminatedMultilineToken
	Position     token.GraphemePosition
	Message      string
}

func (e ErrorEntry) String() string {
	if e.Kind == UnterminatedMultilineToken {
		return fmt.Sprintf("%s(%s) at %s: %s", e.Kind, e.Unterminated, e.Position, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Position, e.Message)
}

// LexerError aggregates every affected site discovered while building a
// snapshot. A snapshot attempt never returns a partial result: either every
// line lexes cleanly and TryFrom returns a Snapshot, or it returns a
// LexerError listing every site, lex errors are never silently dropped.
type LexerError struct {
	Entries []ErrorEntry
}

func (e *LexerError) Error() string {
	if len(e.Entries) == 1 {
		return e.Entries[0].String()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d lex errors:", len(e.Entries))
	for _, entry := range e.Entries {
		b.WriteString("\n  ")
		b.WriteString(entry.String())
	}
	return b.String()
}

// InvariantError signals a corrupted internal state — a programming bug,
// never an expected outcome of lexing user input. It is raised with panic
// rather than folded into ErrorKind/LexerError: an invariant violation
// must not be silently swallowed by the same envelope that carries
// ordinary, recoverable lex errors.
type InvariantError struct {
	Message string
}

func (e *InvariantError) Error() string {
	return "qlex: invariant violated: " + e.Message
}

func panicInvariant(format string, args ...interface{}) {
	panic(&InvariantError{Message: fmt.Sprintf(format, args...)})
}
