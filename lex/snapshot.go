package lex

import "github.com/lukeod/qlex/lex/token"

// Snapshot is an immutable, point-in-time tokenization of a State's full
// text, intended for a downstream parser. Multiple snapshots may coexist
// and outlive the State they were built from.
type Snapshot struct {
	Text            string
	Tokens          []token.Token
	Comments        []token.Comment
	LineTerminators []token.LineTerminator
}

type flatEntry struct {
	line     int
	tok      token.LineToken
	absStart token.Position
	absEnd   token.Position
}

// flatten concatenates every line's text+terminator and reindexes each
// line's tokens with absolute positions.
func flatten(lines []Line) ([]flatEntry, []token.LineTerminator, string) {
	var entries []flatEntry
	terms := make([]token.LineTerminator, 0, len(lines))
	fullText := joinLines(lines)

	codeUnit := 0
	for i, l := range lines {
		lineStart := codeUnit
		for _, t := range l.Tokens {
			entries = append(entries, flatEntry{
				line: i,
				tok:  t,
				absStart: token.Position{
					CodeUnit:     lineStart + t.PositionStart,
					LineCodeUnit: t.PositionStart,
					LineNumber:   i,
				},
				absEnd: token.Position{
					CodeUnit:     lineStart + t.PositionEnd,
					LineCodeUnit: t.PositionEnd,
					LineNumber:   i,
				},
			})
		}
		codeUnit += utf16Len(l.Text)
		terms = append(terms, token.LineTerminator{CodeUnit: codeUnit, Text: l.Terminator})
		codeUnit += utf16Len(l.Terminator)
	}
	return entries, terms, fullText
}

// TryFrom builds an immutable Snapshot from a State: it flattens every
// line's tokens into absolute positions, then stitches multiline fragments
// back into whole tokens and comments. It either returns a fully valid
// Snapshot or a LexerError listing every affected site — never a partial
// result.
func TryFrom(st *State) (*Snapshot, *LexerError) {
	lines := st.lines
	flat, terms, fullText := flatten(lines)

	var errEntries []ErrorEntry
	for i, l := range lines {
		if l.Status.HasError() && l.Err != nil {
			errEntries = append(errEntries, ErrorEntry{
				Kind:         l.Err.kind,
				Unterminated: l.Err.unterminated,
				Position:     graphemePosition(i, l.Text, l.Err.lineCodeUnit),
				Message:      l.Err.message,
			})
		}
	}
	if len(errEntries) > 0 {
		return nil, &LexerError{Entries: errEntries}
	}

	tokens, comments, stitchErrs := stitch(flat, lines)
	if len(stitchErrs) > 0 {
		return nil, &LexerError{Entries: stitchErrs}
	}

	return &Snapshot{
		Text:            fullText,
		Tokens:          tokens,
		Comments:        comments,
		LineTerminators: terms,
	}, nil
}

// stitch walks the flat token stream and reassembles line-confined
// fragments into whole Tokens and Comments.
func stitch(flat []flatEntry, lines []Line) ([]token.Token, []token.Comment, []ErrorEntry) {
	var tokens []token.Token
	var comments []token.Comment
	var errs []ErrorEntry

	i := 0
	for i < len(flat) {
		e := flat[i]
		switch e.tok.Kind {
		case token.LineComment:
			comments = append(comments, token.Comment{
				Kind:            token.CommentLine,
				Data:            e.tok.Data,
				ContainsNewline: true,
				PositionStart:   e.absStart,
				PositionEnd:     e.absEnd,
			})
			i++

		case token.MultilineComment:
			comments = append(comments, token.Comment{
				Kind:            token.CommentMultiline,
				Data:            e.tok.Data,
				ContainsNewline: e.absStart.LineNumber != e.absEnd.LineNumber,
				PositionStart:   e.absStart,
				PositionEnd:     e.absEnd,
			})
			i++

		case token.MultilineCommentStart:
			data, end, j, ok := collectFragment(flat, lines, i, token.MultilineCommentContent, token.MultilineCommentEnd)
			if !ok {
				errs = append(errs, unterminatedEntry(e, lines, UnterminatedMultilineComment))
				i = len(flat)
				continue
			}
			comments = append(comments, token.Comment{
				Kind:            token.CommentMultiline,
				Data:            data,
				ContainsNewline: true,
				PositionStart:   e.absStart,
				PositionEnd:     end.absEnd,
			})
			i = j + 1

		case token.TextLiteralStart:
			data, end, j, ok := collectFragment(flat, lines, i, token.TextLiteralContent, token.TextLiteralEnd)
			if !ok {
				errs = append(errs, unterminatedEntry(e, lines, UnterminatedString))
				i = len(flat)
				continue
			}
			tokens = append(tokens, token.Token{
				Kind:          token.TokenTextLiteral,
				Data:          data,
				PositionStart: e.absStart,
				PositionEnd:   end.absEnd,
			})
			i = j + 1

		case token.QuotedIdentifierStart:
			data, end, j, ok := collectFragment(flat, lines, i, token.QuotedIdentifierContent, token.QuotedIdentifierEnd)
			if !ok {
				errs = append(errs, unterminatedEntry(e, lines, UnterminatedQuotedIdentifier))
				i = len(flat)
				continue
			}
			tokens = append(tokens, token.Token{
				Kind:          token.TokenIdentifier,
				Data:          data,
				PositionStart: e.absStart,
				PositionEnd:   end.absEnd,
			})
			i = j + 1

		case token.MultilineCommentContent, token.MultilineCommentEnd,
			token.TextLiteralContent, token.TextLiteralEnd,
			token.QuotedIdentifierContent, token.QuotedIdentifierEnd:
			panicInvariant("stitch: encountered %s outside of its fragment's Start", e.tok.Kind)

		default:
			tokens = append(tokens, token.Token{
				Kind:          token.ProjectLineTokenKind(e.tok.Kind),
				Data:          e.tok.Data,
				PositionStart: e.absStart,
				PositionEnd:   e.absEnd,
			})
			i++
		}
	}

	return tokens, comments, errs
}

// collectFragment gathers the Data of a *Start fragment at flat[start],
// every contiguous *Content fragment that follows it, and its terminating
// *End fragment, joining them with the verbatim line terminators that
// separated them in the source. It reports ok=false if the stream runs out
// before an *End fragment of the matching kind appears.
func collectFragment(flat []flatEntry, lines []Line, start int, contentKind, endKind token.LineTokenKind) (data string, end flatEntry, next int, ok bool) {
	e := flat[start]
	data = e.tok.Data
	prevLine := e.line
	j := start + 1
	for j < len(flat) && flat[j].tok.Kind == contentKind {
		data += lines[prevLine].Terminator + flat[j].tok.Data
		prevLine = flat[j].line
		j++
	}
	if j >= len(flat) || flat[j].tok.Kind != endKind {
		return "", flatEntry{}, j, false
	}
	if flat[j].line != prevLine {
		data += lines[prevLine].Terminator
	}
	data += flat[j].tok.Data
	return data, flat[j], j, true
}

func unterminatedEntry(start flatEntry, lines []Line, kind UnterminatedKind) ErrorEntry {
	return ErrorEntry{
		Kind:         UnterminatedMultilineToken,
		Unterminated: kind,
		Position:     graphemePosition(start.line, lines[start.line].Text, start.tok.PositionStart),
		Message:      "unterminated " + kind.String(),
	}
}
