package lex

import (
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lukeod/qlex/lex/token"
)

// LineLexResult is the result of lexing one physical line: the ordered
// tokens recognized, the mode the lexer leaves the line in (threaded into
// the next line's entry mode), and a captured error, if any. A line lexer
// never panics on malformed user input — only InvariantError can escape it,
// and only for a genuinely corrupted caller state.
type LineLexResult struct {
	Tokens  []token.LineToken
	ModeEnd LexMode
	Err     *lineError
}

// LexLine classifies one physical line into an ordered sequence of
// LineTokens, given the LexMode the lexer is entering the line in. It is a
// pure function of (text, modeStart): equal inputs always produce
// structurally equal outputs.
func LexLine(text string, modeStart LexMode) LineLexResult {
	switch modeStart {
	case ModeComment:
		return continueCommentLine(text)
	case ModeText:
		return continueQuotedLine(text, token.TextLiteralContent, token.TextLiteralEnd, ModeText)
	case ModeQuotedIdentifier:
		return continueQuotedLine(text, token.QuotedIdentifierContent, token.QuotedIdentifierEnd, ModeQuotedIdentifier)
	default:
		s := &scanner{input: text}
		return lexDefaultBody(s)
	}
}

// scanner is a rune-at-a-time cursor over one line's text, tracking both
// the byte position (for slicing the underlying string) and the UTF-16
// code-unit position (for LineToken/Position fields, which are UTF-16
// code-unit based).
type scanner struct {
	input         string
	pos           int
	start         int
	codeUnit      int
	startCodeUnit int
}

func (s *scanner) atEOF() bool { return s.pos >= len(s.input) }

// byteAt returns the raw byte offset bytes ahead of pos. It is only safe to
// use for recognizing ASCII delimiters, which is all callers use it for.
func (s *scanner) byteAt(offset int) (byte, bool) {
	i := s.pos + offset
	if i < 0 || i >= len(s.input) {
		return 0, false
	}
	return s.input[i], true
}

func (s *scanner) peekRune() (rune, bool) {
	if s.atEOF() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.pos:])
	return r, true
}

func (s *scanner) nextRune() (rune, bool) {
	if s.atEOF() {
		return 0, false
	}
	r, w := utf8.DecodeRuneInString(s.input[s.pos:])
	s.pos += w
	if cu := utf16.RuneLen(r); cu > 0 {
		s.codeUnit += cu
	} else {
		s.codeUnit++
	}
	return r, true
}

// markStart fixes the current position as the start of the next token.
func (s *scanner) markStart() {
	s.start = s.pos
	s.startCodeUnit = s.codeUnit
}

func (s *scanner) emit(kind token.LineTokenKind) token.LineToken {
	tok := token.LineToken{
		Kind:          kind,
		Data:          s.input[s.start:s.pos],
		PositionStart: s.startCodeUnit,
		PositionEnd:   s.codeUnit,
	}
	s.markStart()
	return tok
}

func (s *scanner) errorAtStart(kind ErrorKind, message string) *lineError {
	return &lineError{kind: kind, lineCodeUnit: s.startCodeUnit, message: message}
}

func (s *scanner) skipASCIIWhitespace() {
	for {
		b, ok := s.byteAt(0)
		if !ok || (b != ' ' && b != '\t' && b != '\v' && b != '\f') {
			return
		}
		s.nextRune()
	}
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierContinue(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// lexDefaultBody classifies the rest of a scanner's input as Default-mode
// tokens, skipping ASCII whitespace between them. It stops early (returning
// a non-Default ModeEnd) the moment a multiline construct opens without
// closing on this line. The scanner may already be partway through the
// line, so this also serves to resume Default-mode lexing after a
// continuation fragment closes mid-line.
func lexDefaultBody(s *scanner) LineLexResult {
	var tokens []token.LineToken

	for {
		s.skipASCIIWhitespace()
		s.markStart()
		r, ok := s.peekRune()
		if !ok {
			return LineLexResult{Tokens: tokens, ModeEnd: ModeDefault}
		}

		switch {
		case isIdentifierStart(r):
			tokens = append(tokens, s.lexIdentifierOrKeyword())

		case r == '#':
			if b, ok := s.byteAt(1); ok && b == '"' {
				s.nextRune()
				s.nextRune()
				tok, mode := s.scanQuotedBody(token.Identifier, token.QuotedIdentifierStart, ModeQuotedIdentifier)
				tokens = append(tokens, tok)
				if mode != ModeDefault {
					return LineLexResult{Tokens: tokens, ModeEnd: mode}
				}
				continue
			}
			tok, lerr := s.lexHashKeyword()
			if lerr != nil {
				return LineLexResult{Tokens: tokens, ModeEnd: ModeDefault, Err: lerr}
			}
			tokens = append(tokens, tok)

		case r == '"':
			s.nextRune()
			tok, mode := s.scanQuotedBody(token.TextLiteral, token.TextLiteralStart, ModeText)
			tokens = append(tokens, tok)
			if mode != ModeDefault {
				return LineLexResult{Tokens: tokens, ModeEnd: mode}
			}

		case r >= '0' && r <= '9':
			tok, lerr := s.lexNumber()
			if lerr != nil {
				return LineLexResult{Tokens: tokens, ModeEnd: ModeDefault, Err: lerr}
			}
			tokens = append(tokens, tok)

		case r == '/':
			if b, ok := s.byteAt(1); ok && b == '/' {
				s.nextRune()
				s.nextRune()
				for {
					if s.atEOF() {
						break
					}
					s.nextRune()
				}
				tokens = append(tokens, s.emit(token.LineComment))
			} else if b, ok := s.byteAt(1); ok && b == '*' {
				s.nextRune()
				s.nextRune()
				tok, mode := s.scanMultilineCommentBody(token.MultilineComment, token.MultilineCommentStart)
				tokens = append(tokens, tok)
				if mode != ModeDefault {
					return LineLexResult{Tokens: tokens, ModeEnd: mode}
				}
			} else {
				s.nextRune()
				tokens = append(tokens, s.emit(token.Division))
			}

		default:
			tok, lerr := s.lexOperator(r)
			if lerr != nil {
				return LineLexResult{Tokens: tokens, ModeEnd: ModeDefault, Err: lerr}
			}
			tokens = append(tokens, tok)
		}
	}
}

func (s *scanner) lexIdentifierOrKeyword() token.LineToken {
	s.nextRune()
	for {
		r, ok := s.peekRune()
		if !ok || !isIdentifierContinue(r) {
			break
		}
		s.nextRune()
	}
	lexeme := s.input[s.start:s.pos]
	if kind, ok := token.Keywords[lexeme]; ok {
		return s.emit(kind)
	}
	return s.emit(token.Identifier)
}

// lexHashKeyword handles a '#'-prefixed lexeme that is not a quoted
// identifier (#"..."): #table, #date, #shared, and the rest of the
// #-prefixed keyword table. Anything else starting with '#' is an error.
func (s *scanner) lexHashKeyword() (token.LineToken, *lineError) {
	s.nextRune() // consume '#'
	for {
		r, ok := s.peekRune()
		if !ok || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		s.nextRune()
	}
	lexeme := s.input[s.start:s.pos]
	if kind, ok := token.Keywords[lexeme]; ok {
		return s.emit(kind), nil
	}
	return token.LineToken{}, s.errorAtStart(ExpectedKeywordOrIdentifier,
		"unrecognized '#' keyword: "+lexeme)
}

// lexNumber recognizes a numeric literal: a 0x/0X hex form, or a decimal
// form with an optional fraction and optional exponent.
func (s *scanner) lexNumber() (token.LineToken, *lineError) {
	if b0, ok0 := s.byteAt(0); ok0 && b0 == '0' {
		if b1, ok1 := s.byteAt(1); ok1 && (b1 == 'x' || b1 == 'X') {
			s.nextRune()
			s.nextRune()
			digits := 0
			for {
				b, ok := s.byteAt(0)
				if !ok || !isHexDigit(b) {
					break
				}
				s.nextRune()
				digits++
			}
			if digits == 0 {
				return token.LineToken{}, s.errorAtStart(ExpectedHexLiteral, "0x must be followed by at least one hex digit")
			}
			return s.emit(token.HexLiteral), nil
		}
	}

	for {
		b, ok := s.byteAt(0)
		if !ok || b < '0' || b > '9' {
			break
		}
		s.nextRune()
	}

	if b0, ok0 := s.byteAt(0); ok0 && b0 == '.' {
		if b1, ok1 := s.byteAt(1); ok1 && b1 >= '0' && b1 <= '9' {
			s.nextRune() // '.'
			for {
				b, ok := s.byteAt(0)
				if !ok || b < '0' || b > '9' {
					break
				}
				s.nextRune()
			}
		}
	}

	if b0, ok0 := s.byteAt(0); ok0 && (b0 == 'e' || b0 == 'E') {
		lookahead := 1
		if b1, ok1 := s.byteAt(1); ok1 && (b1 == '+' || b1 == '-') {
			lookahead = 2
		}
		if b2, ok2 := s.byteAt(lookahead); ok2 && b2 >= '0' && b2 <= '9' {
			s.nextRune() // e/E
			if lookahead == 2 {
				s.nextRune() // sign
			}
			for {
				b, ok := s.byteAt(0)
				if !ok || b < '0' || b > '9' {
					break
				}
				s.nextRune()
			}
		}
	}

	return s.emit(token.NumericLiteral), nil
}

// scanQuotedBody consumes the content of a "..." or #"..." construct whose
// opening delimiter has already been consumed. A doubled quote ("") is an
// embedded literal quote, not a terminator.
func (s *scanner) scanQuotedBody(completeKind, startKind token.LineTokenKind, modeOnUnterminated LexMode) (token.LineToken, LexMode) {
	for {
		if s.atEOF() {
			return s.emit(startKind), modeOnUnterminated
		}
		b, _ := s.byteAt(0)
		if b == '"' {
			if next, ok := s.byteAt(1); ok && next == '"' {
				s.nextRune()
				s.nextRune()
				continue
			}
			s.nextRune()
			return s.emit(completeKind), ModeDefault
		}
		s.nextRune()
	}
}

// scanMultilineCommentBody consumes a /*...*/ construct whose opening
// delimiter has already been consumed.
func (s *scanner) scanMultilineCommentBody(completeKind, startKind token.LineTokenKind) (token.LineToken, LexMode) {
	for {
		if s.atEOF() {
			return s.emit(startKind), ModeComment
		}
		b0, _ := s.byteAt(0)
		if b0 == '*' {
			if b1, ok := s.byteAt(1); ok && b1 == '/' {
				s.nextRune()
				s.nextRune()
				return s.emit(completeKind), ModeDefault
			}
		}
		s.nextRune()
	}
}

func (s *scanner) lexOperator(r rune) (token.LineToken, *lineError) {
	switch r {
	case '(':
		s.nextRune()
		return s.emit(token.LeftParenthesis), nil
	case ')':
		s.nextRune()
		return s.emit(token.RightParenthesis), nil
	case '[':
		s.nextRune()
		return s.emit(token.LeftBracket), nil
	case ']':
		s.nextRune()
		return s.emit(token.RightBracket), nil
	case '{':
		s.nextRune()
		return s.emit(token.LeftBrace), nil
	case '}':
		s.nextRune()
		return s.emit(token.RightBrace), nil
	case ';':
		s.nextRune()
		return s.emit(token.Semicolon), nil
	case ',':
		s.nextRune()
		return s.emit(token.Comma), nil
	case '@':
		s.nextRune()
		return s.emit(token.AtSign), nil
	case '?':
		s.nextRune()
		return s.emit(token.QuestionMark), nil
	case '+':
		s.nextRune()
		return s.emit(token.Plus), nil
	case '-':
		s.nextRune()
		return s.emit(token.Minus), nil
	case '*':
		s.nextRune()
		return s.emit(token.Asterisk), nil
	case '&':
		s.nextRune()
		return s.emit(token.Ampersand), nil
	case '=':
		s.nextRune()
		if b, ok := s.byteAt(0); ok && b == '>' {
			s.nextRune()
			return s.emit(token.FatArrow), nil
		}
		return s.emit(token.Equal), nil
	case '<':
		s.nextRune()
		if b, ok := s.byteAt(0); ok && b == '=' {
			s.nextRune()
			return s.emit(token.LessThanEqualTo), nil
		}
		if b, ok := s.byteAt(0); ok && b == '>' {
			s.nextRune()
			return s.emit(token.NotEqual), nil
		}
		return s.emit(token.LessThan), nil
	case '>':
		s.nextRune()
		if b, ok := s.byteAt(0); ok && b == '=' {
			s.nextRune()
			return s.emit(token.GreaterThanEqualTo), nil
		}
		return s.emit(token.GreaterThan), nil
	case '.':
		s.nextRune()
		if b, ok := s.byteAt(0); ok && b == '.' {
			s.nextRune()
			if b2, ok2 := s.byteAt(0); ok2 && b2 == '.' {
				s.nextRune()
				return s.emit(token.Ellipsis), nil
			}
			return s.emit(token.DotDot), nil
		}
		return token.LineToken{}, s.errorAtStart(UnexpectedRead, "'.' is not a token on its own")
	default:
		s.nextRune()
		return token.LineToken{}, s.errorAtStart(UnexpectedRead, "unexpected character "+string(r))
	}
}

// continueQuotedLine continues a Text or QuotedIdentifier construct that
// was left open by the previous line: scan for an un-doubled terminating
// quote, emitting a content fragment (only if non-empty) followed by an
// end fragment. If the terminator never appears, it emits a single content
// fragment spanning the whole line and the mode is unchanged. Once the end
// fragment closes, the rest of the line is still Default-mode source, so
// lexing resumes with lexDefaultBody on the same scanner rather than
// stopping short.
func continueQuotedLine(text string, contentKind, endKind token.LineTokenKind, unterminatedMode LexMode) LineLexResult {
	s := &scanner{input: text}
	var tokens []token.LineToken
	for {
		if s.atEOF() {
			tokens = append(tokens, s.emit(contentKind))
			return LineLexResult{Tokens: tokens, ModeEnd: unterminatedMode}
		}
		b, _ := s.byteAt(0)
		if b == '"' {
			if next, ok := s.byteAt(1); ok && next == '"' {
				s.nextRune()
				s.nextRune()
				continue
			}
			if s.pos > s.start {
				tokens = append(tokens, s.emit(contentKind))
			}
			s.nextRune()
			tokens = append(tokens, s.emit(endKind))
			rest := lexDefaultBody(s)
			tokens = append(tokens, rest.Tokens...)
			return LineLexResult{Tokens: tokens, ModeEnd: rest.ModeEnd, Err: rest.Err}
		}
		s.nextRune()
	}
}

// continueCommentLine continues a multiline comment left open by the
// previous line, symmetric to continueQuotedLine but terminated by "*/"
// rather than a doubled quote, and likewise resumes Default-mode lexing
// for whatever follows the "*/" on the same line.
func continueCommentLine(text string) LineLexResult {
	s := &scanner{input: text}
	var tokens []token.LineToken
	for {
		if s.atEOF() {
			tokens = append(tokens, s.emit(token.MultilineCommentContent))
			return LineLexResult{Tokens: tokens, ModeEnd: ModeComment}
		}
		b0, _ := s.byteAt(0)
		if b0 == '*' {
			if b1, ok := s.byteAt(1); ok && b1 == '/' {
				if s.pos > s.start {
					tokens = append(tokens, s.emit(token.MultilineCommentContent))
				}
				s.nextRune()
				s.nextRune()
				tokens = append(tokens, s.emit(token.MultilineCommentEnd))
				rest := lexDefaultBody(s)
				tokens = append(tokens, rest.Tokens...)
				return LineLexResult{Tokens: tokens, ModeEnd: rest.ModeEnd, Err: rest.Err}
			}
		}
		s.nextRune()
	}
}
