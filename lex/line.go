package lex

import "github.com/lukeod/qlex/lex/token"

// LineStatus classifies a Line after the most recent edit. Untouched lines
// were not affected by the edit and carry no error; Touched lines were
// relexed and found clean; TouchedWithError lines were relexed and found a
// lex error; LineErrorStatus lines were not relexed by the current edit but
// still carry an error from a previous one.
type LineStatus int

const (
	LineUntouched LineStatus = iota
	LineTouched
	LineTouchedWithError
	LineErrorStatus
)

func (s LineStatus) String() string {
	switch s {
	case LineUntouched:
		return "Untouched"
	case LineTouched:
		return "Touched"
	case LineTouchedWithError:
		return "TouchedWithError"
	case LineErrorStatus:
		return "Error"
	default:
		return "LineStatus(?)"
	}
}

// HasError reports whether the line is carrying a lex error, whether newly
// discovered (TouchedWithError) or inherited from a prior lex
// (LineErrorStatus).
func (s LineStatus) HasError() bool {
	return s == LineTouchedWithError || s == LineErrorStatus
}

// Line is one physical line of source text together with the tokens its
// line lexer produced and the lex modes it was entered and left in.
type Line struct {
	Status     LineStatus
	Text       string
	Terminator string
	Tokens     []token.LineToken
	ModeStart  LexMode
	ModeEnd    LexMode
	Err        *lineError
}

// splitLines breaks text into (text, terminator) pairs, recognizing \r\n as
// a single terminator ahead of bare \r or \n. The final line's terminator
// is always "". Concatenating every returned text+terminator reproduces
// text exactly.
func splitLines(text string) []Line {
	var lines []Line
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, Line{Text: text[start:i], Terminator: "\n"})
			start = i + 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				lines = append(lines, Line{Text: text[start:i], Terminator: "\r\n"})
				start = i + 2
				i++
			} else {
				lines = append(lines, Line{Text: text[start:i], Terminator: "\r"})
				start = i + 1
			}
		}
	}
	lines = append(lines, Line{Text: text[start:], Terminator: ""})
	return lines
}

// joinLines reverses splitLines, reproducing the original text exactly.
func joinLines(lines []Line) string {
	total := 0
	for _, l := range lines {
		total += len(l.Text) + len(l.Terminator)
	}
	buf := make([]byte, 0, total)
	for _, l := range lines {
		buf = append(buf, l.Text...)
		buf = append(buf, l.Terminator...)
	}
	return string(buf)
}
