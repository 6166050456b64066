package lex

import (
	"io"
	"io/ioutil"
	"sort"
	"sync"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/lukeod/qlex/lex/token"
)

// commentSymbol is the participle token type assigned to comments. It is
// chosen well outside the range of real TokenKind values (which start at
// 0) so it can never collide with one, the same way
// parser/lexer.LexerDefinition reserves negative values for EOF/ILLEGAL to
// stay clear of its own token range.
const commentSymbol lexer.TokenType = 1 << 20

// Definition implements participle/v2's lexer.Definition (and its optional
// LexString/LexBytes extensions) over a qlex Snapshot, the same role
// parser/lexer.LexerDefinition plays over its hand-rolled SMI scanner. A
// syntactic parser built with participle can plug this in directly instead
// of writing its own tokenizer.
type Definition struct{}

func (d *Definition) Lex(filename string, r io.Reader) (lexer.Lexer, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return d.LexBytes(filename, data)
}

func (d *Definition) LexString(filename, input string) (lexer.Lexer, error) {
	snapshot, lexErr := TryFrom(FromText(input))
	if lexErr != nil {
		return nil, lexErr
	}
	return newParticipleLexer(filename, snapshot), nil
}

func (d *Definition) LexBytes(filename string, data []byte) (lexer.Lexer, error) {
	return d.LexString(filename, string(data))
}

var (
	cachedSymbols map[string]lexer.TokenType
	symbolsOnce   sync.Once
)

// Symbols caches and returns the participle token-type table: every
// TokenKind by name, plus "Comment" and "EOF".
func (d *Definition) Symbols() map[string]lexer.TokenType {
	symbolsOnce.Do(func() {
		cachedSymbols = make(map[string]lexer.TokenType, token.NumTokenKinds()+2)
		for i := 0; i < token.NumTokenKinds(); i++ {
			kind := token.TokenKind(i)
			cachedSymbols[kind.String()] = lexer.TokenType(i)
		}
		cachedSymbols["Comment"] = commentSymbol
		cachedSymbols["EOF"] = lexer.EOF
	})
	return cachedSymbols
}

type mergedItem struct {
	isComment bool
	tok       token.Token
	com       token.Comment
	start     token.Position
}

// participleLexer implements participle/v2's lexer.Lexer over the merged,
// position-ordered token/comment stream of a single Snapshot.
type participleLexer struct {
	filename string
	merged   []mergedItem
	idx      int
	eof      lexer.Position
}

func newParticipleLexer(filename string, snapshot *Snapshot) *participleLexer {
	merged := make([]mergedItem, 0, len(snapshot.Tokens)+len(snapshot.Comments))
	for _, t := range snapshot.Tokens {
		merged = append(merged, mergedItem{tok: t, start: t.PositionStart})
	}
	for _, c := range snapshot.Comments {
		merged = append(merged, mergedItem{isComment: true, com: c, start: c.PositionStart})
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].start.Less(merged[j].start)
	})

	eofOffset := len(snapshot.Text)
	eofLine, eofCol := 0, 0
	if n := len(snapshot.LineTerminators); n > 0 {
		eofLine = n - 1
	}
	return &participleLexer{
		filename: filename,
		merged:   merged,
		eof:      lexer.Position{Filename: filename, Offset: eofOffset, Line: eofLine + 1, Column: eofCol + 1},
	}
}

func (l *participleLexer) Next() (lexer.Token, error) {
	if l.idx >= len(l.merged) {
		return lexer.Token{Type: lexer.EOF, Pos: l.eof}, nil
	}
	item := l.merged[l.idx]
	l.idx++
	if item.isComment {
		return lexer.Token{
			Type:  commentSymbol,
			Value: item.com.Data,
			Pos:   toParticiplePosition(l.filename, item.com.PositionStart),
		}, nil
	}
	return lexer.Token{
		Type:  lexer.TokenType(item.tok.Kind),
		Value: item.tok.Data,
		Pos:   toParticiplePosition(l.filename, item.tok.PositionStart),
	}, nil
}

func toParticiplePosition(filename string, p token.Position) lexer.Position {
	return lexer.Position{
		Filename: filename,
		Offset:   p.CodeUnit,
		Line:     p.LineNumber + 1,
		Column:   p.LineCodeUnit + 1,
	}
}
