package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphemePositionASCII(t *testing.T) {
	pos := graphemePosition(0, "abcdef", 3)
	assert.Equal(t, 3, pos.ColumnNumber)
	assert.Equal(t, 3, pos.LineCodeUnit)
	assert.Equal(t, 0, pos.LineNumber)
	assert.Equal(t, "line 1, column 4", pos.String())
}

func TestGraphemePositionAtLineStart(t *testing.T) {
	pos := graphemePosition(4, "hello", 0)
	assert.Equal(t, 0, pos.ColumnNumber)
	assert.Equal(t, "line 5, column 1", pos.String())
}

func TestGraphemePositionCombiningMark(t *testing.T) {
	// "é" (e + combining acute accent) is one extended grapheme cluster
	// occupying two UTF-16 code units; a code-unit offset landing after it
	// and the following "b" must report two columns, not three.
	line := "ébc"
	pos := graphemePosition(0, line, 3)
	assert.Equal(t, 2, pos.ColumnNumber, "combining accent plus following byte should count as 2 clusters")
}

func TestGraphemePositionZWJEmojiSequence(t *testing.T) {
	// family emoji built from a ZWJ sequence is a single extended grapheme
	// cluster regardless of how many code points/units it spans.
	line := "\U0001F468‍\U0001F469‍\U0001F467x"
	fullWidth := utf16Len("\U0001F468‍\U0001F469‍\U0001F467")
	pos := graphemePosition(0, line, fullWidth)
	assert.Equal(t, 1, pos.ColumnNumber, "the whole ZWJ sequence is one grapheme cluster")
}

func TestGraphemePositionSurrogatePair(t *testing.T) {
	// U+1F600 requires a UTF-16 surrogate pair (2 code units) but is a
	// single grapheme cluster.
	line := "\U0001F600y"
	pos := graphemePosition(0, line, 2)
	assert.Equal(t, 1, pos.ColumnNumber)
}

func TestUtf16Len(t *testing.T) {
	assert.Equal(t, 0, utf16Len(""))
	assert.Equal(t, 5, utf16Len("hello"))
	assert.Equal(t, 2, utf16Len("\U0001F600"))
	assert.Equal(t, 1, utf16Len("e"))
}
