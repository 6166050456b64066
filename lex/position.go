package lex

import (
	"unicode/utf16"

	"github.com/rivo/uniseg"

	"github.com/lukeod/qlex/lex/token"
)

// graphemePosition derives a token.GraphemePosition from a line number and a
// line-relative code-unit offset, counting extended grapheme clusters (the
// Unicode Standard Annex #29 definition) from the start of lineText up to
// lineCodeUnit.
func graphemePosition(lineNumber int, lineText string, lineCodeUnit int) token.GraphemePosition {
	column := 0
	remaining := lineText
	consumedCodeUnits := 0
	for consumedCodeUnits < lineCodeUnit && len(remaining) > 0 {
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(remaining, -1)
		if cluster == "" {
			break
		}
		consumedCodeUnits += utf16Len(cluster)
		remaining = rest
		column++
	}
	return token.GraphemePosition{
		LineNumber:   lineNumber,
		LineCodeUnit: lineCodeUnit,
		ColumnNumber: column,
	}
}

// utf16Len reports the number of UTF-16 code units s would occupy.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return n
}
