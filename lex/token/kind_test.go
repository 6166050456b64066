package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordTableMapsToKeywordKinds(t *testing.T) {
	for spelling, kind := range Keywords {
		assert.NotEqual(t, Identifier, kind, "keyword %q should not map to the generic Identifier kind", spelling)
		assert.False(t, kind.IsFragment(), "keyword %q mapped to a fragment kind", spelling)
	}
}

func TestProjectLineTokenKindCoversNonFragmentKinds(t *testing.T) {
	for spelling, kind := range Keywords {
		require.NotPanics(t, func() {
			ProjectLineTokenKind(kind)
		}, "projection of keyword %q panicked", spelling)
	}

	nonFragment := []LineTokenKind{
		Identifier, NumericLiteral, HexLiteral, TextLiteral,
		LeftParenthesis, RightParenthesis, LeftBracket, RightBracket,
		LeftBrace, RightBrace, Semicolon, Comma, AtSign, QuestionMark,
		FatArrow, Equal, LessThan, LessThanEqualTo, NotEqual, GreaterThan,
		GreaterThanEqualTo, Plus, Minus, Asterisk, Division, Ampersand,
		DotDot, Ellipsis,
	}
	for _, kind := range nonFragment {
		require.NotPanics(t, func() {
			ProjectLineTokenKind(kind)
		}, "projection of %s panicked", kind)
	}
}

func TestProjectLineTokenKindPanicsOnFragments(t *testing.T) {
	fragments := []LineTokenKind{
		MultilineCommentStart, MultilineCommentContent, MultilineCommentEnd,
		TextLiteralStart, TextLiteralContent, TextLiteralEnd,
		QuotedIdentifierStart, QuotedIdentifierContent, QuotedIdentifierEnd,
	}
	for _, kind := range fragments {
		assert.Panics(t, func() {
			ProjectLineTokenKind(kind)
		}, "expected projection of fragment kind %s to panic", kind)
	}
}

func TestIsFragment(t *testing.T) {
	assert.True(t, MultilineCommentStart.IsFragment())
	assert.True(t, TextLiteralContent.IsFragment())
	assert.True(t, QuotedIdentifierEnd.IsFragment())
	assert.False(t, Identifier.IsFragment())
	assert.False(t, MultilineComment.IsFragment())
	assert.False(t, LineComment.IsFragment())
}

func TestLineTokenKindStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "Identifier", Identifier.String())
	assert.Contains(t, LineTokenKind(9999).String(), "LineTokenKind(9999)")
}
