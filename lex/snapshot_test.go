package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukeod/qlex/lex/token"
)

func mustSnapshot(t *testing.T, text string) *Snapshot {
	t.Helper()
	snapshot, lexErr := TryFrom(FromText(text))
	require.Nil(t, lexErr, "unexpected lex error for %q: %v", text, lexErr)
	require.NotNil(t, snapshot)
	return snapshot
}

func TestSnapshotEmptyMultilineComment(t *testing.T) {
	snapshot := mustSnapshot(t, "/**/")
	require.Len(t, snapshot.Comments, 1)
	assert.Equal(t, token.CommentMultiline, snapshot.Comments[0].Kind)
	assert.Equal(t, "/**/", snapshot.Comments[0].Data)
	assert.False(t, snapshot.Comments[0].ContainsNewline)
	assert.Empty(t, snapshot.Tokens)
}

func TestSnapshotMultilineCommentSplitAcrossTwoLines(t *testing.T) {
	snapshot := mustSnapshot(t, "/*\n*/")
	require.Len(t, snapshot.Comments, 1)
	comment := snapshot.Comments[0]
	assert.Equal(t, "/*\n*/", comment.Data)
	assert.True(t, comment.ContainsNewline)
}

func TestSnapshotMultilineCommentSpanningThreeLines(t *testing.T) {
	snapshot := mustSnapshot(t, "abc /*X\nX\nX*/ def")
	require.Len(t, snapshot.Comments, 1)
	assert.Equal(t, "/*X\nX\nX*/", snapshot.Comments[0].Data)
	assert.True(t, snapshot.Comments[0].ContainsNewline)

	require.Len(t, snapshot.Tokens, 2)
	assert.Equal(t, token.TokenIdentifier, snapshot.Tokens[0].Kind)
	assert.Equal(t, "abc", snapshot.Tokens[0].Data)
	assert.Equal(t, token.TokenIdentifier, snapshot.Tokens[1].Kind)
	assert.Equal(t, "def", snapshot.Tokens[1].Data)
}

func TestSnapshotQuotedIdentifierSpanningThreeLinesIsOneToken(t *testing.T) {
	snapshot := mustSnapshot(t, "#\"\nfoobar\n\"")
	require.Len(t, snapshot.Tokens, 1)
	assert.Equal(t, token.TokenIdentifier, snapshot.Tokens[0].Kind)
	assert.Equal(t, "#\"\nfoobar\n\"", snapshot.Tokens[0].Data)
}

func TestSnapshotTextLiteralSpanningThreeLinesIsOneToken(t *testing.T) {
	snapshot := mustSnapshot(t, "\"X\nX\nX\"")
	require.Len(t, snapshot.Tokens, 1)
	assert.Equal(t, token.TokenTextLiteral, snapshot.Tokens[0].Kind)
	assert.Equal(t, "\"X\nX\nX\"", snapshot.Tokens[0].Data)
}

func TestSnapshotUnterminatedMultilineCommentAcrossLinesIsAnError(t *testing.T) {
	_, lexErr := TryFrom(FromText("/*\nfoobar\n"))
	require.NotNil(t, lexErr)
	require.Len(t, lexErr.Entries, 1)
	entry := lexErr.Entries[0]
	assert.Equal(t, UnterminatedMultilineToken, entry.Kind)
	assert.Equal(t, UnterminatedMultilineComment, entry.Unterminated)
	assert.Equal(t, 0, entry.Position.LineNumber)
}

func TestSnapshotLineCommentDoesNotSwallowNextLine(t *testing.T) {
	snapshot := mustSnapshot(t, "x // comment\ny")
	require.Len(t, snapshot.Comments, 1)
	assert.Equal(t, "// comment", snapshot.Comments[0].Data)
	require.Len(t, snapshot.Tokens, 2)
	assert.Equal(t, "x", snapshot.Tokens[0].Data)
	assert.Equal(t, "y", snapshot.Tokens[1].Data)
}

func TestSnapshotRoundTripsSourceText(t *testing.T) {
	original := "let x = /*c*/ 1\r\nin x\n"
	snapshot := mustSnapshot(t, original)
	assert.Equal(t, original, snapshot.Text)
}

func TestSnapshotLineTerminatorsRecordVerbatimText(t *testing.T) {
	snapshot := mustSnapshot(t, "a\r\nb\nc")
	require.Len(t, snapshot.LineTerminators, 3)
	assert.Equal(t, "\r\n", snapshot.LineTerminators[0].Text)
	assert.Equal(t, "\n", snapshot.LineTerminators[1].Text)
	assert.Equal(t, "", snapshot.LineTerminators[2].Text)
}

func TestSnapshotIncrementalEditInsertThenCloseComment(t *testing.T) {
	// A line left with an open "/*" fails snapshot construction; a later
	// UpdateLine that closes it with "*/" yields one comment and one token.
	st := FromText("foo /* bar")
	before, lexErr := TryFrom(st)
	require.NotNil(t, lexErr, "an unterminated comment must fail snapshot construction")
	require.Nil(t, before)

	st.UpdateLine(0, "foo /* bar */")
	after, lexErr := TryFrom(st)
	require.Nil(t, lexErr)
	require.Len(t, after.Comments, 1)
	assert.Equal(t, "/* bar */", after.Comments[0].Data)
	require.Len(t, after.Tokens, 1)
	assert.Equal(t, "foo", after.Tokens[0].Data)
}

func TestSnapshotStitchPanicsOnBareContentFragment(t *testing.T) {
	// A bare *Content fragment with no preceding *Start can only arise from
	// a corrupted Line slice, never from LexLine's own output.
	lines := []Line{
		{
			Text: "stray",
			Tokens: []token.LineToken{
				{Kind: token.MultilineCommentContent, Data: "stray", PositionStart: 0, PositionEnd: 5},
			},
		},
	}
	flat, _, _ := flatten(lines)
	assert.Panics(t, func() { stitch(flat, lines) })
}
