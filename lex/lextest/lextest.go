// Package lextest holds small test helpers shared across the lex package's
// test files, mirroring parser/testutil's split: helpers that stop the
// test immediately use require, helpers that report and let the test
// continue use assert.
package lextest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukeod/qlex/lex"
	"github.com/lukeod/qlex/lex/token"
)

// MustSnapshot lexes text from scratch and requires that it produces a
// valid Snapshot, failing the test immediately otherwise.
func MustSnapshot(t *testing.T, text string) *lex.Snapshot {
	t.Helper()
	snapshot, lexErr := lex.TryFrom(lex.FromText(text))
	require.Nil(t, lexErr, "unexpected lex error for %q: %v", text, lexErr)
	require.NotNil(t, snapshot, "TryFrom returned a nil snapshot without an error for %q", text)
	return snapshot
}

// AssertTokenKinds checks that a snapshot's tokens have exactly the given
// kinds, in order, reporting (not failing fast) so a test can also compare
// data alongside it.
func AssertTokenKinds(t *testing.T, snapshot *lex.Snapshot, want []token.TokenKind) {
	t.Helper()
	got := make([]token.TokenKind, len(snapshot.Tokens))
	for i, tok := range snapshot.Tokens {
		got[i] = tok.Kind
	}
	assert.Equal(t, want, got, "token kinds mismatch")
}

// AssertTokenData checks that a snapshot's tokens have exactly the given
// data values, in order.
func AssertTokenData(t *testing.T, snapshot *lex.Snapshot, want []string) {
	t.Helper()
	got := make([]string, len(snapshot.Tokens))
	for i, tok := range snapshot.Tokens {
		got[i] = tok.Data
	}
	assert.Equal(t, want, got, "token data mismatch")
}
