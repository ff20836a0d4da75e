package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/accented-ai/genquery2/internal/lexer"
)

func TestTokenizeSimpleSelect(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Tokenize("select COLL_NAME where COLL_NAME = 'x'")
	require.NoError(t, err)

	require.Equal(t, lexer.TokenKeyword, tokens[0].Type)
	require.Equal(t, "select", tokens[0].Literal)
	require.Equal(t, lexer.TokenIdentifier, tokens[1].Type)
	require.Equal(t, "COLL_NAME", tokens[1].Literal)
	require.Equal(t, lexer.TokenKeyword, tokens[2].Type)
	require.Equal(t, "where", tokens[2].Literal)
	require.Equal(t, lexer.TokenEOF, tokens[len(tokens)-1].Type)
}

func TestTokenizeStringWithDoubledQuote(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Tokenize("select DATA_NAME where DATA_NAME = 'O''Reilly'")
	require.NoError(t, err)

	var found bool

	for _, tok := range tokens {
		if tok.Type == lexer.TokenString {
			require.Equal(t, "'O''Reilly'", tok.Literal)
			found = true
		}
	}

	require.True(t, found, "expected string literal token not found")
}

func TestTokenizeUnterminatedString(t *testing.T) {
	t.Parallel()

	_, err := lexer.Tokenize("select DATA_NAME where DATA_NAME = 'unterminated")
	require.Error(t, err)
}

func TestTokenizeComparisonOperators(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Tokenize("!= <= >= < > =")
	require.NoError(t, err)

	want := []string{"!=", "<=", ">=", "<", ">", "="}
	for i, w := range want {
		require.Equal(t, lexer.TokenOperator, tokens[i].Type)
		require.Equal(t, w, tokens[i].Literal)
	}
}

func TestTokenizeNumberAndPunctuation(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Tokenize("COUNT(DATA_ID), 256")
	require.NoError(t, err)

	require.Equal(t, lexer.TokenKeyword, tokens[0].Type)
	require.Equal(t, lexer.TokenLParen, tokens[1].Type)
	require.Equal(t, lexer.TokenIdentifier, tokens[2].Type)
	require.Equal(t, lexer.TokenRParen, tokens[3].Type)
	require.Equal(t, lexer.TokenComma, tokens[4].Type)
	require.Equal(t, lexer.TokenNumber, tokens[5].Type)
	require.Equal(t, "256", tokens[5].Literal)
}

func TestTokenizeKeywordsCaseInsensitive(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Tokenize("SeLeCt DiStInCt")
	require.NoError(t, err)

	require.Equal(t, lexer.TokenKeyword, tokens[0].Type)
	require.Equal(t, lexer.TokenKeyword, tokens[1].Type)
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	t.Parallel()

	_, err := lexer.Tokenize("select DATA_NAME where DATA_NAME % 1")
	require.Error(t, err)
}

func TestTokenBytesOffsetsTrackPosition(t *testing.T) {
	t.Parallel()

	tokens, err := lexer.Tokenize("select DATA_NAME")
	require.NoError(t, err)

	require.Equal(t, 0, tokens[0].Start)
	require.Equal(t, 6, tokens[0].End)
	require.Equal(t, 7, tokens[1].Start)
	require.Equal(t, 16, tokens[1].End)
}
