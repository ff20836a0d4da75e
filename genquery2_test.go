package genquery2_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/accented-ai/genquery2"
)

func noValidate() *bool {
	b := false
	return &b
}

func TestCompileNonAdminRequiresUsername(t *testing.T) {
	t.Parallel()

	_, err := genquery2.Compile("select COLL_NAME", genquery2.Options{
		ValidateGeneratedSQL: noValidate(),
	})
	require.Error(t, err)

	var invalid genquery2.InvalidOption
	require.ErrorAs(t, err, &invalid)
}

func TestCompileAdminSucceedsWithoutUsername(t *testing.T) {
	t.Parallel()

	res, err := genquery2.Compile("select DATA_NAME where DATA_NAME = 'foo.txt'", genquery2.Options{
		AdminMode:            true,
		ValidateGeneratedSQL: noValidate(),
	})
	require.NoError(t, err)
	require.Contains(t, res.SQL, "SELECT t0.data_name")
	require.Equal(t, []string{"foo.txt"}, res.Binds)
}

func TestCompileDefaultRowsAppliedWhenUnset(t *testing.T) {
	t.Parallel()

	res, err := genquery2.Compile("select DATA_NAME", genquery2.Options{
		AdminMode:            true,
		ValidateGeneratedSQL: noValidate(),
	})
	require.NoError(t, err)
	require.Contains(t, res.SQL, "FETCH FIRST 16 ROWS ONLY")
}

func TestCompileDialectSwitchesLimitRendering(t *testing.T) {
	t.Parallel()

	res, err := genquery2.Compile("select DATA_NAME limit 5", genquery2.Options{
		AdminMode:            true,
		Database:             genquery2.DialectMySQL,
		ValidateGeneratedSQL: noValidate(),
	})
	require.NoError(t, err)
	require.Contains(t, res.SQL, "LIMIT 5")
	require.NotContains(t, res.SQL, "FETCH FIRST")
}

func TestCompileUnknownDialectFallsBackToPostgres(t *testing.T) {
	t.Parallel()

	res, err := genquery2.Compile("select DATA_NAME limit 5", genquery2.Options{
		AdminMode:            true,
		Database:             genquery2.Dialect("not-a-real-dialect"),
		ValidateGeneratedSQL: noValidate(),
	})
	require.NoError(t, err)
	require.Contains(t, res.SQL, "FETCH FIRST 5 ROWS ONLY")
}

func TestCompileParseErrorIsCompileError(t *testing.T) {
	t.Parallel()

	_, err := genquery2.Compile("not a genquery2 statement", genquery2.Options{
		AdminMode:            true,
		ValidateGeneratedSQL: noValidate(),
	})
	require.Error(t, err)

	var compileErr genquery2.CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Equal(t, "ParseError", compileErr.CompileErrorKind())
}

func TestCompileUnknownColumnIsCompileError(t *testing.T) {
	t.Parallel()

	_, err := genquery2.Compile("select NOT_A_REAL_COLUMN", genquery2.Options{
		AdminMode:            true,
		ValidateGeneratedSQL: noValidate(),
	})
	require.Error(t, err)

	var compileErr genquery2.CompileError
	require.ErrorAs(t, err, &compileErr)
	require.Equal(t, "UnknownColumn", compileErr.CompileErrorKind())
}

func TestCompileIsPureAcrossConcurrentCalls(t *testing.T) {
	t.Parallel()

	opts := genquery2.Options{AdminMode: true, ValidateGeneratedSQL: noValidate()}

	const n = 20

	results := make(chan genquery2.Result, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		go func() {
			res, err := genquery2.Compile("select DATA_NAME where DATA_NAME = 'foo.txt'", opts)
			results <- res
			errs <- err
		}()
	}

	first, err := genquery2.Compile("select DATA_NAME where DATA_NAME = 'foo.txt'", opts)
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
		require.Equal(t, first.SQL, (<-results).SQL)
	}
}
