package genparser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/accented-ai/genquery2/internal/ast"
	"github.com/accented-ai/genquery2/internal/genparser"
)

func TestParseSimpleSelect(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select COLL_NAME")
	require.NoError(t, err)
	require.Len(t, sel.Selections, 1)
	require.Equal(t, ast.Column{Name: "COLL_NAME"}, sel.Selections[0])
	require.False(t, sel.Distinct)
}

func TestParseDistinct(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select distinct COLL_NAME")
	require.NoError(t, err)
	require.True(t, sel.Distinct)
}

func TestParseMultipleProjections(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_NAME, COLL_NAME")
	require.NoError(t, err)
	require.Len(t, sel.Selections, 2)
}

func TestParseAggregateCall(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select count(DATA_ID)")
	require.NoError(t, err)
	require.Equal(t, ast.AggregateCall{Function: "COUNT", Column: ast.Column{Name: "DATA_ID"}}, sel.Selections[0])
}

func TestParseCastColumn(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select CAST(DATA_RESC_HIER AS VARCHAR)")
	require.NoError(t, err)
	require.Equal(t, ast.Column{Name: "DATA_RESC_HIER", CastType: "VARCHAR"}, sel.Selections[0])
}

func TestParseWhereEqualsCondition(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_NAME where DATA_NAME = 'foo.txt'")
	require.NoError(t, err)
	require.Len(t, sel.Conditions, 1)

	cond, ok := sel.Conditions[0].(ast.Condition)
	require.True(t, ok)
	require.Equal(t, ast.Column{Name: "DATA_NAME"}, cond.Column)
	require.Equal(t, ast.Eq{Value: "foo.txt"}, cond.Predicate)
}

func TestParseWhereEscapedStringUnescapesQuotes(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_NAME where DATA_NAME = 'O''Reilly'")
	require.NoError(t, err)

	cond := sel.Conditions[0].(ast.Condition)
	require.Equal(t, ast.Eq{Value: "O'Reilly"}, cond.Predicate)
}

func TestParseWhereAndOr(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_NAME where DATA_NAME = 'a' and COLL_NAME = 'b' or DATA_SIZE > '0'")
	require.NoError(t, err)
	require.Len(t, sel.Conditions, 3)

	require.IsType(t, ast.Condition{}, sel.Conditions[0])
	require.IsType(t, ast.And{}, sel.Conditions[1])
	require.IsType(t, ast.Or{}, sel.Conditions[2])
}

func TestParseWhereNotAndGroup(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_NAME where not (DATA_NAME = 'a' or DATA_NAME = 'b')")
	require.NoError(t, err)
	require.Len(t, sel.Conditions, 1)

	not, ok := sel.Conditions[0].(ast.Not)
	require.True(t, ok)

	group, ok := not.Term.(ast.Group)
	require.True(t, ok)
	require.Len(t, group.Terms, 2)
}

func TestParseWhereBetween(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_SIZE where DATA_SIZE between '0' and '100'")
	require.NoError(t, err)

	cond := sel.Conditions[0].(ast.Condition)
	require.Equal(t, ast.Between{Low: "0", High: "100"}, cond.Predicate)
}

func TestParseWhereIn(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_ID where DATA_ID in ('1', '2', '3')")
	require.NoError(t, err)

	cond := sel.Conditions[0].(ast.Condition)
	require.Equal(t, ast.In{Values: []string{"1", "2", "3"}}, cond.Predicate)
}

func TestParseWhereLike(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select COLL_NAME where COLL_NAME like '/tempZone/home/%'")
	require.NoError(t, err)

	cond := sel.Conditions[0].(ast.Condition)
	require.Equal(t, ast.Like{Pattern: "/tempZone/home/%"}, cond.Predicate)
}

func TestParseWhereIsNullAndIsNotNull(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_COMMENTS where DATA_COMMENTS is null")
	require.NoError(t, err)

	cond := sel.Conditions[0].(ast.Condition)
	require.Equal(t, ast.IsNull{}, cond.Predicate)

	sel, err = genparser.Parse("select DATA_COMMENTS where DATA_COMMENTS is not null")
	require.NoError(t, err)

	cond = sel.Conditions[0].(ast.Condition)
	require.Equal(t, ast.IsNotNull{}, cond.Predicate)
}

func TestParseGroupByOrderByLimit(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select count(DATA_ID) group by COLL_NAME order by COLL_NAME desc limit 5")
	require.NoError(t, err)

	require.Len(t, sel.GroupBy, 1)
	require.Equal(t, ast.Column{Name: "COLL_NAME"}, sel.GroupBy[0])

	require.Len(t, sel.OrderBy, 1)
	require.True(t, sel.OrderBy[0].Descending)

	require.NotNil(t, sel.Range.Limit)
	require.Equal(t, 5, *sel.Range.Limit)
}

func TestParseFetchFirstRowsOnly(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_NAME fetch first 16 rows only")
	require.NoError(t, err)
	require.NotNil(t, sel.Range.Limit)
	require.Equal(t, 16, *sel.Range.Limit)
}

func TestParseOffset(t *testing.T) {
	t.Parallel()

	sel, err := genparser.Parse("select DATA_NAME limit 10 offset 20")
	require.NoError(t, err)
	require.Equal(t, 10, *sel.Range.Limit)
	require.Equal(t, 20, *sel.Range.Offset)
}

func TestParseEmptySelectListIsError(t *testing.T) {
	t.Parallel()

	_, err := genparser.Parse("select")
	require.Error(t, err)

	var perr genparser.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "ParseError", perr.CompileErrorKind())
}

func TestParseMissingSelectKeywordIsError(t *testing.T) {
	t.Parallel()

	_, err := genparser.Parse("DATA_NAME = 'x'")
	require.Error(t, err)
}

func TestParseWhereWithoutConditionIsError(t *testing.T) {
	t.Parallel()

	_, err := genparser.Parse("select DATA_NAME where")
	require.Error(t, err)
}

func TestParseTrailingGarbageIsError(t *testing.T) {
	t.Parallel()

	_, err := genparser.Parse("select DATA_NAME extra")
	require.Error(t, err)
}
