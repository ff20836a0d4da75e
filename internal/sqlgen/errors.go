package sqlgen

import (
	"fmt"
	"strings"
)

// AggregateInWhere is returned when an aggregate function is evaluated
// outside the select list. The genparser grammar already rules this out
// syntactically, and the AST has no place for an aggregate outside
// Select.Selections: conditions, GROUP BY and ORDER BY hold plain
// ast.Column values. Generate checks for it only while walking the select
// list, so no parsed or hand-built AST produces this error.
type AggregateInWhere struct{}

func (AggregateInWhere) Error() string            { return "aggregate function used outside select list" }
func (AggregateInWhere) CompileErrorKind() string { return "AggregateInWhere" }

// UnjoinableTables is returned when the join planner cannot reach every
// referenced table from the anchor using schema-graph edges or the
// specialized join patterns.
type UnjoinableTables struct {
	Tables []string
}

func (e UnjoinableTables) Error() string {
	return fmt.Sprintf("cannot join tables: %s", strings.Join(e.Tables, ", "))
}
func (UnjoinableTables) CompileErrorKind() string { return "UnjoinableTables" }

// EmptySelection is returned when the select list is syntactically absent.
// The parser already rejects this at parse time (SELECT requires at least
// one projection); kept here for direct-AST callers.
type EmptySelection struct{}

func (EmptySelection) Error() string            { return "select list is empty" }
func (EmptySelection) CompileErrorKind() string { return "EmptySelection" }

// InvalidOption is returned when an option value is out of range, or when a
// query combines DISTINCT with an aggregate projection (which iRODS'
// original GenQuery2 implementation also rejects; see original_source).
type InvalidOption struct {
	Field string
}

func (e InvalidOption) Error() string         { return fmt.Sprintf("invalid option: %s", e.Field) }
func (InvalidOption) CompileErrorKind() string { return "InvalidOption" }
