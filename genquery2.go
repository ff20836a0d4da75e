// Package genquery2 compiles the GenQuery2 query language into a
// parameterized SQL statement. Compile is the sole public entry point; it
// is a pure function of its arguments, safe to call concurrently from
// any number of goroutines.
package genquery2

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/accented-ai/genquery2/internal/catalog"
	"github.com/accented-ai/genquery2/internal/config"
	"github.com/accented-ai/genquery2/internal/genparser"
	"github.com/accented-ai/genquery2/internal/sqlgen"
	"github.com/accented-ai/genquery2/internal/tracelog"
)

// Dialect selects which catalog dialect the compiled statement targets.
type Dialect = config.Dialect

const (
	DialectPostgres = config.DialectPostgres
	DialectMySQL    = config.DialectMySQL
	DialectOracle   = config.DialectOracle
)

// Option configures a Compile call. Functional options, following the
// pgtofu parser's Option func(*Parser) constructor shape.
type Option func(*Options)

// Options is the compile-time configuration a caller supplies to Compile.
type Options struct {
	Username              string
	Database              Dialect
	DefaultNumberOfRows   uint16
	AdminMode             bool
	Logger                tracelog.Logger
	ValidateGeneratedSQL  *bool // nil means "use the dialect default"
}

// WithLogger attaches a tracelog.Logger that receives diagnostic spans for
// this compile. The zero value (no WithLogger call) uses a no-op logger.
func WithLogger(l tracelog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Result is the compiled statement: SQL text with positional "?"
// placeholders, plus the bind values in the same order.
type Result struct {
	SQL   string
	Binds []string
}

// Request is the recommended wire shape for a future RPC layer sitting in
// front of Compile. It is not transported by this package — the server
// surface that receives query strings over the network is out of scope —
// but is provided so implementers standardize on one shape rather than the
// two incompatible ones that accumulated in the system this package
// reimplements.
type Request struct {
	QueryString string `json:"query_string"`
	Zone        string `json:"zone,omitempty"`
	SQLOnly     bool   `json:"sql_only,omitempty"`
}

// CompileError is implemented by every error Compile returns for invalid
// options or an invalid query. A generated statement that fails the
// optional postgres syntax check (ValidateGeneratedSQL) is reported as a
// plain error that does not implement CompileError.
type CompileError interface {
	error
	CompileErrorKind() string
}

// Error kinds, re-exported from the internal packages that raise them so
// callers never need to import this module's internal packages directly.
type (
	ParseError       = genparser.ParseError
	UnknownColumn    = catalog.UnknownColumn
	AggregateInWhere = sqlgen.AggregateInWhere
	UnjoinableTables = sqlgen.UnjoinableTables
	EmptySelection   = sqlgen.EmptySelection
	InvalidOption    = sqlgen.InvalidOption
)

// Compile parses query and generates a parameterized SQL statement under
// opts. It returns a CompileError (one of ParseError, UnknownColumn,
// AggregateInWhere, UnjoinableTables, EmptySelection, InvalidOption) on
// failure, except when the generated SQL fails postgres syntax validation,
// which is returned as a plain error.
func Compile(query string, opts Options, applyOpts ...Option) (Result, error) {
	for _, apply := range applyOpts {
		apply(&opts)
	}

	log := opts.Logger
	if log == nil {
		log = tracelog.NewNoopLogger()
	}

	correlationID := uuid.NewString()
	log.Debug("compile start", "correlation_id", correlationID, "database", string(opts.Database))

	cfg := &config.Config{
		Username:             opts.Username,
		Database:             opts.Database.Normalize(),
		DefaultNumberOfRows:   opts.DefaultNumberOfRows,
		AdminMode:            opts.AdminMode,
		ValidateGeneratedSQL: opts.ValidateGeneratedSQL == nil || *opts.ValidateGeneratedSQL,
	}

	if cfg.DefaultNumberOfRows == 0 {
		cfg.DefaultNumberOfRows = config.DefaultConfig().DefaultNumberOfRows
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid options", "correlation_id", correlationID, "error", err.Error())

		return Result{}, wrapParseLikeError(err)
	}

	sel, err := genparser.Parse(query)
	if err != nil {
		log.Error("parse failed", "correlation_id", correlationID, "error", err.Error())

		return Result{}, err
	}

	log.Debug("parsed", "correlation_id", correlationID, "projections", len(sel.Selections))

	res, err := sqlgen.Generate(sel, cfg, log)
	if err != nil {
		log.Error("generation failed", "correlation_id", correlationID, "error", err.Error())

		return Result{}, err
	}

	if err := sqlgen.ValidateIfEnabled(cfg, res.SQL, len(res.Binds)); err != nil {
		log.Error("validation failed", "correlation_id", correlationID, "error", err.Error())

		return Result{}, err
	}

	log.Info("compile complete", "correlation_id", correlationID, "binds", len(res.Binds))

	return Result{SQL: res.SQL, Binds: res.Binds}, nil
}

// wrapParseLikeError adapts a plain config-validation error into
// InvalidOption so every Compile failure path returns a CompileError.
func wrapParseLikeError(err error) error {
	return InvalidOption{Field: fmt.Sprintf("options: %v", err)}
}
