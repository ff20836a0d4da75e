package sqlgen

import (
	"fmt"

	pgquery "github.com/pganalyze/pg_query_go/v6"

	"github.com/accented-ai/genquery2/internal/config"
)

// ValidatePostgres parses sql with the real Postgres grammar to catch
// generator bugs that would otherwise only surface against a live server.
// It is a syntax check only — placeholders are left as literal "?" marks,
// which libpq's own grammar does not accept, so placeholders are first
// rewritten to the numbered $n form Postgres expects.
func ValidatePostgres(sql string, bindCount int) error {
	rewritten := RewritePlaceholders(sql, bindCount)

	if _, err := pgquery.Parse(rewritten); err != nil {
		return fmt.Errorf("generated SQL failed postgres syntax validation: %w", err)
	}

	return nil
}

// ValidateIfEnabled runs ValidatePostgres when cfg requests it and the
// dialect is postgres; every other dialect is a no-op, since pg_query_go
// only understands Postgres grammar.
func ValidateIfEnabled(cfg *config.Config, sql string, bindCount int) error {
	if !cfg.ValidateGeneratedSQL || sql == "" {
		return nil
	}

	if cfg.Database.Normalize() != config.DialectPostgres {
		return nil
	}

	return ValidatePostgres(sql, bindCount)
}

// RewritePlaceholders turns the "?" positional placeholders Generate emits
// into the numbered "$n" form both pg_query_go's grammar and pgx's extended
// protocol expect.
func RewritePlaceholders(sql string, bindCount int) string {
	result := make([]byte, 0, len(sql)+bindCount*2)

	n := 0

	for i := 0; i < len(sql); i++ {
		if sql[i] == '?' {
			n++

			result = append(result, []byte(fmt.Sprintf("$%d", n))...)

			continue
		}

		result = append(result, sql[i])
	}

	return string(result)
}
