package sqlgen

import (
	"fmt"

	"github.com/accented-ai/genquery2/internal/config"
)

// dialectFragments is the set of dialect-specific SQL fragments the
// recursive-CTE and limit-clause renderers need. It is a pure function of
// the normalized dialect; no state.
type dialectFragments struct {
	recursiveKeyword string // "RECURSIVE " or ""
	hierIDCastType   string // cast type for the resc_id chain in cte_drh
	hierNameCastType string // cast type for the concatenated hierarchy string
}

func fragmentsFor(d config.Dialect) dialectFragments {
	switch d.Normalize() {
	case config.DialectMySQL:
		return dialectFragments{
			recursiveKeyword: "RECURSIVE ",
			hierIDCastType:   "SIGNED",
			hierNameCastType: "CHAR(250)",
		}
	case config.DialectOracle:
		return dialectFragments{
			recursiveKeyword: "",
			hierIDCastType:   "INTEGER",
			hierNameCastType: "VARCHAR(250)",
		}
	default:
		return dialectFragments{
			recursiveKeyword: "RECURSIVE ",
			hierIDCastType:   "BIGINT",
			hierNameCastType: "VARCHAR(250)",
		}
	}
}

// renderLimit renders the row-limiting clause, MySQL's LIMIT n versus
// FETCH FIRST n ROWS ONLY for every other dialect.
func renderLimit(d config.Dialect, n int) string {
	if d.Normalize() == config.DialectMySQL {
		return fmt.Sprintf("LIMIT %d", n)
	}

	return fmt.Sprintf("FETCH FIRST %d ROWS ONLY", n)
}
