// Package sqlgen implements the two-phase SQL Generator and Dialect
// Renderer: it walks a parsed AST, resolves virtual columns against the
// Column Catalog, plans joins across the Schema Graph, and emits a
// dialect-specific, parameterized SQL statement. The accumulator-plus-
// phase-methods shape (mutate a State struct while walking a structured
// input, then render it to a string with a strings.Builder) mirrors the
// pgtofu DDL generator's Generator/Options/strings.Builder pattern, adapted
// from "emit CREATE/ALTER statements for a diff" to "emit one SELECT for a
// parsed query".
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/accented-ai/genquery2/internal/ast"
	"github.com/accented-ai/genquery2/internal/catalog"
	"github.com/accented-ai/genquery2/internal/config"
	"github.com/accented-ai/genquery2/internal/schemagraph"
	"github.com/accented-ai/genquery2/internal/tracelog"
)

// Result is the outcome of a successful generate: the parameterized SQL
// text and its ordered bind values.
type Result struct {
	SQL   string
	Binds []string
}

// state is the per-compile mutable state the generator threads through the
// gather and emit phases. It is never shared across compiles.
type state struct {
	sqlTables      []string
	aliases        map[string]string
	nextAliasID    int
	bindValues     []string
	inSelectClause bool

	metaData     bool
	metaColl     bool
	metaResc     bool
	metaUser     bool
	dataRescHier bool

	selectFragments  []string
	groupByFragments []string
	orderByFragments []string
	conditionsSQL    string
}

func newState() *state {
	return &state{aliases: make(map[string]string)}
}

// ensureTable assigns table an alias the first time it is referenced and
// returns the (possibly newly assigned) alias on every call.
func (s *state) ensureTable(table string) string {
	if alias, ok := s.aliases[table]; ok {
		return alias
	}

	alias := fmt.Sprintf("t%d", s.nextAliasID)
	s.nextAliasID++

	s.aliases[table] = alias
	s.sqlTables = append(s.sqlTables, table)

	return alias
}

func (s *state) hasTable(table string) bool {
	_, ok := s.aliases[table]
	return ok
}

func (s *state) setFlag(kind catalog.Kind) {
	switch kind {
	case catalog.KindMetaData:
		s.metaData = true
	case catalog.KindMetaColl:
		s.metaColl = true
	case catalog.KindMetaResc:
		s.metaResc = true
	case catalog.KindMetaUser:
		s.metaUser = true
	case catalog.KindDataRescHier:
		s.dataRescHier = true
	}
}

// Generate compiles sel into a parameterized SQL statement under cfg,
// emitting diagnostic spans to log (never nil; callers pass
// tracelog.NewNoopLogger() when they don't want output).
func Generate(sel *ast.Select, cfg *config.Config, log tracelog.Logger) (Result, error) {
	st := newState()
	graph := schemagraph.Default()

	log.Debug("gathering columns", "selections", len(sel.Selections), "conditions", len(sel.Conditions))

	if err := gather(st, sel); err != nil {
		return Result{}, err
	}

	if len(st.sqlTables) == 0 {
		return Result{}, nil
	}

	log.Trace("tables resolved", "tables", strings.Join(st.sqlTables, ","))

	sql, err := emit(st, sel, cfg, graph, log)
	if err != nil {
		return Result{}, err
	}

	return Result{SQL: sql, Binds: st.bindValues}, nil
}

func gather(st *state, sel *ast.Select) error {
	if len(sel.Selections) == 0 {
		return EmptySelection{}
	}

	if sel.Distinct {
		for _, proj := range sel.Selections {
			if _, ok := proj.(ast.AggregateCall); ok {
				return InvalidOption{Field: "distinct"}
			}
		}
	}

	st.inSelectClause = true

	for _, proj := range sel.Selections {
		frag, err := gatherProjection(st, proj)
		if err != nil {
			return err
		}

		st.selectFragments = append(st.selectFragments, frag)
	}

	st.inSelectClause = false

	if len(sel.Conditions) > 0 {
		condSQL, err := gatherConditions(st, sel.Conditions)
		if err != nil {
			return err
		}

		st.conditionsSQL = condSQL
	}

	for _, col := range sel.GroupBy {
		frag, err := gatherColumnRef(st, col)
		if err != nil {
			return err
		}

		st.groupByFragments = append(st.groupByFragments, frag)
	}

	for _, sort := range sel.OrderBy {
		frag, err := gatherColumnRef(st, sort.Column)
		if err != nil {
			return err
		}

		if sort.Descending {
			frag += " DESC"
		} else {
			frag += " ASC"
		}

		st.orderByFragments = append(st.orderByFragments, frag)
	}

	return nil
}

func gatherProjection(st *state, proj ast.Projection) (string, error) {
	switch p := proj.(type) {
	case ast.Column:
		return gatherColumnRef(st, p)
	case ast.AggregateCall:
		if !st.inSelectClause {
			return "", AggregateInWhere{}
		}

		colSQL, err := gatherColumnRef(st, p.Column)
		if err != nil {
			return "", err
		}

		return fmt.Sprintf("%s(%s)", strings.ToLower(p.Function), colSQL), nil
	default:
		return "", fmt.Errorf("unhandled projection type %T", proj)
	}
}

// gatherColumnRef resolves col against the Column Catalog, records the
// table/alias/flag side effects on st, and returns the rendered
// "alias.physical_column" (optionally CAST-wrapped) fragment.
func gatherColumnRef(st *state, col ast.Column) (string, error) {
	desc, err := catalog.Lookup(col.Name)
	if err != nil {
		return "", err
	}

	kind := catalog.Classify(col.Name)

	var alias string

	if kind == catalog.KindPlain {
		alias = st.ensureTable(desc.Table)
	} else {
		st.ensureTable(catalog.AnchorTable(kind))
		st.setFlag(kind)

		alias = catalog.SpecialAlias(col.Name, kind)
	}

	base := fmt.Sprintf("%s.%s", alias, desc.Column)
	if col.CastType != "" {
		return fmt.Sprintf("CAST(%s AS %s)", base, strings.ToUpper(col.CastType)), nil
	}

	return base, nil
}

func gatherConditions(st *state, terms []ast.LogicalTerm) (string, error) {
	var b strings.Builder

	for i, term := range terms {
		frag, err := gatherTerm(st, term, i == 0)
		if err != nil {
			return "", err
		}

		b.WriteString(frag)
	}

	return b.String(), nil
}

func gatherTerm(st *state, term ast.LogicalTerm, first bool) (string, error) {
	switch t := term.(type) {
	case ast.Condition:
		return gatherCondition(st, t)
	case ast.And:
		inner, err := gatherTerm(st, t.Term, true)
		if err != nil {
			return "", err
		}

		return " AND " + inner, nil
	case ast.Or:
		inner, err := gatherTerm(st, t.Term, true)
		if err != nil {
			return "", err
		}

		return " OR " + inner, nil
	case ast.Not:
		inner, err := gatherTerm(st, t.Term, true)
		if err != nil {
			return "", err
		}

		if first {
			return "NOT " + inner, nil
		}

		return " NOT " + inner, nil
	case ast.Group:
		var b strings.Builder

		for i, inner := range t.Terms {
			frag, err := gatherTerm(st, inner, i == 0)
			if err != nil {
				return "", err
			}

			b.WriteString(frag)
		}

		return "(" + b.String() + ")", nil
	default:
		return "", fmt.Errorf("unhandled logical term type %T", term)
	}
}

func gatherCondition(st *state, cond ast.Condition) (string, error) {
	colSQL, err := gatherColumnRef(st, cond.Column)
	if err != nil {
		return "", err
	}

	predSQL, err := gatherPredicate(st, cond.Predicate)
	if err != nil {
		return "", err
	}

	return colSQL + predSQL, nil
}

func gatherPredicate(st *state, pred ast.Predicate) (string, error) { //nolint:cyclop
	switch p := pred.(type) {
	case ast.Eq:
		st.bindValues = append(st.bindValues, p.Value)
		return " = ?", nil
	case ast.NotEq:
		st.bindValues = append(st.bindValues, p.Value)
		return " != ?", nil
	case ast.Lt:
		st.bindValues = append(st.bindValues, p.Value)
		return " < ?", nil
	case ast.Le:
		st.bindValues = append(st.bindValues, p.Value)
		return " <= ?", nil
	case ast.Gt:
		st.bindValues = append(st.bindValues, p.Value)
		return " > ?", nil
	case ast.Ge:
		st.bindValues = append(st.bindValues, p.Value)
		return " >= ?", nil
	case ast.Between:
		st.bindValues = append(st.bindValues, p.Low, p.High)
		return " BETWEEN ? AND ?", nil
	case ast.In:
		placeholders := make([]string, len(p.Values))
		for i, v := range p.Values {
			st.bindValues = append(st.bindValues, v)
			placeholders[i] = "?"
		}

		return " IN (" + strings.Join(placeholders, ", ") + ")", nil
	case ast.Like:
		st.bindValues = append(st.bindValues, p.Pattern)
		return " LIKE ?", nil
	case ast.IsNull:
		return " IS NULL", nil
	case ast.IsNotNull:
		return " IS NOT NULL", nil
	case ast.NotPredicate:
		inner, err := gatherPredicate(st, p.Inner)
		if err != nil {
			return "", err
		}

		return " NOT" + inner, nil
	default:
		return "", fmt.Errorf("unhandled predicate type %T", pred)
	}
}

func emit(st *state, sel *ast.Select, cfg *config.Config, graph *schemagraph.Graph, log tracelog.Logger) (string, error) {
	var b strings.Builder

	if st.dataRescHier {
		b.WriteString(renderRescHierCTE(cfg.Database))
		b.WriteString(" ")
	}

	b.WriteString("SELECT ")

	if sel.Distinct {
		b.WriteString("DISTINCT ")
	}

	b.WriteString(strings.Join(st.selectFragments, ", "))

	anchor := st.sqlTables[0]
	b.WriteString(fmt.Sprintf(" FROM %s %s", anchor, st.aliases[anchor]))

	joins, err := planJoins(st, graph)
	if err != nil {
		return "", err
	}

	log.Trace("join plan", "joins", len(joins))

	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}

	b.WriteString(renderMetadataJoins(st))
	b.WriteString(renderPermissionJoins(st))

	if st.dataRescHier {
		b.WriteString(fmt.Sprintf(" INNER JOIN cte_drh ON cte_drh.resc_id = %s.resc_id", st.aliases[catalog.TableRescMain]))
	}

	where := renderWhere(st, cfg)
	if where != "" {
		b.WriteString(" ")
		b.WriteString(where)
	}

	if len(st.groupByFragments) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(st.groupByFragments, ", "))
	}

	if len(st.orderByFragments) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(st.orderByFragments, ", "))
	}

	limit := cfg.DefaultNumberOfRows
	if sel.Range.Limit != nil {
		limit = uint16(*sel.Range.Limit) //nolint:gosec
	}

	b.WriteString(" ")
	b.WriteString(renderLimit(cfg.Database, int(limit)))

	if sel.Range.Offset != nil {
		b.WriteString(fmt.Sprintf(" OFFSET %d", *sel.Range.Offset))
	}

	return b.String(), nil
}

// planJoins implements the join-planning algorithm: repeatedly scan the
// remaining tables for one joinable to the last processed table, via either
// a schema-graph edge, until every table is reached or no further progress
// is possible.
func planJoins(st *state, graph *schemagraph.Graph) ([]string, error) {
	if len(st.sqlTables) == 1 {
		return nil, nil
	}

	processed := []string{st.sqlTables[0]}
	remaining := append([]string(nil), st.sqlTables[1:]...)

	var joins []string

	for pass := 0; pass < len(st.sqlTables) && len(remaining) > 0; pass++ {
		progressed := false
		last := processed[len(processed)-1]

		for i := 0; i < len(remaining); {
			t := remaining[i]

			edge, ok := graph.Edge(last, t)
			if !ok {
				i++
				continue
			}

			aliasLHS := st.aliases[edge.LHS]
			aliasRHS := st.aliases[edge.RHS]
			predicate := fmt.Sprintf(edge.Predicate, aliasLHS, aliasRHS)

			joins = append(joins, fmt.Sprintf("INNER JOIN %s %s ON %s", t, st.aliases[t], predicate))

			processed = append(processed, t)
			remaining = append(remaining[:i], remaining[i+1:]...)
			progressed = true
			last = t
		}

		if !progressed {
			break
		}
	}

	if len(remaining) > 0 {
		return nil, UnjoinableTables{Tables: remaining}
	}

	return joins, nil
}

func renderMetadataJoins(st *state) string {
	var b strings.Builder

	type spec struct {
		active  bool
		anchor  string
		idCol   string
		ommAlias string
		mmAlias  string
	}

	specs := []spec{
		{st.metaData, catalog.TableDataMain, "data_id", catalog.AliasOmmd, catalog.AliasMetaData},
		{st.metaColl, catalog.TableCollMain, "coll_id", catalog.AliasOmmc, catalog.AliasMetaColl},
		{st.metaResc, catalog.TableRescMain, "resc_id", catalog.AliasOmmr, catalog.AliasMetaResc},
		{st.metaUser, catalog.TableUserMain, "user_id", catalog.AliasOmmu, catalog.AliasMetaUser},
	}

	for _, s := range specs {
		if !s.active {
			continue
		}

		anchorAlias := st.aliases[s.anchor]

		fmt.Fprintf(&b, " LEFT JOIN %s %s ON %s.%s = %s.object_id",
			catalog.TableObjtMetamap, s.ommAlias, anchorAlias, s.idCol, s.ommAlias)
		fmt.Fprintf(&b, " LEFT JOIN %s %s ON %s.meta_id = %s.meta_id",
			catalog.TableMetaMain, s.mmAlias, s.ommAlias, s.mmAlias)
	}

	return b.String()
}

func renderPermissionJoins(st *state) string {
	var b strings.Builder

	if st.hasTable(catalog.TableDataMain) {
		alias := st.aliases[catalog.TableDataMain]
		fmt.Fprintf(&b, " INNER JOIN %s %s ON %s.data_id = %s.object_id",
			catalog.TableObjtAccess, catalog.AliasDataAccess, alias, catalog.AliasDataAccess)
		fmt.Fprintf(&b, " INNER JOIN %s %s ON %s.access_type_id = %s.token_id",
			catalog.TableToknMain, catalog.AliasDataPerm, catalog.AliasDataAccess, catalog.AliasDataPerm)
		fmt.Fprintf(&b, " INNER JOIN %s %s ON %s.user_id = %s.user_id",
			catalog.TableUserMain, catalog.AliasDataUser, catalog.AliasDataAccess, catalog.AliasDataUser)
	}

	if st.hasTable(catalog.TableCollMain) {
		alias := st.aliases[catalog.TableCollMain]
		fmt.Fprintf(&b, " INNER JOIN %s %s ON %s.coll_id = %s.object_id",
			catalog.TableObjtAccess, catalog.AliasCollAccess, alias, catalog.AliasCollAccess)
		fmt.Fprintf(&b, " INNER JOIN %s %s ON %s.access_type_id = %s.token_id",
			catalog.TableToknMain, catalog.AliasCollPerm, catalog.AliasCollAccess, catalog.AliasCollPerm)
		fmt.Fprintf(&b, " INNER JOIN %s %s ON %s.user_id = %s.user_id",
			catalog.TableUserMain, catalog.AliasCollUser, catalog.AliasCollAccess, catalog.AliasCollUser)
	}

	return b.String()
}

func renderWhere(st *state, cfg *config.Config) string {
	var predicates []string

	hasData := st.hasTable(catalog.TableDataMain)
	hasColl := st.hasTable(catalog.TableCollMain)

	if st.conditionsSQL != "" {
		// Parenthesized so a top-level OR in the user's WHERE clause can't
		// spill into the permission/user-name predicates ANDed on below.
		predicates = append(predicates, "("+st.conditionsSQL+")")
	}

	if !cfg.AdminMode {
		if hasData {
			predicates = append(predicates, "pdu.user_name = ?")
			st.bindValues = append(st.bindValues, cfg.Username)
		}

		if hasColl {
			predicates = append(predicates, "pcu.user_name = ?")
			st.bindValues = append(st.bindValues, cfg.Username)
		}
	}

	minPerm := cfg.MinPermission()

	if hasData {
		predicates = append(predicates, fmt.Sprintf("pdoa.access_type_id >= %d", minPerm))
	}

	if hasColl {
		predicates = append(predicates, fmt.Sprintf("pcoa.access_type_id >= %d", minPerm))
	}

	if len(predicates) == 0 {
		return ""
	}

	return "WHERE " + strings.Join(predicates, " AND ")
}

func renderRescHierCTE(dialect config.Dialect) string {
	f := fragmentsFor(dialect)

	return fmt.Sprintf(
		"WITH %scte_drh(resc_id, hier, parent_id) AS ("+
			"SELECT resc_id, CAST(resc_name AS %s), CAST(resc_parent AS %s) FROM %s WHERE resc_id > 0 "+
			"UNION ALL "+
			"SELECT cte_drh.resc_id, CAST(U.resc_name AS %s) || ';' || cte_drh.hier, CAST(U.resc_parent AS %s) "+
			"FROM %s U INNER JOIN cte_drh ON U.resc_id = cte_drh.parent_id"+
			")",
		f.recursiveKeyword,
		f.hierNameCastType, f.hierIDCastType, catalog.TableRescMain,
		f.hierNameCastType, f.hierIDCastType, catalog.TableRescMain,
	)
}
