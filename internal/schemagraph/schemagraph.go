// Package schemagraph models the fixed, undirected graph of physical catalog
// tables the SQL generator joins across. Unlike pgtofu's internal/graph (a directed,
// unlabeled adjacency structure built for topological sort over DDL
// dependencies) this graph is undirected and every edge carries a join
// predicate template plus the canonical (lhs, rhs) table ordering that
// template was written against.
package schemagraph

import "github.com/accented-ai/genquery2/internal/catalog"

// Edge is a single join relationship between two physical tables. Predicate
// is a template with two "%s" slots, filled with the left and right
// aliases in that order — never in whatever order the caller happened to
// ask for the two tables, which is why LHS/RHS are recorded on the edge
// itself rather than reconstructed at render time.
type Edge struct {
	LHS       string
	RHS       string
	Predicate string
}

// Graph is an undirected, labeled graph over physical table names.
type Graph struct {
	edges map[string]map[string]Edge
}

func newGraph() *Graph {
	return &Graph{edges: make(map[string]map[string]Edge)}
}

func (g *Graph) addEdge(lhs, rhs, predicate string) {
	edge := Edge{LHS: lhs, RHS: rhs, Predicate: predicate}

	if g.edges[lhs] == nil {
		g.edges[lhs] = make(map[string]Edge)
	}
	if g.edges[rhs] == nil {
		g.edges[rhs] = make(map[string]Edge)
	}

	g.edges[lhs][rhs] = edge
	g.edges[rhs][lhs] = edge
}

// Edge returns the join relationship between t1 and t2, if any. The
// returned Edge's LHS/RHS reflect the canonical order the predicate was
// authored in, regardless of whether t1 or t2 was passed first.
func (g *Graph) Edge(t1, t2 string) (Edge, bool) {
	byRHS, ok := g.edges[t1]
	if !ok {
		return Edge{}, false
	}

	e, ok := byRHS[t2]
	return e, ok
}

// schema is the process-wide, read-only graph instance. Built once from the
// fixed edge table below; every compile shares it.
var schema = buildGraph() //nolint:gochecknoglobals

// Default returns the process-wide schema graph.
func Default() *Graph {
	return schema
}

func buildGraph() *Graph {
	g := newGraph()

	type edgeSpec struct {
		lhs, rhs, predicate string
	}

	specs := []edgeSpec{
		{catalog.TableDataMain, catalog.TableCollMain, "%s.coll_id = %s.coll_id"},
		{catalog.TableCollMain, catalog.TableObjtAccess, "%s.coll_id = %s.object_id"},
		{catalog.TableCollMain, catalog.TableObjtMetamap, "%s.coll_id = %s.object_id"},
		{catalog.TableCollMain, catalog.TableTicketMain, "%s.coll_id = %s.object_id"},
		{catalog.TableDataMain, catalog.TableObjtAccess, "%s.data_id = %s.object_id"},
		{catalog.TableDataMain, catalog.TableObjtMetamap, "%s.data_id = %s.object_id"},
		{catalog.TableDataMain, catalog.TableRescMain, "%s.resc_id = %s.resc_id"},
		{catalog.TableDataMain, catalog.TableTicketMain, "%s.data_id = %s.object_id"},
		{catalog.TableMetaMain, catalog.TableObjtMetamap, "%s.meta_id = %s.meta_id"},
		{catalog.TableObjtAccess, catalog.TableToknMain, "%s.access_type_id = %s.token_id"},
		{catalog.TableObjtMetamap, catalog.TableRescMain, "%s.object_id = %s.resc_id"},
		{catalog.TableObjtMetamap, catalog.TableUserMain, "%s.object_id = %s.user_id"},
		{catalog.TableTicketMain, catalog.TableUserMain, "%s.user_id = %s.user_id"},
		{catalog.TableTicketMain, catalog.TableTicketAllowedHosts, "%s.ticket_id = %s.ticket_id"},
		{catalog.TableTicketMain, catalog.TableTicketAllowedUsers, "%s.ticket_id = %s.ticket_id"},
		{catalog.TableTicketMain, catalog.TableTicketAllowedGroups, "%s.ticket_id = %s.ticket_id"},
		{catalog.TableUserMain, catalog.TableUserAuth, "%s.user_id = %s.user_id"},
		{catalog.TableUserMain, catalog.TableUserGroup, "%s.user_id = %s.group_user_id"},
		{catalog.TableUserMain, catalog.TableUserPassword, "%s.user_id = %s.user_id"},
		{catalog.TableUserMain, catalog.TableUserSessionKey, "%s.user_id = %s.user_id"},
	}

	for _, s := range specs {
		g.addEdge(s.lhs, s.rhs, s.predicate)
	}

	return g
}
