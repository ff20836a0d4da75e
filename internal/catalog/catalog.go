// Package catalog holds the static mapping from virtual column names (the
// names a GenQuery2 query mentions, e.g. COLL_NAME) to the physical table and
// column that back them, plus the classification rules the SQL generator
// uses to decide which specialized join pattern (metadata, permission,
// resource hierarchy) a column pulls in.
package catalog

import (
	"fmt"
	"strings"
)

// Kind classifies a virtual column for the purposes of join planning. Plain
// columns live on whatever physical table they name; the others anchor onto
// a different table and pull in a reserved-alias join pattern.
type Kind int

const (
	KindPlain Kind = iota
	KindMetaData
	KindMetaColl
	KindMetaResc
	KindMetaUser
	KindDataAccess
	KindCollAccess
	KindDataRescHier
)

func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindMetaData:
		return "meta_data"
	case KindMetaColl:
		return "meta_coll"
	case KindMetaResc:
		return "meta_resc"
	case KindMetaUser:
		return "meta_user"
	case KindDataAccess:
		return "data_access"
	case KindCollAccess:
		return "coll_access"
	case KindDataRescHier:
		return "data_resc_hier"
	default:
		return "unknown"
	}
}

// Physical table names. These are the vertices of the schema graph.
const (
	TableCollMain             = "R_COLL_MAIN"
	TableDataMain             = "R_DATA_MAIN"
	TableMetaMain             = "R_META_MAIN"
	TableObjtAccess           = "R_OBJT_ACCESS"
	TableObjtMetamap          = "R_OBJT_METAMAP"
	TableRescMain             = "R_RESC_MAIN"
	TableRuleExec             = "R_RULE_EXEC"
	TableSpecificQuery        = "R_SPECIFIC_QUERY"
	TableTicketAllowedHosts   = "R_TICKET_ALLOWED_HOSTS"
	TableTicketAllowedUsers   = "R_TICKET_ALLOWED_USERS"
	TableTicketAllowedGroups  = "R_TICKET_ALLOWED_GROUPS"
	TableTicketMain           = "R_TICKET_MAIN"
	TableToknMain             = "R_TOKN_MAIN"
	TableUserAuth             = "R_USER_AUTH"
	TableUserGroup            = "R_USER_GROUP"
	TableUserMain             = "R_USER_MAIN"
	TableUserPassword         = "R_USER_PASSWORD"
	TableUserSessionKey       = "R_USER_SESSION_KEY"
	TableZoneMain             = "R_ZONE_MAIN"
	TableQuotaMain            = "R_QUOTA_MAIN"
)

// Reserved aliases are never produced by the alias generator; they are
// assigned by hand to tables pulled in by a specialized join pattern.
const (
	AliasMetaData   = "mmd"
	AliasMetaColl   = "mmc"
	AliasMetaResc   = "mmr"
	AliasMetaUser   = "mmu"
	AliasDataAccess = "pdoa"
	AliasDataPerm   = "pdt"
	AliasDataUser   = "pdu"
	AliasCollAccess = "pcoa"
	AliasCollPerm   = "pct"
	AliasCollUser   = "pcu"
	AliasDataRescHier = "cte_drh"
	AliasOmmd = "ommd"
	AliasOmmc = "ommc"
	AliasOmmr = "ommr"
	AliasOmmu = "ommu"
)

// ReservedAliases lists every alias the generator must never assign to a
// plain table, keyed for O(1) membership tests.
var ReservedAliases = map[string]struct{}{ //nolint:gochecknoglobals
	AliasMetaData:     {},
	AliasMetaColl:      {},
	AliasMetaResc:      {},
	AliasMetaUser:      {},
	AliasDataAccess:    {},
	AliasDataPerm:      {},
	AliasDataUser:      {},
	AliasCollAccess:    {},
	AliasCollPerm:      {},
	AliasCollUser:      {},
	AliasDataRescHier:  {},
	AliasOmmd:          {},
	AliasOmmc:          {},
	AliasOmmr:          {},
	AliasOmmu:          {},
}

// Descriptor is the physical location a virtual column resolves to.
type Descriptor struct {
	Table  string
	Column string
}

// UnknownColumn is returned by Lookup when name is absent from the catalog.
type UnknownColumn struct {
	Name string
}

func (e UnknownColumn) Error() string {
	return fmt.Sprintf("unknown column %q", e.Name)
}

// CompileErrorKind identifies this error to callers switching on
// genquery2.CompileError.CompileErrorKind().
func (UnknownColumn) CompileErrorKind() string { return "UnknownColumn" }

var columns = map[string]Descriptor{ //nolint:gochecknoglobals
	"COLL_ID":             {TableCollMain, "coll_id"},
	"COLL_NAME":           {TableCollMain, "coll_name"},
	"COLL_PARENT_NAME":    {TableCollMain, "parent_coll_name"},
	"COLL_OWNER_NAME":     {TableCollMain, "coll_owner_name"},
	"COLL_OWNER_ZONE":     {TableCollMain, "coll_owner_zone"},
	"COLL_CREATE_TIME":    {TableCollMain, "create_ts"},
	"COLL_MODIFY_TIME":    {TableCollMain, "modify_ts"},
	"COLL_TYPE":           {TableCollMain, "coll_type"},
	"COLL_INHERITANCE":    {TableCollMain, "coll_inheritance"},

	"DATA_ID":             {TableDataMain, "data_id"},
	"DATA_NAME":           {TableDataMain, "data_name"},
	"DATA_SIZE":           {TableDataMain, "data_size"},
	"DATA_PATH":           {TableDataMain, "data_path"},
	"DATA_OWNER_NAME":     {TableDataMain, "data_owner_name"},
	"DATA_OWNER_ZONE":     {TableDataMain, "data_owner_zone"},
	"DATA_REPL_NUM":       {TableDataMain, "data_repl_num"},
	"DATA_VERSION":        {TableDataMain, "data_version"},
	"DATA_TYPE_NAME":      {TableDataMain, "data_type_name"},
	"DATA_CHECKSUM":       {TableDataMain, "data_checksum"},
	"DATA_EXPIRY":         {TableDataMain, "data_expiry_ts"},
	"DATA_CREATE_TIME":    {TableDataMain, "create_ts"},
	"DATA_MODIFY_TIME":    {TableDataMain, "modify_ts"},
	"DATA_MODE":           {TableDataMain, "data_mode"},
	"DATA_COMMENTS":       {TableDataMain, "r_comment"},
	"DATA_RESC_HIER":      {TableRescMain, "hier"},

	"RESC_ID":             {TableRescMain, "resc_id"},
	"RESC_NAME":           {TableRescMain, "resc_name"},
	"RESC_TYPE_NAME":      {TableRescMain, "resc_type_name"},
	"RESC_ZONE_NAME":      {TableRescMain, "zone_name"},
	"RESC_PARENT":         {TableRescMain, "resc_parent"},
	"RESC_CREATE_TIME":    {TableRescMain, "create_ts"},
	"RESC_MODIFY_TIME":    {TableRescMain, "modify_ts"},

	"USER_ID":             {TableUserMain, "user_id"},
	"USER_NAME":           {TableUserMain, "user_name"},
	"USER_TYPE":           {TableUserMain, "user_type_name"},
	"USER_ZONE":           {TableUserMain, "zone_name"},

	"ZONE_ID":             {TableZoneMain, "zone_id"},
	"ZONE_NAME":           {TableZoneMain, "zone_name"},
	"ZONE_TYPE":           {TableZoneMain, "zone_type_name"},

	"TICKET_ID":           {TableTicketMain, "ticket_id"},
	"TICKET_STRING":       {TableTicketMain, "ticket_string"},
	"TICKET_TYPE":         {TableTicketMain, "ticket_type"},
	"TICKET_USES_COUNT":   {TableTicketMain, "uses_count"},
	"TICKET_USES_LIMIT":   {TableTicketMain, "uses_limit"},
	"TICKET_EXPIRY_TS":    {TableTicketMain, "expiry_ts"},

	"QUOTA_LIMIT":         {TableQuotaMain, "quota_limit"},
	"QUOTA_OVER":          {TableQuotaMain, "quota_over"},

	"META_DATA_ATTR_NAME":  {TableMetaMain, "meta_attr_name"},
	"META_DATA_ATTR_VALUE": {TableMetaMain, "meta_attr_value"},
	"META_DATA_ATTR_UNITS": {TableMetaMain, "meta_attr_unit"},
	"META_COLL_ATTR_NAME":  {TableMetaMain, "meta_attr_name"},
	"META_COLL_ATTR_VALUE": {TableMetaMain, "meta_attr_value"},
	"META_COLL_ATTR_UNITS": {TableMetaMain, "meta_attr_unit"},
	"META_RESC_ATTR_NAME":  {TableMetaMain, "meta_attr_name"},
	"META_RESC_ATTR_VALUE": {TableMetaMain, "meta_attr_value"},
	"META_RESC_ATTR_UNITS": {TableMetaMain, "meta_attr_unit"},
	"META_USER_ATTR_NAME":  {TableMetaMain, "meta_attr_name"},
	"META_USER_ATTR_VALUE": {TableMetaMain, "meta_attr_value"},
	"META_USER_ATTR_UNITS": {TableMetaMain, "meta_attr_unit"},

	"DATA_ACCESS_NAME":      {TableObjtAccess, "access_type_id"},
	"DATA_ACCESS_PERM_NAME": {TableToknMain, "token_name"},
	"DATA_ACCESS_USER_NAME": {TableUserMain, "user_name"},
	"DATA_ACCESS_TYPE":      {TableObjtAccess, "access_type_id"},

	"COLL_ACCESS_NAME":      {TableObjtAccess, "access_type_id"},
	"COLL_ACCESS_PERM_NAME": {TableToknMain, "token_name"},
	"COLL_ACCESS_USER_NAME": {TableUserMain, "user_name"},
	"COLL_ACCESS_TYPE":      {TableObjtAccess, "access_type_id"},
}

// Lookup resolves a virtual column name to its physical descriptor. Name
// matching is case-insensitive, matching the lexer's case-insensitive
// keyword handling.
func Lookup(name string) (Descriptor, error) {
	d, ok := columns[strings.ToUpper(name)]
	if !ok {
		return Descriptor{}, UnknownColumn{Name: name}
	}

	return d, nil
}

// Classify determines which specialized join pattern, if any, a virtual
// column name triggers. It does not consult Lookup; callers are expected to
// call Lookup first to validate the name exists.
func Classify(name string) Kind {
	upper := strings.ToUpper(name)

	switch {
	case strings.HasPrefix(upper, "META_D"):
		return KindMetaData
	case strings.HasPrefix(upper, "META_C"):
		return KindMetaColl
	case strings.HasPrefix(upper, "META_R"):
		return KindMetaResc
	case strings.HasPrefix(upper, "META_U"):
		return KindMetaUser
	case upper == "DATA_RESC_HIER":
		return KindDataRescHier
	case strings.HasPrefix(upper, "DATA_ACCESS_"):
		return KindDataAccess
	case strings.HasPrefix(upper, "COLL_ACCESS_"):
		return KindCollAccess
	default:
		return KindPlain
	}
}

// AnchorTable returns the physical table a classified column's specialized
// join pattern attaches to — not the column's own physical table.
func AnchorTable(kind Kind) string {
	switch kind {
	case KindMetaData, KindDataAccess:
		return TableDataMain
	case KindMetaColl, KindCollAccess:
		return TableCollMain
	case KindMetaResc, KindDataRescHier:
		return TableRescMain
	case KindMetaUser:
		return TableUserMain
	default:
		return ""
	}
}

// SpecialAlias returns the reserved alias a classified column projects or
// filters through, given its exact name (needed to distinguish the
// PERM_NAME/USER_NAME overloads of DATA_ACCESS_*/COLL_ACCESS_*).
func SpecialAlias(name string, kind Kind) string {
	upper := strings.ToUpper(name)

	switch kind {
	case KindMetaData:
		return AliasMetaData
	case KindMetaColl:
		return AliasMetaColl
	case KindMetaResc:
		return AliasMetaResc
	case KindMetaUser:
		return AliasMetaUser
	case KindDataRescHier:
		return AliasDataRescHier
	case KindDataAccess:
		switch upper {
		case "DATA_ACCESS_PERM_NAME":
			return AliasDataPerm
		case "DATA_ACCESS_USER_NAME":
			return AliasDataUser
		default:
			return AliasDataAccess
		}
	case KindCollAccess:
		switch upper {
		case "COLL_ACCESS_PERM_NAME":
			return AliasCollPerm
		case "COLL_ACCESS_USER_NAME":
			return AliasCollUser
		default:
			return AliasCollAccess
		}
	default:
		return ""
	}
}
