package lexer

// baseKeywords is the fixed set of reserved SQL words recognized
// case-insensitively across all supported dialects, per spec.md §4.1.
// Dialect.AdditionalKeywords extends this set; it never removes from it.
var baseKeywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP", "BY", "HAVING", "ORDER", "LIMIT",
	"OFFSET", "FETCH", "FIRST", "NEXT", "ROWS", "ROW", "ONLY", "TOP",
	"DISTINCT", "ALL", "AS", "ASC", "DESC", "NULLS", "LAST",
	"INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "MERGE",
	"USING", "WHEN", "MATCHED", "THEN", "NOT",
	"CREATE", "ALTER", "DROP", "TABLE", "INDEX", "VIEW", "POLICY",
	"SCHEMA", "DATABASE", "SEQUENCE", "TRIGGER", "FUNCTION", "PROCEDURE",
	"COLUMN", "CONSTRAINT", "PRIMARY", "FOREIGN", "KEY", "REFERENCES",
	"UNIQUE", "CHECK", "DEFAULT", "NULL", "TRUE", "FALSE", "IF", "EXISTS",
	"CASCADE", "RESTRICT", "TRUNCATE", "GRANT", "REVOKE", "TO", "ON",
	"FOR", "EXPLAIN", "ANALYZE", "VERBOSE", "COMMENT", "IS",
	"JOIN", "INNER", "LEFT", "RIGHT", "FULL", "CROSS", "NATURAL", "LATERAL",
	"APPLY", "OUTER",
	"AND", "OR", "IN", "BETWEEN", "LIKE", "ILIKE", "SIMILAR", "REGEXP",
	"RLIKE", "ISNULL", "NOTNULL",
	"CASE", "WHEN", "THEN", "ELSE", "END",
	"CAST", "EXTRACT", "POSITION", "SUBSTRING", "OVERLAY", "TRIM",
	"INTERVAL", "ARRAY", "ROW",
	"CURRENT_DATE", "CURRENT_TIME", "CURRENT_TIMESTAMP", "LOCALTIME",
	"LOCALTIMESTAMP",
	"DATE", "TIME", "TIMESTAMP", "ZONE", "WITH", "WITHOUT", "LOCAL",
	"WITHIN", "GROUPS", "GROUPING", "ROLLUP", "CUBE", "SETS",
	"UNION", "INTERSECT", "EXCEPT", "MINUS",
	"WINDOW", "OVER", "PARTITION", "RANGE", "PRECEDING", "FOLLOWING",
	"UNBOUNDED", "CURRENT", "FILTER", "QUALIFY",
	"BEGIN", "COMMIT", "ROLLBACK", "TRANSACTION", "WORK", "SAVEPOINT",
	"RETURNING", "CONFLICT", "DO", "NOTHING", "DUPLICATE", "IGNORE",
	"REPLACE", "OVERRIDING", "SYSTEM", "USER", "VALUE", "GENERATED",
	"ALWAYS", "IDENTITY", "COLLATE", "SOME", "ANY",
	"OUTPUT", "PIVOT", "UNPIVOT", "TOP", "IDENTITY",
	"WITH", "RECURSIVE", "MATERIALIZED",
	"EXTRACT", "EXISTS", "DISTINCT",
	"CONCURRENTLY", "TABLESPACE", "UNLOGGED", "INHERITS",
}

// clauseBoundaryKeywords lists words that begin a new top-level clause,
// beyond the statement-initial verbs. No code in the module reads it: the
// parser's recovery scan and the formatter's river layout do not consult it.
var clauseBoundaryKeywords = []string{
	"SELECT", "FROM", "WHERE", "GROUP", "HAVING", "ORDER", "LIMIT",
	"OFFSET", "FETCH", "UNION", "INTERSECT", "EXCEPT", "WINDOW",
	"VALUES", "SET", "RETURNING", "INTO",
}

func newKeywordSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(baseKeywords)+len(extra))
	for _, k := range baseKeywords {
		set[k] = true
	}
	for _, k := range extra {
		set[k] = true
	}
	return set
}
