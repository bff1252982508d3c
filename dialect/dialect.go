// Package dialect defines the small keyword-extension packs that the
// lexer and parser accept, following the spec's "dialect does not alter
// grammar shape" contract: a dialect only ever adds recognized words.
package dialect

// Dialect bundles the two keyword extensions exposed through
// Options.Dialect: extra reserved words, and extra clause-boundary words.
// Only AdditionalKeywords changes how input is lexed or parsed.
type Dialect struct {
	Name string

	// AdditionalKeywords are words the lexer should classify as Keyword
	// (case-insensitive) beyond the base reserved-word set.
	AdditionalKeywords []string

	// ClauseKeywords are words that start a new top-level clause, beyond
	// the base set. The parser collects them into a set that no parsing
	// decision reads; the lexer and the formatter do not use them.
	ClauseKeywords []string
}

// Postgres returns the dialect extras layered on top of the base
// (PostgreSQL-first) reserved-word set baked into the lexer. It exists so
// callers don't need to special-case "no dialect" vs "Postgres dialect" —
// both behave identically, per spec.md §1's "PostgreSQL-first" framing.
func Postgres() Dialect {
	return Dialect{
		Name: "postgres",
		AdditionalKeywords: []string{
			"ILIKE", "DISTINCT", "LATERAL", "RETURNING", "CONCURRENTLY",
			"TABLESPACE", "UNLOGGED", "INHERITS", "USING", "WITHIN",
			"FILTER", "OVER", "PARTITION", "QUALIFY",
		},
		ClauseKeywords: []string{"RETURNING", "WINDOW"},
	}
}

// MySQL layers MySQL/MariaDB-specific keywords (backtick identifiers are
// handled by the lexer directly, not via this list).
func MySQL() Dialect {
	return Dialect{
		Name: "mysql",
		AdditionalKeywords: []string{
			"REPLACE", "IGNORE", "DUPLICATE", "ENGINE", "AUTO_INCREMENT",
			"UNSIGNED", "ZEROFILL", "STRAIGHT_JOIN", "SQL_CALC_FOUND_ROWS",
			"RLIKE", "REGEXP", "DIV", "MOD",
		},
		ClauseKeywords: []string{},
	}
}

// SQLite layers SQLite-specific keywords.
func SQLite() Dialect {
	return Dialect{
		Name: "sqlite",
		AdditionalKeywords: []string{
			"AUTOINCREMENT", "WITHOUT", "ROWID", "PRAGMA", "VIRTUAL",
			"GLOB", "MATCH", "INDEXED",
		},
		ClauseKeywords: []string{},
	}
}

// TSQL layers T-SQL (SQL Server) specific keywords.
func TSQL() Dialect {
	return Dialect{
		Name: "tsql",
		AdditionalKeywords: []string{
			"TOP", "IDENTITY", "NVARCHAR", "NCHAR", "OUTPUT", "MERGE",
			"PIVOT", "UNPIVOT", "APPLY", "CROSS", "OUTER", "ROWGUIDCOL",
			"CLUSTERED", "NONCLUSTERED", "INCLUDE",
		},
		ClauseKeywords: []string{"OUTPUT", "FOR JSON", "FOR XML"},
	}
}

// Oracle layers Oracle/PL-SQL specific keywords.
func Oracle() Dialect {
	return Dialect{
		Name: "oracle",
		AdditionalKeywords: []string{
			"CONNECT", "START", "PRIOR", "ROWNUM", "DUAL", "SYSDATE",
			"NOCYCLE", "MINUS", "ROWID", "NOLOGGING", "COMPRESS",
		},
		ClauseKeywords: []string{"CONNECT BY", "START WITH"},
	}
}

// Merge combines the extension lists of multiple dialects (e.g. a caller
// may want MySQL plus a handful of house-style additional keywords).
func Merge(dialects ...Dialect) Dialect {
	merged := Dialect{Name: "merged"}
	for _, d := range dialects {
		merged.AdditionalKeywords = append(merged.AdditionalKeywords, d.AdditionalKeywords...)
		merged.ClauseKeywords = append(merged.ClauseKeywords, d.ClauseKeywords...)
	}
	return merged
}
