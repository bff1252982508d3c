package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialectConstructorsSetName(t *testing.T) {
	cases := map[string]Dialect{
		"postgres": Postgres(),
		"mysql":    MySQL(),
		"sqlite":   SQLite(),
		"tsql":     TSQL(),
		"oracle":   Oracle(),
	}
	for name, d := range cases {
		assert.Equal(t, name, d.Name)
		assert.NotEmpty(t, d.AdditionalKeywords, name)
	}
}

func TestPostgresClauseKeywordsIncludeReturning(t *testing.T) {
	d := Postgres()
	assert.Contains(t, d.ClauseKeywords, "RETURNING")
}

func TestMergeCombinesAdditionalKeywordsAndClauseKeywords(t *testing.T) {
	merged := Merge(MySQL(), TSQL())
	assert.Equal(t, "merged", merged.Name)
	assert.Subset(t, merged.AdditionalKeywords, MySQL().AdditionalKeywords)
	assert.Subset(t, merged.AdditionalKeywords, TSQL().AdditionalKeywords)
	assert.Subset(t, merged.ClauseKeywords, TSQL().ClauseKeywords)
}

func TestMergeOfNoDialectsIsEmptyButNamed(t *testing.T) {
	merged := Merge()
	assert.Equal(t, "merged", merged.Name)
	assert.Empty(t, merged.AdditionalKeywords)
	assert.Empty(t, merged.ClauseKeywords)
}
