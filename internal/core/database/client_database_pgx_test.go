package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableName(t *testing.T) {
	assert.Equal(t, `"my-index"`, tableName("my-index"))
	assert.Equal(t, `"a""b"`, tableName(`a"b`))
	assert.Equal(t, `"docs.v2"`, tableName("docs.v2"))
}

func TestUpsertQuery(t *testing.T) {
	q := upsertQuery("my-index")
	assert.Contains(t, q, `INSERT INTO "my-index"`)
	assert.Contains(t, q, "ON CONFLICT (namespace, id) DO UPDATE")
	assert.Equal(t, 1, strings.Count(q, `"my-index"`))
}
