package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE test_items (id INTEGER PRIMARY KEY, name TEXT, description TEXT)").Error
	require.NoError(t, err)

	columns, err := GetTableColumns(db, "test_items")
	assert.NoError(t, err)
	assert.Len(t, columns, 3)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}

	assert.Equal(t, "integer", colMap["id"])
	assert.Equal(t, "text", colMap["name"])
	assert.Equal(t, "text", colMap["description"])

	// PRAGMA table_info returns no rows for a missing table
	cols, err := GetTableColumns(db, "non_existent")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestCheckSchema(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT)").Error)

	t.Run("Complete", func(t *testing.T) {
		report, err := CheckSchema(db, map[string][]string{"posts": {"id", "title"}})
		require.NoError(t, err)
		assert.True(t, report.OK())
	})

	t.Run("Missing", func(t *testing.T) {
		report, err := CheckSchema(db, map[string][]string{
			"posts":    {"id", "title", "slug"},
			"comments": {"id"},
		})
		require.NoError(t, err)
		assert.False(t, report.OK())
		assert.Equal(t, []string{"comments"}, report.MissingTables)
		assert.Equal(t, []string{"slug"}, report.MissingColumns["posts"])
	})
}
