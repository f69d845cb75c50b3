package models_test

import (
	"testing"
	"time"

	"site-sync/core/reconcile"
	"site-sync/feature/content/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestTableNames(t *testing.T) {
	names := map[string]interface{ TableName() string }{
		"posts":              models.Post{},
		"users":              models.User{},
		"terms":              models.Term{},
		"term_relationships": models.TermRelationship{},
		"comments":           models.Comment{},
		"options":            models.Option{},
		"identity_mappings":  models.IdentityMapping{},
		"post_connections":   models.PostConnection{},
	}
	for want, m := range names {
		assert.Equal(t, want, m.TableName())
	}
	assert.Len(t, models.All(), len(names))
	assert.Len(t, models.ExpectedSchema(), len(names))
}

func TestPostConversion(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := &reconcile.Post{
		ID: 4, Type: "page", Status: "publish", Title: "About", Name: "about",
		AuthorID: 2, ParentID: 1, Date: now, Modified: now,
		Meta: map[string]any{"k": "v"},
	}

	row := models.NewPost(in)
	assert.Equal(t, "about", row.Name)
	assert.Equal(t, in, row.ToEntity())
}

func TestUserRoles(t *testing.T) {
	row := models.NewUser(&reconcile.User{Login: "ana", Roles: []string{"editor"}})
	assert.Equal(t, []string{"editor"}, row.RoleList())

	empty := models.NewUser(&reconcile.User{Login: "bob"})
	assert.Empty(t, empty.RoleList())
}

func TestOptionConversion(t *testing.T) {
	row, err := models.NewOption(&reconcile.Option{Name: "blogname", Value: "Site", Autoload: true})
	assert.NoError(t, err)
	assert.Equal(t, "Site", row.ToEntity().Value)

	row, err = models.NewOption(&reconcile.Option{Name: "sizes", Value: map[string]any{"w": 10}})
	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"w": float64(10)}, row.ToEntity().Value)
}

func TestMergeMeta(t *testing.T) {
	got := models.MergeMeta(datatypes.JSONMap{"a": 1, "b": 2}, map[string]any{"b": 3, "a": nil, "c": "x"})
	assert.Equal(t, datatypes.JSONMap{"b": 3, "c": "x"}, got)

	assert.Equal(t, datatypes.JSONMap{"k": "v"}, models.MergeMeta(nil, map[string]any{"k": "v"}))
}
