package store

import (
	"context"
	"errors"
	"testing"

	"site-sync/core/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStore_PutUpsertsOnMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `identity_mappings` .*ON DUPLICATE KEY UPDATE .*`local_id`").
		WithArgs("post", "10", "https://a.test", int64(7), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.Put(context.Background(), reconcile.IdentityKey{Kind: "post", RemoteID: "10", Origin: "https://a.test"}, 7)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreatePostFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `posts`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.CreatePost(context.Background(), &reconcile.Post{Type: "post", Name: "p"})
	assert.ErrorContains(t, err, "failed to create post")
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetQueryFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, nil)

	mock.ExpectQuery("SELECT \\* FROM `identity_mappings` WHERE .*").
		WillReturnError(errors.New("connection reset"))

	_, found, err := s.Get(context.Background(), reconcile.IdentityKey{Kind: "post", RemoteID: "1", Origin: "o"})
	assert.False(t, found)
	assert.ErrorContains(t, err, "connection reset")
}

func TestStore_RecountFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db, nil)

	mock.ExpectExec("UPDATE terms SET term_count").WillReturnError(errors.New("lock wait timeout"))

	require.NoError(t, s.DeferCounting(context.Background(), true))
	err := s.DeferCounting(context.Background(), false)
	assert.ErrorContains(t, err, "failed to recount terms")
	assert.NoError(t, mock.ExpectationsWereMet())
}
