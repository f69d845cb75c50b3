package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"site-sync/core/reconcile"
	"site-sync/feature/content/models"

	"gorm.io/gorm"
)

// Store is the gorm backed local store. It implements reconcile.Adapter,
// reconcile.IdentityStore and reconcile.AssetProbe.
type Store struct {
	db         *gorm.DB
	taxonomies map[string]struct{}
	deferred   atomic.Int32
}

var (
	_ reconcile.Adapter       = (*Store)(nil)
	_ reconcile.IdentityStore = (*Store)(nil)
	_ reconcile.AssetProbe    = (*Store)(nil)
)

// New creates a store over db with the given registered taxonomies.
func New(db *gorm.DB, taxonomies []string) *Store {
	s := &Store{db: db, taxonomies: make(map[string]struct{}, len(taxonomies))}
	for _, t := range taxonomies {
		s.taxonomies[t] = struct{}{}
	}
	return s
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates every table of the store.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate store: %w", err)
	}
	return nil
}

// Stats returns the row count of each table.
func (s *Store) Stats(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for table := range models.ExpectedSchema() {
		var n int64
		if err := s.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		out[table] = n
	}
	return out, nil
}

// first loads the first row matching the query into dst, reporting whether
// one was found.
func first(tx *gorm.DB, dst any) (bool, error) {
	err := tx.First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// countingDeferred reports whether count maintenance is suspended.
func (s *Store) countingDeferred() bool {
	return s.deferred.Load() > 0
}

// DeferCounting suspends or resumes count maintenance. Suspensions nest;
// the last resume recomputes term and comment counts.
func (s *Store) DeferCounting(ctx context.Context, deferred bool) error {
	if deferred {
		s.deferred.Add(1)
		return nil
	}
	if s.deferred.Add(-1) > 0 {
		return nil
	}
	s.deferred.Store(0)
	return s.recount(ctx)
}

// recount recomputes every term count and post comment count.
func (s *Store) recount(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.Exec(`UPDATE terms SET term_count = (SELECT COUNT(*) FROM term_relationships WHERE term_relationships.term_id = terms.id)`).Error; err != nil {
		return fmt.Errorf("failed to recount terms: %w", err)
	}
	if err := db.Exec(`UPDATE posts SET comment_count = (SELECT COUNT(*) FROM comments WHERE comments.comment_post_id = posts.id AND comments.comment_approved = '1')`).Error; err != nil {
		return fmt.Errorf("failed to recount comments: %w", err)
	}
	return nil
}

// recountTerms refreshes the counts of the given terms.
func (s *Store) recountTerms(tx *gorm.DB, termIDs []int64) error {
	if len(termIDs) == 0 || s.countingDeferred() {
		return nil
	}
	return tx.Exec(`UPDATE terms SET term_count = (SELECT COUNT(*) FROM term_relationships WHERE term_relationships.term_id = terms.id) WHERE id IN ?`, termIDs).Error
}

// recountComments refreshes the comment count of a post.
func (s *Store) recountComments(tx *gorm.DB, postID int64) error {
	if s.countingDeferred() {
		return nil
	}
	return tx.Exec(`UPDATE posts SET comment_count = (SELECT COUNT(*) FROM comments WHERE comments.comment_post_id = posts.id AND comments.comment_approved = '1') WHERE id = ?`, postID).Error
}
