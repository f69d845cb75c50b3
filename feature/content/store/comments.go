package store

import (
	"context"
	"fmt"

	"site-sync/core/reconcile"
	"site-sync/feature/content/models"

	"gorm.io/gorm"
)

// CreateComment inserts c and refreshes its post's comment count.
func (s *Store) CreateComment(ctx context.Context, c *reconcile.Comment) (int64, error) {
	row := models.NewComment(c)
	row.ID = 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		return s.recountComments(tx, row.PostID)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create comment on post %d: %w", c.PostID, err)
	}
	return row.ID, nil
}
