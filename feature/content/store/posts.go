package store

import (
	"context"
	"fmt"

	"site-sync/core/reconcile"
	"site-sync/feature/content/models"
)

// GetPost loads a post of any type by id.
func (s *Store) GetPost(ctx context.Context, id int64) (*reconcile.Post, error) {
	var row models.Post
	found, err := first(s.db.WithContext(ctx).Where("id = ?", id), &row)
	if err != nil {
		return nil, fmt.Errorf("failed to load post %d: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return row.ToEntity(), nil
}

// FindPostsBySlug returns the posts of postType with the given slug, oldest
// first.
func (s *Store) FindPostsBySlug(ctx context.Context, postType, slug string) ([]*reconcile.Post, error) {
	if slug == "" {
		return nil, nil
	}
	var rows []models.Post
	err := s.db.WithContext(ctx).
		Where("post_type = ? AND post_name = ?", postType, slug).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find %s %q: %w", postType, slug, err)
	}
	out := make([]*reconcile.Post, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToEntity())
	}
	return out, nil
}

// CreatePost inserts p. A requested id that is already taken is replaced by
// a store assigned one.
func (s *Store) CreatePost(ctx context.Context, p *reconcile.Post) (int64, error) {
	row := models.NewPost(p)
	db := s.db.WithContext(ctx)

	if row.ID != 0 {
		var n int64
		if err := db.Model(&models.Post{}).Where("id = ?", row.ID).Count(&n).Error; err != nil {
			return 0, fmt.Errorf("failed to check post id %d: %w", row.ID, err)
		}
		if n > 0 {
			row.ID = 0
		}
	}

	if err := db.Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to create post: %w", err)
	}
	return row.ID, nil
}

// UpdatePost overwrites the post's fields and merges its meta.
func (s *Store) UpdatePost(ctx context.Context, p *reconcile.Post) error {
	var current models.Post
	db := s.db.WithContext(ctx)
	found, err := first(db.Where("id = ?", p.ID), &current)
	if err != nil {
		return fmt.Errorf("failed to load post %d: %w", p.ID, err)
	}
	if !found {
		return fmt.Errorf("%w: post %d", reconcile.ErrNotFound, p.ID)
	}

	row := models.NewPost(p)
	row.Meta = models.MergeMeta(current.Meta, p.Meta)
	row.CommentCount = current.CommentCount

	if err := db.Model(&models.Post{ID: p.ID}).Select("*").Omit("id").Updates(row).Error; err != nil {
		return fmt.Errorf("failed to update post %d: %w", p.ID, err)
	}
	return nil
}

// SetPostMeta merges meta into the post's meta.
func (s *Store) SetPostMeta(ctx context.Context, postID int64, meta map[string]any) error {
	var current models.Post
	db := s.db.WithContext(ctx)
	found, err := first(db.Select("id", "meta").Where("id = ?", postID), &current)
	if err != nil {
		return fmt.Errorf("failed to load post %d: %w", postID, err)
	}
	if !found {
		return fmt.Errorf("%w: post %d", reconcile.ErrNotFound, postID)
	}

	merged := models.MergeMeta(current.Meta, meta)
	if err := db.Model(&models.Post{ID: postID}).Update("meta", merged).Error; err != nil {
		return fmt.Errorf("failed to update meta of post %d: %w", postID, err)
	}
	return nil
}

// UpsertConnection creates the typed edge between two posts unless it exists.
func (s *Store) UpsertConnection(ctx context.Context, conn *models.PostConnection) error {
	var existing models.PostConnection
	db := s.db.WithContext(ctx)
	found, err := first(db.Where("connection_type = ? AND from_id = ? AND to_id = ?", conn.Type, conn.FromID, conn.ToID), &existing)
	if err != nil {
		return fmt.Errorf("failed to load connection: %w", err)
	}
	if found {
		conn.ID = existing.ID
		if len(conn.Meta) == 0 {
			return nil
		}
		merged := models.MergeMeta(existing.Meta, conn.Meta)
		return db.Model(&existing).Update("meta", merged).Error
	}
	if err := db.Create(conn).Error; err != nil {
		return fmt.Errorf("failed to create connection: %w", err)
	}
	return nil
}

// Connections returns the connections leaving a post.
func (s *Store) Connections(ctx context.Context, fromID int64) ([]models.PostConnection, error) {
	var rows []models.PostConnection
	if err := s.db.WithContext(ctx).Where("from_id = ?", fromID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list connections of %d: %w", fromID, err)
	}
	return rows, nil
}
