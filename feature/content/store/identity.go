package store

import (
	"context"
	"fmt"
	"time"

	"site-sync/core/reconcile"
	"site-sync/feature/content/models"

	"gorm.io/gorm/clause"
)

// Get returns the local id mapped to key.
func (s *Store) Get(ctx context.Context, key reconcile.IdentityKey) (int64, bool, error) {
	var row models.IdentityMapping
	found, err := first(s.db.WithContext(ctx).
		Where("kind = ? AND remote_id = ? AND origin_source = ?", key.Kind, key.RemoteID, key.Origin), &row)
	if err != nil {
		return 0, false, fmt.Errorf("failed to load mapping %s: %w", key, err)
	}
	if !found {
		return 0, false, nil
	}
	return row.LocalID, true, nil
}

// Put upserts the mapping for key on its unique index.
func (s *Store) Put(ctx context.Context, key reconcile.IdentityKey, localID int64) error {
	row := models.IdentityMapping{
		Kind:      key.Kind,
		RemoteID:  key.RemoteID,
		Origin:    key.Origin,
		LocalID:   localID,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}, {Name: "remote_id"}, {Name: "origin_source"}},
		DoUpdates: clause.AssignmentColumns([]string{"local_id", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to store mapping %s: %w", key, err)
	}
	return nil
}

// HasLocal reports whether any mapping of kind points at localID.
func (s *Store) HasLocal(ctx context.Context, kind string, localID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.IdentityMapping{}).
		Where("kind = ? AND local_id = ?", kind, localID).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check mappings of %s %d: %w", kind, localID, err)
	}
	return n > 0, nil
}

// List returns the mappings of kind, restricted to origin when set.
func (s *Store) List(ctx context.Context, kind, origin string) ([]reconcile.Identity, error) {
	var rows []models.IdentityMapping
	q := s.db.WithContext(ctx).Where("kind = ?", kind)
	if origin != "" {
		q = q.Where("origin_source = ?", origin)
	}
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s mappings: %w", kind, err)
	}
	out := make([]reconcile.Identity, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToEntity())
	}
	return out, nil
}
