package store

import (
	"context"
	"fmt"

	"site-sync/core/reconcile"
	"site-sync/feature/content/models"

	"gorm.io/gorm/clause"
)

// GetOption returns the option with the given name.
func (s *Store) GetOption(ctx context.Context, name string) (*reconcile.Option, error) {
	var row models.Option
	found, err := first(s.db.WithContext(ctx).Where("option_name = ?", name), &row)
	if err != nil {
		return nil, fmt.Errorf("failed to load option %q: %w", name, err)
	}
	if !found {
		return nil, nil
	}
	return row.ToEntity(), nil
}

// UpdateOption upserts o by name and returns its id.
func (s *Store) UpdateOption(ctx context.Context, o *reconcile.Option) (int64, error) {
	row, err := models.NewOption(o)
	if err != nil {
		return 0, fmt.Errorf("failed to encode option %q: %w", o.Name, err)
	}
	row.ID = 0

	db := s.db.WithContext(ctx)
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "option_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_value", "autoload"}),
	}).Create(row).Error
	if err != nil {
		return 0, fmt.Errorf("failed to upsert option %q: %w", o.Name, err)
	}

	// On conflict some drivers do not report the existing id.
	var stored models.Option
	if err := db.Select("id").Where("option_name = ?", o.Name).First(&stored).Error; err != nil {
		return 0, fmt.Errorf("failed to reload option %q: %w", o.Name, err)
	}
	return stored.ID, nil
}
