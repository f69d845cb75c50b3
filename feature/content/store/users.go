package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"site-sync/core/reconcile"
	"site-sync/feature/content/models"

	"gorm.io/datatypes"
)

// FindUserByLogin returns the user with the given login.
func (s *Store) FindUserByLogin(ctx context.Context, login string) (*reconcile.User, error) {
	var row models.User
	found, err := first(s.db.WithContext(ctx).Where("user_login = ?", login), &row)
	if err != nil {
		return nil, fmt.Errorf("failed to find user %q: %w", login, err)
	}
	if !found {
		return nil, nil
	}
	return row.ToEntity(), nil
}

// CreateUser inserts u.
func (s *Store) CreateUser(ctx context.Context, u *reconcile.User) (int64, error) {
	row := models.NewUser(u)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to create user %q: %w", u.Login, err)
	}
	return row.ID, nil
}

// UpdateUserMeta merges meta into the user's meta.
func (s *Store) UpdateUserMeta(ctx context.Context, userID int64, meta map[string]any) error {
	row, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	merged := models.MergeMeta(row.Meta, meta)
	if err := s.db.WithContext(ctx).Model(&models.User{ID: userID}).Update("meta", merged).Error; err != nil {
		return fmt.Errorf("failed to update meta of user %d: %w", userID, err)
	}
	return nil
}

// AddUserRole grants role on top of the user's current roles.
func (s *Store) AddUserRole(ctx context.Context, userID int64, role string) error {
	row, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	roles := row.RoleList()
	if slices.Contains(roles, role) {
		return nil
	}
	raw, err := json.Marshal(append(roles, role))
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&models.User{ID: userID}).Update("roles", datatypes.JSON(raw)).Error; err != nil {
		return fmt.Errorf("failed to update roles of user %d: %w", userID, err)
	}
	return nil
}

func (s *Store) loadUser(ctx context.Context, userID int64) (*models.User, error) {
	var row models.User
	found, err := first(s.db.WithContext(ctx).Where("id = ?", userID), &row)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: user %d", reconcile.ErrNotFound, userID)
	}
	return &row, nil
}
