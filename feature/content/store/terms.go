package store

import (
	"context"
	"fmt"

	"site-sync/core/reconcile"
	"site-sync/feature/content/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaxonomyExists reports whether taxonomy is registered.
func (s *Store) TaxonomyExists(_ context.Context, taxonomy string) (bool, error) {
	_, ok := s.taxonomies[taxonomy]
	return ok, nil
}

// FindTermBySlug returns the term with slug in taxonomy.
func (s *Store) FindTermBySlug(ctx context.Context, taxonomy, slug string) (*reconcile.Term, error) {
	return s.findTerm(ctx, "taxonomy = ? AND slug = ?", taxonomy, slug)
}

// FindTermByName returns the term named name in taxonomy.
func (s *Store) FindTermByName(ctx context.Context, taxonomy, name string) (*reconcile.Term, error) {
	return s.findTerm(ctx, "taxonomy = ? AND name = ?", taxonomy, name)
}

func (s *Store) findTerm(ctx context.Context, query string, taxonomy, value string) (*reconcile.Term, error) {
	var row models.Term
	found, err := first(s.db.WithContext(ctx).Where(query, taxonomy, value).Order("id"), &row)
	if err != nil {
		return nil, fmt.Errorf("failed to find term %q in %s: %w", value, taxonomy, err)
	}
	if !found {
		return nil, nil
	}
	return row.ToEntity(), nil
}

// CreateTerm inserts t.
func (s *Store) CreateTerm(ctx context.Context, t *reconcile.Term) (int64, error) {
	row := models.NewTerm(t)
	row.ID = 0
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return 0, fmt.Errorf("failed to create term %q in %s: %w", t.Slug, t.Taxonomy, err)
	}
	return row.ID, nil
}

// UpdateTermMeta merges meta into the term's meta.
func (s *Store) UpdateTermMeta(ctx context.Context, termID int64, meta map[string]any) error {
	var row models.Term
	db := s.db.WithContext(ctx)
	found, err := first(db.Where("id = ?", termID), &row)
	if err != nil {
		return fmt.Errorf("failed to load term %d: %w", termID, err)
	}
	if !found {
		return fmt.Errorf("%w: term %d", reconcile.ErrNotFound, termID)
	}
	merged := models.MergeMeta(row.Meta, meta)
	if err := db.Model(&models.Term{ID: termID}).Update("meta", merged).Error; err != nil {
		return fmt.Errorf("failed to update meta of term %d: %w", termID, err)
	}
	return nil
}

// SetObjectTerms attaches the terms of taxonomy named by slugs to the post.
// Without appendTerms the post's other terms in taxonomy are detached.
func (s *Store) SetObjectTerms(ctx context.Context, postID int64, taxonomy string, slugs []string, appendTerms bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := termIDs(tx, taxonomy, slugs)
		if err != nil {
			return err
		}

		var touched []int64
		if !appendTerms {
			var previous []int64
			err := tx.Model(&models.TermRelationship{}).
				Where("object_id = ? AND term_id IN (?)", postID, tx.Model(&models.Term{}).Select("id").Where("taxonomy = ?", taxonomy)).
				Pluck("term_id", &previous).Error
			if err != nil {
				return fmt.Errorf("failed to load terms of post %d: %w", postID, err)
			}
			if len(previous) > 0 {
				if err := tx.Where("object_id = ? AND term_id IN ?", postID, previous).Delete(&models.TermRelationship{}).Error; err != nil {
					return fmt.Errorf("failed to detach terms of post %d: %w", postID, err)
				}
			}
			touched = append(touched, previous...)
		}

		if len(ids) > 0 {
			rels := make([]models.TermRelationship, 0, len(ids))
			for _, id := range ids {
				rels = append(rels, models.TermRelationship{PostID: postID, TermID: id})
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rels).Error; err != nil {
				return fmt.Errorf("failed to attach terms to post %d: %w", postID, err)
			}
			touched = append(touched, ids...)
		}

		return s.recountTerms(tx, touched)
	})
}

// RemoveObjectTerms detaches the terms of taxonomy named by slugs from the post.
func (s *Store) RemoveObjectTerms(ctx context.Context, postID int64, taxonomy string, slugs []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := termIDs(tx, taxonomy, slugs)
		if err != nil || len(ids) == 0 {
			return err
		}
		if err := tx.Where("object_id = ? AND term_id IN ?", postID, ids).Delete(&models.TermRelationship{}).Error; err != nil {
			return fmt.Errorf("failed to detach terms of post %d: %w", postID, err)
		}
		return s.recountTerms(tx, ids)
	})
}

// ObjectTerms returns the slugs of the post's terms in taxonomy.
func (s *Store) ObjectTerms(ctx context.Context, postID int64, taxonomy string) ([]string, error) {
	var slugs []string
	err := s.db.WithContext(ctx).Model(&models.Term{}).
		Joins("JOIN term_relationships ON term_relationships.term_id = terms.id").
		Where("term_relationships.object_id = ? AND terms.taxonomy = ?", postID, taxonomy).
		Order("terms.slug").
		Pluck("terms.slug", &slugs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list terms of post %d: %w", postID, err)
	}
	return slugs, nil
}

// termIDs resolves slugs of taxonomy to term ids. Unknown slugs are skipped.
func termIDs(tx *gorm.DB, taxonomy string, slugs []string) ([]int64, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var ids []int64
	if err := tx.Model(&models.Term{}).Where("taxonomy = ? AND slug IN ?", taxonomy, slugs).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve terms in %s: %w", taxonomy, err)
	}
	return ids, nil
}
