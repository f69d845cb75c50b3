package reconcile

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DuplicateResolver finds an unmapped local post that is plausibly the same
// entity as an incoming one.
type DuplicateResolver struct {
	adapter  Adapter
	identity *IdentityMapper
}

// NewDuplicateResolver creates a resolver reading posts from adapter and
// skipping the ones identity already maps.
func NewDuplicateResolver(adapter Adapter, identity *IdentityMapper) *DuplicateResolver {
	return &DuplicateResolver{adapter: adapter, identity: identity}
}

// Find returns the oldest unmapped local post of the same type and slug as
// candidate, or nil. A post already linked to a remote entity belongs to
// that entity and is never merged into. With threshold > 0 a match is only
// accepted when the content similarity reaches threshold; threshold 0
// accepts the slug match alone.
func (r *DuplicateResolver) Find(ctx context.Context, candidate *Post, threshold int) (*Post, error) {
	if candidate == nil || candidate.Name == "" {
		return nil, nil
	}

	locals, err := r.adapter.FindPostsBySlug(ctx, candidate.Type, candidate.Name)
	if err != nil {
		return nil, fmt.Errorf("duplicate probe %s/%s: %w", candidate.Type, candidate.Name, err)
	}

	for _, local := range locals {
		mapped, err := r.identity.IsMapped(ctx, candidate.Type, local.ID)
		if err != nil {
			return nil, fmt.Errorf("duplicate probe %s/%s: %w", candidate.Type, candidate.Name, err)
		}
		if mapped {
			continue
		}
		if threshold > 0 && Similarity(local.Content, candidate.Content) < float64(threshold) {
			continue
		}
		return local, nil
	}
	return nil, nil
}

// Similarity returns the percentage (0..100) of characters a and b have in
// common: twice the length of their longest common subsequence over the sum
// of their lengths. Two empty strings are identical.
func Similarity(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	if a == b {
		return 100
	}

	// Order the inputs so the score does not depend on argument order.
	if a > b {
		a, b = b, a
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	common := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			common += utf8.RuneCountInString(d.Text)
		}
	}
	return float64(common*2) * 100 / float64(total)
}
