package reconcile

import (
	"context"
	"fmt"
)

// IdentityMapper links remote entities to their local counterparts.
// Mapping lookups are the only source of truth for "a local counterpart
// exists"; duplicate probing is layered on top by the syncers.
type IdentityMapper struct {
	store IdentityStore
}

// NewIdentityMapper creates a mapper over store.
func NewIdentityMapper(store IdentityStore) *IdentityMapper {
	return &IdentityMapper{store: store}
}

// Lookup returns the local id mapped to (kind, remoteID, origin).
// An empty or zero remote id never matches.
func (m *IdentityMapper) Lookup(ctx context.Context, kind, remoteID, origin string) (int64, bool, error) {
	if isEmptyID(remoteID) {
		return 0, false, nil
	}
	id, found, err := m.store.Get(ctx, IdentityKey{Kind: kind, RemoteID: remoteID, Origin: origin})
	if err != nil {
		return 0, false, fmt.Errorf("identity lookup %s/%s: %w", kind, remoteID, err)
	}
	return id, found && id > 0, nil
}

// Link records that (kind, remoteID, origin) maps to localID. Re-linking the
// same key updates the existing mapping. Records without a remote id are not
// linked.
func (m *IdentityMapper) Link(ctx context.Context, kind string, localID int64, remoteID, origin string) error {
	if isEmptyID(remoteID) {
		return nil
	}
	if localID <= 0 {
		return fmt.Errorf("%w: cannot link %s/%s to local id %d", ErrValidation, kind, remoteID, localID)
	}
	if err := m.store.Put(ctx, IdentityKey{Kind: kind, RemoteID: remoteID, Origin: origin}, localID); err != nil {
		return fmt.Errorf("identity link %s/%s: %w", kind, remoteID, err)
	}
	return nil
}

// List returns all mappings of kind from origin. An empty origin lists all.
func (m *IdentityMapper) List(ctx context.Context, kind, origin string) ([]Identity, error) {
	return m.store.List(ctx, kind, origin)
}

// IsMapped reports whether localID is already the counterpart of some remote
// entity of kind, from any origin.
func (m *IdentityMapper) IsMapped(ctx context.Context, kind string, localID int64) (bool, error) {
	mapped, err := m.store.HasLocal(ctx, kind, localID)
	if err != nil {
		return false, fmt.Errorf("identity reverse lookup %s/%d: %w", kind, localID, err)
	}
	return mapped, nil
}

func isEmptyID(id string) bool {
	return id == "" || id == "0"
}
