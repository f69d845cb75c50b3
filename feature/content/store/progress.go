package store

import (
	"context"
	"strconv"
)

// SyncedIDs returns the ids already synced for kind from origin: the remote
// ids, or the local ids when localIDs is set.
func (s *Store) SyncedIDs(ctx context.Context, kind, origin string, localIDs bool) ([]string, error) {
	mappings, err := s.List(ctx, kind, origin)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(mappings))
	for _, m := range mappings {
		if localIDs {
			ids = append(ids, strconv.FormatInt(m.LocalID, 10))
			continue
		}
		ids = append(ids, m.RemoteID)
	}
	return ids, nil
}
