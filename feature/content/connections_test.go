package content

import (
	"context"
	"errors"
	"testing"

	"site-sync/core/reconcile"
	"site-sync/feature/content/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memIdentity map[reconcile.IdentityKey]int64

func (m memIdentity) Get(_ context.Context, key reconcile.IdentityKey) (int64, bool, error) {
	id, ok := m[key]
	return id, ok, nil
}

func (m memIdentity) Put(_ context.Context, key reconcile.IdentityKey, localID int64) error {
	m[key] = localID
	return nil
}

func (m memIdentity) List(context.Context, string, string) ([]reconcile.Identity, error) {
	return nil, nil
}

func (m memIdentity) HasLocal(_ context.Context, kind string, localID int64) (bool, error) {
	for k, id := range m {
		if k.Kind == kind && id == localID {
			return true, nil
		}
	}
	return false, nil
}

type recordingWriter struct {
	conns []models.PostConnection
	err   error
}

func (w *recordingWriter) UpsertConnection(_ context.Context, conn *models.PostConnection) error {
	if w.err != nil {
		return w.err
	}
	w.conns = append(w.conns, *conn)
	return nil
}

func TestConnectionListener(t *testing.T) {
	ids := memIdentity{
		{Kind: "post", RemoteID: "1", Origin: "o"}: 10,
		{Kind: "post", RemoteID: "2", Origin: "o"}: 20,
		{Kind: "page", RemoteID: "3", Origin: "o"}: 30,
	}
	w := &recordingWriter{}
	l := NewConnectionListener(w, reconcile.NewIdentityMapper(ids))

	err := l.OnPostSynced(context.Background(), reconcile.PostSyncEvent{
		LocalID: 20, PostType: "post", Origin: "o",
		Payload: map[string]any{ConnectionsField: []any{
			map[string]any{"p2p_from": 2, "p2p_to": 1, "p2p_type": "related", "meta": map[string]any{"order": 1}},
			map[string]any{"p2p_from": "2", "p2p_to": "3", "p2p_to_type": "page", "p2p_type": "post_to_page"},
			map[string]any{"p2p_from": "2", "p2p_to": "404", "p2p_type": "related"},
			map[string]any{"p2p_from": "2", "p2p_to": "1"},
		}},
	})

	require.Len(t, w.conns, 2)
	assert.Equal(t, models.PostConnection{Type: "related", FromID: 20, ToID: 10, Meta: map[string]any{"order": 1}}, w.conns[0])
	assert.Equal(t, int64(30), w.conns[1].ToID)

	require.Error(t, err)
	assert.ErrorIs(t, err, reconcile.ErrNotFound)
	assert.Contains(t, err.Error(), "p2p_type")
}

func TestConnectionListener_NoConnections(t *testing.T) {
	l := NewConnectionListener(&recordingWriter{err: errors.New("unused")}, reconcile.NewIdentityMapper(memIdentity{}))
	assert.NoError(t, l.OnPostSynced(context.Background(), reconcile.PostSyncEvent{Payload: map[string]any{}}))
}
