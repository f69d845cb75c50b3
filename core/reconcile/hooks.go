package reconcile

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// PostSyncEvent is emitted after a post has been persisted.
type PostSyncEvent struct {
	// LocalID is the local post id.
	LocalID int64

	// PostType is the local post type.
	PostType string

	// Origin is the sending site.
	Origin string

	// Payload is the original, unmodified payload.
	Payload map[string]any
}

// PostSyncListener reacts to synced posts, e.g. to rebuild relations the
// engine does not model. Errors are logged and never fail the sync.
type PostSyncListener interface {
	OnPostSynced(ctx context.Context, event PostSyncEvent) error
}

// PostSyncListenerFunc adapts a function to PostSyncListener.
type PostSyncListenerFunc func(ctx context.Context, event PostSyncEvent) error

// OnPostSynced implements PostSyncListener.
func (f PostSyncListenerFunc) OnPostSynced(ctx context.Context, event PostSyncEvent) error {
	return f(ctx, event)
}

// UnknownAuthorFunc picks the local author for a post whose remote author has
// no mapping. remoteUserID is empty when the payload carried none.
type UnknownAuthorFunc func(ctx context.Context, remoteUserID string) int64

// hooks holds the registered extension points.
type hooks struct {
	mu        sync.RWMutex
	listeners []PostSyncListener
}

// add registers a listener.
func (h *hooks) add(l PostSyncListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, l)
}

// notify calls every listener in registration order. A failing or panicking
// listener is logged and the remaining listeners still run.
func (h *hooks) notify(ctx context.Context, logger *zap.Logger, event PostSyncEvent) {
	h.mu.RLock()
	listeners := make([]PostSyncListener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.RUnlock()

	for i, l := range listeners {
		if err := callListener(ctx, l, event); err != nil {
			logger.Warn("Post sync listener failed",
				zap.Int("listener", i),
				zap.Int64("local_id", event.LocalID),
				zap.Error(err),
			)
		}
	}
}

func callListener(ctx context.Context, l PostSyncListener, event PostSyncEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	return l.OnPostSynced(ctx, event)
}
