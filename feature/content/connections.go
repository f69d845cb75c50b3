package content

import (
	"context"
	"errors"
	"fmt"

	"site-sync/core/reconcile"
	"site-sync/core/utils"
	"site-sync/feature/content/models"

	"github.com/go-viper/mapstructure/v2"
)

// ConnectionsField is the payload field carrying a post's connections.
const ConnectionsField = "p2p_connections"

// connectionPayload is one remote connection. Both ends are remote post ids;
// their types default to the synced post's type.
type connectionPayload struct {
	From     string         `mapstructure:"p2p_from"`
	To       string         `mapstructure:"p2p_to"`
	Type     string         `mapstructure:"p2p_type"`
	FromType string         `mapstructure:"p2p_from_type"`
	ToType   string         `mapstructure:"p2p_to_type"`
	Meta     map[string]any `mapstructure:"meta"`
}

type connectionWriter interface {
	UpsertConnection(ctx context.Context, conn *models.PostConnection) error
}

// ConnectionListener rebuilds post connections after a post is synced.
type ConnectionListener struct {
	store    connectionWriter
	identity *reconcile.IdentityMapper
}

// NewConnectionListener creates a listener writing to store and mapping
// remote ids through identity.
func NewConnectionListener(store connectionWriter, identity *reconcile.IdentityMapper) *ConnectionListener {
	return &ConnectionListener{store: store, identity: identity}
}

// OnPostSynced implements reconcile.PostSyncListener. Connections whose far
// end is not synced yet are skipped and reported.
func (l *ConnectionListener) OnPostSynced(ctx context.Context, event reconcile.PostSyncEvent) error {
	raw := utils.ToSlice(event.Payload[ConnectionsField])
	if len(raw) == 0 {
		return nil
	}

	var errs []error
	for _, item := range raw {
		var cp connectionPayload
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cp,
		})
		if err != nil {
			return err
		}
		if err := decoder.Decode(item); err != nil {
			errs = append(errs, fmt.Errorf("decode connection: %w", err))
			continue
		}
		if cp.Type == "" {
			errs = append(errs, errors.New("connection without p2p_type"))
			continue
		}

		from, err := l.resolve(ctx, cp.From, cp.FromType, event)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		to, err := l.resolve(ctx, cp.To, cp.ToType, event)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		conn := &models.PostConnection{Type: cp.Type, FromID: from, ToID: to, Meta: cp.Meta}
		if err := l.store.UpsertConnection(ctx, conn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *ConnectionListener) resolve(ctx context.Context, remoteID, postType string, event reconcile.PostSyncEvent) (int64, error) {
	if postType == "" {
		postType = event.PostType
	}
	id, found, err := l.identity.Lookup(ctx, postType, remoteID, event.Origin)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("%w: connected %s %q is not synced", reconcile.ErrNotFound, postType, remoteID)
	}
	return id, nil
}
