package reconcile

import (
	"context"
	"reflect"

	"site-sync/core/utils"
)

// optionSyncer upserts site options by name.
type optionSyncer struct {
	e *Engine
}

// Sync implements Syncer.
func (s *optionSyncer) Sync(ctx context.Context, rec SyncRecord, opts Options) (SyncResult, error) {
	e := s.e
	res := SyncResult{RemoteID: rec.RemoteID}

	var op optionPayload
	if err := decodePayload(rec.Payload, &op); err != nil {
		return res, newSyncError(ErrValidation, rec, "", err)
	}
	if op.OptionName == "" || isBlank(op.OptionValue) {
		return res, newSyncError(ErrValidation, rec, "option_name and option_value are required", nil)
	}

	existing, err := e.adapter.GetOption(ctx, op.OptionName)
	if err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "get option", err)
	}

	id, err := e.adapter.UpdateOption(ctx, &Option{
		Name:     op.OptionName,
		Value:    op.OptionValue,
		Autoload: op.Autoload == nil || utils.ToBool(op.Autoload),
	})
	if err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "update option", err)
	}

	res.LocalID = id
	res.Status = StatusCreated
	if existing != nil {
		res.Status = StatusUpdated
	}

	remoteID := rec.RemoteID
	if remoteID == "" {
		remoteID = op.OptionName
	}
	if err := e.identity.Link(ctx, string(KindOption), id, remoteID, rec.OriginSource); err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "link identity", err)
	}
	return res, nil
}

// isBlank reports values a sender uses for "no value": nil, "", "0", false,
// zero and empty collections.
func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == "" || x == "0"
	case bool:
		return !x
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Float64, reflect.Float32, reflect.Uint, reflect.Uint64:
		return rv.IsZero()
	}
	return false
}
