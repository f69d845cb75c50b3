package reconcile

import (
	"context"

	"site-sync/core/utils"
)

// userSyncer reconciles users by login. Existing users keep their profile;
// meta is merged and the incoming role is added.
type userSyncer struct {
	e *Engine
}

// Sync implements Syncer.
func (s *userSyncer) Sync(ctx context.Context, rec SyncRecord, opts Options) (SyncResult, error) {
	e := s.e
	res := SyncResult{RemoteID: rec.RemoteID}

	var up userPayload
	if err := decodePayload(rec.Payload, &up); err != nil {
		return res, newSyncError(ErrValidation, rec, "", err)
	}
	if up.UserLogin == "" {
		return res, newSyncError(ErrValidation, rec, "user_login is required", nil)
	}

	user, err := e.adapter.FindUserByLogin(ctx, up.UserLogin)
	if err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "find user", err)
	}

	if user == nil {
		registered, _ := utils.ToTime(up.UserRegistered)
		u := &User{
			Login:       up.UserLogin,
			Email:       up.UserEmail,
			DisplayName: up.DisplayName,
			Nicename:    up.UserNicename,
			URL:         up.UserURL,
			Registered:  registered,
		}
		if u.Nicename == "" {
			u.Nicename = utils.Slugify(up.UserLogin)
		}
		if u.DisplayName == "" {
			u.DisplayName = up.UserLogin
		}
		id, err := e.adapter.CreateUser(ctx, u)
		if err != nil {
			return res, newSyncError(ErrStoreWrite, rec, "create user", err)
		}
		user = &User{ID: id}
		res.Status = StatusCreated
	} else {
		res.Status = StatusUpdated
	}
	res.LocalID = user.ID

	if meta := metaOf(up.MetaInput); len(meta) > 0 {
		if err := e.adapter.UpdateUserMeta(ctx, user.ID, meta); err != nil {
			return res, newSyncError(ErrStoreWrite, rec, "update user meta", err)
		}
	}
	if up.Role != "" {
		if err := e.adapter.AddUserRole(ctx, user.ID, up.Role); err != nil {
			return res, newSyncError(ErrStoreWrite, rec, "add role", err)
		}
	}

	if err := e.identity.Link(ctx, string(KindUser), user.ID, rec.RemoteID, rec.OriginSource); err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "link identity", err)
	}
	return res, nil
}
