package reconcile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"site-sync/core/utils"
)

// syncComment inserts a comment on postID unless a comment with the same
// (remote comment id, origin) was already synced. created is false for
// deduplicated comments.
func (e *Engine) syncComment(ctx context.Context, postID int64, payload map[string]any, origin string) (localID int64, created bool, err error) {
	var cp commentPayload
	if err := decodePayload(payload, &cp); err != nil {
		return 0, false, err
	}

	remoteID := remoteIDOf(payload, "press_sync_comment_id", "comment_ID")
	origin = originOf(payload, origin)
	if isEmptyID(remoteID) {
		remoteID = commentFingerprint(postID, cp)
	}

	id, found, err := e.identity.Lookup(ctx, string(KindComment), remoteID, origin)
	if err != nil {
		return 0, false, err
	}
	if found {
		return id, false, nil
	}

	author := cp.UserID
	if isEmptyID(author) {
		author = cp.PostAuthor
	}

	c := &Comment{
		PostID:      postID,
		UserID:      e.resolveAuthor(ctx, author, origin),
		AuthorName:  cp.CommentAuthor,
		AuthorEmail: cp.CommentAuthorEmail,
		AuthorURL:   cp.CommentAuthorURL,
		Content:     cp.CommentContent,
		Approved:    cp.CommentApproved,
		Type:        cp.CommentType,
		Meta:        flattenMeta(metaOf(cp.MetaInput)),
	}
	if t, ok := utils.ToTime(cp.CommentDate); ok {
		c.Date = t
	} else {
		c.Date = time.Now().UTC()
	}
	if parent, found, err := e.identity.Lookup(ctx, string(KindComment), cp.CommentParent, origin); err == nil && found {
		c.ParentID = parent
	}

	localID, err = e.adapter.CreateComment(ctx, c)
	if err != nil {
		return 0, false, fmt.Errorf("%w: create comment %s: %v", ErrStoreWrite, remoteID, err)
	}
	if err := e.identity.Link(ctx, string(KindComment), localID, remoteID, origin); err != nil {
		return localID, true, err
	}
	return localID, true, nil
}

// fingerprintPrefix marks comment mappings keyed by content instead of a
// remote comment id.
const fingerprintPrefix = "fp:"

// commentFingerprint identifies a comment that carries no remote id by its
// post, author, date and content, so resyncs find it again.
func commentFingerprint(postID int64, cp commentPayload) string {
	var date string
	if cp.CommentDate != nil {
		date = utils.ToString(cp.CommentDate)
	}
	sum := sha256.Sum256([]byte(strings.Join([]string{
		fmt.Sprint(postID),
		cp.CommentAuthor,
		cp.CommentAuthorEmail,
		date,
		cp.CommentContent,
	}, "\x00")))
	return fingerprintPrefix + hex.EncodeToString(sum[:16])
}

// commentSyncer reconciles standalone comments on already synced posts.
type commentSyncer struct {
	e *Engine
}

// Sync implements Syncer.
func (s *commentSyncer) Sync(ctx context.Context, rec SyncRecord, opts Options) (SyncResult, error) {
	e := s.e
	res := SyncResult{RemoteID: rec.RemoteID}

	var cp commentPayload
	if err := decodePayload(rec.Payload, &cp); err != nil {
		return res, newSyncError(ErrValidation, rec, "", err)
	}
	if isEmptyID(cp.CommentPostID) {
		return res, newSyncError(ErrValidation, rec, "comment_post_ID is required", nil)
	}

	postType := cp.PostType
	if postType == "" {
		postType = string(KindPost)
	}
	postID, found, err := e.identity.Lookup(ctx, postType, cp.CommentPostID, rec.OriginSource)
	if err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "identity lookup", err)
	}
	if !found {
		return res, newSyncError(ErrNotFound, rec, fmt.Sprintf("post %s has not been synced", cp.CommentPostID), nil)
	}

	payload := rec.Payload
	if !isEmptyID(rec.RemoteID) && isEmptyID(remoteIDOf(payload, "press_sync_comment_id", "comment_ID")) {
		payload = withField(payload, "comment_ID", rec.RemoteID)
	}

	id, created, err := e.syncComment(ctx, postID, payload, rec.OriginSource)
	if err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "sync comment", err)
	}
	res.LocalID = id
	if created {
		res.Status = StatusCreated
	} else {
		res.Status = StatusKeptLocal
		res.Message = "comment already synced"
	}
	return res, nil
}
