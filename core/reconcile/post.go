package reconcile

import (
	"context"
	"fmt"

	"site-sync/core/utils"
)

// postSyncer reconciles posts of any type. Unknown kinds land here with the
// kind name as the default post type.
type postSyncer struct {
	e *Engine
}

// Sync implements Syncer.
func (s *postSyncer) Sync(ctx context.Context, rec SyncRecord, opts Options) (SyncResult, error) {
	e := s.e
	res := SyncResult{RemoteID: rec.RemoteID}

	var p postPayload
	if err := decodePayload(rec.Payload, &p); err != nil {
		return res, newSyncError(ErrValidation, rec, "", err)
	}
	postType := resolvePostType(rec.Kind, p.PostType)

	incoming := postFromPayload(p, postType)
	remoteModified := incoming.Modified
	if rec.ModifiedAt != nil {
		remoteModified = *rec.ModifiedAt
		incoming.Modified = remoteModified
	}

	// 1. Find the local counterpart
	local, err := s.findLocal(ctx, rec, incoming, opts)
	if err != nil {
		return res, err
	}

	if opts.FixTerms {
		if local == nil {
			return res, newSyncError(ErrNotFound, rec, "no local post to attach the terms to", nil)
		}
		res.LocalID = local.ID
		res.Status = StatusUpdated
		res.Message = "fixed term relationships"
		res.Warnings = e.attachTerms(ctx, local.ID, p.TaxInput)
		return res, nil
	}

	deps := &postDependencies{e: e, rec: rec, opts: opts, payload: p, postType: postType}
	if local != nil {
		incoming.ID = local.ID
	}

	// 2. Resolve references and embedded media
	deps.resolveReferences(ctx, incoming)

	// 3. Decide between keeping and overwriting
	decision := ResolveConflict(versionOf(local), remoteModified, opts.ForceUpdate)
	if decision == DecisionKeepLocal {
		if err := e.identity.Link(ctx, postType, local.ID, rec.RemoteID, rec.OriginSource); err != nil {
			return res, newSyncError(ErrStoreWrite, rec, "link identity", err)
		}
		res.LocalID = local.ID
		res.Status = StatusKeptLocal
		res.Message = "local version is newer than remote version"
		res.Warnings = deps.warnings
		return res, nil
	}

	// 4. Persist
	switch decision {
	case DecisionOverwrite:
		if err := e.adapter.UpdatePost(ctx, incoming); err != nil {
			return res, newSyncError(ErrStoreWrite, rec, "update post", err)
		}
		res.Status = StatusUpdated
	default:
		incoming.ID = 0
		if opts.PreserveIDs {
			incoming.ID = utils.ToInt64(rec.RemoteID)
		}
		id, err := e.adapter.CreatePost(ctx, incoming)
		if err != nil {
			return res, newSyncError(ErrStoreWrite, rec, "create post", err)
		}
		incoming.ID = id
		res.Status = StatusCreated
	}
	res.LocalID = incoming.ID

	if err := e.identity.Link(ctx, postType, incoming.ID, rec.RemoteID, rec.OriginSource); err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "link identity", err)
	}

	// 5. Attach dependents
	deps.attachDependents(ctx, incoming.ID)

	res.Message = "the post has been synced with the remote site"
	res.Warnings = deps.warnings
	return res, nil
}

// findLocal resolves the local counterpart through the identity mapping and,
// when allowed, the duplicate resolver.
func (s *postSyncer) findLocal(ctx context.Context, rec SyncRecord, incoming *Post, opts Options) (*Post, error) {
	e := s.e

	id, found, err := e.identity.Lookup(ctx, incoming.Type, rec.RemoteID, rec.OriginSource)
	if err != nil {
		return nil, newSyncError(ErrStoreWrite, rec, "identity lookup", err)
	}
	if found {
		local, err := e.adapter.GetPost(ctx, id)
		if err != nil {
			return nil, newSyncError(ErrStoreWrite, rec, "load mapped post", err)
		}
		if local != nil && local.Type == incoming.Type {
			return local, nil
		}
	}

	if opts.DuplicateAction != DuplicateSync || opts.PreserveIDs {
		return nil, nil
	}
	dup, err := e.duplicates.Find(ctx, incoming, opts.ContentThreshold)
	if err != nil {
		return nil, newSyncError(ErrStoreWrite, rec, "duplicate probe", err)
	}
	return dup, nil
}

// resolvePostType picks the local post type of a record.
func resolvePostType(kind Kind, payloadType string) string {
	if payloadType != "" {
		return payloadType
	}
	if kind != "" && !kind.IsKnown() {
		return string(kind)
	}
	if kind == KindAttachment {
		return string(KindAttachment)
	}
	return string(KindPost)
}

func postFromPayload(p postPayload, postType string) *Post {
	modified, _ := utils.ToTime(p.PostModified)
	return &Post{
		Type:          postType,
		Status:        p.PostStatus,
		Title:         p.PostTitle,
		Name:          p.PostName,
		Content:       p.PostContent,
		Excerpt:       p.PostExcerpt,
		MimeType:      p.PostMimeType,
		GUID:          p.GUID,
		MenuOrder:     p.MenuOrder,
		CommentStatus: p.CommentStatus,
		Date:          postDate(p.PostDate, p.PostStatus),
		Modified:      modified,
		Meta:          metaOf(p.MetaInput),
	}
}

func versionOf(local *Post) Version {
	if local == nil {
		return Version{}
	}
	return Version{Exists: true, ModifiedAt: local.Modified}
}

// postWarning formats a sub-entity failure for a SyncResult.
func postWarning(step string, err error) string {
	return fmt.Sprintf("%s: %v", step, err)
}
