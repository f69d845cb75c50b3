package reconcile

import (
	"context"

	"site-sync/core/utils"

	"go.uber.org/zap"
)

// postDependencies syncs the sub-entities a post references, in order:
// author, parent and embedded media before the post is written; terms,
// comments, featured image and listeners after. Failures become warnings on
// the post's result and never fail the post.
type postDependencies struct {
	e        *Engine
	rec      SyncRecord
	opts     Options
	payload  postPayload
	postType string
	warnings []string
}

// resolveReferences maps the author and parent and syncs embedded media,
// rewriting their URLs in the post body.
func (d *postDependencies) resolveReferences(ctx context.Context, post *Post) {
	e := d.e

	// Author
	post.AuthorID = e.resolveAuthor(ctx, d.payload.PostAuthor, d.rec.OriginSource)

	// Parent
	if d.opts.PreserveIDs {
		post.ParentID = utils.ToInt64(d.payload.PostParent)
	} else if !isEmptyID(d.payload.PostParent) {
		id, found, err := e.identity.Lookup(ctx, d.postType, d.payload.PostParent, d.rec.OriginSource)
		if err != nil {
			d.warn("resolve parent", err)
		}
		if found {
			post.ParentID = id
		}
	}

	// Embedded media
	for _, raw := range utils.ToSlice(d.payload.EmbeddedMedia) {
		media := utils.ToStringMap(raw)
		if media == nil {
			continue
		}
		out := e.syncAttachment(ctx, media, d.rec.OriginSource, d.opts)
		if out.Err != nil {
			d.warn("embedded media", out.Err)
			continue
		}
		if out.RemoteURL != "" && out.LocalURL != "" {
			post.Content = replaceFold(post.Content, out.RemoteURL, out.LocalURL)
		}
	}
}

// attachDependents syncs terms, comments and the featured image of the
// persisted post and notifies listeners.
func (d *postDependencies) attachDependents(ctx context.Context, postID int64) {
	e := d.e

	// Terms
	d.warnings = append(d.warnings, e.attachTerms(ctx, postID, d.payload.TaxInput)...)

	// Comments
	for _, raw := range utils.ToSlice(d.payload.Comments) {
		c := utils.ToStringMap(raw)
		if c == nil {
			continue
		}
		if _, _, err := e.syncComment(ctx, postID, c, d.rec.OriginSource); err != nil {
			d.warn("comment", err)
		}
	}

	// Featured image
	if featured := utils.ToStringMap(d.payload.FeaturedImage); len(featured) > 0 {
		out := e.syncAttachment(ctx, featured, d.rec.OriginSource, d.opts)
		if out.Err != nil {
			d.warn("featured image", out.Err)
		} else if err := e.adapter.SetPostMeta(ctx, postID, map[string]any{ThumbnailMetaKey: out.LocalID}); err != nil {
			d.warn("featured image", err)
		}
	}

	// Listeners
	e.hooks.notify(ctx, e.logger.With(zap.String("remote_id", d.rec.RemoteID)), PostSyncEvent{
		LocalID:  postID,
		PostType: d.postType,
		Origin:   d.rec.OriginSource,
		Payload:  d.rec.Payload,
	})
}

func (d *postDependencies) warn(step string, err error) {
	d.warnings = append(d.warnings, postWarning(step, err))
}
