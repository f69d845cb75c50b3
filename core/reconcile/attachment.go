package reconcile

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"site-sync/core/utils"
)

const (
	// ThumbnailMetaKey is the post meta key holding the featured image id.
	ThumbnailMetaKey = "_thumbnail_id"

	// AttachedFileMetaKey is the attachment meta key holding the object key.
	AttachedFileMetaKey = "_wp_attached_file"

	// AttachmentMetadataKey is the attachment meta key holding derivative
	// metadata.
	AttachmentMetadataKey = "_wp_attachment_metadata"
)

// AttachmentOutcome classifies the result of an attachment sync.
type AttachmentOutcome int

const (
	// AttachmentCreated means a new attachment record was created.
	AttachmentCreated AttachmentOutcome = iota

	// AttachmentUpdated means an existing record received the binary or was
	// merged as a duplicate.
	AttachmentUpdated

	// AttachmentReused means an existing record already covered the asset.
	AttachmentReused

	// AttachmentInvalid means the payload lacked required fields.
	AttachmentInvalid

	// AttachmentFetchFailed means the binary could not be downloaded.
	AttachmentFetchFailed

	// AttachmentWriteFailed means the binary or record could not be written.
	AttachmentWriteFailed
)

// AttachmentResult is the explicit outcome of syncing one attachment.
type AttachmentResult struct {
	Outcome   AttachmentOutcome
	LocalID   int64
	RemoteID  string
	RemoteURL string
	LocalURL  string
	Err       error
}

// OK reports whether the attachment resolved to a local record.
func (r AttachmentResult) OK() bool {
	return r.Err == nil && r.LocalID > 0
}

// syncAttachment reconciles one attachment payload. Full mode probes for an
// existing binary before downloading; skip-assets mode never downloads and
// creates bare descriptors. Both modes link the identity when the payload
// carries a remote id.
func (e *Engine) syncAttachment(ctx context.Context, payload map[string]any, origin string, opts Options) AttachmentResult {
	var p postPayload
	if err := decodePayload(payload, &p); err != nil {
		return AttachmentResult{Outcome: AttachmentInvalid, Err: fmt.Errorf("%w: %v", ErrValidation, err)}
	}

	origin = originOf(payload, origin)
	details := utils.ToStringMap(p.Details)
	remoteURL := utils.ToString(details["url"])
	if remoteURL == "" {
		remoteURL = p.AttachmentURL
	}
	dateRaw := details["post_date"]
	if dateRaw == nil {
		dateRaw = p.PostDate
	}

	res := AttachmentResult{
		RemoteID:  remoteIDOf(payload, "press_sync_post_id", "ID"),
		RemoteURL: remoteURL,
		LocalURL:  e.localURL(remoteURL, origin),
	}

	if !opts.SkipAssets && remoteURL == "" {
		res.Outcome = AttachmentInvalid
		res.Err = fmt.Errorf("%w: attachment has no url", ErrValidation)
		return res
	}

	candidate := postFromPayload(p, string(KindAttachment))
	candidate.Date = postDate(dateRaw, p.PostStatus)

	var mapped *Post
	if id, found, err := e.identity.Lookup(ctx, string(KindAttachment), res.RemoteID, origin); err != nil {
		return e.attachmentFailed(res, AttachmentWriteFailed, err)
	} else if found {
		if mapped, err = e.adapter.GetPost(ctx, id); err != nil {
			return e.attachmentFailed(res, AttachmentWriteFailed, err)
		}
	}

	if opts.SkipAssets {
		res = e.syncAttachmentDescriptor(ctx, res, candidate, mapped, p.PostAuthor, origin, opts)
	} else {
		res = e.syncAttachmentBinary(ctx, res, candidate, mapped, p.PostAuthor, origin)
	}
	if res.Err != nil {
		return res
	}

	if err := e.identity.Link(ctx, string(KindAttachment), res.LocalID, res.RemoteID, origin); err != nil {
		return e.attachmentFailed(res, AttachmentWriteFailed, err)
	}
	return res
}

// syncAttachmentBinary is full mode.
func (e *Engine) syncAttachmentBinary(ctx context.Context, res AttachmentResult, candidate, mapped *Post, remoteAuthor, origin string) AttachmentResult {
	if mapped != nil && hasBinary(mapped) {
		res.Outcome = AttachmentReused
		res.LocalID = mapped.ID
		return res
	}

	if mapped == nil && e.probe != nil {
		id, found, err := e.probe.Probe(ctx, res.RemoteURL, candidate.Date)
		if err != nil {
			return e.attachmentFailed(res, AttachmentWriteFailed, err)
		}
		if found {
			res.Outcome = AttachmentReused
			res.LocalID = id
			return res
		}
	}

	if e.fetcher == nil {
		return e.attachmentFailed(res, AttachmentFetchFailed, errors.New("no blob fetcher configured"))
	}
	data, err := e.fetcher.Fetch(ctx, res.RemoteURL)
	if err != nil {
		return e.attachmentFailed(res, AttachmentFetchFailed, err)
	}

	if e.assets == nil {
		return e.attachmentFailed(res, AttachmentWriteFailed, errors.New("no asset store configured"))
	}
	stored, err := e.assets.Store(ctx, objectKey(res.LocalURL), data)
	if err != nil {
		return e.attachmentFailed(res, AttachmentWriteFailed, err)
	}

	if mapped != nil {
		mapped.GUID = res.LocalURL
		mapped.MimeType = stored.MimeType
		mapped.Meta = binaryMeta(stored)
		if err := e.adapter.UpdatePost(ctx, mapped); err != nil {
			return e.attachmentFailed(res, AttachmentWriteFailed, err)
		}
		res.Outcome = AttachmentUpdated
		res.LocalID = mapped.ID
		return res
	}

	att := &Post{
		Type:     string(KindAttachment),
		Status:   "inherit",
		Title:    candidate.Title,
		Name:     candidate.Name,
		AuthorID: e.resolveAuthor(ctx, remoteAuthor, origin),
		MimeType: stored.MimeType,
		GUID:     res.LocalURL,
		Date:     candidate.Date,
		Modified: candidate.Modified,
		Meta:     binaryMeta(stored),
	}
	if att.Title == "" {
		base := path.Base(stored.Key)
		att.Title = strings.TrimSuffix(base, path.Ext(base))
	}

	id, err := e.adapter.CreatePost(ctx, att)
	if err != nil {
		return e.attachmentFailed(res, AttachmentWriteFailed, err)
	}
	res.Outcome = AttachmentCreated
	res.LocalID = id
	return res
}

// syncAttachmentDescriptor is skip-assets mode.
func (e *Engine) syncAttachmentDescriptor(ctx context.Context, res AttachmentResult, candidate, mapped *Post, remoteAuthor, origin string, opts Options) AttachmentResult {
	local := mapped
	if local == nil {
		dup, err := e.duplicates.Find(ctx, candidate, opts.ContentThreshold)
		if err != nil {
			return e.attachmentFailed(res, AttachmentWriteFailed, err)
		}
		local = dup
	}

	if local != nil {
		if len(candidate.Meta) > 0 {
			if err := e.adapter.SetPostMeta(ctx, local.ID, candidate.Meta); err != nil {
				return e.attachmentFailed(res, AttachmentWriteFailed, err)
			}
		}
		res.Outcome = AttachmentUpdated
		res.LocalID = local.ID
		return res
	}

	candidate.AuthorID = e.resolveAuthor(ctx, remoteAuthor, origin)
	if candidate.Status == "" {
		candidate.Status = "inherit"
	}
	if candidate.GUID == "" {
		candidate.GUID = res.LocalURL
	}
	if opts.PreserveIDs {
		candidate.ID = utils.ToInt64(res.RemoteID)
	}

	id, err := e.adapter.CreatePost(ctx, candidate)
	if err != nil {
		return e.attachmentFailed(res, AttachmentWriteFailed, err)
	}
	res.Outcome = AttachmentCreated
	res.LocalID = id
	return res
}

func (e *Engine) attachmentFailed(res AttachmentResult, outcome AttachmentOutcome, err error) AttachmentResult {
	code := ErrStoreWrite
	if outcome == AttachmentFetchFailed {
		code = ErrRemoteFetch
	}
	res.Outcome = outcome
	res.LocalID = 0
	res.Err = &SyncError{Code: code, Kind: KindAttachment, RemoteID: res.RemoteID, Message: res.RemoteURL, Err: err}
	return res
}

// hasBinary reports whether an attachment record points at a stored binary.
func hasBinary(p *Post) bool {
	return utils.ToString(p.Meta[AttachedFileMetaKey]) != ""
}

// binaryMeta builds the attachment meta for a stored binary.
func binaryMeta(stored *StoredAsset) map[string]any {
	sizes := make(map[string]any, len(stored.Sizes))
	for name, key := range stored.Sizes {
		sizes[name] = map[string]any{"file": path.Base(key)}
	}
	return map[string]any{
		AttachedFileMetaKey: stored.Key,
		AttachmentMetadataKey: map[string]any{
			"file":      stored.Key,
			"width":     stored.Width,
			"height":    stored.Height,
			"filesize":  stored.Size,
			"mime_type": stored.MimeType,
			"sizes":     sizes,
		},
	}
}

// objectKey derives the storage key of a local URL: its path without the
// leading slash.
func objectKey(localURL string) string {
	u, err := url.Parse(localURL)
	if err != nil || u.Path == "" {
		return path.Base(localURL)
	}
	return strings.TrimPrefix(u.Path, "/")
}

// attachmentSyncer reconciles standalone attachment records.
type attachmentSyncer struct {
	e *Engine
}

// Sync implements Syncer.
func (s *attachmentSyncer) Sync(ctx context.Context, rec SyncRecord, opts Options) (SyncResult, error) {
	payload := rec.Payload
	if !isEmptyID(rec.RemoteID) && isEmptyID(remoteIDOf(payload, "press_sync_post_id", "ID")) {
		payload = withField(payload, "ID", rec.RemoteID)
	}

	out := s.e.syncAttachment(ctx, payload, rec.OriginSource, opts)
	res := SyncResult{RemoteID: rec.RemoteID, LocalID: out.LocalID}
	if out.Err != nil {
		return res, out.Err
	}

	switch out.Outcome {
	case AttachmentCreated:
		res.Status = StatusCreated
	case AttachmentUpdated:
		res.Status = StatusUpdated
	default:
		res.Status = StatusKeptLocal
		res.Message = "attachment already present"
	}
	return res, nil
}

// withField returns a shallow copy of m with key set.
func withField(m map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}
