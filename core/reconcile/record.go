package reconcile

import (
	"fmt"
	"time"

	"site-sync/core/utils"
)

// remoteIDKeys lists, per kind, the meta key and fallback field carrying the
// remote id on a wire object.
var remoteIDKeys = map[Kind][2]string{
	KindPost:         {"press_sync_post_id", "ID"},
	KindAttachment:   {"press_sync_post_id", "ID"},
	KindUser:         {"press_sync_user_id", "ID"},
	KindComment:      {"press_sync_comment_id", "comment_ID"},
	KindTaxonomyTerm: {"press_sync_term_id", "term_id"},
	KindOption:       {"", "option_name"},
}

// NewRecord builds a SyncRecord from a wire object. The object is either an
// envelope ({remote_id, origin_source, modified_at, payload}) or a bare
// payload whose identity is read from its press_sync_* meta.
func NewRecord(kind Kind, object map[string]any) (SyncRecord, error) {
	if len(object) == 0 {
		return SyncRecord{Kind: kind}, fmt.Errorf("%w: empty %s object", ErrValidation, kind)
	}

	payload := object
	if nested := utils.ToStringMap(object["payload"]); nested != nil {
		payload = nested
	}

	rec := SyncRecord{
		Kind:         kind,
		RemoteID:     utils.ToString(object["remote_id"]),
		OriginSource: utils.ToString(object["origin_source"]),
		Payload:      payload,
	}
	if k := Kind(utils.ToString(object["kind"])); k != "" {
		rec.Kind = k
	}

	keys, ok := remoteIDKeys[rec.Kind]
	if !ok {
		keys = remoteIDKeys[KindPost]
	}
	if isEmptyID(rec.RemoteID) {
		if keys[0] != "" {
			rec.RemoteID = remoteIDOf(payload, keys[0], keys[1])
		} else {
			rec.RemoteID = utils.ToString(payload[keys[1]])
		}
	}
	if rec.OriginSource == "" {
		rec.OriginSource = originOf(payload, "")
	}

	modified := object["modified_at"]
	if modified == nil {
		modified = payload["post_modified"]
	}
	if t, ok := utils.ToTime(modified); ok {
		rec.ModifiedAt = &t
	}

	return rec, nil
}

// NewRecords builds one record per object. Objects that fail validation are
// still returned, with their error, so results stay aligned with the input.
func NewRecords(kind Kind, objects []map[string]any) ([]SyncRecord, []error) {
	records := make([]SyncRecord, len(objects))
	errs := make([]error, len(objects))
	for i, obj := range objects {
		records[i], errs[i] = NewRecord(kind, obj)
	}
	return records, errs
}

// epoch replaces zero dates on published posts.
var epoch = time.Unix(0, 0).UTC()

// postDate returns the creation date of a post payload. The zero date is kept
// unset for drafts and pending posts and becomes the epoch otherwise.
func postDate(raw any, status string) time.Time {
	if t, ok := utils.ToTime(raw); ok {
		return t
	}
	if utils.ToString(raw) == utils.ZeroDate && status != "draft" && status != "pending" {
		return epoch
	}
	return time.Time{}
}
