package reconcile

import (
	"fmt"
	"time"
)

// Kind identifies the entity kind carried by a SyncRecord.
type Kind string

const (
	// KindPost is the generic post kind. Any unrecognised kind (page, custom
	// post types) is handled as a post of that type.
	KindPost Kind = "post"

	// KindAttachment is a media item with an optional binary.
	KindAttachment Kind = "attachment"

	// KindUser is a site user, keyed by login.
	KindUser Kind = "user"

	// KindOption is a site option, keyed by name.
	KindOption Kind = "option"

	// KindTaxonomyTerm is a term, keyed by (taxonomy, slug).
	KindTaxonomyTerm Kind = "taxonomy_term"

	// KindComment is a comment on an already synced post.
	KindComment Kind = "comment"
)

// knownKinds is the closed set of kinds with a dedicated syncer.
var knownKinds = map[Kind]struct{}{
	KindAttachment:   {},
	KindUser:         {},
	KindOption:       {},
	KindTaxonomyTerm: {},
	KindComment:      {},
	KindPost:         {},
}

// IsKnown reports whether k has a dedicated syncer.
func (k Kind) IsKnown() bool {
	_, ok := knownKinds[k]
	return ok
}

// Status is the per-record outcome reported in a SyncResult.
type Status string

const (
	// StatusCreated means a new local record was created.
	StatusCreated Status = "created"

	// StatusUpdated means an existing local record was overwritten or merged.
	StatusUpdated Status = "updated"

	// StatusKeptLocal means the local record was left untouched and only the
	// identity link was refreshed.
	StatusKeptLocal Status = "kept_local"

	// StatusError means the record could not be reconciled.
	StatusError Status = "error"
)

// DuplicateAction is the policy for unmapped records that match a local
// record by slug.
type DuplicateAction string

const (
	// DuplicateSkip never merges; unmapped records always create.
	DuplicateSkip DuplicateAction = "skip"

	// DuplicateSync merges unmapped records into matching local records.
	DuplicateSync DuplicateAction = "sync"
)

// Options are the per-batch flags. They are passed by value through every
// syncer call so the engine holds no request state.
type Options struct {
	// DuplicateAction selects the duplicate policy. Empty means skip.
	DuplicateAction DuplicateAction `json:"duplicate_action" mapstructure:"duplicate_action"`

	// ForceUpdate overwrites local records regardless of timestamps.
	ForceUpdate bool `json:"force_update" mapstructure:"force_update"`

	// SkipAssets never fetches binaries; attachments become bare descriptors.
	SkipAssets bool `json:"skip_assets" mapstructure:"skip_assets"`

	// PreserveIDs reuses remote ids as local ids for new records.
	PreserveIDs bool `json:"preserve_ids" mapstructure:"preserve_ids"`

	// FixTerms only re-attaches terms to already mapped posts.
	FixTerms bool `json:"fix_terms" mapstructure:"fix_terms"`

	// ContentThreshold is the minimum content similarity (0..100) required to
	// accept a slug match as a duplicate. Zero accepts the slug match alone.
	ContentThreshold int `json:"content_threshold" mapstructure:"content_threshold"`
}

// Normalize fills defaults.
func (o Options) Normalize() Options {
	if o.DuplicateAction == "" {
		o.DuplicateAction = DuplicateSkip
	}
	return o
}

// Validate checks option ranges.
func (o Options) Validate() error {
	switch o.DuplicateAction {
	case "", DuplicateSkip, DuplicateSync:
	default:
		return fmt.Errorf("%w: duplicate_action must be skip or sync, got %q", ErrValidation, o.DuplicateAction)
	}
	if o.ContentThreshold < 0 || o.ContentThreshold > 100 {
		return fmt.Errorf("%w: content_threshold must be within 0..100, got %d", ErrValidation, o.ContentThreshold)
	}
	return nil
}

// SyncRecord is the envelope for one entity to reconcile.
type SyncRecord struct {
	// Kind is the entity kind. Empty inherits the batch kind.
	Kind Kind `json:"kind"`

	// RemoteID is the entity id on the sending site.
	RemoteID string `json:"remote_id"`

	// OriginSource identifies the sending site, usually its base URL.
	OriginSource string `json:"origin_source"`

	// ModifiedAt is the remote modification time, if the kind is versioned.
	ModifiedAt *time.Time `json:"modified_at,omitempty"`

	// Payload holds the kind-specific fields.
	Payload map[string]any `json:"payload"`
}

// SyncResult is the outcome for a single record.
type SyncResult struct {
	// RemoteID echoes the record's remote id.
	RemoteID string `json:"remote_id"`

	// LocalID is the local counterpart id, zero when none was resolved.
	LocalID int64 `json:"local_id"`

	// Status is the outcome.
	Status Status `json:"status"`

	// Message is a human readable detail, the error text when Status is error.
	Message string `json:"message,omitempty"`

	// Warnings lists sub-entity failures that did not fail the record.
	Warnings []string `json:"warnings,omitempty"`
}

// IdentityKey is the natural key of an identity mapping.
type IdentityKey struct {
	Kind     string `json:"kind"`
	RemoteID string `json:"remote_id"`
	Origin   string `json:"origin_source"`
}

// String renders the key for logs and inflight collapse.
func (k IdentityKey) String() string {
	return k.Kind + "|" + k.RemoteID + "|" + k.Origin
}

// Identity is a stored identity mapping row.
type Identity struct {
	IdentityKey
	LocalID   int64     `json:"local_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
