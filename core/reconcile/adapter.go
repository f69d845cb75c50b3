package reconcile

import (
	"context"
	"time"
)

// Adapter is the local store the syncers write through.
// Lookups return (nil, nil) when nothing matches; an error always means the
// store itself failed.
type Adapter interface {
	// GetPost loads a post of any type by local id.
	GetPost(ctx context.Context, id int64) (*Post, error)

	// FindPostsBySlug returns the posts of postType whose slug is slug,
	// oldest first.
	FindPostsBySlug(ctx context.Context, postType, slug string) ([]*Post, error)

	// CreatePost inserts p and returns its id. A non-zero p.ID is used as the
	// new id when it is free; otherwise the store assigns one.
	CreatePost(ctx context.Context, p *Post) (int64, error)

	// UpdatePost overwrites the post with id p.ID. Meta is merged.
	UpdatePost(ctx context.Context, p *Post) error

	// SetPostMeta merges meta into the post's meta.
	SetPostMeta(ctx context.Context, postID int64, meta map[string]any) error

	// FindUserByLogin returns the user with the given login.
	FindUserByLogin(ctx context.Context, login string) (*User, error)

	// CreateUser inserts u and returns its id.
	CreateUser(ctx context.Context, u *User) (int64, error)

	// UpdateUserMeta merges meta into the user's meta.
	UpdateUserMeta(ctx context.Context, userID int64, meta map[string]any) error

	// AddUserRole grants role in addition to the user's current roles.
	AddUserRole(ctx context.Context, userID int64, role string) error

	// GetOption returns the option with the given name.
	GetOption(ctx context.Context, name string) (*Option, error)

	// UpdateOption upserts o by name and returns its id.
	UpdateOption(ctx context.Context, o *Option) (int64, error)

	// TaxonomyExists reports whether the taxonomy is registered.
	TaxonomyExists(ctx context.Context, taxonomy string) (bool, error)

	// FindTermBySlug returns the term with slug in taxonomy.
	FindTermBySlug(ctx context.Context, taxonomy, slug string) (*Term, error)

	// FindTermByName returns the term named name in taxonomy.
	FindTermByName(ctx context.Context, taxonomy, name string) (*Term, error)

	// CreateTerm inserts t and returns its id.
	CreateTerm(ctx context.Context, t *Term) (int64, error)

	// UpdateTermMeta merges meta into the term's meta.
	UpdateTermMeta(ctx context.Context, termID int64, meta map[string]any) error

	// SetObjectTerms attaches the terms identified by slugs to the post.
	// When appendTerms is false the post's previous terms in taxonomy are
	// replaced. Slugs with no term in taxonomy are ignored.
	SetObjectTerms(ctx context.Context, postID int64, taxonomy string, slugs []string, appendTerms bool) error

	// RemoveObjectTerms detaches the terms identified by slugs from the post.
	RemoveObjectTerms(ctx context.Context, postID int64, taxonomy string, slugs []string) error

	// CreateComment inserts c and returns its id.
	CreateComment(ctx context.Context, c *Comment) (int64, error)

	// DeferCounting suspends (true) or resumes (false) term and comment count
	// maintenance. Resuming recomputes the counts.
	DeferCounting(ctx context.Context, deferred bool) error
}

// IdentityStore persists identity mappings.
type IdentityStore interface {
	// Get returns the local id for key.
	Get(ctx context.Context, key IdentityKey) (localID int64, found bool, err error)

	// Put upserts the mapping for key. It never creates a second row.
	Put(ctx context.Context, key IdentityKey, localID int64) error

	// List returns the mappings for kind, optionally filtered by origin.
	List(ctx context.Context, kind, origin string) ([]Identity, error)

	// HasLocal reports whether any remote entity of kind maps to localID.
	HasLocal(ctx context.Context, kind string, localID int64) (bool, error)
}

// BlobFetcher downloads a remote binary.
type BlobFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// AssetProbe looks for a local attachment that already holds the binary at
// url. postDate narrows the match when the store lays files out by date.
type AssetProbe interface {
	Probe(ctx context.Context, url string, postDate time.Time) (localID int64, found bool, err error)
}

// AssetStore writes a fetched binary under key and generates its derivatives.
type AssetStore interface {
	Store(ctx context.Context, key string, data []byte) (*StoredAsset, error)
}
