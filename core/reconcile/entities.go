package reconcile

import "time"

// Post is a local post-like record. Attachments are posts with Type
// "attachment"; their binary details live in Meta.
type Post struct {
	ID            int64
	Type          string
	Status        string
	Title         string
	Name          string
	Content       string
	Excerpt       string
	AuthorID      int64
	ParentID      int64
	MimeType      string
	GUID          string
	MenuOrder     int
	CommentStatus string
	Date          time.Time
	Modified      time.Time
	Meta          map[string]any
}

// User is a local user.
type User struct {
	ID          int64
	Login       string
	Email       string
	DisplayName string
	Nicename    string
	URL         string
	Registered  time.Time
	Roles       []string
	Meta        map[string]any
}

// Term is a taxonomy term.
type Term struct {
	ID          int64
	Taxonomy    string
	Name        string
	Slug        string
	Description string
	ParentID    int64
	Meta        map[string]any
}

// TermRef identifies a term by value.
type TermRef struct {
	Taxonomy string
	Slug     string
}

// Comment is a comment attached to a local post.
type Comment struct {
	ID          int64
	PostID      int64
	UserID      int64
	ParentID    int64
	AuthorName  string
	AuthorEmail string
	AuthorURL   string
	Content     string
	Approved    string
	Type        string
	Date        time.Time
	Meta        map[string]any
}

// Option is a named site setting.
type Option struct {
	ID       int64
	Name     string
	Value    any
	Autoload bool
}

// StoredAsset describes a binary written by an AssetStore.
type StoredAsset struct {
	// Key is the object key the binary was stored under.
	Key string

	// MimeType is the sniffed content type.
	MimeType string

	// Size is the byte length.
	Size int64

	// Width and Height are set for images.
	Width  int
	Height int

	// Sizes maps derivative names (e.g. "thumbnail") to their object keys.
	Sizes map[string]string
}
