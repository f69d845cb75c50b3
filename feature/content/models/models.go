package models

import (
	"time"

	"gorm.io/datatypes"
)

// Post represents the 'posts' table. Attachments are posts with type 'attachment'.
type Post struct {
	ID            int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Type          string            `gorm:"column:post_type;type:varchar(20);index:idx_posts_type_name,priority:1;default:post"`
	Status        string            `gorm:"column:post_status;type:varchar(20);default:publish"`
	Title         string            `gorm:"column:post_title;type:text"`
	Name          string            `gorm:"column:post_name;type:varchar(191);index:idx_posts_type_name,priority:2"`
	Content       string            `gorm:"column:post_content;type:longtext"`
	Excerpt       string            `gorm:"column:post_excerpt;type:text"`
	AuthorID      int64             `gorm:"column:post_author;index;default:0"`
	ParentID      int64             `gorm:"column:post_parent;index;default:0"`
	MimeType      string            `gorm:"column:post_mime_type;type:varchar(100)"`
	GUID          string            `gorm:"column:guid;type:varchar(255);index"`
	MenuOrder     int               `gorm:"column:menu_order;default:0"`
	CommentStatus string            `gorm:"column:comment_status;type:varchar(20);default:open"`
	CommentCount  int64             `gorm:"column:comment_count;default:0"`
	Date          time.Time         `gorm:"column:post_date"`
	Modified      time.Time         `gorm:"column:post_modified"`
	Meta          datatypes.JSONMap `gorm:"column:meta"`
}

// TableName overrides the table name.
func (Post) TableName() string {
	return "posts"
}

// User represents the 'users' table.
type User struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Login       string            `gorm:"column:user_login;type:varchar(60);uniqueIndex"`
	Email       string            `gorm:"column:user_email;type:varchar(100)"`
	DisplayName string            `gorm:"column:display_name;type:varchar(250)"`
	Nicename    string            `gorm:"column:user_nicename;type:varchar(50)"`
	URL         string            `gorm:"column:user_url;type:varchar(100)"`
	Registered  time.Time         `gorm:"column:user_registered"`
	Roles       datatypes.JSON    `gorm:"column:roles"`
	Meta        datatypes.JSONMap `gorm:"column:meta"`
}

// TableName overrides the table name.
func (User) TableName() string {
	return "users"
}

// Term represents the 'terms' table. A term belongs to exactly one taxonomy.
type Term struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Taxonomy    string            `gorm:"column:taxonomy;type:varchar(32);uniqueIndex:idx_terms_taxonomy_slug,priority:1"`
	Name        string            `gorm:"column:name;type:varchar(200)"`
	Slug        string            `gorm:"column:slug;type:varchar(191);uniqueIndex:idx_terms_taxonomy_slug,priority:2"`
	Description string            `gorm:"column:description;type:text"`
	ParentID    int64             `gorm:"column:parent;default:0"`
	Count       int64             `gorm:"column:term_count;default:0"`
	Meta        datatypes.JSONMap `gorm:"column:meta"`
}

// TableName overrides the table name.
func (Term) TableName() string {
	return "terms"
}

// TermRelationship represents the 'term_relationships' table.
type TermRelationship struct {
	PostID int64 `gorm:"column:object_id;primaryKey;autoIncrement:false"`
	TermID int64 `gorm:"column:term_id;primaryKey;autoIncrement:false;index"`
}

// TableName overrides the table name.
func (TermRelationship) TableName() string {
	return "term_relationships"
}

// Comment represents the 'comments' table.
type Comment struct {
	ID          int64             `gorm:"column:id;primaryKey;autoIncrement"`
	PostID      int64             `gorm:"column:comment_post_id;index"`
	UserID      int64             `gorm:"column:user_id;default:0"`
	ParentID    int64             `gorm:"column:comment_parent;default:0"`
	AuthorName  string            `gorm:"column:comment_author;type:varchar(255)"`
	AuthorEmail string            `gorm:"column:comment_author_email;type:varchar(100)"`
	AuthorURL   string            `gorm:"column:comment_author_url;type:varchar(200)"`
	Content     string            `gorm:"column:comment_content;type:text"`
	Approved    string            `gorm:"column:comment_approved;type:varchar(20);default:1"`
	Type        string            `gorm:"column:comment_type;type:varchar(20);default:comment"`
	Date        time.Time         `gorm:"column:comment_date"`
	Meta        datatypes.JSONMap `gorm:"column:meta"`
}

// TableName overrides the table name.
func (Comment) TableName() string {
	return "comments"
}

// Option represents the 'options' table. Values are stored as JSON.
type Option struct {
	ID       int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string         `gorm:"column:option_name;type:varchar(191);uniqueIndex"`
	Value    datatypes.JSON `gorm:"column:option_value"`
	Autoload bool           `gorm:"column:autoload"`
}

// TableName overrides the table name.
func (Option) TableName() string {
	return "options"
}

// IdentityMapping represents the 'identity_mappings' table linking remote
// entities to their local counterparts.
type IdentityMapping struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Kind      string    `gorm:"column:kind;type:varchar(32);uniqueIndex:idx_identity_key,priority:1"`
	RemoteID  string    `gorm:"column:remote_id;type:varchar(64);uniqueIndex:idx_identity_key,priority:2"`
	Origin    string    `gorm:"column:origin_source;type:varchar(191);uniqueIndex:idx_identity_key,priority:3"`
	LocalID   int64     `gorm:"column:local_id;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (IdentityMapping) TableName() string {
	return "identity_mappings"
}

// PostConnection represents the 'post_connections' table, a typed edge
// between two local posts.
type PostConnection struct {
	ID     int64             `gorm:"column:id;primaryKey;autoIncrement"`
	Type   string            `gorm:"column:connection_type;type:varchar(44);uniqueIndex:idx_connection,priority:1"`
	FromID int64             `gorm:"column:from_id;uniqueIndex:idx_connection,priority:2"`
	ToID   int64             `gorm:"column:to_id;uniqueIndex:idx_connection,priority:3"`
	Meta   datatypes.JSONMap `gorm:"column:meta"`
}

// TableName overrides the table name.
func (PostConnection) TableName() string {
	return "post_connections"
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&Post{},
		&User{},
		&Term{},
		&TermRelationship{},
		&Comment{},
		&Option{},
		&IdentityMapping{},
		&PostConnection{},
	}
}

// ExpectedSchema lists the columns the store reads and writes, per table.
func ExpectedSchema() map[string][]string {
	return map[string][]string{
		"posts":              {"id", "post_type", "post_status", "post_name", "post_content", "post_author", "post_parent", "guid", "post_modified", "meta"},
		"users":              {"id", "user_login", "roles", "meta"},
		"terms":              {"id", "taxonomy", "name", "slug", "term_count", "meta"},
		"term_relationships": {"object_id", "term_id"},
		"comments":           {"id", "comment_post_id", "comment_approved", "meta"},
		"options":            {"id", "option_name", "option_value", "autoload"},
		"identity_mappings":  {"id", "kind", "remote_id", "origin_source", "local_id"},
		"post_connections":   {"id", "connection_type", "from_id", "to_id"},
	}
}
