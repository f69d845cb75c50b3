package models

import (
	"encoding/json"

	"site-sync/core/reconcile"

	"gorm.io/datatypes"
)

// NewPost converts an engine post into a row.
func NewPost(p *reconcile.Post) *Post {
	return &Post{
		ID:            p.ID,
		Type:          p.Type,
		Status:        p.Status,
		Title:         p.Title,
		Name:          p.Name,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		AuthorID:      p.AuthorID,
		ParentID:      p.ParentID,
		MimeType:      p.MimeType,
		GUID:          p.GUID,
		MenuOrder:     p.MenuOrder,
		CommentStatus: p.CommentStatus,
		Date:          p.Date,
		Modified:      p.Modified,
		Meta:          jsonMap(p.Meta),
	}
}

// ToEntity converts the row into an engine post.
func (p Post) ToEntity() *reconcile.Post {
	return &reconcile.Post{
		ID:            p.ID,
		Type:          p.Type,
		Status:        p.Status,
		Title:         p.Title,
		Name:          p.Name,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		AuthorID:      p.AuthorID,
		ParentID:      p.ParentID,
		MimeType:      p.MimeType,
		GUID:          p.GUID,
		MenuOrder:     p.MenuOrder,
		CommentStatus: p.CommentStatus,
		Date:          p.Date.UTC(),
		Modified:      p.Modified.UTC(),
		Meta:          map[string]any(p.Meta),
	}
}

// NewUser converts an engine user into a row.
func NewUser(u *reconcile.User) *User {
	roles, _ := json.Marshal(u.Roles)
	if u.Roles == nil {
		roles = []byte("[]")
	}
	return &User{
		ID:          u.ID,
		Login:       u.Login,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Nicename:    u.Nicename,
		URL:         u.URL,
		Registered:  u.Registered,
		Roles:       datatypes.JSON(roles),
		Meta:        jsonMap(u.Meta),
	}
}

// RoleList decodes the stored roles.
func (u User) RoleList() []string {
	var roles []string
	if len(u.Roles) > 0 {
		_ = json.Unmarshal(u.Roles, &roles)
	}
	return roles
}

// ToEntity converts the row into an engine user.
func (u User) ToEntity() *reconcile.User {
	return &reconcile.User{
		ID:          u.ID,
		Login:       u.Login,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Nicename:    u.Nicename,
		URL:         u.URL,
		Registered:  u.Registered.UTC(),
		Roles:       u.RoleList(),
		Meta:        map[string]any(u.Meta),
	}
}

// NewTerm converts an engine term into a row.
func NewTerm(t *reconcile.Term) *Term {
	return &Term{
		ID:          t.ID,
		Taxonomy:    t.Taxonomy,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		ParentID:    t.ParentID,
		Meta:        jsonMap(t.Meta),
	}
}

// ToEntity converts the row into an engine term.
func (t Term) ToEntity() *reconcile.Term {
	return &reconcile.Term{
		ID:          t.ID,
		Taxonomy:    t.Taxonomy,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		ParentID:    t.ParentID,
		Meta:        map[string]any(t.Meta),
	}
}

// NewComment converts an engine comment into a row.
func NewComment(c *reconcile.Comment) *Comment {
	return &Comment{
		ID:          c.ID,
		PostID:      c.PostID,
		UserID:      c.UserID,
		ParentID:    c.ParentID,
		AuthorName:  c.AuthorName,
		AuthorEmail: c.AuthorEmail,
		AuthorURL:   c.AuthorURL,
		Content:     c.Content,
		Approved:    c.Approved,
		Type:        c.Type,
		Date:        c.Date,
		Meta:        jsonMap(c.Meta),
	}
}

// NewOption converts an engine option into a row.
func NewOption(o *reconcile.Option) (*Option, error) {
	value, err := json.Marshal(o.Value)
	if err != nil {
		return nil, err
	}
	return &Option{
		ID:       o.ID,
		Name:     o.Name,
		Value:    datatypes.JSON(value),
		Autoload: o.Autoload,
	}, nil
}

// ToEntity converts the row into an engine option.
func (o Option) ToEntity() *reconcile.Option {
	var value any
	if len(o.Value) > 0 {
		_ = json.Unmarshal(o.Value, &value)
	}
	return &reconcile.Option{
		ID:       o.ID,
		Name:     o.Name,
		Value:    value,
		Autoload: o.Autoload,
	}
}

// ToEntity converts the row into an identity mapping.
func (m IdentityMapping) ToEntity() reconcile.Identity {
	return reconcile.Identity{
		IdentityKey: reconcile.IdentityKey{Kind: m.Kind, RemoteID: m.RemoteID, Origin: m.Origin},
		LocalID:     m.LocalID,
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

// MergeMeta returns dst with the keys of src set. A nil value removes the key.
func MergeMeta(dst datatypes.JSONMap, src map[string]any) datatypes.JSONMap {
	if dst == nil {
		dst = datatypes.JSONMap{}
	}
	for k, v := range src {
		if v == nil {
			delete(dst, k)
			continue
		}
		dst[k] = v
	}
	return dst
}

func jsonMap(m map[string]any) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(m)
}
