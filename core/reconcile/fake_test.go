package reconcile

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory Adapter and IdentityStore.
type memStore struct {
	mu sync.Mutex

	nextID     int64
	posts      map[int64]*Post
	users      map[int64]*User
	terms      map[int64]*Term
	comments   map[int64]*Comment
	options    map[string]*Option
	taxonomies map[string]bool
	objTerms   map[int64]map[string][]string
	identities map[IdentityKey]int64

	deferred   bool
	deferCalls []bool

	failCreatePost error
	failUpdatePost error
}

func newMemStore() *memStore {
	return &memStore{
		nextID:     100,
		posts:      map[int64]*Post{},
		users:      map[int64]*User{},
		terms:      map[int64]*Term{},
		comments:   map[int64]*Comment{},
		options:    map[string]*Option{},
		taxonomies: map[string]bool{"category": true, "post_tag": true},
		objTerms:   map[int64]map[string][]string{},
		identities: map[IdentityKey]int64{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func copyMeta(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memStore) GetPost(_ context.Context, id int64) (*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.Meta = copyMeta(nil, p.Meta)
	return &cp, nil
}

func (m *memStore) FindPostsBySlug(_ context.Context, postType, slug string) ([]*Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var found []*Post
	for _, p := range m.posts {
		if p.Type == postType && p.Name == slug {
			cp := *p
			found = append(found, &cp)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].ID < found[j].ID })
	return found, nil
}

func (m *memStore) CreatePost(_ context.Context, p *Post) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreatePost != nil {
		return 0, m.failCreatePost
	}
	cp := *p
	if _, taken := m.posts[cp.ID]; cp.ID == 0 || taken {
		cp.ID = m.id()
	}
	if cp.Modified.IsZero() {
		cp.Modified = time.Now()
	}
	cp.Meta = copyMeta(nil, p.Meta)
	m.posts[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) UpdatePost(_ context.Context, p *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdatePost != nil {
		return m.failUpdatePost
	}
	old, ok := m.posts[p.ID]
	if !ok {
		return errors.New("post not found")
	}
	cp := *p
	cp.Meta = copyMeta(copyMeta(nil, old.Meta), p.Meta)
	if cp.Modified.IsZero() {
		cp.Modified = time.Now()
	}
	m.posts[p.ID] = &cp
	return nil
}

func (m *memStore) SetPostMeta(_ context.Context, postID int64, meta map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return errors.New("post not found")
	}
	p.Meta = copyMeta(p.Meta, meta)
	return nil
}

func (m *memStore) FindUserByLogin(_ context.Context, login string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Login == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) CreateUser(_ context.Context, u *User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	cp.ID = m.id()
	m.users[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) UpdateUserMeta(_ context.Context, userID int64, meta map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID].Meta = copyMeta(m.users[userID].Meta, meta)
	return nil
}

func (m *memStore) AddUserRole(_ context.Context, userID int64, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[userID]
	for _, r := range u.Roles {
		if r == role {
			return nil
		}
	}
	u.Roles = append(u.Roles, role)
	return nil
}

func (m *memStore) GetOption(_ context.Context, name string) (*Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.options[name]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *memStore) UpdateOption(_ context.Context, o *Option) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.options[o.Name]; ok {
		old.Value, old.Autoload = o.Value, o.Autoload
		return old.ID, nil
	}
	cp := *o
	cp.ID = m.id()
	m.options[o.Name] = &cp
	return cp.ID, nil
}

func (m *memStore) TaxonomyExists(_ context.Context, taxonomy string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.taxonomies[taxonomy], nil
}

func (m *memStore) findTerm(taxonomy string, match func(*Term) bool) *Term {
	for _, t := range m.terms {
		if t.Taxonomy == taxonomy && match(t) {
			cp := *t
			return &cp
		}
	}
	return nil
}

func (m *memStore) FindTermBySlug(_ context.Context, taxonomy, slug string) (*Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findTerm(taxonomy, func(t *Term) bool { return t.Slug == slug }), nil
}

func (m *memStore) FindTermByName(_ context.Context, taxonomy, name string) (*Term, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findTerm(taxonomy, func(t *Term) bool { return t.Name == name }), nil
}

func (m *memStore) CreateTerm(_ context.Context, t *Term) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	cp.ID = m.id()
	m.terms[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) UpdateTermMeta(_ context.Context, termID int64, meta map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terms[termID].Meta = copyMeta(m.terms[termID].Meta, meta)
	return nil
}

func (m *memStore) SetObjectTerms(_ context.Context, postID int64, taxonomy string, slugs []string, appendTerms bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objTerms[postID] == nil {
		m.objTerms[postID] = map[string][]string{}
	}
	var current []string
	if appendTerms {
		current = m.objTerms[postID][taxonomy]
	}
	for _, s := range slugs {
		if m.findTerm(taxonomy, func(t *Term) bool { return t.Slug == s }) == nil {
			continue
		}
		if !contains(current, s) {
			current = append(current, s)
		}
	}
	m.objTerms[postID][taxonomy] = current
	return nil
}

func (m *memStore) RemoveObjectTerms(_ context.Context, postID int64, taxonomy string, slugs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []string
	for _, s := range m.objTerms[postID][taxonomy] {
		if !contains(slugs, s) {
			kept = append(kept, s)
		}
	}
	if m.objTerms[postID] != nil {
		m.objTerms[postID][taxonomy] = kept
	}
	return nil
}

func (m *memStore) CreateComment(_ context.Context, c *Comment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	cp.ID = m.id()
	m.comments[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) DeferCounting(_ context.Context, deferred bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deferred = deferred
	m.deferCalls = append(m.deferCalls, deferred)
	return nil
}

func (m *memStore) Get(_ context.Context, key IdentityKey) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.identities[key]
	return id, ok, nil
}

func (m *memStore) Put(_ context.Context, key IdentityKey, localID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identities[key] = localID
	return nil
}

func (m *memStore) List(_ context.Context, kind, origin string) ([]Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Identity
	for k, id := range m.identities {
		if k.Kind == kind && (origin == "" || k.Origin == origin) {
			out = append(out, Identity{IdentityKey: k, LocalID: id})
		}
	}
	return out, nil
}

func (m *memStore) HasLocal(_ context.Context, kind string, localID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, id := range m.identities {
		if k.Kind == kind && id == localID {
			return true, nil
		}
	}
	return false, nil
}

// countPosts counts posts of postType.
func (m *memStore) countPosts(postType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.posts {
		if p.Type == postType {
			n++
		}
	}
	return n
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
