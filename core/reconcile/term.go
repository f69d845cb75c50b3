package reconcile

import (
	"context"
	"fmt"
	"sort"

	"site-sync/core/utils"
)

// termDescriptor is one entry of a post's tax_input.
type termDescriptor struct {
	Taxonomy    string
	Name        string
	Slug        string
	Description string
	Meta        map[string]any
}

// partialTermRef reports whether raw is a partial term reference: a mapping
// with exactly the fields {slug, taxonomy}, or one flagged "partial": true.
// A partial reference attaches an existing term without touching it.
func partialTermRef(raw any) (TermRef, bool) {
	m := utils.ToStringMap(raw)
	if m == nil {
		return TermRef{}, false
	}
	ref := TermRef{Taxonomy: utils.ToString(m["taxonomy"]), Slug: utils.ToString(m["slug"])}
	if ref.Taxonomy == "" || ref.Slug == "" {
		return TermRef{}, false
	}
	if flag, ok := m["partial"]; ok {
		return ref, utils.ToBool(flag)
	}
	return ref, len(m) == 2
}

// termDescriptors lists the full descriptors of a tax_input entry. A single
// mapping is accepted as a one element list.
func termDescriptors(taxonomy string, raw any) []termDescriptor {
	items := utils.ToSlice(raw)
	if items == nil {
		if m := utils.ToStringMap(raw); m != nil {
			items = []any{m}
		}
	}

	out := make([]termDescriptor, 0, len(items))
	for _, item := range items {
		var tp termPayload
		m := utils.ToStringMap(item)
		if m == nil || decodePayload(m, &tp) != nil {
			continue
		}
		d := termDescriptor{
			Taxonomy:    taxonomy,
			Name:        tp.Name,
			Slug:        tp.Slug,
			Description: tp.Description,
			Meta:        utils.ToStringMap(tp.MetaInput),
		}
		if d.Slug == "" {
			d.Slug = utils.Slugify(d.Name)
		}
		if d.Slug == "" {
			continue
		}
		if d.Name == "" {
			d.Name = d.Slug
		}
		out = append(out, d)
	}
	return out
}

// attachTerms applies a post's tax_input. Partial references are appended
// and clear the default term; full descriptor lists replace the post's terms
// in that taxonomy, creating missing terms first. Failures are returned as
// warnings.
func (e *Engine) attachTerms(ctx context.Context, postID int64, taxInput any) []string {
	input := utils.ToStringMap(taxInput)
	if len(input) == 0 {
		return nil
	}

	taxonomies := make([]string, 0, len(input))
	for taxonomy := range input {
		taxonomies = append(taxonomies, taxonomy)
	}
	sort.Strings(taxonomies)

	var warnings []string
	warn := func(err error) { warnings = append(warnings, postWarning("terms", err)) }

	for _, taxonomy := range taxonomies {
		raw := input[taxonomy]

		if ref, ok := partialTermRef(raw); ok {
			if err := e.attachPartialTerm(ctx, postID, ref); err != nil {
				warn(err)
			}
			continue
		}

		exists, err := e.adapter.TaxonomyExists(ctx, taxonomy)
		if err != nil {
			warn(fmt.Errorf("%w: %s: %v", ErrTermWrite, taxonomy, err))
			continue
		}
		if !exists {
			warn(fmt.Errorf("%w: %s", ErrTaxonomyNotFound, taxonomy))
			continue
		}

		descriptors := termDescriptors(taxonomy, raw)
		slugs := make([]string, 0, len(descriptors))
		for _, d := range descriptors {
			if err := e.ensureTerm(ctx, d); err != nil {
				warn(err)
				continue
			}
			slugs = append(slugs, d.Slug)
		}

		if err := e.adapter.SetObjectTerms(ctx, postID, taxonomy, slugs, false); err != nil {
			warn(fmt.Errorf("%w: attach %s terms: %v", ErrTermWrite, taxonomy, err))
		}
	}
	return warnings
}

// attachPartialTerm appends an existing term and removes the default term.
func (e *Engine) attachPartialTerm(ctx context.Context, postID int64, ref TermRef) error {
	term, err := e.adapter.FindTermBySlug(ctx, ref.Taxonomy, ref.Slug)
	if err != nil {
		return fmt.Errorf("%w: %s/%s: %v", ErrTermWrite, ref.Taxonomy, ref.Slug, err)
	}
	if term == nil {
		return fmt.Errorf("%w: %s/%s does not exist", ErrTermWrite, ref.Taxonomy, ref.Slug)
	}

	if err := e.adapter.SetObjectTerms(ctx, postID, ref.Taxonomy, []string{ref.Slug}, true); err != nil {
		return fmt.Errorf("%w: attach %s/%s: %v", ErrTermWrite, ref.Taxonomy, ref.Slug, err)
	}

	def := e.defaultTerm
	if def.Slug == "" || (def.Taxonomy == ref.Taxonomy && def.Slug == ref.Slug) {
		return nil
	}
	if err := e.adapter.RemoveObjectTerms(ctx, postID, def.Taxonomy, []string{def.Slug}); err != nil {
		return fmt.Errorf("%w: remove default term: %v", ErrTermWrite, err)
	}
	return nil
}

// ensureTerm creates the descriptor's term if the taxonomy has no term with
// its slug. Existing terms are left untouched.
func (e *Engine) ensureTerm(ctx context.Context, d termDescriptor) error {
	existing, err := e.adapter.FindTermBySlug(ctx, d.Taxonomy, d.Slug)
	if err != nil {
		return fmt.Errorf("%w: %s/%s: %v", ErrTermWrite, d.Taxonomy, d.Slug, err)
	}
	if existing != nil {
		return nil
	}

	id, err := e.adapter.CreateTerm(ctx, &Term{
		Taxonomy:    d.Taxonomy,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
	})
	if err != nil {
		return fmt.Errorf("%w: create %s/%s: %v", ErrTermWrite, d.Taxonomy, d.Slug, err)
	}
	if len(d.Meta) > 0 {
		if err := e.adapter.UpdateTermMeta(ctx, id, flattenMeta(d.Meta)); err != nil {
			return fmt.Errorf("%w: meta for %s/%s: %v", ErrTermWrite, d.Taxonomy, d.Slug, err)
		}
	}
	return nil
}

// flattenMeta unwraps single-value meta lists ({"k": ["v"]} becomes
// {"k": "v"}), the shape meta is exported in.
func flattenMeta(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		if list := utils.ToSlice(v); list != nil {
			if len(list) == 0 {
				out[k] = nil
				continue
			}
			out[k] = list[0]
			continue
		}
		out[k] = v
	}
	return out
}

// termSyncer reconciles standalone taxonomy terms. Terms are identified by
// value, so the remote id is only linked, never used for lookup.
type termSyncer struct {
	e *Engine
}

// Sync implements Syncer.
func (s *termSyncer) Sync(ctx context.Context, rec SyncRecord, opts Options) (SyncResult, error) {
	e := s.e
	res := SyncResult{RemoteID: rec.RemoteID}

	var tp termPayload
	if err := decodePayload(rec.Payload, &tp); err != nil {
		return res, newSyncError(ErrValidation, rec, "", err)
	}
	if tp.Taxonomy == "" || (tp.Name == "" && tp.Slug == "") {
		return res, newSyncError(ErrValidation, rec, "taxonomy and name or slug are required", nil)
	}

	exists, err := e.adapter.TaxonomyExists(ctx, tp.Taxonomy)
	if err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "check taxonomy", err)
	}
	if !exists {
		return res, newSyncError(ErrTaxonomyNotFound, rec, fmt.Sprintf("the taxonomy %s does not exist, cannot insert terms", tp.Taxonomy), nil)
	}

	slug := tp.Slug
	if slug == "" {
		slug = utils.Slugify(tp.Name)
	}
	name := tp.Name
	if name == "" {
		name = slug
	}

	term, err := e.adapter.FindTermBySlug(ctx, tp.Taxonomy, slug)
	if err == nil && term == nil {
		term, err = e.adapter.FindTermByName(ctx, tp.Taxonomy, name)
	}
	if err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "find term", err)
	}

	if term == nil {
		id, err := e.adapter.CreateTerm(ctx, &Term{
			Taxonomy:    tp.Taxonomy,
			Name:        name,
			Slug:        slug,
			Description: tp.Description,
			ParentID:    e.termParent(ctx, tp, rec.OriginSource),
		})
		if err != nil {
			return res, newSyncError(ErrTermWrite, rec, fmt.Sprintf("insert term %q into taxonomy %q", name, tp.Taxonomy), err)
		}
		term = &Term{ID: id}
		res.Status = StatusCreated
	} else {
		res.Status = StatusKeptLocal
	}
	res.LocalID = term.ID

	if meta := utils.ToStringMap(tp.MetaInput); len(meta) > 0 {
		if err := e.adapter.UpdateTermMeta(ctx, term.ID, flattenMeta(meta)); err != nil {
			return res, newSyncError(ErrTermWrite, rec, "update term meta", err)
		}
		if res.Status == StatusKeptLocal {
			res.Status = StatusUpdated
		}
	}

	if err := e.identity.Link(ctx, string(KindTaxonomyTerm), term.ID, rec.RemoteID, rec.OriginSource); err != nil {
		return res, newSyncError(ErrStoreWrite, rec, "link identity", err)
	}
	res.Message = "the taxonomy term was successfully added"
	return res, nil
}

// termParent maps a remote parent term id through the identity mapping.
func (e *Engine) termParent(ctx context.Context, tp termPayload, origin string) int64 {
	id, found, err := e.identity.Lookup(ctx, string(KindTaxonomyTerm), tp.Parent, origin)
	if err != nil || !found {
		return 0
	}
	return id
}
