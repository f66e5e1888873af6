// Package content defines the local entities that own synced metadata.
package content

import "github.com/instawp/twowaysync-sample/internal/metaval"

// Snapshot field names, matching the host CMS's public entity fields.
const (
	FieldPostID     = "ID"
	FieldPostName   = "post_name"
	FieldPostType   = "post_type"
	FieldPostTitle  = "post_title"
	FieldPostStatus = "post_status"

	FieldTermID       = "term_id"
	FieldTermName     = "name"
	FieldTermSlug     = "slug"
	FieldTermTaxonomy = "taxonomy"
)

// Post is a post, page or custom post type entry.
type Post struct {
	ID     int64
	Name   string // slug; used as the lookup fallback on the linked site
	Type   string
	Title  string
	Status string
}

// Snapshot returns the post's public fields.
func (p Post) Snapshot() metaval.Object {
	return metaval.Object{
		FieldPostID:     metaval.Int(p.ID),
		FieldPostName:   metaval.String(p.Name),
		FieldPostType:   metaval.String(p.Type),
		FieldPostTitle:  metaval.String(p.Title),
		FieldPostStatus: metaval.String(p.Status),
	}
}

// PostFromSnapshot reads a post back from a snapshot. Missing fields are
// left at their zero value.
func PostFromSnapshot(obj metaval.Object) Post {
	var p Post
	p.ID, _ = obj.Int(FieldPostID)
	p.Name, _ = obj.String(FieldPostName)
	p.Type, _ = obj.String(FieldPostType)
	p.Title, _ = obj.String(FieldPostTitle)
	p.Status, _ = obj.String(FieldPostStatus)
	return p
}

// Term is a taxonomy term.
type Term struct {
	ID       int64
	Name     string
	Slug     string
	Taxonomy string
}

// Snapshot returns the term's public fields.
func (t Term) Snapshot() metaval.Object {
	return metaval.Object{
		FieldTermID:       metaval.Int(t.ID),
		FieldTermName:     metaval.String(t.Name),
		FieldTermSlug:     metaval.String(t.Slug),
		FieldTermTaxonomy: metaval.String(t.Taxonomy),
	}
}

// TermFromSnapshot reads a term back from a snapshot.
func TermFromSnapshot(obj metaval.Object) Term {
	var t Term
	t.ID, _ = obj.Int(FieldTermID)
	t.Name, _ = obj.String(FieldTermName)
	t.Slug, _ = obj.String(FieldTermSlug)
	t.Taxonomy, _ = obj.String(FieldTermTaxonomy)
	return t
}
