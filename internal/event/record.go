package event

import "github.com/instawp/twowaysync-sample/internal/metaval"

// Slug identifies an event kind.
type Slug string

// Known slugs.
const (
	PostMetaAdded   Slug = "post_meta_added"
	PostMetaUpdated Slug = "post_meta_updated"
	TermMetaAdded   Slug = "term_meta_added"
	TermMetaUpdated Slug = "term_meta_updated"
)

// Keys used inside Record.Data and Inbound.Details.
const (
	DataObjectID  = "object_id"
	DataMetaID    = "meta_id"
	DataMetaKey   = "meta_key"
	DataMetaValue = "meta_value"
	DataPost      = "post"
	DataTerm      = "term"
)

// Record is an outbound sync event built from a local metadata write.
// Records are transient; the host owns persistence and delivery.
type Record struct {
	Name  string         // display string, e.g. "Post meta updated"
	Slug  Slug
	Type  string         // post type or taxonomy
	Title string         // metadata key
	Data  metaval.Object // object_id, meta_id, meta_key, serialized meta_value, owner snapshot
}

// Object returns the record as a value tree for canonical encoding.
func (r Record) Object() metaval.Object {
	data := r.Data
	if data == nil {
		data = metaval.Object{}
	}
	return metaval.Object{
		"name":  metaval.String(r.Name),
		"slug":  metaval.String(r.Slug),
		"type":  metaval.String(r.Type),
		"title": metaval.String(r.Title),
		"data":  data,
	}
}

// MarshalCanonical returns the record's canonical JSON encoding.
func (r Record) MarshalCanonical() ([]byte, error) {
	return metaval.MarshalCanonical(r.Object())
}
