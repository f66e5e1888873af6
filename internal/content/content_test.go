package content

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/instawp/twowaysync-sample/internal/metaval"
)

func TestPostSnapshotRoundTrip(t *testing.T) {
	p := Post{ID: 42, Name: "hello-world", Type: "post", Title: "Hello world!", Status: "publish"}
	assert.Equal(t, p, PostFromSnapshot(p.Snapshot()))
}

func TestTermSnapshotRoundTrip(t *testing.T) {
	term := Term{ID: 7, Name: "News", Slug: "news", Taxonomy: "category"}
	assert.Equal(t, term, TermFromSnapshot(term.Snapshot()))
}

func TestPostFromPartialSnapshot(t *testing.T) {
	p := PostFromSnapshot(metaval.Object{
		FieldPostType: metaval.String("page"),
		FieldPostID:   metaval.String("12"),
	})
	assert.Equal(t, Post{ID: 12, Type: "page"}, p)
}
