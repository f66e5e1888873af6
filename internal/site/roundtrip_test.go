package site

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instawp/twowaysync-sample/internal/content"
	"github.com/instawp/twowaysync-sample/internal/event"
	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
)

// TestRoundTrip links two sites: metadata written on the source is exported,
// carried through a YAML batch and applied on the destination.
func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestSite(t, "src")
	dst := newTestSite(t, "dst")
	enableAll(t, src)
	enableAll(t, dst)

	srcPost, err := src.CreatePost(ctx, content.Post{Name: "hello-world", Title: "Hello world!"})
	require.NoError(t, err)
	dstPost, err := dst.CreatePost(ctx, content.Post{Name: "hello-world", Title: "Hello world!"})
	require.NoError(t, err)

	srcTerm, err := src.CreateTerm(ctx, content.Term{Name: "News", Slug: "news", Taxonomy: "category"})
	require.NoError(t, err)
	dstTerm, err := dst.CreateTerm(ctx, content.Term{Name: "Nachrichten", Slug: "nachrichten", Taxonomy: "category"})
	require.NoError(t, err)
	// Slugs differ, so the term can only match through a shared reference.
	require.NoError(t, src.SetTermReferenceID(ctx, srcTerm.ID, "term-ref"))
	require.NoError(t, dst.SetTermReferenceID(ctx, dstTerm.ID, "term-ref"))

	settings := metaval.NewObject(
		metaval.P("layout", metaval.String("wide")),
		metaval.P("columns", metaval.Int(3)),
	)
	require.NoError(t, src.AddPostMeta(ctx, srcPost.ID, "color", metaval.String("red")))
	require.NoError(t, src.UpdatePostMeta(ctx, srcPost.ID, "color", metaval.String("blue")))
	require.NoError(t, src.AddPostMeta(ctx, srcPost.ID, "settings", settings))
	require.NoError(t, src.AddTermMeta(ctx, srcTerm.ID, "icon", metaval.String("star")))

	exported, err := src.Export(ctx, 0)
	require.NoError(t, err)
	require.Len(t, exported, 4)

	batch, err := event.MarshalBatch(exported)
	require.NoError(t, err)
	inbound, err := event.ParseInbound(batch)
	require.NoError(t, err)

	responses, err := dst.Apply(ctx, inbound)
	require.NoError(t, err)
	require.Len(t, responses, 4)
	for _, resp := range responses {
		assert.Equal(t, event.StatusCompleted, resp.Status, "event %s", resp.EventID)
		assert.Equal(t, SyncSuccessMessage, resp.Message)
	}

	color, err := dst.Meta(ctx, provider.EntityPost, dstPost.ID, "color")
	require.NoError(t, err)
	assert.Equal(t, []metaval.Value{metaval.String("blue")}, color)

	got, err := dst.Meta(ctx, provider.EntityPost, dstPost.ID, "settings")
	require.NoError(t, err)
	assert.Equal(t, []metaval.Value{settings}, got)

	icon, err := dst.Meta(ctx, provider.EntityTerm, dstTerm.ID, "icon")
	require.NoError(t, err)
	assert.Equal(t, []metaval.Value{metaval.String("star")}, icon)

	// Replayed writes never echo back.
	echoed, err := dst.Events(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, echoed)
}

func TestExport_After(t *testing.T) {
	ctx := context.Background()
	s := newTestSite(t, "a")
	enableAll(t, s)

	post, err := s.CreatePost(ctx, content.Post{Name: "a"})
	require.NoError(t, err)
	require.NoError(t, s.AddPostMeta(ctx, post.ID, "one", metaval.Int(1)))
	require.NoError(t, s.AddPostMeta(ctx, post.ID, "two", metaval.Int(2)))

	events, err := s.Events(ctx, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)

	tail, err := s.Export(ctx, events[0].Seq)
	require.NoError(t, err)
	require.Len(t, tail, 1)
	assert.Equal(t, events[1].ID, tail[0].ID)
	assert.Equal(t, "a-ref-1", tail[0].Reference())
	assert.Equal(t, metaval.String("two"), tail[0].Details[event.DataMetaKey])
}

// A numeric-looking reference and decomposed strings must survive the event
// log, the batch file and replay byte for byte.
func TestRoundTrip_ExactValuesAndNumericReference(t *testing.T) {
	ctx := context.Background()
	src := newTestSite(t, "src")
	dst := newTestSite(t, "dst")
	enableAll(t, src)
	enableAll(t, dst)

	srcPost, err := src.CreatePost(ctx, content.Post{Name: "source-name"})
	require.NoError(t, err)
	dstPost, err := dst.CreatePost(ctx, content.Post{Name: "destination-name"})
	require.NoError(t, err)
	require.NoError(t, src.SetPostReferenceID(ctx, srcPost.ID, "1001"))
	require.NoError(t, dst.SetPostReferenceID(ctx, dstPost.ID, "1001"))

	values := map[string]metaval.Value{
		"plain":  metaval.String("Cafe\u0301"),
		"list":   metaval.Array{metaval.String("Cafe\u0301")},
		"quoted": metaval.String("\"Cafe\u0301\""),
	}
	for key, v := range values {
		require.NoError(t, src.AddPostMeta(ctx, srcPost.ID, key, v))
	}

	exported, err := src.Export(ctx, 0)
	require.NoError(t, err)
	batch, err := event.MarshalBatch(exported)
	require.NoError(t, err)
	inbound, err := event.ParseInbound(batch)
	require.NoError(t, err)

	responses, err := dst.Apply(ctx, inbound)
	require.NoError(t, err)
	for _, resp := range responses {
		assert.Equal(t, event.StatusCompleted, resp.Status, "event %s", resp.EventID)
	}

	for key, want := range values {
		got, err := dst.Meta(ctx, provider.EntityPost, dstPost.ID, key)
		require.NoError(t, err)
		assert.Equal(t, []metaval.Value{want}, got, "key %s", key)
	}
}
