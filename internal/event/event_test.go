package event

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instawp/twowaysync-sample/internal/metaval"
)

func sampleRecord() Record {
	return Record{
		Name:  "Post meta updated",
		Slug:  PostMetaAdded,
		Type:  "post",
		Title: "color",
		Data: metaval.Object{
			DataObjectID:  metaval.Int(42),
			DataMetaKey:   metaval.String("color"),
			DataMetaValue: metaval.String("red"),
		},
	}
}

func TestRecordMarshalCanonical(t *testing.T) {
	got, err := sampleRecord().MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"data":{"meta_key":"color","meta_value":"red","object_id":42},"name":"Post meta updated","slug":"post_meta_added","title":"color","type":"post"}`,
		string(got))
}

func TestRecordObjectNilData(t *testing.T) {
	obj := Record{Slug: TermMetaAdded}.Object()
	assert.Equal(t, metaval.Object{}, obj["data"])
}

func TestHashDeterministic(t *testing.T) {
	h1, err := Hash(sampleRecord())
	require.NoError(t, err)
	h2, err := Hash(sampleRecord())
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	changed := sampleRecord()
	changed.Data[DataMetaValue] = metaval.String("blue")
	h3, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestHashDomainSeparation(t *testing.T) {
	data := []byte(`{}`)
	assert.NotEqual(t, hashWithDomain("a", data), hashWithDomain("b", data))
}

func TestInboundReference(t *testing.T) {
	assert.Equal(t, "src", Inbound{SourceID: "src", ReferenceID: "ref"}.Reference())
	assert.Equal(t, "ref", Inbound{ReferenceID: "ref"}.Reference())
	assert.Equal(t, "", Inbound{}.Reference())
}

func TestPendingResponse(t *testing.T) {
	resp := PendingResponse(Inbound{ID: "ev-1", EventSlug: "user_created"})
	assert.Equal(t, "ev-1", resp.EventID)
	assert.Equal(t, Slug("user_created"), resp.Slug)
	assert.Equal(t, StatusPending, resp.Status)
}

const validBatch = `
events:
  - id: ev-1
    event_slug: post_meta_added
    event_name: Post meta updated
    event_type: post
    source_id: ref-42
    details:
      object_id: 42
      meta_key: color
      meta_value: red
      post:
        ID: 42
        post_name: hello-world
        post_type: post
  - id: ev-2
    event_slug: term_meta_updated
    reference_id: ref-7
    details:
      meta_key: order
      meta_value: 3
      term:
        taxonomy: category
        slug: news
  - id: ev-3
    event_slug: user_created
    details: {}
`

func TestParseInbound(t *testing.T) {
	events, err := ParseInbound([]byte(validBatch))
	require.NoError(t, err)
	require.Len(t, events, 3)

	first := events[0]
	assert.Equal(t, "ev-1", first.ID)
	assert.Equal(t, PostMetaAdded, first.EventSlug)
	assert.Equal(t, "ref-42", first.Reference())
	assert.Equal(t, metaval.String("red"), first.Details[DataMetaValue])
	post, ok := first.Details.Object(DataPost)
	require.True(t, ok)
	assert.Equal(t, metaval.String("hello-world"), post["post_name"])

	// Unserialized scalars are brought into serialized form.
	second := events[1]
	assert.Equal(t, "ref-7", second.Reference())
	assert.Equal(t, metaval.String("3"), second.Details[DataMetaValue])
	assert.Equal(t, metaval.Int(3), metaval.Unserialize("3"))

	// Unknown slugs are accepted; providers decide whether to claim them.
	assert.Equal(t, Slug("user_created"), events[2].EventSlug)
	assert.Equal(t, metaval.Object{}, events[2].Details)
}

func TestParseInboundRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty document", ``},
		{"unknown top-level field", "events: []\nextra: 1\n"},
		{"unknown event field", "events:\n  - event_slug: x\n    colour: red\n    details: {}\n"},
		{"missing slug", "events:\n  - details: {}\n"},
		{"empty slug", "events:\n  - event_slug: \"\"\n    details: {}\n"},
		{"post meta without key", "events:\n  - event_slug: post_meta_added\n    details:\n      meta_value: red\n      post: {post_type: post}\n"},
		{"post meta without post type", "events:\n  - event_slug: post_meta_updated\n    details:\n      meta_key: k\n      meta_value: v\n      post: {post_name: x}\n"},
		{"term meta without taxonomy", "events:\n  - event_slug: term_meta_added\n    details:\n      meta_key: k\n      meta_value: v\n      term: {slug: x}\n"},
		{"structured meta value", "events:\n  - event_slug: post_meta_added\n    details:\n      meta_key: k\n      meta_value: [1, 2]\n      post: {post_type: post}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInbound([]byte(tt.input))
			require.Error(t, err)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
		})
	}
}

func TestParseInboundMalformedYAML(t *testing.T) {
	_, err := ParseInbound([]byte("events: [\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestMarshalBatchRoundTrip(t *testing.T) {
	events := []Inbound{
		{
			ID:        "ev-1",
			EventSlug: PostMetaUpdated,
			EventName: "Page meta updated",
			EventType: "page",
			SourceID:  "ref-1",
			Details: metaval.Object{
				DataMetaID:    metaval.Int(9),
				DataObjectID:  metaval.Int(12),
				DataMetaKey:   metaval.String("_thumbnail_id"),
				DataMetaValue: metaval.String(metaval.MustSerialize(metaval.String("42"))),
				DataPost:      metaval.Object{"post_type": metaval.String("page")},
			},
		},
	}

	data, err := MarshalBatch(events)
	require.NoError(t, err)

	got, err := ParseInbound(data)
	require.NoError(t, err)
	assert.Equal(t, events, got)
	assert.Equal(t, metaval.String("42"), metaval.Unserialize(string(got[0].Details[DataMetaValue].(metaval.String))))
}

func TestLoadInbound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validBatch), 0644))

	events, err := LoadInbound(path)
	require.NoError(t, err)
	assert.Len(t, events, 3)

	_, err = LoadInbound(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read batch file")
}
