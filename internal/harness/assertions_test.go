package harness

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instawp/twowaysync-sample/internal/content"
	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/site"
)

// newAssertionContext opens a single "source" site with one post named
// hello carrying color=red.
func newAssertionContext(t *testing.T) *AssertionContext {
	t.Helper()
	ctx := context.Background()

	h := &Harness{
		sites:  make(map[string]*site.Site),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	t.Cleanup(func() { require.NoError(t, h.close()) })
	require.NoError(t, h.openSite("source"))

	s := h.sites["source"]
	post, err := s.CreatePost(ctx, content.Post{Name: "hello"})
	require.NoError(t, err)
	require.NoError(t, s.AddPostMeta(ctx, post.ID, "color", metaval.String("red")))

	return &AssertionContext{Sites: h.sites, Ctx: ctx}
}

func TestAssertMetaEquals(t *testing.T) {
	actx := newAssertionContext(t)

	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertMetaEquals, Site: "source", Entity: "post", Object: "hello", Key: "color", Value: "red"},
	}, actx)
	assert.Empty(t, errs)

	errs = EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertMetaEquals, Site: "source", Entity: "post", Object: "hello", Key: "color", Value: "blue"},
	}, actx)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Expected: post \"hello\" color = blue")
	assert.Contains(t, errs[0], "Actual: red")
}

func TestAssertMetaEquals_UnknownObject(t *testing.T) {
	actx := newAssertionContext(t)

	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertMetaEquals, Site: "source", Entity: "term", Object: "news", Key: "icon", Value: "star"},
	}, actx)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Actual: not found")
}

func TestAssertMetaAbsent(t *testing.T) {
	actx := newAssertionContext(t)

	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertMetaAbsent, Site: "source", Entity: "post", Object: "hello", Key: "size"},
		{Type: AssertMetaAbsent, Site: "source", Entity: "post", Object: "hello", Key: "color"},
	}, actx)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Actual: 1 value(s)")
}

func TestAssertEventCountAndRecorded(t *testing.T) {
	actx := newAssertionContext(t)

	// The post_meta toggle is off by default, so nothing was logged.
	errs := EvaluateAssertions(NewResult(), []Assertion{
		{Type: AssertEventCount, Site: "source", Count: 0},
		{Type: AssertEventRecorded, Site: "source", Slug: "post_meta_added"},
	}, actx)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "not found in event log")
}

func TestAssertResponseStatus(t *testing.T) {
	result := NewResult()
	result.AddRecordedTrace("source", 1, "e1", "post_meta_added", "color", "r1")
	result.AddResponseTrace("destination", "e1", "post_meta_added", "completed", "Sync successfully.")
	result.AddResponseTrace("destination", "e2", "post_meta_added", "pending", "no provider handled this event")

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertResponseStatus, Status: "completed", Count: 1},
		{Type: AssertResponseStatus, Status: "pending", Count: 2},
	}, nil)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "2 response(s) with status pending")
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	actx := newAssertionContext(t)

	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: "bogus", Site: "source"}}, actx)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "bogus"`)
}

func TestEvaluateAssertions_UnknownSite(t *testing.T) {
	actx := newAssertionContext(t)

	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: AssertEventCount, Site: "elsewhere"}}, actx)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `requires site "elsewhere"`)
}

func TestAssertionError_ErrorFormat(t *testing.T) {
	err := &AssertionError{
		Type:     AssertEventCount,
		Expected: "source logged 2 event(s)",
		Actual:   "1 event(s)",
		Trace: []TraceEvent{
			{Type: TraceRecorded, Site: "source", Slug: "post_meta_added", Title: "color"},
			{Type: TraceResponse, Site: "destination", Status: "completed", EventID: "e1"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: event_count")
	assert.Contains(t, msg, "[1] source recorded post_meta_added color")
	assert.Contains(t, msg, "[2] destination completed e1")
}
