package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
	"github.com/instawp/twowaysync-sample/internal/site"
	"github.com/instawp/twowaysync-sample/internal/store"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for i, ev := range e.Trace {
		switch ev.Type {
		case TraceRecorded:
			fmt.Fprintf(&buf, "  [%d] %s recorded %s %s\n", i+1, ev.Site, ev.Slug, ev.Title)
		case TraceResponse:
			fmt.Fprintf(&buf, "  [%d] %s %s %s\n", i+1, ev.Site, ev.Status, ev.EventID)
		}
	}
	return buf.String()
}

// AssertionContext provides site access for assertions that inspect state.
type AssertionContext struct {
	Sites map[string]*site.Site
	Ctx   context.Context
}

func assertEventCount(ctx context.Context, s *site.Site, trace []TraceEvent, a Assertion) error {
	logged, err := s.Events(ctx, 0)
	if err != nil {
		return err
	}
	if len(logged) != a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%s logged %d event(s)", a.Site, a.Count),
			Actual:   fmt.Sprintf("%d event(s)", len(logged)),
			Trace:    trace,
		}
	}
	return nil
}

func assertEventRecorded(ctx context.Context, s *site.Site, trace []TraceEvent, a Assertion) error {
	logged, err := s.Events(ctx, 0)
	if err != nil {
		return err
	}
	for _, ev := range logged {
		if string(ev.Record.Slug) == a.Slug && (a.Title == "" || ev.Record.Title == a.Title) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertEventRecorded,
		Expected: fmt.Sprintf("%s logged %s %s", a.Site, a.Slug, a.Title),
		Actual:   "not found in event log",
		Trace:    trace,
	}
}

func assertMeta(ctx context.Context, s *site.Site, trace []TraceEvent, a Assertion) error {
	id, err := resolveObject(ctx, s, a.Entity, a.Object, a.ObjectType)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s %s %q exists on %s", a.Entity, a.ObjectType, a.Object, a.Site),
				Actual:   "not found",
				Trace:    trace,
			}
		}
		return err
	}

	values, err := s.Meta(ctx, provider.EntityKind(a.Entity), id, a.Key)
	if err != nil {
		return err
	}

	if a.Type == AssertMetaAbsent {
		if len(values) > 0 {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("no %q on %s %q", a.Key, a.Entity, a.Object),
				Actual:   fmt.Sprintf("%d value(s)", len(values)),
				Trace:    trace,
			}
		}
		return nil
	}

	want, err := metaval.FromAny(a.Value)
	if err != nil {
		return fmt.Errorf("assertion value: %w", err)
	}
	if len(values) == 0 || !cmp.Equal(values[len(values)-1], want) {
		actual := "no value"
		if len(values) > 0 {
			actual = metaval.MustSerialize(values[len(values)-1])
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s %q %s = %s", a.Entity, a.Object, a.Key, metaval.MustSerialize(want)),
			Actual:   actual,
			Trace:    trace,
		}
	}
	return nil
}

func assertResponseStatus(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Type == TraceResponse && ev.Status == a.Status {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertResponseStatus,
			Expected: fmt.Sprintf("%d response(s) with status %s", a.Count, a.Status),
			Actual:   fmt.Sprintf("%d", count),
			Trace:    trace,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, a := range assertions {
		var err error

		var s *site.Site
		if actx != nil {
			s = actx.Sites[a.Site]
		}
		needsSite := a.Type != AssertResponseStatus

		switch {
		case needsSite && s == nil:
			err = fmt.Errorf("assertion[%d]: %s requires site %q", i, a.Type, a.Site)
		case a.Type == AssertEventCount:
			err = assertEventCount(actx.Ctx, s, result.Trace, a)
		case a.Type == AssertEventRecorded:
			err = assertEventRecorded(actx.Ctx, s, result.Trace, a)
		case a.Type == AssertMetaEquals, a.Type == AssertMetaAbsent:
			err = assertMeta(actx.Ctx, s, result.Trace, a)
		case a.Type == AssertResponseStatus:
			err = assertResponseStatus(result.Trace, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
