package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.uber.org/multierr"

	"github.com/instawp/twowaysync-sample/internal/content"
	"github.com/instawp/twowaysync-sample/internal/metaval"
	"github.com/instawp/twowaysync-sample/internal/provider"
	"github.com/instawp/twowaysync-sample/internal/site"
	"github.com/instawp/twowaysync-sample/internal/store"
	"github.com/instawp/twowaysync-sample/internal/testutil"
)

// Harness executes one scenario against a set of fresh sites.
type Harness struct {
	sites    map[string]*site.Site
	stores   []*store.Store
	traced   map[string]int64 // last seq added to the trace, per site
	exported map[string]int64 // last seq exported by a sync, per site
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each site runs in a fresh in-memory database. Infrastructure failures
// (a missing object, a provider error) are returned as errors; assertion
// failures are reported in the result.
func Run(scenario *Scenario) (_ *Result, err error) {
	ctx := context.Background()

	h := &Harness{
		sites:    make(map[string]*site.Site),
		traced:   make(map[string]int64),
		exported: make(map[string]int64),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	defer func() {
		if cerr := h.close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close stores: %w", cerr)
		}
	}()

	for _, name := range scenario.siteNames() {
		if err := h.openSite(name); err != nil {
			return nil, err
		}
	}

	result := NewResult()
	if err := h.executeSetup(ctx, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	actx := &AssertionContext{Sites: h.sites, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}
	return result, nil
}

func (h *Harness) openSite(name string) error {
	st, err := store.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store for %s: %w", name, err)
	}
	h.stores = append(h.stores, st)

	s, err := site.NewDefault(st,
		site.WithReferenceIDs(testutil.NewSequentialIDs(name+"-ref")),
		site.WithEventIDs(testutil.NewSequentialIDs(name+"-event")),
		site.WithLogger(h.logger),
	)
	if err != nil {
		return fmt.Errorf("site %s: %w", name, err)
	}
	h.sites[name] = s
	return nil
}

func (h *Harness) close() error {
	var err error
	for _, st := range h.stores {
		err = multierr.Append(err, st.Close())
	}
	return err
}

// executeSetup seeds sites. Toggles are applied before content so the
// order of keys in a step does not matter.
func (h *Harness) executeSetup(ctx context.Context, setup []SetupStep) error {
	for i, step := range setup {
		s := h.sites[step.Site]

		for id, v := range step.Toggles {
			toggle, _ := provider.ParseToggle(v)
			if err := s.SetToggle(ctx, id, toggle); err != nil {
				return fmt.Errorf("setup step %d: %w", i, err)
			}
		}
		for _, p := range step.Posts {
			post, err := s.CreatePost(ctx, content.Post{Name: p.Name, Type: p.Type, Title: p.Title})
			if err != nil {
				return fmt.Errorf("setup step %d: post %q: %w", i, p.Name, err)
			}
			if p.Reference != "" {
				if err := s.SetPostReferenceID(ctx, post.ID, p.Reference); err != nil {
					return fmt.Errorf("setup step %d: post %q: %w", i, p.Name, err)
				}
			}
		}
		for _, t := range step.Terms {
			term, err := s.CreateTerm(ctx, content.Term{Name: t.Name, Slug: t.Slug, Taxonomy: t.Taxonomy})
			if err != nil {
				return fmt.Errorf("setup step %d: term %q: %w", i, t.Slug, err)
			}
			if t.Reference != "" {
				if err := s.SetTermReferenceID(ctx, term.ID, t.Reference); err != nil {
					return fmt.Errorf("setup step %d: term %q: %w", i, t.Slug, err)
				}
			}
		}

		h.logger.Info("setup step completed", "step", i, "site", step.Site)
	}
	return nil
}

// executeFlow runs flow steps in order, tracing every event each step
// records and every response each sync returns.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		s := h.sites[step.Site]

		switch {
		case step.Meta != nil:
			if err := h.writeMeta(ctx, s, step.Meta); err != nil {
				return fmt.Errorf("flow step %d: %w", i, err)
			}
			if err := h.traceRecorded(ctx, step.Site, result); err != nil {
				return fmt.Errorf("flow step %d: %w", i, err)
			}

		case step.Sync != nil:
			if err := h.sync(ctx, step.Site, step.Sync.To, result); err != nil {
				return fmt.Errorf("flow step %d: %w", i, err)
			}
		}
	}
	return nil
}

func (h *Harness) writeMeta(ctx context.Context, s *site.Site, m *MetaStep) error {
	value, err := metaval.FromAny(m.Value)
	if err != nil {
		return fmt.Errorf("meta value: %w", err)
	}
	id, err := resolveObject(ctx, s, m.Entity, m.Object, m.ObjectType)
	if err != nil {
		return err
	}

	switch {
	case m.Entity == string(provider.EntityPost) && m.Action == "add":
		return s.AddPostMeta(ctx, id, m.Key, value)
	case m.Entity == string(provider.EntityPost):
		return s.UpdatePostMeta(ctx, id, m.Key, value)
	case m.Action == "add":
		return s.AddTermMeta(ctx, id, m.Key, value)
	default:
		return s.UpdateTermMeta(ctx, id, m.Key, value)
	}
}

// sync exports events from site from and applies them to site to.
func (h *Harness) sync(ctx context.Context, from, to string, result *Result) error {
	events, err := h.sites[from].Export(ctx, h.exported[from])
	if err != nil {
		return err
	}
	logged, err := h.sites[from].Events(ctx, h.exported[from])
	if err != nil {
		return err
	}
	if len(logged) > 0 {
		h.exported[from] = logged[len(logged)-1].Seq
	}

	responses, err := h.sites[to].Apply(ctx, events)
	if err != nil {
		return err
	}
	for _, resp := range responses {
		result.AddResponseTrace(to, resp.EventID, string(resp.Slug), resp.Status, resp.Message)
	}

	// Replayed writes must not record; anything logged here shows up in the trace.
	return h.traceRecorded(ctx, to, result)
}

// traceRecorded adds events logged on name since the last trace to result.
func (h *Harness) traceRecorded(ctx context.Context, name string, result *Result) error {
	logged, err := h.sites[name].Events(ctx, h.traced[name])
	if err != nil {
		return err
	}
	for _, ev := range logged {
		result.AddRecordedTrace(name, ev.Seq, ev.ID, string(ev.Record.Slug), ev.Record.Title, ev.ReferenceID)
		h.traced[name] = ev.Seq
	}
	return nil
}

// resolveObject finds a post by name or a term by slug.
func resolveObject(ctx context.Context, s *site.Site, entity, object, objectType string) (int64, error) {
	if entity == string(provider.EntityPost) {
		if objectType == "" {
			objectType = "post"
		}
		p, err := s.Store().FindPostByName(ctx, objectType, object)
		if err != nil {
			return 0, err
		}
		return p.ID, nil
	}

	if objectType == "" {
		objectType = "category"
	}
	t, err := s.Store().FindTermBySlug(ctx, objectType, object)
	if err != nil {
		return 0, err
	}
	return t.ID, nil
}
