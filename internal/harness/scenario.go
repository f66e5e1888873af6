package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/instawp/twowaysync-sample/internal/provider"
)

// Scenario defines a sync scenario between linked sites.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Sites lists the site names. Defaults to source and destination.
	Sites []string `yaml:"sites,omitempty"`

	// Setup seeds sites before the flow. Setup writes record no events.
	Setup []SetupStep `yaml:"setup,omitempty"`

	// Flow is the ordered list of metadata writes and syncs.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the sites and the trace after the flow.
	Assertions []Assertion `yaml:"assertions"`
}

// SetupStep seeds one site.
type SetupStep struct {
	Site    string            `yaml:"site"`
	Toggles map[string]string `yaml:"toggles,omitempty"` // provider id -> on|off
	Posts   []PostFixture     `yaml:"posts,omitempty"`
	Terms   []TermFixture     `yaml:"terms,omitempty"`
}

// PostFixture is a post created during setup.
type PostFixture struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type,omitempty"`
	Title     string `yaml:"title,omitempty"`
	Reference string `yaml:"reference,omitempty"` // pinned reference id
}

// TermFixture is a term created during setup.
type TermFixture struct {
	Name      string `yaml:"name"`
	Slug      string `yaml:"slug"`
	Taxonomy  string `yaml:"taxonomy"`
	Reference string `yaml:"reference,omitempty"`
}

// FlowStep is either a metadata write or a sync on Site.
type FlowStep struct {
	Site string    `yaml:"site"`
	Meta *MetaStep `yaml:"meta,omitempty"`
	Sync *SyncStep `yaml:"sync,omitempty"`
}

// MetaStep writes metadata on an object named by post name or term slug.
type MetaStep struct {
	Action     string `yaml:"action"` // add | update
	Entity     string `yaml:"entity"` // post | term
	Object     string `yaml:"object"`
	ObjectType string `yaml:"object_type,omitempty"` // post type or taxonomy; defaults post / category
	Key        string `yaml:"key"`
	Value      any    `yaml:"value"`
}

// SyncStep exports new events from the step's site and applies them to To.
type SyncStep struct {
	To string `yaml:"to"`
}

// Assertion validates site state or the trace.
type Assertion struct {
	Type       string `yaml:"type"`
	Site       string `yaml:"site,omitempty"`
	Count      int    `yaml:"count,omitempty"`
	Slug       string `yaml:"slug,omitempty"`
	Title      string `yaml:"title,omitempty"`
	Entity     string `yaml:"entity,omitempty"`
	Object     string `yaml:"object,omitempty"`
	ObjectType string `yaml:"object_type,omitempty"` // post type or taxonomy
	Key        string `yaml:"key,omitempty"`
	Value      any    `yaml:"value,omitempty"`
	Status     string `yaml:"status,omitempty"`
}

// Assertion type constants.
const (
	AssertEventCount     = "event_count"
	AssertEventRecorded  = "event_recorded"
	AssertMetaEquals     = "meta_equals"
	AssertMetaAbsent     = "meta_absent"
	AssertResponseStatus = "response_status"
)

var defaultSites = []string{"source", "destination"}

// siteNames returns the scenario's sites, or the defaults.
func (s *Scenario) siteNames() []string {
	if len(s.Sites) == 0 {
		return defaultSites
	}
	return s.Sites
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	sites := s.siteNames()
	knownSite := func(name string) bool { return slices.Contains(sites, name) }

	for i, step := range s.Setup {
		if !knownSite(step.Site) {
			return fmt.Errorf("setup[%d]: unknown site %q", i, step.Site)
		}
		for id, v := range step.Toggles {
			if _, ok := provider.ParseToggle(v); !ok {
				return fmt.Errorf("setup[%d].toggles.%s: invalid toggle %q", i, id, v)
			}
		}
		for j, t := range step.Terms {
			if t.Taxonomy == "" {
				return fmt.Errorf("setup[%d].terms[%d]: taxonomy is required", i, j)
			}
		}
	}

	for i, step := range s.Flow {
		if !knownSite(step.Site) {
			return fmt.Errorf("flow[%d]: unknown site %q", i, step.Site)
		}
		if (step.Meta == nil) == (step.Sync == nil) {
			return fmt.Errorf("flow[%d]: exactly one of meta or sync is required", i)
		}
		if m := step.Meta; m != nil {
			if m.Action != "add" && m.Action != "update" {
				return fmt.Errorf("flow[%d].meta: action must be add or update", i)
			}
			if err := validateObjectRef(m.Entity, m.Object, m.Key); err != nil {
				return fmt.Errorf("flow[%d].meta: %w", i, err)
			}
		}
		if step.Sync != nil {
			if !knownSite(step.Sync.To) {
				return fmt.Errorf("flow[%d].sync: unknown site %q", i, step.Sync.To)
			}
			if step.Sync.To == step.Site {
				return fmt.Errorf("flow[%d].sync: cannot sync a site to itself", i)
			}
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], knownSite); err != nil {
			return err
		}
	}
	return nil
}

func validateObjectRef(entity, object, key string) error {
	if entity != string(provider.EntityPost) && entity != string(provider.EntityTerm) {
		return fmt.Errorf("entity must be post or term, got %q", entity)
	}
	if object == "" {
		return fmt.Errorf("object is required")
	}
	if key == "" {
		return fmt.Errorf("key is required")
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, knownSite func(string) bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEventCount, AssertEventRecorded, AssertMetaEquals, AssertMetaAbsent:
		if !knownSite(a.Site) {
			return fmt.Errorf("assertions[%d]: unknown site %q", index, a.Site)
		}
	}

	switch a.Type {
	case AssertEventCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertEventRecorded:
		if a.Slug == "" {
			return fmt.Errorf("assertions[%d]: slug is required for event_recorded", index)
		}
	case AssertMetaEquals, AssertMetaAbsent:
		if err := validateObjectRef(a.Entity, a.Object, a.Key); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Type == AssertMetaEquals && a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for meta_equals", index)
		}
	case AssertResponseStatus:
		if a.Status == "" {
			return fmt.Errorf("assertions[%d]: status is required for response_status", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
