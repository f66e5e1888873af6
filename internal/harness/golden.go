package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/instawp/twowaysync-sample/internal/metaval"
)

// TraceSnapshot captures the trace of a scenario execution.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
}

// object converts the snapshot to a value tree for canonical encoding.
// Fields that do not apply to an event type are omitted.
func (s *TraceSnapshot) object() metaval.Object {
	trace := make(metaval.Array, len(s.Trace))
	for i, ev := range s.Trace {
		obj := metaval.Object{
			"type":     metaval.String(ev.Type),
			"site":     metaval.String(ev.Site),
			"event_id": metaval.String(ev.EventID),
			"slug":     metaval.String(ev.Slug),
		}
		if ev.Type == TraceRecorded {
			obj["seq"] = metaval.Int(ev.Seq)
			obj["title"] = metaval.String(ev.Title)
			obj["reference_id"] = metaval.String(ev.ReferenceID)
		} else {
			obj["status"] = metaval.String(ev.Status)
			obj["message"] = metaval.String(ev.Message)
		}
		trace[i] = obj
	}
	return metaval.Object{
		"scenario_name": metaval.String(s.ScenarioName),
		"trace":         trace,
	}
}

// SnapshotJSON returns the canonical JSON golden form of a result's trace.
func SnapshotJSON(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TraceSnapshot{ScenarioName: scenarioName, Trace: result.Trace}
	data, err := metaval.MarshalCanonical(snapshot.object())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trace: %w", err)
	}
	return data, nil
}

// RunWithGolden executes a scenario and compares the trace against a golden
// file in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares a result's trace against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
