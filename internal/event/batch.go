package event

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/instawp/twowaysync-sample/internal/metaval"
)

//go:embed schema.cue
var schemaSource string

// batchFile is the on-disk layout of an inbound batch.
type batchFile struct {
	Events []batchEvent `yaml:"events"`
}

type batchEvent struct {
	ID          string         `yaml:"id,omitempty"`
	EventSlug   string         `yaml:"event_slug"`
	EventName   string         `yaml:"event_name,omitempty"`
	EventType   string         `yaml:"event_type,omitempty"`
	ReferenceID string         `yaml:"reference_id,omitempty"`
	SourceID    string         `yaml:"source_id,omitempty"`
	Details     map[string]any `yaml:"details"`
}

// ValidationError reports a batch that does not satisfy the schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid inbound batch: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LoadInbound reads and validates an inbound batch file.
func LoadInbound(path string) ([]Inbound, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return ParseInbound(data)
}

// ParseInbound decodes a YAML batch, rejecting unknown fields, and
// validates it against the embedded schema.
func ParseInbound(data []byte) ([]Inbound, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ValidateInbound(raw); err != nil {
		return nil, err
	}

	var file batchFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	events := make([]Inbound, 0, len(file.Events))
	for i, be := range file.Events {
		ev, err := be.inbound()
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// ValidateInbound checks decoded batch data against the embedded schema.
func ValidateInbound(raw any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile batch schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Batch")).Unify(ctx.Encode(raw))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func (be batchEvent) inbound() (Inbound, error) {
	details := metaval.Object{}
	if be.Details != nil {
		v, err := metaval.FromAny(be.Details)
		if err != nil {
			return Inbound{}, fmt.Errorf("details: %w", err)
		}
		details = v.(metaval.Object)
	}

	// Hand-written batches may carry unserialized scalars.
	if mv, ok := details[DataMetaValue]; ok {
		if _, isString := mv.(metaval.String); !isString {
			s, err := metaval.Serialize(mv)
			if err != nil {
				return Inbound{}, fmt.Errorf("details.meta_value: %w", err)
			}
			details[DataMetaValue] = metaval.String(s)
		}
	}

	return Inbound{
		ID:          be.ID,
		EventSlug:   Slug(be.EventSlug),
		EventName:   be.EventName,
		EventType:   be.EventType,
		ReferenceID: be.ReferenceID,
		SourceID:    be.SourceID,
		Details:     details,
	}, nil
}

// MarshalBatch encodes events as a YAML batch readable by ParseInbound.
func MarshalBatch(events []Inbound) ([]byte, error) {
	file := batchFile{Events: make([]batchEvent, 0, len(events))}
	for _, ev := range events {
		details, _ := metaval.ToAny(ev.Details).(map[string]any)
		if details == nil {
			details = map[string]any{}
		}
		file.Events = append(file.Events, batchEvent{
			ID:          ev.ID,
			EventSlug:   string(ev.EventSlug),
			EventName:   ev.EventName,
			EventType:   ev.EventType,
			ReferenceID: ev.ReferenceID,
			SourceID:    ev.SourceID,
			Details:     details,
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}
	return buf.Bytes(), nil
}
