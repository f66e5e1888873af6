package harness

// Trace event types.
const (
	TraceRecorded = "recorded" // outbound event logged by a site
	TraceResponse = "response" // acknowledgement for an applied inbound event
)

// TraceEvent is one entry in a scenario trace.
type TraceEvent struct {
	Type        string `json:"type"`
	Site        string `json:"site"`
	Seq         int64  `json:"seq,omitempty"` // recorded only
	EventID     string `json:"event_id"`
	Slug        string `json:"slug"`
	Title       string `json:"title,omitempty"`        // recorded only
	ReferenceID string `json:"reference_id,omitempty"` // recorded only
	Status      string `json:"status,omitempty"`       // response only
	Message     string `json:"message,omitempty"`      // response only
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every assertion held.
	Pass bool `json:"pass"`

	// Trace holds recorded events and inbound responses in execution order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddRecordedTrace appends an outbound event logged by site.
func (r *Result) AddRecordedTrace(site string, seq int64, eventID, slug, title, referenceID string) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:        TraceRecorded,
		Site:        site,
		Seq:         seq,
		EventID:     eventID,
		Slug:        slug,
		Title:       title,
		ReferenceID: referenceID,
	})
}

// AddResponseTrace appends the response site returned for an inbound event.
func (r *Result) AddResponseTrace(site, eventID, slug, status, message string) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:    TraceResponse,
		Site:    site,
		EventID: eventID,
		Slug:    slug,
		Status:  status,
		Message: message,
	})
}
