package event

import "github.com/instawp/twowaysync-sample/internal/metaval"

// Inbound is a sync event delivered by the host from the linked site.
type Inbound struct {
	ID          string
	EventSlug   Slug
	EventName   string
	EventType   string
	ReferenceID string
	SourceID    string
	Details     metaval.Object
}

// Reference returns the cross-site reference id of the entity the event is
// about. SourceID is the current field name; ReferenceID is accepted from
// older senders.
func (ev Inbound) Reference() string {
	if ev.SourceID != "" {
		return ev.SourceID
	}
	return ev.ReferenceID
}

// Response statuses.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Response is the acknowledgement returned to the host for an inbound event.
type Response struct {
	EventID string         `json:"id"`
	Slug    Slug           `json:"event_slug"`
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    metaval.Object `json:"data,omitempty"`
}

// PendingResponse is the response the host starts a dispatch with. It is
// returned unchanged when no provider claims the event.
func PendingResponse(ev Inbound) *Response {
	return &Response{
		EventID: ev.ID,
		Slug:    ev.EventSlug,
		Status:  StatusPending,
		Message: "no provider handled this event",
	}
}
