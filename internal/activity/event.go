// Package activity defines the application's activity event stream: every
// user-visible operation emits an event that is batched and fanned out to
// the configured sinks (log, metrics, journal, publisher).
package activity

import (
	"errors"
	"time"
)

// Type names one kind of activity event.
type Type string

// Supported activity event types.
const (
	TypeQueryProcessed           Type = "query_processed"
	TypeScrapeRequested          Type = "scrape_requested"
	TypeScrapeCompleted          Type = "scrape_completed"
	TypeScrapeFallback           Type = "scrape_fallback"
	TypeRecommendationsGenerated Type = "recommendations_generated"
	TypeFeedbackRecorded         Type = "feedback_recorded"
	TypeAnalysisCompleted        Type = "analysis_completed"
	TypeError                    Type = "error"
)

// Event captures one application activity milestone.
type Event struct {
	// TS is the UTC timestamp recorded by the emitter.
	TS time.Time `json:"ts"`
	// Type denotes which operation occurred.
	Type Type `json:"type"`
	// Fields carries low-volume context (keyword, counts, error text).
	Fields map[string]any `json:"fields,omitempty"`
}

// Validate performs coarse validation on Event payloads.
func (e Event) Validate() error {
	if e.TS.IsZero() {
		return errors.New("timestamp is required")
	}
	if e.Type == "" {
		return errors.New("event type is required")
	}
	return nil
}

// New builds an Event stamped with the current UTC time.
func New(t Type, fields map[string]any) Event {
	return Event{TS: time.Now().UTC(), Type: t, Fields: fields}
}
