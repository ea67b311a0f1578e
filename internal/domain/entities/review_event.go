package entities

import "time"

// ReviewEventType identifies what happened.
type ReviewEventType string

const (
	ReviewEventStateSubmitted  ReviewEventType = "state_review.submitted"
	ReviewEventAgencySubmitted ReviewEventType = "agency_review.submitted"
)

// ReviewEvent is published on the event bus when a review is accepted, so
// listeners (live scoreboards, cache warmers) can react without polling.
// Publication is best-effort; submissions never fail on a publish error.
type ReviewEvent struct {
	ID        string          `json:"id"`
	Type      ReviewEventType `json:"type"`
	Subject   string          `json:"subject"` // state name or agency slug
	Rating    float64         `json:"rating"`
	Timestamp time.Time       `json:"timestamp"`
}
