package models

import "time"

// Stage is the position of a sender's conversation within the booking flow.
type Stage string

const (
	StageInitial                  Stage = "initial"
	StageAwaitingClarification    Stage = "awaiting_clarification"
	StageFundiSelection           Stage = "fundi_selection"
	StageCancellationConfirmation Stage = "cancellation_confirmation"
)

// BookingDraft holds the partially extracted booking fields accumulated over
// one or more turns.
type BookingDraft struct {
	ServiceCategory string   `json:"serviceCategory,omitempty"`
	Date            string   `json:"date,omitempty"` // "YYYY-MM-DD"
	Time            string   `json:"time,omitempty"` // "HH:MM"
	Location        string   `json:"location,omitempty"`
	Description     string   `json:"description,omitempty"`
	Missing         []string `json:"missing,omitempty"`
}

// CandidateFundi is a snapshot of one shortlist entry as it was shown to the
// client. Confirmation resolves purely by position, so the stored order must
// match the presented order.
type CandidateFundi struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Rating          float64 `json:"rating"`
	Location        string  `json:"location,omitempty"`
	PriorityListing bool    `json:"priorityListing,omitempty"`
}

// ConversationContext is the per-sender dialog state, keyed by phone number.
type ConversationContext struct {
	Phone       string           `json:"phone"`
	ProfileName string           `json:"profileName,omitempty"`
	Stage       Stage            `json:"stage"`
	Draft       BookingDraft     `json:"draft"`
	Candidates  []CandidateFundi `json:"candidates,omitempty"`
	LastMessage string           `json:"lastMessage,omitempty"`
	// PendingCancelID is the booking awaiting a yes/no cancellation reply.
	PendingCancelID string `json:"pendingCancelId,omitempty"`
	// Version supports optimistic compare-and-swap in the context store.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Reset returns the context to the initial stage, dropping any draft and
// shortlist but keeping the sender key.
func (c *ConversationContext) Reset() {
	c.Stage = StageInitial
	c.Draft = BookingDraft{}
	c.Candidates = nil
	c.PendingCancelID = ""
}
