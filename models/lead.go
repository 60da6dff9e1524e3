package models

import "time"

// Lead status values.
const (
	LeadStatusNew       = "new"
	LeadStatusConverted = "converted"
)

// Lead records a fundi being surfaced to a prospective client. Unsubscribed
// fundis are billed per lead, so Charged marks the ones that count.
type Lead struct {
	ID              string    `bson:"id" json:"id"`
	FundiID         string    `bson:"fundiId" json:"fundiId"`
	ClientPhone     string    `bson:"clientPhone" json:"clientPhone"`
	ClientName      string    `bson:"clientName,omitempty" json:"clientName,omitempty"`
	ServiceCategory string    `bson:"serviceCategory" json:"serviceCategory"`
	Location        string    `bson:"location,omitempty" json:"location,omitempty"`
	Source          string    `bson:"source" json:"source"` // e.g. "whatsapp", "web"
	Status          string    `bson:"status" json:"status"`
	Charged         bool      `bson:"charged" json:"charged"`
	BookingID       string    `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// LeadRequest is the input for recording a lead, whether from the orchestrator
// or the public lead endpoint.
type LeadRequest struct {
	FundiID         string `json:"fundiId" binding:"required"`
	ClientPhone     string `json:"clientPhone" binding:"required"`
	ClientName      string `json:"clientName"`
	ServiceCategory string `json:"serviceCategory" binding:"required"`
	Location        string `json:"location"`
	Source          string `json:"leadSource"`
}
