package models

import "time"

// Booking status values.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Payment status values on a booking.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Booking is a committed job between a client and a fundi.
type Booking struct {
	ID              string    `bson:"id" json:"id"`
	ClientID        string    `bson:"clientId,omitempty" json:"clientId,omitempty"`
	ClientName      string    `bson:"clientName" json:"clientName"`
	ClientPhone     string    `bson:"clientPhone" json:"clientPhone"`
	FundiID         string    `bson:"fundiId" json:"fundiId"`
	FundiName       string    `bson:"fundiName" json:"fundiName"`
	ServiceCategory string    `bson:"serviceCategory" json:"serviceCategory"`
	Location        string    `bson:"location,omitempty" json:"location,omitempty"`
	Date            string    `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time            string    `bson:"time" json:"time"` // "HH:MM", 24h
	Status          string    `bson:"status" json:"status"`
	Description     string    `bson:"description,omitempty" json:"description,omitempty"`
	QuotedPrice     float64   `bson:"quotedPrice,omitempty" json:"quotedPrice,omitempty"`
	FinalPrice      float64   `bson:"finalPrice,omitempty" json:"finalPrice,omitempty"`
	PaymentStatus   string    `bson:"paymentStatus" json:"paymentStatus"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingRequest is the payload for the store-initiated booking endpoint,
// where the client already picked a fundi.
type BookingRequest struct {
	Name            string  `json:"name" binding:"required"`
	Phone           string  `json:"phone" binding:"required"`
	Location        string  `json:"location"`
	ServiceCategory string  `json:"serviceCategory" binding:"required"`
	Date            string  `json:"date" binding:"required"`
	Time            string  `json:"time" binding:"required"`
	Description     string  `json:"description"`
	FundiID         string  `json:"fundiId" binding:"required"`
	QuotedPrice     float64 `json:"quotedPrice"`
}
