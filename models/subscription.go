package models

import "time"

// SubscriptionPlan is a purchasable tier for fundis.
type SubscriptionPlan struct {
	ID              string  `bson:"id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	PriceKES        float64 `bson:"priceKes" json:"priceKes"`
	DurationDays    int     `bson:"durationDays" json:"durationDays"`
	PriorityListing bool    `bson:"priorityListing" json:"priorityListing"`
}

// SubscriptionCheckout tracks a pending plan purchase until the payment
// gateway confirms or rejects it.
type SubscriptionCheckout struct {
	Reference  string    `bson:"reference" json:"reference"` // payment reference / checkout request ID
	ProviderID string    `bson:"providerId" json:"providerId"`
	PlanID     string    `bson:"planId" json:"planId"`
	Method     string    `bson:"method" json:"method"` // "mpesa" or "card"
	Amount     float64   `bson:"amount" json:"amount"`
	Status     string    `bson:"status" json:"status"` // pending | paid | failed | timeout
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}
