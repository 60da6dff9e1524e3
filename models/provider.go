package models

import "time"

// Subscription status values for a fundi.
const (
	SubscriptionFree      = "free"
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

type Security struct {
	Password     string `bson:"-" json:"password,omitempty"`
	PasswordHash string `bson:"passwordHash" json:"-"`
}

// SubscriptionInfo is the fundi's current subscription snapshot. Plan is
// denormalised onto the provider document so matching and lead billing never
// need a second lookup.
type SubscriptionInfo struct {
	Status    string            `bson:"status" json:"status"`
	Plan      *SubscriptionPlan `bson:"plan,omitempty" json:"plan,omitempty"`
	ExpiresAt time.Time         `bson:"expiresAt,omitzero" json:"expiresAt,omitzero"`
}

// Provider represents a fundi (service worker) on the marketplace.
type Provider struct {
	ID           string           `bson:"id" json:"id,omitempty"`
	Name         string           `bson:"name" json:"name"`
	Email        string           `bson:"email" json:"email,omitempty"`
	Phone        string           `bson:"phone" json:"phone"`
	Role         string           `bson:"role" json:"role"` // always "fundi" for matchable providers
	Categories   []string         `bson:"categories" json:"categories"`
	Location     string           `bson:"location" json:"location"`
	Rating       float64          `bson:"rating" json:"rating"` // 0 means unrated
	RatingCount  int              `bson:"ratingCount" json:"ratingCount,omitempty"`
	IsVerified   bool             `bson:"isVerified" json:"isVerified"`
	Subscription SubscriptionInfo `bson:"subscription" json:"subscription,omitzero"`
	Security     Security         `bson:"security" json:"security,omitzero"`
	FCMToken     string           `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	CreatedAt    time.Time        `bson:"createdAt" json:"createdAt,omitzero"`
	UpdatedAt    time.Time        `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// HasCategory reports whether the fundi offers the given service category.
func (p *Provider) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}
