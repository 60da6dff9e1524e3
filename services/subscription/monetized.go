package subscription

import (
	"time"

	"fundilink/models"
)

// IsMonetized reports whether the fundi currently holds an active, unexpired
// subscription. This is the single billing predicate: the lead tracker uses it
// to decide per-lead charging, and the checkout flow uses it to report status.
func IsMonetized(p *models.Provider, now time.Time) bool {
	if p == nil {
		return false
	}
	if p.Subscription.Status != models.SubscriptionActive {
		return false
	}
	if p.Subscription.ExpiresAt.IsZero() {
		return false
	}
	return p.Subscription.ExpiresAt.After(now)
}
