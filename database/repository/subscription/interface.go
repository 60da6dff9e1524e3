package subscriptionRepo

import (
	"fundilink/models"
)

// SubscriptionRepository defines data access for plans and pending checkouts.
type SubscriptionRepository interface {
	// GetPlans returns all purchasable plans.
	GetPlans() ([]models.SubscriptionPlan, error)
	// GetPlan retrieves one plan by ID.
	GetPlan(id string) (*models.SubscriptionPlan, error)
	// CreateCheckout records a pending plan purchase.
	CreateCheckout(c *models.SubscriptionCheckout) error
	// GetCheckout retrieves a checkout by its payment reference.
	GetCheckout(reference string) (*models.SubscriptionCheckout, error)
	// UpdateCheckoutStatus transitions a checkout's status.
	UpdateCheckoutStatus(reference, status string) error
}
