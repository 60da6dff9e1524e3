package providerRepo

import (
	"fundilink/models"
)

// EligibilityCriteria narrows a matching query to fundis that may receive leads.
type EligibilityCriteria struct {
	ServiceCategory string
	Location        string
	Limit           int64
}

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(id string) (*models.Provider, error)
	// GetByPhone retrieves a provider by phone number.
	GetByPhone(phone string) (*models.Provider, error)
	// GetByEmail retrieves a provider by its email address.
	GetByEmail(email string) (*models.Provider, error)
	// Create inserts a new provider record.
	Create(provider *models.Provider) error
	// Update modifies an existing provider record.
	Update(provider *models.Provider) error
	// Delete removes a provider record by its ID.
	Delete(id string) error
	// FindEligible returns verified fundis offering the category whose
	// subscription status permits receiving leads (active or free).
	FindEligible(criteria EligibilityCriteria) ([]models.Provider, error)
	// UpdateSubscription patches only the subscription snapshot.
	UpdateSubscription(id string, sub models.SubscriptionInfo) error
}
