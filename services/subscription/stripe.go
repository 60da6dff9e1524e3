package subscription

import (
	"context"
	"fmt"

	"fundilink/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// CreateStripeIntent creates a card payment intent for the plan price and
// records a pending checkout keyed by the intent ID. The Stripe webhook (or a
// manual confirmation) settles it through the same path as M-Pesa.
func (s *DefaultSubscriptionService) CreateStripeIntent(ctx context.Context, providerID, planID string) (string, error) {
	plan, err := s.Repo.GetPlan(planID)
	if err != nil {
		return "", fmt.Errorf("unknown plan: %w", err)
	}
	if _, err := s.ProviderRepo.GetByID(providerID); err != nil {
		return "", fmt.Errorf("unknown provider: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		// Stripe amounts are in the smallest currency unit.
		Amount:   stripe.Int64(int64(plan.PriceKES * 100)),
		Currency: stripe.String(string(stripe.CurrencyKES)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"providerId": providerID,
			"planId":     planID,
		},
	}
	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	checkout := &models.SubscriptionCheckout{
		Reference:  intent.ID,
		ProviderID: providerID,
		PlanID:     planID,
		Method:     "card",
		Amount:     plan.PriceKES,
		Status:     "pending",
		CreatedAt:  s.now(),
		UpdatedAt:  s.now(),
	}
	if err := s.Repo.CreateCheckout(checkout); err != nil {
		return "", fmt.Errorf("failed to record checkout: %w", err)
	}

	return intent.ClientSecret, nil
}

// SettleStripePayment resolves a card checkout, typically from the Stripe
// webhook handler.
func (s *DefaultSubscriptionService) SettleStripePayment(intentID string, succeeded bool) error {
	return s.settle(intentID, succeeded)
}
