package subscription

import (
	"context"
	"fmt"
	"time"

	providerRepo "fundilink/database/repository/provider"
	subscriptionRepo "fundilink/database/repository/subscription"
	"fundilink/models"
	"fundilink/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubscriptionService manages plan purchases and activation for fundis.
type SubscriptionService interface {
	GetPlans() ([]models.SubscriptionPlan, error)
	// InitiateMpesaCheckout starts an STK push for a plan and records the
	// pending checkout keyed by the gateway's checkout request ID.
	InitiateMpesaCheckout(ctx context.Context, providerID, planID, phone string) (*models.STKPushResult, error)
	// HandleMpesaCallback resolves a pending checkout from the gateway
	// confirmation and activates the plan on success.
	HandleMpesaCallback(ctx context.Context, cb models.MpesaCallback) error
	// CreateStripeIntent is the card alternative: returns a client secret for
	// the same plan purchase.
	CreateStripeIntent(ctx context.Context, providerID, planID string) (string, error)
	// Status reports whether the fundi is currently monetized.
	Status(providerID string) (bool, *models.SubscriptionInfo, error)
}

// DefaultSubscriptionService implements SubscriptionService.
type DefaultSubscriptionService struct {
	Repo         subscriptionRepo.SubscriptionRepository
	ProviderRepo providerRepo.ProviderRepository
	Mpesa        payment.STKClient
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultSubscriptionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultSubscriptionService) GetPlans() ([]models.SubscriptionPlan, error) {
	return s.Repo.GetPlans()
}

func (s *DefaultSubscriptionService) InitiateMpesaCheckout(ctx context.Context, providerID, planID, phone string) (*models.STKPushResult, error) {
	plan, err := s.Repo.GetPlan(planID)
	if err != nil {
		return nil, fmt.Errorf("unknown plan: %w", err)
	}
	if _, err := s.ProviderRepo.GetByID(providerID); err != nil {
		return nil, fmt.Errorf("unknown provider: %w", err)
	}

	result, err := s.Mpesa.STKPush(ctx, phone, plan.PriceKES, "SUB-"+planID)
	if err != nil {
		return nil, fmt.Errorf("failed to initiate payment: %w", err)
	}

	checkout := &models.SubscriptionCheckout{
		Reference:  result.CheckoutRequestID,
		ProviderID: providerID,
		PlanID:     planID,
		Method:     "mpesa",
		Amount:     plan.PriceKES,
		Status:     "pending",
		CreatedAt:  s.now(),
		UpdatedAt:  s.now(),
	}
	if err := s.Repo.CreateCheckout(checkout); err != nil {
		return nil, fmt.Errorf("failed to record checkout: %w", err)
	}

	// Background poll so activation still happens if the callback is lost.
	go s.pollAndSettle(result.CheckoutRequestID)

	return result, nil
}

// pollAndSettle runs the bounded status poll and settles the checkout when the
// gateway resolves before the callback arrives.
func (s *DefaultSubscriptionService) pollAndSettle(checkoutRequestID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	outcome := payment.PollStatus(ctx, s.Mpesa, checkoutRequestID)
	switch outcome {
	case models.PaymentOutcomePaid:
		if err := s.settle(checkoutRequestID, true); err != nil {
			s.Logger.Error("failed to settle paid checkout",
				zap.String("reference", checkoutRequestID), zap.Error(err))
		}
	case models.PaymentOutcomeFailed:
		if err := s.settle(checkoutRequestID, false); err != nil {
			s.Logger.Error("failed to settle failed checkout",
				zap.String("reference", checkoutRequestID), zap.Error(err))
		}
	case models.PaymentOutcomeTimeout:
		s.Logger.Warn("payment status poll timed out, waiting for callback",
			zap.String("reference", checkoutRequestID))
	}
}

func (s *DefaultSubscriptionService) HandleMpesaCallback(ctx context.Context, cb models.MpesaCallback) error {
	ref := cb.Body.StkCallback.CheckoutRequestID
	if ref == "" {
		return fmt.Errorf("callback missing checkout request ID")
	}
	return s.settle(ref, cb.Body.StkCallback.ResultCode == 0)
}

// settle finalises a checkout exactly once; a checkout already out of pending
// is left untouched so the poller and the callback cannot double-activate.
func (s *DefaultSubscriptionService) settle(reference string, paid bool) error {
	checkout, err := s.Repo.GetCheckout(reference)
	if err != nil {
		return fmt.Errorf("checkout lookup failed: %w", err)
	}
	if checkout.Status != "pending" {
		return nil
	}

	if !paid {
		return s.Repo.UpdateCheckoutStatus(reference, "failed")
	}

	if err := s.activate(checkout.ProviderID, checkout.PlanID); err != nil {
		return err
	}
	return s.Repo.UpdateCheckoutStatus(reference, "paid")
}

func (s *DefaultSubscriptionService) activate(providerID, planID string) error {
	plan, err := s.Repo.GetPlan(planID)
	if err != nil {
		return fmt.Errorf("unknown plan: %w", err)
	}

	sub := models.SubscriptionInfo{
		Status:    models.SubscriptionActive,
		Plan:      plan,
		ExpiresAt: s.now().AddDate(0, 0, plan.DurationDays),
	}
	if err := s.ProviderRepo.UpdateSubscription(providerID, sub); err != nil {
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	s.Logger.Info("subscription activated",
		zap.String("providerId", providerID), zap.String("planId", planID))
	return nil
}

func (s *DefaultSubscriptionService) Status(providerID string) (bool, *models.SubscriptionInfo, error) {
	prov, err := s.ProviderRepo.GetByID(providerID)
	if err != nil {
		return false, nil, err
	}
	return IsMonetized(prov, s.now()), &prov.Subscription, nil
}

// NewCheckoutReference generates a reference for non-gateway checkouts.
func NewCheckoutReference() string {
	return "chk_" + uuid.New().String()
}
