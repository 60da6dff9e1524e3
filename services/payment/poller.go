package payment

import (
	"context"
	"time"

	"fundilink/models"
)

const (
	// PollInterval is the fixed wait between status queries.
	PollInterval = 5 * time.Second
	// PollMaxAttempts bounds the polling loop. 12 attempts at 5s covers the
	// window a client realistically has the STK prompt open.
	PollMaxAttempts = 12
)

// PollStatus repeatedly queries the gateway until the payment resolves or the
// attempt budget runs out. Timeout is a distinct terminal outcome, not a
// failure: the client may still complete the push and the callback will land.
func PollStatus(ctx context.Context, client STKClient, checkoutRequestID string) models.PaymentOutcome {
	return pollStatus(ctx, client, checkoutRequestID, PollInterval, PollMaxAttempts)
}

func pollStatus(ctx context.Context, client STKClient, checkoutRequestID string, interval time.Duration, maxAttempts int) models.PaymentOutcome {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return models.PaymentOutcomeTimeout
		case <-ticker.C:
		}

		outcome, err := client.QueryStatus(ctx, checkoutRequestID)
		if err != nil {
			// Still processing or transient gateway trouble; keep polling.
			continue
		}
		return outcome
	}
	return models.PaymentOutcomeTimeout
}
