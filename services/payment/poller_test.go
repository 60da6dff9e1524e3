package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"fundilink/models"

	"github.com/stretchr/testify/assert"
)

type scriptedSTKClient struct {
	outcomes []models.PaymentOutcome
	errs     []error
	calls    int
}

func (s *scriptedSTKClient) STKPush(ctx context.Context, phone string, amount float64, reference string) (*models.STKPushResult, error) {
	return nil, errors.New("not used")
}

func (s *scriptedSTKClient) QueryStatus(ctx context.Context, checkoutRequestID string) (models.PaymentOutcome, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	if i < len(s.outcomes) {
		return s.outcomes[i], nil
	}
	return "", errors.New("push still processing")
}

func TestPollStatusResolvesAfterRetries(t *testing.T) {
	pending := errors.New("push still processing")
	client := &scriptedSTKClient{
		errs:     []error{pending, pending, nil},
		outcomes: []models.PaymentOutcome{"", "", models.PaymentOutcomePaid},
	}

	outcome := pollStatus(context.Background(), client, "ws_CO_1", time.Millisecond, 12)
	assert.Equal(t, models.PaymentOutcomePaid, outcome)
	assert.Equal(t, 3, client.calls)
}

func TestPollStatusFailureIsTerminal(t *testing.T) {
	client := &scriptedSTKClient{
		outcomes: []models.PaymentOutcome{models.PaymentOutcomeFailed},
	}

	outcome := pollStatus(context.Background(), client, "ws_CO_1", time.Millisecond, 12)
	assert.Equal(t, models.PaymentOutcomeFailed, outcome)
	assert.Equal(t, 1, client.calls)
}

func TestPollStatusExhaustsAttemptBudget(t *testing.T) {
	client := &scriptedSTKClient{}

	outcome := pollStatus(context.Background(), client, "ws_CO_1", time.Millisecond, 4)
	assert.Equal(t, models.PaymentOutcomeTimeout, outcome)
	assert.Equal(t, 4, client.calls)
}

func TestPollStatusHonoursContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &scriptedSTKClient{}

	outcome := pollStatus(ctx, client, "ws_CO_1", time.Hour, 12)
	assert.Equal(t, models.PaymentOutcomeTimeout, outcome)
	assert.Equal(t, 0, client.calls)
}
