package conversation

import (
	"context"
	"errors"
	"testing"

	"fundilink/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func classify(t *testing.T, llm LLMClient, text string) models.IntentResult {
	t.Helper()
	c := &LLMIntentClassifier{LLM: llm, Logger: zap.NewNop()}
	return c.Classify(context.Background(), text, &models.ConversationContext{
		Phone: "254700000001",
		Stage: models.StageInitial,
	})
}

func TestClassifyValidOutput(t *testing.T) {
	llm := &stubLLM{reply: `{"type": "booking_request", "confidence": 0.93}`}
	result := classify(t, llm, "I need a plumber")
	assert.Equal(t, models.IntentBookingRequest, result.Type)
	assert.InDelta(t, 0.93, result.Confidence, 0.001)
}

func TestClassifyStripsCodeFence(t *testing.T) {
	llm := &stubLLM{reply: "```json\n{\"type\": \"cancellation\", \"confidence\": 0.8}\n```"}
	result := classify(t, llm, "cancel my booking")
	assert.Equal(t, models.IntentCancellation, result.Type)
}

func TestClassifyFallbackOnModelError(t *testing.T) {
	llm := &stubLLM{err: errors.New("model unavailable")}
	result := classify(t, llm, "hello")
	assert.Equal(t, models.IntentGeneral, result.Type)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassifyFallbackOnMalformedJSON(t *testing.T) {
	llm := &stubLLM{reply: `sure! the intent is booking_request`}
	result := classify(t, llm, "I need a plumber")
	assert.Equal(t, models.IntentGeneral, result.Type)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassifyFallbackOnUnknownIntent(t *testing.T) {
	llm := &stubLLM{reply: `{"type": "world_domination", "confidence": 0.99}`}
	result := classify(t, llm, "??")
	assert.Equal(t, models.IntentGeneral, result.Type)
}

func TestClassifyFallbackOnOutOfRangeConfidence(t *testing.T) {
	llm := &stubLLM{reply: `{"type": "general", "confidence": 7}`}
	result := classify(t, llm, "hi")
	assert.Equal(t, models.IntentGeneral, result.Type)
	assert.Equal(t, 0.5, result.Confidence)
}
