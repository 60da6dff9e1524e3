package conversation

import (
	"context"
	"encoding/json"
	"fmt"

	"fundilink/models"

	"go.uber.org/zap"
)

// IntentClassifier maps raw message text plus conversation context to one of
// the fixed intents.
type IntentClassifier interface {
	Classify(ctx context.Context, text string, convCtx *models.ConversationContext) models.IntentResult
}

// LLMIntentClassifier implements IntentClassifier over an LLM call with a
// deterministic fallback: any model failure or unparsable output degrades to
// the general intent instead of surfacing an error.
type LLMIntentClassifier struct {
	LLM    LLMClient
	Logger *zap.Logger
}

func fallbackIntent() models.IntentResult {
	return models.IntentResult{Type: models.IntentGeneral, Confidence: 0.5}
}

const classifyPromptTemplate = `You are the intent classifier for a home-services booking assistant in Kenya.
Classify the client's message into exactly one intent.

Intents:
- booking_request: the client wants to book a service (plumber, electrician, cleaner, etc.)
- reschedule: the client wants to change the date or time of an existing booking
- cancellation: the client wants to cancel an existing booking
- status_inquiry: the client asks about the status of an existing booking
- confirmation: the client is confirming a choice, typically a number picking from a list, or agreeing (yes/sawa/ndio)
- clarification_needed: the client is supplying details previously asked for
- multi_service: the client asks for more than one distinct service in one message
- general: greetings, questions about the service, or anything else

Conversation state:
- stage: %s
- pending booking details: %s
- candidates on offer: %d

Client message: %q

Reply with ONLY a JSON object: {"type": "<intent>", "confidence": <0..1>}`

func (c *LLMIntentClassifier) Classify(ctx context.Context, text string, convCtx *models.ConversationContext) models.IntentResult {
	draft, _ := json.Marshal(convCtx.Draft)
	prompt := fmt.Sprintf(classifyPromptTemplate,
		convCtx.Stage, string(draft), len(convCtx.Candidates), text)

	raw, err := c.LLM.GenerateJSON(ctx, prompt)
	if err != nil {
		c.Logger.Warn("intent classification call failed, using fallback", zap.Error(err))
		return fallbackIntent()
	}

	raw = stripCodeFence(raw)
	if err := validateAgainst(intentSchema, raw); err != nil {
		c.Logger.Warn("intent output rejected by schema, using fallback",
			zap.String("raw", raw), zap.Error(err))
		return fallbackIntent()
	}

	var result models.IntentResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.Logger.Warn("intent output unparsable, using fallback", zap.Error(err))
		return fallbackIntent()
	}
	if !result.Type.Valid() {
		return fallbackIntent()
	}
	return result
}
