package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"fundilink/models"

	"go.uber.org/zap"
)

// FieldExtractor pulls structured booking fields out of a free-text message.
type FieldExtractor interface {
	Extract(ctx context.Context, text string) (models.Extraction, error)
}

// LLMFieldExtractor implements FieldExtractor over an LLM call. The model
// returns raw field values; normalisation and completeness are computed here
// so the flow never depends on the model formatting dates correctly.
type LLMFieldExtractor struct {
	LLM    LLMClient
	Logger *zap.Logger
	Now    func() time.Time
}

func (e *LLMFieldExtractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

const extractPromptTemplate = `Extract booking details from this home-services request.
Known service categories include: plumber, electrician, cleaner, painter, carpenter,
mason, mechanic, gardener, welder, movers. Use the closest match, or the client's
own wording if none fits.

Client message: %q

Reply with ONLY a JSON object, using null for anything not mentioned:
{"service": <string|null>, "date": <string|null>, "time": <string|null>, "location": <string|null>}
Leave date and time exactly as the client phrased them (e.g. "tomorrow", "10am").`

type rawExtraction struct {
	Service  *string `json:"service"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Location *string `json:"location"`
}

func (e *LLMFieldExtractor) Extract(ctx context.Context, text string) (models.Extraction, error) {
	prompt := fmt.Sprintf(extractPromptTemplate, text)

	raw, err := e.LLM.GenerateJSON(ctx, prompt)
	if err != nil {
		return models.Extraction{}, fmt.Errorf("extraction call failed: %w", err)
	}

	raw = stripCodeFence(raw)
	if err := validateAgainst(extractionSchema, raw); err != nil {
		return models.Extraction{}, err
	}

	var fields rawExtraction
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return models.Extraction{}, fmt.Errorf("extraction output unparsable: %w", err)
	}

	out := models.Extraction{
		Service:  deref(fields.Service),
		Location: deref(fields.Location),
	}
	out.Service = strings.ToLower(strings.TrimSpace(out.Service))
	out.Location = strings.TrimSpace(out.Location)
	out.Date = NormalizeDate(deref(fields.Date), e.now())
	out.Time = NormalizeTime(deref(fields.Time))

	Finalize(&out)
	return out, nil
}

// Finalize recomputes the missing-field list and completeness flag from the
// populated fields. Shared by the extractor and the clarification merge path.
func Finalize(ex *models.Extraction) {
	ex.Missing = nil
	if ex.Service == "" {
		ex.Missing = append(ex.Missing, "service")
	}
	if ex.Date == "" {
		ex.Missing = append(ex.Missing, "date")
	}
	if ex.Time == "" {
		ex.Missing = append(ex.Missing, "time")
	}
	if ex.Location == "" {
		ex.Missing = append(ex.Missing, "location")
	}
	ex.IsComplete = len(ex.Missing) == 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
