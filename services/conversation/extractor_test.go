package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newExtractor(llm LLMClient) *LLMFieldExtractor {
	return &LLMFieldExtractor{
		LLM:    llm,
		Logger: zap.NewNop(),
		Now:    func() time.Time { return fixedNow },
	}
}

func TestExtractCompleteRequest(t *testing.T) {
	// "I need a plumber tomorrow at 10am in Westlands"
	llm := &stubLLM{reply: `{"service": "plumber", "date": "tomorrow", "time": "10am", "location": "Westlands"}`}
	ex, err := newExtractor(llm).Extract(context.Background(), "I need a plumber tomorrow at 10am in Westlands")
	require.NoError(t, err)

	assert.Equal(t, "plumber", ex.Service)
	assert.Equal(t, "2026-03-11", ex.Date)
	assert.Equal(t, "10:00", ex.Time)
	assert.Equal(t, "Westlands", ex.Location)
	assert.True(t, ex.IsComplete)
	assert.Empty(t, ex.Missing)
}

func TestExtractPartialRequest(t *testing.T) {
	llm := &stubLLM{reply: `{"service": "electrician", "date": null, "time": null, "location": null}`}
	ex, err := newExtractor(llm).Extract(context.Background(), "I need an electrician")
	require.NoError(t, err)

	assert.Equal(t, "electrician", ex.Service)
	assert.False(t, ex.IsComplete)
	assert.ElementsMatch(t, []string{"date", "time", "location"}, ex.Missing)
}

func TestExtractUnresolvableDateStaysMissing(t *testing.T) {
	llm := &stubLLM{reply: `{"service": "cleaner", "date": "whenever", "time": "morning", "location": "Kilimani"}`}
	ex, err := newExtractor(llm).Extract(context.Background(), "cleaner whenever in the morning, Kilimani")
	require.NoError(t, err)

	assert.Equal(t, "09:00", ex.Time)
	assert.False(t, ex.IsComplete)
	assert.Contains(t, ex.Missing, "date")
}

func TestExtractModelErrorPropagates(t *testing.T) {
	llm := &stubLLM{err: errors.New("model unavailable")}
	_, err := newExtractor(llm).Extract(context.Background(), "I need a plumber")
	assert.Error(t, err)
}

func TestExtractRejectsNonObjectOutput(t *testing.T) {
	llm := &stubLLM{reply: `["plumber", "tomorrow"]`}
	_, err := newExtractor(llm).Extract(context.Background(), "I need a plumber")
	assert.Error(t, err)
}
