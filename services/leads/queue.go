package leads

import (
	"encoding/json"
	"fmt"

	"fundilink/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeLeadRecord is the asynq task type for fire-and-forget lead recording.
const TypeLeadRecord = "lead:record"

// LeadQueue decouples the orchestrator from lead persistence: one task is
// enqueued per surfaced candidate and a worker does the actual recording.
type LeadQueue interface {
	EnqueueLead(req models.LeadRequest) error
}

// AsynqLeadQueue implements LeadQueue on an asynq client.
type AsynqLeadQueue struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func (q *AsynqLeadQueue) EnqueueLead(req models.LeadRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal lead task: %w", err)
	}
	task := asynq.NewTask(TypeLeadRecord, payload, asynq.MaxRetry(3))
	if _, err := q.Client.Enqueue(task); err != nil {
		return fmt.Errorf("failed to enqueue lead task: %w", err)
	}
	q.Logger.Debug("lead task enqueued", zap.String("fundiId", req.FundiID))
	return nil
}

// SyncLeadQueue records leads inline. Used in tests and as a fallback when the
// queue is unavailable.
type SyncLeadQueue struct {
	Service LeadService
}

func (q *SyncLeadQueue) EnqueueLead(req models.LeadRequest) error {
	_, err := q.Service.RecordLead(req)
	return err
}
