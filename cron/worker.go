package cron

import (
	"context"
	"encoding/json"
	"time"

	"fundilink/config"
	"fundilink/models"
	"fundilink/services/leads"
	"fundilink/services/notification"
	"fundilink/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeReminderSend is the asynq task type for booking reminders.
const TypeReminderSend = "reminder:send"

// InitWorker starts the background asynq worker handling lead recording and
// booking reminders. Runs in its own goroutines; the caller does not block.
func InitWorker(leadSvc leads.LeadService, notifSvc notification.NotificationService) {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(leads.TypeLeadRecord, handleLeadTask(leadSvc))
	mux.HandleFunc(TypeReminderSend, handleReminderTask(notifSvc))

	go func() {
		logger.Info("starting async worker")
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("async worker failed to start",
				zap.Int("attempt", attempt), zap.Error(err))
			if attempt == maxAttempts {
				logger.Fatal("async worker giving up")
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()
}

// handleLeadTask records a lead enqueued by the orchestrator. The lead service
// handles dedup, so a retried task cannot double-record.
func handleLeadTask(leadSvc leads.LeadService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var req models.LeadRequest
		if err := json.Unmarshal(task.Payload(), &req); err != nil {
			logger.Error("invalid lead task payload", zap.Error(err))
			return err
		}
		if _, err := leadSvc.RecordLead(req); err != nil {
			logger.Error("lead task failed",
				zap.String("fundiId", req.FundiID), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		data := map[string]string{"bookingId": p.BookingID}
		if err := notifSvc.NotifyFundi(ctx, p.Target, p.Title, p.Body, data); err != nil {
			logger.Error("reminder delivery failed",
				zap.String("bookingId", p.BookingID), zap.Error(err))
			return err
		}
		return nil
	}
}
