package notification

import (
	"context"
	"fmt"

	providerRepo "fundilink/database/repository/provider"
	"fundilink/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService delivers push alerts to fundi devices.
type NotificationService interface {
	NotifyFundi(ctx context.Context, fundiID, title, body string, data map[string]string) error
}

// FCMNotificationService implements NotificationService over Firebase Cloud
// Messaging, resolving the device token from the provider record.
type FCMNotificationService struct {
	ProviderRepo providerRepo.ProviderRepository
	Logger       *zap.Logger
}

func (s *FCMNotificationService) NotifyFundi(ctx context.Context, fundiID, title, body string, data map[string]string) error {
	client := utils.FCMClient
	if client == nil {
		return fmt.Errorf("fcm client not initialized")
	}

	prov, err := s.ProviderRepo.GetByID(fundiID)
	if err != nil {
		return fmt.Errorf("failed to resolve fundi for notification: %w", err)
	}
	if prov.FCMToken == "" {
		s.Logger.Debug("fundi has no device token, skipping push", zap.String("fundiId", fundiID))
		return nil
	}

	msg := &messaging.Message{
		Token: prov.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}
	if _, err := client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send failed: %w", err)
	}
	s.Logger.Info("push sent", zap.String("fundiId", fundiID), zap.String("title", title))
	return nil
}

// NoopNotificationService discards notifications. Used in tests and when
// Firebase credentials are absent.
type NoopNotificationService struct{}

func (NoopNotificationService) NotifyFundi(context.Context, string, string, string, map[string]string) error {
	return nil
}
