package conversation

import (
	"context"

	"fundilink/models"
	"fundilink/services/booking"
	"fundilink/services/leads"
	"fundilink/services/matching"

	"go.uber.org/zap"
)

// ConversationService is the orchestrator behind the messaging webhook: one
// call per inbound message, always producing a reply.
type ConversationService interface {
	ProcessMessage(ctx context.Context, msg models.InboundMessage) string
}

// DefaultConversationService implements ConversationService.
type DefaultConversationService struct {
	Store      ContextStore
	Classifier IntentClassifier
	Extractor  FieldExtractor
	Matcher    matching.MatchingService
	Leads      leads.LeadQueue
	Bookings   booking.BookingService
	Logger     *zap.Logger
}

// ProcessMessage runs one turn of the conversation. Nothing here propagates an
// error to the webhook: every branch, including infrastructure failures,
// resolves to composed reply text.
func (s *DefaultConversationService) ProcessMessage(ctx context.Context, msg models.InboundMessage) string {
	convCtx, err := s.Store.Get(ctx, msg.SenderID)
	if err != nil {
		s.Logger.Error("context load failed", zap.String("phone", msg.SenderID), zap.Error(err))
		return composeGenericError()
	}
	if convCtx == nil {
		convCtx = &models.ConversationContext{
			Phone: msg.SenderID,
			Stage: models.StageInitial,
		}
	}
	if msg.SenderName != "" {
		convCtx.ProfileName = msg.SenderName
	}

	reply := s.dispatch(ctx, msg.Text, convCtx)
	convCtx.LastMessage = msg.Text

	if err := s.Store.CompareAndSwap(ctx, convCtx); err != nil {
		// A concurrent turn won the write. The other writer's state stands;
		// confirmation against a cleared context fails gracefully next turn.
		s.Logger.Warn("context write conflict, dropping update",
			zap.String("phone", msg.SenderID), zap.Error(err))
	}
	return reply
}

func (s *DefaultConversationService) dispatch(ctx context.Context, text string, convCtx *models.ConversationContext) string {
	// A bare number during fundi selection is always a pick; no model call
	// needed to see that.
	if convCtx.Stage == models.StageFundiSelection {
		if _, ok := parseSelection(text); ok {
			return s.confirmSelection(ctx, text, convCtx)
		}
	}

	result := s.Classifier.Classify(ctx, text, convCtx)
	s.Logger.Debug("intent classified",
		zap.String("phone", convCtx.Phone),
		zap.String("intent", string(result.Type)),
		zap.Float64("confidence", result.Confidence),
		zap.String("stage", string(convCtx.Stage)))

	switch result.Type {
	case models.IntentBookingRequest:
		return s.handleBookingRequest(ctx, text, convCtx)
	case models.IntentClarificationNeeded:
		if convCtx.Stage == models.StageAwaitingClarification {
			return s.handleClarification(ctx, text, convCtx)
		}
		return s.handleBookingRequest(ctx, text, convCtx)
	case models.IntentConfirmation:
		return s.handleConfirmation(ctx, text, convCtx)
	case models.IntentCancellation:
		if convCtx.Stage == models.StageCancellationConfirmation {
			return s.resolveCancellation(convCtx, text)
		}
		return s.handleCancellation(convCtx)
	case models.IntentStatusInquiry:
		return s.handleStatusInquiry(convCtx)
	case models.IntentReschedule:
		return composeReschedule()
	case models.IntentMultiService:
		return composeMultiService()
	case models.IntentGeneral:
		// Mid-flow details often classify as general; keep the flow moving.
		if convCtx.Stage == models.StageAwaitingClarification {
			return s.handleClarification(ctx, text, convCtx)
		}
		return s.handleGeneral(convCtx)
	default:
		return s.handleGeneral(convCtx)
	}
}
