package conversation

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"fundilink/models"
	"fundilink/services/booking"
	"fundilink/services/matching"

	"go.uber.org/zap"
)

// One handler per intent. Each takes the message and the mutable context and
// returns the reply text; the orchestrator persists the context afterwards.

func (s *DefaultConversationService) handleBookingRequest(ctx context.Context, text string, convCtx *models.ConversationContext) string {
	ex, err := s.Extractor.Extract(ctx, text)
	if err != nil {
		s.Logger.Warn("extraction failed, asking for clarification",
			zap.String("phone", convCtx.Phone), zap.Error(err))
		convCtx.Stage = models.StageAwaitingClarification
		return composeClarification(nil)
	}
	mergeExtraction(&convCtx.Draft, ex)
	return s.advanceDraft(ctx, convCtx)
}

// handleClarification merges newly supplied details into the existing draft
// instead of restarting the flow.
func (s *DefaultConversationService) handleClarification(ctx context.Context, text string, convCtx *models.ConversationContext) string {
	ex, err := s.Extractor.Extract(ctx, text)
	if err != nil {
		s.Logger.Warn("clarification extraction failed",
			zap.String("phone", convCtx.Phone), zap.Error(err))
		return composeClarification(convCtx.Draft.Missing)
	}
	mergeExtraction(&convCtx.Draft, ex)
	return s.advanceDraft(ctx, convCtx)
}

// advanceDraft routes a draft either to the shortlist or back to
// clarification, depending on completeness.
func (s *DefaultConversationService) advanceDraft(ctx context.Context, convCtx *models.ConversationContext) string {
	missing := draftMissing(convCtx.Draft)
	convCtx.Draft.Missing = missing
	if len(missing) > 0 {
		convCtx.Stage = models.StageAwaitingClarification
		return composeClarification(missing)
	}
	return s.presentShortlist(ctx, convCtx)
}

// presentShortlist matches fundis for the completed draft, snapshots them into
// the context in presentation order, and fires a lead per shown candidate.
func (s *DefaultConversationService) presentShortlist(ctx context.Context, convCtx *models.ConversationContext) string {
	ranked, err := s.Matcher.MatchFundis(convCtx.Draft.ServiceCategory, convCtx.Draft.Location)
	if err != nil {
		s.Logger.Error("fundi matching failed", zap.String("phone", convCtx.Phone), zap.Error(err))
		return composeGenericError()
	}
	if len(ranked) == 0 {
		service, location := convCtx.Draft.ServiceCategory, convCtx.Draft.Location
		convCtx.Reset()
		return composeNoAvailability(service, location)
	}

	candidates := make([]models.CandidateFundi, 0, len(ranked))
	for _, p := range ranked {
		candidates = append(candidates, models.CandidateFundi{
			ID:              p.ID,
			Name:            p.Name,
			Rating:          p.Rating,
			Location:        p.Location,
			PriorityListing: matching.PriorityTier(&p) == 3,
		})
	}
	convCtx.Candidates = candidates
	convCtx.Stage = models.StageFundiSelection

	for _, c := range candidates {
		req := models.LeadRequest{
			FundiID:         c.ID,
			ClientPhone:     convCtx.Phone,
			ClientName:      convCtx.ProfileName,
			ServiceCategory: convCtx.Draft.ServiceCategory,
			Location:        convCtx.Draft.Location,
			Source:          "whatsapp",
		}
		if err := s.Leads.EnqueueLead(req); err != nil {
			s.Logger.Warn("lead enqueue failed", zap.String("fundiId", c.ID), zap.Error(err))
		}
	}

	return composeShortlist(candidates, convCtx.Draft)
}

// handleConfirmation resolves according to the current stage: a shortlist pick
// during fundi_selection, a yes/no during cancellation_confirmation, anything
// else is treated as a general message.
func (s *DefaultConversationService) handleConfirmation(ctx context.Context, text string, convCtx *models.ConversationContext) string {
	switch convCtx.Stage {
	case models.StageFundiSelection:
		return s.confirmSelection(ctx, text, convCtx)
	case models.StageCancellationConfirmation:
		return s.resolveCancellation(convCtx, text)
	default:
		return s.handleGeneral(convCtx)
	}
}

func (s *DefaultConversationService) confirmSelection(ctx context.Context, text string, convCtx *models.ConversationContext) string {
	selection, ok := parseSelection(text)
	if !ok {
		return composeInvalidSelection(len(convCtx.Candidates))
	}

	b, err := s.Bookings.ConfirmSelection(ctx, convCtx, selection)
	switch {
	case err == nil:
		convCtx.Reset()
		return composeBookingConfirmed(b)
	case errors.Is(err, booking.ErrInvalidSelection):
		// Context untouched so the client can retry.
		return composeInvalidSelection(len(convCtx.Candidates))
	case errors.Is(err, booking.ErrStaleSelection):
		convCtx.Reset()
		return composeSelectionExpired()
	default:
		s.Logger.Error("booking confirmation failed",
			zap.String("phone", convCtx.Phone), zap.Error(err))
		// Keep the shortlist so a retry can succeed.
		return composeConfirmFailed()
	}
}

func (s *DefaultConversationService) handleCancellation(convCtx *models.ConversationContext) string {
	bookings, err := s.Bookings.ListByClientPhone(convCtx.Phone, 5)
	if err != nil {
		s.Logger.Error("booking lookup failed", zap.String("phone", convCtx.Phone), zap.Error(err))
		return composeGenericError()
	}
	for _, b := range bookings {
		if b.Status == models.BookingStatusPending || b.Status == models.BookingStatusConfirmed {
			convCtx.Stage = models.StageCancellationConfirmation
			convCtx.PendingCancelID = b.ID
			return composeCancellationPrompt(&b)
		}
	}
	return composeNoBookings()
}

func (s *DefaultConversationService) resolveCancellation(convCtx *models.ConversationContext, text string) string {
	switch {
	case isAffirmative(text):
		id := convCtx.PendingCancelID
		if err := s.Bookings.Cancel(id); err != nil {
			s.Logger.Error("booking cancellation failed",
				zap.String("bookingId", id), zap.Error(err))
			return composeGenericError()
		}
		convCtx.Reset()
		return composeCancelled()
	case isNegative(text):
		convCtx.Reset()
		return composeCancellationKept()
	default:
		return "Please reply YES to cancel the booking or NO to keep it."
	}
}

func (s *DefaultConversationService) handleStatusInquiry(convCtx *models.ConversationContext) string {
	bookings, err := s.Bookings.ListByClientPhone(convCtx.Phone, 3)
	if err != nil {
		s.Logger.Error("booking lookup failed", zap.String("phone", convCtx.Phone), zap.Error(err))
		return composeGenericError()
	}
	if len(bookings) == 0 {
		return composeNoBookings()
	}
	return composeStatus(bookings)
}

func (s *DefaultConversationService) handleGeneral(convCtx *models.ConversationContext) string {
	return composeGreeting(convCtx.ProfileName)
}

// mergeExtraction fills empty draft fields from a new extraction without
// overwriting details supplied in earlier turns.
func mergeExtraction(draft *models.BookingDraft, ex models.Extraction) {
	if draft.ServiceCategory == "" {
		draft.ServiceCategory = ex.Service
	}
	if draft.Date == "" {
		draft.Date = ex.Date
	}
	if draft.Time == "" {
		draft.Time = ex.Time
	}
	if draft.Location == "" {
		draft.Location = ex.Location
	}
}

func draftMissing(draft models.BookingDraft) []string {
	var missing []string
	if draft.ServiceCategory == "" {
		missing = append(missing, "service")
	}
	if draft.Date == "" {
		missing = append(missing, "date")
	}
	if draft.Time == "" {
		missing = append(missing, "time")
	}
	if draft.Location == "" {
		missing = append(missing, "location")
	}
	return missing
}

// parseSelection accepts "2", "2.", "#2" and similar minimal decorations.
func parseSelection(text string) (int, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimSuffix(s, ".")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func isAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "yeah", "yep", "y", "ok", "okay", "sawa", "ndio", "confirm", "sure":
		return true
	}
	return false
}

func isNegative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "no", "nope", "n", "hapana", "keep", "keep it", "don't", "dont":
		return true
	}
	return false
}
