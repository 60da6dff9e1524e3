package conversation

import (
	"fmt"
	"strings"

	"fundilink/models"
)

// Reply text builders. Plain WhatsApp text, no rich formatting beyond
// asterisk-bold which the client renders natively.

func composeGreeting(name string) string {
	who := ""
	if name != "" {
		who = " " + name
	}
	return fmt.Sprintf("Hello%s! I can help you find and book a trusted fundi near you. "+
		"Just tell me what you need, for example: \"I need a plumber tomorrow morning in Kilimani\".", who)
}

func composeClarification(missing []string) string {
	labels := map[string]string{
		"service":  "what service you need",
		"date":     "which day works for you",
		"time":     "what time suits you",
		"location": "where you are located",
	}
	var asks []string
	for _, field := range missing {
		if label, ok := labels[field]; ok {
			asks = append(asks, label)
		}
	}
	if len(asks) == 0 {
		return "Could you tell me a bit more about what you need?"
	}
	return "Almost there! Could you tell me " + joinNatural(asks) + "?"
}

func composeShortlist(candidates []models.CandidateFundi, draft models.BookingDraft) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Here are the top %s available for %s on %s at %s:\n\n",
		pluralFundi(len(candidates)), draft.ServiceCategory, draft.Date, draft.Time)
	for i, c := range candidates {
		rating := "New"
		if c.Rating > 0 {
			rating = fmt.Sprintf("%.1f/5", c.Rating)
		}
		fmt.Fprintf(&sb, "%d. *%s* - %s", i+1, c.Name, rating)
		if c.Location != "" {
			fmt.Fprintf(&sb, " (%s)", c.Location)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nReply with the number of the fundi you would like to book.")
	return sb.String()
}

func composeNoAvailability(service, location string) string {
	where := ""
	if location != "" {
		where = " in " + location
	}
	return fmt.Sprintf("Sorry, no %s is available%s right now. "+
		"We are onboarding new fundis every day, please try again later or ask for a different service.",
		service, where)
}

func composeBookingConfirmed(b *models.Booking) string {
	return fmt.Sprintf("Booking confirmed! *%s* will handle your %s on %s at %s. "+
		"They will contact you on this number to finalise details. Karibu!",
		b.FundiName, b.ServiceCategory, b.Date, b.Time)
}

func composeInvalidSelection(max int) string {
	return fmt.Sprintf("Sorry, I didn't understand your selection. "+
		"Please reply with a number between 1 and %d, or describe what you need again.", max)
}

func composeSelectionExpired() string {
	return "That list has expired. Tell me again what you need and I'll find fundis available now."
}

func composeCancellationPrompt(b *models.Booking) string {
	return fmt.Sprintf("You want to cancel your %s booking with %s on %s at %s? "+
		"Reply YES to confirm or NO to keep it.",
		b.ServiceCategory, b.FundiName, b.Date, b.Time)
}

func composeCancelled() string {
	return "Your booking has been cancelled. Whenever you need a fundi again, just send me a message."
}

func composeCancellationKept() string {
	return "No problem, your booking stays as it is."
}

func composeNoBookings() string {
	return "You don't have any bookings with us yet. Tell me what service you need and I'll find you a fundi."
}

func composeStatus(bookings []models.Booking) string {
	var sb strings.Builder
	sb.WriteString("Here are your recent bookings:\n\n")
	for _, b := range bookings {
		fmt.Fprintf(&sb, "- %s with *%s* on %s at %s: %s\n",
			b.ServiceCategory, b.FundiName, b.Date, b.Time, b.Status)
	}
	return sb.String()
}

func composeMultiService() string {
	return "I can help with one service at a time. Which one would you like to start with?"
}

func composeReschedule() string {
	return "To reschedule, please cancel your current booking first and make a new one. " +
		"Reply \"cancel my booking\" and I'll walk you through it."
}

func composeGenericError() string {
	return "Sorry, there was an error on our side. Please try again in a moment."
}

func composeConfirmFailed() string {
	return "There was an error confirming your booking. Please try again by replying with the number."
}

func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func pluralFundi(n int) string {
	if n == 1 {
		return "fundi"
	}
	return fmt.Sprintf("%d fundis", n)
}
