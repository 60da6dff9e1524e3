package models

// WhatsApp Cloud API webhook envelope. Only the fields the orchestrator needs
// are mapped; everything else is ignored on purpose.

type WebhookEnvelope struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Contacts         []WebhookContact `json:"contacts"`
	Messages         []WebhookMessage `json:"messages"`
}

type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type WebhookMessage struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text *struct {
		Body string `json:"body"`
	} `json:"text,omitempty"`
}

// InboundMessage is the normalised message handed to the orchestrator.
type InboundMessage struct {
	SenderID   string
	SenderName string
	MessageID  string
	Text       string
}

// ExtractMessages flattens the envelope into inbound messages, dropping
// entries without text content.
func (e *WebhookEnvelope) ExtractMessages() []InboundMessage {
	var out []InboundMessage
	for _, entry := range e.Entry {
		for _, change := range entry.Changes {
			name := ""
			if len(change.Value.Contacts) > 0 {
				name = change.Value.Contacts[0].Profile.Name
			}
			for _, msg := range change.Value.Messages {
				if msg.Text == nil || msg.Text.Body == "" {
					continue
				}
				out = append(out, InboundMessage{
					SenderID:   msg.From,
					SenderName: name,
					MessageID:  msg.ID,
					Text:       msg.Text.Body,
				})
			}
		}
	}
	return out
}
