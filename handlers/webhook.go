package handlers

import (
	"context"
	"net/http"
	"time"

	"fundilink/models"
	"fundilink/services/conversation"
	"fundilink/services/whatsapp"
	"fundilink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler terminates the WhatsApp Cloud API webhook.
type WebhookHandler struct {
	Conversation conversation.ConversationService
	Sender       whatsapp.ReplySender
	VerifyToken  string
}

// VerifyHandler handles GET: the subscription handshake. Echoes the challenge
// when the verify token matches, 403 otherwise.
func (h *WebhookHandler) VerifyHandler(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.VerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.Status(http.StatusForbidden)
}

// ReceiveHandler handles POST deliveries. It always acknowledges with 200,
// whatever the payload looks like, so the upstream channel never retries on
// our processing problems. Replies are produced off the request path.
func (h *WebhookHandler) ReceiveHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var envelope models.WebhookEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		logger.Warn("unparsable webhook payload ignored", zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	messages := envelope.ExtractMessages()
	for _, msg := range messages {
		go h.process(msg)
	}

	c.JSON(http.StatusOK, gin.H{"status": "received", "messages": len(messages)})
}

func (h *WebhookHandler) process(msg models.InboundMessage) {
	logger := utils.GetLogger()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	reply := h.Conversation.ProcessMessage(ctx, msg)
	if reply == "" {
		return
	}
	if err := h.Sender.SendText(ctx, msg.SenderID, reply); err != nil {
		logger.Error("failed to send reply",
			zap.String("to", msg.SenderID),
			zap.String("messageId", msg.MessageID),
			zap.Error(err))
	}
}
