package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"fundilink/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoConversation struct {
	mu       sync.Mutex
	received []models.InboundMessage
}

func (e *echoConversation) ProcessMessage(ctx context.Context, msg models.InboundMessage) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.received = append(e.received, msg)
	return "ack: " + msg.Text
}

type captureSender struct {
	mu   sync.Mutex
	sent []string
	done chan struct{}
}

func (c *captureSender) SendText(ctx context.Context, to, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, body)
	select {
	case c.done <- struct{}{}:
	default:
	}
	return nil
}

func newWebhookRouter() (*gin.Engine, *echoConversation, *captureSender) {
	gin.SetMode(gin.TestMode)
	conv := &echoConversation{}
	sender := &captureSender{done: make(chan struct{}, 1)}
	h := &WebhookHandler{
		Conversation: conv,
		Sender:       sender,
		VerifyToken:  "secret-token",
	}
	r := gin.New()
	r.GET("/webhook/whatsapp", h.VerifyHandler)
	r.POST("/webhook/whatsapp", h.ReceiveHandler)
	return r, conv, sender
}

func TestVerifyHandshakeSuccess(t *testing.T) {
	r, _, _ := newWebhookRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestVerifyHandshakeWrongToken(t *testing.T) {
	r, _, _ := newWebhookRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMalformedPayloadIsAcknowledged(t *testing.T) {
	r, conv, _ := newWebhookRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp",
		strings.NewReader(`{"this is": not even json`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, conv.received)
}

func TestNonTextMessagesAreIgnored(t *testing.T) {
	r, conv, _ := newWebhookRouter()

	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{"id": "1", "changes": [{"field": "messages", "value": {
			"messaging_product": "whatsapp",
			"messages": [{"from": "254700000001", "id": "wamid.1", "type": "image"}]
		}}]}]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, conv.received)
}

func TestTextMessageGetsReply(t *testing.T) {
	r, conv, sender := newWebhookRouter()

	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{"id": "1", "changes": [{"field": "messages", "value": {
			"messaging_product": "whatsapp",
			"contacts": [{"wa_id": "254700000001", "profile": {"name": "Amina"}}],
			"messages": [{"from": "254700000001", "id": "wamid.1", "type": "text",
				"text": {"body": "I need a plumber"}}]
		}}]}]
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	select {
	case <-sender.done:
	case <-time.After(2 * time.Second):
		t.Fatal("reply was never sent")
	}

	require.Len(t, conv.received, 1)
	assert.Equal(t, "254700000001", conv.received[0].SenderID)
	assert.Equal(t, "Amina", conv.received[0].SenderName)
	assert.Equal(t, "I need a plumber", conv.received[0].Text)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ack: I need a plumber", sender.sent[0])
}
