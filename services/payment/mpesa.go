package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fundilink/config"
	"fundilink/models"

	"go.uber.org/zap"
)

// STKClient is the consumed surface of the M-Pesa gateway: initiate a push,
// query the result. Everything behind it is Daraja's problem.
type STKClient interface {
	STKPush(ctx context.Context, phone string, amount float64, reference string) (*models.STKPushResult, error)
	QueryStatus(ctx context.Context, checkoutRequestID string) (models.PaymentOutcome, error)
}

// MpesaClient implements STKClient against the Daraja API.
type MpesaClient struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortcode      string
	passkey        string
	callbackURL    string
	httpClient     *http.Client
	logger         *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewMpesaClient builds a Daraja client from the application config.
func NewMpesaClient(logger *zap.Logger) *MpesaClient {
	cfg := config.AppConfig
	return &MpesaClient{
		baseURL:        cfg.MpesaBaseURL,
		consumerKey:    cfg.MpesaConsumerKey,
		consumerSecret: cfg.MpesaConsumerSecret,
		shortcode:      cfg.MpesaShortcode,
		passkey:        cfg.MpesaPasskey,
		callbackURL:    cfg.MpesaCallbackURL,
		httpClient:     &http.Client{Timeout: 15 * time.Second},
		logger:         logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// token returns a cached OAuth token, refreshing it when expired.
func (m *MpesaClient) token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken != "" && time.Now().Before(m.tokenExpiry) {
		return m.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		m.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(m.consumerKey + ":" + m.consumerSecret))
	req.Header.Set("Authorization", "Basic "+auth)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	m.accessToken = tr.AccessToken
	// Daraja tokens last an hour; refresh a minute early.
	m.tokenExpiry = time.Now().Add(59 * time.Minute)
	return m.accessToken, nil
}

func (m *MpesaClient) password(timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(m.shortcode + m.passkey + timestamp))
}

// STKPush initiates a push payment to the given phone. The returned result is
// pending until the callback or a status query resolves it.
func (m *MpesaClient) STKPush(ctx context.Context, phone string, amount float64, reference string) (*models.STKPushResult, error) {
	token, err := m.token(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	payload := map[string]interface{}{
		"BusinessShortCode": m.shortcode,
		"Password":          m.password(timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int(amount),
		"PartyA":            phone,
		"PartyB":            m.shortcode,
		"PhoneNumber":       phone,
		"CallBackURL":       m.callbackURL,
		"AccountReference":  reference,
		"TransactionDesc":   "FundiLink subscription",
	}

	var result struct {
		MerchantRequestID string `json:"MerchantRequestID"`
		CheckoutRequestID string `json:"CheckoutRequestID"`
		ResponseCode      string `json:"ResponseCode"`
		CustomerMessage   string `json:"CustomerMessage"`
	}
	if err := m.postJSON(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &result); err != nil {
		return nil, fmt.Errorf("stk push failed: %w", err)
	}
	if result.ResponseCode != "0" {
		return nil, fmt.Errorf("stk push rejected with response code %s", result.ResponseCode)
	}

	m.logger.Info("stk push initiated",
		zap.String("checkoutRequestId", result.CheckoutRequestID),
		zap.String("reference", reference))

	return &models.STKPushResult{
		CheckoutRequestID: result.CheckoutRequestID,
		MerchantRequestID: result.MerchantRequestID,
		ResponseCode:      result.ResponseCode,
		CustomerMessage:   result.CustomerMessage,
	}, nil
}

// QueryStatus asks Daraja for the outcome of a previously initiated push.
// Result code 0 is paid; 1032 (cancelled by user) and other non-zero codes are
// failed. A still-processing push surfaces as a retriable error.
func (m *MpesaClient) QueryStatus(ctx context.Context, checkoutRequestID string) (models.PaymentOutcome, error) {
	token, err := m.token(ctx)
	if err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102150405")
	payload := map[string]interface{}{
		"BusinessShortCode": m.shortcode,
		"Password":          m.password(timestamp),
		"Timestamp":         timestamp,
		"CheckoutRequestID": checkoutRequestID,
	}

	var result struct {
		ResponseCode string `json:"ResponseCode"`
		ResultCode   string `json:"ResultCode"`
		ResultDesc   string `json:"ResultDesc"`
	}
	if err := m.postJSON(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &result); err != nil {
		return "", fmt.Errorf("stk status query failed: %w", err)
	}

	switch result.ResultCode {
	case "0":
		return models.PaymentOutcomePaid, nil
	case "":
		return "", fmt.Errorf("push still processing: %s", result.ResultDesc)
	default:
		return models.PaymentOutcomeFailed, nil
	}
}

func (m *MpesaClient) postJSON(ctx context.Context, path, token string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
