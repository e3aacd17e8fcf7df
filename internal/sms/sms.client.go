package sms

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"account-service/internal/config"

	"github.com/google/uuid"
)

// Client delivers verification codes through the SMS provider's HTTP API.
// Credentials come from config at process start; every call is bounded by
// the configured client timeout plus the request context.
type Client struct {
	baseURL  string
	apiKey   string
	senderID string
	userID   string
	password string
	client   *http.Client
}

func NewClient(cfg config.SMSConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		senderID: cfg.SenderID,
		userID:   cfg.UserID,
		password: cfg.Password,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// SendVerificationCode composes the verification message and hands it to the
// provider. The message body is never logged.
func (c *Client) SendVerificationCode(ctx context.Context, phone, code string) error {
	body := fmt.Sprintf("Your verification code is: %s", code)
	return c.send(ctx, phone, body)
}

func (c *Client) send(ctx context.Context, recipient, body string) error {
	start := time.Now()
	requestID := uuid.New().String()

	log.Printf("[SMS] Preparing to send | RequestID=%s | Recipient=%s | SenderID=%s | APIKeySet=%t",
		requestID, maskPhone(recipient), c.senderID, c.apiKey != "")

	form := url.Values{}
	form.Set("userid", c.userID)
	form.Set("password", c.password)
	form.Set("senderid", c.senderID)
	form.Set("sendMethod", "quick")
	form.Set("msgType", "text")
	form.Set("msg", body)
	form.Set("mobile", recipient)
	form.Set("duplicatecheck", "true")
	form.Set("output", "json")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.apiKey != "" {
		httpReq.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		log.Printf("[SMS] HTTP error | RequestID=%s | Recipient=%s | Error=%v", requestID, maskPhone(recipient), err)
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[SMS] Failed sending | RequestID=%s | Recipient=%s | Status=%d | Duration=%v",
			requestID, maskPhone(recipient), resp.StatusCode, duration)
		return fmt.Errorf("sms api error: status %d: %s", resp.StatusCode, string(respBody))
	}

	log.Printf("[SMS] Successfully sent | RequestID=%s | Recipient=%s | Duration=%v",
		requestID, maskPhone(recipient), duration)

	return nil
}

// maskPhone masks phone numbers like +2547****89
func maskPhone(phone string) string {
	if len(phone) < 6 {
		return "****"
	}
	return phone[:5] + "****" + phone[len(phone)-2:]
}
