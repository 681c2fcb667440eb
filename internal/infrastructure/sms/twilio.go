package sms

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ridelink/verify-api/internal/config"
)

const defaultBaseURL = "https://api.twilio.com"

// Sender delivers SMS messages.
type Sender interface {
	Send(ctx context.Context, toPhoneNumber, body string) error
}

// TwilioClient sends messages through the Twilio Messages REST API.
type TwilioClient struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	httpClient *http.Client
}

// NewTwilioClient creates a new Twilio SMS client
func NewTwilioClient(cfg config.TwilioConfig) *TwilioClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &TwilioClient{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL points the client at a different API host (for testing).
func (tc *TwilioClient) WithBaseURL(baseURL string) *TwilioClient {
	tc.baseURL = strings.TrimSuffix(baseURL, "/")
	return tc
}

// Send delivers one SMS message. Any non-2xx response is an error; the
// caller decides whether the surrounding operation fails with it.
func (tc *TwilioClient) Send(ctx context.Context, toPhoneNumber, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", tc.baseURL, tc.accountSID)

	form := url.Values{}
	form.Set("To", toPhoneNumber)
	form.Set("From", tc.fromNumber)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create Twilio request: %w", err)
	}

	req.SetBasicAuth(tc.accountSID, tc.authToken)
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Twilio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("twilio returned status %d: %s", resp.StatusCode, string(detail))
	}

	return nil
}
