package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ridelink/verify-api/internal/config"
)

// Provider is the identity collaborator the verifier depends on: an
// idempotent principal lookup/creation keyed by phone number, and minting
// of a signed custom token for a principal id. Both are fallible remote
// operations from the caller's point of view.
type Provider interface {
	GetOrCreatePrincipal(ctx context.Context, phoneNumber string) (string, error)
	MintCustomToken(ctx context.Context, uid string) (string, error)
}

// Client talks to the identity service's admin API for principal
// provisioning and signs custom tokens locally with the service-account key.
type Client struct {
	baseURL    string
	apiKey     string
	minter     *TokenMinter
	httpClient *http.Client
}

// NewClient creates an identity client from configuration. The signing key
// is read once at startup; a missing or malformed key fails construction.
func NewClient(cfg config.IdentityConfig) (*Client, error) {
	minter, err := NewTokenMinterFromFile(cfg.SigningKeyPath, cfg.TokenIssuer, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity signing key: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		minter:     minter,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// NewClientWithMinter wires an explicit minter and base URL (for testing).
func NewClientWithMinter(baseURL, apiKey string, minter *TokenMinter) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		minter:     minter,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type principalResponse struct {
	UID string `json:"uid"`
}

// GetOrCreatePrincipal resolves the stable principal id for a phone number,
// creating the principal on first use. Safe to call repeatedly.
func (c *Client) GetOrCreatePrincipal(ctx context.Context, phoneNumber string) (string, error) {
	uid, err := c.lookupPrincipal(ctx, phoneNumber)
	if err == nil {
		return uid, nil
	}
	if err != errPrincipalNotFound {
		return "", err
	}
	return c.createPrincipal(ctx, phoneNumber)
}

// MintCustomToken signs a custom token bound to the principal id.
func (c *Client) MintCustomToken(ctx context.Context, uid string) (string, error) {
	return c.minter.Mint(uid)
}

var errPrincipalNotFound = fmt.Errorf("principal not found")

func (c *Client) lookupPrincipal(ctx context.Context, phoneNumber string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/principals?phone_number=%s", c.baseURL, url.QueryEscape(phoneNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create principal lookup request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("principal lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return decodePrincipal(resp.Body)
	case http.StatusNotFound:
		return "", errPrincipalNotFound
	default:
		return "", fmt.Errorf("identity service returned status %d on lookup", resp.StatusCode)
	}
}

func (c *Client) createPrincipal(ctx context.Context, phoneNumber string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"phone_number": phoneNumber})
	endpoint := c.baseURL + "/v1/principals"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create principal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("principal creation failed: %w", err)
	}
	defer resp.Body.Close()

	// 200 covers a concurrent creator winning the race.
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity service returned status %d on create", resp.StatusCode)
	}
	return decodePrincipal(resp.Body)
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func decodePrincipal(body io.Reader) (string, error) {
	var pr principalResponse
	if err := json.NewDecoder(body).Decode(&pr); err != nil {
		return "", fmt.Errorf("failed to decode principal response: %w", err)
	}
	if pr.UID == "" {
		return "", fmt.Errorf("identity service returned empty uid")
	}
	return pr.UID, nil
}
