package card

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrChargeDeclined is returned when the gateway rejects the charge
	ErrChargeDeclined = errors.New("charge declined")

	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid card gateway configuration")
)

// Charger is the synchronous charge interface consumed by checkout.
// The charge must succeed before any order is materialized.
type Charger interface {
	Charge(ctx context.Context, amount int64, token string) error
}

// Config represents the configuration for the card gateway client
type Config struct {
	BaseURL   string
	SecretKey string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}

// Client is an HTTP card gateway client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new card gateway client
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type chargeRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Source   string `json:"source"`
}

type chargeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Charge submits a charge for the given amount (VND) against a payment
// token obtained by the storefront client.
func (c *Client) Charge(ctx context.Context, amount int64, token string) error {
	body, err := json.Marshal(chargeRequest{
		Amount:   amount,
		Currency: "vnd",
		Source:   token,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal charge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/charges", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create charge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("charge request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read charge response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrChargeDeclined, resp.StatusCode)
	}

	var chargeResp chargeResponse
	if err := json.Unmarshal(respBody, &chargeResp); err != nil {
		return fmt.Errorf("failed to unmarshal charge response: %w", err)
	}
	if chargeResp.Status != "succeeded" {
		return fmt.Errorf("%w: %s", ErrChargeDeclined, chargeResp.Message)
	}

	return nil
}
