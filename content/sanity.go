package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SanityConfig identifies a Sanity dataset.
type SanityConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	UseCDN     bool
	// Token is an optional read token for private datasets.
	Token   string
	Timeout time.Duration
	// BaseURL overrides the derived API host (used in tests).
	BaseURL string
	// MaxBytes caps the size of a response body. Defaults to DefaultMaxBytes.
	MaxBytes int64
}

// DefaultMaxBytes is the largest query response read by default.
const DefaultMaxBytes = 16 << 20

// ErrResponseTooLarge is returned when a response exceeds the configured cap.
var ErrResponseTooLarge = errors.New("response too large")

// SanityClient reads collections through the Sanity HTTP query API.
type SanityClient struct {
	baseURL string
	dataset string
	token    string
	maxBytes int64
	client   *http.Client
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	MS     int             `json:"ms"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
	} `json:"error"`
}

// NewSanityClient creates a client for cfg.
func NewSanityClient(cfg SanityConfig) (*SanityClient, error) {
	if cfg.ProjectID == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("sanity project id is required")
	}
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2026-02-23"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}

	base := cfg.BaseURL
	if base == "" {
		host := "api.sanity.io"
		if cfg.UseCDN && cfg.Token == "" {
			host = "apicdn.sanity.io"
		}
		base = fmt.Sprintf("https://%s.%s", cfg.ProjectID, host)
	}
	base = strings.TrimRight(base, "/") + "/v" + strings.TrimPrefix(cfg.APIVersion, "v")

	return &SanityClient{
		baseURL: base,
		dataset: cfg.Dataset,
		token:    cfg.Token,
		maxBytes: cfg.MaxBytes,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// FetchCollection runs q and returns the result records.
func (c *SanityClient) FetchCollection(ctx context.Context, q Query) ([]json.RawMessage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/data/query/%s?query=%s", c.baseURL, url.PathEscape(c.dataset), url.QueryEscape(q.GROQ()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Description != "" {
			return nil, fmt.Errorf("query api returned %d: %s", resp.StatusCode, apiErr.Error.Description)
		}
		return nil, fmt.Errorf("query api returned %d", resp.StatusCode)
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	log.Debug().Str("collection", q.Type).Int("server_ms", qr.MS).Msg("query complete")
	return decodeResult(qr.Result)
}

// decodeResult accepts an array, a single object or null.
func decodeResult(raw json.RawMessage) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case trimmed == "" || trimmed == "null":
		return nil, nil
	case strings.HasPrefix(trimmed, "{"):
		return []json.RawMessage{raw}, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode query result: %w", err)
	}
	return records, nil
}
