package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/modaops/datakit/logger"
)

// APIConfig is the configuration for the analytics API source
type APIConfig struct {
	// URL of the analytics endpoint (required)
	URL string `mapstructure:"url"`
	// Timeout for the whole request
	// default: 10 * time.Second
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultAPIConfig returns the default API source configuration
func DefaultAPIConfig() *APIConfig {
	return &APIConfig{Timeout: 10 * time.Second}
}

// MergeDefaults fills zero-valued fields from the defaults and returns the
// merged configuration
func (c *APIConfig) MergeDefaults() *APIConfig {
	if c.Timeout == 0 {
		c.Timeout = DefaultAPIConfig().Timeout
	}
	return c
}

// Validate validates the configuration
func (c *APIConfig) Validate() error {
	if c.URL == "" {
		return ErrInvalidConfig("url is required")
	}
	if c.Timeout <= 0 {
		return ErrInvalidConfig("timeout must be > 0")
	}
	return nil
}

// envelope is the normalized response shape of the analytics API. Anything
// else — non-2xx status, success false, missing data — counts as a source
// failure and sends the pass down the fallback chain.
type envelope struct {
	Success bool      `json:"success"`
	Data    *Snapshot `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// APISource fetches the snapshot from the marketplace analytics REST API.
// It is the primary entry of the fallback chain.
type APISource struct {
	log    logger.Logger
	client *http.Client
	url    string
}

// NewAPISource creates the primary analytics source.
func NewAPISource(log logger.Logger, cfg *APIConfig) (*APISource, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig("config is required")
	}
	cfg = cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &APISource{
		log:    log,
		client: &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
	}, nil
}

func (s *APISource) Name() string { return "analytics-api" }

func (s *APISource) Fetch(ctx context.Context) (Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Snapshot{}, ErrAPIRequest(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Snapshot{}, ErrAPIRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Snapshot{}, ErrAPIStatus(resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Snapshot{}, ErrAPIRequest(err)
	}
	if !env.Success {
		return Snapshot{}, ErrAPIRejected(env.Error)
	}
	if env.Data == nil {
		return Snapshot{}, ErrMalformedResponse
	}
	return *env.Data, nil
}
