package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"alertcast/internal/core/httpclient"
	"alertcast/internal/core/logger"

	"go.uber.org/zap"
)

// APIStateFetcher performs the initial-state fetch when the overlay loads.
// Failure is non-fatal; the engine starts empty either way.
type APIStateFetcher struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewAPIStateFetcher creates a fetcher for the given API base URL.
func NewAPIStateFetcher(baseURL string) *APIStateFetcher {
	return &APIStateFetcher{
		baseURL: baseURL,
		client:  httpclient.NewClient(5 * time.Second),
		log:     logger.Named("bootstrap"),
	}
}

// Fetch retrieves the server state snapshot and logs clock skew.
func (f *APIStateFetcher) Fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/state", nil)
	if err != nil {
		return fmt.Errorf("build state request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch state: unexpected status %d", resp.StatusCode)
	}

	var state struct {
		ServerTime time.Time `json:"serverTime"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}

	f.log.Info("Initial state fetched",
		zap.Time("server_time", state.ServerTime),
		zap.Duration("clock_skew", time.Since(state.ServerTime)),
	)
	return nil
}
