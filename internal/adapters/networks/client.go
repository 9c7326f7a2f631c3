package networks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/veeraceo-pixel/cashback/internal/domain"
)

const maxListingBytes = 32 << 20

type Endpoint struct {
	URL      string
	APIToken string
}

// APIClient pulls transaction listings from the networks that expose a JSON API.
// It makes a single page request per call; there is no retry or pagination.
type APIClient struct {
	httpClient *http.Client
	endpoints  map[domain.NetworkKind]Endpoint
	logger     *slog.Logger
}

func NewAPIClient(httpClient *http.Client, endpoints map[domain.NetworkKind]Endpoint, logger *slog.Logger) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &APIClient{
		httpClient: httpClient,
		endpoints:  endpoints,
		logger:     logger.With("module", "networks.api_client", "layer", "adapter"),
	}
}

func (c *APIClient) FetchTransactions(ctx context.Context, kind domain.NetworkKind) ([]json.RawMessage, error) {
	endpoint, ok := c.endpoints[kind]
	if !ok || strings.TrimSpace(endpoint.URL) == "" {
		return nil, fmt.Errorf("%w: no listing endpoint configured for %s", domain.ErrUnsupportedNetwork, kind)
	}
	if strings.TrimSpace(endpoint.APIToken) == "" {
		return nil, fmt.Errorf("no api token configured for %s", kind)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s listing request: %w", kind, err)
	}
	req.Header.Set("Authorization", "Bearer "+endpoint.APIToken)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s listing request: %w", kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.WarnContext(ctx, "network listing rejected",
			"operation", "fetch_transactions",
			"outcome", "failure",
			"network", kind,
			"status_code", resp.StatusCode,
		)
		return nil, fmt.Errorf("%s listing returned %d: %s", kind, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var records []json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxListingBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode %s listing: %w", kind, err)
	}
	c.logger.InfoContext(ctx, "network listing fetched",
		"operation", "fetch_transactions",
		"outcome", "success",
		"network", kind,
		"record_count", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return records, nil
}
