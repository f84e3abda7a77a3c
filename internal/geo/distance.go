package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client calls the external routing service that resolves the driving
// distance between two addresses. Only used for automatic delivery pricing.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Distance returns the distance in kilometres between origin and destination.
func (c *Client) Distance(ctx context.Context, origin, destination string) (float64, error) {
	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/route?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("distance lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body struct {
		DistanceKm float64 `json:"distance_km"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode distance response: %w", err)
	}
	return body.DistanceKm, nil
}
