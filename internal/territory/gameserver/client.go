// Package gameserver provides a client for the game-server territory
// store: the read side that lists active territories and the write side
// that records validated claims.
package gameserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/turfloop/turfloop/internal/geo"
	"github.com/turfloop/turfloop/internal/resilience"
	"github.com/turfloop/turfloop/internal/territory"
)

const (
	// DefaultBaseURL is the base URL for the game-server API.
	DefaultBaseURL = "https://game.turfloop.app/api"

	// ProviderName identifies this provider.
	ProviderName = "gameserver"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the game-server client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// APIKey is sent as a bearer token on every request.
	APIKey string

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with retries and a circuit breaker is created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// Client is a game-server API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

// NewClient creates a new game-server client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.Config{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

// API wire types.

type territoriesResponse struct {
	Territories []territoryData `json:"territories"`
}

type territoryData struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"owner_id"`
	Vertices  []pointData `json:"vertices"`
	AreaM2    float64     `json:"area_m2"`
	ClaimedAt time.Time   `json:"claimed_at"`
}

type pointData struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ClaimUpload is the wire shape of a recorded claim. The coordinate list,
// the closed WKT ring (lon-lat order, first vertex repeated) and the
// bounding box must be reproduced exactly for backend compatibility.
type ClaimUpload struct {
	OwnerID          string      `json:"owner_id"`
	Points           []pointData `json:"points"`
	PolygonWKT       string      `json:"polygon_wkt"`
	MinLat           float64     `json:"min_lat"`
	MinLon           float64     `json:"min_lon"`
	MaxLat           float64     `json:"max_lat"`
	MaxLon           float64     `json:"max_lon"`
	AreaSquareMeters float64     `json:"area_m2"`
	StartedAt        time.Time   `json:"started_at"`
}

type claimResponse struct {
	ID string `json:"id"`
}

// ListActive retrieves all currently-active territories.
func (c *Client) ListActive(ctx context.Context) ([]territory.Territory, error) {
	url := c.baseURL + "/v1/territories?active=true"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating territories request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching territories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("territories request failed: status %d", resp.StatusCode)
	}

	var body territoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding territories response: %w", err)
	}

	territories := make([]territory.Territory, 0, len(body.Territories))
	for _, td := range body.Territories {
		vertices := make([]geo.Point, 0, len(td.Vertices))
		for _, v := range td.Vertices {
			vertices = append(vertices, geo.Point{Lat: v.Lat, Lon: v.Lon})
		}
		territories = append(territories, territory.Territory{
			ID:               td.ID,
			OwnerID:          td.OwnerID,
			Vertices:         vertices,
			AreaSquareMeters: td.AreaM2,
			ClaimedAt:        td.ClaimedAt,
		})
	}
	return territories, nil
}

// SubmitClaim uploads a validated claim and returns the recorded territory
// ID.
func (c *Client) SubmitClaim(ctx context.Context, upload ClaimUpload) (string, error) {
	payload, err := json.Marshal(upload)
	if err != nil {
		return "", fmt.Errorf("encoding claim: %w", err)
	}

	url := c.baseURL + "/v1/territories"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating claim request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("submitting claim: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("claim request failed: status %d", resp.StatusCode)
	}

	var body claimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding claim response: %w", err)
	}
	return body.ID, nil
}

// NewClaimUpload builds the upload payload from a validated path.
func NewClaimUpload(ownerID string, points []geo.Point, areaSquareMeters float64, startedAt time.Time) ClaimUpload {
	wire := make([]pointData, 0, len(points))
	for _, p := range points {
		wire = append(wire, pointData{Lat: p.Lat, Lon: p.Lon})
	}

	poly := geo.Polygon(points)
	bounds := poly.Bounds()

	return ClaimUpload{
		OwnerID:          ownerID,
		Points:           wire,
		PolygonWKT:       poly.WKT(),
		MinLat:           bounds.MinLat,
		MinLon:           bounds.MinLon,
		MaxLat:           bounds.MaxLat,
		MaxLon:           bounds.MaxLon,
		AreaSquareMeters: areaSquareMeters,
		StartedAt:        startedAt,
	}
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")
}
