// Package navitel proxies the GPS fleet-tracking vendor API: vehicle
// listing and temporary public tracking links, behind a cached session
// hash.
package navitel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/config"
	"github.com/eemerson/paybox-server/internal/models"
)

// hashTTL is how long a session hash is trusted before re-authenticating.
// The vendor keeps sessions alive for about 30 minutes.
const hashTTL = 30 * time.Minute

// geolinkValidity is the validity window for created tracking links.
const geolinkValidity = 6 * time.Hour

// hashCache holds the session hash and its expiry instant. Re-auth on a
// stale read is harmless, merely wasteful, but concurrent field writes
// still need the mutex.
type hashCache struct {
	mu     sync.Mutex
	hash   string
	expiry time.Time
}

// Client talks to the Navitel API.
type Client struct {
	baseURL    string
	publicBase string
	login      string
	password   string
	httpClient *http.Client
	now        func() time.Time
	cache      hashCache
}

// NewClient creates a vendor client from configuration.
func NewClient(cfg config.NavitelConfig) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		publicBase: strings.TrimSuffix(strings.TrimSuffix(cfg.BaseURL, "/"), "/api-v2"),
		login:      cfg.Login,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

// WithClock substitutes the time source. Used by tests.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// WithHTTPClient substitutes the HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

type authResponse struct {
	Success bool   `json:"success"`
	Type    string `json:"type"`
	Hash    string `json:"hash"`
}

// authHash returns a valid session hash, re-authenticating when the
// cached one has expired.
func (c *Client) authHash(ctx context.Context) (string, error) {
	c.cache.mu.Lock()
	if c.cache.hash != "" && c.now().Before(c.cache.expiry) {
		hash := c.cache.hash
		c.cache.mu.Unlock()
		return hash, nil
	}
	c.cache.mu.Unlock()

	var auth authResponse
	err := c.post(ctx, "/user/auth", map[string]string{
		"login":    c.login,
		"password": c.password,
	}, &auth)
	if err != nil {
		return "", err
	}
	if !auth.Success || auth.Type != "authenticated" {
		return "", apperr.New(apperr.KindExternalService, "autenticación fallida con Navitel API")
	}

	c.cache.mu.Lock()
	c.cache.hash = auth.Hash
	c.cache.expiry = c.now().Add(hashTTL)
	c.cache.mu.Unlock()

	return auth.Hash, nil
}

// invalidate drops the cached hash so the next call re-authenticates.
func (c *Client) invalidate() {
	c.cache.mu.Lock()
	c.cache.hash = ""
	c.cache.expiry = time.Time{}
	c.cache.mu.Unlock()
}

type trackerListResponse struct {
	Success bool `json:"success"`
	List    []struct {
		ID    int64  `json:"id"`
		Label string `json:"label"`
	} `json:"list"`
}

// Vehicles lists the fleet's trackers as {id, label} pairs.
func (c *Client) Vehicles(ctx context.Context) ([]models.Vehicle, error) {
	hash, err := c.authHash(ctx)
	if err != nil {
		return nil, err
	}

	var resp trackerListResponse
	if err := c.post(ctx, "/tracker/list", map[string]string{"hash": hash}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		c.invalidate()
		return nil, apperr.New(apperr.KindExternalService, "error en respuesta de Navitel API")
	}

	vehicles := make([]models.Vehicle, 0, len(resp.List))
	for _, t := range resp.List {
		vehicles = append(vehicles, models.Vehicle{ID: t.ID, Label: t.Label})
	}
	return vehicles, nil
}

type geolinkLifetime struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type geolinkCreateResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateGeolink creates a temporary public tracking link for one tracker,
// valid from now for six hours.
func (c *Client) CreateGeolink(ctx context.Context, trackerID int64, label string) (int64, error) {
	hash, err := c.authHash(ctx)
	if err != nil {
		return 0, err
	}

	now := c.now()
	body := map[string]interface{}{
		"id": nil,
		"lifetime": geolinkLifetime{
			From: now.UTC().Format(time.RFC3339),
			To:   now.Add(geolinkValidity).UTC().Format(time.RFC3339),
		},
		"description": fmt.Sprintf("Geoenlace de %s", label),
		"trackers": []map[string]interface{}{
			{
				"alias":      label,
				"tracker_id": trackerID,
				"params": map[string]interface{}{
					"object_data":  []string{},
					"sensor_ids":   []int{},
					"state_fields": []string{},
				},
			},
		},
		"params": map[string]interface{}{
			"bounding_zone_ids": []int{},
			"bounding_mode":     nil,
			"place_ids":         []int{},
			"zone_ids":          []int{},
			"display_options": map[string]interface{}{
				"map":               "osm",
				"autoscale":         true,
				"show_icons":        true,
				"show_driver_info":  true,
				"show_vehicle_info": true,
				"trace_duration":    nil,
			},
		},
		"hash": hash,
	}

	var resp geolinkCreateResponse
	if err := c.post(ctx, "/tracker/location/link/create", body, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		c.invalidate()
		msg := "error al crear geoenlace en Navitel"
		if resp.Error != nil && resp.Error.Message != "" {
			msg = resp.Error.Message
		}
		return 0, apperr.New(apperr.KindExternalService, msg)
	}

	return resp.ID, nil
}

type geolinkListResponse struct {
	Success bool `json:"success"`
	List    []struct {
		ID          int64           `json:"id"`
		Hash        string          `json:"hash"`
		CreateDate  string          `json:"create_date"`
		Lifetime    geolinkLifetime `json:"lifetime"`
		Description string          `json:"description"`
		Enabled     bool            `json:"enabled"`
	} `json:"list"`
}

// Geolinks lists existing tracking links with their derived public URLs.
func (c *Client) Geolinks(ctx context.Context) ([]models.Geolink, error) {
	hash, err := c.authHash(ctx)
	if err != nil {
		return nil, err
	}

	var resp geolinkListResponse
	if err := c.post(ctx, "/tracker/location/link/list", map[string]string{"hash": hash}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		c.invalidate()
		return nil, apperr.New(apperr.KindExternalService, "error al obtener geoenlaces en Navitel")
	}

	links := make([]models.Geolink, 0, len(resp.List))
	for _, l := range resp.List {
		links = append(links, models.Geolink{
			ID:          l.ID,
			Hash:        l.Hash,
			CreateDate:  l.CreateDate,
			ValidFrom:   l.Lifetime.From,
			ValidTo:     l.Lifetime.To,
			Description: l.Description,
			Enabled:     l.Enabled,
			URL:         fmt.Sprintf("%s/ls/%s", c.publicBase, l.Hash),
		})
	}
	return links, nil
}

// post issues one JSON POST against the vendor API and decodes the reply.
func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal navitel request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build navitel request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindExternalService, "error al conectar con Navitel API", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.Newf(apperr.KindExternalService,
			"Navitel API respondió con estado %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindMalformedResponse, "respuesta inválida de Navitel API", err)
	}
	return nil
}
