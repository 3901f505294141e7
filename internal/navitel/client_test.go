package navitel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eemerson/paybox-server/internal/config"
)

// fakeVendor is a minimal Navitel stand-in counting auth calls.
type fakeVendor struct {
	authCalls    int
	trackerCalls int
	failTrackers bool
}

func (v *fakeVendor) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/auth", func(w http.ResponseWriter, r *http.Request) {
		v.authCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"type":    "authenticated",
			"hash":    "hash-1234",
		})
	})
	mux.HandleFunc("/tracker/list", func(w http.ResponseWriter, r *http.Request) {
		v.trackerCalls++
		if v.failTrackers {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"list": []map[string]interface{}{
				{"id": 101, "label": "Camión 01"},
				{"id": 102, "label": "Camión 02"},
			},
		})
	})
	mux.HandleFunc("/tracker/location/link/create", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["hash"] != "hash-1234" {
			json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "id": 77})
	})
	mux.HandleFunc("/tracker/location/link/list", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"list": []map[string]interface{}{
				{
					"id":          77,
					"hash":        "geo-abc",
					"create_date": "2025-03-11 10:00:00",
					"lifetime":    map[string]string{"from": "2025-03-11T10:00:00Z", "to": "2025-03-11T16:00:00Z"},
					"description": "Geoenlace de Camión 01",
					"enabled":     true,
				},
			},
		})
	})
	return mux
}

func newTestClient(t *testing.T, vendor *fakeVendor, now *time.Time) *Client {
	srv := httptest.NewServer(vendor.handler())
	t.Cleanup(srv.Close)

	c := NewClient(config.NavitelConfig{
		BaseURL:  srv.URL + "/api-v2",
		Login:    "ops@example.com",
		Password: "secret",
	})
	c.baseURL = srv.URL
	return c.WithClock(func() time.Time { return *now })
}

func TestVehiclesCachesHash(t *testing.T) {
	vendor := &fakeVendor{}
	now := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	c := newTestClient(t, vendor, &now)

	vehicles, err := c.Vehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, vehicles, 2)
	assert.Equal(t, int64(101), vehicles[0].ID)
	assert.Equal(t, "Camión 01", vehicles[0].Label)
	assert.Equal(t, 1, vendor.authCalls)

	// Second call within the TTL reuses the cached hash.
	_, err = c.Vehicles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, vendor.authCalls)

	// Past the TTL the client re-authenticates.
	now = now.Add(31 * time.Minute)
	_, err = c.Vehicles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, vendor.authCalls)
}

func TestVendorFailureInvalidatesCache(t *testing.T) {
	vendor := &fakeVendor{}
	now := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	c := newTestClient(t, vendor, &now)

	_, err := c.Vehicles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, vendor.authCalls)

	vendor.failTrackers = true
	_, err = c.Vehicles(context.Background())
	require.Error(t, err)

	// The failure dropped the cached hash, so the next call re-auths even
	// though the TTL has not elapsed.
	vendor.failTrackers = false
	_, err = c.Vehicles(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, vendor.authCalls)
}

func TestCreateGeolink(t *testing.T) {
	vendor := &fakeVendor{}
	now := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	c := newTestClient(t, vendor, &now)

	id, err := c.CreateGeolink(context.Background(), 101, "Camión 01")
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
}

func TestGeolinksDerivesPublicURL(t *testing.T) {
	vendor := &fakeVendor{}
	now := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	c := newTestClient(t, vendor, &now)
	c.publicBase = "https://control.navitelgps.com"

	links, err := c.Geolinks(context.Background())
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "https://control.navitelgps.com/ls/geo-abc", links[0].URL)
	assert.Equal(t, "2025-03-11T10:00:00Z", links[0].ValidFrom)
	assert.True(t, links[0].Enabled)
}
