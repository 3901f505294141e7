package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eemerson/paybox-server/internal/api/testutils"
	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

func TestListVehicles(t *testing.T) {
	fleet := &testutils.StubFleet{
		VehiclesFn: func(_ context.Context) ([]models.Vehicle, error) {
			return []models.Vehicle{
				{ID: 101, Label: "Camión 01"},
				{ID: 102, Label: "Camión 02"},
			}, nil
		},
	}
	router := testutils.SetupRouter(&testutils.StubService{}, nil, fleet)
	token := testutils.TokenFor(t, "user-1", models.RoleViewer)

	w := testutils.PerformRequest(router, http.MethodGet, "/api/gps/vehicles", nil, testutils.AuthHeaders(token))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Camión 01")
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestVendorFailureMapsToBadGateway(t *testing.T) {
	fleet := &testutils.StubFleet{
		VehiclesFn: func(_ context.Context) ([]models.Vehicle, error) {
			return nil, apperr.New(apperr.KindExternalService, "error en respuesta de Navitel API")
		},
	}
	router := testutils.SetupRouter(&testutils.StubService{}, nil, fleet)
	token := testutils.TokenFor(t, "user-1", models.RoleViewer)

	w := testutils.PerformRequest(router, http.MethodGet, "/api/gps/vehicles", nil, testutils.AuthHeaders(token))

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "EXTERNAL_SERVICE_ERROR")
}

func TestCreateGeolink(t *testing.T) {
	fleet := &testutils.StubFleet{
		CreateGeolinkFn: func(_ context.Context, trackerID int64, label string) (int64, error) {
			assert.Equal(t, int64(101), trackerID)
			assert.Equal(t, "Camión 01", label)
			return 77, nil
		},
	}
	router := testutils.SetupRouter(&testutils.StubService{}, nil, fleet)
	token := testutils.TokenFor(t, "user-1", models.RoleUser)

	w := testutils.PerformRequest(router, http.MethodPost, "/api/gps/geolinks",
		models.GeolinkRequest{TrackerID: 101, Label: "Camión 01"},
		testutils.AuthHeaders(token))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":77`)
}
