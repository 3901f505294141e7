package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eemerson/paybox-server/internal/api/testutils"
	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

func TestCreatePayment(t *testing.T) {
	svc := &testutils.StubService{
		CreatePaymentFn: func(_ context.Context, actorID string, req models.CreatePaymentRequest) (*models.PaymentRecord, error) {
			assert.Equal(t, "user-1", actorID)
			assert.Equal(t, "Grifo San Pedro", req.Payee)
			return &models.PaymentRecord{
				ID:         1,
				Payee:      req.Payee,
				Amount:     req.Amount,
				Currency:   models.CurrencySoles,
				CategoryID: req.CategoryID,
				CreatedBy:  actorID,
			}, nil
		},
	}
	router := testutils.SetupRouter(svc, nil, nil)
	token := testutils.TokenFor(t, "user-1", models.RoleUser)

	w := testutils.PerformRequest(router, http.MethodPost, "/api/payments",
		models.CreatePaymentRequest{
			PaidAt:     time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			Payee:      "Grifo San Pedro",
			Amount:     120.5,
			CategoryID: 10,
			DynamicFields: map[string]string{
				"placa":       "ABC-123",
				"kilometraje": "154302",
			},
		},
		testutils.AuthHeaders(token))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"payee":"Grifo San Pedro"`)
}

func TestCreatePaymentValidationMapsTo400(t *testing.T) {
	svc := &testutils.StubService{
		CreatePaymentFn: func(_ context.Context, _ string, _ models.CreatePaymentRequest) (*models.PaymentRecord, error) {
			return nil, apperr.New(apperr.KindValidation, "faltan campos obligatorios de la categoría: kilometraje")
		},
	}
	router := testutils.SetupRouter(svc, nil, nil)
	token := testutils.TokenFor(t, "user-1", models.RoleUser)

	w := testutils.PerformRequest(router, http.MethodPost, "/api/payments",
		models.CreatePaymentRequest{
			PaidAt:     time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			Payee:      "Grifo San Pedro",
			Amount:     120.5,
			CategoryID: 10,
		},
		testutils.AuthHeaders(token))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(t, w.Body.String(), "kilometraje")
}

func TestDeletePaymentForbiddenMapsTo403(t *testing.T) {
	svc := &testutils.StubService{
		DeletePaymentFn: func(_ context.Context, _ string, _ int64) error {
			return apperr.New(apperr.KindAuthorization, "solo puedes eliminar tus propios registros")
		},
	}
	router := testutils.SetupRouter(svc, nil, nil)
	token := testutils.TokenFor(t, "user-2", models.RoleUser)

	w := testutils.PerformRequest(router, http.MethodDelete, "/api/payments/1", nil, testutils.AuthHeaders(token))

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestListPaymentsFilter(t *testing.T) {
	svc := &testutils.StubService{
		ListPaymentsFn: func(_ context.Context, exported *bool) ([]models.PaymentRecord, error) {
			require.NotNil(t, exported)
			assert.False(t, *exported)
			return []models.PaymentRecord{{ID: 1, Payee: "Peaje Ancón"}}, nil
		},
	}
	router := testutils.SetupRouter(svc, nil, nil)
	token := testutils.TokenFor(t, "user-1", models.RoleViewer)

	w := testutils.PerformRequest(router, http.MethodGet, "/api/payments?exported=false", nil, testutils.AuthHeaders(token))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Peaje Ancón")
}
