package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/logger"
	"github.com/eemerson/paybox-server/internal/models"
	"github.com/eemerson/paybox-server/internal/repository"
)

type paymentRepo struct {
	repository.Repository

	actor    *models.UserProfile
	category *models.Category
	created  *models.PaymentRecord
	existing *models.PaymentRecord
	updated  *models.PaymentRecord
}

func (r *paymentRepo) GetUserByID(_ context.Context, _ string) (*models.UserProfile, error) {
	return r.actor, nil
}

func (r *paymentRepo) GetCategory(_ context.Context, id int64) (*models.Category, error) {
	if r.category != nil && r.category.ID == id {
		return r.category, nil
	}
	return nil, nil
}

func (r *paymentRepo) CreatePayment(_ context.Context, record *models.PaymentRecord) error {
	record.ID = 1
	r.created = record
	return nil
}

func (r *paymentRepo) GetPayment(_ context.Context, _ int64) (*models.PaymentRecord, error) {
	return r.existing, nil
}

func (r *paymentRepo) UpdatePayment(_ context.Context, record *models.PaymentRecord) error {
	r.updated = record
	return nil
}

func newPaymentService(repo *paymentRepo) *DefaultService {
	return NewDefaultService(repo, nil, "test-secret", logger.NewWithWriter(&strings.Builder{}))
}

func fuelRequest() models.CreatePaymentRequest {
	return models.CreatePaymentRequest{
		PaidAt:     time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		Payee:      "Grifo San Pedro",
		Amount:     120.5,
		CategoryID: 10,
		DynamicFields: map[string]string{
			"placa":       "ABC-123",
			"kilometraje": "154302",
		},
	}
}

func fuelRepo() *paymentRepo {
	return &paymentRepo{
		actor: &models.UserProfile{
			ID:          "user-1",
			Role:        models.RoleUser,
			Permissions: models.Permissions{CanCreate: true, CanEdit: true},
		},
		category: &models.Category{
			ID:             10,
			Name:           "Combustible",
			RequiredFields: []string{"placa", "kilometraje"},
		},
	}
}

func TestCreatePaymentDefaults(t *testing.T) {
	repo := fuelRepo()
	s := newPaymentService(repo)

	record, err := s.CreatePayment(context.Background(), "user-1", fuelRequest())
	require.NoError(t, err)

	assert.Equal(t, models.CurrencySoles, record.Currency)
	assert.Equal(t, "Efectivo", record.PaymentMethod)
	assert.Equal(t, "user-1", record.CreatedBy)
	assert.False(t, record.Exported)
	require.NotNil(t, repo.created)
}

func TestCreatePaymentMissingDynamicField(t *testing.T) {
	repo := fuelRepo()
	s := newPaymentService(repo)

	req := fuelRequest()
	req.DynamicFields = map[string]string{"placa": "ABC-123", "kilometraje": "  "}

	_, err := s.CreatePayment(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "kilometraje")
	assert.Nil(t, repo.created)
}

func TestCreatePaymentUnknownCategory(t *testing.T) {
	repo := fuelRepo()
	s := newPaymentService(repo)

	req := fuelRequest()
	req.CategoryID = 999

	_, err := s.CreatePayment(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreatePaymentRejectsNonPositiveAmount(t *testing.T) {
	repo := fuelRepo()
	s := newPaymentService(repo)

	req := fuelRequest()
	req.Amount = 0

	_, err := s.CreatePayment(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreatePaymentWithoutPermission(t *testing.T) {
	repo := fuelRepo()
	repo.actor.Permissions.CanCreate = false
	s := newPaymentService(repo)

	_, err := s.CreatePayment(context.Background(), "user-1", fuelRequest())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))
}

func TestUpdatePaymentCategoryChangeMergesFields(t *testing.T) {
	repo := fuelRepo()
	repo.existing = &models.PaymentRecord{
		ID:         1,
		PaidAt:     time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
		Payee:      "Grifo San Pedro",
		Amount:     120.5,
		Currency:   models.CurrencySoles,
		CategoryID: 10,
		DynamicFields: models.DynamicFields{
			"placa":       "ABC-123",
			"kilometraje": "154302",
		},
		CreatedBy: "user-1",
	}

	// The new category keeps "placa" but drops "kilometraje".
	tollCategory := &models.Category{
		ID:             20,
		Name:           "Peajes",
		RequiredFields: []string{"placa"},
	}
	repo.category = tollCategory

	s := newPaymentService(repo)

	newID := int64(20)
	record, err := s.UpdatePayment(context.Background(), "user-1", 1, models.UpdatePaymentRequest{
		CategoryID: &newID,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20), record.CategoryID)
	assert.Equal(t, "ABC-123", record.DynamicFields["placa"])
	_, dropped := record.DynamicFields["kilometraje"]
	assert.False(t, dropped)
}
