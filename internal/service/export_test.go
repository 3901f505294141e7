package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/logger"
	"github.com/eemerson/paybox-server/internal/models"
	"github.com/eemerson/paybox-server/internal/repository"
)

// exportRepo fakes just the repository methods the export path touches.
type exportRepo struct {
	repository.Repository

	pending    []models.PaymentRecord
	users      []models.UserProfile
	categories []models.Category

	markedIDs   []int64
	markBatchID int64
	markErr     error
}

func (r *exportRepo) ListPendingPayments(_ context.Context) ([]models.PaymentRecord, error) {
	return r.pending, nil
}

func (r *exportRepo) ListUsers(_ context.Context) ([]models.UserProfile, error) {
	return r.users, nil
}

func (r *exportRepo) ListCategories(_ context.Context) ([]models.Category, error) {
	return r.categories, nil
}

func (r *exportRepo) MarkPaymentsExported(_ context.Context, ids []int64, batchID int64, _ time.Time) (int64, error) {
	if r.markErr != nil {
		return 0, r.markErr
	}
	r.markedIDs = ids
	r.markBatchID = batchID
	r.pending = nil
	return int64(len(ids)), nil
}

func (r *exportRepo) CountExportStates(_ context.Context) (int, int, error) {
	return len(r.pending), len(r.markedIDs), nil
}

func newExportService(repo *exportRepo, now time.Time) *DefaultService {
	s := NewDefaultService(repo, nil, "test-secret", logger.NewWithWriter(&strings.Builder{}))
	s.now = func() time.Time { return now }
	return s
}

func desc(v string) *string { return &v }

func pendingFixture() *exportRepo {
	return &exportRepo{
		pending: []models.PaymentRecord{
			{
				ID:         1,
				PaidAt:     time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
				Payee:      "Grifo San Pedro",
				Amount:     120.5,
				CategoryID: 10,
				CreatedBy:  "user-1",
			},
			{
				ID:          2,
				PaidAt:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				Payee:       "Peaje Ancón",
				Description: desc("Peaje ida y vuelta"),
				Amount:      28,
				CategoryID:  99, // Unknown category
				CreatedBy:   "user-gone",
			},
		},
		users: []models.UserProfile{
			{ID: "user-1", FullName: "María Quispe"},
		},
		categories: []models.Category{
			{ID: 10, Name: "Combustible"},
		},
	}
}

func TestRunExportCommitsBatch(t *testing.T) {
	repo := pendingFixture()
	now := time.Date(2025, 3, 11, 15, 30, 0, 0, time.UTC)
	s := newExportService(repo, now)

	result, err := s.RunExport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Gastos_Odoo_11-03-2025_2_registros.xlsx", result.Filename)
	assert.Equal(t, now.UnixMilli(), result.BatchID)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []int64{1, 2}, repo.markedIDs)
	assert.Equal(t, result.BatchID, repo.markBatchID)

	f, err := excelize.OpenReader(bytes.NewReader(result.Content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Gastos")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Oldest payment first, payee as the description fallback.
	assert.Equal(t, []string{"María Quispe", "Grifo San Pedro", "09/03/2025", "Combustible", "Empleado (a reembolsar)", "120.50"}, rows[1])
	// Missing creator and category fall back to display placeholders.
	assert.Equal(t, []string{"Desconocido", "Peaje ida y vuelta", "10/03/2025", "Sin categoría", "Empleado (a reembolsar)", "28.00"}, rows[2])
}

func TestRunExportEmptyBatch(t *testing.T) {
	repo := pendingFixture()
	repo.pending = nil
	s := newExportService(repo, time.Now())

	_, err := s.RunExport(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindEmptyBatch))
}

func TestRunExportIsIdempotent(t *testing.T) {
	repo := pendingFixture()
	s := newExportService(repo, time.Date(2025, 3, 11, 15, 30, 0, 0, time.UTC))

	_, err := s.RunExport(context.Background())
	require.NoError(t, err)

	// The first run consumed the batch; a second run has nothing to export.
	_, err = s.RunExport(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindEmptyBatch))
}

func TestRunExportCommitFailureReturnsNoFile(t *testing.T) {
	repo := pendingFixture()
	repo.markErr = errors.New("connection reset")
	s := newExportService(repo, time.Now())

	result, err := s.RunExport(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	// Nothing was marked, the records stay pending for the next run.
	assert.Empty(t, repo.markedIDs)
}

func TestExportStats(t *testing.T) {
	repo := pendingFixture()
	s := newExportService(repo, time.Now())

	stats, err := s.ExportStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 0, stats.Exported)
	assert.Equal(t, 2, stats.Total)
}
