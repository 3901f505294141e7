package service

import (
	"context"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/export"
	"github.com/eemerson/paybox-server/internal/models"
)

// ExportResult is a finished export batch: the workbook plus its
// commit metadata.
type ExportResult struct {
	Filename string
	Content  []byte
	BatchID  int64
	Count    int
}

// RunExport renders every pending record into one workbook and marks
// the batch exported. The commit is keyed by the ids captured at read
// time, so records created mid-run wait for the next batch, and a
// failed commit returns no file: the records stay pending and the next
// run regenerates them.
func (s *DefaultService) RunExport(ctx context.Context) (*ExportResult, error) {
	pending, err := s.repo.ListPendingPayments(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, apperr.New(apperr.KindEmptyBatch, "no hay registros pendientes de exportar")
	}

	userNames, err := s.userNameIndex(ctx)
	if err != nil {
		return nil, err
	}
	categoryNames, err := s.categoryNameIndex(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]export.Row, 0, len(pending))
	ids := make([]int64, 0, len(pending))
	for _, record := range pending {
		employee, ok := userNames[record.CreatedBy]
		if !ok {
			employee = "Desconocido"
		}
		categoryName, ok := categoryNames[record.CategoryID]
		if !ok {
			categoryName = "Sin categoría"
		}
		description := record.Payee
		if record.Description != nil && *record.Description != "" {
			description = *record.Description
		}

		rows = append(rows, export.Row{
			Employee:    employee,
			Description: description,
			PaidAt:      record.PaidAt,
			Category:    categoryName,
			Amount:      record.Amount,
		})
		ids = append(ids, record.ID)
	}

	content, err := export.Render(rows)
	if err != nil {
		return nil, err
	}

	exportedAt := s.now().UTC()
	batchID := exportedAt.UnixMilli()

	affected, err := s.repo.MarkPaymentsExported(ctx, ids, batchID, exportedAt)
	if err != nil {
		// No file without a committed batch.
		return nil, err
	}
	if affected != int64(len(ids)) {
		// A concurrent run claimed part of the batch first.
		s.log.Warn().
			Int64("batchId", batchID).
			Int("expected", len(ids)).
			Int64("marked", affected).
			Msg("export batch partially claimed elsewhere")
	}

	s.log.Info().Int64("batchId", batchID).Int("records", len(rows)).Msg("export batch committed")

	return &ExportResult{
		Filename: export.Filename(exportedAt, len(rows)),
		Content:  content,
		BatchID:  batchID,
		Count:    len(rows),
	}, nil
}

// ExportStats returns the pending/exported/total counters for the
// dashboard.
func (s *DefaultService) ExportStats(ctx context.Context) (*models.ExportStats, error) {
	pending, exported, err := s.repo.CountExportStates(ctx)
	if err != nil {
		return nil, err
	}
	return &models.ExportStats{
		Pending:  pending,
		Exported: exported,
		Total:    pending + exported,
	}, nil
}

func (s *DefaultService) userNameIndex(ctx context.Context) (map[string]string, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(users))
	for _, u := range users {
		index[u.ID] = u.FullName
	}
	return index, nil
}

func (s *DefaultService) categoryNameIndex(ctx context.Context) (map[int64]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[int64]string, len(categories))
	for _, c := range categories {
		index[c.ID] = c.Name
	}
	return index, nil
}
