package service

import (
	"context"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
	"github.com/eemerson/paybox-server/internal/storage"
)

// AddAttachments ingests files for a record and appends the resulting
// URLs. The per-record cap is checked against what is already stored.
func (s *DefaultService) AddAttachments(ctx context.Context, actorID string, paymentID int64, files []storage.File) ([]storage.FileResult, *models.PaymentRecord, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, apperr.New(apperr.KindNotFound, "registro no encontrado")
	}
	if err := requireEdit(actor, record.CreatedBy); err != nil {
		return nil, nil, err
	}

	results, err := s.ingestor.Ingest(ctx, len(record.Attachments), files)
	if err != nil {
		return nil, nil, err
	}

	changed := false
	for _, r := range results {
		if r.Err == nil {
			record.Attachments = append(record.Attachments, r.URL)
			changed = true
		}
	}
	if changed {
		if err := s.repo.UpdatePayment(ctx, record); err != nil {
			return results, nil, err
		}
	}
	return results, record, nil
}

// RemoveAttachment deletes one attachment blob and drops its URL from
// the record.
func (s *DefaultService) RemoveAttachment(ctx context.Context, actorID string, paymentID int64, fileURL string) (*models.PaymentRecord, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.New(apperr.KindNotFound, "registro no encontrado")
	}
	if err := requireEdit(actor, record.CreatedBy); err != nil {
		return nil, err
	}

	found := false
	kept := record.Attachments[:0]
	for _, url := range record.Attachments {
		if url == fileURL {
			found = true
			continue
		}
		kept = append(kept, url)
	}
	if !found {
		return nil, apperr.New(apperr.KindNotFound, "el comprobante no pertenece a este registro")
	}
	record.Attachments = kept

	if err := s.ingestor.Remove(ctx, fileURL); err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePayment(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}
