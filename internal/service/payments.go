package service

import (
	"context"
	"strings"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/fields"
	"github.com/eemerson/paybox-server/internal/models"
)

// validatePaymentFields checks amount, currency and the category's
// dynamic field requirements. Called for create and for any update that
// touches the category or the dynamic values.
func (s *DefaultService) validatePaymentFields(ctx context.Context, record *models.PaymentRecord) error {
	if record.Amount <= 0 {
		return apperr.New(apperr.KindValidation, "el monto debe ser mayor a cero")
	}
	if record.Currency != models.CurrencySoles && record.Currency != models.CurrencyDolares {
		return apperr.Newf(apperr.KindValidation, "moneda inválida: %s", record.Currency)
	}

	category, err := s.repo.GetCategory(ctx, record.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return apperr.New(apperr.KindValidation, "la categoría seleccionada no existe")
	}

	if missing := fields.Missing(category.RequiredFields, record.DynamicFields); len(missing) > 0 {
		return apperr.Newf(apperr.KindValidation,
			"faltan campos obligatorios de la categoría: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CreatePayment validates and stores a new expense record.
func (s *DefaultService) CreatePayment(ctx context.Context, actorID string, req models.CreatePaymentRequest) (*models.PaymentRecord, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireCreate(actor); err != nil {
		return nil, err
	}

	record := &models.PaymentRecord{
		PaidAt:        req.PaidAt,
		Payee:         strings.TrimSpace(req.Payee),
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		CategoryID:    req.CategoryID,
		DynamicFields: req.DynamicFields,
		Attachments:   req.Attachments,
		CreatedBy:     actor.ID,
	}
	if record.Currency == "" {
		record.Currency = models.CurrencySoles
	}
	if record.PaymentMethod == "" {
		record.PaymentMethod = "Efectivo"
	}
	setOptional(&record.BankAccount, req.BankAccount)
	setOptional(&record.DocumentType, req.DocumentType)
	setOptional(&record.TaxID, req.TaxID)
	setOptional(&record.DocumentNumber, req.DocumentNumber)
	setOptional(&record.Description, req.Description)

	if err := s.validatePaymentFields(ctx, record); err != nil {
		return nil, err
	}

	if err := s.repo.CreatePayment(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetPayment returns one record by id.
func (s *DefaultService) GetPayment(ctx context.Context, id int64) (*models.PaymentRecord, error) {
	record, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.New(apperr.KindNotFound, "registro no encontrado")
	}
	return record, nil
}

// ListPayments returns records, optionally filtered by export state.
func (s *DefaultService) ListPayments(ctx context.Context, exported *bool) ([]models.PaymentRecord, error) {
	return s.repo.ListPayments(ctx, exported)
}

// UpdatePayment applies a partial update to a record. Export state
// cannot be changed here; it only moves through RunExport.
func (s *DefaultService) UpdatePayment(ctx context.Context, actorID string, id int64, req models.UpdatePaymentRequest) (*models.PaymentRecord, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperr.New(apperr.KindNotFound, "registro no encontrado")
	}
	if err := requireEdit(actor, record.CreatedBy); err != nil {
		return nil, err
	}

	if req.PaidAt != nil {
		record.PaidAt = *req.PaidAt
	}
	if req.Payee != nil {
		record.Payee = strings.TrimSpace(*req.Payee)
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
	}
	if req.Currency != nil {
		record.Currency = *req.Currency
	}
	if req.PaymentMethod != nil {
		record.PaymentMethod = strings.TrimSpace(*req.PaymentMethod)
	}
	if req.BankAccount != nil {
		record.BankAccount = req.BankAccount
	}
	if req.DocumentType != nil {
		record.DocumentType = req.DocumentType
	}
	if req.TaxID != nil {
		record.TaxID = req.TaxID
	}
	if req.DocumentNumber != nil {
		record.DocumentNumber = req.DocumentNumber
	}
	if req.Description != nil {
		record.Description = req.Description
	}
	if req.CategoryID != nil && *req.CategoryID != record.CategoryID {
		// Category switch: keep values still required, drop the rest.
		newCategory, err := s.repo.GetCategory(ctx, *req.CategoryID)
		if err != nil {
			return nil, err
		}
		if newCategory == nil {
			return nil, apperr.New(apperr.KindValidation, "la categoría seleccionada no existe")
		}
		record.CategoryID = newCategory.ID
		record.DynamicFields = fields.MergeOnCategoryChange(newCategory.RequiredFields, record.DynamicFields)
	}
	if req.DynamicFields != nil {
		record.DynamicFields = req.DynamicFields
	}
	if req.Attachments != nil {
		record.Attachments = req.Attachments
	}

	if err := s.validatePaymentFields(ctx, record); err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePayment(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// DeletePayment removes a record and its attachment blobs.
func (s *DefaultService) DeletePayment(ctx context.Context, actorID string, id int64) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}

	record, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return err
	}
	if record == nil {
		return apperr.New(apperr.KindNotFound, "registro no encontrado")
	}
	if err := requireDelete(actor, record.CreatedBy); err != nil {
		return err
	}

	if err := s.repo.DeletePayment(ctx, id); err != nil {
		return err
	}

	// Blob cleanup is best effort: the record is already gone.
	for _, url := range record.Attachments {
		if err := s.ingestor.Remove(ctx, url); err != nil {
			s.log.Warn().Err(err).Str("url", url).Msg("attachment cleanup failed")
		}
	}
	return nil
}

func setOptional(dst **string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = &v
	}
}
