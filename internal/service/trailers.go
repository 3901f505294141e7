package service

import (
	"context"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

// Defaults for a freshly registered service.
const (
	trailerStatusDefault = "POR COORDINAR"
	invoiceStatusDefault = "PENDIENTE"
)

// ListTrailerServices returns all logistics services, newest first.
func (s *DefaultService) ListTrailerServices(ctx context.Context) ([]models.TrailerService, error) {
	return s.repo.ListTrailerServices(ctx)
}

// CreateTrailerService registers a trailer/container service.
func (s *DefaultService) CreateTrailerService(ctx context.Context, actorID string, req models.TrailerServiceRequest) (*models.TrailerService, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireCreate(actor); err != nil {
		return nil, err
	}

	svc := &models.TrailerService{
		ServiceDate:   req.ServiceDate,
		Plate:         req.Plate,
		Client:        req.Client,
		ServiceType:   req.ServiceType,
		Status:        req.Status,
		InvoiceStatus: req.InvoiceStatus,
		CreatedBy:     actor.ID,
	}
	if svc.Status == "" {
		svc.Status = trailerStatusDefault
	}
	if svc.InvoiceStatus == "" {
		svc.InvoiceStatus = invoiceStatusDefault
	}
	setOptional(&svc.Notes, req.Notes)

	if err := s.repo.CreateTrailerService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// UpdateTrailerService replaces a service's mutable fields.
func (s *DefaultService) UpdateTrailerService(ctx context.Context, actorID string, id int64, req models.TrailerServiceRequest) (*models.TrailerService, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	svc, err := s.repo.GetTrailerService(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperr.New(apperr.KindNotFound, "servicio no encontrado")
	}
	if err := requireEdit(actor, svc.CreatedBy); err != nil {
		return nil, err
	}

	svc.ServiceDate = req.ServiceDate
	svc.Plate = req.Plate
	svc.Client = req.Client
	svc.ServiceType = req.ServiceType
	if req.Status != "" {
		svc.Status = req.Status
	}
	if req.InvoiceStatus != "" {
		svc.InvoiceStatus = req.InvoiceStatus
	}
	svc.Notes = nil
	setOptional(&svc.Notes, req.Notes)

	if err := s.repo.UpdateTrailerService(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// DeleteTrailerService removes a service.
func (s *DefaultService) DeleteTrailerService(ctx context.Context, actorID string, id int64) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}

	svc, err := s.repo.GetTrailerService(ctx, id)
	if err != nil {
		return err
	}
	if svc == nil {
		return apperr.New(apperr.KindNotFound, "servicio no encontrado")
	}
	if err := requireDelete(actor, svc.CreatedBy); err != nil {
		return err
	}
	return s.repo.DeleteTrailerService(ctx, id)
}
