package service

import (
	"context"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

// ListSystemUpdates returns the announcement feed, newest first.
func (s *DefaultService) ListSystemUpdates(ctx context.Context) ([]models.SystemUpdate, error) {
	return s.repo.ListSystemUpdates(ctx)
}

// CreateSystemUpdate publishes an announcement. Admin only.
func (s *DefaultService) CreateSystemUpdate(ctx context.Context, actorID string, req models.SystemUpdateRequest) (*models.SystemUpdate, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	upd := &models.SystemUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CreatedBy:   &actor.ID,
	}
	if upd.Category == "" {
		upd.Category = "general"
	}
	setOptional(&upd.Version, req.Version)

	if err := s.repo.CreateSystemUpdate(ctx, upd); err != nil {
		return nil, err
	}
	return upd, nil
}

// UpdateSystemUpdate edits an announcement. Admin only.
func (s *DefaultService) UpdateSystemUpdate(ctx context.Context, actorID, id string, req models.SystemUpdateRequest) (*models.SystemUpdate, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	upd, err := s.repo.GetSystemUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd == nil {
		return nil, apperr.New(apperr.KindNotFound, "anuncio no encontrado")
	}

	upd.Title = req.Title
	upd.Description = req.Description
	if req.Category != "" {
		upd.Category = req.Category
	}
	upd.Version = nil
	setOptional(&upd.Version, req.Version)

	if err := s.repo.UpdateSystemUpdate(ctx, upd); err != nil {
		return nil, err
	}
	return upd, nil
}

// DeleteSystemUpdate removes an announcement. Admin only.
func (s *DefaultService) DeleteSystemUpdate(ctx context.Context, actorID, id string) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.repo.DeleteSystemUpdate(ctx, id)
}
