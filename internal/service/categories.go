package service

import (
	"context"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

// ListCategories returns all expense categories.
func (s *DefaultService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

// CreateCategory adds an expense category. Admin only: categories drive
// form validation for everyone.
func (s *DefaultService) CreateCategory(ctx context.Context, actorID string, req models.CreateCategoryRequest) (*models.Category, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	category := &models.Category{
		Code:           req.Code,
		Name:           req.Name,
		Nature:         req.Nature,
		Subgroup:       req.Subgroup,
		CostCenter:     req.CostCenter,
		RequiredFields: req.RequiredFields,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory replaces a category definition. Admin only.
func (s *DefaultService) UpdateCategory(ctx context.Context, actorID string, id int64, req models.CreateCategoryRequest) (*models.Category, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperr.New(apperr.KindNotFound, "categoría no encontrada")
	}

	category.Code = req.Code
	category.Name = req.Name
	category.Nature = req.Nature
	category.Subgroup = req.Subgroup
	category.CostCenter = req.CostCenter
	category.RequiredFields = req.RequiredFields

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category. Admin only.
func (s *DefaultService) DeleteCategory(ctx context.Context, actorID string, id int64) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := requireAdmin(actor); err != nil {
		return err
	}

	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperr.New(apperr.KindNotFound, "categoría no encontrada")
	}
	return s.repo.DeleteCategory(ctx, id)
}
