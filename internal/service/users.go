package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

// ListUsers returns all profiles. Admin only.
func (s *DefaultService) ListUsers(ctx context.Context, actorID string) ([]models.UserProfile, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.repo.ListUsers(ctx)
}

// CreateUser provisions an account with an explicit role. Admin only.
func (s *DefaultService) CreateUser(ctx context.Context, actorID string, req models.CreateUserRequest) (*models.UserProfile, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	if !models.ValidRole(req.Role) {
		return nil, apperr.Newf(apperr.KindValidation, "rol inválido: %s", req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.New(apperr.KindValidation, "el correo ya está registrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.UserProfile{
		Email:    email,
		FullName: req.FullName,
		Password: string(hash),
		Role:     req.Role,
	}
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("email", email).Str("role", string(req.Role)).Msg("user created")
	return user, nil
}

// UpdateUser changes a profile's name, role or stored permission flags.
// Admin only.
func (s *DefaultService) UpdateUser(ctx context.Context, actorID, targetID string, req models.UpdateUserRequest) (*models.UserProfile, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.New(apperr.KindNotFound, "usuario no encontrado")
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			return nil, apperr.Newf(apperr.KindValidation, "rol inválido: %s", *req.Role)
		}
		user.Role = *req.Role
	}
	if req.Permissions != nil {
		user.Permissions = *req.Permissions
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
