package service

import (
	"github.com/eemerson/paybox-server/internal/apperr"
	"github.com/eemerson/paybox-server/internal/models"
)

// EffectivePermissions resolves what a user may actually do. The role
// dominates the stored booleans: admin and developer get everything,
// viewer gets nothing, and only for the user role do the stored flags
// decide.
func EffectivePermissions(user *models.UserProfile) models.Permissions {
	switch user.Role {
	case models.RoleAdmin, models.RoleDeveloper:
		return models.Permissions{CanCreate: true, CanEdit: true, CanDelete: true}
	case models.RoleUser:
		return user.Permissions
	default:
		return models.Permissions{}
	}
}

// ownsOrElevated reports whether the user may touch a record created by
// createdBy. Admin and developer bypass the ownership check.
func ownsOrElevated(user *models.UserProfile, createdBy string) bool {
	if user.Role == models.RoleAdmin || user.Role == models.RoleDeveloper {
		return true
	}
	return user.ID == createdBy
}

func requireCreate(user *models.UserProfile) error {
	if !EffectivePermissions(user).CanCreate {
		return apperr.New(apperr.KindAuthorization, "no tienes permiso para crear registros")
	}
	return nil
}

func requireEdit(user *models.UserProfile, createdBy string) error {
	if !EffectivePermissions(user).CanEdit {
		return apperr.New(apperr.KindAuthorization, "no tienes permiso para editar registros")
	}
	if !ownsOrElevated(user, createdBy) {
		return apperr.New(apperr.KindAuthorization, "solo puedes editar tus propios registros")
	}
	return nil
}

func requireDelete(user *models.UserProfile, createdBy string) error {
	if !EffectivePermissions(user).CanDelete {
		return apperr.New(apperr.KindAuthorization, "no tienes permiso para eliminar registros")
	}
	if !ownsOrElevated(user, createdBy) {
		return apperr.New(apperr.KindAuthorization, "solo puedes eliminar tus propios registros")
	}
	return nil
}

func requireAdmin(user *models.UserProfile) error {
	if user.Role != models.RoleAdmin && user.Role != models.RoleDeveloper {
		return apperr.New(apperr.KindAuthorization, "se requiere rol de administrador")
	}
	return nil
}
