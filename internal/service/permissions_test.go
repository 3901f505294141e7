package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eemerson/paybox-server/internal/models"
)

func TestEffectivePermissions(t *testing.T) {
	tests := []struct {
		name   string
		role   models.Role
		stored models.Permissions
		want   models.Permissions
	}{
		{
			name:   "admin overrides stored false",
			role:   models.RoleAdmin,
			stored: models.Permissions{},
			want:   models.Permissions{CanCreate: true, CanEdit: true, CanDelete: true},
		},
		{
			name:   "developer overrides stored false",
			role:   models.RoleDeveloper,
			stored: models.Permissions{},
			want:   models.Permissions{CanCreate: true, CanEdit: true, CanDelete: true},
		},
		{
			name:   "user keeps stored flags",
			role:   models.RoleUser,
			stored: models.Permissions{CanCreate: true, CanDelete: true},
			want:   models.Permissions{CanCreate: true, CanDelete: true},
		},
		{
			name:   "viewer overrides stored true",
			role:   models.RoleViewer,
			stored: models.Permissions{CanCreate: true, CanEdit: true, CanDelete: true},
			want:   models.Permissions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &models.UserProfile{Role: tt.role, Permissions: tt.stored}
			assert.Equal(t, tt.want, EffectivePermissions(user))
		})
	}
}

func TestOwnershipGate(t *testing.T) {
	owner := &models.UserProfile{
		ID:          "user-1",
		Role:        models.RoleUser,
		Permissions: models.Permissions{CanEdit: true, CanDelete: true},
	}
	other := &models.UserProfile{
		ID:          "user-2",
		Role:        models.RoleUser,
		Permissions: models.Permissions{CanEdit: true, CanDelete: true},
	}
	admin := &models.UserProfile{ID: "admin-1", Role: models.RoleAdmin}

	assert.NoError(t, requireEdit(owner, "user-1"))
	assert.Error(t, requireEdit(other, "user-1"))
	assert.NoError(t, requireEdit(admin, "user-1"))

	assert.NoError(t, requireDelete(owner, "user-1"))
	assert.Error(t, requireDelete(other, "user-1"))
	assert.NoError(t, requireDelete(admin, "user-1"))
}
