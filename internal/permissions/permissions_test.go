package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/models"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		role models.Role
		cap  Capability
		want bool
	}{
		{models.RoleMember, TodoCreate, true},
		{models.RoleMember, TodoUpdate, true},
		{models.RoleMember, TodoDelete, false},
		{models.RoleMember, PetFeed, true},
		{models.RoleMember, MessageCreate, true},
		{models.RoleAdmin, TodoDelete, true},
		{models.RoleOwner, TodoDelete, true},
		{models.RoleOwner, PetUpdate, true},
		{models.Role("guest"), TodoCreate, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.cap), func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.role, tt.cap))
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(models.RoleAdmin, TodoDelete))
	assert.ErrorIs(t, Check(models.RoleMember, TodoDelete), apperr.ErrInsufficientPermission)
}
