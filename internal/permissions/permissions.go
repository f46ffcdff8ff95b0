// Package permissions maps organization roles to capabilities.
package permissions

import (
	"fmt"

	"github.com/mmynk/petpals/internal/apperr"
	"github.com/mmynk/petpals/internal/models"
)

// Capability names a guarded action.
type Capability string

const (
	TodoCreate    Capability = "todo:create"
	TodoUpdate    Capability = "todo:update"
	TodoDelete    Capability = "todo:delete"
	PetFeed       Capability = "pet:feed"
	PetUpdate     Capability = "pet:update"
	MessageCreate Capability = "message:create"
)

var memberCapabilities = []Capability{TodoCreate, TodoUpdate, PetFeed, PetUpdate, MessageCreate}

var grants = map[models.Role]map[Capability]bool{
	models.RoleMember: set(memberCapabilities...),
	models.RoleAdmin:  set(append(memberCapabilities, TodoDelete)...),
	models.RoleOwner:  set(append(memberCapabilities, TodoDelete)...),
}

func set(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}

// Allowed reports whether role grants capability.
func Allowed(role models.Role, capability Capability) bool {
	return grants[role][capability]
}

// Check returns apperr.ErrInsufficientPermission if role lacks capability.
func Check(role models.Role, capability Capability) error {
	if !Allowed(role, capability) {
		return fmt.Errorf("role %q cannot %s: %w", role, capability, apperr.ErrInsufficientPermission)
	}
	return nil
}
