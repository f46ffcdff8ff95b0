package models

// Role is a member's standing inside an organization.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// Organization is the tenant: the isolation unit for todos, the pet, history
// and messages.
type Organization struct {
	// ID is the unique identifier for the organization (UUID format).
	ID string

	// Name is the display name (e.g., "Flatmates", "Platform Team").
	Name string

	// CreatedBy is the user ID of the creator, who becomes the owner.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the organization was created.
	CreatedAt int64
}

// Membership links a user to an organization with a role.
type Membership struct {
	UserID string
	OrgID  string
	Role   Role

	// OrgName and DisplayName are denormalized on read for convenience.
	OrgName     string
	DisplayName string

	JoinedAt int64
}
