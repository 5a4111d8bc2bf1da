package model

import "fmt"

// Role is the closed set of actor roles. Scope rules dispatch on this enum
// (single source of truth in service.EventScope) instead of ad hoc string
// comparison per endpoint.
type Role string

const (
	RoleOrganizer       Role = "ORGANIZER"
	RoleSchoolOrganizer Role = "SCHOOL_ORGANIZER"
	RoleSchoolAdmin     Role = "SCHOOL_ADMIN"
	RoleSuperAdmin      Role = "SUPER_ADMIN"
)

// ParseRole validates a role string coming from an identity token.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOrganizer, RoleSchoolOrganizer, RoleSchoolAdmin, RoleSuperAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is the authenticated actor as supplied by the identity provider.
// Immutable per request; SchoolID is empty unless the role is school-scoped.
type Principal struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	SchoolID string `json:"school_id,omitempty"`
}
