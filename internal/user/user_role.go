package user

import "fmt"

// Role is the closed set of roles in the approval hierarchy. Keeping it
// a dedicated type forces every guard to switch over the known values
// instead of comparing raw strings.
type Role string

const (
	RoleGeneral Role = "general"
	RoleHR      Role = "hr"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleGeneral, RoleHR, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleGeneral, RoleHR, RoleAdmin:
		return true
	}
	return false
}

// CanApprove reports whether r may approve or reject a request
// submitted by requester. The hierarchy is a strict two-level chain:
// hr handles general requests, admin handles hr requests. Admin
// submissions never reach this guard because they auto-approve
// at creation.
func (r Role) CanApprove(requester Role) bool {
	switch r {
	case RoleGeneral:
		return false
	case RoleHR:
		return requester == RoleGeneral
	case RoleAdmin:
		return requester == RoleHR
	}
	return false
}
