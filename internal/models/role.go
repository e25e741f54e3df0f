package models

import "strings"

// Role is a closed enumeration. Adding a role is a code change, never data.
type Role string

const (
	RoleOwner   Role = "Owner"
	RoleAdmin   Role = "Admin"
	RoleAnalyst Role = "Analyst"
	RoleAuditor Role = "Auditor"
)

// Roles lists every valid role, in no particular order.
var Roles = []Role{RoleOwner, RoleAdmin, RoleAnalyst, RoleAuditor}

// ParseRole normalizes an arbitrary-case role string from an external
// boundary. Unrecognized values return ok=false; callers must treat that as
// "no permissions", not as an error to raise.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "owner":
		return RoleOwner, true
	case "admin":
		return RoleAdmin, true
	case "analyst":
		return RoleAnalyst, true
	case "auditor":
		return RoleAuditor, true
	}
	return "", false
}
