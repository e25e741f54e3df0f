package auth

import (
	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

type Permission string

const (
	PermOrgDelete           Permission = "org:delete"
	PermUserManage          Permission = "user:manage"
	PermSupplierCreate      Permission = "supplier:create"
	PermSupplierRead        Permission = "supplier:read"
	PermSupplierUpdate      Permission = "supplier:update"
	PermSupplierDelete      Permission = "supplier:delete"
	PermRiskLevelUpdate     Permission = "risk_level:update"
	PermRiskPolicyConfigure Permission = "risk_policy:configure"
	PermNotesAdd            Permission = "notes:add"
	PermAuditRead           Permission = "audit:read"
)

// rolePermissions is the complete capability table, computed once at init and
// never mutated. Every role has an entry.
//
// Owner deliberately lacks audit:read: audit visibility belongs to Admin and
// Auditor so the trail stays independent from the role that can delete the
// whole organisation.
var rolePermissions = map[models.Role]map[Permission]struct{}{
	models.RoleOwner: permSet(
		PermOrgDelete,
		PermUserManage,
		PermSupplierCreate,
		PermSupplierRead,
		PermSupplierUpdate,
		PermSupplierDelete,
		PermRiskLevelUpdate,
		PermRiskPolicyConfigure,
		PermNotesAdd,
	),
	models.RoleAdmin: permSet(
		PermSupplierCreate,
		PermSupplierRead,
		PermSupplierUpdate,
		PermSupplierDelete,
		PermRiskPolicyConfigure,
		PermAuditRead,
	),
	models.RoleAnalyst: permSet(
		PermSupplierRead,
		PermRiskLevelUpdate,
		PermNotesAdd,
	),
	models.RoleAuditor: permSet(
		PermSupplierRead,
		PermAuditRead,
	),
}

func permSet(perms ...Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// HasPermission reports whether a role holds a capability. Pure O(1) lookup,
// safe on every request.
func HasPermission(role models.Role, perm Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// HasPermissionString accepts a role as an arbitrary-case string from an
// external boundary. Unrecognized roles get no permissions; authorization
// defaults to deny rather than erroring.
func HasPermissionString(role string, perm Permission) bool {
	r, ok := models.ParseRole(role)
	if !ok {
		return false
	}
	return HasPermission(r, perm)
}

// CanAccess combines the permission check with tenant isolation. The org
// comparison runs first and short-circuits to denial on mismatch, regardless
// of how powerful the role is.
func CanAccess(role models.Role, callerOrgID, resourceOrgID uuid.UUID, perm Permission) bool {
	if callerOrgID != resourceOrgID {
		return false
	}
	return HasPermission(role, perm)
}
