package auth

import (
	"testing"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

var allPermissions = []Permission{
	PermOrgDelete,
	PermUserManage,
	PermSupplierCreate,
	PermSupplierRead,
	PermSupplierUpdate,
	PermSupplierDelete,
	PermRiskLevelUpdate,
	PermRiskPolicyConfigure,
	PermNotesAdd,
	PermAuditRead,
}

func TestRolePermissionTable(t *testing.T) {
	granted := map[models.Role][]Permission{
		models.RoleOwner: {
			PermOrgDelete, PermUserManage,
			PermSupplierCreate, PermSupplierRead, PermSupplierUpdate, PermSupplierDelete,
			PermRiskLevelUpdate, PermRiskPolicyConfigure, PermNotesAdd,
		},
		models.RoleAdmin: {
			PermSupplierCreate, PermSupplierRead, PermSupplierUpdate, PermSupplierDelete,
			PermRiskPolicyConfigure, PermAuditRead,
		},
		models.RoleAnalyst: {
			PermSupplierRead, PermRiskLevelUpdate, PermNotesAdd,
		},
		models.RoleAuditor: {
			PermSupplierRead, PermAuditRead,
		},
	}

	for role, perms := range granted {
		want := make(map[Permission]bool, len(perms))
		for _, p := range perms {
			want[p] = true
		}
		for _, p := range allPermissions {
			if got := HasPermission(role, p); got != want[p] {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", role, p, got, want[p])
			}
		}
	}
}

func TestOwnerCannotReadAudit(t *testing.T) {
	if HasPermission(models.RoleOwner, PermAuditRead) {
		t.Error("Owner must not hold audit:read")
	}
}

func TestEveryRoleHasEntry(t *testing.T) {
	for _, role := range models.Roles {
		if _, ok := rolePermissions[role]; !ok {
			t.Errorf("role %s missing from permission table", role)
		}
	}
}

func TestHasPermissionString(t *testing.T) {
	tests := []struct {
		role string
		perm Permission
		want bool
	}{
		{"Owner", PermOrgDelete, true},
		{"owner", PermOrgDelete, true},
		{"OWNER", PermUserManage, true},
		{"  admin  ", PermAuditRead, true},
		{"superuser", PermSupplierRead, false},
		{"", PermSupplierRead, false},
		{"Analyst", PermSupplierDelete, false},
	}
	for _, tt := range tests {
		if got := HasPermissionString(tt.role, tt.perm); got != tt.want {
			t.Errorf("HasPermissionString(%q, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestCanAccessTenantIsolation(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()

	// Cross-tenant denial is absolute, even for the strongest role holding
	// the permission in its own organisation.
	for _, role := range models.Roles {
		for _, perm := range allPermissions {
			if CanAccess(role, orgA, orgB, perm) {
				t.Errorf("CanAccess(%s) granted %s across organisations", role, perm)
			}
		}
	}

	if !CanAccess(models.RoleOwner, orgA, orgA, PermOrgDelete) {
		t.Error("Owner denied org:delete in own organisation")
	}
	if CanAccess(models.RoleAuditor, orgA, orgA, PermSupplierCreate) {
		t.Error("Auditor granted supplier:create")
	}
}

func TestPrincipalCanAccess(t *testing.T) {
	orgA := uuid.New()
	p := Principal{UserID: uuid.New(), Role: models.RoleAdmin, OrganizationID: orgA}

	if !p.CanAccess(orgA, PermSupplierUpdate) {
		t.Error("Admin denied supplier:update in own organisation")
	}
	if p.CanAccess(uuid.New(), PermSupplierUpdate) {
		t.Error("Admin granted supplier:update across organisations")
	}
	if p.Can(PermOrgDelete) {
		t.Error("Admin granted org:delete")
	}
}
