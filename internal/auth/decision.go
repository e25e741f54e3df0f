package auth

import (
	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

// Principal is the authenticated identity resolved by the authentication
// boundary. The core trusts this tuple as given.
type Principal struct {
	UserID         uuid.UUID
	Email          string
	Role           models.Role
	OrganizationID uuid.UUID
}

func (p Principal) Can(perm Permission) bool {
	return HasPermission(p.Role, perm)
}

// CanAccess applies tenant isolation before the permission check.
func (p Principal) CanAccess(resourceOrgID uuid.UUID, perm Permission) bool {
	return CanAccess(p.Role, p.OrganizationID, resourceOrgID, perm)
}

// SupplierUpdateGrants are the three independent grants under which a supplier
// update may be authorized.
type SupplierUpdateGrants struct {
	FullUpdate bool // supplier:update
	RiskLevel  bool // risk_level:update
	Notes      bool // notes:add
}

func SupplierUpdateGrantsFor(p Principal, resourceOrgID uuid.UUID) SupplierUpdateGrants {
	return SupplierUpdateGrants{
		FullUpdate: p.CanAccess(resourceOrgID, PermSupplierUpdate),
		RiskLevel:  p.CanAccess(resourceOrgID, PermRiskLevelUpdate),
		Notes:      p.CanAccess(resourceOrgID, PermNotesAdd),
	}
}

// None reports that no grant at all holds; the operation must then be denied
// as not-found, never forbidden, so resource existence is not confirmed.
func (g SupplierUpdateGrants) None() bool {
	return !g.FullUpdate && !g.RiskLevel && !g.Notes
}

// SupplierUpdateFields records which fields the request body targeted.
type SupplierUpdateFields struct {
	Name            bool
	Domain          bool
	Category        bool
	Status          bool
	ContractEndDate bool
	RiskLevel       bool
	Notes           bool
}

// FieldVerdict is a per-field authorization outcome.
type FieldVerdict int

const (
	FieldApply FieldVerdict = iota
	// FieldIgnore drops the field silently. Only the structural fields
	// (name, domain, category, status, contractEndDate) may be ignored for a
	// partial-grant caller.
	FieldIgnore
	// FieldReject fails the whole operation. Reserved for the gated fields
	// (riskLevel, notes) when the caller explicitly targeted one without
	// holding its grant: silently dropping a field the caller singled out
	// would be worse than refusing.
	FieldReject
)

// SupplierUpdatePlan is the per-field decision table for one update request.
type SupplierUpdatePlan struct {
	Name            FieldVerdict
	Domain          FieldVerdict
	Category        FieldVerdict
	Status          FieldVerdict
	ContractEndDate FieldVerdict
	RiskLevel       FieldVerdict
	Notes           FieldVerdict
}

// Rejected reports whether any targeted field must fail the operation.
func (p SupplierUpdatePlan) Rejected() bool {
	return p.RiskLevel == FieldReject || p.Notes == FieldReject
}

// DecideSupplierUpdate computes the decision table from the three grant
// booleans. Kept as an explicit table rather than nested conditionals so the
// asymmetric ignore-vs-reject policy stays auditable in one place.
func DecideSupplierUpdate(g SupplierUpdateGrants, f SupplierUpdateFields) SupplierUpdatePlan {
	structural := func(targeted bool) FieldVerdict {
		switch {
		case !targeted:
			return FieldIgnore
		case g.FullUpdate:
			return FieldApply
		default:
			return FieldIgnore
		}
	}
	gated := func(targeted, grant bool) FieldVerdict {
		switch {
		case !targeted:
			return FieldIgnore
		case g.FullUpdate || grant:
			return FieldApply
		default:
			return FieldReject
		}
	}
	return SupplierUpdatePlan{
		Name:            structural(f.Name),
		Domain:          structural(f.Domain),
		Category:        structural(f.Category),
		Status:          structural(f.Status),
		ContractEndDate: structural(f.ContractEndDate),
		RiskLevel:       gated(f.RiskLevel, g.RiskLevel),
		Notes:           gated(f.Notes, g.Notes),
	}
}
