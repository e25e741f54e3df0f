package auth

import (
	"testing"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

func TestDecideSupplierUpdate(t *testing.T) {
	full := SupplierUpdateGrants{FullUpdate: true}
	riskOnly := SupplierUpdateGrants{RiskLevel: true}
	notesOnly := SupplierUpdateGrants{Notes: true}
	riskAndNotes := SupplierUpdateGrants{RiskLevel: true, Notes: true}

	allFields := SupplierUpdateFields{
		Name: true, Domain: true, Category: true, Status: true,
		ContractEndDate: true, RiskLevel: true, Notes: true,
	}

	tests := []struct {
		name   string
		grants SupplierUpdateGrants
		fields SupplierUpdateFields
		want   SupplierUpdatePlan
	}{
		{
			name:   "full grant applies everything targeted",
			grants: full,
			fields: allFields,
			want: SupplierUpdatePlan{
				Name: FieldApply, Domain: FieldApply, Category: FieldApply,
				Status: FieldApply, ContractEndDate: FieldApply,
				RiskLevel: FieldApply, Notes: FieldApply,
			},
		},
		{
			name:   "full grant ignores untargeted fields",
			grants: full,
			fields: SupplierUpdateFields{Name: true},
			want: SupplierUpdatePlan{
				Name: FieldApply, Domain: FieldIgnore, Category: FieldIgnore,
				Status: FieldIgnore, ContractEndDate: FieldIgnore,
				RiskLevel: FieldIgnore, Notes: FieldIgnore,
			},
		},
		{
			name:   "risk grant applies risk, silently drops structural",
			grants: riskOnly,
			fields: SupplierUpdateFields{Name: true, Status: true, RiskLevel: true},
			want: SupplierUpdatePlan{
				Name: FieldIgnore, Domain: FieldIgnore, Category: FieldIgnore,
				Status: FieldIgnore, ContractEndDate: FieldIgnore,
				RiskLevel: FieldApply, Notes: FieldIgnore,
			},
		},
		{
			name:   "risk grant rejects targeted notes",
			grants: riskOnly,
			fields: SupplierUpdateFields{RiskLevel: true, Notes: true},
			want: SupplierUpdatePlan{
				Name: FieldIgnore, Domain: FieldIgnore, Category: FieldIgnore,
				Status: FieldIgnore, ContractEndDate: FieldIgnore,
				RiskLevel: FieldApply, Notes: FieldReject,
			},
		},
		{
			name:   "notes grant rejects targeted risk level",
			grants: notesOnly,
			fields: SupplierUpdateFields{RiskLevel: true, Notes: true},
			want: SupplierUpdatePlan{
				Name: FieldIgnore, Domain: FieldIgnore, Category: FieldIgnore,
				Status: FieldIgnore, ContractEndDate: FieldIgnore,
				RiskLevel: FieldReject, Notes: FieldApply,
			},
		},
		{
			name:   "risk and notes grants apply both gated fields",
			grants: riskAndNotes,
			fields: allFields,
			want: SupplierUpdatePlan{
				Name: FieldIgnore, Domain: FieldIgnore, Category: FieldIgnore,
				Status: FieldIgnore, ContractEndDate: FieldIgnore,
				RiskLevel: FieldApply, Notes: FieldApply,
			},
		},
		{
			name:   "untargeted gated field is never rejected",
			grants: notesOnly,
			fields: SupplierUpdateFields{Notes: true},
			want: SupplierUpdatePlan{
				Name: FieldIgnore, Domain: FieldIgnore, Category: FieldIgnore,
				Status: FieldIgnore, ContractEndDate: FieldIgnore,
				RiskLevel: FieldIgnore, Notes: FieldApply,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecideSupplierUpdate(tt.grants, tt.fields)
			if got != tt.want {
				t.Errorf("DecideSupplierUpdate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlanRejected(t *testing.T) {
	if (SupplierUpdatePlan{RiskLevel: FieldReject}).Rejected() == false {
		t.Error("rejected risk level not reported")
	}
	if (SupplierUpdatePlan{Notes: FieldReject}).Rejected() == false {
		t.Error("rejected notes not reported")
	}
	if (SupplierUpdatePlan{Name: FieldIgnore, RiskLevel: FieldApply}).Rejected() {
		t.Error("plan without rejects reported as rejected")
	}
}

func TestSupplierUpdateGrantsFor(t *testing.T) {
	orgA := uuid.New()

	tests := []struct {
		role models.Role
		want SupplierUpdateGrants
	}{
		{models.RoleOwner, SupplierUpdateGrants{FullUpdate: true, RiskLevel: true, Notes: true}},
		{models.RoleAdmin, SupplierUpdateGrants{FullUpdate: true}},
		{models.RoleAnalyst, SupplierUpdateGrants{RiskLevel: true, Notes: true}},
		{models.RoleAuditor, SupplierUpdateGrants{}},
	}
	for _, tt := range tests {
		p := Principal{Role: tt.role, OrganizationID: orgA}
		if got := SupplierUpdateGrantsFor(p, orgA); got != tt.want {
			t.Errorf("grants for %s = %+v, want %+v", tt.role, got, tt.want)
		}
	}

	// Cross-tenant: no grants at all, whatever the role.
	p := Principal{Role: models.RoleOwner, OrganizationID: orgA}
	if got := SupplierUpdateGrantsFor(p, uuid.New()); !got.None() {
		t.Errorf("cross-tenant grants = %+v, want none", got)
	}
}
