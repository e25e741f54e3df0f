package supplier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/audit"
	"github.com/vendorwatch/vendorwatch/internal/auth"
	"github.com/vendorwatch/vendorwatch/internal/models"
)

// Store is the supplier persistence contract. Every read, update and delete is
// parametrized by the caller's organisation id; a row belonging to a foreign
// tenant is indistinguishable from a missing one (models.ErrNotFound).
//
// Mutations that carry an audit entry must write the entity and the entry in
// the same transaction: a committed mutation without its audit record is a
// worse defect than a failed request. Create fills the entry's entity id and
// After snapshot from the inserted row; Update fills After from the row as it
// stands post-update.
type Store interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Supplier, error)
	List(ctx context.Context, orgID uuid.UUID, q ListQuery) ([]models.Supplier, int, error)
	Create(ctx context.Context, sup *models.Supplier, entry models.AuditLog) (*models.Supplier, error)
	Update(ctx context.Context, orgID, id uuid.UUID, values UpdateValues, entry models.AuditLog) (*models.Supplier, error)
	Delete(ctx context.Context, orgID, id uuid.UUID, entry models.AuditLog) error
}

// Enqueuer hands an analysis job to the queue. The HTTP response is not sent
// until enqueue returns, so the caller's next read observes at least Pending.
type Enqueuer interface {
	EnqueueSupplierAnalysis(ctx context.Context, supplierID, orgID uuid.UUID) error
}

// ListQuery mirrors the API's pagination/filter/sort surface.
type ListQuery struct {
	Name      string
	Category  string
	RiskLevel string
	Status    string
	SortBy    string
	SortDesc  bool
	Page      int
	Limit     int
}

// sortColumns whitelists sortable columns; anything else falls back to
// created_at. Keyed by the API's camelCase names.
var sortColumns = map[string]string{
	"name":            "name",
	"domain":          "domain",
	"category":        "category",
	"riskLevel":       "risk_level",
	"status":          "status",
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
	"contractEndDate": "contract_end_date",
	"aiRiskScore":     "ai_risk_score",
}

// SortColumn resolves the whitelisted DB column for a sort key.
func SortColumn(key string) string {
	if col, ok := sortColumns[key]; ok {
		return col
	}
	return "created_at"
}

type CreateInput struct {
	Name            string
	Domain          string
	Category        string
	RiskLevel       string
	Status          string
	ContractEndDate *time.Time
	Notes           *string
}

// UpdateInput uses nil pointers for absent fields. An explicitly null
// contractEndDate is expressed via ClearContractEndDate.
type UpdateInput struct {
	Name                 *string
	Domain               *string
	Category             *string
	Status               *string
	ContractEndDate      *time.Time
	ClearContractEndDate bool
	RiskLevel            *string
	Notes                *string
}

// UpdateValues is the authorized, validated set of column changes handed to
// the store. ResetAICycle retires the previous analysis: status back to
// pending, score/analysis/error cleared.
type UpdateValues struct {
	Name            *string
	Domain          *string
	Category        *models.Category
	Status          *models.SupplierStatus
	ContractEndDate *time.Time
	ClearContract   bool
	RiskLevel       *models.RiskLevel
	Notes           *string
	ResetAICycle    bool
}

type Service struct {
	store Store
	queue Enqueuer
}

func NewService(store Store, queue Enqueuer) *Service {
	return &Service{store: store, queue: queue}
}

func (s *Service) GetByID(ctx context.Context, p auth.Principal, id uuid.UUID) (*models.Supplier, error) {
	if !p.CanAccess(p.OrganizationID, auth.PermSupplierRead) {
		return nil, models.ErrNotFound
	}
	return s.store.GetByID(ctx, p.OrganizationID, id)
}

func (s *Service) List(ctx context.Context, p auth.Principal, q ListQuery) ([]models.Supplier, int, error) {
	if !p.CanAccess(p.OrganizationID, auth.PermSupplierRead) {
		return nil, 0, models.ErrForbidden
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return s.store.List(ctx, p.OrganizationID, q)
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput, ipAddress string) (*models.Supplier, error) {
	if !p.CanAccess(p.OrganizationID, auth.PermSupplierCreate) {
		return nil, models.ErrForbidden
	}

	verr := models.NewValidationError()
	in.Name = strings.TrimSpace(in.Name)
	in.Domain = strings.TrimSpace(in.Domain)
	if in.Name == "" {
		verr.Add("name", "name is required")
	}
	if in.Domain == "" {
		verr.Add("domain", "domain is required")
	}
	category, ok := models.ParseCategory(in.Category)
	if !ok {
		verr.Add("category", "must be one of SaaS, Infrastructure, Consulting, Other")
	}
	riskLevel := models.RiskMedium
	if in.RiskLevel != "" {
		if riskLevel, ok = models.ParseRiskLevel(in.RiskLevel); !ok {
			verr.Add("riskLevel", "must be one of Critical, High, Medium, Low")
		}
	}
	status := models.StatusActive
	if in.Status != "" {
		if status, ok = models.ParseSupplierStatus(in.Status); !ok {
			verr.Add("status", "must be one of Active, Under Review, Inactive")
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	aiStatus := models.AIPending
	sup := &models.Supplier{
		OrganizationID:  p.OrganizationID,
		Name:            in.Name,
		Domain:          in.Domain,
		Category:        category,
		RiskLevel:       riskLevel,
		Status:          status,
		ContractEndDate: in.ContractEndDate,
		Notes:           in.Notes,
		AIStatus:        &aiStatus,
	}

	entry, err := audit.NewEntry(p.OrganizationID, p.UserID, models.AuditCreate, models.EntitySupplier, uuid.Nil, nil, nil, ipAddress)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, sup, entry)
	if err != nil {
		return nil, err
	}

	if err := s.queue.EnqueueSupplierAnalysis(ctx, created.ID, created.OrganizationID); err != nil {
		return nil, fmt.Errorf("enqueue analysis: %w", err)
	}
	return created, nil
}

// Update applies the three-grant partial-update policy. A caller holding any
// of supplier:update, risk_level:update or notes:add may hit this path; which
// fields actually apply is decided per-field by auth.DecideSupplierUpdate.
func (s *Service) Update(ctx context.Context, p auth.Principal, id uuid.UUID, in UpdateInput, ipAddress string) (*models.Supplier, error) {
	return s.update(ctx, p, auth.SupplierUpdateGrantsFor(p, p.OrganizationID), id, in, ipAddress)
}

// update carries the grant set explicitly so the authorization outcomes can
// be exercised independently of the role→grant mapping.
func (s *Service) update(ctx context.Context, p auth.Principal, grants auth.SupplierUpdateGrants, id uuid.UUID, in UpdateInput, ipAddress string) (*models.Supplier, error) {
	if grants.None() {
		// Not-found rather than forbidden: an unauthorized caller learns
		// nothing about whether the supplier exists.
		return nil, models.ErrNotFound
	}

	existing, err := s.store.GetByID(ctx, p.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	fields := auth.SupplierUpdateFields{
		Name:            in.Name != nil,
		Domain:          in.Domain != nil,
		Category:        in.Category != nil,
		Status:          in.Status != nil,
		ContractEndDate: in.ContractEndDate != nil || in.ClearContractEndDate,
		RiskLevel:       in.RiskLevel != nil,
		Notes:           in.Notes != nil,
	}
	plan := auth.DecideSupplierUpdate(grants, fields)
	if plan.Rejected() {
		field := "riskLevel"
		if plan.Notes == auth.FieldReject {
			field = "notes"
		}
		return nil, fmt.Errorf("%w: not allowed to update %s", models.ErrForbidden, field)
	}

	values, verr := buildUpdateValues(plan, in)
	if verr != nil {
		return nil, verr
	}

	entry, err := audit.NewEntry(p.OrganizationID, p.UserID, models.AuditUpdate, models.EntitySupplier, id, existing, nil, ipAddress)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, p.OrganizationID, id, values, entry)
	if err != nil {
		return nil, err
	}

	if values.ResetAICycle {
		if err := s.queue.EnqueueSupplierAnalysis(ctx, updated.ID, updated.OrganizationID); err != nil {
			return nil, fmt.Errorf("enqueue analysis: %w", err)
		}
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, p auth.Principal, id uuid.UUID, ipAddress string) error {
	if !p.CanAccess(p.OrganizationID, auth.PermSupplierDelete) {
		return models.ErrNotFound
	}

	existing, err := s.store.GetByID(ctx, p.OrganizationID, id)
	if err != nil {
		return err
	}

	entry, err := audit.NewEntry(p.OrganizationID, p.UserID, models.AuditDelete, models.EntitySupplier, id, existing, nil, ipAddress)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, p.OrganizationID, id, entry)
}

// buildUpdateValues validates and keeps only the fields the plan applies.
// Any applied change restarts the AI enrichment cycle: the previous analysis
// described a supplier that no longer exists in that form.
func buildUpdateValues(plan auth.SupplierUpdatePlan, in UpdateInput) (UpdateValues, error) {
	verr := models.NewValidationError()
	var values UpdateValues
	applied := false

	if plan.Name == auth.FieldApply {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			verr.Add("name", "name cannot be empty")
		}
		values.Name = &name
		applied = true
	}
	if plan.Domain == auth.FieldApply {
		domain := strings.TrimSpace(*in.Domain)
		if domain == "" {
			verr.Add("domain", "domain cannot be empty")
		}
		values.Domain = &domain
		applied = true
	}
	if plan.Category == auth.FieldApply {
		category, ok := models.ParseCategory(*in.Category)
		if !ok {
			verr.Add("category", "must be one of SaaS, Infrastructure, Consulting, Other")
		}
		values.Category = &category
		applied = true
	}
	if plan.Status == auth.FieldApply {
		status, ok := models.ParseSupplierStatus(*in.Status)
		if !ok {
			verr.Add("status", "must be one of Active, Under Review, Inactive")
		}
		values.Status = &status
		applied = true
	}
	if plan.ContractEndDate == auth.FieldApply {
		if in.ClearContractEndDate {
			values.ClearContract = true
		} else {
			values.ContractEndDate = in.ContractEndDate
		}
		applied = true
	}
	if plan.RiskLevel == auth.FieldApply {
		riskLevel, ok := models.ParseRiskLevel(*in.RiskLevel)
		if !ok {
			verr.Add("riskLevel", "must be one of Critical, High, Medium, Low")
		}
		values.RiskLevel = &riskLevel
		applied = true
	}
	if plan.Notes == auth.FieldApply {
		values.Notes = in.Notes
		applied = true
	}

	if !verr.Empty() {
		return UpdateValues{}, verr
	}
	values.ResetAICycle = applied
	return values, nil
}
