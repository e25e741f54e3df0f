package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/audit"
	"github.com/vendorwatch/vendorwatch/internal/auth"
	"github.com/vendorwatch/vendorwatch/internal/models"
)

// Store is the user persistence contract, organisation-scoped throughout.
// Audited mutations write the row and the audit entry in one transaction.
type Store interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.User, error)
	GetActiveByEmail(ctx context.Context, email string) (*models.User, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.User, error)
	EmailTaken(ctx context.Context, orgID uuid.UUID, email string, excludeID uuid.UUID) (bool, error)
	CountActiveOwners(ctx context.Context, orgID uuid.UUID) (int, error)
	Create(ctx context.Context, u *models.User, entry models.AuditLog) (*models.User, error)
	Update(ctx context.Context, orgID, id uuid.UUID, values UpdateValues, entry models.AuditLog) (*models.User, error)
	Delete(ctx context.Context, orgID, id uuid.UUID, entry models.AuditLog) error
}

type CreateInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      string
}

type UpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *string
	IsActive  *bool
	Password  *string
}

// UpdateValues is the validated column set handed to the store.
type UpdateValues struct {
	Email        *string
	FirstName    *string
	LastName     *string
	Role         *models.Role
	IsActive     *bool
	PasswordHash *string
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, p auth.Principal) ([]models.User, error) {
	if !p.CanAccess(p.OrganizationID, auth.PermUserManage) {
		return nil, models.ErrForbidden
	}
	return s.store.ListByOrganization(ctx, p.OrganizationID)
}

func (s *Service) GetByID(ctx context.Context, p auth.Principal, id uuid.UUID) (*models.User, error) {
	if !p.CanAccess(p.OrganizationID, auth.PermUserManage) {
		return nil, models.ErrForbidden
	}
	return s.store.GetByID(ctx, p.OrganizationID, id)
}

func (s *Service) Create(ctx context.Context, p auth.Principal, in CreateInput, ipAddress string) (*models.User, error) {
	if !p.CanAccess(p.OrganizationID, auth.PermUserManage) {
		return nil, models.ErrForbidden
	}

	verr := models.NewValidationError()
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		verr.Add("email", "a valid email is required")
	}
	if strings.TrimSpace(in.FirstName) == "" {
		verr.Add("firstName", "first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		verr.Add("lastName", "last name is required")
	}
	if len(in.Password) < 8 {
		verr.Add("password", "password must be at least 8 characters")
	}
	role, ok := models.ParseRole(in.Role)
	if !ok {
		verr.Add("role", "must be one of Owner, Admin, Analyst, Auditor")
	}
	if !verr.Empty() {
		return nil, verr
	}

	taken, err := s.store.EmailTaken(ctx, p.OrganizationID, email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: a user with this email already exists in your organisation", models.ErrConflict)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		OrganizationID: p.OrganizationID,
		Email:          email,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		PasswordHash:   hash,
		Role:           role,
		IsActive:       true,
	}

	entry, err := audit.NewEntry(p.OrganizationID, p.UserID, models.AuditCreate, models.EntityUser, uuid.Nil, nil, nil, ipAddress)
	if err != nil {
		return nil, err
	}
	return s.store.Create(ctx, u, entry)
}

func (s *Service) Update(ctx context.Context, p auth.Principal, id uuid.UUID, in UpdateInput, ipAddress string) (*models.User, error) {
	if !p.CanAccess(p.OrganizationID, auth.PermUserManage) {
		return nil, models.ErrForbidden
	}

	existing, err := s.store.GetByID(ctx, p.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	verr := models.NewValidationError()
	var values UpdateValues

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			verr.Add("email", "a valid email is required")
		} else {
			taken, err := s.store.EmailTaken(ctx, p.OrganizationID, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, fmt.Errorf("%w: a user with this email already exists in your organisation", models.ErrConflict)
			}
			values.Email = &email
		}
	}
	if in.FirstName != nil {
		name := strings.TrimSpace(*in.FirstName)
		if name == "" {
			verr.Add("firstName", "first name cannot be empty")
		}
		values.FirstName = &name
	}
	if in.LastName != nil {
		name := strings.TrimSpace(*in.LastName)
		if name == "" {
			verr.Add("lastName", "last name cannot be empty")
		}
		values.LastName = &name
	}
	if in.Role != nil {
		role, ok := models.ParseRole(*in.Role)
		if !ok {
			verr.Add("role", "must be one of Owner, Admin, Analyst, Auditor")
		}
		values.Role = &role
	}
	if in.IsActive != nil {
		values.IsActive = in.IsActive
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			verr.Add("password", "password must be at least 8 characters")
		} else {
			hash, err := auth.HashPassword(*in.Password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			values.PasswordHash = &hash
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	// Demoting or deactivating the last active Owner would leave the
	// organisation without anyone able to manage it.
	losesOwner := existing.Role == models.RoleOwner &&
		((values.Role != nil && *values.Role != models.RoleOwner) ||
			(values.IsActive != nil && !*values.IsActive))
	if losesOwner {
		owners, err := s.store.CountActiveOwners(ctx, p.OrganizationID)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, models.NewInvariantError("Cannot demote or deactivate the last Owner of the organisation")
		}
	}

	entry, err := audit.NewEntry(p.OrganizationID, p.UserID, models.AuditUpdate, models.EntityUser, id, existing, nil, ipAddress)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, p.OrganizationID, id, values, entry)
}

// Delete removes a user from the organisation. A user can never delete their
// own account, and the last Owner cannot be removed.
func (s *Service) Delete(ctx context.Context, p auth.Principal, id uuid.UUID, ipAddress string) error {
	if !p.CanAccess(p.OrganizationID, auth.PermUserManage) {
		return models.ErrForbidden
	}
	if id == p.UserID {
		return models.NewInvariantError("You cannot delete your own account")
	}

	existing, err := s.store.GetByID(ctx, p.OrganizationID, id)
	if err != nil {
		return err
	}

	if existing.Role == models.RoleOwner {
		owners, err := s.store.CountActiveOwners(ctx, p.OrganizationID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return models.NewInvariantError("Cannot delete the last Owner of the organisation")
		}
	}

	entry, err := audit.NewEntry(p.OrganizationID, p.UserID, models.AuditDelete, models.EntityUser, id, existing, nil, ipAddress)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, p.OrganizationID, id, entry)
}

// Authenticate verifies credentials for login. Only active users match; the
// same generic error covers unknown email and wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.store.GetActiveByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, models.ErrUnauthorized
	}
	if !auth.VerifyPassword(password, u.PasswordHash) {
		return nil, models.ErrUnauthorized
	}
	return u, nil
}

// Profile returns the caller's own record; no permission needed beyond
// authentication.
func (s *Service) Profile(ctx context.Context, p auth.Principal) (*models.User, error) {
	return s.store.GetByID(ctx, p.OrganizationID, p.UserID)
}
