package tenant

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Scope sets the PostgreSQL session variable backing the row-level-security
// policies (see migrations). This is defense-in-depth only: every query in the
// store layer already carries its own organization_id predicate, which is the
// authoritative isolation mechanism.
//
// Failure to set the variable is non-fatal but is logged so operators can tell
// when the secondary layer is not actually active.
type Scope struct {
	db *pgxpool.Pool
}

func NewScope(db *pgxpool.Pool) *Scope {
	return &Scope{db: db}
}

func (s *Scope) Apply(ctx context.Context, orgID string) {
	if s.db == nil {
		return
	}
	// Session-level set_config lands on whichever pooled connection Exec
	// happens to grab, and a later request may reuse a connection still
	// carrying another org's id. The RLS layer is therefore best-effort
	// across the pool; only the store layer's explicit organization_id
	// predicates are authoritative.
	_, err := s.db.Exec(ctx, "SELECT set_config('app.current_org_id', $1, false)", orgID)
	if err != nil {
		slog.Warn("org-scope session variable not set; relying on application-level scoping",
			"org_id", orgID, "error", err)
	}
}

// Middleware applies the session scope for every authenticated request.
func (s *Scope) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFromContext(r.Context()); ok {
			s.Apply(r.Context(), p.OrganizationID.String())
		}
		next.ServeHTTP(w, r)
	})
}
