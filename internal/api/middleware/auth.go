package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vendorwatch/vendorwatch/internal/auth"
	"github.com/vendorwatch/vendorwatch/internal/tenant"
)

// Authenticator resolves a bearer token to a principal and stores it on the
// request context. Everything behind it can assume an authenticated caller.
type Authenticator struct {
	issuer *auth.TokenIssuer
}

func NewAuthenticator(issuer *auth.TokenIssuer) *Authenticator {
	return &Authenticator{issuer: issuer}
}

func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeStatus(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		p, err := a.issuer.Verify(token)
		if err != nil {
			writeStatus(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(tenant.WithPrincipal(r.Context(), p)))
	})
}

// RequirePermission guards a route subtree with a single permission check.
// This always concerns the caller's own organisation, so the failure is an
// honest 403 rather than a 404.
func RequirePermission(perm auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := tenant.PrincipalFromContext(r.Context())
			if !ok {
				writeStatus(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !p.Can(perm) {
				writeStatus(w, http.StatusForbidden, "You do not have permission to perform this action")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
