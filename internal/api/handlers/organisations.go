package handlers

import (
	"net/http"

	"github.com/vendorwatch/vendorwatch/internal/org"
	"github.com/vendorwatch/vendorwatch/internal/tenant"
)

type OrgHandler struct {
	orgs *org.Service
}

func NewOrgHandler(orgs *org.Service) *OrgHandler {
	return &OrgHandler{orgs: orgs}
}

// DeleteCurrent tears down the caller's entire organisation: suppliers, users,
// the audit trail and the organisation row itself, atomically. The caller's
// token keeps validating until it expires but references nothing.
func (h *OrgHandler) DeleteCurrent(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())

	if err := h.orgs.DeleteCurrent(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Organisation deleted")
}
