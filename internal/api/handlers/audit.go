package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/audit"
	"github.com/vendorwatch/vendorwatch/internal/models"
	"github.com/vendorwatch/vendorwatch/internal/tenant"
)

type AuditHandler struct {
	audits *audit.Service
}

func NewAuditHandler(audits *audit.Service) *AuditHandler {
	return &AuditHandler{audits: audits}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	qs := r.URL.Query()

	q := audit.Query{
		OrganizationID: p.OrganizationID,
		EntityType:     qs.Get("entityType"),
		Action:         models.AuditAction(qs.Get("action")),
	}
	if s := qs.Get("entityId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			writeBadRequest(w, "entityId must be a UUID")
			return
		}
		q.EntityID = &id
	}
	if s := qs.Get("userId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			writeBadRequest(w, "userId must be a UUID")
			return
		}
		q.UserID = &id
	}
	q.Page, _ = strconv.Atoi(qs.Get("page"))
	q.Limit, _ = strconv.Atoi(qs.Get("limit"))

	logs, total, err := h.audits.List(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	writeList(w, logs, newMeta(total, q.Page, q.Limit))
}

func (h *AuditHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.audits.GetByID(r.Context(), p.OrganizationID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, entry)
}
