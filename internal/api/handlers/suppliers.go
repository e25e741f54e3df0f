package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
	"github.com/vendorwatch/vendorwatch/internal/supplier"
	"github.com/vendorwatch/vendorwatch/internal/tenant"
)

type SupplierHandler struct {
	suppliers *supplier.Service
}

func NewSupplierHandler(suppliers *supplier.Service) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers}
}

func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	qs := r.URL.Query()

	q := supplier.ListQuery{
		Name:      qs.Get("name"),
		Category:  qs.Get("category"),
		RiskLevel: qs.Get("riskLevel"),
		Status:    qs.Get("status"),
		SortBy:    qs.Get("sortBy"),
		SortDesc:  qs.Get("sortOrder") == "desc",
	}
	q.Page, _ = strconv.Atoi(qs.Get("page"))
	q.Limit, _ = strconv.Atoi(qs.Get("limit"))

	suppliers, total, err := h.suppliers.List(r.Context(), p, q)
	if err != nil {
		writeError(w, err)
		return
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
	if suppliers == nil {
		suppliers = []models.Supplier{}
	}
	writeList(w, suppliers, newMeta(total, q.Page, q.Limit))
}

func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	sup, err := h.suppliers.GetByID(r.Context(), p, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sup)
}

type createSupplierRequest struct {
	Name            string  `json:"name"`
	Domain          string  `json:"domain"`
	Category        string  `json:"category"`
	RiskLevel       string  `json:"riskLevel"`
	Status          string  `json:"status"`
	ContractEndDate *string `json:"contractEndDate"`
	Notes           *string `json:"notes"`
}

func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())

	var req createSupplierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	in := supplier.CreateInput{
		Name:      req.Name,
		Domain:    req.Domain,
		Category:  req.Category,
		RiskLevel: req.RiskLevel,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if req.ContractEndDate != nil {
		t, err := parseDate(*req.ContractEndDate)
		if err != nil {
			writeBadRequest(w, "contractEndDate must be an ISO date")
			return
		}
		in.ContractEndDate = &t
	}

	created, err := h.suppliers.Create(r.Context(), p, in, r.RemoteAddr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

type updateSupplierRequest struct {
	Name            *string `json:"name"`
	Domain          *string `json:"domain"`
	Category        *string `json:"category"`
	Status          *string `json:"status"`
	ContractEndDate *string `json:"contractEndDate"`
	RiskLevel       *string `json:"riskLevel"`
	Notes           *string `json:"notes"`
}

func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	var req updateSupplierRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	// A pointer field decodes to nil both when the key is absent and when it
	// is an explicit null; the raw key set tells the two apart for
	// contractEndDate, where null means "clear the date".
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	in := supplier.UpdateInput{
		Name:      req.Name,
		Domain:    req.Domain,
		Category:  req.Category,
		Status:    req.Status,
		RiskLevel: req.RiskLevel,
		Notes:     req.Notes,
	}
	if v, ok := raw["contractEndDate"]; ok {
		if string(v) == "null" {
			in.ClearContractEndDate = true
		} else if req.ContractEndDate != nil {
			t, err := parseDate(*req.ContractEndDate)
			if err != nil {
				writeBadRequest(w, "contractEndDate must be an ISO date")
				return
			}
			in.ContractEndDate = &t
		}
	}

	updated, err := h.suppliers.Update(r.Context(), p, id, in, r.RemoteAddr)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := tenant.PrincipalFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.suppliers.Delete(r.Context(), p, id, r.RemoteAddr); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Supplier deleted")
}

// pathID parses the {id} route segment. A malformed id maps to not-found: the
// resource space is opaque and a bad id is simply a resource that cannot exist.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, models.ErrNotFound
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
