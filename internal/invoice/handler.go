package invoice

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/dmarkovic/invoice-tracking/internal/auth"
	"github.com/dmarkovic/invoice-tracking/internal/transport"
	"github.com/dmarkovic/invoice-tracking/pkg/logger"
)

type ServiceAPI interface {
	Create(caller *auth.Caller, dto InvoiceDTO) (*Invoice, error)
	GetByID(caller *auth.Caller, id int64) (*Invoice, error)
	ListForCaller(caller *auth.Caller) ([]*Invoice, error)
	Update(caller *auth.Caller, id int64, dto InvoiceDTO) (*Invoice, error)
	Delete(caller *auth.Caller, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.Default()),
		Service:     svc,
	}
}

// ListInvoices handles GET /invoices/ and GET /admin/invoices. The service
// scopes the listing by the caller's role.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	invoices, err := h.Service.ListForCaller(caller)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToResponseSlice(invoices))
}

// GetInvoice handles GET /invoices/{id}.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.invoiceIDFromURL(w, r)
	if !ok {
		return
	}

	inv, err := h.Service.GetByID(caller, id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, inv.ToResponse())
}

// CreateInvoice handles POST /invoices/create-invoice.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto InvoiceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := h.Service.Create(caller, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, inv.ToResponse())
}

// UpdateInvoice handles PUT /invoices/{id} and PUT /admin/invoices/{id}.
func (h *Handler) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.invoiceIDFromURL(w, r)
	if !ok {
		return
	}

	var dto InvoiceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.Service.Update(caller, id, dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteInvoice handles DELETE /invoices/{id} and DELETE /admin/invoices/{id}.
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.invoiceIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(caller, id); err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invoiceIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid invoice id")
		return 0, false
	}
	return id, true
}
