package report

import (
	"net/http"

	"github.com/dmarkovic/invoice-tracking/internal/auth"
	"github.com/dmarkovic/invoice-tracking/internal/transport"
	"github.com/dmarkovic/invoice-tracking/pkg/logger"
)

type ServiceAPI interface {
	Generate(caller *auth.Caller) (ReportResponse, error)
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

// GenerateReport handles GET /admin/report.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	response, err := h.Service.Generate(caller)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, response)
}
