package auth

import (
	"net/http"

	"github.com/dmarkovic/invoice-tracking/internal/transport"
	"github.com/dmarkovic/invoice-tracking/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(dto TokenRequestDTO) (TokenResponse, error)
	ValidateAccessToken(tokenString string) (*Caller, error)
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

// Token handles POST /auth/token. The body is form-encoded, matching the
// OAuth2 password-grant shape.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	dto := TokenRequestDTO{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	tokens, err := h.Service.Authenticate(dto)
	if err != nil {
		h.Logger.Warn("authentication failed", "username", dto.Username, "error", err)
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, tokens)
}

// Middleware resolves the bearer token into a Caller and stores it in the
// request context. Requests without a valid token are rejected here.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		caller, err := h.Service.ValidateAccessToken(token)
		if err != nil {
			h.Logger.Warn("token validation failed", "error", err)
			h.WriteAppError(w, err)
			return
		}

		ctx := ContextWithCaller(r.Context(), caller)
		ctx = logger.With(ctx, "user_id", caller.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
