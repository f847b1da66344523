// Package accesspolicy holds the per-request authorization predicates. Every
// handler goes through these instead of repeating inline role checks.
package accesspolicy

import (
	"log/slog"
	"net/http"

	"github.com/dmarkovic/invoice-tracking/internal"
	"github.com/dmarkovic/invoice-tracking/internal/auth"
)

// RequireAuthenticated fails when no caller was resolved for the request.
func RequireAuthenticated(caller *auth.Caller) error {
	if caller == nil {
		return internal.ErrInvalidToken
	}
	return nil
}

// RequireAdmin fails unless the caller holds the admin role.
func RequireAdmin(caller *auth.Caller) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return internal.ErrAdminRequired
	}
	return nil
}

// RequireOwnerOrAdmin fails unless the caller is an admin or owns the
// resource.
func RequireOwnerOrAdmin(caller *auth.Caller, resourceOwnerID int64) error {
	if err := RequireAuthenticated(caller); err != nil {
		return err
	}
	if caller.IsAdmin() || caller.ID == resourceOwnerID {
		return nil
	}
	return internal.ErrNotOwner
}

// AdminOnly is the middleware form of RequireAdmin for whole route groups.
func AdminOnly(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := auth.CallerFromContext(r.Context())
			if !ok || caller == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if err := RequireAdmin(caller); err != nil {
				logger.WarnContext(r.Context(), "access denied: admin role required",
					"user_id", caller.ID,
					"role", caller.Role)
				http.Error(w, "Forbidden: admin privileges required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
