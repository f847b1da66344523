package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/dmarkovic/invoice-tracking/internal"
	"github.com/dmarkovic/invoice-tracking/internal/accesspolicy"
	"github.com/dmarkovic/invoice-tracking/internal/auth"
	"github.com/dmarkovic/invoice-tracking/internal/invoice"
	"github.com/dmarkovic/invoice-tracking/internal/masterdata"
	"github.com/dmarkovic/invoice-tracking/internal/report"
	"github.com/dmarkovic/invoice-tracking/internal/transport/middleware"
	"github.com/dmarkovic/invoice-tracking/internal/transport/swagger"
	"github.com/dmarkovic/invoice-tracking/internal/user"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Invoice    *invoice.Handler
	CostType   *masterdata.Handler[masterdata.CostType]
	CostCenter *masterdata.Handler[masterdata.CostCenter]
	Supplier   *masterdata.Handler[masterdata.Supplier]
	Report     *report.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, cfg *internal.Config, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/create-user", h.User.CreateUser)
		r.Post("/token", h.Auth.Token)
	})

	// everything below requires a valid bearer token
	router.Group(func(pr chi.Router) {
		pr.Use(h.Auth.Middleware)

		pr.Route("/user", func(r chi.Router) {
			r.Get("/current_user", h.User.GetCurrentUser)
			r.Put("/change-password", h.User.ChangePassword)
			r.Put("/update_profile", h.User.UpdateProfile)
		})

		pr.Route("/invoices", func(r chi.Router) {
			r.Get("/", h.Invoice.ListInvoices)
			r.Post("/create-invoice", h.Invoice.CreateInvoice)
			r.Get("/{id}", h.Invoice.GetInvoice)
			r.Put("/{id}", h.Invoice.UpdateInvoice)
			r.Delete("/{id}", h.Invoice.DeleteInvoice)
		})

		pr.Route("/admin", func(r chi.Router) {
			r.Use(accesspolicy.AdminOnly(logger))

			r.Get("/invoices", h.Invoice.ListInvoices)
			r.Put("/invoices/{id}", h.Invoice.UpdateInvoice)
			r.Delete("/invoices/{id}", h.Invoice.DeleteInvoice)

			r.Get("/report", h.Report.GenerateReport)

			registerMasterData(r, "/type_of_cost", h.CostType)
			registerMasterData(r, "/cost_center", h.CostCenter)
			registerMasterData(r, "/supplier", h.Supplier)

			r.Route("/users", func(ur chi.Router) {
				ur.Get("/", h.User.ListUsers)
				ur.Post("/", h.User.CreateUser)
				ur.Get("/{id}", h.User.GetUser)
				ur.Put("/{id}", h.User.UpdateUser)
				ur.Delete("/{id}", h.User.DeactivateUser)
			})
		})
	})
}

func registerMasterData[T masterdata.Resource](r chi.Router, path string, h *masterdata.Handler[T]) {
	r.Route(path, func(mr chi.Router) {
		mr.Get("/", h.List)
		mr.Post("/", h.Create)
		mr.Get("/{id}", h.Get)
		mr.Put("/{id}", h.Update)
		mr.Delete("/{id}", h.Delete)
	})
}
