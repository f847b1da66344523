package invoice_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dmarkovic/invoice-tracking/internal"
	"github.com/dmarkovic/invoice-tracking/internal/auth"
	"github.com/dmarkovic/invoice-tracking/internal/invoice"
	invoicePostgres "github.com/dmarkovic/invoice-tracking/internal/invoice/postgres"
	"github.com/dmarkovic/invoice-tracking/internal/masterdata"
	masterdataPostgres "github.com/dmarkovic/invoice-tracking/internal/masterdata/postgres"
	"github.com/dmarkovic/invoice-tracking/internal/user"
)

var _ = Describe("Invoice Handler Integration", func() {
	var (
		db      *gorm.DB
		router  *chi.Mux
		caller  *auth.Caller
		slogger *slog.Logger
	)

	withCaller := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.ContextWithCaller(r.Context(), caller)))
		})
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&user.User{},
			&masterdata.CostType{},
			&masterdata.CostCenter{},
			&masterdata.Supplier{},
			&invoice.Invoice{},
		)
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Create(&masterdata.CostType{CostCode: 100, CostName: "Travel"}).Error).To(Succeed())
		Expect(db.Create(&masterdata.CostCenter{CostCenterCode: 10, CostCenterName: "Engineering"}).Error).To(Succeed())
		Expect(db.Create(&masterdata.Supplier{SupplierName: "Acme Corp"}).Error).To(Succeed())

		costTypes := masterdata.NewService[masterdata.CostType](
			masterdataPostgres.NewCostTypeRepository(db), internal.ErrCostTypeNotFound, nil, slogger)
		costCenters := masterdata.NewService[masterdata.CostCenter](
			masterdataPostgres.NewCostCenterRepository(db), internal.ErrCostCenterNotFound, nil, slogger)
		suppliers := masterdata.NewService[masterdata.Supplier](
			masterdataPostgres.NewSupplierRepository(db), internal.ErrSupplierNotFound, nil, slogger)

		service := invoice.NewService(
			invoicePostgres.NewInvoiceRepository(db),
			costTypes, costCenters, suppliers, nil, slogger)
		handler := invoice.NewHandler(service)

		caller = &auth.Caller{ID: 10, Username: "johndoe", Role: "user", IsActive: true}

		router = chi.NewRouter()
		router.Use(withCaller)
		router.Get("/invoices/", handler.ListInvoices)
		router.Post("/invoices/create-invoice", handler.CreateInvoice)
		router.Get("/invoices/{id}", handler.GetInvoice)
		router.Put("/invoices/{id}", handler.UpdateInvoice)
		router.Delete("/invoices/{id}", handler.DeleteInvoice)
	})

	createInvoice := func(body invoice.InvoiceDTO) *httptest.ResponseRecorder {
		payload, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		req := httptest.NewRequest(http.MethodPost, "/invoices/create-invoice", bytes.NewReader(payload))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should create an invoice and return 201 with the owner set", func() {
		w := createInvoice(invoice.InvoiceDTO{
			CostCodeID:    1,
			CostCenterID:  1,
			SupplierID:    1,
			NettoAmount:   150.50,
			Date:          "2022-05-17",
			InvoiceNumber: "INV-001",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))

		var resp invoice.InvoiceResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.ID).To(Equal(int64(1)))
		Expect(resp.UserID).To(Equal(int64(10)))
		Expect(resp.Date).To(Equal("2022-05-17"))
	})

	It("should return 400 for a malformed date", func() {
		w := createInvoice(invoice.InvoiceDTO{
			CostCodeID:    1,
			CostCenterID:  1,
			SupplierID:    1,
			NettoAmount:   150.50,
			Date:          "17.05.2022",
			InvoiceNumber: "INV-001",
		})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should return 404 for a dangling cost type reference", func() {
		w := createInvoice(invoice.InvoiceDTO{
			CostCodeID:    99,
			CostCenterID:  1,
			SupplierID:    1,
			NettoAmount:   150.50,
			Date:          "2022-05-17",
			InvoiceNumber: "INV-001",
		})
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	Context("with an existing invoice", func() {
		BeforeEach(func() {
			w := createInvoice(invoice.InvoiceDTO{
				CostCodeID:    1,
				CostCenterID:  1,
				SupplierID:    1,
				NettoAmount:   150.50,
				Date:          "2022-05-17",
				InvoiceNumber: "INV-001",
			})
			Expect(w.Code).To(Equal(http.StatusCreated))
		})

		It("should list the caller's invoices", func() {
			req := httptest.NewRequest(http.MethodGet, "/invoices/", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp []invoice.InvoiceResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp).To(HaveLen(1))
			Expect(resp[0].InvoiceNumber).To(Equal("INV-001"))
		})

		It("should fetch a single invoice by id", func() {
			req := httptest.NewRequest(http.MethodGet, "/invoices/1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp invoice.InvoiceResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.NettoAmount).To(Equal(150.50))
		})

		It("should update and return 204", func() {
			payload, err := json.Marshal(invoice.InvoiceDTO{
				CostCodeID:    1,
				CostCenterID:  1,
				SupplierID:    1,
				NettoAmount:   999.99,
				Date:          "2022-06-01",
				InvoiceNumber: "INV-002",
			})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodPut, "/invoices/1", bytes.NewReader(payload))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNoContent))

			req = httptest.NewRequest(http.MethodGet, "/invoices/1", nil)
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)

			var resp invoice.InvoiceResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.NettoAmount).To(Equal(999.99))
			Expect(resp.Date).To(Equal("2022-06-01"))
		})

		It("should delete and return 204", func() {
			req := httptest.NewRequest(http.MethodDelete, "/invoices/1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNoContent))

			req = httptest.NewRequest(http.MethodGet, "/invoices/1", nil)
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should hide another user's invoice behind 403", func() {
			caller = &auth.Caller{ID: 11, Username: "stranger", Role: "user", IsActive: true}

			req := httptest.NewRequest(http.MethodGet, "/invoices/1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should return 400 for a non-numeric id", func() {
			req := httptest.NewRequest(http.MethodGet, "/invoices/abc", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
