package invoice

import (
	"log/slog"

	"github.com/dmarkovic/invoice-tracking/internal"
	"github.com/dmarkovic/invoice-tracking/internal/accesspolicy"
	"github.com/dmarkovic/invoice-tracking/internal/auth"
)

// Repository defines the data access methods for invoices. GetByID returns
// (nil, nil) when the row is absent.
type Repository interface {
	Create(inv *Invoice) error
	GetByID(id int64) (*Invoice, error)
	GetByUserID(userID int64) ([]*Invoice, error)
	GetAll() ([]*Invoice, error)
	Update(inv *Invoice) error
	Delete(id int64) error
}

// ReferenceChecker verifies a master-data foreign reference exists.
type ReferenceChecker interface {
	Exists(id int64) (bool, error)
}

// ReportInvalidator drops any cached report after an invoice mutation. A nil
// invalidator is a no-op.
type ReportInvalidator interface {
	Invalidate()
}

// Service handles invoice business logic: input validation, foreign
// reference checks and ownership scoping.
type Service struct {
	repo        Repository
	costTypes   ReferenceChecker
	costCenters ReferenceChecker
	suppliers   ReferenceChecker
	reports     ReportInvalidator
	logger      *slog.Logger
}

func NewService(repo Repository, costTypes, costCenters, suppliers ReferenceChecker, reports ReportInvalidator, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		costTypes:   costTypes,
		costCenters: costCenters,
		suppliers:   suppliers,
		reports:     reports,
		logger:      logger,
	}
}

// Create validates the payload and its foreign references, then persists the
// invoice for the caller.
func (s *Service) Create(caller *auth.Caller, dto InvoiceDTO) (*Invoice, error) {
	if err := accesspolicy.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(dto); err != nil {
		return nil, err
	}

	date, err := dto.ParsedDate()
	if err != nil {
		return nil, internal.NewValidationError("invalid date format, use YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}

	inv := &Invoice{
		CostCodeID:    dto.CostCodeID,
		CostCenterID:  dto.CostCenterID,
		SupplierID:    dto.SupplierID,
		NettoAmount:   dto.NettoAmount,
		Date:          date,
		InvoiceNumber: dto.InvoiceNumber,
		UserID:        caller.ID,
	}

	if err := s.repo.Create(inv); err != nil {
		s.logger.Error("failed to create invoice", "user_id", caller.ID, "error", err)
		return nil, internal.NewInternalError("failed to create invoice", err)
	}

	s.invalidateReport()
	s.logger.Info("invoice created", "invoice_id", inv.ID, "user_id", caller.ID, "amount", inv.NettoAmount)
	return inv, nil
}

// GetByID returns the invoice when the caller owns it or is an admin.
func (s *Service) GetByID(caller *auth.Caller, id int64) (*Invoice, error) {
	inv, err := s.fetch(id)
	if err != nil {
		return nil, err
	}
	if err := accesspolicy.RequireOwnerOrAdmin(caller, inv.UserID); err != nil {
		return nil, err
	}
	return inv, nil
}

// ListForCaller returns every invoice for admins, the caller's own invoices
// otherwise.
func (s *Service) ListForCaller(caller *auth.Caller) ([]*Invoice, error) {
	if err := accesspolicy.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	var (
		invoices []*Invoice
		err      error
	)
	if caller.IsAdmin() {
		invoices, err = s.repo.GetAll()
	} else {
		invoices, err = s.repo.GetByUserID(caller.ID)
	}
	if err != nil {
		s.logger.Error("failed to list invoices", "user_id", caller.ID, "error", err)
		return nil, internal.NewInternalError("failed to list invoices", err)
	}
	return invoices, nil
}

// Update replaces the invoice fields. Non-admins may only touch their own
// invoices.
func (s *Service) Update(caller *auth.Caller, id int64, dto InvoiceDTO) (*Invoice, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.fetch(id)
	if err != nil {
		return nil, err
	}
	if err := accesspolicy.RequireOwnerOrAdmin(caller, inv.UserID); err != nil {
		return nil, err
	}
	if err := s.checkReferences(dto); err != nil {
		return nil, err
	}

	date, err := dto.ParsedDate()
	if err != nil {
		return nil, internal.NewValidationError("invalid date format, use YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}

	inv.CostCodeID = dto.CostCodeID
	inv.CostCenterID = dto.CostCenterID
	inv.SupplierID = dto.SupplierID
	inv.NettoAmount = dto.NettoAmount
	inv.Date = date
	inv.InvoiceNumber = dto.InvoiceNumber

	if err := s.repo.Update(inv); err != nil {
		s.logger.Error("failed to update invoice", "invoice_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update invoice", err)
	}

	s.invalidateReport()
	return inv, nil
}

// Delete removes the invoice under the same ownership rule as Update.
func (s *Service) Delete(caller *auth.Caller, id int64) error {
	inv, err := s.fetch(id)
	if err != nil {
		return err
	}
	if err := accesspolicy.RequireOwnerOrAdmin(caller, inv.UserID); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete invoice", "invoice_id", id, "error", err)
		return internal.NewInternalError("failed to delete invoice", err)
	}

	s.invalidateReport()
	s.logger.Info("invoice deleted", "invoice_id", id, "user_id", caller.ID)
	return nil
}

func (s *Service) fetch(id int64) (*Invoice, error) {
	inv, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get invoice", "invoice_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get invoice", err)
	}
	if inv == nil {
		return nil, internal.ErrInvoiceNotFound
	}
	return inv, nil
}

// checkReferences verifies every foreign reference before a write so the
// report never has to deal with dangling ids.
func (s *Service) checkReferences(dto InvoiceDTO) error {
	ok, err := s.costTypes.Exists(dto.CostCodeID)
	if err != nil {
		return internal.NewInternalError("failed to check cost type reference", err)
	}
	if !ok {
		return internal.ErrCostTypeNotFound
	}

	ok, err = s.costCenters.Exists(dto.CostCenterID)
	if err != nil {
		return internal.NewInternalError("failed to check cost center reference", err)
	}
	if !ok {
		return internal.ErrCostCenterNotFound
	}

	ok, err = s.suppliers.Exists(dto.SupplierID)
	if err != nil {
		return internal.NewInternalError("failed to check supplier reference", err)
	}
	if !ok {
		return internal.ErrSupplierNotFound
	}
	return nil
}

func (s *Service) invalidateReport() {
	if s.reports != nil {
		s.reports.Invalidate()
	}
}
