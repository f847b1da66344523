package invoice

import (
	"time"

	"github.com/dmarkovic/invoice-tracking/internal"
)

// InvoiceDTO is the write payload for create and update. The date travels as
// a "YYYY-MM-DD" string and is parsed before anything touches storage.
type InvoiceDTO struct {
	CostCodeID    int64   `json:"cost_code_id"`
	CostCenterID  int64   `json:"cost_center_id"`
	SupplierID    int64   `json:"supplier_id"`
	NettoAmount   float64 `json:"netto_amount"`
	Date          string  `json:"date"`
	InvoiceNumber string  `json:"invoice_number"`
}

func (dto InvoiceDTO) Validate() error {
	if dto.CostCodeID <= 0 {
		return internal.NewValidationError("cost_code_id must be a positive id", internal.ErrCodeValidationFailed)
	}
	if dto.CostCenterID <= 0 {
		return internal.NewValidationError("cost_center_id must be a positive id", internal.ErrCodeValidationFailed)
	}
	if dto.SupplierID <= 0 {
		return internal.NewValidationError("supplier_id must be a positive id", internal.ErrCodeValidationFailed)
	}
	if dto.NettoAmount <= 0 {
		return internal.NewValidationError("netto_amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	if _, err := dto.ParsedDate(); err != nil {
		return internal.NewValidationError("invalid date format, use YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	if dto.InvoiceNumber == "" || len(dto.InvoiceNumber) > 20 {
		return internal.NewValidationError("invoice_number must be between 1 and 20 characters", internal.ErrCodeInvalidNumber)
	}
	return nil
}

func (dto InvoiceDTO) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, dto.Date)
}

type InvoiceResponse struct {
	ID            int64   `json:"id"`
	CostCodeID    int64   `json:"cost_code_id"`
	CostCenterID  int64   `json:"cost_center_id"`
	SupplierID    int64   `json:"supplier_id"`
	NettoAmount   float64 `json:"netto_amount"`
	Date          string  `json:"date"`
	InvoiceNumber string  `json:"invoice_number"`
	UserID        int64   `json:"user_id"`
}
