package invoice

import "time"

// DateLayout is the wire format for invoice dates.
const DateLayout = "2006-01-02"

// Invoice references one cost type, one cost center, one supplier and the
// owning user.
type Invoice struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	CostCodeID    int64     `json:"cost_code_id" gorm:"column:cost_code_id;not null"`
	CostCenterID  int64     `json:"cost_center_id" gorm:"column:cost_center_id;not null"`
	SupplierID    int64     `json:"supplier_id" gorm:"column:supplier_id;not null"`
	NettoAmount   float64   `json:"netto_amount" gorm:"column:netto_amount;not null"`
	Date          time.Time `json:"-" gorm:"column:date;type:date;not null"`
	InvoiceNumber string    `json:"invoice_number" gorm:"column:invoice_number;size:20;not null"`
	UserID        int64     `json:"user_id" gorm:"column:user_id;not null"`
}

func (Invoice) TableName() string {
	return "invoice"
}

func (i *Invoice) ToResponse() InvoiceResponse {
	return InvoiceResponse{
		ID:            i.ID,
		CostCodeID:    i.CostCodeID,
		CostCenterID:  i.CostCenterID,
		SupplierID:    i.SupplierID,
		NettoAmount:   i.NettoAmount,
		Date:          i.Date.Format(DateLayout),
		InvoiceNumber: i.InvoiceNumber,
		UserID:        i.UserID,
	}
}

func ToResponseSlice(invoices []*Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		responses = append(responses, inv.ToResponse())
	}
	return responses
}
