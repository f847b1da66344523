package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dmarkovic/invoice-tracking/internal/invoice"
)

// InvoiceRepository implements the invoice.Repository interface using GORM.
type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) invoice.Repository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(inv *invoice.Invoice) error {
	return r.db.Create(inv).Error
}

func (r *InvoiceRepository) GetByID(id int64) (*invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.Where("id = ?", id).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepository) GetByUserID(userID int64) ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) GetAll() ([]*invoice.Invoice, error) {
	var invoices []*invoice.Invoice
	err := r.db.Order("id ASC").Find(&invoices).Error
	return invoices, err
}

func (r *InvoiceRepository) Update(inv *invoice.Invoice) error {
	return r.db.Save(inv).Error
}

func (r *InvoiceRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&invoice.Invoice{}).Error
}
