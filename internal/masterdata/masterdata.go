// Package masterdata covers the three reference tables an invoice points at:
// cost types, cost centers and suppliers. The tables share one CRUD shape, so
// a single generic service and repository serve all of them.
package masterdata

import (
	"github.com/dmarkovic/invoice-tracking/internal"
)

const maxNameLength = 40

// Resource is implemented by every master-data entity.
type Resource interface {
	Validate() error
}

type CostType struct {
	ID       int64  `json:"id" gorm:"primaryKey"`
	CostCode int    `json:"cost_code" gorm:"column:cost_code;not null"`
	CostName string `json:"cost_name" gorm:"column:cost_name;size:40;not null"`
}

func (CostType) TableName() string {
	return "type_of_cost"
}

func (t CostType) Validate() error {
	if t.CostCode <= 0 {
		return internal.NewValidationError("cost_code must be a positive number", internal.ErrCodeValidationFailed)
	}
	return validateName(t.CostName, "cost_name")
}

type CostCenter struct {
	ID             int64  `json:"id" gorm:"primaryKey"`
	CostCenterCode int    `json:"cost_center_code" gorm:"column:cost_center_code;not null"`
	CostCenterName string `json:"cost_center_name" gorm:"column:cost_center_name;size:40;not null"`
}

func (CostCenter) TableName() string {
	return "cost_center"
}

func (c CostCenter) Validate() error {
	if c.CostCenterCode <= 0 {
		return internal.NewValidationError("cost_center_code must be a positive number", internal.ErrCodeValidationFailed)
	}
	return validateName(c.CostCenterName, "cost_center_name")
}

type Supplier struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	SupplierName string `json:"supplier_name" gorm:"column:supplier_name;size:40;not null"`
}

func (Supplier) TableName() string {
	return "supplier"
}

func (s Supplier) Validate() error {
	return validateName(s.SupplierName, "supplier_name")
}

func validateName(name, field string) error {
	if name == "" {
		return internal.NewValidationError(field+" is required", internal.ErrCodeInvalidName)
	}
	if len(name) > maxNameLength {
		return internal.NewValidationError(field+" must be at most 40 characters", internal.ErrCodeInvalidName)
	}
	return nil
}
