package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dmarkovic/invoice-tracking/internal/masterdata"
)

// Repository is a GORM-backed store for one master-data table. refColumn
// names the invoice column that references this table, used for the
// delete-guard count.
type Repository[T masterdata.Resource] struct {
	db        *gorm.DB
	refColumn string
}

func NewRepository[T masterdata.Resource](db *gorm.DB, refColumn string) *Repository[T] {
	return &Repository[T]{db: db, refColumn: refColumn}
}

func NewCostTypeRepository(db *gorm.DB) *Repository[masterdata.CostType] {
	return NewRepository[masterdata.CostType](db, "cost_code_id")
}

func NewCostCenterRepository(db *gorm.DB) *Repository[masterdata.CostCenter] {
	return NewRepository[masterdata.CostCenter](db, "cost_center_id")
}

func NewSupplierRepository(db *gorm.DB) *Repository[masterdata.Supplier] {
	return NewRepository[masterdata.Supplier](db, "supplier_id")
}

func (r *Repository[T]) GetAll() ([]*T, error) {
	var entities []*T
	err := r.db.Order("id ASC").Find(&entities).Error
	return entities, err
}

func (r *Repository[T]) GetByID(id int64) (*T, error) {
	var e T
	err := r.db.Where("id = ?", id).First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repository[T]) Create(e *T) error {
	return r.db.Create(e).Error
}

// Update replaces every column of the row except the primary key.
func (r *Repository[T]) Update(id int64, e *T) error {
	return r.db.Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id").
		Updates(e).Error
}

func (r *Repository[T]) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(new(T)).Error
}

func (r *Repository[T]) InUse(id int64) (bool, error) {
	var count int64
	err := r.db.Table("invoice").
		Where(fmt.Sprintf("%s = ?", r.refColumn), id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
