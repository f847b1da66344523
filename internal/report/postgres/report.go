package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/dmarkovic/invoice-tracking/internal/report"
)

// ReportRepository reads the aggregation inputs with sqlx. The grouped sum
// is pushed down to the database so the service only fills in empty cells.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) report.Repository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) ListCostTypes() ([]report.Label, error) {
	var labels []report.Label
	err := r.db.Select(&labels, `SELECT id, cost_name AS name FROM type_of_cost ORDER BY id`)
	return labels, err
}

func (r *ReportRepository) ListCostCenters() ([]report.Label, error) {
	var labels []report.Label
	err := r.db.Select(&labels, `SELECT id, cost_center_name AS name FROM cost_center ORDER BY id`)
	return labels, err
}

func (r *ReportRepository) SumInvoiceAmounts() ([]report.CellSum, error) {
	var sums []report.CellSum
	err := r.db.Select(&sums, `
		SELECT cost_code_id, cost_center_id, SUM(netto_amount) AS total
		FROM invoice
		GROUP BY cost_code_id, cost_center_id`)
	return sums, err
}
