// Package report computes the cross-tabulation of invoice totals by cost
// type and cost center.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmarkovic/invoice-tracking/internal"
	"github.com/dmarkovic/invoice-tracking/internal/accesspolicy"
	"github.com/dmarkovic/invoice-tracking/internal/auth"
	"github.com/dmarkovic/invoice-tracking/pkg/cache"
)

const cacheKey = "report:expenses_by_type_and_center"

// Label is an id/name pair from a master-data listing.
type Label struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// CellSum is one aggregated (cost type, cost center) cell.
type CellSum struct {
	CostCodeID   int64   `db:"cost_code_id"`
	CostCenterID int64   `db:"cost_center_id"`
	Total        float64 `db:"total"`
}

type Repository interface {
	ListCostTypes() ([]Label, error)
	ListCostCenters() ([]Label, error)
	SumInvoiceAmounts() ([]CellSum, error)
}

// CrossTab maps cost-type name to cost-center name to the summed net amount.
type CrossTab map[string]map[string]float64

type ReportResponse struct {
	Report CrossTab `json:"report"`
}

// Service generates the admin expense report. A nil cache disables caching.
type Service struct {
	repo   Repository
	cache  *cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewService(repo Repository, c *cache.Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{
		repo:   repo,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Generate builds the full cross-tab: every cost type × cost center pair
// gets a cell, zero when no invoice matches. The aggregation is a single
// pass over the grouped invoice sums instead of a per-cell scan.
func (s *Service) Generate(caller *auth.Caller) (ReportResponse, error) {
	if err := accesspolicy.RequireAdmin(caller); err != nil {
		return ReportResponse{}, err
	}

	if s.cache != nil {
		var cached ReportResponse
		found, err := s.cache.Get(context.Background(), cacheKey, &cached)
		if err != nil {
			s.logger.Warn("report cache read failed", "error", err)
		} else if found {
			return cached, nil
		}
	}

	types, err := s.repo.ListCostTypes()
	if err != nil {
		s.logger.Error("failed to list cost types", "error", err)
		return ReportResponse{}, internal.NewInternalError("failed to generate report", err)
	}
	centers, err := s.repo.ListCostCenters()
	if err != nil {
		s.logger.Error("failed to list cost centers", "error", err)
		return ReportResponse{}, internal.NewInternalError("failed to generate report", err)
	}
	sums, err := s.repo.SumInvoiceAmounts()
	if err != nil {
		s.logger.Error("failed to sum invoice amounts", "error", err)
		return ReportResponse{}, internal.NewInternalError("failed to generate report", err)
	}

	typeNames := make(map[int64]string, len(types))
	centerNames := make(map[int64]string, len(centers))

	crossTab := make(CrossTab, len(types))
	for _, t := range types {
		typeNames[t.ID] = t.Name
		row := make(map[string]float64, len(centers))
		for _, c := range centers {
			row[c.Name] = 0
		}
		crossTab[t.Name] = row
	}
	for _, c := range centers {
		centerNames[c.ID] = c.Name
	}

	for _, cell := range sums {
		typeName, ok := typeNames[cell.CostCodeID]
		if !ok {
			continue
		}
		centerName, ok := centerNames[cell.CostCenterID]
		if !ok {
			continue
		}
		crossTab[typeName][centerName] += cell.Total
	}

	response := ReportResponse{Report: crossTab}

	if s.cache != nil {
		if err := s.cache.Set(context.Background(), cacheKey, response, s.ttl); err != nil {
			s.logger.Warn("report cache write failed", "error", err)
		}
	}

	return response, nil
}

// Invalidate drops the cached report. Called after invoice mutations so the
// next report reflects them immediately instead of after the TTL.
func (s *Service) Invalidate() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.Background(), cacheKey); err != nil {
		s.logger.Warn("report cache invalidation failed", "error", err)
	}
}
