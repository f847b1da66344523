package masterdata

import (
	"log/slog"

	"github.com/dmarkovic/invoice-tracking/internal"
)

// RepositoryAPI is the storage contract shared by all master-data entities.
// GetByID returns (nil, nil) when the row is absent.
type RepositoryAPI[T Resource] interface {
	GetAll() ([]*T, error)
	GetByID(id int64) (*T, error)
	Create(e *T) error
	Update(id int64, e *T) error
	Delete(id int64) error
	InUse(id int64) (bool, error)
}

// ReportInvalidator drops any cached report after a mutation. A nil
// invalidator is a no-op.
type ReportInvalidator interface {
	Invalidate()
}

// Service implements the shared CRUD semantics for one master-data entity.
// Deletion is refused while any invoice still references the row; that guard
// lives here rather than relying on storage-level foreign keys alone.
type Service[T Resource] struct {
	repo     RepositoryAPI[T]
	notFound *internal.AppError
	reports  ReportInvalidator
	logger   *slog.Logger
}

func NewService[T Resource](repo RepositoryAPI[T], notFound *internal.AppError, reports ReportInvalidator, logger *slog.Logger) *Service[T] {
	return &Service[T]{
		repo:     repo,
		notFound: notFound,
		reports:  reports,
		logger:   logger,
	}
}

func (s *Service[T]) List() ([]*T, error) {
	entities, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list master data", "error", err)
		return nil, internal.NewInternalError("failed to list records", err)
	}
	return entities, nil
}

func (s *Service[T]) GetByID(id int64) (*T, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get master data record", "id", id, "error", err)
		return nil, internal.NewInternalError("failed to get record", err)
	}
	if e == nil {
		return nil, s.notFound
	}
	return e, nil
}

func (s *Service[T]) Create(e *T) (*T, error) {
	if err := (*e).Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create master data record", "error", err)
		return nil, internal.NewInternalError("failed to create record", err)
	}

	s.invalidateReport()
	return e, nil
}

func (s *Service[T]) Update(id int64, e *T) (*T, error) {
	if err := (*e).Validate(); err != nil {
		return nil, err
	}

	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(id, e); err != nil {
		s.logger.Error("failed to update master data record", "id", id, "error", err)
		return nil, internal.NewInternalError("failed to update record", err)
	}

	s.invalidateReport()
	return s.GetByID(id)
}

func (s *Service[T]) Delete(id int64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	inUse, err := s.repo.InUse(id)
	if err != nil {
		s.logger.Error("failed to check invoice references", "id", id, "error", err)
		return internal.NewInternalError("failed to check invoice references", err)
	}
	if inUse {
		return internal.ErrMasterDataInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete master data record", "id", id, "error", err)
		return internal.NewInternalError("failed to delete record", err)
	}

	s.invalidateReport()
	return nil
}

func (s *Service[T]) invalidateReport() {
	if s.reports != nil {
		s.reports.Invalidate()
	}
}

// Exists reports whether the row is present, used by the invoice service to
// verify foreign references before accepting a write.
func (s *Service[T]) Exists(id int64) (bool, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return false, err
	}
	return e != nil, nil
}
