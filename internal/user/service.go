package user

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmarkovic/invoice-tracking/internal"
)

type Repository interface {
	GetByID(id int64) (*User, error)
	GetByUsername(username string) (*User, error)
	GetByEmail(email string) (*User, error)
	List() ([]*User, error)
	Create(u *User) error
	Update(u *User) error
	CountInvoices(userID int64) (int64, error)
}

// Service implements account management on top of the credential store.
type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Create registers a new active user. Username and email must both be
// unique; the password is stored as a bcrypt hash only.
func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByUsername(dto.Username); err == nil && existing != nil {
		return nil, internal.ErrDuplicateUser
	}
	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Username:       dto.Username,
		Email:          dto.Email,
		FirstName:      dto.FirstName,
		LastName:       dto.LastName,
		HashedPassword: string(hash),
		Role:           dto.Role,
		IsActive:       true,
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)
	return u, nil
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

func (s *Service) List() ([]*User, error) {
	users, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

// Update applies only the provided fields. An email change re-checks
// uniqueness against other accounts.
func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	if dto.Email != nil && *dto.Email != u.Email {
		if other, err := s.repo.GetByEmail(*dto.Email); err == nil && other != nil && other.ID != id {
			return nil, internal.ErrDuplicateEmail
		}
		u.Email = *dto.Email
	}
	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	return u, nil
}

// UpdateProfile is the self-service variant of Update: role and active flag
// stay untouched.
func (s *Service) UpdateProfile(id int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	return s.Update(id, UpdateUserDTO{
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
	})
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(id int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(dto.Password)); err != nil {
		return internal.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	u.HashedPassword = string(hash)
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to store new password", "user_id", id, "error", err)
		return internal.NewInternalError("failed to change password", err)
	}

	s.logger.Info("password changed", "user_id", id)
	return nil
}

// Deactivate soft-deletes the account. Accounts that still own invoices are
// never removed or deactivated, preserving referential history.
func (s *Service) Deactivate(id int64) error {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrUserNotFound
	}

	count, err := s.repo.CountInvoices(id)
	if err != nil {
		s.logger.Error("failed to count invoices for user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to check invoice references", err)
	}
	if count > 0 {
		return internal.ErrUserOwnsInvoices
	}

	u.IsActive = false
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to deactivate user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to deactivate user", err)
	}

	s.logger.Info("user deactivated", "user_id", id)
	return nil
}
