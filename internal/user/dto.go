package user

import (
	"strings"

	"github.com/dmarkovic/invoice-tracking/internal"
)

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

type CreateUserDTO struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

func (dto CreateUserDTO) Validate() error {
	if dto.Username == "" || len(dto.Username) > 40 {
		return internal.NewValidationError("username is required and must be at most 40 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Email == "" || len(dto.Email) > 100 || !strings.Contains(dto.Email, "@") {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	if dto.FirstName == "" || len(dto.FirstName) > 50 {
		return internal.NewValidationError("first name is required and must be at most 50 characters", internal.ErrCodeValidationFailed)
	}
	if dto.LastName == "" || len(dto.LastName) > 50 {
		return internal.NewValidationError("last name is required and must be at most 50 characters", internal.ErrCodeValidationFailed)
	}
	if len(dto.Password) < 6 {
		return internal.NewValidationError("password must be at least 6 characters", internal.ErrCodePasswordTooShort)
	}
	if dto.Role == "" || len(dto.Role) > 20 {
		return internal.NewValidationError("role is required and must be at most 20 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateUserDTO applies only the fields that are present.
type UpdateUserDTO struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Email != nil && (*dto.Email == "" || len(*dto.Email) > 100 || !strings.Contains(*dto.Email, "@")) {
		return internal.NewValidationError("a valid email is required", internal.ErrCodeValidationFailed)
	}
	if dto.FirstName != nil && (*dto.FirstName == "" || len(*dto.FirstName) > 50) {
		return internal.NewValidationError("first name must be non-empty and at most 50 characters", internal.ErrCodeValidationFailed)
	}
	if dto.LastName != nil && (*dto.LastName == "" || len(*dto.LastName) > 50) {
		return internal.NewValidationError("last name must be non-empty and at most 50 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Role != nil && (*dto.Role == "" || len(*dto.Role) > 20) {
		return internal.NewValidationError("role must be non-empty and at most 20 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateProfileDTO is the self-service subset of UpdateUserDTO: a user may
// not change their own role or active flag.
type UpdateProfileDTO struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

func (dto UpdateProfileDTO) Validate() error {
	return UpdateUserDTO{
		Email:     dto.Email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
	}.Validate()
}

type ChangePasswordDTO struct {
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

func (dto ChangePasswordDTO) Validate() error {
	if dto.Password == "" {
		return internal.NewValidationError("current password is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.NewPassword) < 6 {
		return internal.NewValidationError("new password must be at least 6 characters", internal.ErrCodePasswordTooShort)
	}
	return nil
}
