package auth

import "github.com/dmarkovic/invoice-tracking/internal"

// TokenRequestDTO carries the form-encoded login fields from POST /auth/token.
type TokenRequestDTO struct {
	Username string
	Password string
}

func (dto TokenRequestDTO) Validate() error {
	if dto.Username == "" {
		return internal.NewValidationError("username is required", internal.ErrCodeValidationFailed)
	}
	if dto.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
