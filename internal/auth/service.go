package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmarkovic/invoice-tracking/internal"
)

// Credentials is the slice of the user row the token service needs.
type Credentials struct {
	UserID       int64
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
}

type UserRepository interface {
	GetCredentials(username string) (*Credentials, error)
	GetCallerByID(userID int64) (*Caller, error)
}

// Service issues tokens on login and resolves callers from bearer tokens.
type Service struct {
	userRepo UserRepository
	tokens   TokenGenerator
}

func NewService(userRepo UserRepository, tokens TokenGenerator) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 20 * time.Minute
	}
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
	}
}

// Authenticate verifies the username/password pair and returns a signed
// bearer token. Inactive accounts never authenticate, even with the correct
// password.
func (s *Service) Authenticate(dto TokenRequestDTO) (TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return TokenResponse{}, err
	}

	creds, err := s.userRepo.GetCredentials(dto.Username)
	if err != nil {
		return TokenResponse{}, internal.ErrInvalidCredentials
	}
	if !creds.IsActive {
		return TokenResponse{}, internal.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)); err != nil {
		return TokenResponse{}, internal.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(creds.Username, creds.UserID, creds.Role)
	if err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to sign token", err)
	}

	return TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// ValidateAccessToken verifies the token signature and expiry, then re-reads
// the user row so a stale role claim or a deactivated account is rejected.
func (s *Service) ValidateAccessToken(tokenString string) (*Caller, error) {
	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	caller, err := s.userRepo.GetCallerByID(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if !caller.IsActive {
		return nil, internal.ErrUserInactive
	}

	return caller, nil
}

func (j *JWTTokenGenerator) Issue(username string, userID int64, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTTokenGenerator) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, internal.ErrInvalidToken
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}
