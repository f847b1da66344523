package auth_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmarkovic/invoice-tracking/internal"
	"github.com/dmarkovic/invoice-tracking/internal/auth"
)

func TestAuthService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Service Suite")
}

// MockUserRepository implements auth.UserRepository for testing
type MockUserRepository struct {
	credentials map[string]*auth.Credentials
	callers     map[int64]*auth.Caller
	shouldFail  bool
	failError   error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		credentials: make(map[string]*auth.Credentials),
		callers:     make(map[int64]*auth.Caller),
	}
}

func (m *MockUserRepository) GetCredentials(username string) (*auth.Credentials, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	creds, ok := m.credentials[username]
	if !ok {
		return nil, errors.New("user not found")
	}
	return creds, nil
}

func (m *MockUserRepository) GetCallerByID(userID int64) (*auth.Caller, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	caller, ok := m.callers[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return caller, nil
}

func (m *MockUserRepository) AddUser(userID int64, username, password, role string, isActive bool) {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	m.credentials[username] = &auth.Credentials{
		UserID:       userID,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     isActive,
	}
	m.callers[userID] = &auth.Caller{
		ID:       userID,
		Username: username,
		Role:     role,
		IsActive: isActive,
	}
}

func (m *MockUserRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

var _ = Describe("Auth Service", func() {
	var (
		mockRepo *MockUserRepository
		tokens   *auth.JWTTokenGenerator
		service  *auth.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockUserRepository()
		tokens = auth.NewJWTTokenGenerator("test-secret", 20*time.Minute)
		service = auth.NewService(mockRepo, tokens)
	})

	Describe("Authenticate", func() {
		Context("with valid credentials", func() {
			BeforeEach(func() {
				mockRepo.AddUser(1, "johndoe", "secret123", "user", true)
			})

			It("should return a bearer token", func() {
				resp, err := service.Authenticate(auth.TokenRequestDTO{Username: "johndoe", Password: "secret123"})
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.AccessToken).NotTo(BeEmpty())
				Expect(resp.TokenType).To(Equal("bearer"))
			})

			It("should embed user id and role in the token claims", func() {
				resp, err := service.Authenticate(auth.TokenRequestDTO{Username: "johndoe", Password: "secret123"})
				Expect(err).NotTo(HaveOccurred())

				claims, err := tokens.Verify(resp.AccessToken)
				Expect(err).NotTo(HaveOccurred())
				Expect(claims.UserID).To(Equal(int64(1)))
				Expect(claims.Role).To(Equal("user"))
				Expect(claims.Subject).To(Equal("johndoe"))
			})
		})

		Context("with the wrong password", func() {
			BeforeEach(func() {
				mockRepo.AddUser(1, "johndoe", "secret123", "user", true)
			})

			It("should return invalid credentials", func() {
				_, err := service.Authenticate(auth.TokenRequestDTO{Username: "johndoe", Password: "wrong"})
				Expect(err).To(Equal(internal.ErrInvalidCredentials))
			})
		})

		Context("with an unknown username", func() {
			It("should return invalid credentials", func() {
				_, err := service.Authenticate(auth.TokenRequestDTO{Username: "ghost", Password: "secret123"})
				Expect(err).To(Equal(internal.ErrInvalidCredentials))
			})
		})

		Context("with an inactive account", func() {
			BeforeEach(func() {
				mockRepo.AddUser(2, "retired", "secret123", "user", false)
			})

			It("should reject even the correct password", func() {
				_, err := service.Authenticate(auth.TokenRequestDTO{Username: "retired", Password: "secret123"})
				Expect(err).To(Equal(internal.ErrUserInactive))
			})
		})

		Context("with missing fields", func() {
			It("should return a validation error", func() {
				_, err := service.Authenticate(auth.TokenRequestDTO{Username: "", Password: "secret123"})
				appErr, ok := internal.AsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			})
		})
	})

	Describe("ValidateAccessToken", func() {
		BeforeEach(func() {
			mockRepo.AddUser(1, "johndoe", "secret123", "admin", true)
		})

		Context("with a freshly issued token", func() {
			It("should resolve the caller", func() {
				resp, err := service.Authenticate(auth.TokenRequestDTO{Username: "johndoe", Password: "secret123"})
				Expect(err).NotTo(HaveOccurred())

				caller, err := service.ValidateAccessToken(resp.AccessToken)
				Expect(err).NotTo(HaveOccurred())
				Expect(caller.ID).To(Equal(int64(1)))
				Expect(caller.Username).To(Equal("johndoe"))
				Expect(caller.IsAdmin()).To(BeTrue())
			})
		})

		Context("with an expired token", func() {
			It("should return token expired", func() {
				expired := auth.NewJWTTokenGenerator("test-secret", time.Nanosecond)
				token, err := expired.Issue("johndoe", 1, "admin")
				Expect(err).NotTo(HaveOccurred())

				time.Sleep(10 * time.Millisecond)
				_, err = service.ValidateAccessToken(token)
				Expect(err).To(Equal(internal.ErrTokenExpired))
			})
		})

		Context("with a token signed by a different secret", func() {
			It("should return invalid token", func() {
				forged := auth.NewJWTTokenGenerator("other-secret", 20*time.Minute)
				token, err := forged.Issue("johndoe", 1, "admin")
				Expect(err).NotTo(HaveOccurred())

				_, err = service.ValidateAccessToken(token)
				Expect(err).To(Equal(internal.ErrInvalidToken))
			})
		})

		Context("with a garbage token string", func() {
			It("should return invalid token", func() {
				_, err := service.ValidateAccessToken("not-a-jwt")
				Expect(err).To(Equal(internal.ErrInvalidToken))
			})
		})

		Context("when the user was deactivated after the token was issued", func() {
			It("should reject the still-valid token", func() {
				resp, err := service.Authenticate(auth.TokenRequestDTO{Username: "johndoe", Password: "secret123"})
				Expect(err).NotTo(HaveOccurred())

				mockRepo.callers[1].IsActive = false
				_, err = service.ValidateAccessToken(resp.AccessToken)
				Expect(err).To(Equal(internal.ErrUserInactive))
			})
		})

		Context("when the user row no longer exists", func() {
			It("should return invalid token", func() {
				resp, err := service.Authenticate(auth.TokenRequestDTO{Username: "johndoe", Password: "secret123"})
				Expect(err).NotTo(HaveOccurred())

				delete(mockRepo.callers, 1)
				_, err = service.ValidateAccessToken(resp.AccessToken)
				Expect(err).To(Equal(internal.ErrInvalidToken))
			})
		})
	})
})
