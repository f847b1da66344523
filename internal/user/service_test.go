package user_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmarkovic/invoice-tracking/internal"
	"github.com/dmarkovic/invoice-tracking/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.Repository for testing
type MockRepository struct {
	users      map[int64]*user.User
	invoices   map[int64]int64
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:    make(map[int64]*user.User),
		invoices: make(map[int64]int64),
		nextID:   1,
	}
}

func (m *MockRepository) GetByID(id int64) (*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (m *MockRepository) GetByUsername(username string) (*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) GetByEmail(email string) (*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) List() ([]*user.User, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*user.User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

func (m *MockRepository) Create(u *user.User) error {
	if m.shouldFail {
		return m.failError
	}
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) Update(u *user.User) error {
	if m.shouldFail {
		return m.failError
	}
	m.users[u.ID] = u
	return nil
}

func (m *MockRepository) CountInvoices(userID int64) (int64, error) {
	if m.shouldFail {
		return 0, m.failError
	}
	return m.invoices[userID], nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func validCreateDTO() user.CreateUserDTO {
	return user.CreateUserDTO{
		Username:  "johndoe",
		Email:     "john@example.com",
		FirstName: "John",
		LastName:  "Doe",
		Password:  "secret123",
		Role:      "user",
	}
}

var _ = Describe("User Service", func() {
	var (
		mockRepo *MockRepository
		service  *user.Service
		logger   *slog.Logger
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(mockRepo, bcrypt.MinCost, logger)
	})

	Describe("Create", func() {
		Context("with a valid payload", func() {
			It("should create an active user", func() {
				u, err := service.Create(validCreateDTO())
				Expect(err).NotTo(HaveOccurred())
				Expect(u.ID).To(Equal(int64(1)))
				Expect(u.IsActive).To(BeTrue())
			})

			It("should store a bcrypt hash, never the plaintext password", func() {
				u, err := service.Create(validCreateDTO())
				Expect(err).NotTo(HaveOccurred())
				Expect(u.HashedPassword).NotTo(Equal("secret123"))
				Expect(bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("secret123"))).To(Succeed())
			})
		})

		Context("when the username is taken", func() {
			BeforeEach(func() {
				_, err := service.Create(validCreateDTO())
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return a conflict", func() {
				dto := validCreateDTO()
				dto.Email = "other@example.com"
				_, err := service.Create(dto)
				Expect(err).To(Equal(internal.ErrDuplicateUser))
			})
		})

		Context("when the email is taken", func() {
			BeforeEach(func() {
				_, err := service.Create(validCreateDTO())
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return a conflict", func() {
				dto := validCreateDTO()
				dto.Username = "janedoe"
				_, err := service.Create(dto)
				Expect(err).To(Equal(internal.ErrDuplicateUser))
			})
		})

		Context("with an invalid payload", func() {
			It("should reject a short password", func() {
				dto := validCreateDTO()
				dto.Password = "abc"
				_, err := service.Create(dto)
				appErr, ok := internal.AsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodePasswordTooShort))
			})

			It("should reject a malformed email", func() {
				dto := validCreateDTO()
				dto.Email = "not-an-email"
				_, err := service.Create(dto)
				appErr, ok := internal.AsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			})
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			_, err := service.Create(validCreateDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should apply only the provided fields", func() {
			firstName := "Johnny"
			u, err := service.Update(1, user.UpdateUserDTO{FirstName: &firstName})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.FirstName).To(Equal("Johnny"))
			Expect(u.LastName).To(Equal("Doe"))
			Expect(u.Email).To(Equal("john@example.com"))
		})

		It("should return not found for an unknown id", func() {
			firstName := "Johnny"
			_, err := service.Update(99, user.UpdateUserDTO{FirstName: &firstName})
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})

		Context("when changing the email to one held by another user", func() {
			BeforeEach(func() {
				dto := validCreateDTO()
				dto.Username = "janedoe"
				dto.Email = "jane@example.com"
				_, err := service.Create(dto)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return a conflict", func() {
				email := "jane@example.com"
				_, err := service.Update(1, user.UpdateUserDTO{Email: &email})
				Expect(err).To(Equal(internal.ErrDuplicateEmail))
			})

			It("should allow keeping the current email", func() {
				email := "john@example.com"
				_, err := service.Update(1, user.UpdateUserDTO{Email: &email})
				Expect(err).NotTo(HaveOccurred())
			})
		})

		It("should allow an admin to change role and active flag", func() {
			role := "admin"
			inactive := false
			u, err := service.Update(1, user.UpdateUserDTO{Role: &role, IsActive: &inactive})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal("admin"))
			Expect(u.IsActive).To(BeFalse())
		})
	})

	Describe("UpdateProfile", func() {
		BeforeEach(func() {
			_, err := service.Create(validCreateDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should update names and email", func() {
			firstName := "Johnny"
			u, err := service.UpdateProfile(1, user.UpdateProfileDTO{FirstName: &firstName})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.FirstName).To(Equal("Johnny"))
		})

		It("should leave role and active flag untouched", func() {
			firstName := "Johnny"
			u, err := service.UpdateProfile(1, user.UpdateProfileDTO{FirstName: &firstName})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal("user"))
			Expect(u.IsActive).To(BeTrue())
		})
	})

	Describe("ChangePassword", func() {
		BeforeEach(func() {
			_, err := service.Create(validCreateDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should replace the stored hash when the current password matches", func() {
			err := service.ChangePassword(1, user.ChangePasswordDTO{Password: "secret123", NewPassword: "newsecret"})
			Expect(err).NotTo(HaveOccurred())

			u, err := service.GetByID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("newsecret"))).To(Succeed())
		})

		It("should refuse a wrong current password", func() {
			err := service.ChangePassword(1, user.ChangePasswordDTO{Password: "wrong", NewPassword: "newsecret"})
			Expect(err).To(Equal(internal.ErrWrongPassword))
		})

		It("should refuse a short new password", func() {
			err := service.ChangePassword(1, user.ChangePasswordDTO{Password: "secret123", NewPassword: "abc"})
			appErr, ok := internal.AsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodePasswordTooShort))
		})
	})

	Describe("Deactivate", func() {
		BeforeEach(func() {
			_, err := service.Create(validCreateDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("should flip the active flag instead of deleting the row", func() {
			err := service.Deactivate(1)
			Expect(err).NotTo(HaveOccurred())

			u, err := service.GetByID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeFalse())
		})

		It("should return a conflict while the user still owns invoices", func() {
			mockRepo.invoices[1] = 3
			err := service.Deactivate(1)
			Expect(err).To(Equal(internal.ErrUserOwnsInvoices))

			u, getErr := service.GetByID(1)
			Expect(getErr).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeTrue())
		})

		It("should return not found for an unknown id", func() {
			err := service.Deactivate(99)
			Expect(err).To(Equal(internal.ErrUserNotFound))
		})
	})
})
