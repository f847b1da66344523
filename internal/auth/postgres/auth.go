package postgres

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/dmarkovic/invoice-tracking/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentials(username string) (*auth.Credentials, error) {
	var creds auth.Credentials
	query := `SELECT id, username, hashed_password, role, is_active FROM "user" WHERE username = ?`

	row := r.db.Raw(query, username).Row()
	if err := row.Scan(&creds.UserID, &creds.Username, &creds.PasswordHash, &creds.Role, &creds.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) GetCallerByID(userID int64) (*auth.Caller, error) {
	var caller auth.Caller
	query := `SELECT id, username, role, is_active FROM "user" WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&caller.ID, &caller.Username, &caller.Role, &caller.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &caller, nil
}
