package user

import "github.com/dmarkovic/invoice-tracking/internal/auth"

// User is the persisted account record. The password hash never leaves the
// service layer.
type User struct {
	ID             int64  `json:"id" gorm:"primaryKey"`
	Username       string `json:"username" gorm:"column:username;uniqueIndex;size:40;not null"`
	Email          string `json:"email" gorm:"column:email;uniqueIndex;size:100;not null"`
	FirstName      string `json:"first_name" gorm:"column:first_name;size:50;not null"`
	LastName       string `json:"last_name" gorm:"column:last_name;size:50;not null"`
	HashedPassword string `json:"-" gorm:"column:hashed_password;size:255;not null"`
	Role           string `json:"role" gorm:"column:role;size:20;not null"`
	IsActive       bool   `json:"is_active" gorm:"column:is_active;default:true"`
}

func (User) TableName() string {
	return "user"
}

func (u *User) IsAdmin() bool {
	return u.Role == auth.RoleAdmin
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}
