package entity

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the login account. The alumni identity used everywhere else is Profile.
type User struct {
	ID           string `json:"id" firestore:"id" gorm:"primaryKey;size:36"`
	Name         string `json:"name" firestore:"name"`
	Email        string `json:"email" firestore:"email" gorm:"uniqueIndex"`
	PasswordHash string `json:"-" firestore:"passwordHash"`
	Token        string `json:"-" firestore:"token" gorm:"index"`
	Confirmed    bool   `json:"confirmed" firestore:"confirmed"`
	Role         string `json:"role" firestore:"role" gorm:"index"`
	Active       bool   `json:"active" firestore:"active"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
