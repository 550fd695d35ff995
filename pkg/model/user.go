package model

import "time"

// User is a technician account known to the controller.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64" json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CanLogin reports whether the account may be issued a session.
func (u User) CanLogin() bool {
	return !u.Disabled && u.PasswordHash != ""
}
