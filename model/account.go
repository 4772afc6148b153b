package model

import "time"

// Account is an API user. Passwords are stored as bcrypt hashes.
type Account struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Banned       bool      `gorm:"default:false" json:"banned"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastLoginAt  time.Time `json:"last_login_at"`
}
