package models

import "time"

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"unique;not null" json:"email"` // stored lowercased
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserActivity tracks login recency for the profile streak counter.
type UserActivity struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	LastActive time.Time `json:"lastActive"`
	StreakDays int       `gorm:"default:0" json:"streakDays"`
}
