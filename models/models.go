package models

import (
	"time"
)

type User struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	CreatedAt    time.Time `json:"created_at"`
	Username     string    `json:"username" gorm:"size:191;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
}

type Photo struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UUID      string    `json:"uuid" gorm:"size:36;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	URL       string    `json:"photo_url" gorm:"column:photo_url;size:1024;not null"`
	Name      string    `json:"photo_name" gorm:"column:photo_name;size:255"`
}
