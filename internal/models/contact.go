package models

import (
	"time"

	"gorm.io/gorm"
)

type Contact struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	Name       string         `json:"name" gorm:"not null"`
	Email      string         `json:"email" gorm:"not null"`
	Phone      string         `json:"phone"`
	Subject    string         `json:"subject" gorm:"not null"`
	Message    string         `json:"message" gorm:"type:text;not null"`
	Status     string         `json:"status" gorm:"default:'new'"` // new, read, replied
	AdminNotes string         `json:"admin_notes" gorm:"type:text"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
)

func ValidContactStatus(status string) bool {
	switch ContactStatus(status) {
	case ContactNew, ContactRead, ContactReplied:
		return true
	}
	return false
}
