package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactFormSubmission is an inquiry sent through the public landing-page
// contact form.
type ContactFormSubmission struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Email     string    `json:"email" gorm:"size:255;not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (ContactFormSubmission) TableName() string { return "contact_form_submissions" }

// BeforeCreate sets UUID before creating the record.
func (s *ContactFormSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
