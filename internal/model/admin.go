package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin is a back-office operator allowed to browse customers.
type Admin struct {
	ID           string    `json:"id" bson:"_id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" bson:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	Mobile       string    `json:"mobile" bson:"mobile" gorm:"size:20;not null"`
	PasswordHash string    `json:"-" bson:"password" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
