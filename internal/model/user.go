package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a registered customer of the aggregation business.
type User struct {
	ID           string    `json:"id" bson:"_id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" bson:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" bson:"email" gorm:"uniqueIndex;size:255;not null"`
	Mobile       string    `json:"mobile" bson:"mobile" gorm:"size:20;not null"`
	PasswordHash string    `json:"-" bson:"password" gorm:"size:255;not null"` // Never expose in JSON
	CompanyName  string    `json:"companyName" bson:"companyName" gorm:"size:255"`
	District     string    `json:"district" bson:"district" gorm:"size:255;index"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt" gorm:"index"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`

	// Relations
	Files []FileRef `json:"files" bson:"files" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// ProfilePatch carries the editable profile fields. Nil fields are left
// untouched.
type ProfilePatch struct {
	Email       *string
	Mobile      *string
	CompanyName *string
	District    *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Email == nil && p.Mobile == nil && p.CompanyName == nil && p.District == nil
}

// Columns returns the patch as a column/value map keyed by storage field name.
func (p ProfilePatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Mobile != nil {
		cols["mobile"] = *p.Mobile
	}
	if p.CompanyName != nil {
		cols["company_name"] = *p.CompanyName
	}
	if p.District != nil {
		cols["district"] = *p.District
	}
	return cols
}

// EnsureFiles replaces a nil file list with an empty one so responses always
// carry an array.
func (u *User) EnsureFiles() {
	if u.Files == nil {
		u.Files = []FileRef{}
	}
}
