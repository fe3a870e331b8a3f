package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Group is a set of users sharing expenses. Exactly one member is the
// admin; the admin is always part of Members.
type Group struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	AdminID       uuid.UUID `json:"admin_id" gorm:"type:char(36);not null;index"`
	BackgroundURL string    `json:"background_url,omitempty" gorm:"size:512"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Admin   User   `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	Members []User `json:"members,omitempty" gorm:"many2many:group_members"`
}

// BeforeCreate sets UUID before creating the record.
func (g *Group) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// HasMember reports whether userID is in the loaded member set.
func (g *Group) HasMember(userID uuid.UUID) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
