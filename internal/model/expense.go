package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense is a single ledger entry. Records are immutable once created;
// they only disappear when their group is deleted.
type Expense struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Description string          `json:"description" gorm:"size:512;not null"`
	GroupID     uuid.UUID       `json:"group_id" gorm:"type:char(36);not null;index"`
	SpentByID   uuid.UUID       `json:"spent_by_id" gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time       `json:"created_at"`

	// Relations
	Group   Group `json:"-" gorm:"foreignKey:GroupID"`
	SpentBy User  `json:"-" gorm:"foreignKey:SpentByID"`
}

// BeforeCreate sets UUID before creating the record.
func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
