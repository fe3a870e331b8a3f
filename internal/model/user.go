package model

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

const memberCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// User represents a registered account. MemberCode is the short
// human-shareable identifier other users type to add someone to a group;
// it is generated once at creation and never changes.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name" gorm:"size:255;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	MemberCode   string    `json:"member_id" gorm:"uniqueIndex;size:12;not null"`
	AvatarURL    string    `json:"avatar_url,omitempty" gorm:"size:512"`
	DeviceToken  string    `json:"-" gorm:"type:text"` // serialized push subscription
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate sets the UUID and member code before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.MemberCode == "" {
		code, err := generateMemberCode(6)
		if err != nil {
			return err
		}
		u.MemberCode = code
	}
	return nil
}

// SetPassword hashes plaintext and stores the hash. It is the only way a
// credential reaches PasswordHash; callers must never assign the field
// directly.
func (u *User) SetPassword(plaintext string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func (u *User) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)) == nil
}

func generateMemberCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(memberCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = memberCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
