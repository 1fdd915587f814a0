// internal/models/user.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email        string     `json:"email" gorm:"size:255;index"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FirstName    string     `json:"first_name" gorm:"size:150"`
	LastName     string     `json:"last_name" gorm:"size:150"`
	IsStaff      bool       `json:"-" gorm:"not null"`
	IsActive     bool       `json:"-" gorm:"not null"`
	LastLoginAt  *time.Time `json:"-"`

	// Relationships
	Profile *Profile `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// Profile holds optional shipping and contact details for a user.
type Profile struct {
	BaseModel
	UserID      uuid.UUID `json:"-" gorm:"type:uuid;not null;uniqueIndex"`
	Address     string    `json:"address" gorm:"type:text"`
	PhoneNumber string    `json:"phone_number" gorm:"size:20"`
	City        string    `json:"city" gorm:"size:100"`
	Country     string    `json:"country" gorm:"size:100"`
	PostalCode  string    `json:"postal_code" gorm:"size:20"`

	User User `json:"user" gorm:"foreignKey:UserID"`
}

// ShippingAddress joins the non-blank address parts, or returns "" when
// the profile has no street address.
func (p *Profile) ShippingAddress() string {
	if strings.TrimSpace(p.Address) == "" {
		return ""
	}

	parts := make([]string, 0, 3)
	for _, part := range []string{p.Address, p.City, p.Country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// RevokedToken records access tokens invalidated by logout.
type RevokedToken struct {
	BaseModel
	JTI       string    `gorm:"size:64;uniqueIndex;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	ExpiresAt time.Time `gorm:"index"`
}
