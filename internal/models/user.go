package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role values assigned at account creation. There is no hierarchy:
// an ADMIN does not satisfy a RESEARCHER-only check.
const (
	RoleAdmin      = "ADMIN"
	RoleResearcher = "RESEARCHER"
)

// BcryptCost matches the cost factor used by the original deployment,
// so existing hashes stay verifiable.
const BcryptCost = 10

// User is an account managed exclusively by administrators.
// The password column holds a bcrypt hash and is never serialized.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Name      string    `json:"name"`
	Role      string    `gorm:"default:'RESEARCHER'" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HashPassword replaces the plaintext password with its bcrypt hash
func (u *User) HashPassword() error {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), BcryptCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword compares a candidate password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// ValidRole reports whether role is one of the known role values
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleResearcher
}
