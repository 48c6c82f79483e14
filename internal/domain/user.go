package domain

import (
	"strings"
	"time"
)

const (
	ClaimTypeRole = "role"
	RoleAdmin     = "admin"
)

// User is the single source of authorization truth. Role claims live on the
// user_claims table; access tokens only carry a snapshot taken at issuance.
type User struct {
	ID           string `json:"id" gorm:"primaryKey;size:36"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-"` // empty for federated-only accounts
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`

	Claims []UserClaim `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	// Exactly one refresh token is valid per user at any time. Issuing a new
	// one overwrites the previous value.
	RefreshToken          *string    `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserClaim is a named attribute attached to a user, e.g. ("role", "admin").
type UserClaim struct {
	ID     int64  `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"size:36;index;not null"`
	Type   string `json:"type" gorm:"not null"`
	Value  string `json:"value" gorm:"not null"`
}

func (UserClaim) TableName() string { return "user_claims" }

// RoleClaims returns the values of all "role" claims.
func (u *User) RoleClaims() []string {
	var roles []string
	for _, c := range u.Claims {
		if c.Type == ClaimTypeRole {
			roles = append(roles, c.Value)
		}
	}
	return roles
}

func (u *User) HasRole(role string) bool {
	for _, c := range u.Claims {
		if c.Type == ClaimTypeRole && c.Value == role {
			return true
		}
	}
	return false
}

// HasPassword reports whether password login is possible at all.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// NormalizeEmail lowercases and trims an email for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
