package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is the stored identity. PasswordHash and RefreshToken never leave
// the service boundary.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`
	AvatarURL    string    `json:"avatar_url"`
	RefreshToken string    `json:"-"`
	Role         UserRole  `gorm:"type:varchar(16);not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// UserPatch carries a partial profile update. Nil means "leave unchanged";
// none of the patchable fields is nullable, so absent and null are the same.
type UserPatch struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,strongpwd"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

// CachedIdentity is the resolver's cache entry. It deliberately omits the
// password hash and refresh token.
type CachedIdentity struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	AvatarURL  string    `json:"avatar_url"`
	Role       UserRole  `json:"role"`
}

func (c CachedIdentity) User() User {
	return User{
		ID:         c.ID,
		Email:      c.Email,
		IsVerified: c.IsVerified,
		AvatarURL:  c.AvatarURL,
		Role:       c.Role,
	}
}

func Cacheable(u User) CachedIdentity {
	return CachedIdentity{
		ID:         u.ID,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
		Role:       u.Role,
	}
}
