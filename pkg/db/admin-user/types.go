package adminuser

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ROLE_ADMIN      = "admin"
	ROLE_SUPERADMIN = "superadmin"
)

// MAX_SESSIONS caps how many refresh tokens an account can hold at once.
// When exceeded, the oldest token is dropped first.
const MAX_SESSIONS = 5

type AdminUser struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Password      string             `bson:"password" json:"-"`
	Role          string             `bson:"role" json:"role"`
	RefreshTokens []string           `bson:"refreshTokens" json:"-"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	Number        string             `bson:"number,omitempty" json:"number,omitempty"`
	Address       string             `bson:"address,omitempty" json:"address,omitempty"`
	Bio           string             `bson:"bio,omitempty" json:"bio,omitempty"`
	ProfilePic    string             `bson:"profilePic,omitempty" json:"profilePic,omitempty"`
	LastLoginAt   time.Time          `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *AdminUser) HasRefreshToken(token string) bool {
	for _, t := range u.RefreshTokens {
		if t == token {
			return true
		}
	}
	return false
}

// AddRefreshToken appends the token, dropping the oldest entries so that
// at most MAX_SESSIONS tokens remain.
func (u *AdminUser) AddRefreshToken(token string) {
	u.RefreshTokens = append(u.RefreshTokens, token)
	if len(u.RefreshTokens) > MAX_SESSIONS {
		u.RefreshTokens = u.RefreshTokens[len(u.RefreshTokens)-MAX_SESSIONS:]
	}
}

// ReplaceRefreshToken removes oldToken and appends newToken (rotation).
func (u *AdminUser) ReplaceRefreshToken(oldToken string, newToken string) {
	u.RemoveRefreshToken(oldToken)
	u.AddRefreshToken(newToken)
}

func (u *AdminUser) RemoveRefreshToken(token string) {
	tokens := make([]string, 0, len(u.RefreshTokens))
	for _, t := range u.RefreshTokens {
		if t != token {
			tokens = append(tokens, t)
		}
	}
	u.RefreshTokens = tokens
}

// ClearRefreshTokens revokes every session at once.
func (u *AdminUser) ClearRefreshTokens() {
	u.RefreshTokens = []string{}
}
