package jwthandling

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Information a token enocodes
type AdminUserClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewAdminUserAccessToken(expiresIn time.Duration, id string, role string, secretKey string) (tokenString string, err error) {
	claims := AdminUserClaims{
		role,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   id,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

// GenerateNewAdminUserRefreshToken mints a refresh token with a random
// token ID, so tokens issued within the same second stay distinct and
// rotation always replaces the stored value.
func GenerateNewAdminUserRefreshToken(expiresIn time.Duration, id string, secretKey string) (tokenString string, err error) {
	jti, err := newTokenID()
	if err != nil {
		return "", err
	}
	claims := AdminUserClaims{
		"",
		jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   id,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func newTokenID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ValidateAdminUserToken parses and verifies a token against the given secret.
// Expired tokens are reported as ErrTokenExpired, every other failure as ErrTokenInvalid.
func ValidateAdminUserToken(tokenString string, secretKey string) (claims *AdminUserClaims, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminUserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*AdminUserClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
