package jwthandling

import (
	"errors"
	"testing"
	"time"
)

func TestAdminUserTokens(t *testing.T) {
	accessSecret := "test-access-secret"
	refreshSecret := "test-refresh-secret"

	t.Run("access token round trip", func(t *testing.T) {
		token, err := GenerateNewAdminUserAccessToken(time.Minute, "user-1", "admin", accessSecret)
		if err != nil {
			t.Fatal(err)
		}
		claims, err := ValidateAdminUserToken(token, accessSecret)
		if err != nil {
			t.Fatal(err)
		}
		if claims.Subject != "user-1" {
			t.Errorf("unexpected subject: %s", claims.Subject)
		}
		if claims.Role != "admin" {
			t.Errorf("unexpected role: %s", claims.Role)
		}
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		token, err := GenerateNewAdminUserRefreshToken(time.Minute, "user-2", refreshSecret)
		if err != nil {
			t.Fatal(err)
		}
		claims, err := ValidateAdminUserToken(token, refreshSecret)
		if err != nil {
			t.Fatal(err)
		}
		if claims.Subject != "user-2" {
			t.Errorf("unexpected subject: %s", claims.Subject)
		}
	})

	t.Run("refresh tokens minted in the same second are distinct", func(t *testing.T) {
		first, err := GenerateNewAdminUserRefreshToken(time.Minute, "user-2", refreshSecret)
		if err != nil {
			t.Fatal(err)
		}
		second, err := GenerateNewAdminUserRefreshToken(time.Minute, "user-2", refreshSecret)
		if err != nil {
			t.Fatal(err)
		}
		if first == second {
			t.Error("two refresh tokens for the same subject should never be identical")
		}

		claims, err := ValidateAdminUserToken(first, refreshSecret)
		if err != nil {
			t.Fatal(err)
		}
		if claims.ID == "" {
			t.Error("refresh token should carry a token ID")
		}
	})

	t.Run("token signed with the other secret is invalid", func(t *testing.T) {
		token, err := GenerateNewAdminUserAccessToken(time.Minute, "user-1", "admin", accessSecret)
		if err != nil {
			t.Fatal(err)
		}
		_, err = ValidateAdminUserToken(token, refreshSecret)
		if !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("expected ErrTokenInvalid, got %v", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := GenerateNewAdminUserAccessToken(-time.Minute, "user-1", "admin", accessSecret)
		if err != nil {
			t.Fatal(err)
		}
		_, err = ValidateAdminUserToken(token, accessSecret)
		if !errors.Is(err, ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ValidateAdminUserToken("not.a.token", accessSecret)
		if !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("expected ErrTokenInvalid, got %v", err)
		}
	})
}
