package utils

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		slug := Slugify("Gold Necklace 22K")
		if slug != "gold-necklace-22k" {
			t.Errorf("unexpected slug: %s", slug)
		}

		slug = Slugify("  Bridal Set: Ruby & Pearl  ")
		if slug != "bridal-set-ruby-pearl" {
			t.Errorf("unexpected slug: %s", slug)
		}

		slug = Slugify("plain")
		if slug != "plain" {
			t.Errorf("unexpected slug: %s", slug)
		}
	})
}

func TestSanitizeEmail(t *testing.T) {
	t.Run("with different formats", func(t *testing.T) {
		email := SanitizeEmail("\nAdmin@Example.COM")
		if email != "admin@example.com" {
			t.Errorf("unexpected email: %s", email)
		}

		email = SanitizeEmail("  admin@example.com \n\r")
		if email != "admin@example.com" {
			t.Errorf("unexpected email: %s", email)
		}
	})
}

func TestCheckPasswordFormat(t *testing.T) {
	t.Run("with a too short password", func(t *testing.T) {
		if CheckPasswordFormat("Pw1") {
			t.Error("should be false")
		}
	})
	t.Run("with a too weak password", func(t *testing.T) {
		if CheckPasswordFormat("passwordonly") {
			t.Error("should be false")
		}
		if CheckPasswordFormat("12345678") {
			t.Error("should be false")
		}
	})
	t.Run("with good passwords", func(t *testing.T) {
		if !CheckPasswordFormat("Passw0rd1") {
			t.Error("should be true")
		}
		if !CheckPasswordFormat("An0therOne") {
			t.Error("should be true")
		}
	})
}

func TestCheckEmailFormat(t *testing.T) {
	t.Run("with missing @", func(t *testing.T) {
		if CheckEmailFormat("t.t.com") {
			t.Error("should be false")
		}
	})
	t.Run("with valid address", func(t *testing.T) {
		if !CheckEmailFormat("a@b.com") {
			t.Error("should be true")
		}
	})
}
