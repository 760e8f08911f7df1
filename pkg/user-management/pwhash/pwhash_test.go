package pwhash

import "testing"

func TestHashPassword(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		hash, err := HashPassword("Sup3rSecret!")
		if err != nil {
			t.Fatal(err)
		}
		match, err := ComparePasswordWithHash(hash, "Sup3rSecret!")
		if err != nil {
			t.Fatal(err)
		}
		if !match {
			t.Error("password should match its own hash")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, err := HashPassword("Sup3rSecret!")
		if err != nil {
			t.Fatal(err)
		}
		match, err := ComparePasswordWithHash(hash, "WrongSecret!")
		if err != nil {
			t.Fatal(err)
		}
		if match {
			t.Error("wrong password should not match")
		}
	})

	t.Run("different salts per hash", func(t *testing.T) {
		h1, err := HashPassword("Sup3rSecret!")
		if err != nil {
			t.Fatal(err)
		}
		h2, err := HashPassword("Sup3rSecret!")
		if err != nil {
			t.Fatal(err)
		}
		if h1 == h2 {
			t.Error("two hashes of the same password should differ")
		}
	})

	t.Run("invalid hash format", func(t *testing.T) {
		_, err := ComparePasswordWithHash("not-a-hash", "Sup3rSecret!")
		if err == nil {
			t.Error("expected error for malformed hash")
		}
	})
}
