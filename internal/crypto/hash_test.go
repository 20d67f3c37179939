package crypto

import (
	"strings"
	"testing"
)

// cheap parameters keep the suite fast; format and semantics are unchanged.
var testParams = HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashFormat(t *testing.T) {
	hash, err := NewArgon2Hasher(DefaultHashParams()).Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash() expected 6 parts, got %d: %q", len(parts), hash)
	}
	if parts[1] != "argon2id" {
		t.Errorf("Hash() algorithm = %q, want %q", parts[1], "argon2id")
	}
	if parts[2] != "v=19" {
		t.Errorf("Hash() version = %q, want %q", parts[2], "v=19")
	}
	if parts[3] != "m=65536,t=3,p=2" {
		t.Errorf("Hash() params = %q, want %q", parts[3], "m=65536,t=3,p=2")
	}
}

func TestCompare(t *testing.T) {
	h := NewArgon2Hasher(testParams)
	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if err := h.Compare(hash, "secret1"); err != nil {
		t.Errorf("Compare() correct password: %v", err)
	}
	if err := h.Compare(hash, "secret2"); err != ErrPasswordMismatch {
		t.Errorf("Compare() wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestCompareUsesEncodedParams(t *testing.T) {
	hash, err := NewArgon2Hasher(testParams).Hash("secret1")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if err := NewArgon2Hasher(DefaultHashParams()).Compare(hash, "secret1"); err != nil {
		t.Errorf("Compare() with different hasher params: %v", err)
	}
}

func TestHashSaltsDiffer(t *testing.T) {
	h := NewArgon2Hasher(testParams)
	hash1, _ := h.Hash("same-password")
	hash2, _ := h.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
}

func TestCompareInvalidHash(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	tests := []struct {
		name string
		hash string
		want error
	}{
		{"garbage", "invalid-hash-format", ErrInvalidHashFormat},
		{"bcrypt", "$2a$10$abcdefghijklmnopqrstuuABCDEFGHIJKLMNOPQRSTUVWXYZ01234", ErrInvalidHashFormat},
		{"old version", "$argon2id$v=16$m=1024,t=1,p=1$c2FsdA$a2V5", ErrIncompatibleVersion},
		{"bad salt", "$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5", ErrInvalidHashFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := h.Compare(tt.hash, "password"); err != tt.want {
				t.Errorf("Compare() = %v, want %v", err, tt.want)
			}
		})
	}
}
