package auth

import (
	"strings"
	"testing"
)

func TestHashSecret_Format(t *testing.T) {
	t.Parallel()

	secret := "st_7a9x3k_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b"

	hash, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	// Verify PHC format: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash should be in PHC format, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Errorf("Hash should have 6 parts, got: %d", len(parts))
	}

	if parts[1] != "argon2id" {
		t.Errorf("Expected argon2id algorithm, got: %s", parts[1])
	}
	if parts[2] != "v=19" {
		t.Errorf("Expected v=19, got: %s", parts[2])
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestHashSecret_Uniqueness(t *testing.T) {
	t.Parallel()

	secret := "the_same_password_12345"

	hash1, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	hash2, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	// Same secret should produce different hashes (different salts)
	if hash1 == hash2 {
		t.Error("Same secret should produce different hashes due to random salt")
	}

	match1, _ := VerifySecret(secret, hash1)
	match2, _ := VerifySecret(secret, hash2)

	if !match1 || !match2 {
		t.Error("Both hashes should verify correctly")
	}
}

func TestVerifySecret_Correct(t *testing.T) {
	t.Parallel()

	secret := "correct-horse-battery-staple"

	hash, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	match, err := VerifySecret(secret, hash)
	if err != nil {
		t.Fatalf("VerifySecret failed: %v", err)
	}
	if !match {
		t.Error("Correct secret should match")
	}
}

func TestVerifySecret_Incorrect(t *testing.T) {
	t.Parallel()

	secret := "correct-horse-battery-staple"
	wrong := "wrong-horse-battery-staple"

	hash, err := HashSecret(secret)
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}

	// Wrong secret should not verify (but no error)
	match, err := VerifySecret(wrong, hash)
	if err != nil {
		t.Fatalf("VerifySecret failed: %v", err)
	}
	if match {
		t.Error("Wrong secret should not match")
	}
}

func TestVerifySecret_MalformedHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plainhash"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=65536,t=3,p=4"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA"},
		{"bad hash encoding", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			match, err := VerifySecret("secret", tt.hash)
			if err == nil {
				t.Error("Expected error for malformed hash")
			}
			if match {
				t.Error("Malformed hash should never match")
			}
		})
	}
}

func TestVerifySecret_IncompatibleVersion(t *testing.T) {
	t.Parallel()

	hash := "$argon2id$v=18$m=65536,t=3,p=4$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaA"

	_, err := VerifySecret("secret", hash)
	if err != ErrIncompatibleVersion {
		t.Errorf("Expected ErrIncompatibleVersion, got: %v", err)
	}
}

func TestTokenDigest_Deterministic(t *testing.T) {
	t.Parallel()

	token := "st_abc123_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b"

	d1 := TokenDigest(token)
	d2 := TokenDigest(token)

	if d1 != d2 {
		t.Error("TokenDigest should be deterministic")
	}
	if len(d1) != 32 {
		t.Errorf("Expected 32 hex chars, got %d", len(d1))
	}
	if d1 == TokenDigest("st_abc123_different0000000000000000000000") {
		t.Error("Different tokens should have different digests")
	}
}
