package util

import (
	"strings"
	"testing"
)

// small parameters keep the suite fast; production uses DefaultArgon2Params
var testParams = Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1}

// ============ password hashing ============

func TestPasswordHasher_Hash(t *testing.T) {
	h := NewPasswordHasher(testParams)
	password := "MyPassword123!"

	hashed, err := h.Hash(password)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(hashed, "$argon2id$v=19$m=64,t=1,p=1$") {
		t.Errorf("unexpected encoding: %s", hashed)
	}

	if _, err := h.Hash(""); err == nil {
		t.Error("empty password should return error")
	}

	// random salt: same password, different encodings
	hashed2, _ := h.Hash(password)
	if hashed == hashed2 {
		t.Error("same password should produce different hashes")
	}
}

func TestPasswordHasher_Check(t *testing.T) {
	h := NewPasswordHasher(testParams)
	password := "TestPass456!"
	hashed, _ := h.Hash(password)

	if !h.Check(password, hashed) {
		t.Error("correct password rejected")
	}
	if h.Check("WrongPass", hashed) {
		t.Error("wrong password accepted")
	}
	if h.Check("", hashed) {
		t.Error("empty password accepted")
	}
	if h.Check(password, "") {
		t.Error("empty hash accepted")
	}
	if h.Check(password, "invalid-format") {
		t.Error("invalid format accepted")
	}
	// legacy toy hash from the browser prototype must never verify
	if h.Check("admin123", "hash_1a2b3c") {
		t.Error("legacy hash accepted")
	}
}

func TestPasswordHasher_CheckUsesEncodedParams(t *testing.T) {
	old := NewPasswordHasher(Argon2Params{Memory: 32, Iterations: 2, Parallelism: 1})
	hashed, _ := old.Hash("Rotate#Params1")

	current := NewPasswordHasher(testParams)
	if !current.Check("Rotate#Params1", hashed) {
		t.Error("hash created with older params should still verify")
	}
}

// ============ AES ============

func TestEncryptDecryptAES(t *testing.T) {
	key := "test-encryption-key"

	testCases := []string{
		"Hello World",
		"Sindicato dos Metalúrgicos",
		"",
		"Special!@#$%^&*()",
		strings.Repeat("A", 1000),
	}

	for _, plaintext := range testCases {
		encrypted, err := EncryptAES(key, []byte(plaintext))
		if err != nil {
			t.Fatalf("encrypt %q: %v", plaintext, err)
		}

		decrypted, err := DecryptAES(key, encrypted)
		if err != nil {
			t.Fatalf("decrypt %q: %v", plaintext, err)
		}

		if string(decrypted) != plaintext {
			t.Errorf("mismatch\nwant: %s\ngot:  %s", plaintext, string(decrypted))
		}
	}
}

func TestDecryptAES_WrongKey(t *testing.T) {
	encrypted, _ := EncryptAES("correct-key", []byte("Data"))

	if _, err := DecryptAES("wrong-key", encrypted); err == nil {
		t.Error("wrong key should fail")
	}
}

func TestDecryptAES_InvalidData(t *testing.T) {
	if _, err := DecryptAES("test-key", []byte{1, 2, 3}); err == nil {
		t.Error("short data should fail")
	}
	if _, err := DecryptAES("test-key", []byte{}); err == nil {
		t.Error("empty data should fail")
	}
}
