package backup

import (
	"bytes"
	"testing"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	salt := bytes.Repeat([]byte{7}, saltSize)
	a := deriveKey("hunter2", salt)
	b := deriveKey("hunter2", salt)
	if !bytes.Equal(a, b) {
		t.Fatal("same passphrase and salt produced different keys")
	}
	if len(a) != keySize {
		t.Errorf("key length = %d, want %d", len(a), keySize)
	}
	if bytes.Equal(a, deriveKey("hunter3", salt)) {
		t.Error("different passphrases produced the same key")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plain := []byte("SQLite format 3\x00 and some pages")
	sealed, err := Encrypt(plain, "secret")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if bytes.Contains(sealed, plain) {
		t.Fatal("ciphertext contains plaintext")
	}

	got, err := Decrypt(sealed, "secret")
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("round trip = %q, want %q", got, plain)
	}
}

func TestEncryptUsesFreshSalt(t *testing.T) {
	a, _ := Encrypt([]byte("x"), "secret")
	b, _ := Encrypt([]byte("x"), "secret")
	if bytes.Equal(a[:saltSize], b[:saltSize]) {
		t.Error("two encryptions share a salt")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	sealed, _ := Encrypt([]byte("data"), "right")
	if _, err := Decrypt(sealed, "wrong"); err == nil {
		t.Fatal("expected error for wrong passphrase")
	}
}

func TestDecryptTampered(t *testing.T) {
	sealed, _ := Encrypt([]byte("data"), "secret")
	sealed[len(sealed)-1] ^= 0xff
	if _, err := Decrypt(sealed, "secret"); err == nil {
		t.Fatal("expected error for tampered data")
	}
}

func TestDecryptShort(t *testing.T) {
	if _, err := Decrypt(make([]byte, 10), "secret"); err != ErrShortCiphertext {
		t.Errorf("err = %v, want ErrShortCiphertext", err)
	}
}
