package backup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")
	dec := filepath.Join(dir, "restored.db")

	content := []byte("not really a database, but good enough")
	if err := os.WriteFile(src, content, 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}

	salt, err := generateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(salt) != saltSize {
		t.Fatalf("salt length = %d, want %d", len(salt), saltSize)
	}

	if err := encryptFile(src, enc, "correct horse", salt); err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if err := decryptFile(enc, dec, "correct horse"); err != nil {
		t.Fatalf("decrypt: %v", err)
	}

	got, err := os.ReadFile(dec)
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if string(got) != string(content) {
		t.Error("restored content differs from original")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plain.db")
	enc := filepath.Join(dir, "plain.db.enc")

	if err := os.WriteFile(src, []byte("secret"), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	salt, err := generateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if err := encryptFile(src, enc, "right", salt); err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if err := decryptFile(enc, filepath.Join(dir, "out.db"), "wrong"); err == nil {
		t.Error("expected decryption to fail with the wrong passphrase")
	}
}

func TestDecryptTruncatedFile(t *testing.T) {
	dir := t.TempDir()
	enc := filepath.Join(dir, "short.enc")
	if err := os.WriteFile(enc, []byte("tiny"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := decryptFile(enc, filepath.Join(dir, "out.db"), "p"); err == nil {
		t.Error("expected error for a truncated encrypted file")
	}
}
