package config

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"golang.org/x/crypto/ssh"
)

func TestAESGCMRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("rand: %v", err)
	}

	plaintext := []byte(`{"anthropic":"sk-ant-secret","github":"ghp_token"}`)

	ciphertext, err := encryptAESGCM(plaintext, key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(ciphertext, []byte("sk-ant-secret")) {
		t.Error("ciphertext leaks plaintext")
	}

	decrypted, err := decryptAESGCM(ciphertext, key)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("round trip mismatch: %q", decrypted)
	}
}

func TestAESGCMTamperDetection(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)

	ciphertext, err := encryptAESGCM([]byte("secret"), key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	ciphertext[len(ciphertext)-1] ^= 0xff
	if _, err := decryptAESGCM(ciphertext, key); err == nil {
		t.Error("tampered ciphertext decrypted without error")
	}
}

func TestAESGCMWrongKey(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)

	ciphertext, _ := encryptAESGCM([]byte("secret"), key)

	other := make([]byte, 32)
	rand.Read(other)
	if _, err := decryptAESGCM(ciphertext, other); err == nil {
		t.Error("decryption with wrong key should fail")
	}
}

func TestAESGCMTruncatedCiphertext(t *testing.T) {
	key := make([]byte, 32)
	rand.Read(key)

	if _, err := decryptAESGCM([]byte("short"), key); err == nil {
		t.Error("truncated ciphertext should be rejected")
	}
}

func TestDeriveAESKeyFromSSHDeterministic(t *testing.T) {
	// ed25519 signatures are deterministic, so the derived key must be too
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatalf("signer: %v", err)
	}

	key1, err := DeriveAESKeyFromSSH(signer)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	key2, err := DeriveAESKeyFromSSH(signer)
	if err != nil {
		t.Fatalf("derive again: %v", err)
	}

	if len(key1) != 32 {
		t.Errorf("key length: got %d, want 32", len(key1))
	}
	if !bytes.Equal(key1, key2) {
		t.Error("derived key is not deterministic")
	}
}
