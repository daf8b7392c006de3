package credentials

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"testing"
)

func testKey(t *testing.T) string {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestCipher_RoundTrip(t *testing.T) {
	c, err := NewCipher(testKey(t))
	if err != nil {
		t.Fatalf("NewCipher failed: %v", err)
	}

	sealed, err := c.Seal("hunter2")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if bytes.Contains(sealed, []byte("hunter2")) {
		t.Error("Sealed blob contains the plaintext")
	}

	opened, err := c.Open(sealed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if opened != "hunter2" {
		t.Errorf("Round trip changed the value: %q", opened)
	}
}

func TestCipher_NonceVariesPerSeal(t *testing.T) {
	c, err := NewCipher(testKey(t))
	if err != nil {
		t.Fatalf("NewCipher failed: %v", err)
	}

	a, _ := c.Seal("same value")
	b, _ := c.Seal("same value")
	if bytes.Equal(a, b) {
		t.Error("Two seals of the same value produced identical blobs")
	}
}

func TestCipher_WrongKeyFails(t *testing.T) {
	c1, _ := NewCipher(testKey(t))
	c2, _ := NewCipher(testKey(t))

	sealed, err := c1.Seal("secret")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if _, err := c2.Open(sealed); err == nil {
		t.Error("Opening with a different key should fail")
	}
}

func TestCipher_TamperDetected(t *testing.T) {
	c, _ := NewCipher(testKey(t))

	sealed, err := c.Seal("secret")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	sealed[len(sealed)-1] ^= 0xff
	if _, err := c.Open(sealed); err == nil {
		t.Error("Tampered blob should fail to open")
	}
}

func TestNewCipher_RejectsBadKeys(t *testing.T) {
	if _, err := NewCipher("not base64!!!"); err == nil {
		t.Error("Invalid base64 should be rejected")
	}
	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	if _, err := NewCipher(short); err == nil {
		t.Error("Short key should be rejected")
	}
}

func TestCipher_TruncatedBlob(t *testing.T) {
	c, _ := NewCipher(testKey(t))
	if _, err := c.Open([]byte{1, 2, 3}); err == nil {
		t.Error("Truncated blob should fail to open")
	}
}
