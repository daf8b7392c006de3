package credentials

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// Cipher seals credential passwords with an AEAD. Stored blobs are
// nonce || ciphertext; without the key no stored value is recoverable.
type Cipher struct {
	key []byte
}

// NewCipher accepts a base64-encoded 32-byte key.
func NewCipher(encodedKey string) (*Cipher, error) {
	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, errors.New("credential key is not valid base64")
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("credential key must be 32 bytes")
	}
	return &Cipher{key: key}, nil
}

func (c *Cipher) Seal(plaintext string) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

func (c *Cipher) Open(sealed []byte) (string, error) {
	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return "", err
	}

	if len(sealed) < aead.NonceSize() {
		return "", errors.New("sealed credential is truncated")
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.New("credential cannot be decrypted with the configured key")
	}
	return string(plaintext), nil
}
