// Package cryptox seals small secrets with a passphrase-derived key.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/solcraft/internal/shared"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length of the random salt stored next to a sealed secret.
	SaltSize = 16
	// KeySize selects AES-256.
	KeySize = 32
)

var ErrDecrypt = errors.New("cryptox: wrong passphrase or corrupted data")

// DeriveKey stretches passphrase into an AES-256 key with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// Sealed is a secret encrypted with AES-GCM under a key derived from a
// passphrase and Salt.
type Sealed struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Seal encrypts plaintext under passphrase with a fresh salt and nonce.
func Seal(plaintext, passphrase []byte) (*Sealed, error) {
	salt, err := shared.RandBytes(SaltSize)
	if err != nil {
		return nil, err
	}

	key := DeriveKey(passphrase, salt)
	defer shared.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce, err := shared.RandBytes(aesgcm.NonceSize())
	if err != nil {
		return nil, err
	}

	return &Sealed{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aesgcm.Seal(nil, nonce, plaintext, nil),
	}, nil
}

// Open decrypts s with passphrase. Any authentication failure is reported
// as ErrDecrypt.
func Open(s *Sealed, passphrase []byte) ([]byte, error) {
	key := DeriveKey(passphrase, s.Salt)
	defer shared.WipeByteArray(key)

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(s.Nonce) != aesgcm.NonceSize() {
		return nil, ErrDecrypt
	}

	plaintext, err := aesgcm.Open(nil, s.Nonce, s.Ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
