// Package keystore keeps ed25519 signing keys in a directory, one JSON file
// per named key. Seeds are sealed with a passphrase unless the key is
// stored in plain form.
package keystore

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/dmitrijs2005/solcraft/internal/cryptox"
	"github.com/dmitrijs2005/solcraft/internal/filex"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/shared"
)

var (
	ErrKeyExists   = errors.New("keystore: key already exists")
	ErrKeyNotFound = errors.New("keystore: key not found")
	ErrInvalidName = errors.New("keystore: invalid key name")
)

var validName = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// PassphraseFunc supplies the passphrase for a key when it is needed.
type PassphraseFunc func(name string) ([]byte, error)

type file struct {
	Address pubkey.Address  `json:"address"`
	Seed    []byte          `json:"seed,omitempty"`
	Sealed  *cryptox.Sealed `json:"sealed,omitempty"`
}

type Keystore struct {
	dir string
}

func New(dir string) *Keystore {
	return &Keystore{dir: dir}
}

func (k *Keystore) path(name string) (string, error) {
	if !validName.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(k.dir, name+".json"), nil
}

// Generate creates a key under name. A nil passphrase stores the seed in
// plain form.
func (k *Keystore) Generate(name string, passphrase []byte) (pubkey.Address, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return pubkey.Address{}, err
	}
	defer shared.WipeByteArray(priv)
	return k.Import(name, priv.Seed(), passphrase)
}

// Import stores seed under name.
func (k *Keystore) Import(name string, seed, passphrase []byte) (pubkey.Address, error) {
	if len(seed) != ed25519.SeedSize {
		return pubkey.Address{}, fmt.Errorf("keystore: seed must be %d bytes", ed25519.SeedSize)
	}
	p, err := k.path(name)
	if err != nil {
		return pubkey.Address{}, err
	}

	priv := ed25519.NewKeyFromSeed(seed)
	defer shared.WipeByteArray(priv)
	addr, err := pubkey.FromPublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return pubkey.Address{}, err
	}

	f := file{Address: addr}
	if passphrase == nil {
		f.Seed = seed
	} else {
		if f.Sealed, err = cryptox.Seal(seed, passphrase); err != nil {
			return pubkey.Address{}, err
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return pubkey.Address{}, err
	}
	if _, err := filex.EnsureDir(k.dir, 0o700); err != nil {
		return pubkey.Address{}, err
	}

	out, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return pubkey.Address{}, fmt.Errorf("%w: %s", ErrKeyExists, name)
		}
		return pubkey.Address{}, err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return pubkey.Address{}, err
	}
	return addr, out.Close()
}

func (k *Keystore) read(name string) (*file, error) {
	p, err := k.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
		}
		return nil, err
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("keystore %s: %w", name, err)
	}
	return &f, nil
}

// Address returns the public address of name without unsealing it.
func (k *Keystore) Address(name string) (pubkey.Address, error) {
	f, err := k.read(name)
	if err != nil {
		return pubkey.Address{}, err
	}
	return f.Address, nil
}

// Signer loads the private key of name, asking passphrase for sealed keys.
func (k *Keystore) Signer(name string, passphrase PassphraseFunc) (ed25519.PrivateKey, error) {
	f, err := k.read(name)
	if err != nil {
		return nil, err
	}

	seed := f.Seed
	if f.Sealed != nil {
		if passphrase == nil {
			return nil, fmt.Errorf("keystore %s: key is sealed", name)
		}
		pw, err := passphrase(name)
		if err != nil {
			return nil, err
		}
		seed, err = cryptox.Open(f.Sealed, pw)
		shared.WipeByteArray(pw)
		if err != nil {
			return nil, fmt.Errorf("keystore %s: %w", name, err)
		}
		defer shared.WipeByteArray(seed)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("keystore %s: malformed seed", name)
	}

	priv := ed25519.NewKeyFromSeed(seed)
	addr, err := pubkey.FromPublicKey(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	if addr != f.Address {
		return nil, fmt.Errorf("keystore %s: seed does not match address %s", name, f.Address)
	}
	return priv, nil
}
