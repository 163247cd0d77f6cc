package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"

	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/shared"
)

type keyResult struct {
	Name    string         `json:"name"`
	Address pubkey.Address `json:"address"`
}

func keygen(_ context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("keygen")
	plain := fs.Bool("plain", false, "store the seed without a passphrase")
	seedHex := fs.String("seed", "", "import this hex-encoded 32-byte seed instead of generating one")
	name, err := parseNamed(fs, args)
	if err != nil {
		return nil, err
	}

	var pw []byte
	if !*plain {
		if pw, err = a.newPassphrase(name); err != nil {
			return nil, err
		}
		defer shared.WipeByteArray(pw)
	}

	var addr pubkey.Address
	if *seedHex != "" {
		seed, err := hex.DecodeString(*seedHex)
		if err != nil {
			return nil, fmt.Errorf("%w: -seed: %v", ErrUsage, err)
		}
		defer shared.WipeByteArray(seed)
		addr, err = a.keystore.Import(name, seed, pw)
		if err != nil {
			return nil, err
		}
	} else if addr, err = a.keystore.Generate(name, pw); err != nil {
		return nil, err
	}
	return keyResult{Name: name, Address: addr}, nil
}

func (a *App) newPassphrase(name string) ([]byte, error) {
	first, err := a.passphrase(name)
	if err != nil {
		return nil, err
	}
	second, err := a.passphrase(name)
	if err != nil {
		shared.WipeByteArray(first)
		return nil, err
	}
	defer shared.WipeByteArray(second)

	if len(first) == 0 {
		return nil, errors.New("empty passphrase, use -plain to store the key unsealed")
	}
	if !bytes.Equal(first, second) {
		shared.WipeByteArray(first)
		return nil, errors.New("passphrases do not match")
	}
	return first, nil
}

func address(_ context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("address")
	name, err := parseNamed(fs, args)
	if err != nil {
		return nil, err
	}
	addr, err := a.keystore.Address(name)
	if err != nil {
		return nil, err
	}
	return keyResult{Name: name, Address: addr}, nil
}

// parseNamed parses fs and returns its single positional argument.
func parseNamed(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s takes exactly one key name", ErrUsage, fs.Name())
	}
	return fs.Arg(0), nil
}
