package cli

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/solcraft/internal/client/client"
	"github.com/dmitrijs2005/solcraft/internal/client/config"
	"github.com/dmitrijs2005/solcraft/internal/client/keystore"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage error")

type App struct {
	config   *config.Config
	keystore *keystore.Keystore
	client   *client.EngineClient
	out      io.Writer
	reader   *bufio.Reader

	// passphrase unseals stored keys. It prompts on the terminal by default.
	passphrase keystore.PassphraseFunc
}

func NewApp(c *config.Config) (*App, error) {
	cl, err := client.NewEngineClient(c.ServerEndpointAddr, c.SignatureTTL)
	if err != nil {
		return nil, err
	}
	return newApp(c, cl, os.Stdout, os.Stdin), nil
}

func newApp(c *config.Config, cl *client.EngineClient, out io.Writer, in io.Reader) *App {
	a := &App{
		config:   c,
		keystore: keystore.New(c.KeystoreDir),
		client:   cl,
		out:      out,
		reader:   bufio.NewReader(in),
	}
	a.passphrase = func(name string) ([]byte, error) {
		return GetPassword(a.out, fmt.Sprintf("Passphrase for %s: ", name))
	}
	return a
}

// Run executes args as a single command, or starts the interactive prompt
// when args is empty.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.client.Close()

	if len(args) == 0 {
		a.Root(ctx)
		return nil
	}
	return a.Execute(ctx, args)
}

// Execute runs one command and prints its result.
func (a *App) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	res, err := cmd.run(ctx, a, args[1:])
	if err != nil {
		return err
	}
	return a.print(res)
}

func (a *App) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// resolve accepts a base58 address or the name of a stored key.
func (a *App) resolve(s string) (pubkey.Address, error) {
	if addr, err := pubkey.Parse(s); err == nil {
		return addr, nil
	}
	addr, err := a.keystore.Address(s)
	if err != nil {
		return pubkey.Address{}, fmt.Errorf("%q is neither an address nor a stored key: %w", s, err)
	}
	return addr, nil
}

func (a *App) signer(name string) (ed25519.PrivateKey, error) {
	return a.keystore.Signer(name, a.passphrase)
}
