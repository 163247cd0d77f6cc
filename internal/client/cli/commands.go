package cli

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dmitrijs2005/solcraft/internal/client/client"
	"github.com/dmitrijs2005/solcraft/internal/common"
	"github.com/dmitrijs2005/solcraft/internal/metadata"
	"github.com/dmitrijs2005/solcraft/internal/netx"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *App, args []string) (any, error)
}

var commands = map[string]command{
	"keygen":    {"keygen [-plain] [-seed HEX] NAME", keygen},
	"address":   {"address NAME", address},
	"addresses": {"addresses", addresses},

	"init-factory":  {"init-factory -admin KEY -fee LAMPORTS", initFactory},
	"update-fee":    {"update-fee -admin KEY -fee LAMPORTS", updateFee},
	"pause":         {"pause -admin KEY", pause},
	"unpause":       {"unpause -admin KEY", unpause},
	"withdraw-fees": {"withdraw-fees -admin KEY", withdrawFees},

	"create-asset":              {"create-asset -payer KEY -mint KEY -name NAME -symbol SYMBOL [-uri URI] [-decimals N] -supply UNITS", createAsset},
	"mint-more":                 {"mint-more -authority KEY -mint ADDR -amount UNITS", mintMore},
	"transfer-mint-authority":   {"transfer-mint-authority -authority KEY -mint ADDR [-to ADDR]", transferMintAuthority},
	"transfer-freeze-authority": {"transfer-freeze-authority -authority KEY -mint ADDR [-to ADDR]", transferFreezeAuthority},

	"init-faucet": {"init-faucet -owner KEY -mint ADDR", initFaucet},
	"deposit":     {"deposit -depositor KEY -amount UNITS", deposit},
	"withdraw":    {"withdraw -owner KEY -amount UNITS", withdraw},
	"claim":       {"claim -recipient KEY", claim},

	"factory-config":   {"factory-config", factoryConfig},
	"faucet-config":    {"faucet-config", faucetConfig},
	"faucet-recipient": {"faucet-recipient -recipient ADDR", faucetRecipient},
	"balance":          {"balance -address ADDR", balance},
	"token-balance":    {"token-balance -owner ADDR -mint ADDR", tokenBalance},
	"mint":             {"mint -mint ADDR", mintInfo},
	"metadata":         {"metadata -mint ADDR [-fetch]", metadataInfo},
}

// Usage writes the command synopsis to w.
func Usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "Commands:")
	for _, name := range names {
		fmt.Fprintln(w, "  "+commands[name].usage)
	}
}

type done struct {
	Status string `json:"status"`
}

var okResult = done{Status: "ok"}

type amountResult struct {
	Amount uint64 `json:"amount"`
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

// parse parses args and checks that every flag in required was given a
// non-empty value.
func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	var missing []string
	for _, name := range required {
		if f := fs.Lookup(name); f == nil || f.Value.String() == "" {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s requires %s", ErrUsage, fs.Name(), strings.Join(missing, ", "))
	}
	return nil
}

func addresses(ctx context.Context, a *App, args []string) (any, error) {
	if err := parse(a.flagSet("addresses"), args); err != nil {
		return nil, err
	}
	return a.client.Addresses(ctx)
}

func initFactory(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("init-factory")
	admin := fs.String("admin", "", "admin key name")
	fee := fs.Uint64("fee", 0, "asset creation fee in lamports")
	if err := parse(fs, args, "admin"); err != nil {
		return nil, err
	}
	key, err := a.signer(*admin)
	if err != nil {
		return nil, err
	}
	return a.client.InitializeFactory(ctx, key, *fee)
}

func updateFee(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("update-fee")
	admin := fs.String("admin", "", "admin key name")
	fee := fs.Uint64("fee", 0, "new asset creation fee in lamports")
	if err := parse(fs, args, "admin"); err != nil {
		return nil, err
	}
	key, err := a.signer(*admin)
	if err != nil {
		return nil, err
	}
	if err := a.client.UpdateCreationFee(ctx, key, *fee); err != nil {
		return nil, err
	}
	return okResult, nil
}

func pause(ctx context.Context, a *App, args []string) (any, error) {
	return adminToggle(ctx, a, "pause", args, a.client.PauseFactory)
}

func unpause(ctx context.Context, a *App, args []string) (any, error) {
	return adminToggle(ctx, a, "unpause", args, a.client.UnpauseFactory)
}

func adminToggle(ctx context.Context, a *App, name string, args []string,
	op func(context.Context, ed25519.PrivateKey) error) (any, error) {
	fs := a.flagSet(name)
	admin := fs.String("admin", "", "admin key name")
	if err := parse(fs, args, "admin"); err != nil {
		return nil, err
	}
	key, err := a.signer(*admin)
	if err != nil {
		return nil, err
	}
	if err := op(ctx, key); err != nil {
		return nil, err
	}
	return okResult, nil
}

func withdrawFees(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("withdraw-fees")
	admin := fs.String("admin", "", "admin key name")
	if err := parse(fs, args, "admin"); err != nil {
		return nil, err
	}
	key, err := a.signer(*admin)
	if err != nil {
		return nil, err
	}
	n, err := a.client.WithdrawFees(ctx, key)
	if err != nil {
		return nil, err
	}
	return struct {
		Withdrawn uint64 `json:"withdrawn"`
	}{n}, nil
}

func createAsset(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("create-asset")
	payer := fs.String("payer", "", "payer key name, receives the initial supply")
	mint := fs.String("mint", "", "key name of the new mint address")
	name := fs.String("name", "", "asset name")
	symbol := fs.String("symbol", "", "asset symbol")
	uri := fs.String("uri", "", "off-chain metadata URI")
	decimals := fs.Uint("decimals", uint(common.MaxDecimals), "decimal precision")
	supply := fs.Uint64("supply", 0, "initial supply in base units")
	if err := parse(fs, args, "payer", "mint", "name", "symbol"); err != nil {
		return nil, err
	}
	if *decimals > 255 {
		return nil, fmt.Errorf("%w: -decimals out of range", ErrUsage)
	}

	payerKey, err := a.signer(*payer)
	if err != nil {
		return nil, err
	}
	mintKey, err := a.signer(*mint)
	if err != nil {
		return nil, err
	}
	return a.client.CreateAsset(ctx, payerKey, mintKey, client.AssetParams{
		Name:     *name,
		Symbol:   *symbol,
		URI:      *uri,
		Decimals: uint8(*decimals),
		Supply:   *supply,
	})
}

func mintMore(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("mint-more")
	authority := fs.String("authority", "", "mint authority key name")
	mint := fs.String("mint", "", "mint address or key name")
	amount := fs.Uint64("amount", 0, "base units to mint")
	if err := parse(fs, args, "authority", "mint"); err != nil {
		return nil, err
	}
	mintAddr, err := a.resolve(*mint)
	if err != nil {
		return nil, err
	}
	key, err := a.signer(*authority)
	if err != nil {
		return nil, err
	}
	if err := a.client.MintMore(ctx, key, mintAddr, *amount); err != nil {
		return nil, err
	}
	return okResult, nil
}

func transferMintAuthority(ctx context.Context, a *App, args []string) (any, error) {
	return transferAuthority(ctx, a, "transfer-mint-authority", args, a.client.TransferMintAuthority)
}

func transferFreezeAuthority(ctx context.Context, a *App, args []string) (any, error) {
	return transferAuthority(ctx, a, "transfer-freeze-authority", args, a.client.TransferFreezeAuthority)
}

// transferAuthority hands an authority to -to, or revokes it when -to is
// omitted.
func transferAuthority(ctx context.Context, a *App, name string, args []string,
	op func(context.Context, ed25519.PrivateKey, pubkey.Address, *pubkey.Address) error) (any, error) {
	fs := a.flagSet(name)
	authority := fs.String("authority", "", "current authority key name")
	mint := fs.String("mint", "", "mint address or key name")
	to := fs.String("to", "", "new authority address or key name, omit to revoke")
	if err := parse(fs, args, "authority", "mint"); err != nil {
		return nil, err
	}
	mintAddr, err := a.resolve(*mint)
	if err != nil {
		return nil, err
	}
	var next *pubkey.Address
	if *to != "" {
		addr, err := a.resolve(*to)
		if err != nil {
			return nil, err
		}
		next = &addr
	}
	key, err := a.signer(*authority)
	if err != nil {
		return nil, err
	}
	if err := op(ctx, key, mintAddr, next); err != nil {
		return nil, err
	}
	return okResult, nil
}

func initFaucet(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("init-faucet")
	owner := fs.String("owner", "", "faucet owner key name")
	mint := fs.String("mint", "", "mint address or key name")
	if err := parse(fs, args, "owner", "mint"); err != nil {
		return nil, err
	}
	mintAddr, err := a.resolve(*mint)
	if err != nil {
		return nil, err
	}
	key, err := a.signer(*owner)
	if err != nil {
		return nil, err
	}
	return a.client.InitializeFaucet(ctx, key, mintAddr)
}

func deposit(ctx context.Context, a *App, args []string) (any, error) {
	return faucetTransfer(ctx, a, "deposit", "depositor", args, a.client.Deposit)
}

func withdraw(ctx context.Context, a *App, args []string) (any, error) {
	return faucetTransfer(ctx, a, "withdraw", "owner", args, a.client.Withdraw)
}

func faucetTransfer(ctx context.Context, a *App, name, role string, args []string,
	op func(context.Context, ed25519.PrivateKey, uint64) error) (any, error) {
	fs := a.flagSet(name)
	signer := fs.String(role, "", role+" key name")
	amount := fs.Uint64("amount", 0, "base units to move")
	if err := parse(fs, args, role); err != nil {
		return nil, err
	}
	key, err := a.signer(*signer)
	if err != nil {
		return nil, err
	}
	if err := op(ctx, key, *amount); err != nil {
		return nil, err
	}
	return okResult, nil
}

func claim(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("claim")
	recipient := fs.String("recipient", "", "recipient key name")
	if err := parse(fs, args, "recipient"); err != nil {
		return nil, err
	}
	key, err := a.signer(*recipient)
	if err != nil {
		return nil, err
	}
	return a.client.Claim(ctx, key)
}

func factoryConfig(ctx context.Context, a *App, args []string) (any, error) {
	if err := parse(a.flagSet("factory-config"), args); err != nil {
		return nil, err
	}
	return a.client.FactoryConfig(ctx)
}

func faucetConfig(ctx context.Context, a *App, args []string) (any, error) {
	if err := parse(a.flagSet("faucet-config"), args); err != nil {
		return nil, err
	}
	return a.client.FaucetConfig(ctx)
}

func faucetRecipient(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("faucet-recipient")
	recipient := fs.String("recipient", "", "recipient address or key name")
	if err := parse(fs, args, "recipient"); err != nil {
		return nil, err
	}
	addr, err := a.resolve(*recipient)
	if err != nil {
		return nil, err
	}
	return a.client.FaucetRecipient(ctx, addr)
}

func balance(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("balance")
	addr := fs.String("address", "", "account address or key name")
	if err := parse(fs, args, "address"); err != nil {
		return nil, err
	}
	target, err := a.resolve(*addr)
	if err != nil {
		return nil, err
	}
	n, err := a.client.Balance(ctx, target)
	if err != nil {
		return nil, err
	}
	return amountResult{Amount: n}, nil
}

func tokenBalance(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("token-balance")
	owner := fs.String("owner", "", "holder address or key name")
	mint := fs.String("mint", "", "mint address or key name")
	if err := parse(fs, args, "owner", "mint"); err != nil {
		return nil, err
	}
	ownerAddr, err := a.resolve(*owner)
	if err != nil {
		return nil, err
	}
	mintAddr, err := a.resolve(*mint)
	if err != nil {
		return nil, err
	}
	n, err := a.client.TokenBalance(ctx, ownerAddr, mintAddr)
	if err != nil {
		return nil, err
	}
	return amountResult{Amount: n}, nil
}

func mintInfo(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("mint")
	mint := fs.String("mint", "", "mint address or key name")
	if err := parse(fs, args, "mint"); err != nil {
		return nil, err
	}
	addr, err := a.resolve(*mint)
	if err != nil {
		return nil, err
	}
	return a.client.Mint(ctx, addr)
}

type metadataResult struct {
	*metadata.Metadata
	Document json.RawMessage `json:"document,omitempty"`
}

func metadataInfo(ctx context.Context, a *App, args []string) (any, error) {
	fs := a.flagSet("metadata")
	mint := fs.String("mint", "", "mint address or key name")
	fetch := fs.Bool("fetch", false, "also download the off-chain document at the metadata URI")
	if err := parse(fs, args, "mint"); err != nil {
		return nil, err
	}
	addr, err := a.resolve(*mint)
	if err != nil {
		return nil, err
	}
	md, err := a.client.Metadata(ctx, addr)
	if err != nil {
		return nil, err
	}
	res := metadataResult{Metadata: md}
	if *fetch && md.Data.URI != "" {
		if err := netx.FetchJSON(ctx, md.Data.URI, &res.Document); err != nil {
			return nil, err
		}
	}
	return res, nil
}
