package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/solcraft/internal/flagx"
)

// GlobalFlags lists the flags this package consumes, including the JSON
// config selectors. The CLI strips them before reading its command.
var GlobalFlags = []string{"-a", "-k", "-s", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, so command arguments do not interfere.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-k", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.KeystoreDir, "k", cfg.KeystoreDir, "keystore directory")
	signatureTTL := fs.Int("s", int(cfg.SignatureTTL.Seconds()), "request signature lifetime (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SignatureTTL = time.Duration(*signatureTTL) * time.Second
}
