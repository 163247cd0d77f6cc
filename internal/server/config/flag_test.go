package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-t", "pebble", "-d", "db", "-f", "/var/lib/ledger",
			"-i", "CADbArgTHGSsSiMJfXdtGYjQeLRf55f6QoQW7bNphicC", "-m", "30", "-l", "debug",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrGRPC: "127.0.0.1:9090",
				StoreType:        "pebble",
				DatabaseDSN:      "db",
				PebbleDir:        "/var/lib/ledger",
				ProgramID:        "CADbArgTHGSsSiMJfXdtGYjQeLRf55f6QoQW7bNphicC",
				SignatureMaxAge:  30 * time.Second,
				LogLevel:         "debug",
				S3RootUser:       "user",
				S3RootPassword:   "password",
				S3Bucket:         "bucket",
				S3Region:         "us-west-1",
				S3BaseEndpoint:   "http://endpoint",
			}},
		{name: "unknown flags are ignored", args: []string{"cmd", "-z", "1", "-m", "5"},
			expected: &Config{SignatureMaxAge: 5 * time.Second}},
		{name: "bad integer", args: []string{"cmd", "-m", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
