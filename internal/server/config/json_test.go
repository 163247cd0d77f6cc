package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	admin := pubkey.MetadataProgramID.String()
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_grpc": "www.example:9000",
		"store_type":         "postgres",
		"database_dsn":       "postgres://db",
		"signature_max_age":  "45s",
		"log_level":          "warn",
		"s3_bucket":          "assets",
		"genesis": []map[string]any{
			{"address": admin, "lamports": 5_000_000_000},
		},
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		want := &Config{}
		want.LoadDefaults()
		want.EndpointAddrGRPC = "www.example:9000"
		want.StoreType = "postgres"
		want.DatabaseDSN = "postgres://db"
		want.SignatureMaxAge = 45 * time.Second
		want.LogLevel = "warn"
		want.S3Bucket = "assets"
		want.Genesis = []api.Allocation{{Address: pubkey.MetadataProgramID, Lamports: 5_000_000_000}}

		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("flags override json", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", pathFlag, "-t", "pebble"}

		cfg := LoadConfig()
		assert.Equal(t, "pebble", cfg.StoreType)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrGRPC: "defaults:1234",
			StoreType:        "memory",
			SignatureMaxAge:  2 * time.Minute,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrGRPC)
		assert.Equal(t, "memory", cfg.StoreType)
		assert.Equal(t, 2*time.Minute, cfg.SignatureMaxAge)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
