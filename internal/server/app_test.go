package server

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/pubkey"
	"github.com/dmitrijs2005/solcraft/internal/server/config"
	"github.com/dmitrijs2005/solcraft/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.LogLevel = "error"
	return c
}

func TestNewApp_FundsGenesis(t *testing.T) {
	c := testConfig()
	c.Genesis = []api.Allocation{{Address: pubkey.MetadataProgramID, Lamports: 3_000_000_000}}

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.store.Close() })

	got, err := services.NewQueryService(app.engine).Lamports(context.Background(), pubkey.MetadataProgramID)
	require.NoError(t, err)
	assert.Equal(t, uint64(3_000_000_000), got)
}

func TestNewApp_RejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *config.Config)
		want   string
	}{
		{"log level", func(c *config.Config) { c.LogLevel = "chatty" }, "logger init error"},
		{"program id", func(c *config.Config) { c.ProgramID = "0OIl" }, "program id"},
		{"store type", func(c *config.Config) { c.StoreType = "tape" }, "store init error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testConfig()
			tt.mutate(c)
			_, err := NewApp(context.Background(), c)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
