package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/solcraft/internal/flagx"
	"github.com/dmitrijs2005/solcraft/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	KeystoreDir        string         `json:"keystore_dir"`
	SignatureTTL       timex.Duration `json:"signature_ttl"`
}

// parseJson overlays Config with the fields set in the JSON file named by
// -c or -config. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.KeystoreDir != "" {
		cfg.KeystoreDir = jc.KeystoreDir
	}
	if jc.SignatureTTL.Duration != 0 {
		cfg.SignatureTTL = jc.SignatureTTL.Duration
	}
}
