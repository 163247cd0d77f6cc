package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/solcraft/internal/api"
	"github.com/dmitrijs2005/solcraft/internal/flagx"
	"github.com/dmitrijs2005/solcraft/internal/timex"
)

// JsonConfig is the JSON form of Config. Durations use timex.Duration, so
// both "30s" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC string           `json:"endpoint_addr_grpc"`
	StoreType        string           `json:"store_type"`
	DatabaseDSN      string           `json:"database_dsn"`
	PebbleDir        string           `json:"pebble_dir"`
	ProgramID        string           `json:"program_id"`
	SignatureMaxAge  timex.Duration   `json:"signature_max_age"`
	LogLevel         string           `json:"log_level"`
	S3RootUser       string           `json:"s3_root_user"`
	S3RootPassword   string           `json:"s3_root_password"`
	S3Bucket         string           `json:"s3_bucket"`
	S3Region         string           `json:"s3_region"`
	S3BaseEndpoint   string           `json:"s3_base_endpoint"`
	Genesis          []api.Allocation `json:"genesis"`
}

// parseJson overlays config with the fields set in the file named by -c or
// -config. Without that flag nothing is loaded. Read and decode errors panic.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StoreType, c.StoreType)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.PebbleDir, c.PebbleDir)
	setString(&config.ProgramID, c.ProgramID)
	if c.SignatureMaxAge.Duration != 0 {
		config.SignatureMaxAge = c.SignatureMaxAge.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if len(c.Genesis) > 0 {
		config.Genesis = c.Genesis
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
