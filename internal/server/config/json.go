package config

import (
	"encoding/json"
	"os"

	"orderstore/internal/flagx"
	"orderstore/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for the token lifetime, which
// allows parsing both string values such as "15m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into the
// runtime Config struct which uses time.Duration.
type JsonConfig struct {
	EndpointAddr           string         `json:"endpoint_addr"`
	DatabaseDSN            string         `json:"database_dsn"`
	OrdersTable            string         `json:"orders_table"`
	StorageMode            string         `json:"storage_mode"`
	BucketARN              string         `json:"bucket_arn"`
	BucketEncryptionKeyARN string         `json:"bucket_encryption_key_arn"`
	BaseRoleARN            string         `json:"base_role_arn"`
	Region                 string         `json:"region"`
	TokenDuration          timex.Duration `json:"token_duration"`
	AllowedOrigin          string         `json:"allowed_origin"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags; if neither
// is set, no JSON file is loaded. If the file cannot be read or contains
// invalid JSON, the function panics: the service must not start on a
// half-applied config.
func parseJson(config *Config) {

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

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.OrdersTable = c.OrdersTable
	config.StorageMode = c.StorageMode
	config.BucketARN = c.BucketARN
	config.BucketEncryptionKeyARN = c.BucketEncryptionKeyARN
	config.BaseRoleARN = c.BaseRoleARN
	config.Region = c.Region
	config.TokenDuration = c.TokenDuration.Duration
	config.AllowedOrigin = c.AllowedOrigin
}
