package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/invoicekeeper/internal/flagx"
	"github.com/dmitrijs2005/invoicekeeper/internal/timex"
)

// JsonConfig mirrors Config for file decoding. CommandTimeout accepts "30s"
// as well as integer nanoseconds.
type JsonConfig struct {
	Env               string         `json:"env"`
	DatabaseDSN       string         `json:"database_dsn"`
	MigrateOnStart    bool           `json:"migrate_on_start"`
	CommandTimeout    timex.Duration `json:"command_timeout"`
	Argon2Memory      uint32         `json:"argon2_memory"`
	Argon2Iterations  uint32         `json:"argon2_iterations"`
	Argon2Parallelism uint8          `json:"argon2_parallelism"`
	S3RootUser        string         `json:"s3_root_user"`
	S3RootPassword    string         `json:"s3_root_password"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
}

// parseJson overlays the file given with -c or -config onto config. Keys
// absent from the file keep their current values. Read and decode errors
// panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{
		Env:               config.Env,
		DatabaseDSN:       config.DatabaseDSN,
		MigrateOnStart:    config.MigrateOnStart,
		CommandTimeout:    timex.Duration{Duration: config.CommandTimeout},
		Argon2Memory:      config.Argon2Memory,
		Argon2Iterations:  config.Argon2Iterations,
		Argon2Parallelism: config.Argon2Parallelism,
		S3RootUser:        config.S3RootUser,
		S3RootPassword:    config.S3RootPassword,
		S3Bucket:          config.S3Bucket,
		S3Region:          config.S3Region,
		S3BaseEndpoint:    config.S3BaseEndpoint,
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.Env = c.Env
	config.DatabaseDSN = c.DatabaseDSN
	config.MigrateOnStart = c.MigrateOnStart
	config.CommandTimeout = c.CommandTimeout.Duration
	config.Argon2Memory = c.Argon2Memory
	config.Argon2Iterations = c.Argon2Iterations
	config.Argon2Parallelism = c.Argon2Parallelism
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
