package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/ideabank/internal/flagx"
	"github.com/dmitrijs2005/ideabank/internal/timex"
)

// JsonConfig is the JSON file shape. Durations accept strings such as
// "30m" or integer nanoseconds.
type JsonConfig struct {
	HTTPAddr                    string            `json:"http_addr"`
	StoreDriver                 string            `json:"store_driver"`
	SQLDriver                   string            `json:"sql_driver"`
	DatabaseDSN                 string            `json:"database_dsn"`
	MongoURI                    string            `json:"mongo_uri"`
	MongoDatabase               string            `json:"mongo_database"`
	MongoCollection             string            `json:"mongo_collection"`
	SecretKey                   string            `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration    `json:"access_token_validity_duration"`
	Admins                      map[string]string `json:"admins"`
	MirrorDriver                string            `json:"mirror_driver"`
	MirrorFolder                string            `json:"mirror_folder"`
	S3RootUser                  string            `json:"s3_root_user"`
	S3RootPassword              string            `json:"s3_root_password"`
	S3Bucket                    string            `json:"s3_bucket"`
	S3Region                    string            `json:"s3_region"`
	S3BaseEndpoint              string            `json:"s3_base_endpoint"`
	GCSBucket                   string            `json:"gcs_bucket"`
	GCSCredentialsFile          string            `json:"gcs_credentials_file"`
	FSMirrorRoot                string            `json:"fs_mirror_root"`
	CORSOrigins                 []string          `json:"cors_origins"`
	LogLevel                    string            `json:"log_level"`
	LogFormat                   string            `json:"log_format"`
	ShutdownTimeout             timex.Duration    `json:"shutdown_timeout"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}

// parseJson loads the file named by -c/-config, if any, and copies every
// field present in it into config. Read or decode errors panic.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.StoreDriver, c.StoreDriver)
	setString(&config.SQLDriver, c.SQLDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.MongoCollection, c.MongoCollection)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	if len(c.Admins) > 0 {
		config.Admins = c.Admins
	}
	setString(&config.MirrorDriver, c.MirrorDriver)
	setString(&config.MirrorFolder, c.MirrorFolder)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.GCSBucket, c.GCSBucket)
	setString(&config.GCSCredentialsFile, c.GCSCredentialsFile)
	setString(&config.FSMirrorRoot, c.FSMirrorRoot)
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
}
