package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/dmitrijs2005/ideabank/internal/flagx"
)

// loadDotenv loads the dotenv file named by -env (default .env) into the
// process environment. Variables already set win; a missing file is
// ignored.
func loadDotenv(args []string) {
	err := godotenv.Load(flagx.EnvFile(args))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays IDEABANK_* environment variables. Unset variables
// leave the current value alone.
func parseEnv(config *Config) {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		panic(err)
	}
}
