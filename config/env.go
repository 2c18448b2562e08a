package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds settings read from the process environment. A .env file in the
// working directory is loaded first; variables already set in the
// environment are not overridden by it.
type Env struct {
	// AccessToken is the Phrase API token (read and write scopes).
	AccessToken string `env:"PHRASE_ACCESS_TOKEN"`
	// APIURL overrides the Phrase API host.
	APIURL string `env:"PHRASE_API_URL"`
}

// ErrParsingEnv is returned when environment variables cannot be parsed.
var ErrParsingEnv = errors.New("failed to parse environment variables")

// LoadEnv loads dotenv files (default ".env"; missing files are ignored)
// and parses the environment into an Env.
func LoadEnv(dotenvFiles ...string) (*Env, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, errors.Join(ErrParsingEnv, err)
	}
	return &e, nil
}
