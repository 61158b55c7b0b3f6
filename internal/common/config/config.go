package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/messagely/messagely/internal/common/constants"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
)

type Config struct {
	HTTPPort       string
	DatabaseURL    string
	TokenSecret    string
	BcryptCost     int
	RequestTimeout time.Duration
}

// Load reads the process configuration from the environment once at startup.
// TOKEN_SECRET and DATABASE_URL are required; everything else has defaults.
func Load() (Config, error) {
	tokenSecret, err := mustEnv("TOKEN_SECRET")
	if err != nil {
		return Config{}, err
	}

	if len(tokenSecret) < constants.TokenSecretMinLength {
		return Config{}, commonerrors.ErrInvalidTokenSecret.WithCause(
			fmt.Errorf("got %d bytes", len(tokenSecret)))
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:       getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		TokenSecret:    tokenSecret,
		BcryptCost:     getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", commonerrors.ErrMissingRequiredEnv.WithCause(fmt.Errorf("%s", key))
	}
	return v, nil
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
