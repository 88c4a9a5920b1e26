// Package config loads credit-summary settings from defaults, an optional
// config.yaml, CREDIT_* environment variables and a local .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// envCandidates are tried in order; the first existing file wins.
var envCandidates = []string{".env", "../.env"}

var (
	envOnce sync.Once
	// Logger reports on environment loading, before the configured logger exists.
	Logger = logrus.New()
)

// LoadEnv merges the first .env file found into the process environment.
// Variables already set are not overridden. Only the first call does work.
func LoadEnv() {
	envOnce.Do(func() {
		path, ok := findEnvFile()
		if !ok {
			Logger.Debug("No .env file, relying on process environment")
			return
		}
		if err := godotenv.Load(path); err != nil {
			Logger.WithError(err).WithField("file", path).Warn("Cannot load .env file")
			return
		}
		Logger.WithField("file", path).Debug("Loaded .env file")
	})
}

func findEnvFile() (string, bool) {
	for _, candidate := range envCandidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		} else if !errors.Is(err, fs.ErrNotExist) {
			Logger.WithError(err).WithField("file", candidate).Debug("Skipping unreadable .env candidate")
		}
	}
	return "", false
}

// GetEnv returns the value of key, or fallback when key is unset. A variable
// set to the empty string is returned as is.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
