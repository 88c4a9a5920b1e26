// Package store loads and saves the robotic-issuer watch-list.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/credit-summary/internal/logging"
	"fjacquet/credit-summary/internal/robots"

	"gopkg.in/yaml.v3"
)

// DefaultWatchListFile is searched for when no explicit file is configured.
const DefaultWatchListFile = "robots.yaml"

// WatchListConfig is the YAML layout of a watch-list file.
type WatchListConfig struct {
	Robots []string `yaml:"robots"`
}

// WatchListStore manages loading and saving of the robotic-issuer tax ids.
type WatchListStore struct {
	File   string
	logger logging.Logger
}

// NewWatchListStore creates a store for the given file. An empty file name
// means DefaultWatchListFile in the usual locations, with the built-in list
// as fallback.
func NewWatchListStore(file string, logger logging.Logger) *WatchListStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &WatchListStore{File: file, logger: logger}
}

// LoadRobotIDs reads the watch-list at path. An empty path falls back to
// the default search and then to the built-in list.
func LoadRobotIDs(path string, logger logging.Logger) (robots.Set, error) {
	return NewWatchListStore(path, logger).LoadRobotIDs()
}

// FindConfigFile looks for a configuration file in standard locations
func (s *WatchListStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".credit-summary", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "credit-summary", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadRobotIDs loads the watch-list. A configured file that cannot be found
// is an error; a missing default file is not.
func (s *WatchListStore) LoadRobotIDs() (robots.Set, error) {
	filename := s.File
	explicit := filename != ""
	if !explicit {
		filename = DefaultWatchListFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			s.logger.Debug("No watch-list file found, using built-in list",
				logging.F(logging.FieldFile, filename))
			return robots.DefaultSet(), nil
		}
		return nil, fmt.Errorf("error resolving watch-list file %s: %w", filename, err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading watch-list file: %w", err)
	}

	ids, err := parseWatchList(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing watch-list file %s: %w", filePath, err)
	}

	set := robots.NewSet(ids...)
	s.logger.Info("Loaded robotic issuer watch-list",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(set)))
	return set, nil
}

// parseWatchList accepts either the "robots: [...]" layout or a bare list.
func parseWatchList(data []byte) ([]string, error) {
	var cfg WatchListConfig
	err := yaml.Unmarshal(data, &cfg)
	if err == nil && len(cfg.Robots) > 0 {
		return cfg.Robots, nil
	}

	var ids []string
	if listErr := yaml.Unmarshal(data, &ids); listErr == nil {
		return ids, nil
	}

	if err != nil {
		return nil, err
	}
	// A mapping without the robots key, or an empty document.
	return []string{}, nil
}

// SaveRobotIDs writes set to the configured file, or to
// config/DefaultWatchListFile when none is configured.
func (s *WatchListStore) SaveRobotIDs(set robots.Set) (string, error) {
	filePath := s.File
	if filePath == "" {
		filePath = filepath.Join("config", DefaultWatchListFile)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(WatchListConfig{Robots: set.IDs()})
	if err != nil {
		return "", fmt.Errorf("error marshaling watch-list: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return "", fmt.Errorf("error writing watch-list: %w", err)
	}

	s.logger.Debug("Saved robotic issuer watch-list",
		logging.F(logging.FieldFile, filePath),
		logging.F(logging.FieldCount, len(set)))
	return filePath, nil
}
