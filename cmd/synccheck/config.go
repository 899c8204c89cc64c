package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/synccheck"
	"github.com/fwojciec/synccheck/jsonc"
	"github.com/fwojciec/synccheck/yaml"
)

// configNames are searched for in the root directory, in order.
var configNames = []string{
	".sync-check.json",
	".sync-check.jsonc",
	".sync-check.yaml",
	".sync-check.yml",
}

// LoadConfig overlays the config file onto the defaults. An explicit path
// must exist; otherwise the first discovered file is used, and no file at
// all yields the defaults. It returns the path that was loaded, if any.
func LoadConfig(root, explicit string) (synccheck.Config, string, error) {
	cfg := synccheck.DefaultConfig()

	path := explicit
	if path == "" {
		found, err := discoverConfig(root)
		if err != nil {
			return cfg, "", err
		}
		if found == "" {
			return cfg, "", nil
		}
		path = found
	}

	loader, err := loaderFor(path)
	if err != nil {
		return cfg, "", err
	}
	loaded, err := loader.Load(path, cfg)
	if err != nil {
		return cfg, "", fmt.Errorf("config %s: %w", path, err)
	}
	return loaded, path, nil
}

func discoverConfig(root string) (string, error) {
	for _, name := range configNames {
		path := filepath.Join(root, name)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config %s: %w", path, err)
		}
	}
	return "", nil
}

func loaderFor(path string) (synccheck.ConfigLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return jsonc.NewLoader(), nil
	case ".yaml", ".yml":
		return yaml.NewLoader(), nil
	}
	return nil, fmt.Errorf("config %s: unsupported format, use .json, .jsonc, .yaml or .yml", path)
}
