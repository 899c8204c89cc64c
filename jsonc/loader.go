// Package jsonc loads synccheck configuration files written as JSON with
// comments and trailing commas.
package jsonc

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/synccheck"
	"github.com/tidwall/jsonc"
)

// Compile-time interface verification.
var _ synccheck.ConfigLoader = (*Loader)(nil)

// Loader overlays a JSON or JSONC file onto a base configuration.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads path and replaces every key present in the file; absent keys
// keep their value from base.
func (l *Loader) Load(path string, base synccheck.Config) (synccheck.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	return Decode(data, base)
}

// Decode overlays JSONC data onto base.
func Decode(data []byte, base synccheck.Config) (synccheck.Config, error) {
	cfg := base.Clone()
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return base, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
