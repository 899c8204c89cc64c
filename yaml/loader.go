// Package yaml loads synccheck configuration files written as YAML.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/synccheck"
	yamlv3 "gopkg.in/yaml.v3"
)

// Compile-time interface verification.
var _ synccheck.ConfigLoader = (*Loader)(nil)

// Loader overlays a YAML file onto a base configuration.
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

// Decode overlays YAML data onto base. An empty document leaves base unchanged.
func Decode(data []byte, base synccheck.Config) (synccheck.Config, error) {
	cfg := base.Clone()
	if err := yamlv3.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return base, nil
		}
		return base, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
