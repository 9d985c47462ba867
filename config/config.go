// SPDX-License-Identifier: Unlicense OR MIT

// Package config loads named context attribute presets from YAML.
//
// A document names a default preset and maps preset names to the
// buffers and version they request:
//
//	default: hdr
//	presets:
//	  hdr: {version: "4.5", alpha: true, depth: true, stencil: true}
//	  flat: {version: "3.3"}
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"gioui.org/glctx/wgl"
)

// DefaultPresetName is the preset used when a document doesn't name
// one.
const DefaultPresetName = "default"

// Preset is the YAML form of wgl.ContextAttributes.
type Preset struct {
	Version string `yaml:"version"`
	Alpha   bool   `yaml:"alpha"`
	Depth   bool   `yaml:"depth"`
	Stencil bool   `yaml:"stencil"`
}

// Config is a set of named presets.
type Config struct {
	DefaultPreset string            `yaml:"default"`
	Presets       map[string]Preset `yaml:"presets"`
}

// ErrUnknownPreset is returned for preset names that aren't defined.
var ErrUnknownPreset = errors.New("config: unknown preset")

// DefaultConfig returns the configuration used when no file exists: a
// single OpenGL 3.3 preset with alpha, depth and stencil buffers.
func DefaultConfig() *Config {
	return &Config{
		DefaultPreset: DefaultPresetName,
		Presets: map[string]Preset{
			DefaultPresetName: {Version: "3.3", Alpha: true, Depth: true, Stencil: true},
		},
	}
}

// Load reads and validates the configuration at path. A missing file
// yields DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML document. Unknown fields are
// rejected. An empty document yields DefaultConfig.
func Parse(data []byte) (*Config, error) {
	cfg := new(Config)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if err != io.EOF {
			return nil, err
		}
		return DefaultConfig(), nil
	}
	if cfg.DefaultPreset == "" && len(cfg.Presets) == 0 {
		return DefaultConfig(), nil
	}
	if cfg.DefaultPreset == "" {
		cfg.DefaultPreset = DefaultPresetName
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the default preset exists and every preset has
// a valid version.
func (c *Config) Validate() error {
	if _, ok := c.Presets[c.DefaultPreset]; !ok {
		return fmt.Errorf("%w: default %q", ErrUnknownPreset, c.DefaultPreset)
	}
	for _, name := range c.Names() {
		if strings.TrimSpace(name) == "" {
			return errors.New("config: empty preset name")
		}
		if _, err := c.Presets[name].Attributes(); err != nil {
			return fmt.Errorf("config: preset %q: %w", name, err)
		}
	}
	return nil
}

// Names returns the preset names in sorted order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Attributes returns the context attributes of the named preset.
func (c *Config) Attributes(name string) (wgl.ContextAttributes, error) {
	p, ok := c.Presets[name]
	if !ok {
		return wgl.ContextAttributes{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p.Attributes()
}

// Default returns the context attributes of the default preset.
func (c *Config) Default() (wgl.ContextAttributes, error) {
	return c.Attributes(c.DefaultPreset)
}

// Attributes converts p. Versions must have the form "major.minor".
func (p Preset) Attributes() (wgl.ContextAttributes, error) {
	v, err := wgl.ParseGLVersion(p.Version)
	if err != nil {
		return wgl.ContextAttributes{}, err
	}
	if p.Version != v.String() {
		return wgl.ContextAttributes{}, fmt.Errorf("config: version %q is not of the form major.minor", p.Version)
	}
	var flags wgl.ContextAttributeFlags
	if p.Alpha {
		flags |= wgl.Alpha
	}
	if p.Depth {
		flags |= wgl.Depth
	}
	if p.Stencil {
		flags |= wgl.Stencil
	}
	return wgl.ContextAttributes{Flags: flags, Version: v}, nil
}
