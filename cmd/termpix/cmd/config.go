/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/blacktop/go-termpix"
)

const appName = "termpix"

// Config holds defaults for the show command
type Config struct {
	Protocol string `koanf:"protocol"` // auto, sixel, kitty, iterm2, halfblocks, braille
	Scale    string `koanf:"scale"`    // fit, fill, stretch, none
	Filter   string `koanf:"filter"`   // bicubic, catmullrom, bilinear, nearest
	Colors   int    `koanf:"colors"`   // sixel palette size (2-255)
	Dither   bool   `koanf:"dither"`
	Force    bool   `koanf:"force"`

	Kitty KittyConfig `koanf:"kitty"`
}

// KittyConfig holds kitty graphics defaults
type KittyConfig struct {
	Compress bool `koanf:"compress"`
	Quiet    int  `koanf:"quiet"`
	ZIndex   int  `koanf:"z_index"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Protocol: termpix.Auto.String(),
		Scale:    termpix.ScaleFit.String(),
		Filter:   termpix.FilterBicubic.String(),
		Colors:   termpix.MaxPaletteColors,
		Kitty: KittyConfig{
			Quiet: 2,
		},
	}
}

// LoadConfig merges the given TOML files over the defaults, later files winning.
// Missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// configSources returns the config files to load. An explicit path replaces
// the search paths and must exist.
func configSources(explicit string) ([]string, error) {
	if explicit == "" {
		return configPaths(), nil
	}
	if _, err := os.Stat(explicit); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", explicit, err)
	}
	return []string{explicit}, nil
}

// configPaths returns the config files to try, lowest priority first
func configPaths() []string {
	var paths []string

	// 1. $XDG_CONFIG_HOME/termpix/config.toml
	if path, err := xdg.SearchConfigFile(filepath.Join(appName, "config.toml")); err == nil {
		paths = append(paths, path)
	}

	// 2. ./termpix.toml (pwd, highest priority)
	paths = append(paths, appName+".toml")

	return paths
}
