// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	EnvSource      = "MDMIGRATE_SRC"
	EnvDestination = "MDMIGRATE_DST"

	DefaultIndexName   = "_index.md"
	DefaultIndexRename = "index.en.md"
	DefaultSuffix      = ".md"
)

// DefaultFiles are looked up, in order, when no config file is given
var DefaultFiles = []string{".mdmigrate.yaml", ".mdmigrate.yml", ".mdmigrate.hcl", ".mdmigrate.json"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Replacement is an extra literal replacement applied after the built-in rules
type Replacement struct {
	Old  string `json:"old" yaml:"old" hcl:"old"`
	New  string `json:"new" yaml:"new" hcl:"new"`
	File string `json:"file,omitempty" yaml:"file,omitempty" hcl:"file,optional"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Source       string        `json:"source,omitempty" yaml:"source,omitempty" hcl:"source,optional"`
	Destination  string        `json:"destination,omitempty" yaml:"destination,omitempty" hcl:"destination,optional"`
	IndexName    string        `json:"index_name,omitempty" yaml:"index_name,omitempty" hcl:"index_name,optional"`
	IndexRename  string        `json:"index_rename,omitempty" yaml:"index_rename,omitempty" hcl:"index_rename,optional"`
	Suffix       string        `json:"suffix,omitempty" yaml:"suffix,omitempty" hcl:"suffix,optional"`
	Ignore       []string      `json:"ignore,omitempty" yaml:"ignore,omitempty" hcl:"ignore,optional"`
	Replacements []Replacement `json:"replacements,omitempty" yaml:"replacements,omitempty" hcl:"replacement,block"`
	DryRun       bool          `json:"dry_run,omitempty" yaml:"dry_run,omitempty" hcl:"dry_run,optional"`
	CreateDirs   bool          `json:"create_dirs,omitempty" yaml:"create_dirs,omitempty" hcl:"create_dirs,optional"`
	Jobs         int           `json:"jobs,omitempty" yaml:"jobs,omitempty" hcl:"jobs,optional"`
}

// 🎯 Load reads and parses the configuration file at path.
// The result is not validated; callers apply overrides first.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// 🔍 Find loads path when set, otherwise the first default file present in
// dir. With no file at all it returns an empty config.
func Find(ctx context.Context, path, dir string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	for _, name := range DefaultFiles {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return Load(ctx, candidate)
		}
	}
	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using defaults")
	return &Config{}, nil
}

// 🌱 ApplyEnv fills source and destination from the environment when unset
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if cfg.Source == "" {
		if v, ok := lookup(EnvSource); ok {
			cfg.Source = v
		}
	}
	if cfg.Destination == "" {
		if v, ok := lookup(EnvDestination); ok {
			cfg.Destination = v
		}
	}
}

// 🔍 Validate checks the configuration, resolves the roots to absolute
// paths with symlinks evaluated and sets defaults
func (cfg *Config) Validate() error {
	if cfg.Source == "" {
		return errors.Errorf("source is required (flag --src, config source or $%s)", EnvSource)
	}
	if cfg.Destination == "" {
		return errors.Errorf("destination is required (flag --dst, config destination or $%s)", EnvDestination)
	}
	if cfg.Jobs < 0 {
		return errors.Errorf("jobs must not be negative, got %d", cfg.Jobs)
	}

	src, err := filepath.Abs(cfg.Source)
	if err != nil {
		return errors.Errorf("resolving source: %w", err)
	}
	dst, err := filepath.Abs(cfg.Destination)
	if err != nil {
		return errors.Errorf("resolving destination: %w", err)
	}
	// the walker yields paths below the resolved source, the mapper must
	// see the same root
	src = resolveSymlinks(src)
	dst = resolveSymlinks(dst)
	if rel, err := filepath.Rel(src, dst); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return errors.Errorf("destination %s must not be inside source %s", dst, src)
	}
	cfg.Source = src
	cfg.Destination = dst

	for _, pattern := range cfg.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	for i, r := range cfg.Replacements {
		if r.Old == "" {
			return errors.Errorf("replacement %d: old is required", i)
		}
	}

	if cfg.IndexName == "" {
		cfg.IndexName = DefaultIndexName
	}
	if cfg.IndexRename == "" {
		cfg.IndexRename = DefaultIndexRename
	}
	if cfg.Suffix == "" {
		cfg.Suffix = DefaultSuffix
	}

	return nil
}

// resolveSymlinks evaluates the symlinks of the deepest existing ancestor
// of p and appends the part that does not exist yet
func resolveSymlinks(p string) string {
	rest := ""
	for cur := p; ; {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return filepath.Join(resolved, rest)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return p
		}
		rest = filepath.Join(filepath.Base(cur), rest)
		cur = parent
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s -> %s", cfg.Source, cfg.Destination)
}
