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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: ".mdmigrate.yaml",
			config: `
source: /workshop-src/content
destination: /workshop-dst/content
index_rename: index.fr.md
ignore:
  - "drafts/**"
replacements:
  - old: foo
    new: bar
  - old: baz
    new: qux
    file: specific.md
create_dirs: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/workshop-src/content", cfg.Source)
				assert.Equal(t, "/workshop-dst/content", cfg.Destination)
				assert.Equal(t, "index.fr.md", cfg.IndexRename)
				assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
				require.Len(t, cfg.Replacements, 2)
				assert.Equal(t, Replacement{Old: "foo", New: "bar"}, cfg.Replacements[0])
				assert.Equal(t, "specific.md", cfg.Replacements[1].File)
				assert.True(t, cfg.CreateDirs)
				assert.False(t, cfg.DryRun)
			},
		},
		{
			name:     "valid_json",
			filename: "mdmigrate.json",
			config:   `{"source": "/a", "destination": "/b", "dry_run": true, "jobs": 2}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/a", cfg.Source)
				assert.Equal(t, "/b", cfg.Destination)
				assert.True(t, cfg.DryRun)
				assert.Equal(t, 2, cfg.Jobs)
			},
		},
		{
			name:     "empty_yaml",
			filename: ".mdmigrate.yml",
			config:   "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, &Config{}, cfg)
			},
		},
		{
			name:        "unknown_yaml_field",
			filename:    ".mdmigrate.yaml",
			config:      "source: /a\nprovider: github\n",
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "c.json",
			config:      `{"source": "/a", "async": true}`,
			errContains: "parsing JSON",
		},
		{
			name:        "unsupported_extension",
			filename:    "config.toml",
			config:      "source = '/a'",
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644))

			cfg, err := Load(testContext(t), path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(testContext(t), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestFind(t *testing.T) {
	t.Run("no_file_uses_defaults", func(t *testing.T) {
		cfg, err := Find(testContext(t), "", t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("default_file_in_dir", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".mdmigrate.hcl"), []byte(`source = "/from/hcl"`), 0644))

		cfg, err := Find(testContext(t), "", dir)
		require.NoError(t, err)
		assert.Equal(t, "/from/hcl", cfg.Source)
	})

	t.Run("yaml_preferred_over_hcl", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".mdmigrate.hcl"), []byte(`source = "/from/hcl"`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".mdmigrate.yaml"), []byte("source: /from/yaml\n"), 0644))

		cfg, err := Find(testContext(t), "", dir)
		require.NoError(t, err)
		assert.Equal(t, "/from/yaml", cfg.Source)
	})

	t.Run("explicit_missing_file_fails", func(t *testing.T) {
		_, err := Find(testContext(t), filepath.Join(t.TempDir(), "custom.yaml"), t.TempDir())
		require.Error(t, err)
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvSource:      "/env/src",
		EnvDestination: "/env/dst",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := &Config{}
	cfg.ApplyEnv(lookup)
	assert.Equal(t, "/env/src", cfg.Source)
	assert.Equal(t, "/env/dst", cfg.Destination)

	cfg = &Config{Source: "/flag/src"}
	cfg.ApplyEnv(lookup)
	assert.Equal(t, "/flag/src", cfg.Source, "explicit value wins")
	assert.Equal(t, "/env/dst", cfg.Destination)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults_applied",
			cfg:  Config{Source: "/workshop-src/content", Destination: "/workshop-dst/content"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultIndexName, cfg.IndexName)
				assert.Equal(t, DefaultIndexRename, cfg.IndexRename)
				assert.Equal(t, DefaultSuffix, cfg.Suffix)
			},
		},
		{
			name: "relative_roots_resolved",
			cfg:  Config{Source: "src/content", Destination: "../dst/content/"},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, filepath.IsAbs(cfg.Source))
				assert.True(t, filepath.IsAbs(cfg.Destination))
				assert.Equal(t, "content", filepath.Base(cfg.Destination))
			},
		},
		{
			name: "sibling_with_shared_prefix",
			cfg:  Config{Source: "/work/content", Destination: "/work/content-dst"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/work/content-dst", cfg.Destination)
			},
		},
		{
			name:        "missing_source",
			cfg:         Config{Destination: "/dst"},
			errContains: "source is required",
		},
		{
			name:        "missing_destination",
			cfg:         Config{Source: "/src"},
			errContains: "destination is required",
		},
		{
			name:        "destination_inside_source",
			cfg:         Config{Source: "/src", Destination: "/src/out"},
			errContains: "must not be inside source",
		},
		{
			name:        "same_directory",
			cfg:         Config{Source: "/src", Destination: "/src"},
			errContains: "must not be inside source",
		},
		{
			name:        "negative_jobs",
			cfg:         Config{Source: "/src", Destination: "/dst", Jobs: -2},
			errContains: "jobs must not be negative",
		},
		{
			name:        "bad_ignore_pattern",
			cfg:         Config{Source: "/src", Destination: "/dst", Ignore: []string{"[abc"}},
			errContains: "invalid ignore pattern",
		},
		{
			name:        "empty_replacement",
			cfg:         Config{Source: "/src", Destination: "/dst", Replacements: []Replacement{{New: "x"}}},
			errContains: "old is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, &cfg)
		})
	}
}

func TestValidate_ResolvesSymlinks(t *testing.T) {
	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	target := filepath.Join(base, "checkout", "content")
	require.NoError(t, os.MkdirAll(target, 0755))
	require.NoError(t, os.Symlink(target, filepath.Join(base, "content")))

	cfg := &Config{
		Source:      filepath.Join(base, "content"),
		Destination: filepath.Join(base, "content", "out", "new"),
	}
	err = cfg.Validate()
	require.Error(t, err, "destination below the link is inside the resolved source")
	assert.Contains(t, err.Error(), "must not be inside source")

	cfg = &Config{
		Source:      filepath.Join(base, "content"),
		Destination: filepath.Join(base, "dst", "content"),
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, target, cfg.Source)
	assert.Equal(t, filepath.Join(base, "dst", "content"), cfg.Destination)
}

func TestConfigString(t *testing.T) {
	cfg := &Config{Source: "/a", Destination: "/b"}
	assert.Equal(t, "/a -> /b", cfg.String())
}
