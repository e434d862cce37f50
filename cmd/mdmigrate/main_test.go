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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/mdmigrate/cmd/mdmigrate/opts"
)

const noticePage = "Hello World\n{{% notice info %}}\nBODY\n{{% /notice %}}\nEnd of Hello World\n"

const migratedNoticePage = "Hello World\n:::alert{header=\"Info\" type=\"info\"}\nBODY\n:::\nEnd of Hello World\n"

// 🧪 cli runs the root command against a temp workspace
type cli struct {
	dir    string
	env    map[string]string
	stdin  string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return &cli{dir: dir, env: map[string]string{}}
}

func (c *cli) run(args ...string) error {
	c.stdout.Reset()
	c.stderr.Reset()

	rootCmd, o := newRootCmd(&c.stdout, &c.stderr)
	c.configure(o)
	rootCmd.SetIn(strings.NewReader(c.stdin))
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func (c *cli) configure(o *opts.RootOpts) {
	o.Dir = c.dir
	o.LookupEnv = func(k string) (string, bool) {
		v, ok := c.env[k]
		return v, ok
	}
}

func (c *cli) write(t *testing.T, rel, content string) string {
	t.Helper()
	p := filepath.Join(c.dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func (c *cli) read(t *testing.T, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(c.dir, rel))
	require.NoError(t, err)
	return string(b)
}

func (c *cli) mkdir(t *testing.T, rel string) string {
	t.Helper()
	p := filepath.Join(c.dir, rel)
	require.NoError(t, os.MkdirAll(p, 0755))
	return p
}

func TestMigrateCommand(t *testing.T) {
	c := newCLI(t)
	src := filepath.Dir(c.write(t, "src/content/page.md", noticePage))
	c.write(t, "src/content/plain.md", "nothing to do\n")
	dst := c.mkdir(t, "dst/content")

	require.NoError(t, c.run("migrate", "--src", src, "--dst", dst))

	assert.Equal(t, migratedNoticePage, c.read(t, "dst/content/page.md"))
	assert.NoFileExists(t, filepath.Join(dst, "plain.md"))

	out := c.stdout.String()
	assert.Contains(t, out, "Processing "+filepath.Join(src, "page.md"))
	assert.Contains(t, out, "Saving new content to "+filepath.Join(dst, "page.md"))
	assert.Contains(t, out, "Unchanged, not copied")
	assert.Contains(t, out, "Processed 2 files: 1 written, 1 unchanged")
}

func TestMigrateCommand_Sources(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, c *cli, src, dst string) []string
	}{
		{
			name: "environment",
			setup: func(t *testing.T, c *cli, src, dst string) []string {
				c.env["MDMIGRATE_SRC"] = src
				c.env["MDMIGRATE_DST"] = dst
				return nil
			},
		},
		{
			name: "default_config_file",
			setup: func(t *testing.T, c *cli, src, dst string) []string {
				c.write(t, ".mdmigrate.yaml", "source: "+src+"\ndestination: "+dst+"\n")
				return nil
			},
		},
		{
			name: "explicit_hcl_config",
			setup: func(t *testing.T, c *cli, src, dst string) []string {
				cfg := c.write(t, "conf/migrate.hcl", "source = \"${env.HCL_SRC}\"\ndestination = \""+filepath.ToSlash(dst)+"\"\n")
				t.Setenv("HCL_SRC", filepath.ToSlash(src))
				return []string{"--config", cfg}
			},
		},
		{
			name: "flags_override_config",
			setup: func(t *testing.T, c *cli, src, dst string) []string {
				c.write(t, ".mdmigrate.yaml", "source: /does/not/exist\ndestination: /nowhere\n")
				return []string{"--src", src, "--dst", dst}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			src := filepath.Dir(c.write(t, "src/content/page.md", noticePage))
			dst := c.mkdir(t, "dst/content")

			args := append([]string{"migrate"}, tt.setup(t, c, src, dst)...)
			require.NoError(t, c.run(args...))
			assert.Equal(t, migratedNoticePage, c.read(t, "dst/content/page.md"))
		})
	}
}

func TestMigrateCommand_SymlinkedSource(t *testing.T) {
	c := newCLI(t)
	c.write(t, "checkout/content/page.md", noticePage)
	link := filepath.Join(c.dir, "content")
	require.NoError(t, os.Symlink(filepath.Join(c.dir, "checkout", "content"), link))
	dst := c.mkdir(t, "dst")

	require.NoError(t, c.run("migrate", "--src", link, "--dst", dst))
	assert.Equal(t, migratedNoticePage, c.read(t, "dst/page.md"))
	assert.Contains(t, c.stdout.String(), "Processed 1 files: 1 written, 0 unchanged")
}

func TestMigrateCommand_Options(t *testing.T) {
	t.Run("dry_run", func(t *testing.T) {
		c := newCLI(t)
		src := filepath.Dir(c.write(t, "src/page.md", noticePage))
		dst := c.mkdir(t, "dst")

		require.NoError(t, c.run("migrate", "--src", src, "--dst", dst, "--dry-run"))
		assert.NoFileExists(t, filepath.Join(dst, "page.md"))
		assert.Contains(t, c.stdout.String(), "Would save new content to "+filepath.Join(dst, "page.md"))
		assert.Contains(t, c.stdout.String(), "1 would be written")
	})

	t.Run("create_dirs", func(t *testing.T) {
		c := newCLI(t)
		c.write(t, "src/10_intro/_index.md", "---\nchapter: true\n---\n# Intro\n{{% notice tip %}}\nx\n{{% /notice %}}\n")
		src := filepath.Join(c.dir, "src")
		dst := filepath.Join(c.dir, "dst")

		err := c.run("migrate", "--src", src, "--dst", dst)
		require.Error(t, err)

		require.NoError(t, c.run("migrate", "--src", src, "--dst", dst, "--create-dirs", "--jobs", "2"))
		assert.Equal(t, "---\n---\n:::alert{header=\"Tip\" type=\"success\"}\nx\n:::\n", c.read(t, "dst/10_intro/index.en.md"))
	})

	t.Run("ignore", func(t *testing.T) {
		c := newCLI(t)
		c.write(t, "src/drafts/page.md", noticePage)
		c.write(t, "src/page.md", noticePage)
		src := filepath.Join(c.dir, "src")
		dst := c.mkdir(t, "dst/drafts")

		require.NoError(t, c.run("migrate", "--src", src, "--dst", filepath.Dir(dst), "--ignore", "drafts/**"))
		assert.FileExists(t, filepath.Join(c.dir, "dst", "page.md"))
		assert.NoFileExists(t, filepath.Join(dst, "page.md"))
	})

	t.Run("replacements", func(t *testing.T) {
		c := newCLI(t)
		src := filepath.Dir(c.write(t, "src/page.md", "Run the CDK app\n"))
		dst := c.mkdir(t, "dst")
		c.write(t, ".mdmigrate.yaml", "replacements:\n  - old: CDK\n    new: AWS CDK\n")

		require.NoError(t, c.run("migrate", "--src", src, "--dst", dst))
		assert.Equal(t, "Run the AWS CDK app\n", c.read(t, "dst/page.md"))
	})
}

func TestMigrateCommand_Errors(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, c *cli) []string
		errContains string
	}{
		{
			name: "missing_destination",
			setup: func(t *testing.T, c *cli) []string {
				return []string{"--src", c.mkdir(t, "src")}
			},
			errContains: "destination is required",
		},
		{
			name: "destination_inside_source",
			setup: func(t *testing.T, c *cli) []string {
				src := c.mkdir(t, "src")
				return []string{"--src", src, "--dst", filepath.Join(src, "out")}
			},
			errContains: "must not be inside source",
		},
		{
			name: "missing_source_tree",
			setup: func(t *testing.T, c *cli) []string {
				return []string{"--src", filepath.Join(c.dir, "nope"), "--dst", c.mkdir(t, "dst")}
			},
			errContains: "reading root",
		},
		{
			name: "unknown_config_key",
			setup: func(t *testing.T, c *cli) []string {
				c.write(t, ".mdmigrate.yaml", "source: /a\nprovider: github\n")
				return nil
			},
			errContains: "loading config",
		},
		{
			name: "negative_jobs",
			setup: func(t *testing.T, c *cli) []string {
				return []string{"--src", c.mkdir(t, "src"), "--dst", c.mkdir(t, "dst"), "--jobs", "-1"}
			},
			errContains: "jobs must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCLI(t)
			args := append([]string{"migrate"}, tt.setup(t, c)...)
			err := c.run(args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestConvertCommand(t *testing.T) {
	c := newCLI(t)
	page := c.write(t, "page.md", noticePage)

	require.NoError(t, c.run("convert", page))
	assert.Equal(t, migratedNoticePage, c.stdout.String())

	c.stdin = "![diagram](/images/arch.png)\n"
	require.NoError(t, c.run("convert", "-"))
	assert.Equal(t, "![diagram](/static/images/arch.png)\n", c.stdout.String())

	err := c.run("convert", filepath.Join(c.dir, "missing.md"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")
}

func TestRulesCommand(t *testing.T) {
	c := newCLI(t)
	c.write(t, ".mdmigrate.yaml", "replacements:\n  - old: a\n    new: b\n    file: \"*.md\"\n")

	require.NoError(t, c.run("rules"))

	lines := strings.Split(strings.TrimSpace(c.stdout.String()), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "1. code-block", strings.TrimSpace(lines[0]))
	assert.Equal(t, "10. download-button", lines[9])
	assert.Equal(t, "11. replacement[*.md]", lines[10])
}

func TestVersionCommand(t *testing.T) {
	c := newCLI(t)

	require.NoError(t, c.run("version"))
	assert.Contains(t, c.stdout.String(), "mdmigrate version info")

	require.NoError(t, c.run("version", "--json"))
	var info VersionInfo
	require.NoError(t, json.Unmarshal(c.stdout.Bytes(), &info))
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Version)
}

func TestDebugFlag(t *testing.T) {
	c := newCLI(t)
	src := c.mkdir(t, "src")
	dst := c.mkdir(t, "dst")

	require.NoError(t, c.run("migrate", "--src", src, "--dst", dst))
	assert.NotContains(t, c.stderr.String(), "starting migration")

	require.NoError(t, c.run("--debug", "migrate", "--src", src, "--dst", dst))
	assert.Contains(t, c.stderr.String(), "starting migration")
}
