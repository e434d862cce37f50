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

// Package walk enumerates the documents of a source tree.
package walk

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultSuffix selects markdown files
const DefaultSuffix = ".md"

// 🔍 Walker finds regular files below a root
type Walker struct {
	// Match reports whether a file base name is selected
	Match func(name string) bool
	// Ignore holds doublestar patterns matched against the slash separated
	// path relative to the root
	Ignore []string
}

// 🏭 New returns a Walker selecting names that end with suffix
func New(suffix string, ignore ...string) *Walker {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Walker{
		Match:  func(name string) bool { return strings.HasSuffix(name, suffix) },
		Ignore: ignore,
	}
}

// 🚶 Files lazily yields the absolute path of every selected file in
// lexical order. A symlinked root is resolved first, so yielded paths are
// below the resolved root.
//
// A missing or unreadable root yields a single error and stops. Entries
// whose metadata cannot be read are logged and skipped. Hidden entries and
// anything that is not a regular file are skipped; hidden directories are
// not descended.
func (w *Walker) Files(ctx context.Context, root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		logger := zerolog.Ctx(ctx)

		abs, err := filepath.Abs(root)
		if err != nil {
			yield("", errors.Errorf("resolving root %s: %w", root, err))
			return
		}
		// WalkDir does not descend into a symlinked root
		abs, err = filepath.EvalSymlinks(abs)
		if err != nil {
			yield("", errors.Errorf("reading root: %w", err))
			return
		}
		info, err := os.Stat(abs)
		if err != nil {
			yield("", errors.Errorf("reading root: %w", err))
			return
		}
		if !info.IsDir() {
			yield("", errors.Errorf("root %s is not a directory", abs))
			return
		}

		stopped := false
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if path == abs {
					return errors.Errorf("reading root: %w", err)
				}
				logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path == abs {
				return nil
			}

			name := d.Name()
			if strings.HasPrefix(name, ".") || w.ignored(abs, path) {
				logger.Debug().Str("path", path).Msg("skipping entry")
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			fi, err := d.Info()
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("skipping entry with unreadable metadata")
				return nil
			}
			if !fi.Mode().IsRegular() || !w.Match(name) {
				return nil
			}

			if !yield(path, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", err)
		}
	}
}

func (w *Walker) ignored(root, path string) bool {
	if len(w.Ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.Ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
