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

package output

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 Writer stores migrated documents
type Writer interface {
	WriteFile(ctx context.Context, path string, content []byte) error
}

// 🔧 FileWriter writes documents to the local file system
type FileWriter struct {
	// CreateDirs creates missing parent directories. When false a missing
	// parent directory is an error.
	CreateDirs bool
	Mode       os.FileMode
}

// 🏭 NewFileWriter returns a FileWriter with 0644 file mode
func NewFileWriter(createDirs bool) *FileWriter {
	return &FileWriter{CreateDirs: createDirs, Mode: 0644}
}

func (w *FileWriter) WriteFile(ctx context.Context, path string, content []byte) error {
	dir := filepath.Dir(path)
	if w.CreateDirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Errorf("creating parent directories: %w", err)
		}
	} else if info, err := os.Stat(dir); err != nil {
		return errors.Errorf("checking destination directory: %w", err)
	} else if !info.IsDir() {
		return errors.Errorf("destination parent %s is not a directory", dir)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("writing file")
	return w.writeFileAtomic(path, content)
}

// writeFileAtomic writes to a temp file next to path and renames it over
// the target, replacing any previous content
func (w *FileWriter) writeFileAtomic(path string, content []byte) error {
	mode := w.Mode
	if mode == 0 {
		mode = 0644
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("setting file mode: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}
