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

// Package pathmap computes destination paths for migrated files.
package pathmap

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

const (
	DefaultIndexName   = "_index.md"
	DefaultIndexRename = "index.en.md"
)

// 🗺️ MapPath replaces every occurrence of srcRoot in src with dstRoot.
//
// The substitution is purely textual; src does not have to be below srcRoot.
func MapPath(src, srcRoot, dstRoot string) (string, error) {
	if srcRoot == "" {
		return "", errors.Errorf("source root is empty")
	}
	dst := strings.ReplaceAll(src, srcRoot, dstRoot)
	if err := validate(dst); err != nil {
		return "", errors.Errorf("mapping %s: %w", src, err)
	}
	return dst, nil
}

// 🏷️ RenameIndex swaps the final path segment for renamed when it equals
// indexName. Any other path is returned unchanged.
func RenameIndex(path, indexName, renamed string) string {
	if indexName == "" || filepath.Base(path) != indexName {
		return path
	}
	return path[:len(path)-len(indexName)] + renamed
}

func validate(p string) error {
	switch {
	case p == "":
		return errors.Errorf("destination path is empty")
	case strings.ContainsRune(p, 0):
		return errors.Errorf("destination path %q contains a NUL byte", p)
	case !utf8.ValidString(p):
		return errors.Errorf("destination path %q is not valid UTF-8", p)
	}
	return nil
}

// 🧭 Mapper maps source files below SourceRoot to DestRoot
type Mapper struct {
	SourceRoot  string
	DestRoot    string
	IndexName   string
	IndexRename string
}

// NewMapper returns a Mapper using the default index names
func NewMapper(sourceRoot, destRoot string) Mapper {
	return Mapper{
		SourceRoot:  sourceRoot,
		DestRoot:    destRoot,
		IndexName:   DefaultIndexName,
		IndexRename: DefaultIndexRename,
	}
}

// Destination maps the root and then renames index files
func (m Mapper) Destination(src string) (string, error) {
	dst, err := MapPath(src, m.SourceRoot, m.DestRoot)
	if err != nil {
		return "", err
	}
	return RenameIndex(dst, m.IndexName, m.IndexRename), nil
}
