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

package rule

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultIndexName    = "_index.md"
	DefaultStaticPrefix = "/static"
	DefaultEscapePhrase = "AWS::"
	noticeEnd           = "{{% /notice %}}"
	directiveEnd        = ":::"
)

// 📚 Catalog is the ordered list of rules applied to every document.
// It is built once and never modified.
type Catalog struct {
	rules []Rule
}

// 🔧 Replacement is an extra literal replacement appended after the
// built-in rules
type Replacement struct {
	Old string
	New string
	// File optionally restricts the replacement to paths matching a
	// doublestar pattern, tried against the full path and the base name
	File string
}

// 🔧 Options tunes the default catalog
type Options struct {
	IndexName    string
	StaticPrefix string
	EscapePhrase string
	Replacements []Replacement
}

// 🏭 NewCatalog builds the default migration catalog.
//
// Order matters: code fences are rewritten before anything else sees them,
// and the notice rules run before image rewriting so alert bodies are
// handled like any other text.
func NewCatalog(opts Options) (*Catalog, error) {
	if opts.IndexName == "" {
		opts.IndexName = DefaultIndexName
	}
	if opts.StaticPrefix == "" {
		opts.StaticPrefix = DefaultStaticPrefix
	}
	if opts.EscapePhrase == "" {
		opts.EscapePhrase = DefaultEscapePhrase
	}

	rules := []Rule{
		FencedCodeBlockRewrite{},
		notice("warning", "Warning", "warning"),
		notice("info", "Info", "info"),
		notice("tip", "Tip", "success"),
		notice("note", "Note", "info"),
		ImagePathRewrite(),
		LiteralEscape("escape-reserved", opts.EscapePhrase, ':'),
		NewIndexFrontMatterStrip(opts.IndexName),
		PairedTabBlockRewrite{},
		DownloadButtonRewrite{StaticPrefix: opts.StaticPrefix},
	}

	for i, r := range opts.Replacements {
		if r.Old == "" {
			return nil, errors.Errorf("replacement %d: old is required", i)
		}
		var rl Rule = FixedReplace{Label: "replacement", Old: r.Old, New: r.New}
		if r.File != "" {
			if !doublestar.ValidatePattern(r.File) {
				return nil, errors.Errorf("replacement %d: invalid file pattern %q", i, r.File)
			}
			rl = fileFilter{rule: rl, pattern: r.File}
		}
		rules = append(rules, rl)
	}

	return NewCatalogFromRules(rules...), nil
}

// NewCatalogFromRules wraps an explicit rule list
func NewCatalogFromRules(rules ...Rule) *Catalog {
	return &Catalog{rules: append([]Rule(nil), rules...)}
}

// Rules returns a copy of the ordered rule list
func (c *Catalog) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// 🔄 Apply folds every rule over text in order
func (c *Catalog) Apply(text, path string) string {
	for _, r := range c.rules {
		text = r.Apply(text, path)
	}
	return text
}

func notice(kind, header, alertType string) EnclosurePairReplace {
	return EnclosurePairReplace{
		Label: "notice-" + kind,
		Src:   Enclosure{Start: "{{% notice " + kind + " %}}", End: noticeEnd},
		Dst:   Enclosure{Start: `:::alert{header="` + header + `" type="` + alertType + `"}`, End: directiveEnd},
	}
}

// fileFilter applies rule only to matching paths
type fileFilter struct {
	rule    Rule
	pattern string
}

func (f fileFilter) Name() string { return f.rule.Name() + "[" + f.pattern + "]" }

func (f fileFilter) Apply(text, path string) string {
	if !f.matches(path) {
		return text
	}
	return f.rule.Apply(text, path)
}

func (f fileFilter) matches(path string) bool {
	if ok, _ := doublestar.Match(f.pattern, filepath.ToSlash(path)); ok {
		return true
	}
	ok, _ := doublestar.Match(f.pattern, filepath.Base(path))
	return ok
}
