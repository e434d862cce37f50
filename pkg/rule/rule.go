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
	"strings"
)

// 🔄 Rule rewrites the text of one document.
//
// path is the source path of the document being migrated. Most rules ignore
// it; rules that only apply to specific files use it to decide.
type Rule interface {
	// Name identifies the rule in logs and in the rules listing
	Name() string
	// Apply returns the rewritten text. It must not fail: a rule that finds
	// nothing to rewrite returns text unchanged.
	Apply(text, path string) string
}

// 📦 Enclosure is a pair of delimiters wrapping a block
type Enclosure struct {
	Start string
	End   string
}

// 🔄 FixedReplace replaces every literal occurrence of Old with New
type FixedReplace struct {
	Label string
	Old   string
	New   string
}

func (r FixedReplace) Name() string {
	if r.Label != "" {
		return r.Label
	}
	return "replace"
}

func (r FixedReplace) Apply(text, _ string) string {
	if r.Old == "" {
		return text
	}
	return strings.ReplaceAll(text, r.Old, r.New)
}

// 🔄 EnclosurePairReplace rewrites the start and end delimiters of a block.
//
// The two delimiters are replaced independently across the whole document.
// Nested or unbalanced blocks are not detected.
type EnclosurePairReplace struct {
	Label string
	Src   Enclosure
	Dst   Enclosure
}

func (r EnclosurePairReplace) Name() string {
	return r.Label
}

func (r EnclosurePairReplace) Apply(text, _ string) string {
	if r.Src.Start != "" {
		text = strings.ReplaceAll(text, r.Src.Start, r.Dst.Start)
	}
	if r.Src.End != "" {
		text = strings.ReplaceAll(text, r.Src.End, r.Dst.End)
	}
	return text
}

// 🛡️ LiteralEscape returns a rule that inserts a backslash before the first
// occurrence of char inside every occurrence of phrase.
func LiteralEscape(label, phrase string, char rune) FixedReplace {
	escaped := phrase
	if i := strings.IndexRune(phrase, char); i >= 0 {
		escaped = phrase[:i] + `\` + phrase[i:]
	}
	return FixedReplace{Label: label, Old: phrase, New: escaped}
}

// 🎯 Func adapts a plain function to the Rule interface
type Func struct {
	Label string
	Fn    func(text, path string) string
}

func (f Func) Name() string { return f.Label }

func (f Func) Apply(text, path string) string { return f.Fn(text, path) }
