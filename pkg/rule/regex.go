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
	"regexp"
	"strings"
)

// 🔍 RegexReplace replaces every match of Pattern with Replacement.
// Replacement may reference capture groups with $1 style templates.
type RegexReplace struct {
	Label       string
	Pattern     *regexp.Regexp
	Replacement string
}

func (r RegexReplace) Name() string { return r.Label }

func (r RegexReplace) Apply(text, _ string) string {
	return r.Pattern.ReplaceAllString(text, r.Replacement)
}

var imagePathPattern = regexp.MustCompile(`\]\(/images/`)

// 🖼️ ImagePathRewrite moves absolute /images/ links under /static/images/
func ImagePathRewrite() RegexReplace {
	return RegexReplace{
		Label:       "image-path",
		Pattern:     imagePathPattern,
		Replacement: "](/static/images/",
	}
}

// 📄 IndexFrontMatterStrip removes headings and a front matter key from
// section index files. Other files pass through untouched.
//
// Each pattern removes the matched line together with the newline before
// it, so a match on the first line leaves an empty first line behind.
type IndexFrontMatterStrip struct {
	IndexName string
	Patterns  []*regexp.Regexp
}

var defaultIndexPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)\n?^###[ \t].*$`),
	regexp.MustCompile(`(?m)\n?^##[ \t].*$`),
	regexp.MustCompile(`(?m)\n?^#[ \t].*$`),
	regexp.MustCompile(`(?m)\n?^chapter:.*$`),
}

// NewIndexFrontMatterStrip builds the strip rule for files named indexName
func NewIndexFrontMatterStrip(indexName string) IndexFrontMatterStrip {
	return IndexFrontMatterStrip{IndexName: indexName, Patterns: defaultIndexPatterns}
}

func (r IndexFrontMatterStrip) Name() string { return "index-front-matter" }

func (r IndexFrontMatterStrip) Apply(text, p string) string {
	if filepath.Base(p) != r.IndexName {
		return text
	}
	for _, re := range r.Patterns {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

var downloadButtonPattern = regexp.MustCompile(`\{\{% button href="([^"]*)" icon="fas fa-download" %\}\}(.*?)\{\{% /button %\}\}`)

// ⬇️ DownloadButtonRewrite turns download button shortcodes into link
// buttons served from StaticPrefix. The href is prefixed with exactly one
// slash between the two and is otherwise kept as written.
type DownloadButtonRewrite struct {
	StaticPrefix string
}

func (r DownloadButtonRewrite) Name() string { return "download-button" }

func (r DownloadButtonRewrite) Apply(text, _ string) string {
	return downloadButtonPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := downloadButtonPattern.FindStringSubmatch(match)
		href := strings.TrimSuffix(r.StaticPrefix, "/") + "/" + strings.TrimPrefix(groups[1], "/")
		return `::button[` + groups[2] + `]{href="` + href + `" action=download}`
	})
}
