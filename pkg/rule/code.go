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
	"regexp"
	"strings"
)

const (
	fence       = "```"
	noCopyToken = "nocopy"
)

// the language tag must be followed by a space, "```swift" alone is not an
// opening fence here
var openFencePattern = regexp.MustCompile("^```([^ ]+) (.*)$")

// 💻 FencedCodeBlockRewrite converts fenced code blocks line by line.
//
// An opening fence with a language and attributes becomes a code directive.
// Every bare fence line, opening or closing, becomes a directive close.
type FencedCodeBlockRewrite struct{}

func (FencedCodeBlockRewrite) Name() string { return "code-block" }

func (FencedCodeBlockRewrite) Apply(text, _ string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		// CRLF documents keep their line endings
		body, cr := strings.CutSuffix(line, "\r")
		eol := ""
		if cr {
			eol = "\r"
		}
		if m := openFencePattern.FindStringSubmatch(body); m != nil {
			lines[i] = openCodeDirective(m[1], m[2]) + eol
			continue
		}
		if body == fence {
			lines[i] = ":::" + eol
		}
	}
	return strings.Join(lines, "\n")
}

func openCodeDirective(language, attrs string) string {
	if strings.Contains(attrs, noCopyToken) {
		return ":::code{language=" + language + " showCopyAction=false}"
	}
	return ":::code{language=" + language + "}"
}
