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
	tabsEnd   = `{{< /tabs >}}`
	tabEnd    = `{{% /tab %}}`
	tabMarker = `{{% tab name=`
)

// a grouped block runs from its opening shortcode to the nearest close
var tabBlockPattern = regexp.MustCompile(`(?s)\{\{< tabs groupId="[^"]*" >\}\}.*?\{\{< /tabs >\}\}`)

var pairedTabsPattern = regexp.MustCompile(
	`(?s)^\{\{< tabs groupId="([^"]*)" >\}\}\n` +
		`\{\{% tab name="([^"]*)" %\}\}\n.*?\{\{% /tab %\}\}\n` +
		`\{\{% tab name="([^"]*)" %\}\}\n.*?\{\{% /tab %\}\}\n` +
		`\{\{< /tabs >\}\}$`)

// 🗂️ PairedTabBlockRewrite converts grouped blocks of exactly two tabs.
//
// Each block is rewritten on its own: its group id and tab names select
// which markers inside the block are replaced. Blocks with any other tab
// count, and all text outside blocks, are left unchanged.
type PairedTabBlockRewrite struct{}

// pairedTabs holds the captures of a matched two-tab block
type pairedTabs struct {
	group string
	names [2]string
}

func (PairedTabBlockRewrite) Name() string { return "paired-tabs" }

func (r PairedTabBlockRewrite) Apply(text, _ string) string {
	return tabBlockPattern.ReplaceAllStringFunc(text, rewriteTabBlock)
}

func rewriteTabBlock(block string) string {
	tabs, ok := parsePairedTabs(block)
	if !ok {
		return block
	}

	block = strings.ReplaceAll(block, `{{< tabs groupId="`+tabs.group+`" >}}`, `::::tabs{variant="`+tabs.group+`"}`)
	for _, name := range tabs.names {
		block = strings.ReplaceAll(block, `{{% tab name="`+name+`" %}}`, `:::tab{id="`+name+`" label="`+name+`"}`)
	}
	block = strings.ReplaceAll(block, tabEnd, `:::`)
	return strings.ReplaceAll(block, tabsEnd, `::::`)
}

// parsePairedTabs reports the captures of a single block holding exactly two
// tabs. The lazy bodies can swallow a third tab, so markers are counted.
func parsePairedTabs(block string) (pairedTabs, bool) {
	if strings.Count(block, tabMarker) != 2 {
		return pairedTabs{}, false
	}
	m := pairedTabsPattern.FindStringSubmatch(block)
	if m == nil {
		return pairedTabs{}, false
	}
	return pairedTabs{group: m[1], names: [2]string{m[2], m[3]}}, true
}
