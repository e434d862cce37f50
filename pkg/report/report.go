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

package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

const bannerWidth = 72

// 📊 Outcome is what happened to a processed file
type Outcome int

const (
	Unchanged Outcome = iota // rules changed nothing, file not written
	Written                  // migrated file written to the destination
	DryRun                   // file would have been written
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case DryRun:
		return "dry-run"
	default:
		return "unchanged"
	}
}

// 📄 FileResult describes one processed file
type FileResult struct {
	Source      string
	Destination string
	Outcome     Outcome
	Bytes       int
}

// 📈 Summary totals a run
type Summary struct {
	Processed int
	Written   int
	Unchanged int
	DryRun    int
}

// 🎯 Console prints operator facing progress and mirrors it to zerolog
type Console struct {
	out io.Writer
	mu  sync.Mutex
}

// 🏭 New creates a console reporter writing to out, or stdout when out is nil
func New(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// 📝 Processing prints the banner that opens a file's section
func (c *Console) Processing(ctx context.Context, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sep := strings.Repeat("-", bannerWidth)
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, color.New(color.Bold).Sprint(sep))
	fmt.Fprintln(c.out, color.New(color.FgBlue).Sprintf("   Processing %s", path))
	fmt.Fprintln(c.out, color.New(color.Bold).Sprint(sep))

	zerolog.Ctx(ctx).Debug().Str("file", path).Msg("processing file")
}

// 📝 File prints the outcome of a processed file
func (c *Console) File(ctx context.Context, res FileResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var printer *pterm.PrefixPrinter
	var msg string
	switch res.Outcome {
	case Written:
		printer = pterm.Success.WithPrefix(pterm.Prefix{Text: "✨", Style: pterm.Success.Prefix.Style})
		msg = fmt.Sprintf("Saving new content to %s", res.Destination)
	case DryRun:
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "📝", Style: pterm.Warning.Prefix.Style})
		msg = fmt.Sprintf("Would save new content to %s", res.Destination)
	default:
		printer = pterm.Info.WithPrefix(pterm.Prefix{Text: "👍", Style: pterm.Info.Prefix.Style})
		msg = "Unchanged, not copied"
	}
	printer.WithWriter(c.out).Println(msg)

	zerolog.Ctx(ctx).Info().
		Str("source", res.Source).
		Str("destination", res.Destination).
		Str("outcome", res.Outcome.String()).
		Int("bytes", res.Bytes).
		Msg("file processed")
}

// ✅ Summary prints the run totals
func (c *Console) Summary(ctx context.Context, s Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := fmt.Sprintf("Processed %d files: %d written, %d unchanged", s.Processed, s.Written, s.Unchanged)
	if s.DryRun > 0 {
		msg += fmt.Sprintf(", %d would be written", s.DryRun)
	}
	fmt.Fprintln(c.out)
	pterm.Success.WithPrefix(pterm.Prefix{Text: "✅", Style: pterm.Success.Prefix.Style}).WithWriter(c.out).Println(msg)

	zerolog.Ctx(ctx).Info().
		Int("processed", s.Processed).
		Int("written", s.Written).
		Int("unchanged", s.Unchanged).
		Int("dry_run", s.DryRun).
		Msg("migration complete")
}

// ❌ Failure prints a fatal error
func (c *Console) Failure(ctx context.Context, description string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pterm.Error.WithPrefix(pterm.Prefix{Text: "❌", Style: pterm.Error.Prefix.Style}).WithWriter(c.out).Println(description)
	if err != nil {
		fmt.Fprintln(c.out, color.New(color.FgRed).Sprint(err.Error()))
	}
	zerolog.Ctx(ctx).Error().Err(err).Msg(description)
}
