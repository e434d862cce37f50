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

package migrate

import (
	"context"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/mdmigrate/pkg/output"
	"github.com/walteh/mdmigrate/pkg/pathmap"
	"github.com/walteh/mdmigrate/pkg/report"
	"github.com/walteh/mdmigrate/pkg/rule"
	"github.com/walteh/mdmigrate/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 📢 Reporter receives per-file progress
type Reporter interface {
	Processing(ctx context.Context, path string)
	File(ctx context.Context, res report.FileResult)
}

// 🔧 Options contains everything a Driver needs
type Options struct {
	// SourceRoot is the directory walked for documents
	SourceRoot string
	Catalog    *rule.Catalog
	Walker     *walk.Walker
	Mapper     pathmap.Mapper
	Writer     output.Writer
	Reporter   Reporter
	// DryRun computes everything but never writes
	DryRun bool
	// Jobs above one transforms documents concurrently. Writes and
	// reports still happen one at a time in walk order.
	Jobs int
}

// 🏃 Driver migrates a source tree into a destination tree
type Driver struct {
	sourceRoot string
	rules      []rule.Rule
	walker     *walk.Walker
	mapper     pathmap.Mapper
	writer     output.Writer
	reporter   Reporter
	dryRun     bool
	jobs       int
}

// 🏭 New creates a driver with the given options
func New(opts Options) (*Driver, error) {
	if opts.SourceRoot == "" {
		return nil, errors.Errorf("source root is required")
	}
	if opts.Catalog == nil {
		return nil, errors.Errorf("catalog is required")
	}
	if opts.Mapper.SourceRoot == "" {
		return nil, errors.Errorf("mapper source root is required")
	}
	if opts.Walker == nil {
		return nil, errors.Errorf("walker is required")
	}
	if opts.Writer == nil && !opts.DryRun {
		return nil, errors.Errorf("writer is required")
	}
	if opts.Reporter == nil {
		return nil, errors.Errorf("reporter is required")
	}
	if opts.Jobs < 0 {
		return nil, errors.Errorf("jobs must not be negative, got %d", opts.Jobs)
	}
	return &Driver{
		sourceRoot: opts.SourceRoot,
		rules:      opts.Catalog.Rules(),
		walker:     opts.Walker,
		mapper:     opts.Mapper,
		writer:     opts.Writer,
		reporter:   opts.Reporter,
		dryRun:     opts.DryRun,
		jobs:       opts.Jobs,
	}, nil
}

// 📄 document is one file moving through the pipeline
type document struct {
	source      string
	destination string
	original    string
	migrated    string
}

func (doc *document) changed() bool {
	return doc.migrated != doc.original
}

// 🏃 Run walks the source tree and migrates every selected file.
//
// Any failure other than an unreadable entry during the walk stops the run
// and is returned. Files already written stay written.
func (d *Driver) Run(ctx context.Context) (report.Summary, error) {
	if d.jobs > 1 {
		return d.runConcurrent(ctx)
	}

	var summary report.Summary
	for path, err := range d.walker.Files(ctx, d.sourceRoot) {
		if err != nil {
			return summary, errors.Errorf("walking %s: %w", d.sourceRoot, err)
		}

		d.reporter.Processing(ctx, path)

		doc := &document{source: path}
		if err := d.transform(ctx, doc); err != nil {
			return summary, err
		}
		if err := d.commit(ctx, doc, &summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// 🔄 transform reads a document, applies the rules and maps its destination
func (d *Driver) transform(ctx context.Context, doc *document) error {
	logger := zerolog.Ctx(ctx)

	raw, err := os.ReadFile(doc.source)
	if err != nil {
		return errors.Errorf("reading %s: %w", doc.source, err)
	}
	if !utf8.Valid(raw) {
		return errors.Errorf("reading %s: content is not valid UTF-8", doc.source)
	}
	doc.original = string(raw)

	text := doc.original
	for _, r := range d.rules {
		next := r.Apply(text, doc.source)
		if next != text {
			logger.Debug().Str("file", doc.source).Str("rule", r.Name()).Msg("rule rewrote document")
		}
		text = next
	}
	doc.migrated = text

	dst, err := d.mapper.Destination(doc.source)
	if err != nil {
		return errors.Errorf("mapping destination: %w", err)
	}
	if dst == doc.source {
		return errors.Errorf("mapping destination: %s is not below source root %s", doc.source, d.mapper.SourceRoot)
	}
	doc.destination = dst
	return nil
}

// 💾 commit writes a changed document and reports the outcome
func (d *Driver) commit(ctx context.Context, doc *document, summary *report.Summary) error {
	res := report.FileResult{
		Source:      doc.source,
		Destination: doc.destination,
		Outcome:     report.Unchanged,
		Bytes:       len(doc.migrated),
	}

	switch {
	case !doc.changed():
		summary.Unchanged++
	case d.dryRun:
		res.Outcome = report.DryRun
		summary.DryRun++
	default:
		if err := d.writer.WriteFile(ctx, doc.destination, []byte(doc.migrated)); err != nil {
			return errors.Errorf("writing %s: %w", doc.destination, err)
		}
		res.Outcome = report.Written
		summary.Written++
	}
	summary.Processed++

	d.reporter.File(ctx, res)
	return nil
}
