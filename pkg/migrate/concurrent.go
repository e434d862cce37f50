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

	"github.com/rs/zerolog"
	"github.com/walteh/mdmigrate/pkg/report"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ⚡ runConcurrent transforms documents on up to d.jobs goroutines, then
// writes and reports them sequentially in walk order. Two sources that map
// to the same destination are therefore written in a fixed order, the
// later one winning.
func (d *Driver) runConcurrent(ctx context.Context) (report.Summary, error) {
	var summary report.Summary
	zerolog.Ctx(ctx).Debug().Int("jobs", d.jobs).Msg("transforming concurrently")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.jobs)

	var (
		docs    []*document
		walkErr error
	)
	for path, err := range d.walker.Files(gctx, d.sourceRoot) {
		if err != nil {
			walkErr = err
			break
		}
		doc := &document{source: path}
		docs = append(docs, doc)
		g.Go(func() error {
			return d.transform(gctx, doc)
		})
	}

	if err := g.Wait(); err != nil {
		return summary, err
	}
	if walkErr != nil {
		return summary, errors.Errorf("walking %s: %w", d.sourceRoot, walkErr)
	}

	for _, doc := range docs {
		d.reporter.Processing(ctx, doc.source)
		if err := d.commit(ctx, doc, &summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}
