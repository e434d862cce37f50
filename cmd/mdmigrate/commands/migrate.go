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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/mdmigrate/cmd/mdmigrate/opts"
	"github.com/walteh/mdmigrate/pkg/config"
	"github.com/walteh/mdmigrate/pkg/migrate"
	"github.com/walteh/mdmigrate/pkg/output"
	"github.com/walteh/mdmigrate/pkg/pathmap"
	"github.com/walteh/mdmigrate/pkg/rule"
	"github.com/walteh/mdmigrate/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

type migrateFlags struct {
	src        string
	dst        string
	dryRun     bool
	createDirs bool
	jobs       int
	ignore     []string
}

// NewMigrateCmd creates the migrate command
func NewMigrateCmd(o *opts.RootOpts) *cobra.Command {
	var f migrateFlags

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate a Hugo content tree to Workshop Studio markdown",
		Long: `Migrate walks the source tree, rewrites every markdown file with the rule
catalog and writes files that changed below the destination tree.

Source and destination come from --src/--dst, the config file, or the
MDMIGRATE_SRC/MDMIGRATE_DST environment variables, in that order.`,
		Example: `  mdmigrate migrate --src workshop-src/content --dst workshop-dst/content
  mdmigrate migrate --dry-run --ignore "drafts/**"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}
			f.override(cmd, cfg)
			cfg.ApplyEnv(o.LookupEnv)
			if err := cfg.Validate(); err != nil {
				return errors.Errorf("invalid configuration: %w", err)
			}

			zerolog.Ctx(ctx).Debug().Stringer("config", cfg).Bool("dry_run", cfg.DryRun).Int("jobs", cfg.Jobs).Msg("starting migration")

			catalog, err := newCatalog(cfg)
			if err != nil {
				return err
			}

			mapper := pathmap.NewMapper(cfg.Source, cfg.Destination)
			mapper.IndexName = cfg.IndexName
			mapper.IndexRename = cfg.IndexRename

			driverOpts := migrate.Options{
				SourceRoot: cfg.Source,
				Catalog:    catalog,
				Walker:     walk.New(cfg.Suffix, cfg.Ignore...),
				Mapper:     mapper,
				Reporter:   o.Console,
				DryRun:     cfg.DryRun,
				Jobs:       cfg.Jobs,
			}
			if !cfg.DryRun {
				driverOpts.Writer = output.NewFileWriter(cfg.CreateDirs)
			}

			driver, err := migrate.New(driverOpts)
			if err != nil {
				return errors.Errorf("creating driver: %w", err)
			}

			summary, err := driver.Run(ctx)
			if err != nil {
				return err
			}
			o.Console.Summary(ctx, summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.src, "src", "", "source content directory")
	cmd.Flags().StringVar(&f.dst, "dst", "", "destination content directory")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "report what would be written without writing")
	cmd.Flags().BoolVar(&f.createDirs, "create-dirs", false, "create missing destination directories")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "transform files on this many goroutines")
	cmd.Flags().StringArrayVar(&f.ignore, "ignore", nil, "doublestar pattern to skip, relative to the source (repeatable)")

	return cmd
}

// override applies the flags the user actually set on top of cfg
func (f *migrateFlags) override(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("src") {
		cfg.Source = f.src
	}
	if flags.Changed("dst") {
		cfg.Destination = f.dst
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if flags.Changed("create-dirs") {
		cfg.CreateDirs = f.createDirs
	}
	if flags.Changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if flags.Changed("ignore") {
		cfg.Ignore = append(cfg.Ignore, f.ignore...)
	}
}

// newCatalog builds the rule catalog described by cfg
func newCatalog(cfg *config.Config) (*rule.Catalog, error) {
	replacements := make([]rule.Replacement, 0, len(cfg.Replacements))
	for _, r := range cfg.Replacements {
		replacements = append(replacements, rule.Replacement{Old: r.Old, New: r.New, File: r.File})
	}

	catalog, err := rule.NewCatalog(rule.Options{
		IndexName:    cfg.IndexName,
		Replacements: replacements,
	})
	if err != nil {
		return nil, errors.Errorf("building rule catalog: %w", err)
	}
	return catalog, nil
}
