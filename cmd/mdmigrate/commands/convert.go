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
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/walteh/mdmigrate/cmd/mdmigrate/opts"
	"gitlab.com/tozd/go/errors"
)

// NewConvertCmd creates the convert command
func NewConvertCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Print one migrated file to stdout",
		Long: `Convert applies the rule catalog to a single file and prints the result.
Nothing is written. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.LoadConfig(cmd.Context())
			if err != nil {
				return err
			}
			catalog, err := newCatalog(cfg)
			if err != nil {
				return err
			}

			path := args[0]
			var raw []byte
			if path == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(path)
			}
			if err != nil {
				return errors.Errorf("reading %s: %w", path, err)
			}
			if !utf8.Valid(raw) {
				return errors.Errorf("reading %s: content is not valid UTF-8", path)
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), catalog.Apply(string(raw), path))
			return err
		},
	}

	return cmd
}
