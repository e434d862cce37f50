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

package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/mdmigrate/cmd/mdmigrate/commands"
	"github.com/walteh/mdmigrate/cmd/mdmigrate/opts"
)

// newRootCmd wires every command around a shared set of root options
func newRootCmd(out, errOut io.Writer) (*cobra.Command, *opts.RootOpts) {
	o := opts.New(out)

	rootCmd := &cobra.Command{
		Use:   "mdmigrate",
		Short: "Migrate Hugo workshop content to Workshop Studio markdown",
		Long: `mdmigrate rewrites a tree of Hugo markdown files into Workshop Studio
directives: notices become alerts, tab shortcodes become tab directives,
code fences become code directives and image paths move under /static.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger := setupLogging(errOut, o.Debug)
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewMigrateCmd(o),
		commands.NewConvertCmd(o),
		commands.NewRulesCmd(o),
		newVersionCmd(),
	)

	return rootCmd, o
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (default: .mdmigrate.{yaml,yml,hcl,json} if present)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging builds the console logger used by every command
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter(func(cw *zerolog.ConsoleWriter) {
		cw.Out = w
	})).Level(level).With().Timestamp().Logger()
}
