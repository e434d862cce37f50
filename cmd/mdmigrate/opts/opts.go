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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/walteh/mdmigrate/pkg/config"
	"github.com/walteh/mdmigrate/pkg/report"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool
	// Dir is searched for a default config file when ConfigFile is empty
	Dir     string
	Console *report.Console
	// LookupEnv resolves MDMIGRATE_* variables
	LookupEnv func(string) (string, bool)
}

// New returns options writing operator output to out
func New(out io.Writer) *RootOpts {
	return &RootOpts{
		Dir:       ".",
		Console:   report.New(out),
		LookupEnv: os.LookupEnv,
	}
}

// 📚 LoadConfig loads the config file without validating it. Commands
// apply their flag overrides before calling Validate.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Find(ctx, o.ConfigFile, o.Dir)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
