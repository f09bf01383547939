// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package mapping implements the frontend of the input to output mapping.
package mapping

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/polytracker/polyprocess/analysis/mapping"
	"github.com/polytracker/polyprocess/analysis/report"
	"github.com/polytracker/polyprocess/cmd/polyprocess/tools"
)

// Usage of the mapping tool
const Usage = `Print which output bytes each input byte flows to.
Usage:
  polyprocess mapping [options] <trace file>
Examples:
  % polyprocess mapping polytracker.tdag
Only print the mapping of the bytes of one input file:
  % polyprocess mapping -input /tmp/in.png polytracker.tdag
`

// Flags represents the parsed mapping sub-command flags.
type Flags struct {
	tools.CommonFlags
	input string
}

// NewFlags returns the parsed mapping sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("mapping")
	input := flags.FlagSet.String("input", "", "only print the bytes of the input file with this path")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, input: *input}, nil
}

// Run computes the input to output mapping of the trace with flags, and prints it on standard output.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	env, err := tools.Setup("mapping", flags.CommonFlags)
	if err != nil {
		return err
	}
	defer env.Close()
	cfg, logger := env.Config, env.Logger

	start := time.Now()
	m, err := mapping.New(env.Trace, cfg, logger).Mapping()
	if err != nil {
		return fmt.Errorf("could not compute the input to output mapping: %w", err)
	}
	logger.Infof("Mapped %d input bytes in %3.4f s", len(m), time.Since(start).Seconds())

	if err := report.WriteMapping(w, restrict(m, flags.input)); err != nil {
		return err
	}
	return tools.WriteReport(cfg.MappingReportFile(), logger, func(rw io.Writer) error {
		return report.WriteMapping(rw, m)
	})
}

// restrict returns the part of m that concerns the bytes of the input file with the given path
func restrict(m mapping.Mapping, path string) mapping.Mapping {
	if path == "" {
		return m
	}
	r := mapping.Mapping{}
	for input, outputs := range m {
		if input.Source.Path == path {
			r[input] = outputs
		}
	}
	return r
}
