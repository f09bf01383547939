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

// Package cavities implements the frontend of the file cavity detector.
package cavities

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/polytracker/polyprocess/analysis/mapping"
	"github.com/polytracker/polyprocess/analysis/report"
	"github.com/polytracker/polyprocess/cmd/polyprocess/tools"
)

// Usage of the cavities tool
const Usage = `Find the byte ranges of the input files that are never used by the traced program.
Usage:
  polyprocess cavities [options] <trace file>
Examples:
  % polyprocess cavities polytracker.tdag
Print the contents of every cavity, with 16 bytes of context:
  % polyprocess cavities -print-bytes -context 16 polytracker.tdag
`

// Flags represents the parsed cavities sub-command flags.
type Flags struct {
	tools.CommonFlags
	printBytes   bool
	contextBytes int
	legacy       bool
}

// NewFlags returns the parsed cavities sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("cavities")
	printBytes := flags.FlagSet.Bool("print-bytes", false, "print the contents of the cavities, read from the input files")
	contextBytes := flags.FlagSet.Int("context", -1, "override the number of context bytes printed around a cavity")
	legacy := flags.FlagSet.Bool("legacy-trailing-cavity", false,
		"close cavities reaching the end of a file one byte short of the end")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{
		CommonFlags:  common,
		printBytes:   *printBytes,
		contextBytes: *contextBytes,
		legacy:       *legacy,
	}, nil
}

// Run runs the cavity detector with flags, and prints the cavities on standard output.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	env, err := tools.Setup("cavities", flags.CommonFlags)
	if err != nil {
		return err
	}
	defer env.Close()
	cfg, logger := env.Config, env.Logger

	// Override config parameters with command-line parameters
	if flags.contextBytes >= 0 {
		cfg.ContextBytes = flags.contextBytes
	}
	if flags.legacy {
		cfg.LegacyTrailingCavity = true
	}

	start := time.Now()
	cavities, err := mapping.New(env.Trace, cfg, logger).FileCavities()
	if err != nil {
		return fmt.Errorf("cavity detection failed: %w", err)
	}
	logger.Infof("Found %d cavities in %3.4f s", len(cavities), time.Since(start).Seconds())

	if flags.printBytes {
		err = report.WriteCavitiesWithContext(w, cavities, cfg.ContextBytes, os.ReadFile, logger)
	} else {
		err = report.WriteCavities(w, cavities)
	}
	if err != nil {
		return err
	}
	return tools.WriteReport(cfg.CavitiesReportFile(), logger, func(rw io.Writer) error {
		return report.WriteCavities(rw, cavities)
	})
}
