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

// Package info implements a tool printing general statistics about a trace.
package info

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/polytracker/polyprocess/analysis"
	"github.com/polytracker/polyprocess/cmd/polyprocess/tools"
)

// Usage of the info tool
const Usage = `Print statistics about a trace: labels by kind, files, sinks and output taints.
Usage:
  polyprocess info [options] <trace file>
Examples:
  % polyprocess info polytracker.tdag
`

// NewFlags returns the parsed info sub-command flags from args.
func NewFlags(args []string) (tools.CommonFlags, error) {
	return tools.NewCommonFlags("info", args, Usage)
}

// Run prints the statistics of the trace with flags.
func Run(flags tools.CommonFlags) error {
	return run(flags, os.Stdout)
}

func run(flags tools.CommonFlags, w io.Writer) error {
	env, err := tools.Setup("info", flags)
	if err != nil {
		return err
	}
	defer env.Close()

	start := time.Now()
	stats := analysis.TraceStatistics(env.Trace)
	env.Logger.Debugf("Statistics computed in %3.4f s", time.Since(start).Seconds())
	for _, line := range stats.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
