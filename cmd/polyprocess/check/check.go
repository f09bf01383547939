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

// Package check implements a consistency checker for trace files.
package check

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/polytracker/polyprocess/analysis/tdag"
	"github.com/polytracker/polyprocess/cmd/polyprocess/tools"
	"github.com/polytracker/polyprocess/internal/formatutil"
	"github.com/polytracker/polyprocess/internal/funcutil"
	"github.com/polytracker/polyprocess/internal/graphutil"
	"github.com/yourbasic/graph"
)

// Usage of the check tool
const Usage = `Check that a trace file is consistent.
Usage:
  polyprocess check [options] <trace file>
Examples:
  % polyprocess check -max-errors 100 polytracker.tdag
`

// Flags represents the parsed check sub-command flags.
type Flags struct {
	tools.CommonFlags
	maxErrors int
	maxCycles int
}

// NewFlags returns the parsed check sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("check")
	maxErrors := flags.FlagSet.Int("max-errors", 20, "stop after this many errors (0 for no limit)")
	maxCycles := flags.FlagSet.Int("max-cycles", 10, "maximum number of label cycles printed")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, maxErrors: *maxErrors, maxCycles: *maxCycles}, nil
}

// Run checks the trace with flags. An error is returned if the trace is not consistent.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	env, err := tools.Setup("check", flags.CommonFlags)
	if err != nil {
		return err
	}
	defer env.Close()
	trace := env.Trace

	errs := tdag.Validate(trace, flags.maxErrors)
	for _, e := range errs {
		fmt.Fprintf(w, "%s %v\n", formatutil.Red("error:"), e)
	}

	cycles := Cycles(trace, flags.maxCycles)
	for _, cycle := range cycles {
		labels := funcutil.Map(cycle, func(l int64) string { return fmt.Sprintf("%d", l) })
		fmt.Fprintf(w, "%s %s\n", formatutil.Red("cycle:"), strings.Join(labels, " -> "))
	}

	stats := graph.Check(graphutil.TraceIterator{Trace: trace})
	env.Logger.Debugf("%d labels, %d edges, %d self references", trace.LabelCount()-1, stats.Size, stats.Loops)

	if len(errs) > 0 || len(cycles) > 0 {
		return fmt.Errorf("trace is not consistent: %d errors, %d cycles", len(errs), len(cycles))
	}
	fmt.Fprintf(w, "%s\n", formatutil.Green("trace is consistent"))
	return nil
}

// Cycles returns at most limit elementary cycles of the taint graph of the trace when limit > 0, all of them
// otherwise. Nodes refer to smaller labels in a consistent trace, so the graph is acyclic and no cycle is returned.
func Cycles(t tdag.Trace, limit int) [][]int64 {
	it := graphutil.TraceIterator{Trace: t}
	if graph.Acyclic(it) {
		return nil
	}
	var labels []tdag.Label
	for _, component := range graph.StrongComponents(it) {
		if len(component) > 1 {
			for _, v := range component {
				labels = append(labels, tdag.Label(v))
			}
			continue
		}
		// a single label is a cycle only when it refers to itself
		v := component[0]
		it.Visit(v, func(w int, _ int64) bool {
			if w == v {
				labels = append(labels, tdag.Label(v))
				return true
			}
			return false
		})
	}
	return graphutil.FindAllElementaryCycles(graphutil.NewLabelGraph(t, labels), limit)
}
