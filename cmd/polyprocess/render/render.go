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

// Package render implements a tool for rendering the taint graph of a label.
// -out Given a path for a .dot file, writes the ancestry of the label in that file.
// -list Prints the labels of the ancestry in topological order instead.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/polytracker/polyprocess/analysis/tdag"
	"github.com/polytracker/polyprocess/cmd/polyprocess/tools"
	"github.com/polytracker/polyprocess/internal/graphutil"
)

// Usage of the render tool
const Usage = `Render the taint graph of a label.
Usage:
  polyprocess render [options] <trace file>
Examples:
Write the graph of label 1234 in a dot file
  % polyprocess render -label 1234 -out label.dot polytracker.tdag
Print the labels label 1234 depends on, parents first
  % polyprocess render -label 1234 -list polytracker.tdag
`

// Flags represents the parsed render sub-command flags.
type Flags struct {
	tools.CommonFlags
	label    uint
	out      string
	list     bool
	maxNodes int
}

// NewFlags returns the parsed render sub-command flags from args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("render")
	label := flags.FlagSet.Uint("label", 0, "label whose taint graph is rendered")
	out := flags.FlagSet.String("out", "", "output file for the dot graph (standard output if not specified)")
	list := flags.FlagSet.Bool("list", false, "print the labels in topological order instead of a dot graph")
	maxNodes := flags.FlagSet.Int("max-nodes", 1000, "maximum number of nodes rendered (0 for no limit)")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	if *label == 0 {
		return Flags{}, fmt.Errorf("a label must be specified with -label")
	}
	return Flags{
		CommonFlags: common,
		label:       *label,
		out:         *out,
		list:        *list,
		maxNodes:    *maxNodes,
	}, nil
}

// Run renders the graph of the label with flags.
func Run(flags Flags) error {
	return run(flags, os.Stdout)
}

func run(flags Flags, w io.Writer) error {
	env, err := tools.Setup("render", flags.CommonFlags)
	if err != nil {
		return err
	}
	defer env.Close()
	trace, logger := env.Trace, env.Logger

	label := tdag.Label(flags.label)
	nodes, complete, err := tdag.Ancestry(trace, label, flags.maxNodes)
	if err != nil {
		return fmt.Errorf("could not render label %d: %w", label, err)
	}
	if !complete {
		logger.Warnf("graph of label %d truncated to %d nodes", label, len(nodes))
	}
	g := graphutil.NewTaintGraph(nodes, trace.Inputs())

	if flags.list {
		labels, err := graphutil.TopologicalLabels(g)
		if err != nil {
			return fmt.Errorf("labels of %d cannot be ordered: %w", label, err)
		}
		for _, l := range labels {
			fmt.Fprintf(w, "%d\t%s\n", l, nodes[l])
		}
		return nil
	}

	if flags.out != "" {
		return tools.WriteReport(flags.out, logger, func(rw io.Writer) error {
			return graphutil.WriteDOT(rw, g, fmt.Sprintf("label%d", label))
		})
	}
	return graphutil.WriteDOT(w, g, fmt.Sprintf("label%d", label))
}
