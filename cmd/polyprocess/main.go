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
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/polytracker/polyprocess/analysis"
	"github.com/polytracker/polyprocess/cmd/polyprocess/cavities"
	"github.com/polytracker/polyprocess/cmd/polyprocess/check"
	"github.com/polytracker/polyprocess/cmd/polyprocess/cli"
	"github.com/polytracker/polyprocess/cmd/polyprocess/info"
	"github.com/polytracker/polyprocess/cmd/polyprocess/mapping"
	"github.com/polytracker/polyprocess/cmd/polyprocess/render"
	"github.com/polytracker/polyprocess/cmd/polyprocess/tools"
)

type tool struct {
	name string
	desc string
	run  func(args []string) error
}

// parseThenRun returns the entry point of a tool whose flags are parsed by parse
func parseThenRun[F any](parse func([]string) (F, error), run func(F) error) func([]string) error {
	return func(args []string) error {
		flags, err := parse(args)
		if err != nil {
			return err
		}
		return run(flags)
	}
}

var toolList = []tool{
	{"cavities", "prints the byte ranges of the input files that the traced program never used",
		parseThenRun(cavities.NewFlags, cavities.Run)},
	{"check", "checks that a trace file is consistent", parseThenRun(check.NewFlags, check.Run)},
	{"cli", "interactive terminal-like interface to explore a trace",
		parseThenRun(func(args []string) (tools.CommonFlags, error) {
			return tools.NewCommonFlags("cli", args, cli.Usage)
		}, cli.Run)},
	{"info", "prints statistics about a trace", parseThenRun(info.NewFlags, info.Run)},
	{"mapping", "prints which output bytes each input byte flows to", parseThenRun(mapping.NewFlags, mapping.Run)},
	{"render", "renders the taint graph of a label", parseThenRun(render.NewFlags, render.Run)},
}

func usage() string {
	var b strings.Builder
	b.WriteString("polyprocess: post-processing of taint traces\n")
	b.WriteString("Usage:\n  polyprocess [tool] [options] <trace file>\nTools:\n")
	for _, t := range toolList {
		fmt.Fprintf(&b, "  - %s: %s\n", t.name, t.desc)
	}
	b.WriteString("Examples:\n")
	b.WriteString("  Find the file cavities: polyprocess cavities polytracker.tdag\n")
	b.WriteString("  Run the interactive CLI: polyprocess cli -config config.yaml polytracker.tdag")
	return b.String()
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage())
		os.Exit(2)
	}
	switch name := os.Args[1]; name {
	case "-help", "--help":
		fmt.Println(usage())
	case "-version", "--version":
		fmt.Println(analysis.Version)
	default:
		for _, t := range toolList {
			if t.name == name {
				if err := t.run(os.Args[2:]); err != nil {
					errExit(err)
				}
				return
			}
		}
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\nusage:\n%s\n", name, usage())
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	if hint := tools.HintForErrorMessage(err.Error()); hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(2)
}
