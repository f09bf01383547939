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

package cli

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/polytracker/polyprocess/analysis"
	"github.com/polytracker/polyprocess/analysis/mapping"
	"github.com/polytracker/polyprocess/analysis/tdag"
	"github.com/polytracker/polyprocess/internal/formatutil"
	"github.com/polytracker/polyprocess/internal/funcutil"
	"github.com/polytracker/polyprocess/internal/graphutil"
	"golang.org/x/term"
)

const (
	cmdCavitiesName = "cavities"
	cmdExitName     = "exit"
	cmdFilesName    = "files"
	cmdHelpName     = "help"
	cmdInfoName     = "info"
	cmdMappingName  = "mapping"
	cmdNodeName     = "node"
	cmdSinksName    = "sinks"
	cmdSourcesName  = "sources"
	cmdStateName    = "state?"
	cmdTreeName     = "tree"
)

const (
	defaultTreeDepth = 3
	maxTreeNodes     = 500
)

func writeHelpLine(tt *term.Terminal, name string, args string, help string) {
	if args != "" {
		args = " " + args
	}
	writeFmt(tt, "\t- %s%s%s%s : %s\n", tt.Escape.Blue, name, tt.Escape.Reset, args, help)
}

// cmdHelp prints the help message of every command
func cmdHelp(tt *term.Terminal, s *Session, _ Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdHelpName, "", "print this message")
		return false
	}
	writeFmt(tt, "Commands:\n")
	for _, name := range commandNames() {
		if name == cmdHelpName {
			cmdHelp(tt, nil, Command{})
		} else {
			commands[name](tt, nil, Command{})
		}
	}
	return false
}

// cmdExit implements the exit command, which stops the tool
func cmdExit(tt *term.Terminal, s *Session, _ Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdExitName, "", "exit the program")
		return false
	}
	return true
}

// cmdState implements the "state?" command, which prints information about the current state of the tool
func cmdState(tt *term.Terminal, s *Session, _ Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdStateName, "", "print information about the current state")
		return false
	}
	wd, _ := os.Getwd()
	configPath := s.ConfigPath
	if configPath == "" {
		configPath = "none (default options)"
	}
	writeFmt(tt, "Trace path        : %s\n", s.TracePath)
	writeFmt(tt, "Config path       : %s\n", configPath)
	writeFmt(tt, "Working dir       : %s\n", wd)
	writeFmt(tt, "# labels          : %d\n", s.Trace.LabelCount()-1)
	writeFmt(tt, "cavities computed?: %t\n", s.CavitiesComputed())
	if cached, ok := s.Trace.(*tdag.CachedTrace); ok {
		writeFmt(tt, "# cached nodes    : %d\n", cached.Len())
	}
	return false
}

// cmdInfo prints statistics about the trace
func cmdInfo(tt *term.Terminal, s *Session, _ Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdInfoName, "", "print statistics about the trace")
		return false
	}
	for _, line := range analysis.TraceStatistics(s.Trace).Lines() {
		writeFmt(tt, "%s\n", line)
	}
	return false
}

// cmdFiles lists the file headers of the trace
func cmdFiles(tt *term.Terminal, s *Session, _ Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdFilesName, "", "list the files of the trace")
		return false
	}
	for i, h := range s.Trace.FDHeaders() {
		writeFmt(tt, "[%d] %s\n", i, formatutil.Sanitize(h.String()))
	}
	return false
}

// cmdNode prints the decoded node of each label
func cmdNode(tt *term.Terminal, s *Session, command Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdNodeName, "label...", "print the nodes of the labels")
		return false
	}
	if len(command.Args) == 0 {
		WriteErr(tt, "node expects at least one label")
		return false
	}
	inputs := s.Trace.Inputs()
	for _, arg := range command.Args {
		label, err := parseLabel(arg)
		if err != nil {
			WriteErr(tt, "%v", err)
			continue
		}
		n, err := s.Trace.DecodeNode(label)
		if err != nil {
			WriteErr(tt, "%v", err)
			continue
		}
		if src, ok := n.(*tdag.SourceNode); ok && int(src.Index) < len(inputs) {
			writeFmt(tt, "%d: %s %s[%d]\n", label, n, inputs[src.Index].Path, src.Offset)
		} else {
			writeFmt(tt, "%d: %s\n", label, n)
		}
	}
	return false
}

// cmdSources prints the input bytes a label depends on
func cmdSources(tt *term.Terminal, s *Session, command Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdSourcesName, "label [-nocf]", "print the input bytes a label was computed from")
		writeFmt(tt, "\t  Options:\n")
		writeFmt(tt, "\t    -nocf  only the bytes reached without going through a node affecting control flow\n")
		return false
	}
	label, err := command.Label(0)
	if err != nil {
		WriteErr(tt, "%v", err)
		return false
	}

	var offsets []mapping.ByteOffset
	var unknown []tdag.Label
	add := func(l tdag.Label, src *tdag.SourceNode) {
		input, err := s.Mapping.Input(int(src.Index))
		if err != nil {
			unknown = append(unknown, l)
			return
		}
		offsets = append(offsets, mapping.ByteOffset{Source: input, Offset: src.Offset})
	}
	if command.Flags["nocf"] {
		err = mapping.SourceLabelsNotAffectingCF(s.Trace, label, tdag.NewLabelSet(s.Trace.LabelCount()),
			func(l tdag.Label) {
				if n, err := s.Trace.DecodeNode(l); err == nil {
					if src, ok := n.(*tdag.SourceNode); ok {
						add(l, src)
					}
				}
			})
	} else {
		err = tdag.ResolveSources(s.Trace, label, add)
	}
	if err != nil {
		WriteErr(tt, "%v", err)
		return false
	}
	if len(unknown) > 0 {
		WriteErr(tt, "labels %v are sources of files without header", unknown)
	}
	if len(offsets) == 0 {
		WriteSuccess(tt, "No source found.")
		return false
	}
	mapping.SortByteOffsets(offsets)
	writeColumns(tt, funcutil.Map(offsets, mapping.ByteOffset.String), "  ", s.TermWidth)
	return false
}

// cmdTree prints the tree of labels a label refers to
func cmdTree(tt *term.Terminal, s *Session, command Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdTreeName, "label [--depth n]", "print the tree of the labels a label refers to")
		return false
	}
	label, err := command.Label(0)
	if err != nil {
		WriteErr(tt, "%v", err)
		return false
	}
	depth, err := command.Count("depth")
	if err != nil {
		WriteErr(tt, "%v", err)
		return false
	}
	tree, complete, err := graphutil.LabelTree(s.Trace, label, depth.ValueOr(defaultTreeDepth), maxTreeNodes)
	if err != nil {
		WriteErr(tt, "%v", err)
		return false
	}
	var walkErr error
	tree.Walk(func(node *graphutil.Tree[tdag.Label], d int) {
		n, err := s.Trace.DecodeNode(node.Label)
		if err != nil {
			walkErr = err
			return
		}
		writeFmt(tt, "%s%d: %s\n", strings.Repeat("  ", d), node.Label, n)
	})
	if walkErr != nil {
		WriteErr(tt, "%v", walkErr)
	}
	if !complete {
		WriteErr(tt, "tree truncated to %d nodes", maxTreeNodes)
	}
	return false
}

// cmdSinks prints the sinks of the trace
func cmdSinks(tt *term.Terminal, s *Session, command Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdSinksName, "[--limit n]", "print the sinks of the trace")
		return false
	}
	limit, err := command.Count("limit")
	if err != nil {
		WriteErr(tt, "%v", err)
		return false
	}
	inputs := s.Trace.Inputs()
	count := 0
	s.Trace.VisitSinks(func(sink tdag.Sink) bool {
		if n, ok := limit.Get(); ok && count >= n {
			return true
		}
		count++
		path := fmt.Sprintf("fd header %d", sink.Index)
		if int(sink.Index) < len(inputs) {
			path = inputs[sink.Index].Path
		}
		writeFmt(tt, "%s[%d] <- %d\n", path, sink.Offset, sink.Label)
		return false
	})
	if count < s.Trace.SinkCount() {
		writeFmt(tt, "... %d more sinks\n", s.Trace.SinkCount()-count)
	}
	return false
}

// cmdCavities prints the cavities of the files matching a regex
func cmdCavities(tt *term.Terminal, s *Session, command Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdCavitiesName, "[regex]", "print the cavities of the files whose path matches regex")
		return false
	}
	filter := regexp.MustCompile(".*")
	if len(command.Args) > 0 {
		r, err := regexp.Compile(command.Args[0])
		if err != nil {
			WriteErr(tt, "invalid regex %q: %v", command.Args[0], err)
			return false
		}
		filter = r
	}
	cavities, err := s.Cavities()
	if err != nil {
		WriteErr(tt, "could not compute cavities: %v", err)
		return false
	}
	found := false
	for _, c := range cavities {
		if filter.MatchString(c.Path) {
			writeFmt(tt, "%s\n", c)
			found = true
		}
	}
	if !found {
		WriteSuccess(tt, "No cavity found.")
	}
	return false
}

// cmdMapping prints the output bytes an input byte flows to
func cmdMapping(tt *term.Terminal, s *Session, command Command) bool {
	if s == nil {
		writeHelpLine(tt, cmdMappingName, "uid offset", "print the output bytes the input byte flows to")
		return false
	}
	if len(command.Args) != 2 {
		WriteErr(tt, "mapping expects a file index and an offset")
		return false
	}
	uid, err := strconv.Atoi(command.Args[0])
	if err != nil {
		WriteErr(tt, "invalid file index %q", command.Args[0])
		return false
	}
	offset, err := strconv.ParseUint(command.Args[1], 0, 64)
	if err != nil {
		WriteErr(tt, "invalid offset %q", command.Args[1])
		return false
	}
	input, err := s.Mapping.Input(uid)
	if err != nil {
		WriteErr(tt, "%v", err)
		return false
	}
	m, err := s.Mapping.Mapping()
	if err != nil {
		WriteErr(tt, "could not compute the mapping: %v", err)
		return false
	}
	b := mapping.ByteOffset{Source: input, Offset: offset}
	outputs := m.OutputsOf(b)
	if len(outputs) == 0 {
		WriteSuccess(tt, "%s does not flow to any output.", b)
		return false
	}
	writeFmt(tt, "%s -> %s\n", b, strings.Join(funcutil.Map(outputs, mapping.ByteOffset.String), ", "))
	return false
}
