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
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/polytracker/polyprocess/analysis/config"
	"github.com/polytracker/polyprocess/analysis/tdag"
	"golang.org/x/term"
)

// newTestSession returns a session on a trace where bytes 3 and 9 of "in" flow to byte 7 of "out", and byte 3
// affects control flow
func newTestSession() *Session {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 10)
	out := b.AddOutput("out")
	u := b.Union(b.SourceLabel(in, 3), b.SourceLabel(in, 9))
	b.MarkControlFlow(b.SourceLabel(in, 3))
	b.Write(out, 7, u)
	cfg := config.NewDefault()
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)
	return NewSession("trace.tdag", "", cfg, logger, b)
}

// runCommands interprets the commands in order, and returns the output of the terminal and whether the last command
// asked to exit
func runCommands(s *Session, commands ...string) (string, bool) {
	var buf bytes.Buffer
	tt := term.NewTerminal(&buf, "> ")
	exit := false
	for _, c := range commands {
		exit = interpret(tt, s, c)
	}
	return strings.ReplaceAll(buf.String(), "\r\n", "\n"), exit
}

func expectOutput(t *testing.T, command string, out string, expected ...string) {
	t.Helper()
	for _, e := range expected {
		if !strings.Contains(out, e) {
			t.Errorf("expected %q in the output of %q, got:\n%s", e, command, out)
		}
	}
}

func TestCmdNode(t *testing.T) {
	out, _ := runCommands(newTestSession(), "node 11 4 0 abc")
	expectOutput(t, "node", out,
		"11: union(10, 4)\n",
		"4: source(idx=0, offset=3) (cf) in[3]\n",
		`invalid label "0"`,
		`invalid label "abc"`)
}

func TestCmdSources(t *testing.T) {
	s := newTestSession()
	out, _ := runCommands(s, "sources 11")
	expectOutput(t, "sources", out, "in[3]", "in[9]")

	out, _ = runCommands(s, "sources -nocf 11")
	expectOutput(t, "sources -nocf", out, "in[9]")
	if strings.Contains(out, "in[3]") {
		t.Errorf("byte 3 affects control flow and should not be printed with -nocf, got:\n%s", out)
	}

	out, _ = runCommands(s, "sources 40")
	expectOutput(t, "sources 40", out, "invalid label 40")
}

func TestCmdTree(t *testing.T) {
	out, _ := runCommands(newTestSession(), "tree 11")
	expectOutput(t, "tree", out,
		"11: union(10, 4)\n  10: source(idx=0, offset=9)\n  4: source(idx=0, offset=3) (cf)\n")

	out, _ = runCommands(newTestSession(), "tree 11 --depth 0")
	if strings.Contains(out, "10: source") {
		t.Errorf("the children should not be printed at depth 0, got:\n%s", out)
	}
}

func TestCmdSinks(t *testing.T) {
	out, _ := runCommands(newTestSession(), "sinks")
	expectOutput(t, "sinks", out, "out[7] <- 11\n")

	out, _ = runCommands(newTestSession(), "sinks --limit 0")
	expectOutput(t, "sinks --limit 0", out, "... 1 more sinks\n")
}

func TestCmdCavities(t *testing.T) {
	s := newTestSession()
	out, _ := runCommands(s, "state?")
	expectOutput(t, "state?", out, "cavities computed?: false")

	out, _ = runCommands(s, "cavities")
	expectOutput(t, "cavities", out, "in\t0 - 3\n", "in\t4 - 9\n")
	if !s.CavitiesComputed() {
		t.Errorf("cavities should be kept in the session")
	}

	out, _ = runCommands(s, "cavities ^other$")
	expectOutput(t, "cavities ^other$", out, "No cavity found.")

	out, _ = runCommands(s, "cavities (")
	expectOutput(t, "cavities (", out, "invalid regex")
}

func TestCmdMapping(t *testing.T) {
	s := newTestSession()
	out, _ := runCommands(s, "mapping 0 3", "mapping 0 4", "mapping 5 0")
	expectOutput(t, "mapping", out,
		"in[3] -> out[7]\n",
		"in[4] does not flow to any output.",
		"unknown input")
}

func TestCmdInfoAndFiles(t *testing.T) {
	out, _ := runCommands(newTestSession(), "info", "files")
	expectOutput(t, "info", out, "labels: 11\n", "  union nodes: 1\n", "sinks: 1\n")
	expectOutput(t, "files", out, "[0] in (fd 3, labels [1, 11))\n", "[1] out")
}

func TestInterpret(t *testing.T) {
	out, exit := runCommands(newTestSession(), "help")
	if exit {
		t.Errorf("help should not exit")
	}
	for _, name := range commandNames() {
		expectOutput(t, "help", out, name)
	}

	out, exit = runCommands(newTestSession(), "frobnicate")
	expectOutput(t, "frobnicate", out, `Command name "frobnicate" not recognized.`, "Commands:")
	if exit {
		t.Errorf("an unknown command should not exit")
	}

	if _, exit := runCommands(newTestSession(), "", "exit"); !exit {
		t.Errorf("exit should stop the tool")
	}
}

func TestAutoCompleteCommand(t *testing.T) {
	line, pos, ok := autoCompleteCommand("cav", 3, '\t')
	if !ok || line != "cavities " || pos != 9 {
		t.Errorf("expected cavities to be completed, got %q %d %v", line, pos, ok)
	}
	if _, _, ok := autoCompleteCommand("s", 1, '\t'); ok {
		t.Errorf("s is ambiguous and should not be completed")
	}
	if _, _, ok := autoCompleteCommand("tree 1", 6, '\t'); ok {
		t.Errorf("only command names are completed")
	}
	if _, _, ok := autoCompleteCommand("ex", 2, 'x'); ok {
		t.Errorf("only tab completes")
	}
}

func TestWriteColumns(t *testing.T) {
	var buf bytes.Buffer
	tt := term.NewTerminal(&buf, "> ")
	writeColumns(tt, []string{"a[1]", "a[22]", "b[3]", "c[4]"}, "  ", 16)
	got := strings.ReplaceAll(buf.String(), "\r\n", "\n")
	want := "  a[1]   a[22]\n  b[3]   c[4]\n"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
