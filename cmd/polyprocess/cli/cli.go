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

// Package cli implements the interactive polyprocess CLI.
package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/polytracker/polyprocess/cmd/polyprocess/tools"
	"github.com/polytracker/polyprocess/internal/formatutil"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/term"
)

// Usage for CLI
const Usage = `Interactive CLI for exploring a taint trace and running the analyses on it.
Usage:
  polyprocess cli [options] <trace file>`

var commands = map[string]func(tt *term.Terminal, s *Session, command Command) bool{
	cmdCavitiesName: cmdCavities,
	cmdExitName:     cmdExit,
	cmdFilesName:    cmdFiles,
	cmdInfoName:     cmdInfo,
	cmdMappingName:  cmdMapping,
	cmdNodeName:     cmdNode,
	cmdSinksName:    cmdSinks,
	cmdSourcesName:  cmdSources,
	cmdStateName:    cmdState,
	cmdTreeName:     cmdTree,
}

// commandNames returns the names of all the commands, sorted
func commandNames() []string {
	names := append(maps.Keys(commands), cmdHelpName)
	slices.Sort(names)
	return names
}

// Run runs a simple CLI-based stdin-stdout server to allow us to explore the trace.
func Run(flags tools.CommonFlags) error {
	env, err := tools.Setup("cli", flags)
	if err != nil {
		return err
	}
	defer env.Close()
	return run(NewSession(env.TracePath, flags.ConfigPath, env.Config, env.Logger, env.Trace))
}

// run implements the command line tool, calling interpret for each command until the exit command is input
func run(s *Session) error {
	oldState /* const */, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("could not start the terminal: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)
	if width, _, err := term.GetSize(int(os.Stdin.Fd())); err == nil {
		s.TermWidth = width
	}
	tt := term.NewTerminal(os.Stdin, "> ")
	s.Logger.SetAllOutput(tt)
	s.Logger.SetAllFlags(0) // no prefix
	tt.AutoCompleteCallback = autoCompleteCommand
	// Capture ctrl+c and exit by returning
	captureChan := make(chan os.Signal, 1)
	signal.Notify(captureChan, os.Interrupt)
	go exitOnReceive(captureChan, tt, oldState)
	// the infinite loop terminates when interpret returns true, or the input is closed
	for {
		command, err := tt.ReadLine()
		if err != nil {
			return nil
		}
		if interpret(tt, s, strings.TrimSpace(command)) {
			return nil
		}
	}
}

// interpret returns true to stop
func interpret(tt *term.Terminal, s *Session, command string) bool {
	if command == "" {
		return false
	}
	cmd := ParseCommand(command)

	if cmd.Name == "" {
		return false
	}

	if f, ok := commands[cmd.Name]; ok {
		return f(tt, s, cmd)
	}
	if cmd.Name == cmdHelpName {
		cmdHelp(tt, s, cmd)
	} else {
		WriteErr(tt, "Command name %q not recognized.", cmd.Name)
		cmdHelp(tt, s, cmd)
	}
	return false
}

// autoCompleteCommand completes the name of a command when tab is pressed
func autoCompleteCommand(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' || strings.Contains(line[:pos], " ") {
		return "", 0, false
	}
	var matches []string
	for _, name := range commandNames() {
		if strings.HasPrefix(name, line[:pos]) {
			matches = append(matches, name)
		}
	}
	if len(matches) != 1 {
		return "", 0, false
	}
	rest := strings.TrimLeft(line[pos:], " ")
	return matches[0] + " " + rest, len(matches[0]) + 1, true
}

func exitOnReceive(c chan os.Signal, tt *term.Terminal, oldState *term.State) {
	for range c {
		writeFmt(tt, formatutil.Red("Caught SIGINT, exiting!"))
		term.Restore(int(os.Stdin.Fd()), oldState)
		os.Exit(0)
	}
}
