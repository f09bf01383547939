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
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/polytracker/polyprocess/analysis/tdag"
	"github.com/polytracker/polyprocess/internal/funcutil"
)

// Command is a line typed in the interactive tool, split into its name and arguments.
//
// In "tree 12 --depth 4 -x", the name is tree, 12 is a positional argument, depth is a named argument with value 4
// and x is a flag.
type Command struct {
	Name      string
	Args      []string
	NamedArgs map[string]string
	Flags     map[string]bool
}

// ParseCommand splits cmd with shell quoting rules. A token starting with -- names an argument whose value is the
// next token, even if that token starts with a dash. If the line cannot be split, the command has no name.
func ParseCommand(cmd string) Command {
	command := Command{NamedArgs: map[string]string{}, Flags: map[string]bool{}}
	tokens, err := shlex.Split(cmd)
	if err != nil || len(tokens) == 0 {
		return command
	}
	command.Name = tokens[0]
	pending := ""
	for _, token := range tokens[1:] {
		switch {
		case pending != "":
			command.NamedArgs[pending] = token
			pending = ""
		case strings.HasPrefix(token, "--") && len(token) > 2:
			pending = token[2:]
		case strings.HasPrefix(token, "-") && len(token) > 1:
			command.Flags[token[1:]] = true
		default:
			command.Args = append(command.Args, token)
		}
	}
	return command
}

// Label parses the i-th positional argument as a non-zero label
func (c Command) Label(i int) (tdag.Label, error) {
	if i >= len(c.Args) {
		return 0, fmt.Errorf("%s expects a label", c.Name)
	}
	return parseLabel(c.Args[i])
}

// Count parses the named argument as a non-negative integer. The option is none when the argument is absent.
func (c Command) Count(name string) (funcutil.Option[int], error) {
	s, ok := c.NamedArgs[name]
	if !ok {
		return funcutil.None[int](), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return funcutil.None[int](), fmt.Errorf("%s should be a positive integer, got %q", name, s)
	}
	return funcutil.Some(n), nil
}

func parseLabel(s string) (tdag.Label, error) {
	l, err := strconv.ParseUint(s, 0, 32)
	if err != nil || l == 0 {
		return 0, fmt.Errorf("invalid label %q", s)
	}
	return tdag.Label(l), nil
}
