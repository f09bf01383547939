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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{
			input: "tree 12 --depth 4 -x",
			want: Command{
				Name:      "tree",
				Args:      []string{"12"},
				NamedArgs: map[string]string{"depth": "4"},
				Flags:     map[string]bool{"x": true},
			},
		},
		{
			input: `cavities "^/tmp/a b"`,
			want: Command{
				Name:      "cavities",
				Args:      []string{"^/tmp/a b"},
				NamedArgs: map[string]string{},
				Flags:     map[string]bool{},
			},
		},
		{
			input: "sources -nocf 7",
			want: Command{
				Name:      "sources",
				Args:      []string{"7"},
				NamedArgs: map[string]string{},
				Flags:     map[string]bool{"nocf": true},
			},
		},
		{
			input: "sinks --limit -1",
			want: Command{
				Name:      "sinks",
				NamedArgs: map[string]string{"limit": "-1"},
				Flags:     map[string]bool{},
			},
		},
		{
			input: `node "unterminated`,
			want: Command{
				NamedArgs: map[string]string{},
				Flags:     map[string]bool{},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if diff := cmp.Diff(test.want, ParseCommand(test.input)); diff != "" {
				t.Errorf("ParseCommand(%q) (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestCommandArguments(t *testing.T) {
	c := ParseCommand("tree 0x1f --depth 3 --limit x")
	if l, err := c.Label(0); err != nil || l != 31 {
		t.Errorf("expected label 31, got %d (%v)", l, err)
	}
	if _, err := c.Label(1); err == nil {
		t.Errorf("expected an error for a missing label")
	}
	if _, err := ParseCommand("node 0").Label(0); err == nil {
		t.Errorf("label 0 should be invalid")
	}
	if d, err := c.Count("depth"); err != nil || d.ValueOr(0) != 3 {
		t.Errorf("expected depth 3, got %v (%v)", d, err)
	}
	if _, err := c.Count("limit"); err == nil {
		t.Errorf("expected an error for a limit that is not a number")
	}
	if m, err := c.Count("max"); err != nil || m.IsSome() {
		t.Errorf("expected no value for an absent argument, got %v (%v)", m, err)
	}
}
