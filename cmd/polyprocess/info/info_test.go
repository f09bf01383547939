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

package info

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/polytracker/polyprocess/analysis/tdag"
)

func TestRunInfo(t *testing.T) {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 3)
	out := b.AddOutput("out")
	b.Write(out, 0, b.Range(b.SourceLabel(in, 0), b.SourceLabel(in, 2)))
	b.MarkControlFlow(b.SourceLabel(in, 1))
	path := filepath.Join(t.TempDir(), "trace.tdag")
	if err := tdag.WriteFile(path, b); err != nil {
		t.Fatal(err)
	}

	flags, err := NewFlags([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := run(flags, &buf); err != nil {
		t.Fatal(err)
	}
	for _, expected := range []string{
		"labels: 4\n",
		"  range nodes: 1\n",
		"  source nodes: 3\n",
		"  affecting control flow: 1\n",
		"files: 2, 1 input, 1 output\n",
		"  [0] in: 3 bytes, 1 affect control flow, 0 sinks, 0 output taints\n",
		"  [1] out: 0 bytes, 0 affect control flow, 1 sinks, 1 output taints\n",
		"sinks: 1\n",
	} {
		if !strings.Contains(buf.String(), expected) {
			t.Errorf("expected %q in output:\n%s", expected, buf.String())
		}
	}
}
