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

package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/polytracker/polyprocess/analysis/tdag"
)

func TestTraceStatistics(t *testing.T) {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 4)
	out := b.AddOutput("out")
	s := func(i int) tdag.Label { return b.SourceLabel(in, i) }
	r := b.Range(s(0), s(2))
	u := b.Union(r, s(3))
	b.MarkControlFlow(s(1), u)
	b.Write(out, 0, u, s(3))

	got := TraceStatistics(b)
	if got.Labels != 6 {
		t.Errorf("expected 6 labels, got %d", got.Labels)
	}
	if diff := cmp.Diff(map[string]int{"source": 4, "range": 1, "union": 1}, got.NodesByKind); diff != "" {
		t.Errorf("nodes by kind (-want +got):\n%s", diff)
	}
	if got.ControlFlowNodes != 2 || got.MaxRangeWidth != 3 || got.InvalidNodes != 0 {
		t.Errorf("unexpected counts: %+v", got)
	}
	if diff := cmp.Diff(map[string]int{"input": 1, "output": 1}, got.FilesByKind); diff != "" {
		t.Errorf("files by kind (-want +got):\n%s", diff)
	}
	if got.Files[in].ControlFlow != 1 {
		t.Errorf("expected one byte of the input affecting control flow, got %d", got.Files[in].ControlFlow)
	}
	if got.Sinks != 2 || got.Files[out].Sinks != 2 || got.Files[out].OutputTaints != 2 || got.OutputTaints != 2 {
		t.Errorf("unexpected sink counts: %+v", got.Files[out])
	}
	if diff := cmp.Diff([]string{"range", "source", "union"}, got.Kinds()); diff != "" {
		t.Errorf("kinds (-want +got):\n%s", diff)
	}
	lines := got.Lines()
	if lines[0] != "labels: 6" || lines[len(lines)-1] != "output taints: 2" {
		t.Errorf("unexpected summary %q", lines)
	}
}
