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

package graphutil_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/polytracker/polyprocess/analysis/tdag"
	"github.com/polytracker/polyprocess/internal/graphutil"
)

func TestTaintGraphDOT(t *testing.T) {
	b := acyclicTrace()
	b.MarkControlFlow(6)
	nodes, complete, err := tdag.Ancestry(b, 7, 0)
	if err != nil || !complete {
		t.Fatalf("could not compute ancestry: %v", err)
	}
	g := graphutil.NewTaintGraph(nodes, b.Inputs())
	if g.Nodes().Len() != 7 {
		t.Errorf("expected 7 nodes, got %d", g.Nodes().Len())
	}
	if !g.HasEdgeFromTo(7, 6) || !g.HasEdgeFromTo(6, 4) || g.HasEdgeFromTo(6, 7) {
		t.Errorf("edges should go from a node to the labels it refers to")
	}
	var buf bytes.Buffer
	if err := graphutil.WriteDOT(&buf, g, "label7"); err != nil {
		t.Fatalf("could not write dot: %v", err)
	}
	out := buf.String()
	for _, expected := range []string{"digraph label7", "l7 -> l6", "l6 -> l3", "in[2]", "red", "left"} {
		if !strings.Contains(out, expected) {
			t.Errorf("expected %q in dot output:\n%s", expected, out)
		}
	}
}

func TestTopologicalLabels(t *testing.T) {
	b := acyclicTrace()
	nodes, _, err := tdag.Ancestry(b, 7, 0)
	if err != nil {
		t.Fatal(err)
	}
	g := graphutil.NewTaintGraph(nodes, nil)
	order, err := graphutil.TopologicalLabels(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(order) != 7 || order[0] != 7 {
		t.Fatalf("expected the 7 labels starting with the root, got %v", order)
	}
	position := map[tdag.Label]int{}
	for i, l := range order {
		position[l] = i
	}
	for l, n := range nodes {
		tdag.Children(n, func(child tdag.Label) bool {
			if position[l] >= position[child] {
				t.Errorf("label %d should come before %d in %v", l, child, order)
			}
			return false
		})
	}

	c := cyclicTrace()
	cnodes, _, err := tdag.Ancestry(c, 5, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := graphutil.TopologicalLabels(graphutil.NewTaintGraph(cnodes, nil)); err == nil {
		t.Errorf("expected an error for a cyclic graph")
	}
}
