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
package graphutil

import (
	"github.com/yourbasic/graph"
	"golang.org/x/exp/slices"
)

// FindAllElementaryCycles returns the elementary cycles of g with Johnson's algorithm ("Finding All The Elementary
// Circuits of a Directed Graph", 1975). When limit > 0, the search stops after limit cycles.
//
// Each cycle starts and ends with its smallest label, and cycles are sorted by their smallest label.
func FindAllElementaryCycles(g LabelGraph, limit int) [][]int64 {
	var cycles [][]int64
	remaining := slices.Clone(g.Keys)
	slices.Sort(remaining)
	for len(remaining) > 0 {
		budget := 0
		if limit > 0 {
			budget = limit - len(cycles)
			if budget <= 0 {
				break
			}
		}
		sub := Subgraph(g, remaining)
		start, component, ok := leastCyclicComponent(sub)
		if !ok {
			break
		}
		c := &circuitSearch{
			g:         Subgraph(sub, component),
			start:     start,
			budget:    budget,
			blocked:   map[int64]bool{},
			blockedBy: map[int64]map[int64]bool{},
		}
		c.circuit(start)
		cycles = append(cycles, c.found...)

		i, _ := slices.BinarySearch(remaining, start)
		remaining = remaining[i+1:]
	}
	return cycles
}

// leastCyclicComponent returns the smallest vertex of g that belongs to a cycle, along with its strongly connected
// component. A single vertex is a cycle only if it has an edge to itself.
func leastCyclicComponent(g LabelGraph) (int64, []int64, bool) {
	var best []int
	least := -1
	for _, component := range graph.StrongComponents(g) {
		if len(component) == 1 && !g.Edges[int64(component[0])][int64(component[0])] {
			continue
		}
		for _, v := range component {
			if least < 0 || v < least {
				least = v
				best = component
			}
		}
	}
	if best == nil {
		return 0, nil, false
	}
	vertices := make([]int64, len(best))
	for i, v := range best {
		vertices[i] = int64(v)
	}
	return int64(least), vertices, true
}

// circuitSearch enumerates the cycles through start in a strongly connected graph
type circuitSearch struct {
	g      LabelGraph
	start  int64
	budget int
	found  [][]int64
	path   []int64

	blocked map[int64]bool
	// blockedBy[w] are the vertices to unblock when w gets unblocked
	blockedBy map[int64]map[int64]bool
}

func (c *circuitSearch) done() bool {
	return c.budget > 0 && len(c.found) >= c.budget
}

func (c *circuitSearch) successors(v int64) []int64 {
	var succ []int64
	c.g.Visit(int(v), func(w int, _ int64) bool {
		succ = append(succ, int64(w))
		return false
	})
	return succ
}

func (c *circuitSearch) circuit(v int64) bool {
	closed := false
	c.path = append(c.path, v)
	c.blocked[v] = true
	succ := c.successors(v)
	for _, w := range succ {
		if c.done() {
			break
		}
		switch {
		case w == c.start:
			cycle := append(slices.Clone(c.path), w)
			c.found = append(c.found, cycle)
			closed = true
		case !c.blocked[w]:
			if c.circuit(w) {
				closed = true
			}
		}
	}
	if closed {
		c.unblock(v)
	} else {
		for _, w := range succ {
			if c.blockedBy[w] == nil {
				c.blockedBy[w] = map[int64]bool{}
			}
			c.blockedBy[w][v] = true
		}
	}
	c.path = c.path[:len(c.path)-1]
	return closed
}

func (c *circuitSearch) unblock(v int64) {
	pending := []int64{v}
	for len(pending) > 0 {
		u := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		c.blocked[u] = false
		for w := range c.blockedBy[u] {
			if c.blocked[w] {
				pending = append(pending, w)
			}
		}
		delete(c.blockedBy, u)
	}
}
