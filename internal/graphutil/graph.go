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
	"github.com/polytracker/polyprocess/analysis/tdag"
	"golang.org/x/exp/slices"
)

// TraceIterator is a view of a whole trace as a directed graph where labels are vertices and there is an edge from a
// union or range node to every label it refers to. It implements the graph.Iterator interface of
// github.com/yourbasic/graph.
//
// Nodes are decoded on demand. Labels that cannot be decoded have no outgoing edges, and references to invalid labels
// are ignored: use tdag.Validate to report those.
type TraceIterator struct {
	Trace tdag.Trace
}

// Order implements the graph.Iterator interface
func (it TraceIterator) Order() int {
	return it.Trace.LabelCount()
}

// Visit implements the graph.Iterator interface
func (it TraceIterator) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if v <= 0 || v >= it.Order() {
		return false
	}
	n, err := it.Trace.DecodeNode(tdag.Label(v))
	if err != nil {
		return false
	}
	order := it.Order()
	return tdag.Children(n, func(child tdag.Label) bool {
		if child == 0 || int(child) >= order {
			return false
		}
		return do(int(child), 1)
	})
}

// LabelGraph is a directed graph over a subset of the labels of a trace. It implements graph.Iterator; the order
// of a LabelGraph is the order of the trace it was built from, so that vertices keep their label as index.
type LabelGraph struct {
	// The order of the graph
	order int

	// Keys are all the labels of the graph, sorted
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is an edge from label x to label y
	Edges map[int64]map[int64]bool
}

// NewLabelGraph returns the graph induced by the labels in include: only the edges between two included labels are
// kept.
func NewLabelGraph(t tdag.Trace, include []tdag.Label) LabelGraph {
	full := TraceIterator{Trace: t}
	g := LabelGraph{
		order: full.Order(),
		Keys:  make([]int64, 0, len(include)),
		Edges: make(map[int64]map[int64]bool, len(include)),
	}
	for _, l := range include {
		if _, ok := g.Edges[int64(l)]; ok {
			continue
		}
		g.Keys = append(g.Keys, int64(l))
		g.Edges[int64(l)] = map[int64]bool{}
	}
	slices.Sort(g.Keys)
	for _, k := range g.Keys {
		full.Visit(int(k), func(w int, _ int64) bool {
			if _, ok := g.Edges[int64(w)]; ok {
				g.Edges[k][int64(w)] = true
			}
			return false
		})
	}
	return g
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order is the same as the original, meaning that node indices stay consistent across subgraphs.
func Subgraph(original LabelGraph, include []int64) LabelGraph {
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))
	copy(keys, include)

	for _, i := range include {
		edges[i] = map[int64]bool{}
	}
	for _, i := range include {
		for e := range original.Edges[i] {
			if _, ok := edges[e]; ok {
				edges[i][e] = true
			}
		}
	}

	return LabelGraph{
		order: original.Order(),
		Edges: edges,
		Keys:  keys,
	}
}

// Order implements the order of the graph.Iterator interface for the LabelGraph
func (g LabelGraph) Order() int {
	return g.order
}

// Visit implements the graph.Iterator interface for the LabelGraph
func (g LabelGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	succ, ok := g.Edges[int64(v)]
	if !ok {
		return false
	}
	// sorted for deterministic traversals
	targets := make([]int64, 0, len(succ))
	for w := range succ {
		targets = append(targets, w)
	}
	slices.Sort(targets)
	for _, w := range targets {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}
