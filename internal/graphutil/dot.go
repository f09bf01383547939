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
	"fmt"
	"io"
	"sort"

	"github.com/polytracker/polyprocess/analysis/tdag"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// TaintNode is a node of a trace in a gonum graph. Its ID is its label.
type TaintNode struct {
	Label tdag.Label
	Node  tdag.Node
	// Path is the name of the file of a source node, if known
	Path string
}

// ID implements graph.Node
func (n TaintNode) ID() int64 {
	return int64(n.Label)
}

// DOTID implements dot.Node
func (n TaintNode) DOTID() string {
	return fmt.Sprintf("l%d", n.Label)
}

// Attributes implements encoding.Attributer
func (n TaintNode) Attributes() []encoding.Attribute {
	text := fmt.Sprintf("%d: %s", n.Label, n.Node)
	shape := "ellipse"
	if src, ok := n.Node.(*tdag.SourceNode); ok {
		shape = "box"
		if n.Path != "" {
			text = fmt.Sprintf("%d: %s[%d]", n.Label, n.Path, src.Offset)
		}
	}
	attrs := []encoding.Attribute{{Key: "label", Value: text}, {Key: "shape", Value: shape}}
	if n.Node.AffectsControlFlow() {
		attrs = append(attrs, encoding.Attribute{Key: "color", Value: "red"})
	}
	return attrs
}

// ChildEdge is the edge from a union or range node to a label it refers to
type ChildEdge struct {
	F, T TaintNode
	// Side is "left" or "right" for the children of a union, empty otherwise
	Side string
}

// From implements graph.Edge
func (e ChildEdge) From() graph.Node { return e.F }

// To implements graph.Edge
func (e ChildEdge) To() graph.Node { return e.T }

// ReversedEdge implements graph.Edge
func (e ChildEdge) ReversedEdge() graph.Edge { return ChildEdge{F: e.T, T: e.F, Side: e.Side} }

// Attributes implements encoding.Attributer
func (e ChildEdge) Attributes() []encoding.Attribute {
	if e.Side == "" {
		return nil
	}
	return []encoding.Attribute{{Key: "label", Value: e.Side}}
}

// NewTaintGraph builds the directed graph of the nodes, with an edge from every union or range node to each of the
// labels it refers to that is also in nodes. inputs is used to name the files of source nodes and may be nil.
// References of a node to itself are dropped.
func NewTaintGraph(nodes map[tdag.Label]tdag.Node, inputs []tdag.Input) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	tnodes := make(map[tdag.Label]TaintNode, len(nodes))
	for label, n := range nodes {
		tn := TaintNode{Label: label, Node: n}
		if src, ok := n.(*tdag.SourceNode); ok && int(src.Index) < len(inputs) {
			tn.Path = inputs[src.Index].Path
		}
		tnodes[label] = tn
		g.AddNode(tn)
	}
	for _, tn := range tnodes {
		switch n := tn.Node.(type) {
		case *tdag.UnionNode:
			addChildEdge(g, tnodes, tn, n.Left, "left")
			addChildEdge(g, tnodes, tn, n.Right, "right")
		case *tdag.RangeNode:
			tdag.Children(n, func(child tdag.Label) bool {
				addChildEdge(g, tnodes, tn, child, "")
				return false
			})
		}
	}
	return g
}

func addChildEdge(g *simple.DirectedGraph, nodes map[tdag.Label]TaintNode, from TaintNode, child tdag.Label,
	side string) {
	to, ok := nodes[child]
	if !ok || child == from.Label {
		return
	}
	g.SetEdge(ChildEdge{F: from, T: to, Side: side})
}

// WriteDOT writes the graph in the DOT format to w
func WriteDOT(w io.Writer, g graph.Graph, name string) error {
	b, err := dot.Marshal(g, name, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal graph to dot: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// TopologicalLabels returns the labels of the graph such that every node comes before the labels it refers to.
// Ties are broken by decreasing label. An error is returned if the graph has a cycle.
func TopologicalLabels(g graph.Directed) ([]tdag.Label, error) {
	sorted, err := topo.SortStabilized(g, func(nodes []graph.Node) {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() > nodes[j].ID() })
	})
	if err != nil {
		return nil, err
	}
	labels := make([]tdag.Label, len(sorted))
	for i, n := range sorted {
		labels[i] = tdag.Label(n.ID())
	}
	return labels, nil
}
