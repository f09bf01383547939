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

package tdag

import "fmt"

// Label identifies a node in the taint graph. Label 0 is the untainted label and does not correspond to any node.
type Label uint32

// MaxLabel is the largest label that can be encoded in a union or range node
const MaxLabel Label = 1<<labelBits - 1

// MaxSourceOffset is the largest offset that can be encoded in a source node
const MaxSourceOffset uint64 = 1<<sourceOffsetBits - 1

const (
	sourceBit          = uint64(1) << 63
	controlFlowBit     = uint64(1) << 62
	labelBits          = 31
	labelMask          = uint64(1)<<labelBits - 1
	val1Shift          = labelBits
	sourceOffsetBits   = 54
	sourceOffsetMask   = uint64(1)<<sourceOffsetBits - 1
	sourceIndexShift   = sourceOffsetBits
	sourceIndexMask    = uint64(0xff)
	nodeKindSource     = "source"
	nodeKindUnion      = "union"
	nodeKindRange      = "range"
)

// A Node is a decoded taint node. It is one of *SourceNode, *UnionNode or *RangeNode.
type Node interface {
	// AffectsControlFlow returns true when the value labelled by the node was observed to influence a branch
	AffectsControlFlow() bool

	// Kind returns a short name for the kind of node
	Kind() string

	fmt.Stringer
}

// SourceNode is a leaf of the taint graph: one byte of an input.
type SourceNode struct {
	// Index is the index of the file header of the input
	Index uint8

	// Offset is the offset of the byte in the input
	Offset uint64

	ControlFlow bool
}

// UnionNode combines two labels
type UnionNode struct {
	Left        Label
	Right       Label
	ControlFlow bool
}

// RangeNode stands for all the labels in [First, Last], each one being a node on its own.
type RangeNode struct {
	First       Label
	Last        Label
	ControlFlow bool
}

// AffectsControlFlow implements Node
func (n *SourceNode) AffectsControlFlow() bool { return n.ControlFlow }

// AffectsControlFlow implements Node
func (n *UnionNode) AffectsControlFlow() bool { return n.ControlFlow }

// AffectsControlFlow implements Node
func (n *RangeNode) AffectsControlFlow() bool { return n.ControlFlow }

// Kind implements Node
func (n *SourceNode) Kind() string { return nodeKindSource }

// Kind implements Node
func (n *UnionNode) Kind() string { return nodeKindUnion }

// Kind implements Node
func (n *RangeNode) Kind() string { return nodeKindRange }

func cfSuffix(cf bool) string {
	if cf {
		return " (cf)"
	}
	return ""
}

func (n *SourceNode) String() string {
	return fmt.Sprintf("source(idx=%d, offset=%d)%s", n.Index, n.Offset, cfSuffix(n.ControlFlow))
}

func (n *UnionNode) String() string {
	return fmt.Sprintf("union(%d, %d)%s", n.Left, n.Right, cfSuffix(n.ControlFlow))
}

func (n *RangeNode) String() string {
	return fmt.Sprintf("range(%d..%d)%s", n.First, n.Last, cfSuffix(n.ControlFlow))
}

// Children calls f on every label the node refers to, in increasing order of label for ranges. It stops when f
// returns true, and returns true in that case.
func Children(n Node, f func(Label) (stop bool)) bool {
	switch n := n.(type) {
	case *UnionNode:
		return f(n.Left) || f(n.Right)
	case *RangeNode:
		for l := uint64(n.First); l <= uint64(n.Last); l++ {
			if f(Label(l)) {
				return true
			}
		}
	}
	return false
}

// EncodeNode returns the 64-bit word representing the node in a trace file.
// Union children are normalized so that the larger label is stored first; a union of two identical labels cannot
// be represented and is encoded as the one-label range.
func EncodeNode(n Node) (uint64, error) {
	var v uint64
	switch n := n.(type) {
	case *SourceNode:
		if n.Offset > MaxSourceOffset {
			return 0, fmt.Errorf("source offset %d exceeds maximum %d", n.Offset, MaxSourceOffset)
		}
		v = sourceBit | uint64(n.Index)<<sourceIndexShift | n.Offset
	case *UnionNode:
		if n.Left > MaxLabel || n.Right > MaxLabel {
			return 0, fmt.Errorf("union(%d, %d) exceeds the maximum label %d", n.Left, n.Right, MaxLabel)
		}
		l, r := n.Left, n.Right
		if l < r {
			l, r = r, l
		}
		v = uint64(l)<<val1Shift | uint64(r)
	case *RangeNode:
		if n.First > n.Last {
			return 0, fmt.Errorf("range(%d..%d) is empty", n.First, n.Last)
		}
		if n.Last > MaxLabel {
			return 0, fmt.Errorf("range(%d..%d) exceeds the maximum label %d", n.First, n.Last, MaxLabel)
		}
		v = uint64(n.First)<<val1Shift | uint64(n.Last)
	default:
		return 0, fmt.Errorf("cannot encode node of type %T", n)
	}
	if n.AffectsControlFlow() {
		v |= controlFlowBit
	}
	return v, nil
}

// DecodeWord returns the node encoded by v.
func DecodeWord(v uint64) Node {
	cf := v&controlFlowBit != 0
	if v&sourceBit != 0 {
		return &SourceNode{
			Index:       uint8((v >> sourceIndexShift) & sourceIndexMask),
			Offset:      v & sourceOffsetMask,
			ControlFlow: cf,
		}
	}
	v1 := Label((v >> val1Shift) & labelMask)
	v2 := Label(v & labelMask)
	if v1 > v2 {
		return &UnionNode{Left: v1, Right: v2, ControlFlow: cf}
	}
	return &RangeNode{First: v1, Last: v2, ControlFlow: cf}
}
