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

import "github.com/polytracker/polyprocess/analysis/tdag"

// Tree is a rooted tree of labels. Each node knows its distance to the root.
type Tree[T any] struct {
	Label    T
	Children []*Tree[T]
	depth    int
}

// NewTree returns a tree with a single node
func NewTree[T any](root T) *Tree[T] {
	return &Tree[T]{Label: root}
}

// AddChild appends a node with label under t and returns it
func (t *Tree[T]) AddChild(label T) *Tree[T] {
	c := &Tree[T]{Label: label, depth: t.depth + 1}
	t.Children = append(t.Children, c)
	return c
}

// Depth returns the distance from t to the root of its tree
func (t *Tree[T]) Depth() int {
	return t.depth
}

// Walk calls f on t and its descendants in depth-first pre-order, with depths relative to t
func (t *Tree[T]) Walk(f func(node *Tree[T], depth int)) {
	t.walk(f, t.depth)
}

func (t *Tree[T]) walk(f func(*Tree[T], int), base int) {
	f(t, t.depth-base)
	for _, c := range t.Children {
		c.walk(f, base)
	}
}

// LabelTree returns the tree of the labels reachable from label, expanded down to depth levels below the root.
// A node shared by several parents appears under each of them. At most maxNodes nodes are added when maxNodes > 0;
// the boolean result is false when the tree has been truncated by maxNodes.
func LabelTree(t tdag.Trace, label tdag.Label, depth int, maxNodes int) (*Tree[tdag.Label], bool, error) {
	if _, err := t.DecodeNode(label); err != nil {
		return nil, false, err
	}
	root := NewTree(label)
	count := 1
	// breadth first, so that truncation keeps the levels close to the root
	queue := []*Tree[tdag.Label]{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.Depth() >= depth {
			continue
		}
		n, err := t.DecodeNode(cur.Label)
		if err != nil {
			return nil, false, err
		}
		truncated := tdag.Children(n, func(child tdag.Label) bool {
			if maxNodes > 0 && count >= maxNodes {
				return true
			}
			count++
			queue = append(queue, cur.AddChild(child))
			return false
		})
		if truncated {
			return root, false, nil
		}
	}
	return root, true, nil
}
