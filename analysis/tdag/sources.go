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

// ResolveSources calls do on every source node reachable from label, once per source label. Control flow is
// ignored: this is the set of input bytes the labelled value was computed from.
func ResolveSources(t Trace, label Label, do func(Label, *SourceNode)) error {
	// children have smaller labels than their parents in a valid trace
	seen := NewLabelSet(int(label) + 1)
	stack := []Label{label}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.Add(cur) {
			continue
		}
		n, err := t.DecodeNode(cur)
		if err != nil {
			if cur != label {
				return fmt.Errorf("while resolving sources of %d: %w", label, err)
			}
			return err
		}
		switch n := n.(type) {
		case *SourceNode:
			do(cur, n)
		default:
			Children(n, func(child Label) bool {
				if !seen.Has(child) {
					stack = append(stack, child)
				}
				return false
			})
		}
	}
	return nil
}

// Ancestry returns the labels reachable from label (label included), and the nodes they decode to.
// At most limit labels are returned if limit > 0; the second return value is false when the ancestry was truncated.
func Ancestry(t Trace, label Label, limit int) (map[Label]Node, bool, error) {
	nodes := map[Label]Node{}
	stack := []Label{label}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := nodes[cur]; ok {
			continue
		}
		if limit > 0 && len(nodes) >= limit {
			return nodes, false, nil
		}
		n, err := t.DecodeNode(cur)
		if err != nil {
			return nil, false, err
		}
		nodes[cur] = n
		Children(n, func(child Label) bool {
			if _, ok := nodes[child]; !ok {
				stack = append(stack, child)
			}
			return false
		})
	}
	return nodes, true, nil
}
