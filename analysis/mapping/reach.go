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

package mapping

import (
	"fmt"

	"github.com/polytracker/polyprocess/analysis/tdag"
)

// SourceLabelsNotAffectingCF calls yield on every source label reachable from label whose node does not affect
// control flow. Subgraphs rooted at a node that affects control flow are not explored.
//
// The seen set is shared by the caller across searches: a label in seen is never visited again, and every label
// visited or yielded is added to it. Sharing the set across all the sinks of a pass bounds the work of the pass by the
// size of the graph.
//
// The search uses an explicit stack, so deep chains of unions do not grow the goroutine stack.
func SourceLabelsNotAffectingCF(t tdag.Trace, label tdag.Label, seen *tdag.LabelSet,
	yield func(tdag.Label)) error {
	stack := []tdag.Label{label}

	// visit handles a label referred to by a union or a range: sources are yielded directly, other nodes are pushed
	visit := func(child tdag.Label) error {
		if seen.Has(child) {
			return nil
		}
		n, err := t.DecodeNode(child)
		if err != nil {
			return err
		}
		if n.AffectsControlFlow() {
			seen.Add(child)
			return nil
		}
		if _, ok := n.(*tdag.SourceNode); ok {
			seen.Add(child)
			yield(child)
			return nil
		}
		stack = append(stack, child)
		return nil
	}

	for len(stack) > 0 {
		lbl := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !seen.Add(lbl) {
			continue
		}

		n, err := t.DecodeNode(lbl)
		if err != nil {
			return fmt.Errorf("while searching sources of label %d: %w", label, err)
		}

		if n.AffectsControlFlow() {
			continue
		}

		switch n := n.(type) {
		case *tdag.SourceNode:
			yield(lbl)
		case *tdag.UnionNode:
			if err := visit(n.Left); err != nil {
				return fmt.Errorf("while searching sources of label %d: %w", label, err)
			}
			if err := visit(n.Right); err != nil {
				return fmt.Errorf("while searching sources of label %d: %w", label, err)
			}
		case *tdag.RangeNode:
			// Every label of the range is decoded: a range may mix nodes that affect control flow and nodes that
			// do not.
			for rl := uint64(n.First); rl <= uint64(n.Last); rl++ {
				if err := visit(tdag.Label(rl)); err != nil {
					return fmt.Errorf("while searching sources of label %d: %w", label, err)
				}
			}
		}
	}
	return nil
}
