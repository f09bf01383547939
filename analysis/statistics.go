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
	"fmt"
	"sort"

	"github.com/polytracker/polyprocess/analysis/tdag"
	"github.com/polytracker/polyprocess/internal/funcutil"
)

// FileStatistics holds the statistics of one file header of a trace
type FileStatistics struct {
	Header tdag.FDHeader
	// ControlFlow is the number of preallocated labels of the file that affect control flow
	ControlFlow int
	// Sinks is the number of sinks writing to the file
	Sinks int
	// OutputTaints is the number of output taints of the file
	OutputTaints int
}

// Result holds general statistics about a trace
type Result struct {
	Labels int
	// NodesByKind counts the decoded nodes by kind (source, union, range)
	NodesByKind map[string]int
	// ControlFlowNodes is the number of nodes affecting control flow
	ControlFlowNodes int
	// InvalidNodes is the number of labels that could not be decoded
	InvalidNodes int
	// MaxRangeWidth is the largest number of labels covered by a single range node
	MaxRangeWidth int
	// FilesByKind counts the file headers by kind: "input" if labels were preallocated for it, "output" otherwise
	FilesByKind  map[string]int
	Files        []FileStatistics
	Sinks        int
	OutputTaints int
}

// TraceStatistics returns general statistics about the trace. Every label of the trace is decoded once.
func TraceStatistics(t tdag.Trace) Result {
	headers := t.FDHeaders()
	result := Result{
		Labels:      t.LabelCount() - 1,
		NodesByKind: map[string]int{},
		FilesByKind: funcutil.CountBy(headers, fileKind),
		Files:       make([]FileStatistics, len(headers)),
	}
	if result.Labels < 0 {
		result.Labels = 0
	}
	for i, h := range headers {
		result.Files[i].Header = h
	}

	for l := 1; l < t.LabelCount(); l++ {
		label := tdag.Label(l)
		n, err := t.DecodeNode(label)
		if err != nil {
			result.InvalidNodes++
			continue
		}
		result.NodesByKind[n.Kind()]++
		if r, ok := n.(*tdag.RangeNode); ok && r.Last >= r.First {
			if w := int(r.Last-r.First) + 1; w > result.MaxRangeWidth {
				result.MaxRangeWidth = w
			}
		}
		if !n.AffectsControlFlow() {
			continue
		}
		result.ControlFlowNodes++
		for i, h := range headers {
			if h.Contains(label) {
				result.Files[i].ControlFlow++
			}
		}
	}

	t.VisitSinks(func(s tdag.Sink) bool {
		result.Sinks++
		if int(s.Index) < len(result.Files) {
			result.Files[s.Index].Sinks++
		}
		return false
	})
	t.VisitOutputTaints(func(o tdag.OutputTaint) bool {
		result.OutputTaints++
		if o.InputID >= 0 && o.InputID < len(result.Files) {
			result.Files[o.InputID].OutputTaints++
		}
		return false
	})
	return result
}

func fileKind(h tdag.FDHeader) string {
	if h.Len() > 0 {
		return "input"
	}
	return "output"
}

// Kinds returns the node kinds of the result, sorted
func (r Result) Kinds() []string {
	set := make(map[string]bool, len(r.NodesByKind))
	for k := range r.NodesByKind {
		set[k] = true
	}
	return funcutil.SetToOrderedSlice(set)
}

// Lines returns a human readable summary of the statistics, one item per line
func (r Result) Lines() []string {
	lines := []string{fmt.Sprintf("labels: %d", r.Labels)}
	for _, kind := range r.Kinds() {
		lines = append(lines, fmt.Sprintf("  %s nodes: %d", kind, r.NodesByKind[kind]))
	}
	lines = append(lines,
		fmt.Sprintf("  affecting control flow: %d", r.ControlFlowNodes),
		fmt.Sprintf("  largest range: %d labels", r.MaxRangeWidth))
	if r.InvalidNodes > 0 {
		lines = append(lines, fmt.Sprintf("  invalid: %d", r.InvalidNodes))
	}
	kinds := make([]string, 0, len(r.FilesByKind))
	for k := range r.FilesByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	files := fmt.Sprintf("files: %d", len(r.Files))
	for _, k := range kinds {
		files += fmt.Sprintf(", %d %s", r.FilesByKind[k], k)
	}
	lines = append(lines, files)
	for i, f := range r.Files {
		lines = append(lines, fmt.Sprintf("  [%d] %s: %d bytes, %d affect control flow, %d sinks, %d output taints",
			i, f.Header.Name, f.Header.Len(), f.ControlFlow, f.Sinks, f.OutputTaints))
	}
	lines = append(lines, fmt.Sprintf("sinks: %d", r.Sinks), fmt.Sprintf("output taints: %d", r.OutputTaints))
	return lines
}
