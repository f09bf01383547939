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

import (
	"fmt"
	"sort"
)

// Validate checks the consistency of a trace and returns the problems found. At most maxErrors problems are returned
// when maxErrors > 0.
//
// The following properties are checked:
//   - file header label ranges have end >= begin and do not overlap
//   - every label referred to by a union or range node is valid and smaller than the label of the node
//   - source nodes refer to an existing file header
//   - sink and output taint labels are valid, and sinks and output taints refer to existing file headers
func Validate(t Trace, maxErrors int) []error {
	var errs []error
	report := func(format string, args ...any) bool {
		errs = append(errs, fmt.Errorf(format, args...))
		return maxErrors > 0 && len(errs) >= maxErrors
	}

	headers := t.FDHeaders()
	if stop := validateHeaders(headers, report); stop {
		return errs
	}

	count := t.LabelCount()
	for l := 1; l < count; l++ {
		label := Label(l)
		n, err := t.DecodeNode(label)
		if err != nil {
			if report("label %d: %v", l, err) {
				return errs
			}
			continue
		}
		if src, ok := n.(*SourceNode); ok {
			if int(src.Index) >= len(headers) {
				if report("label %d: source refers to file header %d, but there are %d headers",
					l, src.Index, len(headers)) {
					return errs
				}
			}
			continue
		}
		stop := Children(n, func(child Label) bool {
			if child == 0 || int(child) >= count {
				return report("label %d: %s refers to invalid label %d", l, n, child)
			}
			if child >= label {
				return report("label %d: %s refers to label %d which is not smaller", l, n, child)
			}
			return false
		})
		if stop {
			return errs
		}
	}

	stopped := false
	i := 0
	t.VisitSinks(func(s Sink) bool {
		if err := checkLabel(s.Label, count); err != nil {
			stopped = report("sink %d: %v", i, err)
		} else if int(s.Index) >= len(headers) {
			stopped = report("sink %d: output %d does not exist", i, s.Index)
		}
		i++
		return stopped
	})
	if stopped {
		return errs
	}

	i = 0
	t.VisitOutputTaints(func(ot OutputTaint) bool {
		if err := checkLabel(ot.Label, count); err != nil {
			stopped = report("output taint %d: %v", i, err)
		} else if ot.InputID < 0 || ot.InputID >= len(headers) {
			stopped = report("output taint %d: input %d does not exist", i, ot.InputID)
		}
		i++
		return stopped
	})
	return errs
}

func validateHeaders(headers []FDHeader, report func(string, ...any) bool) bool {
	sorted := make([]FDHeader, 0, len(headers))
	for _, h := range headers {
		if h.PreallocEnd < h.PreallocBegin {
			if report("file header %s: end of label range is before its beginning", h) {
				return true
			}
			continue
		}
		if h.Len() > 0 {
			sorted = append(sorted, h)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PreallocBegin < sorted[j].PreallocBegin })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].PreallocBegin < sorted[i-1].PreallocEnd {
			if report("file headers %s and %s have overlapping label ranges", sorted[i-1], sorted[i]) {
				return true
			}
		}
	}
	return false
}
