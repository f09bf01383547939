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
	"golang.org/x/sync/errgroup"
)

// Cavity is a range [Begin, End) of bytes of an input file that neither affect control flow nor flow to any output
type Cavity struct {
	Path  string
	Begin uint64
	End   uint64
}

func (c Cavity) String() string {
	return fmt.Sprintf("%s\t%d - %d", c.Path, c.Begin, c.End)
}

// Len returns the number of bytes of the cavity
func (c Cavity) Len() uint64 {
	if c.End < c.Begin {
		return 0
	}
	return c.End - c.Begin
}

// FileCavities returns the cavities of every file of the trace that has at least one preallocated label and whose
// path matches the path filter of the configuration. Cavities are grouped by file, in the order of the file headers,
// and sorted by offset within each file.
//
// Files are processed concurrently, up to the MaxRoutines option.
func (m *InputOutputMapping) FileCavities() ([]Cavity, error) {
	headers := m.trace.FDHeaders()
	perFile := make([][]Cavity, len(headers))

	var g errgroup.Group
	if m.config.MaxRoutines > 0 {
		g.SetLimit(m.config.MaxRoutines)
	} else {
		g.SetLimit(1)
	}

	for i, header := range headers {
		if header.Len() < 1 {
			m.logger.Tracef("Skipping %s: no preallocated labels", header.Name)
			continue
		}
		if !m.config.MatchPathFilter(header.Name) {
			m.logger.Debugf("Skipping %s: does not match path filter", header.Name)
			continue
		}
		i, header := i, header
		g.Go(func() error {
			cavities, err := m.FileCavitiesFor(header)
			if err != nil {
				return fmt.Errorf("while computing cavities of %s: %w", header.Name, err)
			}
			perFile[i] = cavities
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var cavities []Cavity
	for _, c := range perFile {
		cavities = append(cavities, c...)
	}
	return cavities, nil
}

// FileCavitiesFor returns the cavities of the file described by header.
//
// A byte of the file is marked as used when its source label affects control flow, or when it can be reached from a
// sink through nodes that do not affect control flow. The cavities are the maximal runs of bytes that are not marked.
// Sinks whose label affects control flow contribute nothing.
func (m *InputOutputMapping) FileCavitiesFor(header tdag.FDHeader) ([]Cavity, error) {
	length := header.Len()
	if length < 1 {
		return nil, nil
	}
	if int(header.PreallocEnd) > m.trace.LabelCount() {
		return nil, fmt.Errorf("header of %s: %w", header.Name,
			&tdag.InvalidLabelError{Label: header.PreallocEnd - 1, Max: tdag.Label(m.trace.LabelCount() - 1)})
	}
	marker := make([]byte, length)
	mark := func(label tdag.Label) {
		if header.Contains(label) {
			marker[label-header.PreallocBegin] = 1
		}
	}

	m.logger.Debugf("Computing cavities of %s", header)

	// bytes affecting control flow
	for label := header.PreallocBegin; label < header.PreallocEnd; label++ {
		n, err := m.trace.DecodeNode(label)
		if err != nil {
			return nil, fmt.Errorf("control flow pass: %w", err)
		}
		if n.AffectsControlFlow() {
			mark(label)
		}
	}

	// bytes flowing to a sink. The seen set is shared by all the sinks of this file.
	seen := tdag.NewLabelSet(m.trace.LabelCount())
	total := m.trace.SinkCount()
	progress := m.logger.NewProgress("sinks of "+header.Name, total, m.config.ProgressInterval)
	var err error
	m.trace.VisitSinks(func(sink tdag.Sink) bool {
		processed := progress.Tick()
		n, e := m.trace.DecodeNode(sink.Label)
		if e != nil {
			err = fmt.Errorf("sink %d: %w", processed-1, e)
			return true
		}
		if n.AffectsControlFlow() {
			return false
		}
		if _, isSource := n.(*tdag.SourceNode); isSource {
			mark(sink.Label)
			return false
		}
		if e := SourceLabelsNotAffectingCF(m.trace, sink.Label, seen, mark); e != nil {
			err = fmt.Errorf("sink %d: %w", processed-1, e)
			return true
		}
		return false
	})
	if err != nil {
		return nil, err
	}

	var ranges []Range
	if m.config.LegacyTrailingCavity {
		ranges = LegacyMarkerToRanges(marker)
	} else {
		ranges = MarkerToRanges(marker)
	}
	// the legacy closing rule yields an empty range for a trailing run of one byte, which older reports print
	cavities := make([]Cavity, 0, len(ranges))
	for _, r := range ranges {
		cavities = append(cavities, Cavity{Path: header.Name, Begin: r.Begin, End: r.End})
	}
	m.logger.Debugf("%s: %d cavities", header.Name, len(cavities))
	return cavities, nil
}
