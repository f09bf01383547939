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
	"errors"
	"fmt"
	"sync"

	"github.com/polytracker/polyprocess/analysis/config"
	"github.com/polytracker/polyprocess/analysis/tdag"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrUnknownInput is returned when an output taint or a source node refers to a file that has no header in the trace
var ErrUnknownInput = errors.New("unknown input")

// ByteOffset identifies one byte of an input or output file
type ByteOffset struct {
	Source tdag.Input
	Offset uint64
}

func (b ByteOffset) String() string {
	return fmt.Sprintf("%s[%d]", b.Source.Path, b.Offset)
}

// less orders byte offsets by file UID, then offset
func (b ByteOffset) less(other ByteOffset) bool {
	if b.Source.UID != other.Source.UID {
		return b.Source.UID < other.Source.UID
	}
	return b.Offset < other.Offset
}

// SortByteOffsets sorts the byte offsets in place by file, then offset
func SortByteOffsets(offsets []ByteOffset) {
	slices.SortFunc(offsets, func(a, b ByteOffset) bool { return a.less(b) })
}

// Mapping maps input bytes to the set of output bytes they flow to
type Mapping map[ByteOffset]map[ByteOffset]bool

// Inputs returns the input bytes of the mapping, sorted
func (m Mapping) Inputs() []ByteOffset {
	keys := maps.Keys(m)
	SortByteOffsets(keys)
	return keys
}

// OutputsOf returns the output bytes input flows to, sorted
func (m Mapping) OutputsOf(input ByteOffset) []ByteOffset {
	outputs := maps.Keys(m[input])
	SortByteOffsets(outputs)
	return outputs
}

// InputOutputMapping computes the relations between the bytes of the input files and the bytes of the output files
// of a trace. An InputOutputMapping can be shared by several goroutines.
type InputOutputMapping struct {
	trace  tdag.Trace
	config *config.Config
	logger *config.LogGroup

	// inputs indexes the input descriptors by UID
	inputs map[int]tdag.Input

	mappingOnce sync.Once
	mapping     Mapping
	mappingErr  error
}

// New returns an InputOutputMapping for the trace. If cfg or logger are nil, defaults are used.
// Nothing is computed until a result is requested.
func New(trace tdag.Trace, cfg *config.Config, logger *config.LogGroup) *InputOutputMapping {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	if logger == nil {
		logger = config.NewLogGroup(cfg)
	}
	inputs := make(map[int]tdag.Input)
	for _, input := range trace.Inputs() {
		inputs[input.UID] = input
	}
	return &InputOutputMapping{
		trace:  trace,
		config: cfg,
		logger: logger,
		inputs: inputs,
	}
}

// Trace returns the trace being analyzed
func (m *InputOutputMapping) Trace() tdag.Trace {
	return m.trace
}

// Input returns the input with the given UID
func (m *InputOutputMapping) Input(uid int) (tdag.Input, error) {
	input, ok := m.inputs[uid]
	if !ok {
		return tdag.Input{}, fmt.Errorf("%w: no file header with index %d", ErrUnknownInput, uid)
	}
	return input, nil
}

// Mapping returns, for every input byte that flows to some output, the set of output bytes it flows to.
//
// The mapping is computed on the first call only; every later call returns the same map without reading the trace.
// Callers must not modify the returned map.
func (m *InputOutputMapping) Mapping() (Mapping, error) {
	m.mappingOnce.Do(func() {
		m.mapping, m.mappingErr = m.computeMapping()
	})
	return m.mapping, m.mappingErr
}

func (m *InputOutputMapping) computeMapping() (Mapping, error) {
	result := make(Mapping)
	total := m.trace.OutputTaintCount()
	progress := m.logger.NewProgress("output taints", total, m.config.ProgressInterval)
	m.logger.Infof("Computing input to output mapping from %d output taints", total)

	var err error
	m.trace.VisitOutputTaints(func(ot tdag.OutputTaint) bool {
		writtenTo, e := m.Input(ot.InputID)
		if e != nil {
			err = fmt.Errorf("output taint at offset %d: %w", ot.Offset, e)
			return true
		}
		dst := ByteOffset{Source: writtenTo, Offset: ot.Offset}
		e = m.visitTaintSources(ot.Label, func(src ByteOffset) {
			outputs, ok := result[src]
			if !ok {
				outputs = make(map[ByteOffset]bool)
				result[src] = outputs
			}
			outputs[dst] = true
		})
		if e != nil {
			err = fmt.Errorf("output taint at %s: %w", dst, e)
			return true
		}
		progress.Tick()
		return false
	})
	if err != nil {
		return nil, err
	}
	m.logger.Infof("Mapping computed: %d input bytes flow to outputs", len(result))
	return result, nil
}

// OutputTaintSources returns the input bytes the byte of the output taint was derived from, sorted and without
// duplicates.
func (m *InputOutputMapping) OutputTaintSources(ot tdag.OutputTaint) ([]ByteOffset, error) {
	var sources []ByteOffset
	err := m.visitTaintSources(ot.Label, func(src ByteOffset) {
		sources = append(sources, src)
	})
	if err != nil {
		return nil, err
	}
	SortByteOffsets(sources)
	return sources, nil
}

// visitTaintSources calls do once for every input byte label is derived from
func (m *InputOutputMapping) visitTaintSources(label tdag.Label, do func(ByteOffset)) error {
	var err error
	resolveErr := tdag.ResolveSources(m.trace, label, func(_ tdag.Label, n *tdag.SourceNode) {
		if err != nil {
			return
		}
		input, e := m.Input(int(n.Index))
		if e != nil {
			err = e
			return
		}
		do(ByteOffset{Source: input, Offset: n.Offset})
	})
	if resolveErr != nil {
		return resolveErr
	}
	return err
}
