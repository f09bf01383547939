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

// A Trace gives read-only access to a recorded taint trace.
// Implementations must allow DecodeNode to be called any number of times on the same label, and from several
// goroutines at once. Decoded nodes may be shared and must not be modified.
type Trace interface {
	// DecodeNode returns the node with the given label, or an *InvalidLabelError
	DecodeNode(label Label) (Node, error)

	// LabelCount returns the number of labels of the trace, label 0 included. Valid labels are 1..LabelCount()-1
	LabelCount() int

	// FDHeaders returns the headers of all the files opened during tracing, in the order they were opened
	FDHeaders() []FDHeader

	// Inputs returns a descriptor for each file header; the UID of an input is the index of its header
	Inputs() []Input

	// SinkCount returns the number of sinks in the trace
	SinkCount() int

	// VisitSinks calls do on every sink, in the order they were recorded, until do returns true
	VisitSinks(do func(Sink) (stop bool))

	// OutputTaintCount returns the number of output taints in the trace
	OutputTaintCount() int

	// VisitOutputTaints calls do on every output taint until do returns true
	VisitOutputTaints(do func(OutputTaint) (stop bool))
}

// FDHeader describes one file opened by the traced program. Source labels [PreallocBegin, PreallocEnd) were
// allocated for the bytes of the file, in order.
type FDHeader struct {
	Name          string
	Fd            int32
	PreallocBegin Label
	PreallocEnd   Label
}

// Len returns the number of labels preallocated for the file
func (h FDHeader) Len() int {
	if h.PreallocEnd < h.PreallocBegin {
		return 0
	}
	return int(h.PreallocEnd - h.PreallocBegin)
}

// Contains returns true if label has been preallocated for the file
func (h FDHeader) Contains(label Label) bool {
	return h.PreallocBegin <= label && label < h.PreallocEnd
}

func (h FDHeader) String() string {
	return fmt.Sprintf("%s (fd %d, labels [%d, %d))", h.Name, h.Fd, h.PreallocBegin, h.PreallocEnd)
}

// Input identifies an input or output file of the trace
type Input struct {
	UID  int
	Path string
}

func (i Input) String() string {
	return i.Path
}

// Sink is a write of one tainted byte to an output
type Sink struct {
	// Label is the taint label of the byte written
	Label Label
	// Offset is the offset of the byte in the output
	Offset uint64
	// Index is the index of the file header of the output
	Index uint8
}

// OutputTaint records the taint of one byte of an output
type OutputTaint struct {
	// InputID is the UID of the output file written to
	InputID int
	// Offset is the offset of the byte in the output
	Offset uint64
	// Label is the taint label of the byte
	Label Label
}

// inputsOf builds the input descriptors of a list of headers
func inputsOf(headers []FDHeader) []Input {
	inputs := make([]Input, len(headers))
	for i, h := range headers {
		inputs[i] = Input{UID: i, Path: h.Name}
	}
	return inputs
}

// checkLabel returns an error if label is not a valid label for a trace with count labels
func checkLabel(label Label, count int) error {
	if label == 0 || int(label) >= count {
		last := Label(0)
		if count > 1 {
			last = Label(count - 1)
		}
		return &InvalidLabelError{Label: label, Max: last}
	}
	return nil
}
