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

// Builder builds a trace in memory. It implements Trace, and can be written to a file with a Writer.
// Nodes are stored encoded, exactly as in a trace file.
//
// The methods of Builder panic when they are used to build something that cannot be represented in a trace file
// (more than 256 files, a label that does not exist yet, ...), since this is a programming error.
type Builder struct {
	headers []FDHeader
	words   []uint64
	sinks   []Sink
	outputs []OutputTaint
}

// NewBuilder returns an empty trace builder
func NewBuilder() *Builder {
	return &Builder{words: []uint64{0}}
}

func (b *Builder) nextLabel() Label {
	return Label(len(b.words))
}

func (b *Builder) add(n Node) Label {
	v, err := EncodeNode(n)
	if err != nil {
		panic(fmt.Sprintf("tdag builder: %v", err))
	}
	l := b.nextLabel()
	if l > MaxLabel {
		panic(fmt.Sprintf("tdag builder: label %d exceeds the maximum label", l))
	}
	b.words = append(b.words, v)
	return l
}

func (b *Builder) mustExist(labels ...Label) {
	for _, l := range labels {
		if l == 0 || l >= b.nextLabel() {
			panic(fmt.Sprintf("tdag builder: label %d does not exist", l))
		}
	}
}

func (b *Builder) addHeader(h FDHeader) int {
	if len(b.headers) > int(sourceIndexMask) {
		panic("tdag builder: too many files")
	}
	b.headers = append(b.headers, h)
	return len(b.headers) - 1
}

// AddFile adds an input file of size bytes, and preallocates one source label per byte. It returns the index of the
// file's header.
func (b *Builder) AddFile(name string, size int) int {
	idx := len(b.headers)
	begin := b.nextLabel()
	for i := 0; i < size; i++ {
		b.add(&SourceNode{Index: uint8(idx), Offset: uint64(i)})
	}
	return b.addHeader(FDHeader{Name: name, Fd: int32(idx + 3), PreallocBegin: begin, PreallocEnd: b.nextLabel()})
}

// AddOutput adds an output file, which has no preallocated labels. It returns the index of the file's header.
func (b *Builder) AddOutput(name string) int {
	l := b.nextLabel()
	return b.addHeader(FDHeader{Name: name, Fd: int32(len(b.headers) + 3), PreallocBegin: l, PreallocEnd: l})
}

// SourceLabel returns the label of the byte at offset in the file with header index file
func (b *Builder) SourceLabel(file int, offset int) Label {
	h := b.headers[file]
	l := h.PreallocBegin + Label(offset)
	if !h.Contains(l) {
		panic(fmt.Sprintf("tdag builder: offset %d outside of %s", offset, h))
	}
	return l
}

// Source adds a source node that is not preallocated, and returns its label
func (b *Builder) Source(file int, offset uint64) Label {
	return b.add(&SourceNode{Index: uint8(file), Offset: offset})
}

// Union adds a union node of left and right and returns its label
func (b *Builder) Union(left, right Label) Label {
	b.mustExist(left, right)
	return b.add(&UnionNode{Left: left, Right: right})
}

// Range adds a range node over [first, last] and returns its label
func (b *Builder) Range(first, last Label) Label {
	b.mustExist(first, last)
	return b.add(&RangeNode{First: first, Last: last})
}

// AddNode adds an arbitrary node, without checking the labels it refers to
func (b *Builder) AddNode(n Node) Label {
	return b.add(n)
}

// MarkControlFlow records that the node with the given label affects control flow
func (b *Builder) MarkControlFlow(labels ...Label) {
	b.mustExist(labels...)
	for _, l := range labels {
		b.words[l] |= controlFlowBit
	}
}

// AddSink records that a byte with the given label was written at offset in the output
func (b *Builder) AddSink(output int, offset uint64, label Label) {
	b.sinks = append(b.sinks, Sink{Label: label, Offset: offset, Index: uint8(output)})
}

// AddOutputTaint records the taint label of the byte at offset in the output
func (b *Builder) AddOutputTaint(output int, offset uint64, label Label) {
	b.outputs = append(b.outputs, OutputTaint{InputID: output, Offset: offset, Label: label})
}

// Write records that the bytes of the labels were written to the output starting at offset, both as sinks and
// output taints, which is what the tracer does on a write.
func (b *Builder) Write(output int, offset uint64, labels ...Label) {
	for i, l := range labels {
		b.AddSink(output, offset+uint64(i), l)
		b.AddOutputTaint(output, offset+uint64(i), l)
	}
}

// DecodeNode implements Trace
func (b *Builder) DecodeNode(label Label) (Node, error) {
	if err := checkLabel(label, len(b.words)); err != nil {
		return nil, err
	}
	return DecodeWord(b.words[label]), nil
}

// LabelCount implements Trace
func (b *Builder) LabelCount() int {
	return len(b.words)
}

// FDHeaders implements Trace
func (b *Builder) FDHeaders() []FDHeader {
	return b.headers
}

// Inputs implements Trace
func (b *Builder) Inputs() []Input {
	return inputsOf(b.headers)
}

// SinkCount implements Trace
func (b *Builder) SinkCount() int {
	return len(b.sinks)
}

// VisitSinks implements Trace
func (b *Builder) VisitSinks(do func(Sink) bool) {
	for _, s := range b.sinks {
		if do(s) {
			return
		}
	}
}

// OutputTaintCount implements Trace
func (b *Builder) OutputTaintCount() int {
	return len(b.outputs)
}

// VisitOutputTaints implements Trace
func (b *Builder) VisitOutputTaints(do func(OutputTaint) bool) {
	for _, ot := range b.outputs {
		if do(ot) {
			return
		}
	}
}
