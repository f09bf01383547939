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
	"encoding/binary"
	"fmt"
	"os"
)

// File is a Trace backed by the bytes of a trace file. Records are decoded on demand; only the file headers are
// decoded when the file is opened.
type File struct {
	path    string
	data    []byte
	release func() error

	headers []FDHeader
	inputs  []Input
	labels  []byte
	sinks   []byte
	outputs []byte
}

// Open maps the trace file at path in memory and parses its headers. The file must be closed with Close.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open trace: %w", err)
	}
	defer f.Close()

	data, release, err := mapFile(f)
	if err != nil {
		return nil, fmt.Errorf("could not map trace %s: %w", path, err)
	}
	tf, err := Parse(data)
	if err != nil {
		release()
		return nil, fmt.Errorf("could not read trace %s: %w", path, err)
	}
	tf.path = path
	tf.release = release
	return tf, nil
}

// Parse reads a trace from the bytes of a trace file. The File refers to data, which must not be modified.
func Parse(data []byte) (*File, error) {
	sections, err := readSectionTable(data)
	if err != nil {
		return nil, err
	}
	tf := &File{data: data}
	var rawHeaders, strs []byte
	var hasHeaders, hasLabels bool
	for _, s := range sections {
		content := data[s.offset : s.offset+s.size]
		switch s.tag {
		case SectionFDHeaders:
			rawHeaders, hasHeaders = content, true
		case SectionStrings:
			strs = content
		case SectionLabels:
			tf.labels, hasLabels = content, true
		case SectionSinks:
			tf.sinks = content
		case SectionOutputTaints:
			tf.outputs = content
		}
	}
	if !hasHeaders {
		return nil, &FormatError{Section: SectionFDHeaders.String(), Reason: "missing"}
	}
	if !hasLabels {
		return nil, &FormatError{Section: SectionLabels.String(), Reason: "missing"}
	}
	tf.headers, err = decodeHeaders(rawHeaders, strs)
	if err != nil {
		return nil, err
	}
	tf.inputs = inputsOf(tf.headers)
	return tf, nil
}

func readSectionTable(data []byte) ([]section, error) {
	if len(data) < fileHeaderSize {
		if len(data) >= len(Magic) && string(data[:len(Magic)]) != Magic {
			return nil, ErrBadMagic
		}
		return nil, ErrTruncated
	}
	if string(data[:len(Magic)]) != Magic {
		return nil, ErrBadMagic
	}
	le := binary.LittleEndian
	if v := le.Uint16(data[4:]); v != Version {
		return nil, fmt.Errorf("unsupported trace version %d (expected %d)", v, Version)
	}
	count := int(le.Uint16(data[6:]))
	tableEnd := fileHeaderSize + count*sectionEntrySize
	if len(data) < tableEnd {
		return nil, ErrTruncated
	}
	sections := make([]section, count)
	for i := range sections {
		b := data[fileHeaderSize+i*sectionEntrySize:]
		s := section{
			tag:       SectionTag(le.Uint32(b)),
			entrySize: le.Uint32(b[4:]),
			offset:    le.Uint64(b[8:]),
			size:      le.Uint64(b[16:]),
		}
		if s.offset > uint64(len(data)) || s.size > uint64(len(data))-s.offset {
			return nil, fmt.Errorf("%s section [%d, +%d) outside of file: %w", s.tag, s.offset, s.size, ErrTruncated)
		}
		if expected := s.tag.entrySize(); expected != 0 {
			if s.entrySize != expected {
				return nil, &FormatError{
					Section: s.tag.String(),
					Reason:  fmt.Sprintf("entry size is %d, expected %d", s.entrySize, expected),
				}
			}
			if s.size%uint64(expected) != 0 {
				return nil, &FormatError{
					Section: s.tag.String(),
					Reason:  fmt.Sprintf("size %d is not a multiple of %d", s.size, expected),
				}
			}
		}
		sections[i] = s
	}
	return sections, nil
}

func decodeHeaders(raw []byte, strs []byte) ([]FDHeader, error) {
	le := binary.LittleEndian
	headers := make([]FDHeader, len(raw)/fdHeaderSize)
	for i := range headers {
		b := raw[i*fdHeaderSize:]
		nameOff, nameLen := uint64(le.Uint32(b)), uint64(le.Uint32(b[4:]))
		if nameOff+nameLen > uint64(len(strs)) {
			return nil, &FormatError{
				Section: SectionFDHeaders.String(),
				Reason:  fmt.Sprintf("name of header %d is outside of the string table", i),
			}
		}
		headers[i] = FDHeader{
			Name:          string(strs[nameOff : nameOff+nameLen]),
			Fd:            int32(le.Uint32(b[8:])),
			PreallocBegin: Label(le.Uint32(b[16:])),
			PreallocEnd:   Label(le.Uint32(b[20:])),
		}
	}
	return headers, nil
}

// Path returns the path the trace was opened from, or "" for parsed traces
func (f *File) Path() string {
	return f.path
}

// Close releases the memory of the trace. The File must not be used after it has been closed.
func (f *File) Close() error {
	f.labels, f.sinks, f.outputs, f.data = nil, nil, nil, nil
	if f.release == nil {
		return nil
	}
	release := f.release
	f.release = nil
	return release()
}

// DecodeNode implements Trace
func (f *File) DecodeNode(label Label) (Node, error) {
	if err := checkLabel(label, f.LabelCount()); err != nil {
		return nil, err
	}
	return DecodeWord(binary.LittleEndian.Uint64(f.labels[int(label)*labelSize:])), nil
}

// LabelCount implements Trace
func (f *File) LabelCount() int {
	return len(f.labels) / labelSize
}

// FDHeaders implements Trace
func (f *File) FDHeaders() []FDHeader {
	return f.headers
}

// Inputs implements Trace
func (f *File) Inputs() []Input {
	return f.inputs
}

// SinkCount implements Trace
func (f *File) SinkCount() int {
	return len(f.sinks) / sinkSize
}

// VisitSinks implements Trace
func (f *File) VisitSinks(do func(Sink) bool) {
	le := binary.LittleEndian
	for i := 0; i+sinkSize <= len(f.sinks); i += sinkSize {
		b := f.sinks[i : i+sinkSize]
		s := Sink{
			Offset: le.Uint64(b),
			Label:  Label(le.Uint32(b[8:])),
			Index:  b[12],
		}
		if do(s) {
			return
		}
	}
}

// OutputTaintCount implements Trace
func (f *File) OutputTaintCount() int {
	return len(f.outputs) / outputTaintSize
}

// VisitOutputTaints implements Trace
func (f *File) VisitOutputTaints(do func(OutputTaint) bool) {
	le := binary.LittleEndian
	for i := 0; i+outputTaintSize <= len(f.outputs); i += outputTaintSize {
		b := f.outputs[i : i+outputTaintSize]
		ot := OutputTaint{
			Offset:  le.Uint64(b),
			Label:   Label(le.Uint32(b[8:])),
			InputID: int(le.Uint32(b[12:])),
		}
		if do(ot) {
			return
		}
	}
}
