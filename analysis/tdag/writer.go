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
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Writer writes traces in the trace file format
type Writer struct {
	w   *bufio.Writer
	buf [sectionEntrySize]byte
	err error
}

// NewWriter returns a writer that writes to w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// WriteFile writes the trace t to a new file at path
func WriteFile(path string, t Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := NewWriter(f).Write(t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes the whole trace t. Every label of t is decoded and re-encoded.
func (w *Writer) Write(t Trace) error {
	headers := t.FDHeaders()
	var strs []byte
	nameOffsets := make([]uint32, len(headers))
	for i, h := range headers {
		nameOffsets[i] = uint32(len(strs))
		strs = append(strs, h.Name...)
	}

	sections := []section{
		{tag: SectionFDHeaders, entrySize: fdHeaderSize, size: uint64(len(headers)) * fdHeaderSize},
		{tag: SectionStrings, size: uint64(len(strs))},
		{tag: SectionLabels, entrySize: labelSize, size: uint64(t.LabelCount()) * labelSize},
		{tag: SectionSinks, entrySize: sinkSize, size: uint64(t.SinkCount()) * sinkSize},
		{tag: SectionOutputTaints, entrySize: outputTaintSize, size: uint64(t.OutputTaintCount()) * outputTaintSize},
	}
	offset := uint64(fileHeaderSize + len(sections)*sectionEntrySize)
	for i := range sections {
		sections[i].offset = offset
		offset += sections[i].size
	}

	le := binary.LittleEndian
	b := w.buf[:]

	// header
	copy(b, Magic)
	le.PutUint16(b[4:], Version)
	le.PutUint16(b[6:], uint16(len(sections)))
	le.PutUint64(b[8:], 0)
	w.write(b[:fileHeaderSize])

	for _, s := range sections {
		le.PutUint32(b, uint32(s.tag))
		le.PutUint32(b[4:], s.entrySize)
		le.PutUint64(b[8:], s.offset)
		le.PutUint64(b[16:], s.size)
		w.write(b[:sectionEntrySize])
	}

	for i, h := range headers {
		le.PutUint32(b, nameOffsets[i])
		le.PutUint32(b[4:], uint32(len(h.Name)))
		le.PutUint32(b[8:], uint32(h.Fd))
		le.PutUint32(b[12:], 0)
		le.PutUint32(b[16:], uint32(h.PreallocBegin))
		le.PutUint32(b[20:], uint32(h.PreallocEnd))
		w.write(b[:fdHeaderSize])
	}

	w.write(strs)

	// label 0 is never decoded
	if t.LabelCount() > 0 {
		le.PutUint64(b, 0)
		w.write(b[:labelSize])
	}
	for l := 1; l < t.LabelCount(); l++ {
		n, err := t.DecodeNode(Label(l))
		if err != nil {
			return err
		}
		v, err := EncodeNode(n)
		if err != nil {
			return fmt.Errorf("label %d: %w", l, err)
		}
		le.PutUint64(b, v)
		w.write(b[:labelSize])
	}

	t.VisitSinks(func(s Sink) bool {
		le.PutUint64(b, s.Offset)
		le.PutUint32(b[8:], uint32(s.Label))
		b[12], b[13], b[14], b[15] = s.Index, 0, 0, 0
		w.write(b[:sinkSize])
		return w.err != nil
	})

	t.VisitOutputTaints(func(ot OutputTaint) bool {
		le.PutUint64(b, ot.Offset)
		le.PutUint32(b[8:], uint32(ot.Label))
		le.PutUint32(b[12:], uint32(ot.InputID))
		w.write(b[:outputTaintSize])
		return w.err != nil
	})

	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}
