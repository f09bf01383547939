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
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sampleTrace builds a trace with an input of 6 bytes, a union, a range and an output
func sampleTrace() *Builder {
	b := NewBuilder()
	in := b.AddFile("/inputs/sample.bin", 6)
	out := b.AddOutput("/outputs/result.bin")
	u := b.Union(b.SourceLabel(in, 0), b.SourceLabel(in, 1))
	r := b.Range(b.SourceLabel(in, 2), b.SourceLabel(in, 4))
	b.MarkControlFlow(b.SourceLabel(in, 3))
	b.Write(out, 0, u, r, b.SourceLabel(in, 5))
	return b
}

func collectSinks(t Trace) []Sink {
	var sinks []Sink
	t.VisitSinks(func(s Sink) bool {
		sinks = append(sinks, s)
		return false
	})
	return sinks
}

func collectOutputTaints(t Trace) []OutputTaint {
	var ots []OutputTaint
	t.VisitOutputTaints(func(ot OutputTaint) bool {
		ots = append(ots, ot)
		return false
	})
	return ots
}

func compareTraces(t *testing.T, want Trace, got Trace) {
	t.Helper()
	if diff := cmp.Diff(want.FDHeaders(), got.FDHeaders()); diff != "" {
		t.Errorf("headers differ (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Inputs(), got.Inputs()); diff != "" {
		t.Errorf("inputs differ (-want +got):\n%s", diff)
	}
	if want.LabelCount() != got.LabelCount() {
		t.Fatalf("expected %d labels, got %d", want.LabelCount(), got.LabelCount())
	}
	for l := 1; l < want.LabelCount(); l++ {
		wn, _ := want.DecodeNode(Label(l))
		gn, err := got.DecodeNode(Label(l))
		if err != nil {
			t.Errorf("could not decode label %d: %v", l, err)
			continue
		}
		if diff := cmp.Diff(wn, gn); diff != "" {
			t.Errorf("label %d differs (-want +got):\n%s", l, diff)
		}
	}
	if got.SinkCount() != want.SinkCount() || got.OutputTaintCount() != want.OutputTaintCount() {
		t.Errorf("expected %d sinks and %d output taints, got %d and %d",
			want.SinkCount(), want.OutputTaintCount(), got.SinkCount(), got.OutputTaintCount())
	}
	if diff := cmp.Diff(collectSinks(want), collectSinks(got)); diff != "" {
		t.Errorf("sinks differ (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(collectOutputTaints(want), collectOutputTaints(got)); diff != "" {
		t.Errorf("output taints differ (-want +got):\n%s", diff)
	}
}

func TestWriteParseRoundTrip(t *testing.T) {
	b := sampleTrace()
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(b); err != nil {
		t.Fatalf("could not write trace: %v", err)
	}
	f, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("could not parse trace: %v", err)
	}
	compareTraces(t, b, f)
}

func TestWriteFileOpen(t *testing.T) {
	b := sampleTrace()
	path := filepath.Join(t.TempDir(), "trace.tdag")
	if err := WriteFile(path, b); err != nil {
		t.Fatalf("could not write trace: %v", err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatalf("could not open trace: %v", err)
	}
	defer f.Close()
	if f.Path() != path {
		t.Errorf("expected path %q, got %q", path, f.Path())
	}
	compareTraces(t, b, f)
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.tdag")); err == nil {
		t.Errorf("expected an error when opening a missing trace")
	}
}

func TestDecodeInvalidLabel(t *testing.T) {
	b := sampleTrace()
	for _, l := range []Label{0, Label(b.LabelCount()), Label(b.LabelCount() + 10)} {
		_, err := b.DecodeNode(l)
		var ile *InvalidLabelError
		if !errors.As(err, &ile) {
			t.Errorf("label %d: expected an InvalidLabelError, got %v", l, err)
			continue
		}
		if ile.Max != Label(b.LabelCount()-1) {
			t.Errorf("expected max label %d, got %d", b.LabelCount()-1, ile.Max)
		}
		if !IsInvalidLabel(err) {
			t.Errorf("IsInvalidLabel should recognize %v", err)
		}
	}
}

func TestParseMalformed(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write(sampleTrace()); err != nil {
		t.Fatal(err)
	}
	good := buf.Bytes()

	if _, err := Parse([]byte("NOPE, not a trace file at all")); !errors.Is(err, ErrBadMagic) {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
	if _, err := Parse(good[:10]); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated for a short header, got %v", err)
	}
	if _, err := Parse(good[:len(good)-3]); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated for missing section bytes, got %v", err)
	}

	badVersion := bytes.Clone(good)
	binary.LittleEndian.PutUint16(badVersion[4:], Version+1)
	if _, err := Parse(badVersion); err == nil {
		t.Errorf("expected an error for an unsupported version")
	}

	// entry size of the first section (fd headers)
	badEntry := bytes.Clone(good)
	binary.LittleEndian.PutUint32(badEntry[fileHeaderSize+4:], fdHeaderSize+1)
	var fe *FormatError
	if _, err := Parse(badEntry); !errors.As(err, &fe) {
		t.Errorf("expected a FormatError for a bad entry size, got %v", err)
	}

	// no section at all
	empty := bytes.Clone(good[:fileHeaderSize])
	binary.LittleEndian.PutUint16(empty[6:], 0)
	if _, err := Parse(empty); !errors.As(err, &fe) {
		t.Errorf("expected a FormatError for missing sections, got %v", err)
	}
}

func TestFDHeader(t *testing.T) {
	h := FDHeader{Name: "a", PreallocBegin: 5, PreallocEnd: 8}
	if h.Len() != 3 {
		t.Errorf("expected length 3, got %d", h.Len())
	}
	if !h.Contains(5) || !h.Contains(7) || h.Contains(8) || h.Contains(4) {
		t.Errorf("Contains should implement the half-open range [5, 8)")
	}
	if (FDHeader{PreallocBegin: 8, PreallocEnd: 5}).Len() != 0 {
		t.Errorf("inverted ranges have length 0")
	}
}

func TestVisitStops(t *testing.T) {
	b := sampleTrace()
	n := 0
	b.VisitSinks(func(Sink) bool {
		n++
		return true
	})
	if n != 1 {
		t.Errorf("VisitSinks should stop after the first sink, visited %d", n)
	}
}
