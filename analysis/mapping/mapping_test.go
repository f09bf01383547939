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
	"io"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/polytracker/polyprocess/analysis/config"
	"github.com/polytracker/polyprocess/analysis/tdag"
)

// countingTrace counts the nodes decoded from the underlying trace
type countingTrace struct {
	tdag.Trace
	decodes atomic.Int64
}

func (c *countingTrace) DecodeNode(label tdag.Label) (tdag.Node, error) {
	c.decodes.Add(1)
	return c.Trace.DecodeNode(label)
}

func quietLogger(cfg *config.Config) *config.LogGroup {
	logger := config.NewLogGroup(cfg)
	logger.SetAllOutput(io.Discard)
	return logger
}

func newTestMapping(t tdag.Trace, cfg *config.Config) *InputOutputMapping {
	if cfg == nil {
		cfg = config.NewDefault()
	}
	return New(t, cfg, quietLogger(cfg))
}

func TestMappingScenario(t *testing.T) {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 10)
	out := b.AddOutput("out")
	b.AddOutputTaint(out, 7, b.Union(b.SourceLabel(in, 3), b.SourceLabel(in, 9)))

	m := newTestMapping(b, nil)
	got, err := m.Mapping()
	if err != nil {
		t.Fatalf("could not compute mapping: %v", err)
	}
	inFile := tdag.Input{UID: in, Path: "in"}
	out7 := ByteOffset{Source: tdag.Input{UID: out, Path: "out"}, Offset: 7}
	want := Mapping{
		{Source: inFile, Offset: 3}: {out7: true},
		{Source: inFile, Offset: 9}: {out7: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mapping (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ByteOffset{{inFile, 3}, {inFile, 9}}, got.Inputs()); diff != "" {
		t.Errorf("sorted inputs (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ByteOffset{out7}, got.OutputsOf(ByteOffset{inFile, 3})); diff != "" {
		t.Errorf("outputs of in[3] (-want +got):\n%s", diff)
	}
}

func TestMappingSeveralOutputs(t *testing.T) {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 4)
	out1 := b.AddOutput("out1")
	out2 := b.AddOutput("out2")
	r := b.Range(b.SourceLabel(in, 1), b.SourceLabel(in, 2))
	b.Write(out1, 0, b.SourceLabel(in, 0), r)
	b.Write(out2, 5, b.SourceLabel(in, 2))

	got, err := newTestMapping(b, nil).Mapping()
	if err != nil {
		t.Fatal(err)
	}
	inFile := tdag.Input{UID: in, Path: "in"}
	o1 := tdag.Input{UID: out1, Path: "out1"}
	o2 := tdag.Input{UID: out2, Path: "out2"}
	want := Mapping{
		{inFile, 0}: {{o1, 0}: true},
		{inFile, 1}: {{o1, 1}: true},
		{inFile, 2}: {{o1, 1}: true, {o2, 5}: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mapping (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ByteOffset{{o1, 1}, {o2, 5}}, got.OutputsOf(ByteOffset{inFile, 2})); diff != "" {
		t.Errorf("outputs of in[2] (-want +got):\n%s", diff)
	}
}

func TestMappingComputedOnce(t *testing.T) {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 3)
	out := b.AddOutput("out")
	b.Write(out, 0, b.Union(b.SourceLabel(in, 0), b.SourceLabel(in, 2)), b.SourceLabel(in, 1))

	ct := &countingTrace{Trace: b}
	m := newTestMapping(ct, nil)
	first, err := m.Mapping()
	if err != nil {
		t.Fatal(err)
	}
	decodes := ct.decodes.Load()
	if decodes == 0 {
		t.Fatalf("computing the mapping should decode nodes")
	}
	second, err := m.Mapping()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second call returned a different mapping (-first +second):\n%s", diff)
	}
	if ct.decodes.Load() != decodes {
		t.Errorf("second call decoded %d more nodes", ct.decodes.Load()-decodes)
	}
}

func TestMappingUnknownInput(t *testing.T) {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 2)
	b.AddOutputTaint(9, 0, b.SourceLabel(in, 0))
	m := newTestMapping(b, nil)
	if _, err := m.Mapping(); !errors.Is(err, ErrUnknownInput) {
		t.Errorf("expected ErrUnknownInput for an output that does not exist, got %v", err)
	}
	// the error is cached too
	if _, err := m.Mapping(); !errors.Is(err, ErrUnknownInput) {
		t.Errorf("expected the same error on the second call, got %v", err)
	}

	b = tdag.NewBuilder()
	b.AddFile("in", 2)
	out := b.AddOutput("out")
	b.AddOutputTaint(out, 0, b.Source(7, 0))
	if _, err := newTestMapping(b, nil).Mapping(); !errors.Is(err, ErrUnknownInput) {
		t.Errorf("expected ErrUnknownInput for a source without file header, got %v", err)
	}
}

func TestMappingInvalidLabel(t *testing.T) {
	b := tdag.NewBuilder()
	b.AddFile("in", 2)
	out := b.AddOutput("out")
	b.AddOutputTaint(out, 0, 50)
	if _, err := newTestMapping(b, nil).Mapping(); !tdag.IsInvalidLabel(err) {
		t.Errorf("expected an invalid label error, got %v", err)
	}
}

func TestOutputTaintSources(t *testing.T) {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 5)
	u := b.Union(b.SourceLabel(in, 4), b.Range(b.SourceLabel(in, 0), b.SourceLabel(in, 1)))
	b.MarkControlFlow(u)
	m := newTestMapping(b, nil)
	got, err := m.OutputTaintSources(tdag.OutputTaint{InputID: 1, Offset: 0, Label: u})
	if err != nil {
		t.Fatal(err)
	}
	inFile := tdag.Input{UID: in, Path: "in"}
	// control flow does not matter for the mapping
	if diff := cmp.Diff([]ByteOffset{{inFile, 0}, {inFile, 1}, {inFile, 4}}, got); diff != "" {
		t.Errorf("sources (-want +got):\n%s", diff)
	}
}

func TestByteOffset(t *testing.T) {
	offsets := []ByteOffset{
		{tdag.Input{UID: 1, Path: "b"}, 0},
		{tdag.Input{UID: 0, Path: "a"}, 9},
		{tdag.Input{UID: 0, Path: "a"}, 2},
	}
	SortByteOffsets(offsets)
	want := []ByteOffset{
		{tdag.Input{UID: 0, Path: "a"}, 2},
		{tdag.Input{UID: 0, Path: "a"}, 9},
		{tdag.Input{UID: 1, Path: "b"}, 0},
	}
	if diff := cmp.Diff(want, offsets); diff != "" {
		t.Errorf("sorted offsets (-want +got):\n%s", diff)
	}
	if s := offsets[1].String(); s != "a[9]" {
		t.Errorf("expected a[9], got %q", s)
	}
}
