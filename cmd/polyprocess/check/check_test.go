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

package check

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/polytracker/polyprocess/analysis/tdag"
	"github.com/polytracker/polyprocess/internal/formatutil"
)

func init() {
	formatutil.SetColors(false)
}

func writeTrace(t *testing.T, b *tdag.Builder) string {
	path := filepath.Join(t.TempDir(), "trace.tdag")
	if err := tdag.WriteFile(path, b); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckConsistentTrace(t *testing.T) {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 3)
	out := b.AddOutput("out")
	b.Write(out, 0, b.Range(b.SourceLabel(in, 0), b.SourceLabel(in, 2)))
	flags, err := NewFlags([]string{writeTrace(t, b)})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := run(flags, &buf); err != nil {
		t.Fatalf("expected a consistent trace, got %v\n%s", err, buf.String())
	}
	if buf.String() != "trace is consistent\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestCheckInconsistentTrace(t *testing.T) {
	b := tdag.NewBuilder()
	b.AddFile("in", 2)
	out := b.AddOutput("out")
	// labels 3 and 4 refer to each other
	b.AddNode(&tdag.UnionNode{Left: 4, Right: 1})
	b.AddNode(&tdag.UnionNode{Left: 3, Right: 2})
	b.AddSink(out, 0, 42)

	if diff := cmp.Diff([][]int64{{3, 4, 3}}, Cycles(b, 0)); diff != "" {
		t.Errorf("cycles (-want +got):\n%s", diff)
	}

	flags, err := NewFlags([]string{"-max-errors", "0", writeTrace(t, b)})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := run(flags, &buf); err == nil {
		t.Fatalf("expected an inconsistent trace")
	}
	if !strings.Contains(buf.String(), "cycle: 3 -> 4 -> 3\n") {
		t.Errorf("expected the cycle in the output, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "error: ") {
		t.Errorf("expected errors in the output, got:\n%s", buf.String())
	}
}

func TestCyclesSelfReference(t *testing.T) {
	b := tdag.NewBuilder()
	b.AddFile("in", 1)
	b.AddNode(&tdag.RangeNode{First: 1, Last: 2})
	if diff := cmp.Diff([][]int64{{2, 2}}, Cycles(b, 0)); diff != "" {
		t.Errorf("cycles (-want +got):\n%s", diff)
	}
}
