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

package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/polytracker/polyprocess/analysis/tdag"
)

func writeTrace(t *testing.T) string {
	b := tdag.NewBuilder()
	in := b.AddFile("in", 2)
	out := b.AddOutput("out")
	b.Write(out, 0, b.Union(b.SourceLabel(in, 0), b.SourceLabel(in, 1)))
	path := filepath.Join(t.TempDir(), "trace.tdag")
	if err := tdag.WriteFile(path, b); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderList(t *testing.T) {
	flags, err := NewFlags([]string{"-label", "3", "-list", writeTrace(t)})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := run(flags, &buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || lines[0] != "3\tunion(2, 1)" {
		t.Errorf("unexpected labels:\n%s", buf.String())
	}
}

func TestRenderDOTFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "label.dot")
	flags, err := NewFlags([]string{"-label", "3", "-out", out, writeTrace(t)})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := run(flags, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be printed when writing to a file, got %q", buf.String())
	}
	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, expected := range []string{"digraph label3", "l3 -> l2", "l3 -> l1", "in[0]"} {
		if !strings.Contains(string(content), expected) {
			t.Errorf("expected %q in dot output:\n%s", expected, content)
		}
	}
}

func TestRenderInvalidLabel(t *testing.T) {
	flags, err := NewFlags([]string{"-label", "30", writeTrace(t)})
	if err != nil {
		t.Fatal(err)
	}
	if err := run(flags, &bytes.Buffer{}); !tdag.IsInvalidLabel(err) {
		t.Errorf("expected an invalid label error, got %v", err)
	}
}

func TestRenderRequiresLabel(t *testing.T) {
	if _, err := NewFlags([]string{"trace.tdag"}); err == nil {
		t.Errorf("expected an error without -label")
	}
}
