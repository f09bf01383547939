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

// Package report writes the results of the trace analyses in a human-readable form.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/polytracker/polyprocess/analysis/config"
	"github.com/polytracker/polyprocess/analysis/mapping"
	"github.com/polytracker/polyprocess/internal/formatutil"
	"github.com/polytracker/polyprocess/internal/funcutil"
)

// WriteCavities writes one line per cavity: the path of the file, a tab and the range of the cavity
func WriteCavities(w io.Writer, cavities []mapping.Cavity) error {
	bw := bufio.NewWriter(w)
	for _, c := range cavities {
		fmt.Fprintln(bw, c.String())
	}
	return bw.Flush()
}

// WriteCavitiesWithContext writes the cavities like WriteCavities, each followed by the escaped contents of the
// cavity with contextBytes bytes of context on both sides, and a line of carets under the contents of the cavity.
//
// Each file is read once with readFile. Cavities of a file that cannot be read are written without contents, and a
// warning is logged.
func WriteCavitiesWithContext(w io.Writer, cavities []mapping.Cavity, contextBytes int,
	readFile func(string) ([]byte, error), logger *config.LogGroup) error {
	if contextBytes < 0 {
		contextBytes = 0
	}
	bw := bufio.NewWriter(w)
	contents := map[string][]byte{}
	unreadable := map[string]bool{}

	for _, c := range cavities {
		fmt.Fprintln(bw, c.String())
		if unreadable[c.Path] {
			continue
		}
		content, ok := contents[c.Path]
		if !ok {
			b, err := readFile(c.Path)
			if err != nil {
				logger.Warnf("could not read %s, its cavities are printed without contents: %v", c.Path, err)
				unreadable[c.Path] = true
				continue
			}
			contents[c.Path] = b
			content = b
		}
		before, cavity, after := cavityContext(content, c, uint64(contextBytes))
		escapedBefore := formatutil.EscapeBytes(before)
		escapedCavity := formatutil.EscapeBytes(cavity)
		fmt.Fprintf(bw, "\t\"%s%s%s\"\n", escapedBefore, escapedCavity, formatutil.EscapeBytes(after))
		fmt.Fprintf(bw, "\t %s%s\n", strings.Repeat(" ", len(escapedBefore)), strings.Repeat("^", len(escapedCavity)))
	}
	return bw.Flush()
}

// cavityContext splits the bytes of content around the cavity: the context before, the cavity and the context after.
// Ranges outside of content are clamped.
func cavityContext(content []byte, c mapping.Cavity, n uint64) ([]byte, []byte, []byte) {
	size := uint64(len(content))
	clamp := func(x uint64) uint64 {
		if x > size {
			return size
		}
		return x
	}
	begin := clamp(c.Begin)
	end := clamp(c.End)
	if end < begin {
		end = begin
	}
	start := uint64(0)
	if begin > n {
		start = begin - n
	}
	return content[start:begin], content[begin:end], content[end:clamp(end+n)]
}

// WriteMapping writes one line per input byte of the mapping, with the output bytes it flows to.
// Lines are sorted by input file and offset.
func WriteMapping(w io.Writer, m mapping.Mapping) error {
	bw := bufio.NewWriter(w)
	for _, input := range m.Inputs() {
		outputs := funcutil.Map(m.OutputsOf(input), mapping.ByteOffset.String)
		fmt.Fprintf(bw, "%s -> %s\n", input, strings.Join(outputs, ", "))
	}
	return bw.Flush()
}
