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
package cli

import (
	"fmt"
	"strings"

	"golang.org/x/term"
)

// WriteErr prints the formatted message in red, followed by a new line
func WriteErr(tt *term.Terminal, format string, a ...any) {
	writeLine(tt, tt.Escape.Red, fmt.Sprintf(format, a...))
}

// WriteSuccess prints the formatted message in green, followed by a new line
func WriteSuccess(tt *term.Terminal, format string, a ...any) {
	writeLine(tt, tt.Escape.Green, fmt.Sprintf(format, a...))
}

func writeFmt(tt *term.Terminal, format string, a ...any) {
	if len(a) == 0 {
		tt.Write([]byte(format))
		return
	}
	fmt.Fprintf(tt, format, a...)
}

func writeLine(tt *term.Terminal, escape []byte, msg string) {
	var b strings.Builder
	b.Write(escape)
	b.WriteString(msg)
	b.Write(tt.Escape.Reset)
	b.WriteByte('\n')
	tt.Write([]byte(b.String()))
}

// writeColumns prints the cells left to right in as many aligned columns as fit in width. Every line starts with
// indent.
func writeColumns(tt *term.Terminal, cells []string, indent string, width int) {
	cellWidth := 0
	for _, c := range cells {
		if len(c) > cellWidth {
			cellWidth = len(c)
		}
	}
	cellWidth += 2
	perLine := (width - len(indent)) / cellWidth
	if perLine < 1 {
		perLine = 1
	}
	for start := 0; start < len(cells); start += perLine {
		end := start + perLine
		if end > len(cells) {
			end = len(cells)
		}
		var line strings.Builder
		line.WriteString(indent)
		for _, c := range cells[start:end] {
			line.WriteString(c)
			line.WriteString(strings.Repeat(" ", cellWidth-len(c)))
		}
		writeFmt(tt, "%s\n", strings.TrimRight(line.String(), " "))
	}
}
