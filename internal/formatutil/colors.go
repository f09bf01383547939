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
// Package formatutil manipulates string colors and renders raw bytes as printable text.
package formatutil

import (
	"fmt"
	"os"
	"sync/atomic"

	"golang.org/x/term"
)

// A Style wraps the text it formats in an ANSI SGR sequence when colors are enabled.
type Style func(...any) string

func sgr(code string) Style {
	return func(args ...any) string {
		text := fmt.Sprint(args...)
		if !colorsEnabled() {
			return text
		}
		return "\033[" + code + "m" + text + "\033[0m"
	}
}

var (
	Faint = sgr("2")
	Red   = sgr("1;31")
	Green = sgr("1;32")
)

// colorMode is 0 when colors follow whether stdout is a terminal, 1 when forced on and 2 when forced off
var colorMode atomic.Int32

// SetColors forces colors on or off, regardless of whether stdout is a terminal
func SetColors(enabled bool) {
	mode := int32(2)
	if enabled {
		mode = 1
	}
	colorMode.Store(mode)
}

func colorsEnabled() bool {
	if mode := colorMode.Load(); mode != 0 {
		return mode == 1
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Sanitize quotes s as a Go string literal without the surrounding quotes, so that escape sequences in s are printed
// instead of being interpreted by the terminal.
func Sanitize(s string) string {
	q := fmt.Sprintf("%q", s)
	return q[1 : len(q)-1]
}
