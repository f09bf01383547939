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

package formatutil

import (
	"strconv"
	"strings"
)

// EscapeBytes renders b as printable ASCII that can be placed between double quotes.
// Backslashes and double quotes are escaped, printable characters are kept, NUL, newline, tab and carriage return
// use their C escapes, other bytes below 10 are written as a backslash followed by their decimal value, and all the
// other bytes as \x followed by their hexadecimal value.
//
// The rendering of a single byte never depends on its neighbours, so the length of the escaped prefix of a slice can
// be used to align markers under the escaped text.
func EscapeBytes(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteString(EscapeByte(c))
	}
	return sb.String()
}

// EscapeByte renders one byte the way EscapeBytes does
func EscapeByte(c byte) string {
	switch {
	case c == '\\':
		return `\\`
	case c == '"':
		return `\"`
	case ' ' <= c && c <= '~':
		return string(rune(c))
	case c == 0:
		return `\0`
	case c == '\n':
		return `\n`
	case c == '\t':
		return `\t`
	case c == '\r':
		return `\r`
	case c < 10:
		return `\` + strconv.Itoa(int(c))
	default:
		return `\x` + strconv.FormatUint(uint64(c), 16)
	}
}
