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

import "testing"

func TestEscapeBytes(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{nil, ""},
		{[]byte("hello, world~"), "hello, world~"},
		{[]byte(`a"b\c`), `a\"b\\c`},
		{[]byte{0, '\n', '\t', '\r'}, `\0\n\t\r`},
		{[]byte{1, 7, 8}, `\1\7\8`},
		// tab has its own escape, even though it is below 10
		{[]byte{9}, `\t`},
		{[]byte{11, 0x1f, 0x7f, 0xff}, `\xb\x1f\x7f\xff`},
	}
	for _, test := range tests {
		if got := EscapeBytes(test.in); got != test.want {
			t.Errorf("EscapeBytes(%v) = %q, want %q", test.in, got, test.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("a\x1b[1mb\n"); got != `a\x1b[1mb\n` {
		t.Errorf("unexpected sanitized string %q", got)
	}
}

func TestColorsForced(t *testing.T) {
	defer colorMode.Store(0)
	SetColors(false)
	if got := Red("x"); got != "x" {
		t.Errorf("expected no escape sequence, got %q", got)
	}
	SetColors(true)
	if got := Red("x"); got != "\033[1;31mx\033[0m" {
		t.Errorf("expected a red escape sequence, got %q", got)
	}
}
