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

package tools

import "regexp"

// Captures errors happening before any analysis starts (trace could not be opened)
var regexCouldNotOpen = regexp.MustCompile("could not open trace")

// Captures the kind of error that happen when you put a flag after the trace file
var misplacedFlag = regexp.MustCompile(`expected exactly one trace file, got \d+ arguments \[.* -\w+`)

// Captures files that are not traces
var notATrace = regexp.MustCompile("not a taint trace file|unsupported trace version")

// Captures traces that are incomplete or inconsistent
var truncatedTrace = regexp.MustCompile("truncated taint trace file")
var inconsistentTrace = regexp.MustCompile(`invalid label \d+|unknown input|malformed \w+ section`)

// HintForErrorMessage looks for specific error message and returns some other message that might help the user
// resolve the problem.
func HintForErrorMessage(errMsg string) string {
	if misplacedFlag.MatchString(errMsg) {
		return "all command line flags should be before the path to the trace file"
	}
	if notATrace.MatchString(errMsg) {
		return "make sure the path leads to a trace file produced by the tracer (usually polytracker.tdag)"
	}
	if truncatedTrace.MatchString(errMsg) {
		return "the trace is incomplete; the traced program may have been killed before the trace was written"
	}
	if inconsistentTrace.MatchString(errMsg) {
		return "the trace is inconsistent; run `polyprocess check` on it to list the problems"
	}
	if regexCouldNotOpen.MatchString(errMsg) {
		return "make sure the trace file exists and is readable"
	}
	return ""
}
