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
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when a file does not start with the trace magic bytes
	ErrBadMagic = errors.New("not a taint trace file")

	// ErrTruncated is returned when a file is shorter than its headers claim
	ErrTruncated = errors.New("truncated taint trace file")
)

// InvalidLabelError is returned when decoding a label that is outside the labels allocated in the trace
type InvalidLabelError struct {
	Label Label
	// Max is the largest valid label of the trace
	Max Label
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("invalid label %d (trace labels are 1..%d)", e.Label, e.Max)
}

// FormatError describes a malformed section of a trace file
type FormatError struct {
	Section string
	Reason  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed %s section: %s", e.Section, e.Reason)
}

// IsInvalidLabel returns true if err is, or wraps, an InvalidLabelError
func IsInvalidLabel(err error) bool {
	var e *InvalidLabelError
	return errors.As(err, &e)
}
