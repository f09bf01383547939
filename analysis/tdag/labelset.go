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

import "math/bits"

// LabelSet is a set of labels. Labels of a trace are dense, so the set is a bitmap indexed by label.
// The zero value is an empty set.
type LabelSet struct {
	words []uint64
}

// NewLabelSet returns an empty set with room for labels 0..count-1
func NewLabelSet(count int) *LabelSet {
	return &LabelSet{words: make([]uint64, (count+63)/64)}
}

// Add adds l to the set and returns true if it was not already in the set
func (s *LabelSet) Add(l Label) bool {
	w, b := int(l/64), uint64(1)<<(l%64)
	if w >= len(s.words) {
		grown := make([]uint64, w+1)
		copy(grown, s.words)
		s.words = grown
	}
	if s.words[w]&b != 0 {
		return false
	}
	s.words[w] |= b
	return true
}

// Has returns true if l is in the set
func (s *LabelSet) Has(l Label) bool {
	w := int(l / 64)
	return w < len(s.words) && s.words[w]&(uint64(1)<<(l%64)) != 0
}

// Len returns the number of labels in the set
func (s *LabelSet) Len() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}
