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
// Package funcutil has small generic helpers over slices and maps.
package funcutil

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Map applies f to every element of a, in order
func Map[T any, S any](a []T, f func(T) S) []S {
	if a == nil {
		return nil
	}
	b := make([]S, len(a))
	for i := range a {
		b[i] = f(a[i])
	}
	return b
}

// CountBy groups the elements of a by key and counts each group
func CountBy[T any, K comparable](a []T, key func(T) K) map[K]int {
	counts := map[K]int{}
	for i := range a {
		counts[key(a[i])]++
	}
	return counts
}

// SetToOrderedSlice returns the members of set (the keys mapped to true) in increasing order
func SetToOrderedSlice[T constraints.Ordered](set map[T]bool) []T {
	var members []T
	for _, x := range maps.Keys(set) {
		if set[x] {
			members = append(members, x)
		}
	}
	slices.Sort(members)
	return members
}
