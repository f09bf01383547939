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
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedTrace is a Trace that keeps the most recently decoded nodes in memory. It is safe for concurrent use if the
// underlying trace is.
type CachedTrace struct {
	Trace
	nodes *lru.Cache[Label, Node]
}

// NewCachedTrace returns a trace that decodes the nodes of t, remembering the last size nodes decoded
func NewCachedTrace(t Trace, size int) (*CachedTrace, error) {
	c, err := lru.New[Label, Node](size)
	if err != nil {
		return nil, fmt.Errorf("could not create decode cache: %w", err)
	}
	return &CachedTrace{Trace: t, nodes: c}, nil
}

// DecodeNode implements Trace
func (c *CachedTrace) DecodeNode(label Label) (Node, error) {
	if n, ok := c.nodes.Get(label); ok {
		return n, nil
	}
	n, err := c.Trace.DecodeNode(label)
	if err != nil {
		return nil, err
	}
	c.nodes.Add(label, n)
	return n, nil
}

// Len returns the number of nodes currently cached
func (c *CachedTrace) Len() int {
	return c.nodes.Len()
}
