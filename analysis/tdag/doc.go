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

/*
Package tdag gives access to recorded taint traces.

A trace is a directed acyclic graph of taint nodes identified by labels, together with the list of files the traced
program opened and the tainted bytes it wrote. There are three kinds of nodes:

  - [SourceNode] is a byte of an input file. The labels of the bytes of a file are preallocated when the file is opened:
    the byte at offset i of a file with header h has label h.PreallocBegin+i.
  - [UnionNode] is the union of two labels, for example the result of an operation on two tainted values.
  - [RangeNode] stands for every label in an inclusive range, each of them being a node on its own.

Every node also records whether the value it labels was observed to affect the control flow of the program.

Traces are read with [Open], which memory-maps a trace file, or built in memory with a [Builder]. Both implement the
[Trace] interface, which is all the analyses need. A [Writer] writes any [Trace] to a file.

Nodes are encoded on 64 bits:

	bit 63      source flag
	bit 62      affects control flow flag
	source      bits 54-61: file header index, bits 0-53: offset
	otherwise   bits 31-61: v1, bits 0-30: v2; union(v1, v2) if v1 > v2, otherwise range(v1..v2)
*/
package tdag
