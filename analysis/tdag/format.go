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

// Layout of a trace file. All integers are little endian.
//
//	header   : magic "TDAG" | version u16 | section count u16 | reserved u64
//	sections : section count x { tag u32 | entry size u32 | offset u64 | size u64 }
//
// followed by the sections' contents at the offsets given in the section table.
const (
	// Magic is the first four bytes of every trace file
	Magic = "TDAG"
	// Version is the version of the file format written by Writer
	Version uint16 = 1

	fileHeaderSize   = 16
	sectionEntrySize = 24
)

// SectionTag identifies the content of a section
type SectionTag uint32

const (
	// SectionFDHeaders contains one fdHeaderSize entry per file opened by the traced program
	SectionFDHeaders SectionTag = 1
	// SectionStrings contains the file names referenced by the fd headers
	SectionStrings SectionTag = 2
	// SectionLabels contains one encoded node per label; the entry at index 0 is unused
	SectionLabels SectionTag = 3
	// SectionSinks contains one sinkSize entry per tainted byte written to an output
	SectionSinks SectionTag = 4
	// SectionOutputTaints contains one outputTaintSize entry per output byte
	SectionOutputTaints SectionTag = 5
)

const (
	// name offset u32 | name length u32 | fd i32 | flags u32 | prealloc begin u32 | prealloc end u32
	fdHeaderSize = 24
	labelSize    = 8
	// offset u64 | label u32 | index u8 | padding
	sinkSize = 16
	// offset u64 | label u32 | input id u32
	outputTaintSize = 16
)

func (t SectionTag) String() string {
	switch t {
	case SectionFDHeaders:
		return "fd headers"
	case SectionStrings:
		return "strings"
	case SectionLabels:
		return "labels"
	case SectionSinks:
		return "sinks"
	case SectionOutputTaints:
		return "output taints"
	default:
		return "unknown"
	}
}

// entrySize returns the size of the entries of the section, or 0 for sections of raw bytes and unknown sections
func (t SectionTag) entrySize() uint32 {
	switch t {
	case SectionFDHeaders:
		return fdHeaderSize
	case SectionLabels:
		return labelSize
	case SectionSinks:
		return sinkSize
	case SectionOutputTaints:
		return outputTaintSize
	default:
		return 0
	}
}

type section struct {
	tag       SectionTag
	entrySize uint32
	offset    uint64
	size      uint64
}
