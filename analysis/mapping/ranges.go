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

package mapping

// Range is a half-open range [Begin, End) of indices
type Range struct {
	Begin uint64
	End   uint64
}

// MarkerToRanges returns the maximal runs of zeros in the marker, as half-open ranges in increasing order.
// Any non-zero value is a mark.
func MarkerToRanges(marker []byte) []Range {
	return markerToRanges(marker, uint64(len(marker)))
}

// LegacyMarkerToRanges is MarkerToRanges, except that a run of zeros reaching the end of the marker is closed at
// len(marker)-1 instead of len(marker). This is how older tools reported cavities at the end of a file.
func LegacyMarkerToRanges(marker []byte) []Range {
	if len(marker) == 0 {
		return nil
	}
	return markerToRanges(marker, uint64(len(marker)-1))
}

func markerToRanges(marker []byte, trailingEnd uint64) []Range {
	var ranges []Range
	start, inRun := uint64(0), false
	for i, v := range marker {
		if v == 0 {
			if !inRun {
				start, inRun = uint64(i), true
			}
		} else if inRun {
			ranges = append(ranges, Range{Begin: start, End: uint64(i)})
			inRun = false
		}
	}
	if inRun {
		ranges = append(ranges, Range{Begin: start, End: trailingEnd})
	}
	return ranges
}
