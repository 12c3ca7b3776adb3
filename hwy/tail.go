// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hwy

// TailMask creates a mask of the given lane count with the first 'count'
// lanes active. This is useful for handling the tail (remainder) of an
// array when the size is not a multiple of the vector width.
//
// Example:
//
//	c := hwy.NewCapability[float32](hwy.TierAVX2)
//	remaining := len(data) % c.Width()
//	if remaining > 0 {
//	    mask := hwy.TailMask[float32](remaining, c.Width())
//	    v := c.MaskedLoad(c.Broadcast(0), mask, data[len(data)-remaining:])
//	    // ... process tail
//	    c.MaskedStore(result, mask, output[len(output)-remaining:])
//	}
func TailMask[T Lanes](count, lanes int) Mask[T] {
	if count < 0 {
		count = 0
	}
	if count > lanes {
		count = lanes
	}

	bits := make([]bool, lanes)
	for i := 0; i < count; i++ {
		bits[i] = true
	}
	return Mask[T]{bits: bits}
}

// ProcessWithTail is a helper for processing arrays in blocks of 'lanes'
// elements that handles both full blocks and the tail (remainder).
//
// It calls:
//   - fullFn(offset) for each full block (offset is the starting index)
//   - tailFn(offset, count) once for the tail if size is not a multiple of lanes
func ProcessWithTail(size, lanes int, fullFn func(offset int), tailFn func(offset, count int)) {
	if lanes <= 0 {
		return
	}

	// Process full blocks
	fullBlocks := size / lanes
	for i := range fullBlocks {
		fullFn(i * lanes)
	}

	// Process tail if any
	remaining := size % lanes
	if remaining > 0 {
		tailFn(fullBlocks*lanes, remaining)
	}
}

// Blocks returns the number of blocks of 'lanes' elements needed to
// cover size elements, counting a partial tail block.
func Blocks(size, lanes int) int {
	if lanes <= 0 {
		return 0
	}
	return (size + lanes - 1) / lanes
}

// AlignedSize rounds up size to the next multiple of lanes.
// This is useful for allocating buffers that will be processed in whole blocks.
func AlignedSize(size, lanes int) int {
	if lanes == 0 {
		return size
	}
	return Blocks(size, lanes) * lanes
}
