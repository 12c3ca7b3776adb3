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

// Package datapar provides fixed-size data-parallel vectors of any length.
//
// A Vec[T] of N lanes is a composite of native registers of whatever tiers
// the registry offers: 12 int32 lanes on an AVX2 machine are one 8-lane
// AVX2 register followed by one 4-lane SSE2 register. The decomposition
// (the Shape) is chosen once per (registry, T, N) by a greedy widest-first
// selection that falls back to the scalar tier, and every operation is
// applied chunk by chunk through the capability of each chunk's tier.
//
// Vectors are values: operations return new vectors and never modify their
// operands. Set and the masked assignments of Where modify only the
// variable they are called on.
package datapar

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ajroetker/go-datapar/hwy"
)

// Vec is a composite vector of N lanes of T.
type Vec[T hwy.Lanes] struct {
	layout *Layout[T]
	chunks []hwy.Vec[T]
}

func (v Vec[T]) valid() {
	if v.layout == nil {
		panicPrecondition("use of zero Vec")
	}
}

// mustMatch panics unless o has the same shape as v.
func (v Vec[T]) mustMatch(o Vec[T]) {
	v.valid()
	o.valid()
	if v.layout != o.layout && !v.layout.shape.Equal(o.layout.shape) {
		panicPrecondition("shape mismatch: %v vs %v", v.layout.shape, o.layout.shape)
	}
}

// Len returns the logical lane count N.
func (v Vec[T]) Len() int {
	v.valid()
	return v.layout.shape.N
}

// Shape returns the chunk decomposition of v.
func (v Vec[T]) Shape() *Shape {
	v.valid()
	return v.layout.shape
}

// Layout returns the layout v was built from.
func (v Vec[T]) Layout() *Layout[T] {
	return v.layout
}

// NumChunks returns the number of native registers in v.
func (v Vec[T]) NumChunks() int {
	return len(v.chunks)
}

// Chunk returns the native register i. It is meant for diagnostics.
func (v Vec[T]) Chunk(i int) hwy.Vec[T] {
	return v.chunks[i]
}

// Store writes the N lanes of v to dst. It panics if dst is shorter than N.
// Alignment hints follow the rules of Layout.Load.
func (v Vec[T]) Store(dst []T, a hwy.Alignment) {
	v.valid()
	l := v.layout
	l.checkLen("Store", len(dst))
	hints := l.hints(dst, a)
	for i, d := range l.shape.Chunks {
		l.caps[i].Store(v.chunks[i], dst[d.Offset:d.Offset+d.Width], hints[i])
	}
}

// Slice returns the lanes of v as a new slice.
func (v Vec[T]) Slice() []T {
	out := make([]T, v.Len())
	v.Store(out, hwy.Unaligned)
	return out
}

// Get returns lane i. It panics if i is outside [0, N).
func (v Vec[T]) Get(i int) T {
	v.valid()
	c := v.layout.shape.ChunkOf(i)
	return v.layout.caps[c].Get(v.chunks[c], i-v.layout.shape.Chunks[c].Offset)
}

// Set replaces lane i with x. Other copies of v are not affected.
// It panics if i is outside [0, N).
func (v *Vec[T]) Set(i int, x T) {
	v.valid()
	c := v.layout.shape.ChunkOf(i)
	chunks := slices.Clone(v.chunks)
	chunks[c] = v.layout.caps[c].Set(chunks[c], i-v.layout.shape.Chunks[c].Offset, x)
	v.chunks = chunks
}

// MaskedLoad returns merge with the lanes selected by k replaced by the
// corresponding elements of src. Elements of src at unselected lanes are
// never read, so src only needs to reach the last selected lane.
func MaskedLoad[T hwy.Lanes](merge Vec[T], k Mask, src []T) Vec[T] {
	merge.valid()
	l := merge.layout
	k.mustLen(l.shape.N)
	if last := k.LastSet(); last >= len(src) {
		panicPrecondition("MaskedLoad: lane %d selected but slice has length %d", last, len(src))
	}
	out := Vec[T]{layout: l, chunks: slices.Clone(merge.chunks)}
	for i, d := range l.shape.Chunks {
		sub := sliceMask[T](k, d)
		if !sub.AnyTrue() {
			continue
		}
		out.chunks[i] = l.caps[i].MaskedLoad(merge.chunks[i], sub, src[d.Offset:])
	}
	return out
}

// MaskedStore writes the lanes of v selected by k to dst; other elements
// of dst are left untouched. dst only needs to reach the last selected lane.
func (v Vec[T]) MaskedStore(k Mask, dst []T) {
	v.valid()
	l := v.layout
	k.mustLen(l.shape.N)
	if last := k.LastSet(); last >= len(dst) {
		panicPrecondition("MaskedStore: lane %d selected but slice has length %d", last, len(dst))
	}
	for i, d := range l.shape.Chunks {
		sub := sliceMask[T](k, d)
		if !sub.AnyTrue() {
			continue
		}
		l.caps[i].MaskedStore(v.chunks[i], sub, dst[d.Offset:])
	}
}

func (v Vec[T]) String() string {
	if v.layout == nil {
		return "Vec{}"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range v.chunks {
		if i > 0 {
			b.WriteString(" |")
		}
		for j, x := range c.Data() {
			if i > 0 || j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, x)
		}
	}
	b.WriteByte(']')
	return b.String()
}
