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

package datapar

import (
	"strings"

	"github.com/ajroetker/go-datapar/hwy"
	"github.com/willf/bitset"
)

// Mask is a logical mask of N lanes, one bit per lane. Unlike native masks
// it does not depend on the element type, so a mask produced by comparing
// float64 vectors can select lanes of an int8 vector of the same length.
//
// Masks are values: the operations below return new masks, and Set only
// changes the variable it is called on.
type Mask struct {
	n    int
	bits *bitset.BitSet
}

// NewMask returns a mask of n lanes, all cleared.
func NewMask(n int) Mask {
	if n < 0 {
		panicPrecondition("negative mask length %d", n)
	}
	return Mask{n: n, bits: bitset.New(uint(n))}
}

// FullMask returns a mask of n lanes, all set.
func FullMask(n int) Mask {
	m := NewMask(n)
	for i := 0; i < n; i++ {
		m.bits.Set(uint(i))
	}
	return m
}

// MaskFromBools returns the mask whose lane i is bits[i].
func MaskFromBools(bits []bool) Mask {
	m := NewMask(len(bits))
	for i, b := range bits {
		m.bits.SetTo(uint(i), b)
	}
	return m
}

// MaskFromFunc returns the mask of n lanes whose lane i is fn(i).
func MaskFromFunc(n int, fn func(i int) bool) Mask {
	m := NewMask(n)
	for i := 0; i < n; i++ {
		m.bits.SetTo(uint(i), fn(i))
	}
	return m
}

// Len returns the number of lanes.
func (m Mask) Len() int {
	return m.n
}

func (m Mask) set() *bitset.BitSet {
	if m.bits == nil {
		return bitset.New(0)
	}
	return m.bits
}

func (m Mask) mustLen(n int) {
	if m.n != n {
		panicPrecondition("mask of %d lanes used with %d lanes", m.n, n)
	}
}

// Test reports whether lane i is set. It panics if i is outside [0, N).
func (m Mask) Test(i int) bool {
	if i < 0 || i >= m.n {
		panicPrecondition("mask lane %d out of range [0, %d)", i, m.n)
	}
	return m.bits.Test(uint(i))
}

// Set sets lane i to b. Other copies of m are not affected.
// It panics if i is outside [0, N).
func (m *Mask) Set(i int, b bool) {
	if i < 0 || i >= m.n {
		panicPrecondition("mask lane %d out of range [0, %d)", i, m.n)
	}
	bits := m.bits.Clone()
	bits.SetTo(uint(i), b)
	m.bits = bits
}

// And returns the lanes set in both m and o.
func (m Mask) And(o Mask) Mask {
	o.mustLen(m.n)
	return Mask{n: m.n, bits: m.set().Intersection(o.set())}
}

// Or returns the lanes set in m or o.
func (m Mask) Or(o Mask) Mask {
	o.mustLen(m.n)
	return Mask{n: m.n, bits: m.set().Union(o.set())}
}

// Xor returns the lanes set in exactly one of m and o.
func (m Mask) Xor(o Mask) Mask {
	o.mustLen(m.n)
	return Mask{n: m.n, bits: m.set().SymmetricDifference(o.set())}
}

// AndNot returns the lanes set in m but not in o.
func (m Mask) AndNot(o Mask) Mask {
	o.mustLen(m.n)
	return Mask{n: m.n, bits: m.set().Difference(o.set())}
}

// Not returns the complement of m.
func (m Mask) Not() Mask {
	out := NewMask(m.n)
	for i := 0; i < m.n; i++ {
		out.bits.SetTo(uint(i), !m.bits.Test(uint(i)))
	}
	return out
}

// Count returns the number of set lanes.
func (m Mask) Count() int {
	return int(m.set().Count())
}

// All reports whether every lane is set. It is true for an empty mask.
func (m Mask) All() bool {
	return m.Count() == m.n
}

// Any reports whether at least one lane is set.
func (m Mask) Any() bool {
	return m.Count() > 0
}

// None reports whether no lane is set.
func (m Mask) None() bool {
	return m.Count() == 0
}

// Some reports whether at least one lane is set and at least one is not.
func (m Mask) Some() bool {
	c := m.Count()
	return c > 0 && c < m.n
}

// FirstSet returns the lowest set lane, or -1 if there is none.
func (m Mask) FirstSet() int {
	if i, ok := m.set().NextSet(0); ok && int(i) < m.n {
		return int(i)
	}
	return -1
}

// LastSet returns the highest set lane, or -1 if there is none.
func (m Mask) LastSet() int {
	for i := m.n - 1; i >= 0; i-- {
		if m.bits.Test(uint(i)) {
			return i
		}
	}
	return -1
}

// Indices returns the set lanes in increasing order.
func (m Mask) Indices() []int {
	var out []int
	b := m.set()
	for i, ok := b.NextSet(0); ok && int(i) < m.n; i, ok = b.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// Bools returns one boolean per lane.
func (m Mask) Bools() []bool {
	out := make([]bool, m.n)
	for i := range out {
		out[i] = m.bits.Test(uint(i))
	}
	return out
}

// LoadMask returns the mask of the first n elements of src. It panics if
// src is shorter than n.
func LoadMask(src []bool, n int) Mask {
	if len(src) < n {
		panicPrecondition("LoadMask: slice of length %d is shorter than %d lanes", len(src), n)
	}
	return MaskFromBools(src[:n])
}

// Store writes lane i to dst[i]. It panics if dst is shorter than N.
func (m Mask) Store(dst []bool) {
	if len(dst) < m.n {
		panicPrecondition("mask Store: slice of length %d is shorter than %d lanes", len(dst), m.n)
	}
	for i := 0; i < m.n; i++ {
		dst[i] = m.bits.Test(uint(i))
	}
}

// MaskedLoad returns m with the lanes selected by k replaced by the
// corresponding elements of src. src only needs to reach the last
// selected lane.
func (m Mask) MaskedLoad(k Mask, src []bool) Mask {
	k.mustLen(m.n)
	if last := k.LastSet(); last >= len(src) {
		panicPrecondition("mask MaskedLoad: lane %d selected but slice has length %d", last, len(src))
	}
	bits := m.set().Clone()
	for _, i := range k.Indices() {
		bits.SetTo(uint(i), src[i])
	}
	return Mask{n: m.n, bits: bits}
}

// MaskedStore writes the lanes of m selected by k to dst; other elements
// of dst are left untouched.
func (m Mask) MaskedStore(k Mask, dst []bool) {
	k.mustLen(m.n)
	if last := k.LastSet(); last >= len(dst) {
		panicPrecondition("mask MaskedStore: lane %d selected but slice has length %d", last, len(dst))
	}
	for _, i := range k.Indices() {
		dst[i] = m.bits.Test(uint(i))
	}
}

// Equal reports whether m and o have the same length and lanes.
func (m Mask) Equal(o Mask) bool {
	if m.n != o.n {
		return false
	}
	for i := 0; i < m.n; i++ {
		if m.bits.Test(uint(i)) != o.bits.Test(uint(i)) {
			return false
		}
	}
	return true
}

func (m Mask) String() string {
	var b strings.Builder
	for i := 0; i < m.n; i++ {
		if m.bits.Test(uint(i)) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// sliceMask returns the native mask of chunk d: lanes [Offset, Offset+Width).
func sliceMask[T hwy.Lanes](m Mask, d ChunkDescriptor) hwy.Mask[T] {
	bits := make([]bool, d.Width)
	for j := range bits {
		bits[j] = m.bits.Test(uint(d.Offset + j))
	}
	return hwy.MaskFromBools[T](bits)
}

// maskFromChunks assembles the logical mask of s from one native mask per
// chunk: lane Offset+j of the result is lane j of chunk i.
func maskFromChunks[T hwy.Lanes](s *Shape, natives []hwy.Mask[T]) Mask {
	m := NewMask(s.N)
	for i, d := range s.Chunks {
		k := natives[i]
		for j := 0; j < d.Width; j++ {
			if k.GetBit(j) {
				m.bits.Set(uint(d.Offset + j))
			}
		}
	}
	return m
}
