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

// Package hwy provides native-width vectors and the per-tier kernels that
// operate on them.
//
// A native vector has exactly the lane count of one register of a given
// instruction-set tier (8 int32 lanes for AVX2, 4 for SSE2 and NEON, 1 for
// the scalar tier). Package datapar composes several native vectors into
// one logical vector of arbitrary length; this package only knows about a
// single register at a time.
//
// Kernels are reached through a Capability, one per (tier, element type):
//
//	c := hwy.NewCapability[float32](hwy.TierAVX2)
//	a := c.Load(data, hwy.Unaligned)
//	b := c.Broadcast(2)
//	c.Store(c.Binary(hwy.OpMul, a, b), out, hwy.Unaligned)
package hwy

import "unsafe"

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts is a constraint for signed integer types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts is a constraint for unsigned integer types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers is a constraint for all integer types.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes is a constraint for all types that can be stored in SIMD lanes.
type Lanes interface {
	Floats | Integers
}

// Vec is the value of one native register: a fixed number of lanes of T.
//
// Vec values are never mutated after construction. Every kernel returns a
// fresh Vec, so copies can be shared freely.
type Vec[T Lanes] struct {
	data []T
}

// NumLanes returns the number of lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return len(v.data)
}

// Data returns a copy of the vector lanes.
// This is primarily for testing and should not be used in performance-critical code.
func (v Vec[T]) Data() []T {
	out := make([]T, len(v.data))
	copy(out, v.data)
	return out
}

// Store writes the vector's data to a slice.
// This is the method form of the hwy.Store function.
func (v Vec[T]) Store(dst []T) {
	Store(v, dst)
}

// Mask is the native mask of one register: one boolean per lane.
//
// It is produced by comparisons and consumed by Blend, MaskedLoad and
// MaskedStore on a Capability of the same width.
type Mask[T Lanes] struct {
	// bits[i] is set if lane i is active.
	bits []bool
}

// MaskFromBools builds a native mask from one boolean per lane.
// The slice is copied.
func MaskFromBools[T Lanes](bits []bool) Mask[T] {
	b := make([]bool, len(bits))
	copy(b, bits)
	return Mask[T]{bits: b}
}

// NumLanes returns the number of lanes in this mask.
func (m Mask[T]) NumLanes() int {
	return len(m.bits)
}

// AllTrue returns true if all lanes in the mask are active.
func (m Mask[T]) AllTrue() bool {
	for _, bit := range m.bits {
		if !bit {
			return false
		}
	}
	return true
}

// AnyTrue returns true if at least one lane in the mask is active.
func (m Mask[T]) AnyTrue() bool {
	for _, bit := range m.bits {
		if bit {
			return true
		}
	}
	return false
}

// CountTrue returns the number of active lanes in the mask.
func (m Mask[T]) CountTrue() int {
	count := 0
	for _, bit := range m.bits {
		if bit {
			count++
		}
	}
	return count
}

// GetBit returns whether lane i is active.
func (m Mask[T]) GetBit(i int) bool {
	if i < 0 || i >= len(m.bits) {
		return false
	}
	return m.bits[i]
}

// SizeOf returns the size in bytes of one lane of T.
func SizeOf[T Lanes]() int {
	var dummy T
	return int(unsafe.Sizeof(dummy))
}

// IsFloat reports whether T is a floating-point lane type.
func IsFloat[T Lanes]() bool {
	var x T = 1
	x /= 2
	return x != 0
}

// IsSigned reports whether T can hold negative values.
// Floating-point types are signed.
func IsSigned[T Lanes]() bool {
	var x T
	x--
	return x < 0
}
