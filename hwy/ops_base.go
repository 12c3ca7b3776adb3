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

import (
	"fmt"
	"math"
	"unsafe"
)

// This file provides pure Go (scalar) implementations of the native kernels.
// Every tier's Capability routes to these bodies; a tier with real
// intrinsics would replace them behind the same Capability methods.
// Binary kernels require both operands to have the same lane count.

// Load creates a vector of n lanes from the first n elements of src.
func Load[T Lanes](src []T, n int) Vec[T] {
	if len(src) < n {
		panic(fmt.Sprintf("hwy: Load of %d lanes from slice of length %d", n, len(src)))
	}
	data := make([]T, n)
	copy(data, src[:n])
	return Vec[T]{data: data}
}

// Store writes a vector's data to a slice.
func Store[T Lanes](v Vec[T], dst []T) {
	n := min(len(dst), len(v.data))
	copy(dst[:n], v.data[:n])
}

// Set creates a vector of n lanes all set to the same value.
func Set[T Lanes](value T, n int) Vec[T] {
	data := make([]T, n)
	for i := range data {
		data[i] = value
	}
	return Vec[T]{data: data}
}

// Zero creates a vector of n lanes set to zero.
func Zero[T Lanes](n int) Vec[T] {
	return Vec[T]{data: make([]T, n)}
}

// Iota creates a vector of n lanes with values [start, start+1, ...].
func Iota[T Lanes](start T, n int) Vec[T] {
	data := make([]T, n)
	for i := range data {
		data[i] = start + T(i)
	}
	return Vec[T]{data: data}
}

// GetLane returns lane i.
func GetLane[T Lanes](v Vec[T], i int) T {
	return v.data[i]
}

// WithLane returns a copy of v with lane i replaced by x.
func WithLane[T Lanes](v Vec[T], i int, x T) Vec[T] {
	data := make([]T, len(v.data))
	copy(data, v.data)
	data[i] = x
	return Vec[T]{data: data}
}

func checkLanes[T Lanes](a, b Vec[T]) int {
	if len(a.data) != len(b.data) {
		panic(fmt.Sprintf("hwy: lane count mismatch %d != %d", len(a.data), len(b.data)))
	}
	return len(a.data)
}

func binary[T Lanes](a, b Vec[T], fn func(x, y T) T) Vec[T] {
	n := checkLanes(a, b)
	result := make([]T, n)
	for i := range n {
		result[i] = fn(a.data[i], b.data[i])
	}
	return Vec[T]{data: result}
}

func unary[T Lanes](v Vec[T], fn func(x T) T) Vec[T] {
	result := make([]T, len(v.data))
	for i, x := range v.data {
		result[i] = fn(x)
	}
	return Vec[T]{data: result}
}

// Add performs element-wise addition.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return x + y })
}

// Sub performs element-wise subtraction.
func Sub[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return x - y })
}

// Mul performs element-wise multiplication.
func Mul[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return x * y })
}

// Div performs element-wise division.
// Integer division by zero panics, as it does in Go.
func Div[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return x / y })
}

// Mod performs element-wise remainder. Only valid for integer types.
func Mod[T Lanes](a, b Vec[T]) Vec[T] {
	mustInteger[T]("Mod")
	if IsSigned[T]() {
		return binary(a, b, func(x, y T) T { return T(int64(x) % int64(y)) })
	}
	return binary(a, b, func(x, y T) T { return T(uint64(x) % uint64(y)) })
}

// Min returns element-wise minimum.
func Min[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return min(x, y) })
}

// Max returns element-wise maximum.
func Max[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return max(x, y) })
}

// Neg negates all lanes. Unsigned lanes wrap around.
func Neg[T Lanes](v Vec[T]) Vec[T] {
	return unary(v, func(x T) T { return -x })
}

// Abs computes absolute value. Unsigned lanes are returned unchanged.
func Abs[T Lanes](v Vec[T]) Vec[T] {
	if IsFloat[T]() {
		return unary(v, func(x T) T { return T(math.Abs(float64(x))) })
	}
	return unary(v, func(x T) T {
		if x < 0 {
			return -x
		}
		return x
	})
}

// Sqrt computes the square root of each lane. Only valid for floating-point types.
func Sqrt[T Lanes](v Vec[T]) Vec[T] {
	if !IsFloat[T]() {
		panic("hwy: Sqrt requires a floating-point lane type")
	}
	return unary(v, func(x T) T { return T(math.Sqrt(float64(x))) })
}

// Inc adds one to each lane.
func Inc[T Lanes](v Vec[T]) Vec[T] {
	return unary(v, func(x T) T { return x + 1 })
}

// Dec subtracts one from each lane.
func Dec[T Lanes](v Vec[T]) Vec[T] {
	return unary(v, func(x T) T { return x - 1 })
}

// And performs element-wise bitwise AND.
// Floating-point lanes are combined on their IEEE-754 bit patterns.
func And[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return fromBits[T](bitsOf(x) & bitsOf(y)) })
}

// Or performs element-wise bitwise OR.
func Or[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return fromBits[T](bitsOf(x) | bitsOf(y)) })
}

// Xor performs element-wise bitwise XOR.
func Xor[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return fromBits[T](bitsOf(x) ^ bitsOf(y)) })
}

// Not performs element-wise bitwise NOT (ones complement).
func Not[T Lanes](v Vec[T]) Vec[T] {
	return unary(v, func(x T) T { return fromBits[T](^bitsOf(x)) })
}

// AndNot performs element-wise bitwise AND NOT (~a & b).
func AndNot[T Lanes](a, b Vec[T]) Vec[T] {
	return binary(a, b, func(x, y T) T { return fromBits[T](^bitsOf(x) & bitsOf(y)) })
}

// ShiftLeft performs element-wise left shift by a constant number of bits.
// Only valid for integer types.
func ShiftLeft[T Lanes](v Vec[T], bits int) Vec[T] {
	mustInteger[T]("ShiftLeft")
	return unary(v, func(x T) T { return shiftLeft(x, bits) })
}

// ShiftRight performs element-wise right shift by a constant number of bits.
// For signed integers, this is arithmetic shift (sign-extended).
// For unsigned integers, this is logical shift (zero-filled).
func ShiftRight[T Lanes](v Vec[T], bits int) Vec[T] {
	mustInteger[T]("ShiftRight")
	return unary(v, func(x T) T { return shiftRight(x, bits) })
}

// ShiftLeftVec shifts each lane of a left by the corresponding lane of b.
func ShiftLeftVec[T Lanes](a, b Vec[T]) Vec[T] {
	mustInteger[T]("ShiftLeftVec")
	return binary(a, b, func(x, y T) T { return shiftLeft(x, int(y)) })
}

// ShiftRightVec shifts each lane of a right by the corresponding lane of b.
func ShiftRightVec[T Lanes](a, b Vec[T]) Vec[T] {
	mustInteger[T]("ShiftRightVec")
	return binary(a, b, func(x, y T) T { return shiftRight(x, int(y)) })
}

func compare[T Lanes](a, b Vec[T], fn func(x, y T) bool) Mask[T] {
	n := checkLanes(a, b)
	bits := make([]bool, n)
	for i := range n {
		bits[i] = fn(a.data[i], b.data[i])
	}
	return Mask[T]{bits: bits}
}

// Equal performs element-wise equality comparison.
func Equal[T Lanes](a, b Vec[T]) Mask[T] {
	return compare(a, b, func(x, y T) bool { return x == y })
}

// NotEqual performs element-wise inequality comparison.
func NotEqual[T Lanes](a, b Vec[T]) Mask[T] {
	return compare(a, b, func(x, y T) bool { return x != y })
}

// LessThan performs element-wise less-than comparison.
func LessThan[T Lanes](a, b Vec[T]) Mask[T] {
	return compare(a, b, func(x, y T) bool { return x < y })
}

// LessEqual performs element-wise less-than-or-equal comparison.
func LessEqual[T Lanes](a, b Vec[T]) Mask[T] {
	return compare(a, b, func(x, y T) bool { return x <= y })
}

// GreaterThan performs element-wise greater-than comparison.
func GreaterThan[T Lanes](a, b Vec[T]) Mask[T] {
	return compare(a, b, func(x, y T) bool { return x > y })
}

// GreaterEqual performs element-wise greater-than-or-equal comparison.
func GreaterEqual[T Lanes](a, b Vec[T]) Mask[T] {
	return compare(a, b, func(x, y T) bool { return x >= y })
}

// IfThenElse performs conditional selection.
func IfThenElse[T Lanes](mask Mask[T], a, b Vec[T]) Vec[T] {
	n := checkLanes(a, b)
	if len(mask.bits) != n {
		panic(fmt.Sprintf("hwy: mask of %d lanes used with %d-lane vectors", len(mask.bits), n))
	}
	result := make([]T, n)
	for i := range n {
		if mask.bits[i] {
			result[i] = a.data[i]
		} else {
			result[i] = b.data[i]
		}
	}
	return Vec[T]{data: result}
}

// ReduceSum sums all lanes.
func ReduceSum[T Lanes](v Vec[T]) T {
	return Reduce(v, func(a, b T) T { return a + b })
}

// ReduceMin returns the minimum value across all lanes.
func ReduceMin[T Lanes](v Vec[T]) T {
	return Reduce(v, func(a, b T) T { return min(a, b) })
}

// ReduceMax returns the maximum value across all lanes.
func ReduceMax[T Lanes](v Vec[T]) T {
	return Reduce(v, func(a, b T) T { return max(a, b) })
}

// Reduce combines all lanes with fn the way a horizontal reduction does in
// hardware: the upper half is folded onto the lower half until one lane
// remains. For a power-of-two lane count this is a balanced tree.
func Reduce[T Lanes](v Vec[T], fn func(a, b T) T) T {
	n := len(v.data)
	if n == 0 {
		var zero T
		return zero
	}
	work := make([]T, n)
	copy(work, v.data)
	for n > 1 {
		half := (n + 1) / 2
		for i := 0; i+half < n; i++ {
			work[i] = fn(work[i], work[i+half])
		}
		n = half
	}
	return work[0]
}

func mustInteger[T Lanes](op string) {
	if IsFloat[T]() {
		panic("hwy: " + op + " requires an integer lane type")
	}
}

func shiftLeft[T Lanes](x T, bits int) T {
	if bits < 0 {
		return x
	}
	return T(uint64(x) << uint(bits))
}

func shiftRight[T Lanes](x T, bits int) T {
	if bits < 0 {
		return x
	}
	// Right shift is arithmetic for signed, logical for unsigned
	if IsSigned[T]() {
		return T(int64(x) >> uint(bits))
	}
	return T(uint64(x) >> uint(bits))
}

// bitsOf returns the raw bit pattern of x, zero-extended to 64 bits.
func bitsOf[T Lanes](x T) uint64 {
	p := unsafe.Pointer(&x)
	switch unsafe.Sizeof(x) {
	case 1:
		return uint64(*(*uint8)(p))
	case 2:
		return uint64(*(*uint16)(p))
	case 4:
		return uint64(*(*uint32)(p))
	default:
		return *(*uint64)(p)
	}
}

// fromBits reinterprets the low bits of u as a T.
func fromBits[T Lanes](u uint64) T {
	var x T
	p := unsafe.Pointer(&x)
	switch unsafe.Sizeof(x) {
	case 1:
		*(*uint8)(p) = uint8(u)
	case 2:
		*(*uint16)(p) = uint16(u)
	case 4:
		*(*uint32)(p) = uint32(u)
	default:
		*(*uint64)(p) = u
	}
	return x
}
