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
)

// Alignment is a hint describing the address of a load or store.
type Alignment int

const (
	// Unaligned makes no promise about the address.
	Unaligned Alignment = iota
	// ElementAligned promises alignment to the element size.
	ElementAligned
	// VectorAligned promises alignment to the register width.
	VectorAligned
)

func (a Alignment) String() string {
	switch a {
	case Unaligned:
		return "unaligned"
	case ElementAligned:
		return "element-aligned"
	case VectorAligned:
		return "vector-aligned"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// BinaryOp names a lane-wise operation on two vectors.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpMin
	OpMax
	OpAnd
	OpOr
	OpXor
	OpAndNot
	OpShl
	OpShr
)

var binaryOpNames = [...]string{"add", "sub", "mul", "div", "mod", "min", "max", "and", "or", "xor", "andnot", "shl", "shr"}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// IntegerOnly reports whether op is only defined for integer lanes.
func (op BinaryOp) IntegerOnly() bool {
	return op == OpMod || op == OpShl || op == OpShr
}

// UnaryOp names a lane-wise operation on one vector.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpAbs
	OpNot
	OpSqrt
	OpInc
	OpDec
	OpRound
	OpTrunc
	OpCeil
	OpFloor
)

var unaryOpNames = [...]string{"neg", "abs", "not", "sqrt", "inc", "dec", "round", "trunc", "ceil", "floor"}

func (op UnaryOp) String() string {
	if op >= 0 && int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return fmt.Sprintf("UnaryOp(%d)", int(op))
}

// CmpOp names a lane-wise comparison.
type CmpOp int

const (
	CmpEq CmpOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

var cmpOpNames = [...]string{"eq", "ne", "lt", "le", "gt", "ge"}

func (op CmpOp) String() string {
	if op >= 0 && int(op) < len(cmpOpNames) {
		return cmpOpNames[op]
	}
	return fmt.Sprintf("CmpOp(%d)", int(op))
}

// Capability is the function table of one tier for one lane type.
// Every vector and mask passed to it must have exactly Width lanes.
//
// Implementations are stateless and safe for concurrent use.
type Capability[T Lanes] interface {
	// Tier returns the tier implemented by this capability.
	Tier() Tier
	// Width returns the number of lanes per register.
	Width() int
	// Align returns the byte alignment of a VectorAligned access.
	Align() int

	Broadcast(x T) Vec[T]
	// Load reads Width elements from src. A VectorAligned hint on a
	// misaligned address panics.
	Load(src []T, a Alignment) Vec[T]
	Store(v Vec[T], dst []T, a Alignment)
	// MaskedLoad returns merge with the lanes selected by k replaced
	// from src. Unselected elements of src are never read.
	MaskedLoad(merge Vec[T], k Mask[T], src []T) Vec[T]
	// MaskedStore writes the lanes of v selected by k to dst.
	MaskedStore(v Vec[T], k Mask[T], dst []T)

	Binary(op BinaryOp, a, b Vec[T]) Vec[T]
	Unary(op UnaryOp, v Vec[T]) Vec[T]
	// Shift shifts every lane by the same number of bits. op must be
	// OpShl or OpShr.
	Shift(op BinaryOp, v Vec[T], bits int) Vec[T]
	Compare(op CmpOp, a, b Vec[T]) Mask[T]
	// Blend returns a where k is set and b elsewhere.
	Blend(k Mask[T], a, b Vec[T]) Vec[T]

	Get(v Vec[T], i int) T
	Set(v Vec[T], i int, x T) Vec[T]

	// Reduce folds the lanes of v with fn.
	Reduce(v Vec[T], fn func(a, b T) T) T
	// ReduceOp folds the lanes of v with a named operation.
	ReduceOp(v Vec[T], op BinaryOp) T
}

// NewCapability returns the capability of tier t for lane type T, backed
// by the portable kernels of this package.
// It panics if T does not fit a register of t.
func NewCapability[T Lanes](t Tier) Capability[T] {
	size := SizeOf[T]()
	lanes := t.LanesFor(size)
	if !t.Valid() || lanes == 0 {
		panic(fmt.Sprintf("hwy: tier %v has no lanes for %d-byte elements", t, size))
	}
	return &portable[T]{tier: t, lanes: lanes, align: t.AlignFor(size)}
}

type portable[T Lanes] struct {
	tier  Tier
	lanes int
	align int
}

func (c *portable[T]) Tier() Tier { return c.tier }
func (c *portable[T]) Width() int { return c.lanes }
func (c *portable[T]) Align() int { return c.align }

func (c *portable[T]) String() string {
	return fmt.Sprintf("%v×%d", c.tier, c.lanes)
}

func (c *portable[T]) check(v Vec[T]) {
	if len(v.data) != c.lanes {
		panic(fmt.Sprintf("hwy: %d-lane vector passed to %v capability of width %d", len(v.data), c.tier, c.lanes))
	}
}

func (c *portable[T]) checkMask(k Mask[T]) {
	if len(k.bits) != c.lanes {
		panic(fmt.Sprintf("hwy: %d-lane mask passed to %v capability of width %d", len(k.bits), c.tier, c.lanes))
	}
}

func (c *portable[T]) checkAlign(p []T, a Alignment) {
	if a == VectorAligned && !IsAlignedPtr(p, c.align) {
		panic(fmt.Sprintf("hwy: vector-aligned %v access at %p is not %d-byte aligned", c.tier, &p[0], c.align))
	}
}

func (c *portable[T]) Broadcast(x T) Vec[T] {
	return Set(x, c.lanes)
}

func (c *portable[T]) Load(src []T, a Alignment) Vec[T] {
	c.checkAlign(src, a)
	return Load(src, c.lanes)
}

func (c *portable[T]) Store(v Vec[T], dst []T, a Alignment) {
	c.check(v)
	if len(dst) < c.lanes {
		panic(fmt.Sprintf("hwy: Store of %d lanes to slice of length %d", c.lanes, len(dst)))
	}
	c.checkAlign(dst, a)
	Store(v, dst)
}

func (c *portable[T]) MaskedLoad(merge Vec[T], k Mask[T], src []T) Vec[T] {
	c.check(merge)
	c.checkMask(k)
	return MaskLoad(merge, k, src)
}

func (c *portable[T]) MaskedStore(v Vec[T], k Mask[T], dst []T) {
	c.check(v)
	c.checkMask(k)
	BlendedStore(v, k, dst)
}

func (c *portable[T]) Binary(op BinaryOp, a, b Vec[T]) Vec[T] {
	c.check(a)
	c.check(b)
	switch op {
	case OpAdd:
		return Add(a, b)
	case OpSub:
		return Sub(a, b)
	case OpMul:
		return Mul(a, b)
	case OpDiv:
		return Div(a, b)
	case OpMod:
		return Mod(a, b)
	case OpMin:
		return Min(a, b)
	case OpMax:
		return Max(a, b)
	case OpAnd:
		return And(a, b)
	case OpOr:
		return Or(a, b)
	case OpXor:
		return Xor(a, b)
	case OpAndNot:
		return AndNot(a, b)
	case OpShl:
		return ShiftLeftVec(a, b)
	case OpShr:
		return ShiftRightVec(a, b)
	default:
		panic(fmt.Sprintf("hwy: unknown binary op %v", op))
	}
}

func (c *portable[T]) Unary(op UnaryOp, v Vec[T]) Vec[T] {
	c.check(v)
	switch op {
	case OpNeg:
		return Neg(v)
	case OpAbs:
		return Abs(v)
	case OpNot:
		return Not(v)
	case OpSqrt:
		return Sqrt(v)
	case OpInc:
		return Inc(v)
	case OpDec:
		return Dec(v)
	case OpRound:
		return Round(v)
	case OpTrunc:
		return Trunc(v)
	case OpCeil:
		return Ceil(v)
	case OpFloor:
		return Floor(v)
	default:
		panic(fmt.Sprintf("hwy: unknown unary op %v", op))
	}
}

func (c *portable[T]) Shift(op BinaryOp, v Vec[T], bits int) Vec[T] {
	c.check(v)
	switch op {
	case OpShl:
		return ShiftLeft(v, bits)
	case OpShr:
		return ShiftRight(v, bits)
	default:
		panic(fmt.Sprintf("hwy: %v is not a shift", op))
	}
}

func (c *portable[T]) Compare(op CmpOp, a, b Vec[T]) Mask[T] {
	c.check(a)
	c.check(b)
	switch op {
	case CmpEq:
		return Equal(a, b)
	case CmpNe:
		return NotEqual(a, b)
	case CmpLt:
		return LessThan(a, b)
	case CmpLe:
		return LessEqual(a, b)
	case CmpGt:
		return GreaterThan(a, b)
	case CmpGe:
		return GreaterEqual(a, b)
	default:
		panic(fmt.Sprintf("hwy: unknown comparison %v", op))
	}
}

func (c *portable[T]) Blend(k Mask[T], a, b Vec[T]) Vec[T] {
	c.check(a)
	c.checkMask(k)
	return IfThenElse(k, a, b)
}

func (c *portable[T]) Get(v Vec[T], i int) T {
	c.check(v)
	return GetLane(v, i)
}

func (c *portable[T]) Set(v Vec[T], i int, x T) Vec[T] {
	c.check(v)
	return WithLane(v, i, x)
}

func (c *portable[T]) Reduce(v Vec[T], fn func(a, b T) T) T {
	c.check(v)
	return Reduce(v, fn)
}

func (c *portable[T]) ReduceOp(v Vec[T], op BinaryOp) T {
	c.check(v)
	switch op {
	case OpAdd:
		return ReduceSum(v)
	case OpMin:
		return ReduceMin(v)
	case OpMax:
		return ReduceMax(v)
	}
	return Reduce(v, BinaryFunc[T](op))
}

// BinaryFunc returns the scalar form of op, for folding lanes one pair
// at a time.
func BinaryFunc[T Lanes](op BinaryOp) func(a, b T) T {
	switch op {
	case OpAdd:
		return func(a, b T) T { return a + b }
	case OpSub:
		return func(a, b T) T { return a - b }
	case OpMul:
		return func(a, b T) T { return a * b }
	case OpDiv:
		return func(a, b T) T { return a / b }
	case OpMod:
		mustInteger[T]("Mod")
		if IsSigned[T]() {
			return func(a, b T) T { return T(int64(a) % int64(b)) }
		}
		return func(a, b T) T { return T(uint64(a) % uint64(b)) }
	case OpMin:
		return func(a, b T) T { return min(a, b) }
	case OpMax:
		return func(a, b T) T { return max(a, b) }
	case OpAnd:
		return func(a, b T) T { return fromBits[T](bitsOf(a) & bitsOf(b)) }
	case OpOr:
		return func(a, b T) T { return fromBits[T](bitsOf(a) | bitsOf(b)) }
	case OpXor:
		return func(a, b T) T { return fromBits[T](bitsOf(a) ^ bitsOf(b)) }
	case OpAndNot:
		return func(a, b T) T { return fromBits[T](^bitsOf(a) & bitsOf(b)) }
	case OpShl:
		mustInteger[T]("ShiftLeft")
		return func(a, b T) T { return shiftLeft(a, int(b)) }
	case OpShr:
		mustInteger[T]("ShiftRight")
		return func(a, b T) T { return shiftRight(a, int(b)) }
	default:
		panic(fmt.Sprintf("hwy: unknown binary op %v", op))
	}
}
