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
	"github.com/ajroetker/go-datapar/hwy"
)

// Elementwise operations apply the same native operation to every chunk,
// each through the capability of that chunk's tier. The result has the
// shape of the operands; operands of different shapes panic.

func (v Vec[T]) mapChunks(fn func(c hwy.Capability[T], x hwy.Vec[T]) hwy.Vec[T]) Vec[T] {
	v.valid()
	out := v.layout.make()
	for i, c := range v.layout.caps {
		out.chunks[i] = fn(c, v.chunks[i])
	}
	return out
}

func (v Vec[T]) zipChunks(o Vec[T], fn func(c hwy.Capability[T], x, y hwy.Vec[T]) hwy.Vec[T]) Vec[T] {
	v.mustMatch(o)
	out := v.layout.make()
	for i, c := range v.layout.caps {
		out.chunks[i] = fn(c, v.chunks[i], o.chunks[i])
	}
	return out
}

func checkOp[T hwy.Lanes](op hwy.BinaryOp) {
	if op.IntegerOnly() && hwy.IsFloat[T]() {
		panicPrecondition("%v is not defined for %v lanes", op, ElementTypeOf[T]())
	}
}

func checkUnary[T hwy.Lanes](op hwy.UnaryOp) {
	if op == hwy.OpSqrt && !hwy.IsFloat[T]() {
		panicPrecondition("%v is not defined for %v lanes", op, ElementTypeOf[T]())
	}
}

// Apply returns op(v, o) lane by lane.
func (v Vec[T]) Apply(op hwy.BinaryOp, o Vec[T]) Vec[T] {
	checkOp[T](op)
	return v.zipChunks(o, func(c hwy.Capability[T], x, y hwy.Vec[T]) hwy.Vec[T] {
		return c.Binary(op, x, y)
	})
}

// ApplyScalar returns op(v, x) lane by lane.
func (v Vec[T]) ApplyScalar(op hwy.BinaryOp, x T) Vec[T] {
	checkOp[T](op)
	return v.mapChunks(func(c hwy.Capability[T], a hwy.Vec[T]) hwy.Vec[T] {
		return c.Binary(op, a, c.Broadcast(x))
	})
}

// Map returns op(v) lane by lane.
func (v Vec[T]) Map(op hwy.UnaryOp) Vec[T] {
	checkUnary[T](op)
	return v.mapChunks(func(c hwy.Capability[T], x hwy.Vec[T]) hwy.Vec[T] {
		return c.Unary(op, x)
	})
}

// Add returns v + o.
func (v Vec[T]) Add(o Vec[T]) Vec[T] { return v.Apply(hwy.OpAdd, o) }

// Sub returns v - o.
func (v Vec[T]) Sub(o Vec[T]) Vec[T] { return v.Apply(hwy.OpSub, o) }

// Mul returns v * o.
func (v Vec[T]) Mul(o Vec[T]) Vec[T] { return v.Apply(hwy.OpMul, o) }

// Div returns v / o. Integer division by zero panics.
func (v Vec[T]) Div(o Vec[T]) Vec[T] { return v.Apply(hwy.OpDiv, o) }

// Min returns the lane-wise minimum of v and o.
func (v Vec[T]) Min(o Vec[T]) Vec[T] { return v.Apply(hwy.OpMin, o) }

// Max returns the lane-wise maximum of v and o.
func (v Vec[T]) Max(o Vec[T]) Vec[T] { return v.Apply(hwy.OpMax, o) }

// And returns v & o. Floating-point lanes combine their bit patterns.
func (v Vec[T]) And(o Vec[T]) Vec[T] { return v.Apply(hwy.OpAnd, o) }

// Or returns v | o.
func (v Vec[T]) Or(o Vec[T]) Vec[T] { return v.Apply(hwy.OpOr, o) }

// Xor returns v ^ o.
func (v Vec[T]) Xor(o Vec[T]) Vec[T] { return v.Apply(hwy.OpXor, o) }

// AndNot returns ^v & o.
func (v Vec[T]) AndNot(o Vec[T]) Vec[T] { return v.Apply(hwy.OpAndNot, o) }

// Neg returns -v.
func (v Vec[T]) Neg() Vec[T] { return v.Map(hwy.OpNeg) }

// Abs returns |v|.
func (v Vec[T]) Abs() Vec[T] { return v.Map(hwy.OpAbs) }

// Not returns ^v.
func (v Vec[T]) Not() Vec[T] { return v.Map(hwy.OpNot) }

// Inc returns v + 1.
func (v Vec[T]) Inc() Vec[T] { return v.Map(hwy.OpInc) }

// Dec returns v - 1.
func (v Vec[T]) Dec() Vec[T] { return v.Map(hwy.OpDec) }

// Mod returns a % b.
func Mod[T hwy.Integers](a, b Vec[T]) Vec[T] { return a.Apply(hwy.OpMod, b) }

// ShiftLeft shifts every lane of v left by bits.
func ShiftLeft[T hwy.Integers](v Vec[T], bits int) Vec[T] {
	return v.mapChunks(func(c hwy.Capability[T], x hwy.Vec[T]) hwy.Vec[T] {
		return c.Shift(hwy.OpShl, x, bits)
	})
}

// ShiftRight shifts every lane of v right by bits: arithmetic for signed
// lanes, logical for unsigned lanes.
func ShiftRight[T hwy.Integers](v Vec[T], bits int) Vec[T] {
	return v.mapChunks(func(c hwy.Capability[T], x hwy.Vec[T]) hwy.Vec[T] {
		return c.Shift(hwy.OpShr, x, bits)
	})
}

// ShiftLeftVec shifts each lane of a left by the matching lane of b.
func ShiftLeftVec[T hwy.Integers](a, b Vec[T]) Vec[T] { return a.Apply(hwy.OpShl, b) }

// ShiftRightVec shifts each lane of a right by the matching lane of b.
func ShiftRightVec[T hwy.Integers](a, b Vec[T]) Vec[T] { return a.Apply(hwy.OpShr, b) }

// Sqrt returns the square root of every lane.
func Sqrt[T hwy.Floats](v Vec[T]) Vec[T] { return v.Map(hwy.OpSqrt) }

// Round rounds every lane to the nearest integer, halfway cases away from zero.
func Round[T hwy.Floats](v Vec[T]) Vec[T] { return v.Map(hwy.OpRound) }

// Trunc rounds every lane toward zero.
func Trunc[T hwy.Floats](v Vec[T]) Vec[T] { return v.Map(hwy.OpTrunc) }

// Ceil rounds every lane toward positive infinity.
func Ceil[T hwy.Floats](v Vec[T]) Vec[T] { return v.Map(hwy.OpCeil) }

// Floor rounds every lane toward negative infinity.
func Floor[T hwy.Floats](v Vec[T]) Vec[T] { return v.Map(hwy.OpFloor) }

// Compare returns the mask of lanes where op(v, o) holds.
func (v Vec[T]) Compare(op hwy.CmpOp, o Vec[T]) Mask {
	v.mustMatch(o)
	natives := make([]hwy.Mask[T], len(v.chunks))
	for i, c := range v.layout.caps {
		natives[i] = c.Compare(op, v.chunks[i], o.chunks[i])
	}
	return maskFromChunks(v.layout.shape, natives)
}

// Equal returns the mask of lanes where v == o.
func (v Vec[T]) Equal(o Vec[T]) Mask { return v.Compare(hwy.CmpEq, o) }

// NotEqual returns the mask of lanes where v != o.
func (v Vec[T]) NotEqual(o Vec[T]) Mask { return v.Compare(hwy.CmpNe, o) }

// Less returns the mask of lanes where v < o.
func (v Vec[T]) Less(o Vec[T]) Mask { return v.Compare(hwy.CmpLt, o) }

// LessEqual returns the mask of lanes where v <= o.
func (v Vec[T]) LessEqual(o Vec[T]) Mask { return v.Compare(hwy.CmpLe, o) }

// Greater returns the mask of lanes where v > o.
func (v Vec[T]) Greater(o Vec[T]) Mask { return v.Compare(hwy.CmpGt, o) }

// GreaterEqual returns the mask of lanes where v >= o.
func (v Vec[T]) GreaterEqual(o Vec[T]) Mask { return v.Compare(hwy.CmpGe, o) }

// IfThenElse returns a where k is set and b elsewhere.
func IfThenElse[T hwy.Lanes](k Mask, a, b Vec[T]) Vec[T] {
	a.mustMatch(b)
	k.mustLen(a.Len())
	out := a.layout.make()
	for i, d := range a.layout.shape.Chunks {
		out.chunks[i] = a.layout.caps[i].Blend(sliceMask[T](k, d), a.chunks[i], b.chunks[i])
	}
	return out
}
