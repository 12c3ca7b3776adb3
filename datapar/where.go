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
	"slices"

	"github.com/ajroetker/go-datapar/hwy"
)

// WhereExpr is a masked view of a vector variable. Its methods modify only
// the lanes selected by the mask and leave the others unchanged.
//
// Usage:
//
//	k := x.Less(l.Zero())
//	datapar.Where(k, &x).Unary(hwy.OpNeg)    // x = |x|
//	datapar.Where(k, &y).ApplyScalar(hwy.OpMul, 2)
type WhereExpr[T hwy.Lanes] struct {
	k Mask
	v *Vec[T]
}

// Where returns the view of *v selected by k.
func Where[T hwy.Lanes](k Mask, v *Vec[T]) WhereExpr[T] {
	v.valid()
	k.mustLen(v.Len())
	return WhereExpr[T]{k: k, v: v}
}

// update replaces every chunk with a selected lane by the blend of fn's
// result and the old value. Chunks without selected lanes are skipped.
func (w WhereExpr[T]) update(fn func(i int, c hwy.Capability[T], sub hwy.Mask[T], x hwy.Vec[T]) hwy.Vec[T]) {
	l := w.v.layout
	chunks := slices.Clone(w.v.chunks)
	for i, d := range l.shape.Chunks {
		sub := sliceMask[T](w.k, d)
		if !sub.AnyTrue() {
			continue
		}
		c := l.caps[i]
		chunks[i] = c.Blend(sub, fn(i, c, sub, chunks[i]), chunks[i])
	}
	w.v.chunks = chunks
}

// Assign sets the selected lanes to the matching lanes of rhs.
func (w WhereExpr[T]) Assign(rhs Vec[T]) {
	w.v.mustMatch(rhs)
	w.update(func(i int, _ hwy.Capability[T], _ hwy.Mask[T], _ hwy.Vec[T]) hwy.Vec[T] {
		return rhs.chunks[i]
	})
}

// AssignScalar sets the selected lanes to x.
func (w WhereExpr[T]) AssignScalar(x T) {
	w.update(func(_ int, c hwy.Capability[T], _ hwy.Mask[T], _ hwy.Vec[T]) hwy.Vec[T] {
		return c.Broadcast(x)
	})
}

// Apply replaces each selected lane with op(lane, rhs lane).
func (w WhereExpr[T]) Apply(op hwy.BinaryOp, rhs Vec[T]) {
	checkOp[T](op)
	w.v.mustMatch(rhs)
	w.update(func(i int, c hwy.Capability[T], sub hwy.Mask[T], x hwy.Vec[T]) hwy.Vec[T] {
		y := rhs.chunks[i]
		if divides[T](op) {
			// Unselected lanes may hold zero divisors.
			y = c.Blend(sub, y, c.Broadcast(1))
		}
		return c.Binary(op, x, y)
	})
}

// ApplyScalar replaces each selected lane with op(lane, x).
func (w WhereExpr[T]) ApplyScalar(op hwy.BinaryOp, x T) {
	checkOp[T](op)
	w.update(func(_ int, c hwy.Capability[T], _ hwy.Mask[T], v hwy.Vec[T]) hwy.Vec[T] {
		return c.Binary(op, v, c.Broadcast(x))
	})
}

// Unary replaces each selected lane with op(lane).
func (w WhereExpr[T]) Unary(op hwy.UnaryOp) {
	checkUnary[T](op)
	w.update(func(_ int, c hwy.Capability[T], _ hwy.Mask[T], x hwy.Vec[T]) hwy.Vec[T] {
		return c.Unary(op, x)
	})
}

// divides reports whether op traps on a zero divisor for T.
func divides[T hwy.Lanes](op hwy.BinaryOp) bool {
	return (op == hwy.OpDiv || op == hwy.OpMod) && !hwy.IsFloat[T]()
}
