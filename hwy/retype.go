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
	"unsafe"
)

// Retype returns c as a capability for T, a lane type with the same
// representation as U (typically a named type such as `type celsius float32`).
// Vectors are reinterpreted in place, so c sees the caller's memory and
// alignment unchanged. It panics if T and U are represented differently.
func Retype[T, U Lanes](c Capability[U]) Capability[T] {
	if tc, ok := any(c).(Capability[T]); ok {
		return tc
	}
	if w, ok := any(c).(interface{ Unwrap() Capability[T] }); ok {
		return w.Unwrap()
	}
	if SizeOf[T]() != SizeOf[U]() || IsFloat[T]() != IsFloat[U]() || IsSigned[T]() != IsSigned[U]() {
		panic(fmt.Sprintf("hwy: cannot retype %T to %T lanes", *new(U), *new(T)))
	}
	return retyped[T, U]{c: c}
}

type retyped[T, U Lanes] struct {
	c Capability[U]
}

func recast[To, From Lanes](s []From) []To {
	return unsafe.Slice((*To)(unsafe.Pointer(unsafe.SliceData(s))), len(s))
}

func (r retyped[T, U]) in(v Vec[T]) Vec[U]       { return Vec[U]{data: recast[U](v.data)} }
func (r retyped[T, U]) out(v Vec[U]) Vec[T]      { return Vec[T]{data: recast[T](v.data)} }
func (r retyped[T, U]) inMask(k Mask[T]) Mask[U] { return Mask[U]{bits: k.bits} }

// Unwrap returns the capability being retyped.
func (r retyped[T, U]) Unwrap() Capability[U] { return r.c }

func (r retyped[T, U]) Tier() Tier { return r.c.Tier() }
func (r retyped[T, U]) Width() int { return r.c.Width() }
func (r retyped[T, U]) Align() int { return r.c.Align() }

func (r retyped[T, U]) Broadcast(x T) Vec[T] { return r.out(r.c.Broadcast(U(x))) }

func (r retyped[T, U]) Load(src []T, a Alignment) Vec[T] {
	return r.out(r.c.Load(recast[U](src), a))
}

func (r retyped[T, U]) Store(v Vec[T], dst []T, a Alignment) {
	r.c.Store(r.in(v), recast[U](dst), a)
}

func (r retyped[T, U]) MaskedLoad(merge Vec[T], k Mask[T], src []T) Vec[T] {
	return r.out(r.c.MaskedLoad(r.in(merge), r.inMask(k), recast[U](src)))
}

func (r retyped[T, U]) MaskedStore(v Vec[T], k Mask[T], dst []T) {
	r.c.MaskedStore(r.in(v), r.inMask(k), recast[U](dst))
}

func (r retyped[T, U]) Binary(op BinaryOp, a, b Vec[T]) Vec[T] {
	return r.out(r.c.Binary(op, r.in(a), r.in(b)))
}

func (r retyped[T, U]) Unary(op UnaryOp, v Vec[T]) Vec[T] { return r.out(r.c.Unary(op, r.in(v))) }

func (r retyped[T, U]) Shift(op BinaryOp, v Vec[T], bits int) Vec[T] {
	return r.out(r.c.Shift(op, r.in(v), bits))
}

func (r retyped[T, U]) Compare(op CmpOp, a, b Vec[T]) Mask[T] {
	return Mask[T]{bits: r.c.Compare(op, r.in(a), r.in(b)).bits}
}

func (r retyped[T, U]) Blend(k Mask[T], a, b Vec[T]) Vec[T] {
	return r.out(r.c.Blend(r.inMask(k), r.in(a), r.in(b)))
}

func (r retyped[T, U]) Get(v Vec[T], i int) T { return T(r.c.Get(r.in(v), i)) }

func (r retyped[T, U]) Set(v Vec[T], i int, x T) Vec[T] {
	return r.out(r.c.Set(r.in(v), i, U(x)))
}

func (r retyped[T, U]) Reduce(v Vec[T], fn func(a, b T) T) T {
	return T(r.c.Reduce(r.in(v), func(a, b U) U { return U(fn(T(a), T(b))) }))
}

func (r retyped[T, U]) ReduceOp(v Vec[T], op BinaryOp) T { return T(r.c.ReduceOp(r.in(v), op)) }
