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
	"github.com/grailbio/base/must"
)

// Layout is a Shape bound to the capabilities that execute each of its
// chunks. It is the factory for composite vectors of N lanes of T.
//
// Usage:
//
//	l, err := datapar.NewLayout[float32](datapar.DefaultRegistry(), 12)
//	if err != nil {
//	    return err
//	}
//	a := l.Load(xs, hwy.Unaligned)
//	b := l.Broadcast(2)
//	a.Mul(b).Store(out, hwy.Unaligned)
type Layout[T hwy.Lanes] struct {
	reg   *Registry
	shape *Shape
	caps  []hwy.Capability[T]
}

// NewLayout selects the shape of n lanes of T from r and resolves the
// capability of every chunk. All configuration errors surface here.
func NewLayout[T hwy.Lanes](r *Registry, n int) (*Layout[T], error) {
	et := ElementTypeOf[T]()
	s, err := Select(r, et, n)
	if err != nil {
		return nil, err
	}
	caps := make([]hwy.Capability[T], len(s.Chunks))
	for i, d := range s.Chunks {
		c, ok := CapabilityOf[T](r, d.Tier)
		if !ok {
			return nil, notSupportedf("no %v capability for %v", d.Tier, et)
		}
		caps[i] = c
	}
	return &Layout[T]{reg: r, shape: s, caps: caps}, nil
}

// MustLayout is like NewLayout but panics on error.
func MustLayout[T hwy.Lanes](r *Registry, n int) *Layout[T] {
	l, err := NewLayout[T](r, n)
	must.Nil(err, "datapar: layout")
	return l
}

// For returns the layout of n lanes of T on DefaultRegistry.
func For[T hwy.Lanes](n int) (*Layout[T], error) {
	return NewLayout[T](DefaultRegistry(), n)
}

// Shape returns the chunk decomposition of the layout.
func (l *Layout[T]) Shape() *Shape { return l.shape }

// Registry returns the registry the layout was built from.
func (l *Layout[T]) Registry() *Registry { return l.reg }

// Len returns the logical lane count N.
func (l *Layout[T]) Len() int { return l.shape.N }

// Capability returns the capability executing chunk i.
func (l *Layout[T]) Capability(i int) hwy.Capability[T] { return l.caps[i] }

func (l *Layout[T]) make() Vec[T] {
	return Vec[T]{layout: l, chunks: make([]hwy.Vec[T], len(l.caps))}
}

// Broadcast returns a vector with every lane set to x.
func (l *Layout[T]) Broadcast(x T) Vec[T] {
	v := l.make()
	for i, c := range l.caps {
		v.chunks[i] = c.Broadcast(x)
	}
	return v
}

// Zero returns a vector of zero lanes.
func (l *Layout[T]) Zero() Vec[T] {
	return l.Broadcast(0)
}

// Load reads N elements from src. It panics if src is shorter than N.
//
// The first chunk is loaded with the caller's alignment hint. The
// following chunks are loaded VectorAligned when src starts on the
// layout's largest alignment (their offsets then keep them aligned), and
// ElementAligned otherwise.
func (l *Layout[T]) Load(src []T, a hwy.Alignment) Vec[T] {
	l.checkLen("Load", len(src))
	v := l.make()
	hints := l.hints(src, a)
	for i, d := range l.shape.Chunks {
		v.chunks[i] = l.caps[i].Load(src[d.Offset:d.Offset+d.Width], hints[i])
	}
	return v
}

// Generate returns the vector whose lane i is fn(i).
func (l *Layout[T]) Generate(fn func(i int) T) Vec[T] {
	buf := make([]T, l.shape.N)
	for i := range buf {
		buf[i] = fn(i)
	}
	return l.Load(buf, hwy.Unaligned)
}

// Iota returns the vector [start, start+1, ..., start+N-1].
func (l *Layout[T]) Iota(start T) Vec[T] {
	return l.Generate(func(i int) T { return start + T(i) })
}

// hints returns the alignment hint of every chunk for an access at p.
func (l *Layout[T]) hints(p []T, a hwy.Alignment) []hwy.Alignment {
	hints := make([]hwy.Alignment, len(l.caps))
	based := hwy.IsAlignedPtr(p, l.shape.maxAlign)
	size := l.shape.Type.Size()
	for i, d := range l.shape.Chunks {
		switch {
		case i == 0:
			hints[i] = a
		case based && (d.Offset*size)%d.Align == 0:
			hints[i] = hwy.VectorAligned
		default:
			hints[i] = hwy.ElementAligned
		}
	}
	return hints
}

func (l *Layout[T]) checkLen(op string, n int) {
	if n < l.shape.N {
		panicPrecondition("%s: slice of length %d is shorter than %v", op, n, l.shape)
	}
}
