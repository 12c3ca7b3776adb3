// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package bulk applies composite-vector operations to slices of any
// length. A slice is cut into blocks of one layout's length; the last,
// partial block gets a layout of its own, so every element goes through a
// composite and nothing is padded. Blocks are independent and are spread
// over a Pool.
//
// Usage:
//
//	pool := bulk.NewPool(0)
//	defer pool.Close()
//
//	plan := bulk.MustPlan(datapar.MustLayout[float32](datapar.DefaultRegistry(), 64), len(x))
//	bulk.Zip(pool, plan, out, x, y, func(a, b datapar.Vec[float32]) datapar.Vec[float32] {
//	    return a.Mul(b).Add(a)
//	})
//	total, _ := bulk.Reduce(pool, plan, out, hwy.OpAdd)
package bulk

import (
	"fmt"

	"github.com/ajroetker/go-datapar/datapar"
	"github.com/ajroetker/go-datapar/hwy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/must"
)

// Plan is the block decomposition of a slice of N elements.
type Plan[T hwy.Lanes] struct {
	n     int
	block *datapar.Layout[T]
	tail  *datapar.Layout[T] // nil if N is a multiple of the block length
}

// NewPlan returns the plan covering n elements with blocks laid out by l.
// The tail layout is resolved here, so any configuration error is
// reported before a slice is touched.
func NewPlan[T hwy.Lanes](l *datapar.Layout[T], n int) (*Plan[T], error) {
	if n < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("bulk: negative length %d", n))
	}
	p := &Plan[T]{n: n, block: l}
	if rem := n % l.Len(); rem > 0 {
		tail, err := datapar.NewLayout[T](l.Registry(), rem)
		if err != nil {
			return nil, errors.E("bulk: tail layout", err)
		}
		p.tail = tail
	}
	return p, nil
}

// MustPlan is like NewPlan but panics on error.
func MustPlan[T hwy.Lanes](l *datapar.Layout[T], n int) *Plan[T] {
	p, err := NewPlan(l, n)
	must.Nil(err)
	return p
}

// Len returns the number of elements covered.
func (p *Plan[T]) Len() int { return p.n }

// NumBlocks returns the number of blocks, counting a partial tail block.
func (p *Plan[T]) NumBlocks() int { return hwy.Blocks(p.n, p.block.Len()) }

// Block returns the layout and first element of block b.
func (p *Plan[T]) Block(b int) (*datapar.Layout[T], int) {
	offset := b * p.block.Len()
	if p.tail != nil && b == p.NumBlocks()-1 {
		return p.tail, offset
	}
	return p.block, offset
}

func (p *Plan[T]) String() string {
	if p.tail == nil {
		return fmt.Sprintf("%d × (%v)", p.NumBlocks(), p.block.Shape())
	}
	return fmt.Sprintf("%d × (%v) + (%v)", p.NumBlocks()-1, p.block.Shape(), p.tail.Shape())
}

func (p *Plan[T]) checkLen(op string, n int) {
	if n < p.n {
		panic(errors.E(errors.Precondition, fmt.Sprintf("bulk.%s: slice of length %d is shorter than plan of %d", op, n, p.n)))
	}
}

// Map stores fn(src block) into the matching block of dst, for every block.
// dst and src may be the same slice.
func Map[T hwy.Lanes](pool *Pool, p *Plan[T], dst, src []T, fn func(datapar.Vec[T]) datapar.Vec[T]) {
	p.checkLen("Map", len(dst))
	p.checkLen("Map", len(src))
	pool.Each(p.NumBlocks(), func(b int) {
		l, off := p.Block(b)
		fn(l.Load(src[off:], hwy.Unaligned)).Store(dst[off:], hwy.Unaligned)
	})
}

// Zip stores fn(a block, b block) into the matching block of dst.
func Zip[T hwy.Lanes](pool *Pool, p *Plan[T], dst, a, b []T, fn func(x, y datapar.Vec[T]) datapar.Vec[T]) {
	p.checkLen("Zip", len(dst))
	p.checkLen("Zip", len(a))
	p.checkLen("Zip", len(b))
	pool.Each(p.NumBlocks(), func(i int) {
		l, off := p.Block(i)
		fn(l.Load(a[off:], hwy.Unaligned), l.Load(b[off:], hwy.Unaligned)).Store(dst[off:], hwy.Unaligned)
	})
}

// Reduce folds src with op. Each block is reduced by its composite, and
// the block results are combined with datapar.TreeReduce in block order,
// so the result does not depend on how blocks were scheduled. It returns
// false for an empty plan.
func Reduce[T hwy.Lanes](pool *Pool, p *Plan[T], src []T, op hwy.BinaryOp) (T, bool) {
	p.checkLen("Reduce", len(src))
	if p.n == 0 {
		var zero T
		return zero, false
	}
	parts := make([]T, p.NumBlocks())
	pool.Each(len(parts), func(b int) {
		l, off := p.Block(b)
		parts[b] = l.Load(src[off:], hwy.Unaligned).Reduce(op)
	})
	return datapar.TreeReduce(parts, hwy.BinaryFunc[T](op)), true
}

// Count returns the number of elements of src for which pred sets the
// mask lane.
func Count[T hwy.Lanes](pool *Pool, p *Plan[T], src []T, pred func(datapar.Vec[T]) datapar.Mask) int {
	p.checkLen("Count", len(src))
	counts := make([]int, p.NumBlocks())
	pool.Each(len(counts), func(b int) {
		l, off := p.Block(b)
		counts[b] = pred(l.Load(src[off:], hwy.Unaligned)).Count()
	})
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
