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
	"math/bits"

	"github.com/ajroetker/go-datapar/hwy"
)

// Reduce folds all lanes of v with op. Each chunk is first reduced by its
// own capability, then the per-chunk results are combined by TreeReduce,
// so the order of combination depends only on the shape.
func (v Vec[T]) Reduce(op hwy.BinaryOp) T {
	checkOp[T](op)
	v.valid()
	parts := make([]T, len(v.chunks))
	for i, c := range v.layout.caps {
		parts[i] = c.ReduceOp(v.chunks[i], op)
	}
	return TreeReduce(parts, hwy.BinaryFunc[T](op))
}

// ReduceFunc folds all lanes of v with fn, in the same order as Reduce.
func (v Vec[T]) ReduceFunc(fn func(a, b T) T) T {
	v.valid()
	parts := make([]T, len(v.chunks))
	for i, c := range v.layout.caps {
		parts[i] = c.Reduce(v.chunks[i], fn)
	}
	return TreeReduce(parts, fn)
}

// Sum returns the sum of all lanes.
func (v Vec[T]) Sum() T { return v.Reduce(hwy.OpAdd) }

// ReduceMin returns the smallest lane.
func (v Vec[T]) ReduceMin() T { return v.Reduce(hwy.OpMin) }

// ReduceMax returns the largest lane.
func (v Vec[T]) ReduceMax() T { return v.Reduce(hwy.OpMax) }

// TreeReduce combines parts pairwise as a balanced binary tree:
//
//	count 1: parts[0]
//	count 2: fn(parts[0], parts[1])
//	count n: fn(TreeReduce(parts[:m]), TreeReduce(parts[m:]))
//
// where m is half of the smallest power of two not below n. The left
// subtree is always a full power of two, so for a fixed count the grouping
// never changes. It panics if parts is empty.
func TreeReduce[T any](parts []T, fn func(a, b T) T) T {
	switch len(parts) {
	case 0:
		panicPrecondition("TreeReduce of no parts")
	case 1:
		return parts[0]
	case 2:
		return fn(parts[0], parts[1])
	}
	left := nextPowerOfTwo(len(parts)) / 2
	return fn(TreeReduce(parts[:left], fn), TreeReduce(parts[left:], fn))
}

// nextPowerOfTwo returns the smallest power of two >= n, for n >= 1.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
