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
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/ajroetker/go-datapar/hwy"
	"github.com/grailbio/base/log"
	"github.com/samber/lo"
)

// ChunkDescriptor places one native register inside a composite.
type ChunkDescriptor struct {
	Tier   hwy.Tier
	Width  int // lanes
	Offset int // first logical lane
	Align  int // bytes required by a VectorAligned access
}

func (d ChunkDescriptor) String() string {
	return fmt.Sprintf("%v×%d@%d", d.Tier, d.Width, d.Offset)
}

// Shape is the chunk decomposition of N lanes of one element type.
// Chunks are contiguous from lane 0, in increasing offset order, and their
// widths sum to N. Shapes are immutable and shared.
type Shape struct {
	Type   ElementType
	N      int
	Chunks []ChunkDescriptor

	maxAlign int
}

type shapeKey struct {
	et ElementType
	n  int
}

// Select returns the shape covering n lanes of et with the capabilities of
// r. Tiers are tried in the registry's priority order and the first whose
// width fits the lanes still unassigned wins, so the result is greedy
// widest-first with the scalar tier as the last resort.
//
// Shapes are cached per registry: selecting the same (et, n) twice returns
// the same *Shape.
func Select(r *Registry, et ElementType, n int) (*Shape, error) {
	if n <= 0 {
		return nil, invalidf("vector width must be positive, got %d", n)
	}
	if !et.Valid() {
		return nil, invalidf("invalid element type %d", int(et))
	}
	key := shapeKey{et, n}
	if s, ok := r.shapes.Load(key); ok {
		return s.(*Shape), nil
	}
	s, err := selectShape(r, et, n)
	if err != nil {
		return nil, err
	}
	actual, loaded := r.shapes.LoadOrStore(key, s)
	if !loaded {
		log.Debug.Printf("datapar: selected %v", s)
	}
	return actual.(*Shape), nil
}

func selectShape(r *Registry, et ElementType, n int) (*Shape, error) {
	type candidate struct {
		tier  hwy.Tier
		width int
		align int
	}
	var candidates []candidate
	for _, t := range r.priority {
		if e, ok := r.entries[capKey{t, et}]; ok {
			candidates = append(candidates, candidate{t, e.width, e.align})
		}
	}
	if len(candidates) == 0 {
		return nil, notSupportedf("no capability for %v in %v", et, r)
	}

	s := &Shape{Type: et, N: n}
	for offset := 0; offset < n; {
		remaining := n - offset
		c, ok := lo.Find(candidates, func(c candidate) bool { return c.width <= remaining })
		if !ok {
			return nil, notSupportedf("cannot cover %d remaining lanes of %v[%d]: narrowest width is %d",
				remaining, et, n, lo.MinBy(candidates, func(a, b candidate) bool { return a.width < b.width }).width)
		}
		s.Chunks = append(s.Chunks, ChunkDescriptor{Tier: c.tier, Width: c.width, Offset: offset, Align: c.align})
		s.maxAlign = max(s.maxAlign, c.align)
		offset += c.width
	}
	return s, nil
}

// NumChunks returns the number of native registers in the shape.
func (s *Shape) NumChunks() int {
	return len(s.Chunks)
}

// Widths returns the chunk widths in order.
func (s *Shape) Widths() []int {
	return lo.Map(s.Chunks, func(d ChunkDescriptor, _ int) int { return d.Width })
}

// Tiers returns the chunk tiers in order.
func (s *Shape) Tiers() []hwy.Tier {
	return lo.Map(s.Chunks, func(d ChunkDescriptor, _ int) hwy.Tier { return d.Tier })
}

// MaxAlign returns the largest alignment required by any chunk.
func (s *Shape) MaxAlign() int {
	return s.maxAlign
}

// ChunkOf returns the index of the chunk holding lane i.
// It panics if i is outside [0, N).
func (s *Shape) ChunkOf(i int) int {
	if i < 0 || i >= s.N {
		panicPrecondition("lane %d out of range [0, %d)", i, s.N)
	}
	// First chunk starting after i, minus one.
	return sort.Search(len(s.Chunks), func(c int) bool { return s.Chunks[c].Offset > i }) - 1
}

// Equal reports whether s and o describe the same decomposition.
func (s *Shape) Equal(o *Shape) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return s.Type == o.Type && s.N == o.N && slices.Equal(s.Chunks, o.Chunks)
}

func (s *Shape) String() string {
	parts := lo.Map(s.Chunks, func(d ChunkDescriptor, _ int) string { return d.String() })
	return fmt.Sprintf("%v[%d] = %s", s.Type, s.N, strings.Join(parts, " + "))
}
