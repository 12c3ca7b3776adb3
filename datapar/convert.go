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
	"github.com/grailbio/base/must"
)

// Ratio is the size of a destination element relative to a source element.
// It picks the routine used to convert between vectors.
type Ratio int

const (
	RatioSame    Ratio = iota // ×1
	RatioWiden2               // ×2
	RatioWiden4               // ×4
	RatioWiden8               // ×8
	RatioNarrow2              // ÷2
	RatioNarrow4              // ÷4
	RatioNarrow8              // ÷8
)

var ratioNames = [...]string{"×1", "×2", "×4", "×8", "÷2", "÷4", "÷8"}

func (r Ratio) String() string {
	if r >= 0 && int(r) < len(ratioNames) {
		return ratioNames[r]
	}
	return "?"
}

// Factor returns how many source registers one destination register spans
// (for narrowing) or how many destination registers one source register
// becomes (for widening).
func (r Ratio) Factor() int {
	switch r {
	case RatioWiden2, RatioNarrow2:
		return 2
	case RatioWiden4, RatioNarrow4:
		return 4
	case RatioWiden8, RatioNarrow8:
		return 8
	default:
		return 1
	}
}

// RatioOf returns the conversion ratio from one element type to another.
func RatioOf(from, to ElementType) (Ratio, error) {
	if !from.Valid() || !to.Valid() {
		return 0, invalidf("conversion between invalid element types %v and %v", from, to)
	}
	return RatioOfSizes(from.Size(), to.Size())
}

// RatioOfSizes returns the conversion ratio between elements of the given
// byte sizes. Only ratios of 1, 2, 4 and 8 in either direction exist.
func RatioOfSizes(fromBytes, toBytes int) (Ratio, error) {
	if fromBytes > 0 && toBytes > 0 {
		switch {
		case toBytes == fromBytes:
			return RatioSame, nil
		case toBytes == 2*fromBytes:
			return RatioWiden2, nil
		case toBytes == 4*fromBytes:
			return RatioWiden4, nil
		case toBytes == 8*fromBytes:
			return RatioWiden8, nil
		case fromBytes == 2*toBytes:
			return RatioNarrow2, nil
		case fromBytes == 4*toBytes:
			return RatioNarrow4, nil
		case fromBytes == 8*toBytes:
			return RatioNarrow8, nil
		}
	}
	return 0, notSupportedf("no conversion from %d-byte to %d-byte elements", fromBytes, toBytes)
}

// Convert converts every lane of v to To, returning a vector of the same
// length laid out by the same registry. The ratio is checked, and the
// destination layout resolved, before any lane is converted.
//
// Float to integer conversion truncates toward zero.
func Convert[To, From hwy.Lanes](v Vec[From]) (Vec[To], error) {
	v.valid()
	ratio, err := RatioOf(ElementTypeOf[From](), ElementTypeOf[To]())
	if err != nil {
		return Vec[To]{}, err
	}
	l, err := NewLayout[To](v.layout.reg, v.Len())
	if err != nil {
		return Vec[To]{}, err
	}

	buf := make([]To, 0, v.Len())
	switch {
	case ratio == RatioSame:
		for _, c := range v.chunks {
			buf = appendLanes(buf, hwy.ConvertLanes[To](c))
		}
	case ratio <= RatioWiden8:
		// Each source register becomes Factor wider registers, unless its
		// lane count does not split evenly.
		f := ratio.Factor()
		for _, c := range v.chunks {
			if c.NumLanes()%f != 0 {
				buf = appendLanes(buf, hwy.ConvertLanes[To](c))
				continue
			}
			for _, part := range hwy.PromoteParts[To](c, f) {
				buf = appendLanes(buf, part)
			}
		}
	default:
		// Each run of Factor source registers is packed into one narrower register.
		f := ratio.Factor()
		for i := 0; i < len(v.chunks); i += f {
			buf = appendLanes(buf, hwy.DemoteConcat[To](v.chunks[i:min(i+f, len(v.chunks))]...))
		}
	}
	return l.Load(buf, hwy.Unaligned), nil
}

// MustConvert is like Convert but panics on error.
func MustConvert[To, From hwy.Lanes](v Vec[From]) Vec[To] {
	out, err := Convert[To](v)
	must.Nil(err, "datapar: convert")
	return out
}

func appendLanes[T hwy.Lanes](buf []T, v hwy.Vec[T]) []T {
	return append(buf, v.Data()...)
}

// checkRatio reports whether elements of From can be converted to To.
func checkRatio[To, From hwy.Lanes]() error {
	_, err := RatioOf(ElementTypeOf[From](), ElementTypeOf[To]())
	return err
}

// LoadFrom reads N elements of another type from src and converts them to
// T. The conversion ratio is checked before src is read. It panics if src
// is shorter than N.
func LoadFrom[T, U hwy.Lanes](l *Layout[T], src []U) (Vec[T], error) {
	if err := checkRatio[T, U](); err != nil {
		return Vec[T]{}, err
	}
	l.checkLen("LoadFrom", len(src))
	v := l.make()
	for i, d := range l.shape.Chunks {
		lanes := hwy.ConvertLanes[T](hwy.Load(src[d.Offset:], d.Width))
		v.chunks[i] = l.caps[i].Load(lanes.Data(), hwy.Unaligned)
	}
	return v, nil
}

// StoreTo converts the lanes of v to U and writes them to dst. The
// conversion ratio is checked before dst is written. It panics if dst is
// shorter than N.
func StoreTo[U, T hwy.Lanes](v Vec[T], dst []U) error {
	v.valid()
	if err := checkRatio[U, T](); err != nil {
		return err
	}
	v.layout.checkLen("StoreTo", len(dst))
	for i, d := range v.layout.shape.Chunks {
		hwy.Store(hwy.ConvertLanes[U](v.chunks[i]), dst[d.Offset:d.Offset+d.Width])
	}
	return nil
}

// MaskedLoadFrom is like MaskedLoad but reads elements of another type
// and converts them to T. Unselected elements of src are never read.
func MaskedLoadFrom[T, U hwy.Lanes](merge Vec[T], k Mask, src []U) (Vec[T], error) {
	merge.valid()
	if err := checkRatio[T, U](); err != nil {
		return Vec[T]{}, err
	}
	l := merge.layout
	k.mustLen(l.shape.N)
	if last := k.LastSet(); last >= len(src) {
		panicPrecondition("MaskedLoadFrom: lane %d selected but slice has length %d", last, len(src))
	}
	out := Vec[T]{layout: l, chunks: slices.Clone(merge.chunks)}
	for i, d := range l.shape.Chunks {
		sub := sliceMask[U](k, d)
		if !sub.AnyTrue() {
			continue
		}
		lanes := hwy.ConvertLanes[T](hwy.MaskLoad(hwy.Zero[U](d.Width), sub, src[d.Offset:]))
		out.chunks[i] = l.caps[i].Blend(sliceMask[T](k, d), lanes, merge.chunks[i])
	}
	return out, nil
}

// MaskedStoreTo converts the lanes of v selected by k to U and writes them
// to dst; other elements of dst are left untouched.
func MaskedStoreTo[U, T hwy.Lanes](v Vec[T], k Mask, dst []U) error {
	v.valid()
	if err := checkRatio[U, T](); err != nil {
		return err
	}
	l := v.layout
	k.mustLen(l.shape.N)
	if last := k.LastSet(); last >= len(dst) {
		panicPrecondition("MaskedStoreTo: lane %d selected but slice has length %d", last, len(dst))
	}
	for i, d := range l.shape.Chunks {
		sub := sliceMask[U](k, d)
		if !sub.AnyTrue() {
			continue
		}
		hwy.BlendedStore(hwy.ConvertLanes[U](v.chunks[i]), sub, dst[d.Offset:])
	}
	return nil
}
