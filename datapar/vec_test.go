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
	"testing"

	"github.com/ajroetker/go-datapar/hwy"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastSum(t *testing.T) {
	l := MustLayout[int32](avx2Registry(t), 12)
	v := l.Broadcast(3)

	assert.Equal(t, 2, v.NumChunks())
	assert.Equal(t, 8, v.Chunk(0).NumLanes())
	assert.Equal(t, 4, v.Chunk(1).NumLanes())
	assert.Equal(t, int32(36), v.Sum())
}

func TestLoadStoreRoundTrip(t *testing.T) {
	r := MustRegistry(WithFeatures(hwy.AllFeatures()))
	for _, n := range []int{1, 3, 7, 16, 17, 33, 100} {
		l := MustLayout[float64](r, n)
		src := make([]float64, n)
		for i := range src {
			src[i] = float64(i)*1.5 - 4
		}
		v := l.Load(src, hwy.Unaligned)

		dst := make([]float64, n+2)
		dst[n], dst[n+1] = -1, -1
		v.Store(dst, hwy.Unaligned)
		if diff := cmp.Diff(src, dst[:n]); diff != "" {
			t.Errorf("n=%d: round trip mismatch (-want +got):\n%s", n, diff)
		}
		assert.Equal(t, []float64{-1, -1}, dst[n:], "n=%d: wrote past the vector", n)
		assert.Equal(t, src, v.Slice())
	}
}

func TestLoadCopiesSource(t *testing.T) {
	l := MustLayout[int16](avx2Registry(t), 20)
	src := make([]int16, 20)
	v := l.Load(src, hwy.Unaligned)
	src[3] = 9
	assert.Equal(t, int16(0), v.Get(3))
}

func TestLoadShortSlicePanics(t *testing.T) {
	l := MustLayout[uint32](avx2Registry(t), 12)
	requirePrecondition(t, func() { l.Load(make([]uint32, 11), hwy.Unaligned) })
	v := l.Zero()
	requirePrecondition(t, func() { v.Store(make([]uint32, 11), hwy.Unaligned) })
}

func TestGetSet(t *testing.T) {
	l := MustLayout[int32](avx2Registry(t), 13)
	a := l.Iota(0)
	for i := 0; i < 13; i++ {
		assert.Equal(t, int32(i), a.Get(i))
	}

	b := a
	b.Set(2, 100)
	b.Set(12, -1)
	assert.Equal(t, int32(100), b.Get(2))
	assert.Equal(t, int32(-1), b.Get(12))
	// a shares no chunk storage with b after Set.
	assert.Equal(t, int32(2), a.Get(2))
	assert.Equal(t, int32(12), a.Get(12))

	requirePrecondition(t, func() { a.Get(13) })
	requirePrecondition(t, func() { b.Set(-1, 0) })
}

func TestGenerate(t *testing.T) {
	l := MustLayout[uint8](avx2Registry(t), 48)
	v := l.Generate(func(i int) uint8 { return uint8(i * i) })
	for i := 0; i < 48; i++ {
		assert.Equal(t, uint8(i*i), v.Get(i))
	}
	assert.Equal(t, []int{32, 16}, v.Shape().Widths())
}

func TestVecString(t *testing.T) {
	l := MustLayout[int32](avx2Registry(t), 13)
	assert.Equal(t, "[0 1 2 3 4 5 6 7 | 8 9 10 11 | 12]", l.Iota(0).String())
	assert.Equal(t, "Vec{}", Vec[int32]{}.String())
}

func TestZeroVecPanics(t *testing.T) {
	var v Vec[float32]
	requirePrecondition(t, func() { v.Len() })
	requirePrecondition(t, func() { v.Sum() })
}

func TestMaskedStoreLoad(t *testing.T) {
	l := MustLayout[float64](avx2Registry(t), 13)
	v := l.Iota(1)
	k := MaskFromFunc(13, func(i int) bool { return i%3 == 0 })

	dst := make([]float64, 13)
	for i := range dst {
		dst[i] = -1
	}
	v.MaskedStore(k, dst)
	for i, x := range dst {
		if i%3 == 0 {
			assert.Equal(t, float64(i+1), x, "lane %d", i)
		} else {
			assert.Equal(t, float64(-1), x, "lane %d", i)
		}
	}

	merge := l.Broadcast(7)
	got := MaskedLoad(merge, k, dst)
	for i := 0; i < 13; i++ {
		if i%3 == 0 {
			assert.Equal(t, float64(i+1), got.Get(i), "lane %d", i)
		} else {
			assert.Equal(t, float64(7), got.Get(i), "lane %d", i)
		}
	}
}

func TestMaskedAccessShortSlice(t *testing.T) {
	l := MustLayout[int32](avx2Registry(t), 13)
	v := l.Iota(0)

	// Only the lanes up to the last selected one have to exist.
	k := MaskFromFunc(13, func(i int) bool { return i < 5 })
	dst := make([]int32, 5)
	v.MaskedStore(k, dst)
	assert.Equal(t, []int32{0, 1, 2, 3, 4}, dst)

	got := MaskedLoad(l.Zero(), k, []int32{9, 9, 9, 9, 9})
	assert.Equal(t, int32(9), got.Get(4))
	assert.Equal(t, int32(0), got.Get(5))

	requirePrecondition(t, func() { v.MaskedStore(FullMask(13), dst) })
	requirePrecondition(t, func() { MaskedLoad(l.Zero(), FullMask(13), dst) })
	requirePrecondition(t, func() { v.MaskedStore(FullMask(12), make([]int32, 13)) })
}

// hintRecorder wraps a capability and records the alignment hint of
// every Load and Store.
type hintRecorder struct {
	hwy.Capability[float32]
	hints *[]hwy.Alignment
}

func (c hintRecorder) Load(src []float32, a hwy.Alignment) hwy.Vec[float32] {
	*c.hints = append(*c.hints, a)
	return c.Capability.Load(src, a)
}

func (c hintRecorder) Store(v hwy.Vec[float32], dst []float32, a hwy.Alignment) {
	*c.hints = append(*c.hints, a)
	c.Capability.Store(v, dst, a)
}

func TestAlignmentHints(t *testing.T) {
	var hints []hwy.Alignment
	r, err := NewRegistry(
		WithTiers(hwy.TierAVX2, hwy.TierSSE2),
		WithCapability[float32](hintRecorder{hwy.NewCapability[float32](hwy.TierAVX2), &hints}),
		WithCapability[float32](hintRecorder{hwy.NewCapability[float32](hwy.TierSSE2), &hints}),
	)
	require.NoError(t, err)
	l := MustLayout[float32](r, 12)
	require.Equal(t, 32, l.Shape().MaxAlign())

	buf := hwy.MakeAligned[float32](16, 32)

	// The second chunk starts 32 bytes in, which is 16-byte aligned.
	hints = nil
	v := l.Load(buf, hwy.Unaligned)
	assert.Equal(t, []hwy.Alignment{hwy.Unaligned, hwy.VectorAligned}, hints)

	hints = nil
	v.Store(buf, hwy.VectorAligned)
	assert.Equal(t, []hwy.Alignment{hwy.VectorAligned, hwy.VectorAligned}, hints)

	// One element in, nothing is known beyond element alignment.
	hints = nil
	l.Load(buf[1:], hwy.ElementAligned)
	assert.Equal(t, []hwy.Alignment{hwy.ElementAligned, hwy.ElementAligned}, hints)

	// The native load rejects a misaligned VectorAligned access.
	assert.Panics(t, func() { l.Load(buf[1:], hwy.VectorAligned) })
}

func TestMismatchedShapesPanic(t *testing.T) {
	r := avx2Registry(t)
	a := MustLayout[int32](r, 12).Zero()
	b := MustLayout[int32](r, 13).Zero()
	requirePrecondition(t, func() { a.Add(b) })
	requirePrecondition(t, func() { a.Equal(b) })

	// Equal shapes from distinct registries are compatible.
	c := MustLayout[int32](avx2Registry(t), 12).Broadcast(2)
	assert.Equal(t, int32(24), a.Add(c).Sum())
}

func BenchmarkLoadStore(b *testing.B) {
	l := MustLayout[float32](DefaultRegistry(), 100)
	src := make([]float32, 100)
	dst := make([]float32, 100)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l.Load(src, hwy.Unaligned).Store(dst, hwy.Unaligned)
	}
}
