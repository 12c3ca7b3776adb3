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
	"github.com/grailbio/base/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryWidths(t *testing.T) {
	r := MustRegistry(WithFeatures(hwy.AllFeatures()))
	assert.Equal(t, hwy.DefaultPriority, r.Tiers())

	tests := []struct {
		tier hwy.Tier
		et   ElementType
		want int
	}{
		{hwy.TierAVX512, Float32, 16},
		{hwy.TierAVX512, Int8, 64},
		{hwy.TierAVX2, Float64, 4},
		{hwy.TierAVX2, Uint16, 16},
		{hwy.TierSVE, Int32, 8},
		{hwy.TierNEON, Float32, 4},
		{hwy.TierSSE2, Int64, 2},
		{hwy.TierScalar, Float64, 1},
		{hwy.TierScalar, Int8, 1},
	}
	for _, tt := range tests {
		w, ok := r.Width(tt.tier, tt.et)
		require.True(t, ok, "%v/%v", tt.tier, tt.et)
		assert.Equal(t, tt.want, w, "%v/%v", tt.tier, tt.et)
	}
	for _, et := range ElementTypes {
		assert.True(t, r.Supports(et), "%v", et)
	}
	assert.Len(t, r.Entries(), len(hwy.AllTiers)*len(ElementTypes))
}

func TestRegistryScalarAlwaysAvailable(t *testing.T) {
	r := MustRegistry(WithFeatures(hwy.FeatureSet{}))
	assert.Equal(t, []hwy.Tier{hwy.TierScalar}, r.Tiers())

	s, err := Select(r, Float64, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, s.Widths())
}

func TestRegistryExplicitOverridesDefault(t *testing.T) {
	custom := hwy.NewCapability[int32](hwy.TierSSE2)
	r := MustRegistry(WithTiers(hwy.TierSSE2), WithCapability(custom))

	c, ok := CapabilityOf[int32](r, hwy.TierSSE2)
	require.True(t, ok)
	assert.Same(t, custom, c)

	// Other types still get the portable default.
	_, ok = CapabilityOf[float32](r, hwy.TierSSE2)
	assert.True(t, ok)
	// Tiers outside the feature set have nothing.
	_, ok = CapabilityOf[int32](r, hwy.TierAVX2)
	assert.False(t, ok)
}

func TestRegistryErrors(t *testing.T) {
	sse := hwy.NewCapability[int32](hwy.TierSSE2)

	_, err := NewRegistry(WithTiers(hwy.TierSSE2), WithCapability(sse), WithCapability(sse))
	assert.True(t, errors.Is(errors.NotSupported, err), "duplicate: %v", err)

	_, err = NewRegistry(WithTiers(hwy.TierNEON), WithCapability(sse))
	assert.True(t, errors.Is(errors.NotSupported, err), "unavailable tier: %v", err)

	_, err = NewRegistry(WithPriority(hwy.TierSSE2, hwy.TierSSE2))
	assert.True(t, errors.Is(errors.Invalid, err), "repeated priority: %v", err)

	_, err = NewRegistry(WithPriority(hwy.Tier(99)))
	assert.True(t, errors.Is(errors.Invalid, err), "invalid tier: %v", err)

	for _, align := range []int{0, -16, 24} {
		_, err = NewRegistry(WithTiers(hwy.TierSSE2), WithCapability[int32](aligned{sse, align}))
		assert.True(t, errors.Is(errors.Invalid, err), "align %d: %v", align, err)
	}

	assert.Panics(t, func() { MustRegistry(WithCapability(sse), WithCapability(sse), WithTiers(hwy.TierSSE2)) })
}

// aligned reports a fixed alignment for an otherwise portable capability.
type aligned struct {
	hwy.Capability[int32]
	align int
}

func (c aligned) Align() int { return c.align }

// counting counts the broadcasts made through a float32 capability.
type counting struct {
	hwy.Capability[float32]
	n *int
}

func (c counting) Broadcast(x float32) hwy.Vec[float32] {
	*c.n++
	return c.Capability.Broadcast(x)
}

type celsius float32

func TestCapabilityOfNamedType(t *testing.T) {
	r := avx2Registry(t)
	l := MustLayout[celsius](r, 12)
	assert.Equal(t, []int{8, 4}, l.Shape().Widths())
	assert.Equal(t, celsius(30), l.Broadcast(2.5).Sum())
}

func TestCapabilityOfNamedTypeUsesRegistration(t *testing.T) {
	var n int
	custom := counting{hwy.NewCapability[float32](hwy.TierSSE2), &n}
	r := MustRegistry(WithTiers(hwy.TierSSE2), WithCapability[float32](custom))

	c, ok := CapabilityOf[float32](r, hwy.TierSSE2)
	require.True(t, ok)
	assert.Equal(t, custom, c)

	named, ok := CapabilityOf[celsius](r, hwy.TierSSE2)
	require.True(t, ok)
	v := named.Broadcast(1.5)
	assert.Equal(t, 1, n, "broadcast of the named type goes through the registered capability")
	assert.Equal(t, celsius(6), named.ReduceOp(v, hwy.OpAdd))

	// The same holds for every chunk of a layout.
	n = 0
	l := MustLayout[celsius](r, 9)
	assert.Equal(t, []int{4, 4, 1}, l.Shape().Widths())
	assert.Equal(t, celsius(18), l.Broadcast(2).Sum())
	assert.Equal(t, 2, n)

	// A capability registered for the named type serves the predeclared one.
	n = 0
	r = MustRegistry(WithTiers(hwy.TierSSE2), WithCapability(hwy.Retype[celsius](hwy.Capability[float32](custom))))
	c, ok = CapabilityOf[float32](r, hwy.TierSSE2)
	require.True(t, ok)
	c.Broadcast(0)
	assert.Equal(t, 1, n)
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Same(t, r, DefaultRegistry())
	assert.Equal(t, hwy.HostFeatures(), r.Features())

	l, err := For[float32](10)
	require.NoError(t, err)
	assert.Same(t, r, l.Registry())
	assert.Equal(t, 10, l.Len())
}

func TestElementTypes(t *testing.T) {
	assert.Equal(t, Int8, ElementTypeOf[int8]())
	assert.Equal(t, Uint64, ElementTypeOf[uint64]())
	assert.Equal(t, Float32, ElementTypeOf[celsius]())

	for _, et := range ElementTypes {
		got, err := ParseElementType(et.String())
		require.NoError(t, err)
		assert.Equal(t, et, got)
	}
	got, err := ParseElementType(" Float64 ")
	require.NoError(t, err)
	assert.Equal(t, Float64, got)

	_, err = ParseElementType("complex64")
	assert.True(t, errors.Is(errors.Invalid, err), "%v", err)

	assert.Equal(t, 8, Float64.Size())
	assert.True(t, Int16.Signed())
	assert.False(t, Uint16.Signed())
	assert.True(t, Float32.IsFloat())
	assert.Equal(t, "invalid", InvalidType.String())
}
