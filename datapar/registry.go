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
	"sync"

	"github.com/ajroetker/go-datapar/hwy"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"
	"github.com/samber/lo"
)

// Registry maps each (tier, element type) pair to the capability that
// implements it. A registry is built once by NewRegistry and never changes
// afterwards, so lookups need no locking.
//
// Each registry owns a cache of the shapes selected from it.
type Registry struct {
	features hwy.FeatureSet
	priority []hwy.Tier
	entries  map[capKey]entry

	shapes sync.Map // shapeKey -> *Shape
}

type capKey struct {
	tier hwy.Tier
	et   ElementType
}

type entry struct {
	cap   any // hwy.Capability[T] for the T of et
	width int
	align int
}

// Entry describes one registration, for diagnostics.
type Entry struct {
	Tier  hwy.Tier
	Type  ElementType
	Width int
	Align int
}

func (e Entry) String() string {
	return fmt.Sprintf("%v/%v: %d lanes, %d-byte aligned", e.Tier, e.Type, e.Width, e.Align)
}

// An Option configures a registry under construction.
type Option func(*builder)

type builder struct {
	features   hwy.FeatureSet
	priority   []hwy.Tier
	noDefaults bool
	explicit   []registration
}

type registration struct {
	key   capKey
	entry entry
}

// WithFeatures sets the feature set that decides which tiers are
// available. The default is hwy.HostFeatures().
func WithFeatures(f hwy.FeatureSet) Option {
	return func(b *builder) { b.features = f }
}

// WithTiers makes exactly the given tiers (plus the scalar tier) available.
func WithTiers(tiers ...hwy.Tier) Option {
	return func(b *builder) { b.features = hwy.FeaturesOf(tiers...) }
}

// WithPriority sets the order in which tiers are tried when covering a
// width. Tiers left out of the list are never selected. The default is
// hwy.DefaultPriority.
func WithPriority(tiers ...hwy.Tier) Option {
	return func(b *builder) { b.priority = slices.Clone(tiers) }
}

// WithoutDefaults stops the registry from registering the portable
// capability of every available tier. Only capabilities added with
// WithCapability are then registered.
func WithoutDefaults() Option {
	return func(b *builder) { b.noDefaults = true }
}

// WithCapability registers c for its tier and lane type. Registering two
// capabilities for the same pair makes NewRegistry fail.
func WithCapability[T hwy.Lanes](c hwy.Capability[T]) Option {
	return func(b *builder) {
		b.explicit = append(b.explicit, registration{
			key:   capKey{c.Tier(), ElementTypeOf[T]()},
			entry: entry{cap: canonical(c), width: c.Width(), align: c.Align()},
		})
	}
}

// NewRegistry builds a frozen registry. Configuration errors (a duplicate
// registration, a capability for an unavailable tier, an invalid tier in
// the priority list) are reported here, before any composite exists.
func NewRegistry(opts ...Option) (*Registry, error) {
	b := builder{
		features: hwy.HostFeatures(),
		priority: hwy.DefaultPriority,
	}
	for _, opt := range opts {
		opt(&b)
	}

	for _, t := range b.priority {
		if !t.Valid() {
			return nil, invalidf("priority lists invalid tier %d", int(t))
		}
	}
	if dups := lo.FindDuplicates(b.priority); len(dups) > 0 {
		return nil, invalidf("priority lists tier %v more than once", dups[0])
	}

	r := &Registry{
		features: b.features,
		priority: b.features.Tiers(b.priority),
		entries:  make(map[capKey]entry),
	}
	for _, reg := range b.explicit {
		if !b.features.Has(reg.key.tier) {
			return nil, notSupportedf("capability for %v/%v registered but tier %v is not available", reg.key.tier, reg.key.et, reg.key.tier)
		}
		if reg.entry.width <= 0 {
			return nil, invalidf("capability for %v/%v has width %d", reg.key.tier, reg.key.et, reg.entry.width)
		}
		if a := reg.entry.align; a <= 0 || a&(a-1) != 0 {
			return nil, invalidf("capability for %v/%v has alignment %d, want a power of two", reg.key.tier, reg.key.et, a)
		}
		if _, dup := r.entries[reg.key]; dup {
			return nil, notSupportedf("duplicate capability registration for %v/%v", reg.key.tier, reg.key.et)
		}
		r.entries[reg.key] = reg.entry
	}
	if !b.noDefaults {
		for _, t := range r.priority {
			for _, et := range ElementTypes {
				key := capKey{t, et}
				if _, ok := r.entries[key]; ok {
					continue
				}
				r.entries[key] = portableEntry(t, et)
			}
		}
	}

	log.Debug.Printf("datapar: registry for %v: %d capabilities, priority %v", r.features, len(r.entries), r.priority)
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(opts ...Option) *Registry {
	r, err := NewRegistry(opts...)
	must.Nil(err)
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return MustRegistry()
})

// DefaultRegistry returns the registry of the running CPU: every tier in
// hwy.HostFeatures with the portable capability for every element type.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

func portableEntry(t hwy.Tier, et ElementType) entry {
	switch et {
	case Int8:
		return entryOf(hwy.NewCapability[int8](t))
	case Int16:
		return entryOf(hwy.NewCapability[int16](t))
	case Int32:
		return entryOf(hwy.NewCapability[int32](t))
	case Int64:
		return entryOf(hwy.NewCapability[int64](t))
	case Uint8:
		return entryOf(hwy.NewCapability[uint8](t))
	case Uint16:
		return entryOf(hwy.NewCapability[uint16](t))
	case Uint32:
		return entryOf(hwy.NewCapability[uint32](t))
	case Uint64:
		return entryOf(hwy.NewCapability[uint64](t))
	case Float32:
		return entryOf(hwy.NewCapability[float32](t))
	case Float64:
		return entryOf(hwy.NewCapability[float64](t))
	}
	panic(fmt.Sprintf("datapar: no portable capability for %v", et))
}

func entryOf[T hwy.Lanes](c hwy.Capability[T]) entry {
	return entry{cap: c, width: c.Width(), align: c.Align()}
}

// Features returns the feature set the registry was built for.
func (r *Registry) Features() hwy.FeatureSet {
	return r.features
}

// Tiers returns the available tiers in priority order.
func (r *Registry) Tiers() []hwy.Tier {
	return slices.Clone(r.priority)
}

// Width returns the native lane count registered for (t, et).
func (r *Registry) Width(t hwy.Tier, et ElementType) (int, bool) {
	e, ok := r.entries[capKey{t, et}]
	return e.width, ok
}

// Supports reports whether any tier has a capability for et.
func (r *Registry) Supports(et ElementType) bool {
	return lo.SomeBy(r.priority, func(t hwy.Tier) bool {
		_, ok := r.entries[capKey{t, et}]
		return ok
	})
}

// Entries lists every registration in priority order, then by element type.
func (r *Registry) Entries() []Entry {
	var out []Entry
	for _, t := range r.priority {
		for _, et := range ElementTypes {
			if e, ok := r.entries[capKey{t, et}]; ok {
				out = append(out, Entry{Tier: t, Type: et, Width: e.width, Align: e.align})
			}
		}
	}
	return out
}

func (r *Registry) String() string {
	return fmt.Sprintf("Registry(%v)", r.features)
}

// CapabilityOf returns the capability registered for tier t and lane type T.
//
// A named lane type resolves to the capability registered for its
// underlying type, retyped with hwy.Retype.
func CapabilityOf[T hwy.Lanes](r *Registry, t hwy.Tier) (hwy.Capability[T], bool) {
	et := ElementTypeOf[T]()
	e, ok := r.entries[capKey{t, et}]
	if !ok {
		return nil, false
	}
	if c, ok := e.cap.(hwy.Capability[T]); ok {
		return c, true
	}
	return retype[T](e.cap, et), true
}

// canonical returns c as a capability of the predeclared type behind T,
// the form entries are stored in.
func canonical[T hwy.Lanes](c hwy.Capability[T]) any {
	switch ElementTypeOf[T]() {
	case Int8:
		return hwy.Retype[int8](c)
	case Int16:
		return hwy.Retype[int16](c)
	case Int32:
		return hwy.Retype[int32](c)
	case Int64:
		return hwy.Retype[int64](c)
	case Uint8:
		return hwy.Retype[uint8](c)
	case Uint16:
		return hwy.Retype[uint16](c)
	case Uint32:
		return hwy.Retype[uint32](c)
	case Uint64:
		return hwy.Retype[uint64](c)
	case Float32:
		return hwy.Retype[float32](c)
	case Float64:
		return hwy.Retype[float64](c)
	}
	panic(fmt.Sprintf("datapar: no element type for %T", c))
}

func retype[T hwy.Lanes](c any, et ElementType) hwy.Capability[T] {
	switch et {
	case Int8:
		return hwy.Retype[T](c.(hwy.Capability[int8]))
	case Int16:
		return hwy.Retype[T](c.(hwy.Capability[int16]))
	case Int32:
		return hwy.Retype[T](c.(hwy.Capability[int32]))
	case Int64:
		return hwy.Retype[T](c.(hwy.Capability[int64]))
	case Uint8:
		return hwy.Retype[T](c.(hwy.Capability[uint8]))
	case Uint16:
		return hwy.Retype[T](c.(hwy.Capability[uint16]))
	case Uint32:
		return hwy.Retype[T](c.(hwy.Capability[uint32]))
	case Uint64:
		return hwy.Retype[T](c.(hwy.Capability[uint64]))
	case Float32:
		return hwy.Retype[T](c.(hwy.Capability[float32]))
	case Float64:
		return hwy.Retype[T](c.(hwy.Capability[float64]))
	}
	panic(fmt.Sprintf("datapar: cannot retype capability for %v", et))
}
