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
	"os"
	"strconv"
	"strings"
)

// Tier is an instruction-set generation with its own native register width.
type Tier int

const (
	// TierScalar is plain Go with one lane per register. It is always
	// available and is the guaranteed fallback of every selection.
	TierScalar Tier = iota

	// TierSSE2 indicates SSE2 instructions (128-bit SIMD, x86-64 baseline).
	TierSSE2

	// TierAVX2 indicates AVX2 instructions (256-bit SIMD).
	TierAVX2

	// TierAVX512 indicates AVX-512 instructions (512-bit SIMD).
	TierAVX512

	// TierNEON indicates ARM NEON instructions (128-bit SIMD).
	TierNEON

	// TierSVE indicates ARM SVE instructions. The vector length is
	// implementation defined; 256 bits is assumed (Graviton3, A64FX is 512).
	TierSVE

	numTiers
)

// AllTiers lists every tier in declaration order.
var AllTiers = []Tier{TierScalar, TierSSE2, TierAVX2, TierAVX512, TierNEON, TierSVE}

// DefaultPriority is the widest-first order in which tiers are tried when
// covering a logical width. Tiers of equal width keep this relative order,
// so native single-instruction widths are listed before emulated ones.
var DefaultPriority = []Tier{TierAVX512, TierAVX2, TierSVE, TierNEON, TierSSE2, TierScalar}

// String returns a human-readable name for the tier.
func (t Tier) String() string {
	switch t {
	case TierScalar:
		return "scalar"
	case TierSSE2:
		return "sse2"
	case TierAVX2:
		return "avx2"
	case TierAVX512:
		return "avx512"
	case TierNEON:
		return "neon"
	case TierSVE:
		return "sve"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the declared tiers.
func (t Tier) Valid() bool {
	return t >= TierScalar && t < numTiers
}

// ParseTier returns the tier with the given name, as printed by String.
func ParseTier(name string) (Tier, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range AllTiers {
		if t.String() == name {
			return t, true
		}
	}
	return TierScalar, false
}

// RegisterBytes returns the register width of the tier in bytes.
// The scalar tier has no register: it returns 0 and holds one lane of any type.
func (t Tier) RegisterBytes() int {
	switch t {
	case TierSSE2, TierNEON:
		return 16
	case TierAVX2, TierSVE:
		return 32
	case TierAVX512:
		return 64
	default:
		return 0
	}
}

// LanesFor returns the native lane count of tier t for elements of
// elemSize bytes, or 0 if the element does not fit the register.
//
// For example, with AVX2 (256 bits / 32 bytes):
//   - float32: 32/4 = 8 lanes
//   - float64: 32/8 = 4 lanes
//   - int8: 32/1 = 32 lanes
func (t Tier) LanesFor(elemSize int) int {
	if elemSize <= 0 {
		return 0
	}
	if t == TierScalar {
		return 1
	}
	return t.RegisterBytes() / elemSize
}

// AlignFor returns the byte alignment a VectorAligned access of tier t
// requires for elements of elemSize bytes.
func (t Tier) AlignFor(elemSize int) int {
	if t == TierScalar {
		return elemSize
	}
	return t.RegisterBytes()
}

// NoSimdEnv checks if the HWY_NO_SIMD environment variable is set.
// When set, only the scalar tier is reported as available regardless of
// CPU capabilities. This is useful for testing and debugging.
func NoSimdEnv() bool {
	val := os.Getenv("HWY_NO_SIMD")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
