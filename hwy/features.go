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

import "strings"

// FeatureSet describes which tiers a target can execute. It is a plain
// value: build one, hand it to a registry, never change it afterwards.
//
// The scalar tier is implied and cannot be switched off.
type FeatureSet struct {
	SSE2   bool
	AVX2   bool
	AVX512 bool
	NEON   bool
	SVE    bool
}

// hostFeatures is detected once by init() in dispatch_*.go files.
var hostFeatures FeatureSet

// HostFeatures returns the feature set detected for the running CPU.
// With HWY_NO_SIMD set it is empty, leaving only the scalar tier.
func HostFeatures() FeatureSet {
	return hostFeatures
}

// AllFeatures returns a feature set with every tier enabled. The portable
// kernels run on any CPU, so this is useful to exercise shapes of other
// targets (for example AVX-512 shapes on an arm64 laptop).
func AllFeatures() FeatureSet {
	return FeatureSet{SSE2: true, AVX2: true, AVX512: true, NEON: true, SVE: true}
}

// FeaturesOf returns a feature set enabling exactly the given tiers.
func FeaturesOf(tiers ...Tier) FeatureSet {
	var f FeatureSet
	for _, t := range tiers {
		switch t {
		case TierSSE2:
			f.SSE2 = true
		case TierAVX2:
			f.AVX2 = true
		case TierAVX512:
			f.AVX512 = true
		case TierNEON:
			f.NEON = true
		case TierSVE:
			f.SVE = true
		}
	}
	return f
}

// Has reports whether tier t is available.
func (f FeatureSet) Has(t Tier) bool {
	switch t {
	case TierScalar:
		return true
	case TierSSE2:
		return f.SSE2
	case TierAVX2:
		return f.AVX2
	case TierAVX512:
		return f.AVX512
	case TierNEON:
		return f.NEON
	case TierSVE:
		return f.SVE
	default:
		return false
	}
}

// Tiers returns the available tiers in the order given by priority.
func (f FeatureSet) Tiers(priority []Tier) []Tier {
	var out []Tier
	for _, t := range priority {
		if f.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Best returns the widest available tier according to DefaultPriority.
func (f FeatureSet) Best() Tier {
	for _, t := range DefaultPriority {
		if f.Has(t) {
			return t
		}
	}
	return TierScalar
}

func (f FeatureSet) String() string {
	names := make([]string, 0, len(AllTiers))
	for _, t := range DefaultPriority {
		if f.Has(t) {
			names = append(names, t.String())
		}
	}
	return strings.Join(names, ",")
}

// CurrentTier returns the widest tier available on the running CPU.
func CurrentTier() Tier {
	return hostFeatures.Best()
}

// CurrentWidth returns the SIMD register width in bytes of CurrentTier.
// For example: 16 for SSE2/NEON, 32 for AVX2, 64 for AVX-512.
// The scalar tier reports 16 so that MaxLanes stays meaningful.
func CurrentWidth() int {
	if w := CurrentTier().RegisterBytes(); w > 0 {
		return w
	}
	return 16
}

// MaxLanes returns the maximum number of lanes for type T with the current SIMD width.
//
// For example, with AVX2 (256 bits / 32 bytes):
//   - float32: 32/4 = 8 lanes
//   - float64: 32/8 = 4 lanes
//   - int32: 32/4 = 8 lanes
func MaxLanes[T Lanes]() int {
	return CurrentWidth() / SizeOf[T]()
}
