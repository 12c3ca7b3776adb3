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

//go:build amd64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	// Check if SIMD is disabled via environment variable
	if NoSimdEnv() {
		hostFeatures = FeatureSet{}
		return
	}

	hostFeatures = detectCPUFeatures()
}

func detectCPUFeatures() FeatureSet {
	var f FeatureSet
	// SSE2 is baseline for amd64, but x/sys/cpu reports it anyway.
	f.SSE2 = cpu.X86.HasSSE2
	f.AVX2 = cpu.X86.HasAVX && cpu.X86.HasAVX2
	// Byte and word lanes need BW; without it 8/16-bit ops would be emulated.
	f.AVX512 = cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW && cpu.X86.HasAVX512VL
	return f
}
