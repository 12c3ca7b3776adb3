//go:build arm64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	// Check for HWY_NO_SIMD environment variable first
	if NoSimdEnv() {
		hostFeatures = FeatureSet{}
		return
	}

	// ARM64 (AArch64) always has NEON (ASIMD) available.
	// It's part of the ARMv8-A base architecture.
	// We still check the cpu package for consistency.
	hostFeatures.NEON = cpu.ARM64.HasASIMD

	// SVE vector length is not exposed by x/sys/cpu; TierSVE assumes 256 bits.
	hostFeatures.SVE = cpu.ARM64.HasSVE
}
