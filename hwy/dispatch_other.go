//go:build !amd64 && !arm64

package hwy

func init() {
	// Non-amd64 architectures only get the scalar tier for now.
	// Future tiers will add:
	// - wasm: SIMD128 support
	// - riscv64: Vector extension support
	hostFeatures = FeatureSet{}
}
