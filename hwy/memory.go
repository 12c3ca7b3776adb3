package hwy

import (
	"fmt"
	"unsafe"
)

// MaskLoad returns merge with the lanes selected by mask replaced by the
// corresponding elements of src. Unselected elements of src are never
// read, so src may be shorter than the vector as long as every selected
// lane is in range.
//
// Example:
//
//	k := hwy.TailMask[float32](3, 8)
//	v := hwy.MaskLoad(hwy.Zero[float32](8), k, data[len(data)-3:])
func MaskLoad[T Lanes](merge Vec[T], mask Mask[T], src []T) Vec[T] {
	n := len(merge.data)
	if len(mask.bits) != n {
		panic(fmt.Sprintf("hwy: mask of %d lanes used with %d-lane vector", len(mask.bits), n))
	}
	result := make([]T, n)
	copy(result, merge.data)
	for i := range n {
		if mask.bits[i] {
			result[i] = src[i]
		}
	}
	return Vec[T]{data: result}
}

// BlendedStore stores only the lanes where mask is true, preserving
// existing values in dst for lanes where mask is false.
//
// This differs from a full Store which overwrites every lane: the
// destination is never written outside the selected lanes, and selected
// lanes past len(dst) are not accessed.
//
// Example:
//
//	dst := []float32{1, 2, 3, 4}
//	v := hwy.Set[float32](0, 4)
//	k := hwy.TailMask[float32](2, 4)
//	hwy.BlendedStore(v, k, dst)
//	// dst is now [0, 0, 3, 4]
func BlendedStore[T Lanes](v Vec[T], mask Mask[T], dst []T) {
	n := min(len(dst), min(len(mask.bits), len(v.data)))
	for i := range n {
		if mask.bits[i] {
			dst[i] = v.data[i]
		}
		// else: dst[i] unchanged (the "blend" part)
	}
}

// RoundUpPow2 returns val rounded up to a multiple of alignment, assuming
// alignment is a power of 2.
func RoundUpPow2(val, alignment int) int {
	return (val + alignment - 1) & (^(alignment - 1))
}

// MakeAligned returns a zeroed slice of n elements whose first element is
// aligned to align bytes, so that VectorAligned accesses are legal.
// align must be a power of 2.
func MakeAligned[T Lanes](n, align int) []T {
	size := SizeOf[T]()
	if align <= size {
		return make([]T, n)
	}
	pad := (align + size - 1) / size
	buf := make([]T, n+pad)
	if len(buf) == 0 {
		return buf
	}
	addr := int(uintptr(unsafe.Pointer(&buf[0])))
	skip := (RoundUpPow2(addr, align) - addr) / size
	return buf[skip : skip+n : skip+n]
}

// IsAlignedPtr reports whether the first element of p sits on an align
// byte boundary. An empty slice is considered aligned.
func IsAlignedPtr[T Lanes](p []T, align int) bool {
	if len(p) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(&p[0]))%uintptr(align) == 0
}
