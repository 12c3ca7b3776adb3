package hwy

import (
	"math"
	"testing"
)

func TestLoad(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	v := Load(data, 8)

	if v.NumLanes() != 8 {
		t.Fatalf("Load: got %d lanes, want 8", v.NumLanes())
	}
	for i := 0; i < v.NumLanes(); i++ {
		if v.data[i] != data[i] {
			t.Errorf("Load: lane %d: got %v, want %v", i, v.data[i], data[i])
		}
	}

	// The vector must not alias the source.
	data[0] = 100
	if v.data[0] != 1 {
		t.Errorf("Load: vector aliases source slice")
	}
}

func TestLoadShortSlicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Load of 4 lanes from 3 elements did not panic")
		}
	}()
	Load([]int32{1, 2, 3}, 4)
}

func TestSet(t *testing.T) {
	v := Set[float32](42.0, 4)

	if v.NumLanes() != 4 {
		t.Fatalf("Set: got %d lanes, want 4", v.NumLanes())
	}
	for i := 0; i < v.NumLanes(); i++ {
		if v.data[i] != 42.0 {
			t.Errorf("Set: lane %d: got %v, want %v", i, v.data[i], 42.0)
		}
	}
}

func TestZero(t *testing.T) {
	v := Zero[int32](8)

	if v.NumLanes() != 8 {
		t.Fatalf("Zero: got %d lanes, want 8", v.NumLanes())
	}
	for i := 0; i < v.NumLanes(); i++ {
		if v.data[i] != 0 {
			t.Errorf("Zero: lane %d: got %v, want 0", i, v.data[i])
		}
	}
}

func TestIota(t *testing.T) {
	v := Iota[int16](5, 8)
	for i := 0; i < v.NumLanes(); i++ {
		if want := int16(5 + i); v.data[i] != want {
			t.Errorf("Iota: lane %d: got %v, want %v", i, v.data[i], want)
		}
	}
}

func TestWithLane(t *testing.T) {
	v := Set[int32](1, 4)
	w := WithLane(v, 2, 9)

	if GetLane(w, 2) != 9 {
		t.Errorf("WithLane: lane 2: got %v, want 9", GetLane(w, 2))
	}
	if GetLane(v, 2) != 1 {
		t.Errorf("WithLane: original modified: got %v, want 1", GetLane(v, 2))
	}
}

func TestAdd(t *testing.T) {
	a := Set[float32](10.0, 4)
	b := Set[float32](5.0, 4)
	result := Add(a, b)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 15.0 {
			t.Errorf("Add: lane %d: got %v, want 15.0", i, result.data[i])
		}
	}
}

func TestAddLaneMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Add of 4 and 8 lanes did not panic")
		}
	}()
	Add(Set[float32](1, 4), Set[float32](1, 8))
}

func TestSub(t *testing.T) {
	a := Set[float32](10.0, 4)
	b := Set[float32](3.0, 4)
	result := Sub(a, b)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 7.0 {
			t.Errorf("Sub: lane %d: got %v, want 7.0", i, result.data[i])
		}
	}
}

func TestMul(t *testing.T) {
	a := Set[float32](4.0, 4)
	b := Set[float32](5.0, 4)
	result := Mul(a, b)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 20.0 {
			t.Errorf("Mul: lane %d: got %v, want 20.0", i, result.data[i])
		}
	}
}

func TestDiv(t *testing.T) {
	a := Set[float32](20.0, 4)
	b := Set[float32](4.0, 4)
	result := Div(a, b)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 5.0 {
			t.Errorf("Div: lane %d: got %v, want 5.0", i, result.data[i])
		}
	}
}

func TestMod(t *testing.T) {
	a := Load([]int32{7, -7, 9, 10}, 4)
	b := Load([]int32{3, 3, 4, 5}, 4)
	want := []int32{1, -1, 1, 0}
	result := Mod(a, b)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != want[i] {
			t.Errorf("Mod: lane %d: got %v, want %v", i, result.data[i], want[i])
		}
	}

	ua := Load([]uint8{200, 255}, 2)
	ub := Load([]uint8{7, 16}, 2)
	uwant := []uint8{4, 15}
	uresult := Mod(ua, ub)
	for i := 0; i < uresult.NumLanes(); i++ {
		if uresult.data[i] != uwant[i] {
			t.Errorf("Mod uint8: lane %d: got %v, want %v", i, uresult.data[i], uwant[i])
		}
	}
}

func TestNeg(t *testing.T) {
	v := Load([]float64{1, -2}, 2)
	result := Neg(v)
	if result.data[0] != -1 || result.data[1] != 2 {
		t.Errorf("Neg: got %v, want [-1 2]", result.data)
	}
}

func TestAbs(t *testing.T) {
	v := Load([]int32{-3, 4, -5, 0}, 4)
	want := []int32{3, 4, 5, 0}
	result := Abs(v)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != want[i] {
			t.Errorf("Abs: lane %d: got %v, want %v", i, result.data[i], want[i])
		}
	}

	f := Abs(Load([]float32{-1.5, 2.5}, 2))
	if f.data[0] != 1.5 || f.data[1] != 2.5 {
		t.Errorf("Abs float32: got %v, want [1.5 2.5]", f.data)
	}
}

func TestMin(t *testing.T) {
	a := Load([]float32{1, 5, 3, 7}, 4)
	b := Load([]float32{2, 4, 6, 0}, 4)
	want := []float32{1, 4, 3, 0}
	result := Min(a, b)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != want[i] {
			t.Errorf("Min: lane %d: got %v, want %v", i, result.data[i], want[i])
		}
	}
}

func TestMax(t *testing.T) {
	a := Load([]float32{1, 5, 3, 7}, 4)
	b := Load([]float32{2, 4, 6, 0}, 4)
	want := []float32{2, 5, 6, 7}
	result := Max(a, b)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != want[i] {
			t.Errorf("Max: lane %d: got %v, want %v", i, result.data[i], want[i])
		}
	}
}

func TestSqrt(t *testing.T) {
	v := Set[float32](16.0, 4)
	result := Sqrt(v)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 4.0 {
			t.Errorf("Sqrt: lane %d: got %v, want 4.0", i, result.data[i])
		}
	}
}

func TestSqrtIntegerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Sqrt on int32 lanes did not panic")
		}
	}()
	Sqrt(Set[int32](4, 4))
}

func TestIncDec(t *testing.T) {
	v := Load([]uint8{0, 255}, 2)
	inc := Inc(v)
	dec := Dec(v)

	if inc.data[0] != 1 || inc.data[1] != 0 {
		t.Errorf("Inc: got %v, want [1 0]", inc.data)
	}
	if dec.data[0] != 255 || dec.data[1] != 254 {
		t.Errorf("Dec: got %v, want [255 254]", dec.data)
	}
}

func TestReduceSum(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6, 7, 8}
	v := Load(data, 8)
	if sum := ReduceSum(v); sum != 36 {
		t.Errorf("ReduceSum: got %v, want 36", sum)
	}
}

func TestReduceOddLanes(t *testing.T) {
	// Odd lane counts fold the upper half onto the lower half.
	v := Load([]int64{1, 2, 3, 4, 5}, 5)
	if sum := ReduceSum(v); sum != 15 {
		t.Errorf("ReduceSum: got %v, want 15", sum)
	}
	if m := ReduceMin(v); m != 1 {
		t.Errorf("ReduceMin: got %v, want 1", m)
	}
	if m := ReduceMax(v); m != 5 {
		t.Errorf("ReduceMax: got %v, want 5", m)
	}
}

func TestReduceOrder(t *testing.T) {
	// Record the order in which pairs are combined for 4 lanes.
	v := Load([]int32{1, 2, 3, 4}, 4)
	var pairs [][2]int32
	Reduce(v, func(a, b int32) int32 {
		pairs = append(pairs, [2]int32{a, b})
		return a + b
	})
	want := [][2]int32{{1, 3}, {2, 4}, {4, 6}}
	if len(pairs) != len(want) {
		t.Fatalf("Reduce: got %d combinations, want %d", len(pairs), len(want))
	}
	for i := range want {
		if pairs[i] != want[i] {
			t.Errorf("Reduce: step %d: got %v, want %v", i, pairs[i], want[i])
		}
	}
}

func TestReduceSingleLane(t *testing.T) {
	v := Set[float64](2.5, 1)
	if got := Reduce(v, func(a, b float64) float64 { t.Error("fn called for one lane"); return a }); got != 2.5 {
		t.Errorf("Reduce: got %v, want 2.5", got)
	}
}

func TestEqual(t *testing.T) {
	a := Load([]float32{1, 2, 3, 4}, 4)
	b := Load([]float32{1, 0, 3, 0}, 4)
	mask := Equal(a, b)

	expected := []bool{true, false, true, false}
	for i := 0; i < mask.NumLanes(); i++ {
		if mask.GetBit(i) != expected[i] {
			t.Errorf("Equal: lane %d: got %v, want %v", i, mask.GetBit(i), expected[i])
		}
	}
}

func TestComparisons(t *testing.T) {
	a := Load([]int32{1, 5, 3}, 3)
	b := Load([]int32{2, 5, 1}, 3)

	tests := []struct {
		name string
		got  Mask[int32]
		want []bool
	}{
		{"NotEqual", NotEqual(a, b), []bool{true, false, true}},
		{"LessThan", LessThan(a, b), []bool{true, false, false}},
		{"LessEqual", LessEqual(a, b), []bool{true, true, false}},
		{"GreaterThan", GreaterThan(a, b), []bool{false, false, true}},
		{"GreaterEqual", GreaterEqual(a, b), []bool{false, true, true}},
	}
	for _, tt := range tests {
		for i, want := range tt.want {
			if tt.got.GetBit(i) != want {
				t.Errorf("%s: lane %d: got %v, want %v", tt.name, i, tt.got.GetBit(i), want)
			}
		}
	}
}

func TestIfThenElse(t *testing.T) {
	a := Set[float32](1.0, 4)
	b := Set[float32](2.0, 4)
	mask := MaskFromBools[float32]([]bool{true, false, false, true})
	result := IfThenElse(mask, a, b)

	expected := []float32{1, 2, 2, 1}
	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != expected[i] {
			t.Errorf("IfThenElse: lane %d: got %v, want %v", i, result.data[i], expected[i])
		}
	}
}

func TestMaskAllTrue(t *testing.T) {
	if !MaskFromBools[int8]([]bool{true, true}).AllTrue() {
		t.Error("AllTrue: got false for all-true mask")
	}
	if MaskFromBools[int8]([]bool{true, false}).AllTrue() {
		t.Error("AllTrue: got true for mixed mask")
	}
}

func TestMaskAnyTrue(t *testing.T) {
	if MaskFromBools[int8]([]bool{false, false}).AnyTrue() {
		t.Error("AnyTrue: got true for all-false mask")
	}
	m := MaskFromBools[int8]([]bool{false, true, true})
	if !m.AnyTrue() {
		t.Error("AnyTrue: got false for mixed mask")
	}
	if m.CountTrue() != 2 {
		t.Errorf("CountTrue: got %d, want 2", m.CountTrue())
	}
}

func TestAnd(t *testing.T) {
	a := Set[int32](0b1100, 4)
	b := Set[int32](0b1010, 4)
	result := And(a, b)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 0b1000 {
			t.Errorf("And: lane %d: got %b, want 1000", i, result.data[i])
		}
	}
}

func TestOr(t *testing.T) {
	result := Or(Set[uint16](0b1100, 8), Set[uint16](0b1010, 8))
	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 0b1110 {
			t.Errorf("Or: lane %d: got %b, want 1110", i, result.data[i])
		}
	}
}

func TestXor(t *testing.T) {
	result := Xor(Set[int64](0b1100, 2), Set[int64](0b1010, 2))
	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 0b0110 {
			t.Errorf("Xor: lane %d: got %b, want 110", i, result.data[i])
		}
	}
}

func TestNot(t *testing.T) {
	result := Not(Set[uint8](0x0f, 16))
	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 0xf0 {
			t.Errorf("Not: lane %d: got %#x, want 0xf0", i, result.data[i])
		}
	}
}

func TestAndNot(t *testing.T) {
	// AndNot(a, b) = ~a & b
	result := AndNot(Set[int32](0b1100, 4), Set[int32](0b1010, 4))
	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 0b0010 {
			t.Errorf("AndNot: lane %d: got %b, want 10", i, result.data[i])
		}
	}
}

func TestBitwiseFloat(t *testing.T) {
	// Clearing the sign bit of a float is Abs.
	v := Load([]float32{-1.5, 2}, 2)
	signMask := Set(float32(math.Copysign(0, -1)), 2)
	result := AndNot(signMask, v)
	if result.data[0] != 1.5 || result.data[1] != 2 {
		t.Errorf("AndNot float32: got %v, want [1.5 2]", result.data)
	}
}

func TestShiftLeft(t *testing.T) {
	v := Set[int32](1, 4)
	result := ShiftLeft(v, 4)

	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != 16 {
			t.Errorf("ShiftLeft: lane %d: got %v, want 16", i, result.data[i])
		}
	}
}

func TestShiftRight(t *testing.T) {
	// Arithmetic shift for signed
	v := Set[int32](-16, 4)
	result := ShiftRight(v, 2)
	for i := 0; i < result.NumLanes(); i++ {
		if result.data[i] != -4 {
			t.Errorf("ShiftRight signed: lane %d: got %v, want -4", i, result.data[i])
		}
	}

	// Logical shift for unsigned
	u := Set[uint8](0x80, 16)
	uresult := ShiftRight(u, 7)
	for i := 0; i < uresult.NumLanes(); i++ {
		if uresult.data[i] != 1 {
			t.Errorf("ShiftRight unsigned: lane %d: got %v, want 1", i, uresult.data[i])
		}
	}
}

func TestShiftVec(t *testing.T) {
	a := Load([]uint32{1, 2, 0x80000000, 16}, 4)
	b := Load([]uint32{0, 3, 31, 4}, 4)

	left := ShiftLeftVec(a, b)
	wantLeft := []uint32{1, 16, 0, 256}
	right := ShiftRightVec(a, b)
	wantRight := []uint32{1, 0, 1, 1}
	for i := range 4 {
		if left.data[i] != wantLeft[i] {
			t.Errorf("ShiftLeftVec: lane %d: got %v, want %v", i, left.data[i], wantLeft[i])
		}
		if right.data[i] != wantRight[i] {
			t.Errorf("ShiftRightVec: lane %d: got %v, want %v", i, right.data[i], wantRight[i])
		}
	}
}

func TestShiftFloatPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ShiftLeft on float32 lanes did not panic")
		}
	}()
	ShiftLeft(Set[float32](1, 4), 1)
}

func TestTypeHelpers(t *testing.T) {
	if !IsFloat[float32]() || !IsFloat[float64]() || IsFloat[int32]() || IsFloat[uint8]() {
		t.Error("IsFloat: wrong classification")
	}
	if !IsSigned[int8]() || !IsSigned[float64]() || IsSigned[uint64]() {
		t.Error("IsSigned: wrong classification")
	}
	if SizeOf[int16]() != 2 || SizeOf[float64]() != 8 {
		t.Error("SizeOf: wrong size")
	}
}

func TestMaskFromBoolsCopies(t *testing.T) {
	bits := []bool{true, false}
	m := MaskFromBools[int32](bits)
	bits[1] = true
	if m.GetBit(1) {
		t.Error("MaskFromBools: mask aliases input slice")
	}
	if m.GetBit(5) {
		t.Error("GetBit: out of range lane reported set")
	}
}

func TestProcessWithTail(t *testing.T) {
	var full []int
	var tailOffset, tailCount int
	ProcessWithTail(19, 8,
		func(offset int) { full = append(full, offset) },
		func(offset, count int) { tailOffset, tailCount = offset, count },
	)

	if len(full) != 2 || full[0] != 0 || full[1] != 8 {
		t.Errorf("ProcessWithTail: full offsets got %v, want [0 8]", full)
	}
	if tailOffset != 16 || tailCount != 3 {
		t.Errorf("ProcessWithTail: tail got (%d, %d), want (16, 3)", tailOffset, tailCount)
	}
}

func TestTailMask(t *testing.T) {
	m := TailMask[float32](3, 8)
	if m.NumLanes() != 8 {
		t.Fatalf("TailMask: got %d lanes, want 8", m.NumLanes())
	}
	for i := 0; i < 8; i++ {
		if m.GetBit(i) != (i < 3) {
			t.Errorf("TailMask: lane %d: got %v, want %v", i, m.GetBit(i), i < 3)
		}
	}
	if TailMask[float32](12, 4).CountTrue() != 4 {
		t.Error("TailMask: count larger than lanes not clamped")
	}
	if TailMask[float32](-1, 4).AnyTrue() {
		t.Error("TailMask: negative count not clamped")
	}
}

func TestAlignedSize(t *testing.T) {
	tests := []struct {
		size, lanes, want int
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{13, 4, 16},
		{5, 0, 5},
	}
	for _, tt := range tests {
		if got := AlignedSize(tt.size, tt.lanes); got != tt.want {
			t.Errorf("AlignedSize(%d, %d): got %d, want %d", tt.size, tt.lanes, got, tt.want)
		}
	}
}

func BenchmarkAdd(b *testing.B) {
	x := Set[float32](1, 8)
	y := Set[float32](2, 8)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = Add(x, y)
	}
}

func BenchmarkReduceSum(b *testing.B) {
	v := Iota[float32](0, 16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ReduceSum(v)
	}
}
