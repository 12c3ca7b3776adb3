package hwy

import (
	"fmt"
	"math"
)

// This file provides pure Go (scalar) implementations of type conversion operations.
// A conversion between lane types of different sizes changes the lane count
// per register: promotion splits one register into several, demotion
// concatenates several into one.

// ConvertLanes converts each lane of v to To, keeping the lane count.
// Float to integer conversion truncates toward zero; values outside the
// destination range give an implementation-defined result.
func ConvertLanes[To, From Lanes](v Vec[From]) Vec[To] {
	result := make([]To, len(v.data))
	for i := 0; i < len(v.data); i++ {
		result[i] = To(v.data[i])
	}
	return Vec[To]{data: result}
}

// PromoteParts converts v to a wider lane type and splits the result into
// parts registers of len(v)/parts lanes each, lowest lanes first.
// The lane count of v must be a multiple of parts.
func PromoteParts[To, From Lanes](v Vec[From], parts int) []Vec[To] {
	n := len(v.data)
	if parts <= 0 || n%parts != 0 {
		panic(fmt.Sprintf("hwy: cannot split %d lanes into %d parts", n, parts))
	}
	width := n / parts
	out := make([]Vec[To], parts)
	for p := range parts {
		out[p] = ConvertLanes[To](Vec[From]{data: v.data[p*width : (p+1)*width]})
	}
	return out
}

// DemoteConcat converts every register in vs to a narrower lane type and
// concatenates them in order into one register.
func DemoteConcat[To, From Lanes](vs ...Vec[From]) Vec[To] {
	total := 0
	for _, v := range vs {
		total += len(v.data)
	}
	result := make([]To, 0, total)
	for _, v := range vs {
		for _, x := range v.data {
			result = append(result, To(x))
		}
	}
	return Vec[To]{data: result}
}

// Round rounds each lane to the nearest integer, with halfway cases
// rounded away from zero. Integer lanes are returned unchanged, as by
// Trunc, Ceil and Floor.
func Round[T Lanes](v Vec[T]) Vec[T] {
	return roundLanes(v, math.Round)
}

// Trunc truncates each lane toward zero.
func Trunc[T Lanes](v Vec[T]) Vec[T] {
	return roundLanes(v, math.Trunc)
}

// Ceil rounds each lane up (toward positive infinity).
func Ceil[T Lanes](v Vec[T]) Vec[T] {
	return roundLanes(v, math.Ceil)
}

// Floor rounds each lane down (toward negative infinity).
func Floor[T Lanes](v Vec[T]) Vec[T] {
	return roundLanes(v, math.Floor)
}

// roundLanes applies fn to every lane. Integer lanes are already integral
// and are returned unchanged.
func roundLanes[T Lanes](v Vec[T], fn func(float64) float64) Vec[T] {
	if !IsFloat[T]() {
		return v
	}
	result := make([]T, len(v.data))
	for i := 0; i < len(v.data); i++ {
		result[i] = T(fn(float64(v.data[i])))
	}
	return Vec[T]{data: result}
}
