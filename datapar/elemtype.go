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
	"reflect"
	"strings"

	"github.com/ajroetker/go-datapar/hwy"
	"github.com/grailbio/base/errors"
)

// ElementType identifies the lane type of a vector independently of any
// Go type parameter. Named types share the ElementType of their
// underlying type.
type ElementType int

const (
	InvalidType ElementType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

// ElementTypes lists every valid element type.
var ElementTypes = []ElementType{Int8, Int16, Int32, Int64, Uint8, Uint16, Uint32, Uint64, Float32, Float64}

var elementTypeNames = [...]string{"invalid", "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64", "float32", "float64"}

func (et ElementType) String() string {
	if et.Valid() {
		return elementTypeNames[et]
	}
	return "invalid"
}

// Valid reports whether et is one of the declared element types.
func (et ElementType) Valid() bool {
	return et > InvalidType && et <= Float64
}

// Size returns the size of one element in bytes, or 0 for InvalidType.
func (et ElementType) Size() int {
	switch et {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// Signed reports whether et can hold negative values.
func (et ElementType) Signed() bool {
	switch et {
	case Int8, Int16, Int32, Int64, Float32, Float64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether et is a floating-point type.
func (et ElementType) IsFloat() bool {
	return et == Float32 || et == Float64
}

// ParseElementType returns the element type with the given name.
func ParseElementType(name string) (ElementType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, et := range ElementTypes {
		if et.String() == name {
			return et, nil
		}
	}
	return InvalidType, errors.E(errors.Invalid, "unknown element type", name)
}

var kindTypes = map[reflect.Kind]ElementType{
	reflect.Int8:    Int8,
	reflect.Int16:   Int16,
	reflect.Int32:   Int32,
	reflect.Int64:   Int64,
	reflect.Uint8:   Uint8,
	reflect.Uint16:  Uint16,
	reflect.Uint32:  Uint32,
	reflect.Uint64:  Uint64,
	reflect.Float32: Float32,
	reflect.Float64: Float64,
}

// ElementTypeOf returns the element type of T.
func ElementTypeOf[T hwy.Lanes]() ElementType {
	return kindTypes[reflect.TypeFor[T]().Kind()]
}
