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

	"github.com/grailbio/base/errors"
)

// Errors returned by this package carry a kind from
// github.com/grailbio/base/errors:
//
//   - errors.NotSupported: the registry cannot serve a request (no
//     capability for an element type, duplicate registration, a width that
//     cannot be covered, an unsupported conversion ratio).
//   - errors.Invalid: a malformed argument such as a non-positive width or
//     an unknown name.
//
// Misuse of composite values (mismatched shapes, lane index out of range,
// slices shorter than the vector) is a programming error and panics with an
// error of kind errors.Precondition.

func notSupportedf(format string, args ...any) error {
	return errors.E(errors.NotSupported, fmt.Sprintf(format, args...))
}

func invalidf(format string, args ...any) error {
	return errors.E(errors.Invalid, fmt.Sprintf(format, args...))
}

func panicPrecondition(format string, args ...any) {
	panic(errors.E(errors.Precondition, fmt.Sprintf(format, args...)))
}

// IsPrecondition reports whether a value recovered from a panic is a
// precondition failure raised by this package.
func IsPrecondition(r any) bool {
	err, ok := r.(error)
	return ok && errors.Is(errors.Precondition, err)
}
