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

//go:build arm64

package main

import (
	"fmt"
	"io"

	"golang.org/x/sys/cpu"
)

func printArchFeatures(w io.Writer) {
	fmt.Fprintln(w, "=== golang.org/x/sys/cpu.ARM64 ===")
	fmt.Fprintf(w, "  HasASIMD:   %v (NEON baseline)\n", cpu.ARM64.HasASIMD)
	fmt.Fprintf(w, "  HasFP:      %v\n", cpu.ARM64.HasFP)
	fmt.Fprintf(w, "  HasASIMDHP: %v (FP16 NEON)\n", cpu.ARM64.HasASIMDHP)
	fmt.Fprintf(w, "  HasSVE:     %v\n", cpu.ARM64.HasSVE)
	fmt.Fprintf(w, "  HasSVE2:    %v\n", cpu.ARM64.HasSVE2)
}
