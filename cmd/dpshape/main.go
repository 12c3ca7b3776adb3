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

// Command dpshape prints how logical vectors are split into native
// registers.
//
//	dpshape shape -t int32 -n 12 --tiers avx2,sse2
//	dpshape tiers --all
//	dpshape cpu
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/ajroetker/go-datapar/datapar"
	"github.com/ajroetker/go-datapar/hwy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var logLevels = map[string]log.Level{
	"off":   log.Off,
	"error": log.Error,
	"info":  log.Info,
	"debug": log.Debug,
}

func newCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "dpshape",
		Short:         "Inspect composite vector shapes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("log")
			level, ok := logLevels[strings.ToLower(name)]
			if !ok {
				return errors.E(errors.Invalid, "unknown log level", name)
			}
			log.SetLevel(level)
			return nil
		},
	}
	root.PersistentFlags().String("log", "info", "log level (off, error, info, debug)")
	root.PersistentFlags().StringSlice("tiers", nil, "tiers to make available, scalar is always added (default: detected CPU)")
	root.PersistentFlags().StringSlice("priority", nil, "tier priority order (default: widest first)")
	root.PersistentFlags().Bool("all", false, "make every tier available")

	shape := &cobra.Command{
		Use:   "shape -t type -n lanes",
		Short: "Print the chunks covering n lanes of a type",
		Args:  cobra.NoArgs,
		RunE:  runShape,
	}
	shape.Flags().StringP("type", "t", "float32", "element type")
	shape.Flags().IntSliceP("lanes", "n", []int{8}, "logical vector lengths")

	tiers := &cobra.Command{
		Use:   "tiers",
		Short: "Print the registered capabilities",
		Args:  cobra.NoArgs,
		RunE:  runTiers,
	}

	cpu := &cobra.Command{
		Use:   "cpu",
		Short: "Print the CPU features detected at startup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printCPU(cmd.OutOrStdout())
			return nil
		},
	}

	root.AddCommand(shape, tiers, cpu)
	return root
}

// registryFromFlags builds the registry selected by --tiers, --all and
// --priority.
func registryFromFlags(cmd *cobra.Command) (*datapar.Registry, error) {
	var opts []datapar.Option
	if all, _ := cmd.Flags().GetBool("all"); all {
		opts = append(opts, datapar.WithFeatures(hwy.AllFeatures()))
	}
	if names, _ := cmd.Flags().GetStringSlice("tiers"); len(names) > 0 {
		tiers, err := parseTiers(names)
		if err != nil {
			return nil, err
		}
		opts = append(opts, datapar.WithTiers(tiers...))
	}
	if names, _ := cmd.Flags().GetStringSlice("priority"); len(names) > 0 {
		tiers, err := parseTiers(names)
		if err != nil {
			return nil, err
		}
		opts = append(opts, datapar.WithPriority(tiers...))
	}
	return datapar.NewRegistry(opts...)
}

func parseTiers(names []string) ([]hwy.Tier, error) {
	var unknown []string
	tiers := lo.FilterMap(names, func(name string, _ int) (hwy.Tier, bool) {
		t, ok := hwy.ParseTier(name)
		if !ok {
			unknown = append(unknown, name)
		}
		return t, ok
	})
	if len(unknown) > 0 {
		return nil, errors.E(errors.Invalid, "unknown tier", strings.Join(unknown, ","))
	}
	return tiers, nil
}

func runShape(cmd *cobra.Command, args []string) error {
	r, err := registryFromFlags(cmd)
	if err != nil {
		return err
	}
	typeName, _ := cmd.Flags().GetString("type")
	et, err := datapar.ParseElementType(typeName)
	if err != nil {
		return err
	}
	lanes, _ := cmd.Flags().GetIntSlice("lanes")
	w := cmd.OutOrStdout()
	for _, n := range lanes {
		s, err := datapar.Select(r, et, n)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, s)
		for i, d := range s.Chunks {
			fmt.Fprintf(w, "  chunk %d: %-7v width %-3d lanes [%d, %d)  align %d\n",
				i, d.Tier, d.Width, d.Offset, d.Offset+d.Width, d.Align)
		}
	}
	return nil
}

func runTiers(cmd *cobra.Command, args []string) error {
	r, err := registryFromFlags(cmd)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "features: %v\n", r.Features())
	fmt.Fprintf(w, "priority: %s\n", strings.Join(lo.Map(r.Tiers(), func(t hwy.Tier, _ int) string { return t.String() }), " > "))
	for _, t := range r.Tiers() {
		widths := lo.FilterMap(datapar.ElementTypes, func(et datapar.ElementType, _ int) (string, bool) {
			n, ok := r.Width(t, et)
			return fmt.Sprintf("%v:%d", et, n), ok
		})
		fmt.Fprintf(w, "  %-7v %s\n", t, strings.Join(widths, " "))
	}
	return nil
}

func printCPU(w io.Writer) {
	fmt.Fprintf(w, "GOOS: %s\n", runtime.GOOS)
	fmt.Fprintf(w, "GOARCH: %s\n", runtime.GOARCH)
	fmt.Fprintf(w, "NumCPU: %d\n", runtime.NumCPU())
	fmt.Fprintf(w, "HWY_NO_SIMD: %v\n", hwy.NoSimdEnv())
	fmt.Fprintf(w, "features: %v\n", hwy.HostFeatures())
	fmt.Fprintf(w, "best tier: %v (%d bytes)\n", hwy.CurrentTier(), hwy.CurrentWidth())
	printArchFeatures(w)
}

func main() {
	if err := newCommand().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
