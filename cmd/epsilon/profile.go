package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/spf13/cobra"

	"github.com/rawbytedev/epsilon"
)

type sampleSet struct {
	Labels   []string
	Mod      []int8
	Integers []int16
	Float3   []float32
	Float6   []float64
}

var sampleSetCodec = epsilon.Struct(
	epsilon.DeepField("labels", epsilon.DeepSliceOf(epsilon.String), func(s *sampleSet) *[]string { return &s.Labels }),
	epsilon.DeepField("mod", epsilon.SliceOf(epsilon.Int8), func(s *sampleSet) *[]int8 { return &s.Mod }),
	epsilon.DeepField("integers", epsilon.SliceOf(epsilon.Int16), func(s *sampleSet) *[]int16 { return &s.Integers }),
	epsilon.DeepField("float3", epsilon.SliceOf(epsilon.Float32), func(s *sampleSet) *[]float32 { return &s.Float3 }),
	epsilon.DeepField("float6", epsilon.SliceOf(epsilon.Float64), func(s *sampleSet) *[]float64 { return &s.Float6 }),
)

func newSampleSet() sampleSet {
	return sampleSet{
		Labels:   []string{"azerty", "hello", "world", "random"},
		Mod:      []int8{12, 10, 13, 0},
		Integers: []int16{100, 250, 300},
		Float3:   []float32{12.13, 16.23, 75.1},
		Float6:   []float64{100.5, 165.63, 153.5},
	}
}

// runProfile serializes and deserializes a sample value iterations times
// and writes a heap profile of the run to out.
func runProfile(w io.Writer, out string, iterations int, mode string, opts ...epsilon.Option) error {
	if mode != "eps" && mode != "full" {
		return fmt.Errorf("unknown mode %q", mode)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	rate := runtime.MemProfileRate
	runtime.MemProfileRate = 1
	defer func() { runtime.MemProfileRate = rate }()

	z := newSampleSet()
	start := time.Now()
	for i := 0; i < iterations; i++ {
		buf, err := epsilon.Marshal(sampleSetCodec, &z, opts...)
		if err != nil {
			return err
		}
		if mode == "eps" {
			_, err = epsilon.DeserializeEps(buf, sampleSetCodec, opts...)
		} else {
			_, err = epsilon.DeserializeFull(bytes.NewReader(buf), sampleSetCodec, opts...)
		}
		if err != nil {
			return err
		}
	}
	elapsed := time.Since(start)
	if err := pprof.WriteHeapProfile(f); err != nil {
		return err
	}
	perOp := time.Duration(0)
	if iterations > 0 {
		perOp = elapsed / time.Duration(iterations)
	}
	fmt.Fprintf(w, "%d round trips (%s) in %s, %s/op, heap profile in %s\n", iterations, mode, elapsed, perOp, out)
	return f.Close()
}

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile the memory use of serialization round trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := a.options()
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			iterations, _ := cmd.Flags().GetInt("iterations")
			mode, _ := cmd.Flags().GetString("mode")
			return runProfile(cmd.OutOrStdout(), out, iterations, mode, opts...)
		},
	}
	cmd.Flags().String("out", "mem.prof", "heap profile destination")
	cmd.Flags().Int("iterations", 10000, "number of round trips")
	cmd.Flags().String("mode", "eps", "deserialization mode (eps, full)")
	return cmd
}
