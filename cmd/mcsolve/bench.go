// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/dw"
	"github.com/vladimir-ch/multicolor/internal/coloring"
	"github.com/vladimir-ch/multicolor/internal/gen"
	"github.com/vladimir-ch/multicolor/kernel"
	"github.com/vladimir-ch/multicolor/lanes"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		prob   problemFlags
		repeat int
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time every kernel in its sequential and multicolor form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.bench(cmd.OutOrStdout(), &prob, repeat)
		},
	}
	prob.register(cmd.Flags())
	cmd.Flags().IntVar(&repeat, "repeat", 20, "number of timed calls per kernel")
	return cmd
}

// benchmark pairs the sequential form of a kernel with its parallel form.
type benchmark struct {
	name     string
	seq, col func()
}

func (a *app) bench(w io.Writer, prob *problemFlags, repeat int) error {
	if repeat < 1 {
		return errors.New("repeat count must be positive")
	}
	m, name, err := prob.load()
	if err != nil {
		return err
	}
	pool := lanes.New(a.cfg.Lanes)
	defer pool.Close()

	levels := coloring.Levels(m)
	greedy := coloring.Greedy(m)
	a.log.WithFields(logrus.Fields{
		"matrix":        name,
		"rows":          m.Owned(),
		"lanes":         pool.NumLanes(),
		"levels":        levels.NumColors(),
		"greedy_colors": greedy.NumColors(),
	}).Info("benchmark started")

	n := m.Owned()
	x := gen.Ones(m.Rows())
	b := gen.Ones(n)
	y := make([]float64, n)
	gs := make([]float64, m.Rows())
	lu := m.Clone()
	dlu := m.Clone()
	inv := make([]float64, n)

	m32 := crs.Convert[int32, float32](m)
	b32 := make([]float32, n)
	for i := range b32 {
		b32[i] = 1
	}
	y32 := make([]float32, n)
	xdw := make([]dw.Float, m.Rows())
	for i := range xdw {
		xdw[i] = dw.FromFloat32(1)
	}

	benchmarks := []benchmark{
		{"spmv",
			func() { kernel.SpMV(nil, y, m, x) },
			func() { kernel.SpMV(pool, y, m, x) }},
		{"residual",
			func() { kernel.Residual(nil, y, m, x, b) },
			func() { kernel.Residual(pool, y, m, x, b) }},
		{"residual-extended",
			func() { kernel.ResidualExtended(nil, y32, m32, xdw, b32, dw.Accurate) },
			func() { kernel.ResidualExtended(pool, y32, m32, xdw, b32, dw.Accurate) }},
		{"gauss-seidel",
			func() { kernel.GaussSeidel(nil, m, gs, b) },
			func() { kernel.GaussSeidelColored(pool, m, greedy, gs, b) }},
		{"factor-ilu0",
			func() {
				lu.CopyCoeffs(m)
				kernel.FactorILU0(lu)
			},
			func() {
				lu.CopyCoeffs(m)
				kernel.FactorILU0Colored(pool, lu, levels)
			}},
		{"solve-ilu0",
			func() { kernel.ILUSolve(lu, nil, y, b) },
			func() { kernel.ILUSolveColored(pool, lu, levels, nil, y, b) }},
		{"factor-dilu",
			func() {
				dlu.CopyCoeffs(m)
				kernel.FactorDILU(dlu)
				kernel.Reciprocal(nil, inv, dlu)
			},
			func() {
				dlu.CopyCoeffs(m)
				kernel.FactorDILUColored(pool, dlu, levels)
				kernel.Reciprocal(pool, inv, dlu)
			}},
		{"solve-dilu",
			func() { kernel.ILUSolve(dlu, inv, y, b) },
			func() { kernel.ILUSolveColored(pool, dlu, levels, inv, y, b) }},
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "kernel\tsequential\tcolored\tspeedup\t")
	for _, bm := range benchmarks {
		seq := timeCall(bm.seq, repeat)
		col := timeCall(bm.col, repeat)
		fmt.Fprintf(tw, "%s\t%v\t%v\t%.2f\t\n", bm.name, seq, col, float64(seq)/float64(max(col, 1)))
	}
	return tw.Flush()
}

// timeCall returns the mean duration of fn over repeat calls.
func timeCall(fn func(), repeat int) time.Duration {
	start := time.Now()
	for i := 0; i < repeat; i++ {
		fn()
	}
	return time.Since(start) / time.Duration(repeat)
}
