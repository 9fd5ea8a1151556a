// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vladimir-ch/multicolor"
	"github.com/vladimir-ch/multicolor/crs"
	"github.com/vladimir-ch/multicolor/dw"
	"github.com/vladimir-ch/multicolor/internal/config"
	"github.com/vladimir-ch/multicolor/internal/gen"
	"github.com/vladimir-ch/multicolor/lanes"
)

func newSolveCmd(a *app) *cobra.Command {
	var (
		prob   problemFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve A*x = b for b of all ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.solve(cmd.OutOrStdout(), &prob, output)
		},
	}

	f := cmd.Flags()
	prob.register(f)
	f.StringVarP(&output, "output", "o", "", "write the solution to this file, one value per line")
	f.String("method", "cg", "Krylov method: cg, bicgstab or gmres")
	f.Float64("tol", 1e-8, "relative residual tolerance")
	f.Int("max-iter", 0, "iteration limit, 0 for twice the dimension")
	f.Int("restart", 0, "GMRES restart length, 0 for none")
	f.String("precond", "ilu0", "preconditioner: none, ilu0, dilu or gauss-seidel")
	f.Int("sweeps", 1, "Gauss-Seidel sweeps per application")
	f.String("coloring", "levels", "row ordering: levels, greedy or none")
	f.String("precision", "double", "preconditioner precision: double, single or half")
	f.Bool("refine", false, "use mixed-precision iterative refinement")
	bind(a.v, f, map[string]string{
		"solver.method":         "method",
		"solver.tolerance":      "tol",
		"solver.max_iterations": "max-iter",
		"solver.restart":        "restart",
		"precond.kind":          "precond",
		"precond.sweeps":        "sweeps",
		"coloring":              "coloring",
		"precision":             "precision",
		"refine.enabled":        "refine",
	})
	return cmd
}

func (a *app) solve(w io.Writer, prob *problemFlags, output string) error {
	m, name, err := prob.load()
	if err != nil {
		return err
	}
	pool := lanes.New(a.cfg.Lanes)
	defer pool.Close()

	part := partition(m, a.cfg.Coloring)
	log := a.log.WithFields(logrus.Fields{
		"matrix": name,
		"rows":   m.Owned(),
		"nnz":    m.Owned() + m.NNZ(),
		"lanes":  pool.NumLanes(),
	})
	if part != nil {
		log = log.WithField("colors", part.NumColors())
	}
	log.Info("problem loaded")

	ps := multicolor.PrecondSettings[int32]{
		Pool:        pool,
		Partition:   part,
		SingularTol: a.cfg.Precond.SingularTol,
		Sweeps:      a.cfg.Precond.Sweeps,
	}
	var x []float64
	if a.cfg.Refine.Enabled {
		x, err = refine(w, pool, m, ps, a.cfg, log)
	} else {
		x, err = krylov(w, pool, m, ps, a.cfg, log)
	}
	if x != nil && output != "" {
		if werr := writeVector(output, x); err == nil {
			err = werr
		}
	}
	return err
}

func krylov(w io.Writer, pool *lanes.Pool, m *crs.Matrix[int32, float64], ps multicolor.PrecondSettings[int32], cfg *config.Config, log *logrus.Entry) ([]float64, error) {
	var (
		pc  multicolor.Preconditioner
		err error
	)
	switch cfg.Precision {
	case "double":
		pc, err = newPreconditioner(m, cfg.Precond.Kind, ps)
	default:
		m32 := crs.Convert[int32, float32](m)
		if cfg.Precision == "half" {
			crs.RoundHalf(m32)
		}
		pc, err = newPreconditioner(m32, cfg.Precond.Kind, ps)
	}
	if err != nil {
		return nil, err
	}

	s := multicolor.Settings{
		Tolerance:     cfg.Solver.Tolerance,
		MaxIterations: cfg.Solver.MaxIterations,
		Logger:        log,
	}
	if pc != nil {
		s.PSolve = pc.PSolve
	}
	res, err := multicolor.LinearSolve(multicolor.CRSOps(pool, m, nil), gen.Ones(m.Owned()), method(cfg.Solver, m.Owned()), s)
	fmt.Fprintf(w, "method:      %s\n", cfg.Solver.Method)
	fmt.Fprintf(w, "iterations:  %d\n", res.Stats.Iterations)
	fmt.Fprintf(w, "matvec:      %d\n", res.Stats.MatVec)
	fmt.Fprintf(w, "psolve:      %d\n", res.Stats.PSolve)
	fmt.Fprintf(w, "residual:    %.6e\n", res.Stats.ResidualNorm)
	fmt.Fprintf(w, "runtime:     %v\n", res.Stats.Runtime)
	fmt.Fprintf(w, "status:      %s\n", status(err))
	if err != nil {
		return res.X, fmt.Errorf("solve: %w", err)
	}
	return res.X, nil
}

func refine(w io.Writer, pool *lanes.Pool, m *crs.Matrix[int32, float64], ps multicolor.PrecondSettings[int32], cfg *config.Config, log *logrus.Entry) ([]float64, error) {
	a := crs.Convert[int32, float32](m)
	sm := a
	if cfg.Precision == "half" {
		sm = a.Clone()
		crs.RoundHalf(sm)
	}
	smoother, err := newPreconditioner(sm, cfg.Precond.Kind, ps)
	if err != nil {
		return nil, err
	}
	b := make([]float32, a.Owned())
	for i := range b {
		b[i] = 1
	}
	res, err := multicolor.Refine(pool, a, b, smoother, multicolor.RefineSettings{
		Tolerance:     cfg.Refine.Tolerance,
		MaxIterations: cfg.Refine.MaxIterations,
		MaxRestarts:   cfg.Refine.MaxRestarts,
		InnerSteps:    cfg.Refine.InnerSteps,
		Logger:        log,
	})
	x := make([]float64, len(res.X))
	dw.ToFloat64s(x, res.X)
	fmt.Fprintf(w, "method:      refinement\n")
	fmt.Fprintf(w, "iterations:  %d\n", res.Iterations)
	fmt.Fprintf(w, "restarts:    %d\n", res.Restarts)
	fmt.Fprintf(w, "residual:    %.6e\n", res.ResidualNorm)
	fmt.Fprintf(w, "runtime:     %v\n", res.Runtime)
	fmt.Fprintf(w, "status:      %s\n", status(err))
	if err != nil {
		return x, fmt.Errorf("refine: %w", err)
	}
	return x, nil
}

func status(err error) string {
	if err != nil {
		return err.Error()
	}
	return "converged"
}

func method(s config.SolverConfig, dim int) multicolor.Method {
	switch s.Method {
	case "bicgstab":
		return &multicolor.BiCGSTAB{}
	case "gmres":
		return &multicolor.GMRES{Restart: min(s.Restart, dim)}
	}
	return &multicolor.CG{}
}

// preconditioner is implemented by the preconditioners of the multicolor
// package stored in precision T.
type preconditioner[T crs.Float] interface {
	multicolor.Preconditioner
	Solve(x, b []T)
}

// newPreconditioner returns nil for the kind none.
func newPreconditioner[T crs.Float](a *crs.Matrix[int32, T], kind string, s multicolor.PrecondSettings[int32]) (preconditioner[T], error) {
	switch kind {
	case "ilu0":
		m, err := multicolor.NewILU0(a, s)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "dilu":
		m, err := multicolor.NewDILU(a, s)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "gauss-seidel":
		return multicolor.NewGaussSeidel(a, s), nil
	}
	return nil, nil
}
