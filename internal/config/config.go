// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the solver configuration of mcsolve from defaults,
// an optional YAML or JSON file, MCSOLVE_* environment variables and
// command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("config: invalid value")

// EnvPrefix is the prefix of environment variables. The key
// solver.max_iterations is read from MCSOLVE_SOLVER_MAX_ITERATIONS.
const EnvPrefix = "MCSOLVE"

type Config struct {
	Solver  SolverConfig  `mapstructure:"solver"`
	Precond PrecondConfig `mapstructure:"precond"`
	Refine  RefineConfig  `mapstructure:"refine"`

	// Lanes is the number of worker lanes. Zero means GOMAXPROCS.
	Lanes int `mapstructure:"lanes"`
	// Precision of the matrix coefficients: double, single or half.
	// Half rounds the coefficients through binary16 and computes in
	// single precision.
	Precision string `mapstructure:"precision"`
	// Coloring selects the row ordering of the parallel kernels:
	// levels, greedy or none. Greedy colorings are accepted only for
	// the Gauss-Seidel preconditioner.
	Coloring string `mapstructure:"coloring"`
	LogLevel string `mapstructure:"log_level"`
}

type SolverConfig struct {
	// Method is cg, bicgstab or gmres.
	Method        string  `mapstructure:"method"`
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
	// Restart is the GMRES restart length. Zero means no restarts.
	Restart int `mapstructure:"restart"`
}

type PrecondConfig struct {
	// Kind is none, ilu0, dilu or gauss-seidel.
	Kind        string  `mapstructure:"kind"`
	Sweeps      int     `mapstructure:"sweeps"`
	SingularTol float64 `mapstructure:"singular_tol"`
}

// RefineConfig enables mixed-precision refinement in place of the Krylov
// solve. The residual then uses single precision coefficients and the
// preconditioner acts as the smoother, stored in single or half precision.
type RefineConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Tolerance     float64 `mapstructure:"tolerance"`
	MaxIterations int     `mapstructure:"max_iterations"`
	MaxRestarts   int     `mapstructure:"max_restarts"`
	InnerSteps    int     `mapstructure:"inner_steps"`
}

// New returns a viper instance with the defaults set and environment
// lookup enabled.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("solver.method", "cg")
	v.SetDefault("solver.tolerance", 1e-8)
	v.SetDefault("solver.max_iterations", 0) // 0 = twice the dimension
	v.SetDefault("solver.restart", 0)

	v.SetDefault("precond.kind", "ilu0")
	v.SetDefault("precond.sweeps", 1)
	v.SetDefault("precond.singular_tol", 0.0)

	v.SetDefault("refine.enabled", false)
	v.SetDefault("refine.tolerance", 1e-12)
	v.SetDefault("refine.max_iterations", 100)
	v.SetDefault("refine.max_restarts", 3)
	v.SetDefault("refine.inner_steps", 1)

	v.SetDefault("lanes", 0)
	v.SetDefault("precision", "double")
	v.SetDefault("coloring", "levels")
	v.SetDefault("log_level", "info")
}

// Load reads the file at path into v, if path is not empty, and returns
// the validated configuration.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the ranges and enumerations of c.
func (c *Config) Validate() error {
	switch {
	case !oneOf(c.Solver.Method, "cg", "bicgstab", "gmres"):
		return fmt.Errorf("%w: solver.method %q", ErrInvalid, c.Solver.Method)
	case c.Solver.Tolerance <= 0 || 1 <= c.Solver.Tolerance:
		return fmt.Errorf("%w: solver.tolerance %v not in (0, 1)", ErrInvalid, c.Solver.Tolerance)
	case c.Solver.MaxIterations < 0:
		return fmt.Errorf("%w: solver.max_iterations %d", ErrInvalid, c.Solver.MaxIterations)
	case c.Solver.Restart < 0:
		return fmt.Errorf("%w: solver.restart %d", ErrInvalid, c.Solver.Restart)
	case !oneOf(c.Precond.Kind, "none", "ilu0", "dilu", "gauss-seidel"):
		return fmt.Errorf("%w: precond.kind %q", ErrInvalid, c.Precond.Kind)
	case c.Precond.Sweeps < 1:
		return fmt.Errorf("%w: precond.sweeps %d", ErrInvalid, c.Precond.Sweeps)
	case c.Precond.SingularTol < 0:
		return fmt.Errorf("%w: precond.singular_tol %v", ErrInvalid, c.Precond.SingularTol)
	case c.Refine.Tolerance <= 0 || 1 <= c.Refine.Tolerance:
		return fmt.Errorf("%w: refine.tolerance %v not in (0, 1)", ErrInvalid, c.Refine.Tolerance)
	case c.Refine.MaxIterations < 1, c.Refine.MaxRestarts < 0, c.Refine.InnerSteps < 1:
		return fmt.Errorf("%w: refine limits", ErrInvalid)
	case c.Refine.Enabled && c.Precond.Kind == "none":
		return fmt.Errorf("%w: refinement needs a preconditioner as smoother", ErrInvalid)
	case c.Lanes < 0:
		return fmt.Errorf("%w: lanes %d", ErrInvalid, c.Lanes)
	case !oneOf(c.Precision, "double", "single", "half"):
		return fmt.Errorf("%w: precision %q", ErrInvalid, c.Precision)
	case !oneOf(c.Coloring, "levels", "greedy", "none"):
		return fmt.Errorf("%w: coloring %q", ErrInvalid, c.Coloring)
	case c.Coloring == "greedy" && (c.Precond.Kind == "ilu0" || c.Precond.Kind == "dilu"):
		return fmt.Errorf("%w: greedy coloring cannot order a factorization", ErrInvalid)
	case !oneOf(c.LogLevel, "debug", "info", "warn", "error"):
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

func oneOf(s string, values ...string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}
