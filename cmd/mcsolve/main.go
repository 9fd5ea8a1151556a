// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command mcsolve solves sparse linear systems with multicolor-parallel
// kernels and benchmarks the kernels against their sequential forms.
//
// Usage:
//
//	mcsolve solve --nx 128 --ny 128 --method cg --precond dilu
//	mcsolve solve --matrix bcsstk14.mtx --refine --precision half
//	mcsolve bench --nx 512 --ny 512 --lanes 8
//
// Settings are read from the file given by --config, from MCSOLVE_*
// environment variables and from flags.
package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vladimir-ch/multicolor/internal/config"
)

type app struct {
	v          *viper.Viper
	configPath string

	cfg *config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:          "mcsolve",
		Short:        "Solve sparse linear systems with multicolor-parallel kernels",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = setupLogger(cfg.LogLevel, cmd.ErrOrStderr())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "configuration file (yaml or json)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.Int("lanes", 0, "number of worker lanes, 0 for GOMAXPROCS")
	bind(a.v, pf, map[string]string{
		"log_level": "log-level",
		"lanes":     "lanes",
	})

	root.AddCommand(newSolveCmd(a), newBenchCmd(a))
	return root
}

// bind binds the flags of fs to the viper keys.
func bind(v *viper.Viper, fs *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func setupLogger(level string, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
