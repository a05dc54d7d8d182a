package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stevencartavia/cairo-native/internal/config"
	"github.com/stevencartavia/cairo-native/internal/driver"
	"github.com/stevencartavia/cairo-native/internal/trace"
)

var errorColor = color.New(color.FgRed, color.Bold)

var (
	compileOutput  string
	compileNoCache bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "write IR to file (default: stdout or [emit].output)")
	compileCmd.Flags().BoolVar(&compileNoCache, "no-cache", false, "bypass the compiled-program cache")
}

var compileCmd = &cobra.Command{
	Use:   "compile <program.json>",
	Short: "Lower a Sierra program artifact to LLVM IR",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return fail(cmd, err)
		}
		tracer, cleanup, err := setupTracing(cmd, cfg)
		if err != nil {
			return fail(cmd, err)
		}
		defer cleanup()

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fail(cmd, err)
		}

		cache, err := openCache(cfg)
		if err != nil {
			return fail(cmd, err)
		}

		res, hit, err := driver.CompileCached(raw, cache, tracer)
		if err != nil {
			return fail(cmd, err)
		}
		if hit {
			trace.Phase(tracer, "served from cache")
		}

		out := compileOutput
		if out == "" {
			out = cfg.Emit.Output
		}
		if out == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), res.IR)
		} else {
			err = os.WriteFile(out, []byte(res.IR), 0o644)
		}
		if err != nil {
			return fail(cmd, err)
		}
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the compiled-program cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return fail(cmd, err)
		}
		cache, err := openCache(cfg)
		if err != nil {
			return fail(cmd, err)
		}
		if cache == nil {
			return nil
		}
		if err := cache.DropAll(); err != nil {
			return fail(cmd, err)
		}
		return nil
	},
}

// resolveConfig loads the manifest named by --config, or walks up from the
// working directory, then layers trace flags on top.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	root := cmd.Root()
	path, err := root.PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}

	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, _, err = config.Find(".")
	}
	if err != nil {
		return config.Config{}, err
	}

	if lvl, err := root.PersistentFlags().GetString("trace-level"); err == nil && lvl != "" {
		if _, perr := trace.ParseLevel(lvl); perr != nil {
			return config.Config{}, perr
		}
		cfg.Trace.Level = lvl
	}
	if out, err := root.PersistentFlags().GetString("trace-output"); err == nil && out != "" {
		cfg.Trace.Output = out
	}
	return cfg, nil
}

// setupTracing builds the tracer the configuration asks for. The cleanup
// function flushes and closes any opened trace file.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, func(), error) {
	level := cfg.TraceLevel()
	if level == trace.LevelOff {
		return trace.Nop, func() {}, nil
	}

	w := cmd.ErrOrStderr()
	var closeFile func()
	if cfg.Trace.Output != "" {
		f, err := os.Create(cfg.Trace.Output)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
		}
		w = f
		closeFile = func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
			}
		}
	}

	tracer := trace.NewStreamTracer(w, level)
	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if closeFile != nil {
			closeFile()
		}
	}
	return tracer, cleanup, nil
}

func openCache(cfg config.Config) (*driver.DiskCache, error) {
	if compileNoCache || !cfg.Cache.Enabled {
		return nil, nil
	}
	if cfg.Cache.Dir != "" {
		return driver.OpenDiskCacheAt(cfg.Cache.Dir)
	}
	return driver.OpenDiskCache("sierra2llvm")
}

// fail renders the error in red on stderr and returns it silenced, so cobra
// does not print it a second time.
func fail(cmd *cobra.Command, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	errorColor.Fprintf(cmd.ErrOrStderr(), "error: ")
	fmt.Fprintln(cmd.ErrOrStderr(), err)
	return err
}
