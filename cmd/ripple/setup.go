package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ripple/internal/config"
	"ripple/internal/prof"
	"ripple/internal/trace"
)

// loadConfig reads --config, or the nearest ripple.toml, and applies the
// persistent flags on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Root().PersistentFlags()
	path, err := flags.GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return config.Config{}, err
	}

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	if colorFlag != "" {
		cfg.Output.Color = colorFlag
	}
	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get trace flag: %w", err)
	}
	traceLevel, err := flags.GetString("trace-level")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if traceOutput != "" {
		cfg.Trace.Output = traceOutput
		if traceLevel == "" && strings.EqualFold(cfg.Trace.Level, "off") {
			traceLevel = "phase"
		}
	}
	if traceLevel != "" {
		cfg.Trace.Level = traceLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// setupTracing builds the tracer described by cfg. The returned cleanup
// flushes and closes it.
func setupTracing(cmd *cobra.Command, cfg config.Config) (trace.Tracer, func(), error) {
	tcfg, err := cfg.TraceConfig()
	if err != nil {
		return nil, nil, err
	}
	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	if !tracer.Enabled() {
		return tracer, func() {}, nil
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return tracer, cleanup, nil
}

// setupProfiling starts the profilers named by the persistent flags.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}

func useColor(mode string) bool {
	switch strings.ToLower(mode) {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(os.Stdout)
}
