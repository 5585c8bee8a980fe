package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-configkit"
	"github.com/goliatone/go-configkit/tcl"
	"github.com/spf13/cobra"
)

const (
	// ExitCodeError indicates a general failure.
	ExitCodeError = 1
	// ExitCodeNotFound indicates a missing input file.
	ExitCodeNotFound = 2
	// ExitCodeParse indicates a malformed input file.
	ExitCodeParse = 3
)

type rootOptions struct {
	logLevel   string
	exprEngine string
	stdout   io.Writer
	stderr   io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:   "configkit",
		Short: "Convert configuration between YAML documents and Tcl variable scripts",
		Long: `configkit flattens nested YAML configuration into Tcl variables and
arrays, resolves $name references between values, and rebuilds YAML from
Tcl scripts using recorded type information or heuristics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level for evaluator diagnostics (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.exprEngine, "expr-engine", "expr", "engine behind the Tcl expr command (expr, cel, js)")

	cmd.AddCommand(
		newToTclCmd(opts),
		newToYAMLCmd(opts),
		newMergeCmd(opts),
		newSlotsCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

// newStore builds a store whose evaluator diagnostics go to stderr.
func (o *rootOptions) newStore() (*configkit.Store, error) {
	level, err := parseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	engine, err := newExprEngine(o.exprEngine)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(o.stderr, &slog.HandlerOptions{Level: level}))
	return configkit.NewStore(
		configkit.WithEvaluator(tcl.New(tcl.WithExprEngine(engine))),
		configkit.WithLogger(configkit.NewSlogLogger(logger)),
	)
}

// newExprEngine picks the expr engine by name. Programs are cached for the
// lifetime of the command.
func newExprEngine(name string) (tcl.ExprEngine, error) {
	cache := tcl.NewMemoryCache()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "expr":
		return tcl.NewExprLangEngine(tcl.ExprLangWithProgramCache(cache)), nil
	case "cel":
		return tcl.NewCELEngine(tcl.CELWithProgramCache(cache)), nil
	case "js":
		if !tcl.JSEngineAvailable() {
			return nil, fmt.Errorf("expr engine %q requires a build with the js_eval tag", name)
		}
		return tcl.NewJSEngine(tcl.JSWithProgramCache(cache)), nil
	}
	return nil, fmt.Errorf("unknown expr engine %q", name)
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, configkit.ErrNotFound):
		return ExitCodeNotFound
	case errors.Is(err, configkit.ErrParse):
		return ExitCodeParse
	default:
		return ExitCodeError
	}
}
