package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"loom/internal/diag"
	"loom/internal/diagfmt"
	"loom/internal/driver"
	"loom/internal/observ"
	"loom/internal/prof"
	"loom/internal/trace"
)

// runPipeline drives one run for a subcommand and prints its diagnostics.
// A run whose bag carries errors returns errDiagnostics together with the
// result, so callers can still print what was built.
func runPipeline(cmd *cobra.Command, args []string, expand bool) (*driver.Result, *settings, error) {
	s, err := loadSettings(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	tracer, ctx, cleanup, err := setupTracing(cmd.Context(), cmd)
	if err != nil {
		return nil, nil, err
	}
	defer cleanup()
	stopProfiles, err := startProfiles(cmd)
	if err != nil {
		return nil, nil, err
	}
	defer stopProfiles()

	opts := s.driverOptions(expand)
	if s.timings {
		opts.Timer = observ.NewTimer()
	}
	span, runCtx := trace.StartSpan(ctx, trace.ScopeDriver, cmd.Name())
	span.WithExtra("feeds", fmt.Sprint(len(s.feeds)))
	res, runErr := driver.Run(runCtx, opts)
	failed := runErr != nil || (res != nil && res.Bag.HasErrors())
	detail := "ok"
	if failed {
		detail = "failed"
	}
	span.End(detail)

	errOut := cmd.ErrOrStderr()
	if res != nil {
		if err := printDiagnostics(cmd, s, res); err != nil {
			return res, s, err
		}
	}
	if opts.Timer != nil {
		fmt.Fprint(errOut, opts.Timer.Summary())
	}
	if failed {
		dumpRing(errOut, tracer)
	}
	switch {
	case runErr != nil:
		return res, s, runErr
	case failed:
		return res, s, errDiagnostics
	}
	return res, s, nil
}

func printDiagnostics(cmd *cobra.Command, s *settings, res *driver.Result) error {
	bag := res.Bag
	if bag.Len() == 0 && bag.Dropped() == 0 {
		return nil
	}
	bag.Sort()
	out := cmd.ErrOrStderr()
	switch s.format {
	case "json":
		return diagfmt.JSON(out, bag, res.Files, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		})
	case "short":
		fmt.Fprintln(out, diag.FormatShortDiagnostics(bag.Items(), res.Files, true))
		if dropped := bag.Dropped(); dropped > 0 {
			fmt.Fprintf(out, "... %d more diagnostic(s) not shown\n", dropped)
		}
	default:
		diagfmt.Pretty(out, bag, res.Files, diagfmt.PrettyOpts{
			Color:     s.color,
			ShowNotes: true,
			Context:   1,
		})
	}
	return nil
}

// finish keeps the command output even when the run reported errors.
func finish(w io.Writer, res *driver.Result, err error, print func(io.Writer, *driver.Result) error) error {
	if res != nil && res.Forest != nil && (err == nil || errors.Is(err, errDiagnostics)) {
		if printErr := print(w, res); printErr != nil {
			return printErr
		}
	}
	return err
}

func startProfiles(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = pf.GetString("cpuprofile"); err != nil {
		return nil, err
	}
	if opts.Mem, err = pf.GetString("memprofile"); err != nil {
		return nil, err
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, err
	}
	if !opts.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	errOut := cmd.ErrOrStderr()
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(errOut, "profile: %v\n", err)
		}
	}, nil
}
