package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"loom/internal/version"
)

// errDiagnostics означает, что ошибки уже напечатаны как диагностики.
var errDiagnostics = errors.New("errors reported")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "loom",
		Short:         "Link translation-unit feeds into modules and expand them with plugins",
		Long:          `loom builds an arena AST from feed shards, links modules by their includes and runs plugin macro expansion`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newLinkCmd())
	root.AddCommand(newExpandCmd())
	root.AddCommand(newGraphCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("config", "", "path to loom.toml (default: search upwards from the working directory)")
	pf.String("color", "auto", "colorize output (auto|always|never)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to keep (0 = unlimited)")
	pf.Bool("timings", false, "show timing information")
	pf.String("format", "pretty", "diagnostics format (pretty|json|short)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in the trace ring")
	pf.Duration("trace-heartbeat", 0, "heartbeat interval (0 = disabled)")
	pf.String("cpuprofile", "", "write a CPU profile to file")
	pf.String("memprofile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "loom: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
