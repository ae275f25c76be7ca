package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"loom/internal/driver"
	"loom/internal/linker"
	"loom/internal/project"
)

// settings is the merged view of loom.toml and the command line; flags
// that were set explicitly win.
type settings struct {
	manifest *project.Manifest

	feeds          []string
	main           string
	link           linker.LinkOptions
	builtin        bool
	plugins        []string
	jobs           int
	maxDiagnostics int
	format         string
	color          bool
	timings        bool
}

func addPipelineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("main", "", "main path (overrides the feeds and [build].main)")
	f.Bool("strict", false, "warn about every dropped include edge")
	f.Bool("dedup", false, "keep one dependency entry per included module")
	f.Bool("builtin", true, "register the builtin plugin actions")
	f.StringSlice("plugin", nil, "shared plugin to load (repeatable)")
	f.Int("jobs", runtime.GOMAXPROCS(0), "feeds decoded in parallel")
}

func loadSettings(cmd *cobra.Command, args []string) (*settings, error) {
	pf := cmd.Root().PersistentFlags()
	flags := cmd.Flags()

	cfg := project.DefaultConfig()
	s := &settings{}
	configPath, err := pf.GetString("config")
	if err != nil {
		return nil, err
	}
	if configPath == "" {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, wdErr
		}
		found, ok, findErr := project.FindManifest(wd)
		if findErr != nil {
			return nil, findErr
		}
		if ok {
			configPath = found
		}
	}
	if configPath != "" {
		m, loadErr := project.LoadManifest(configPath)
		if loadErr != nil {
			return nil, loadErr
		}
		s.manifest = m
		cfg = m.Config
		s.feeds = m.FeedPaths()
		s.plugins = m.PluginPaths()
	}

	s.main = cfg.Build.Main
	s.link = linker.LinkOptions{Strict: cfg.Link.Strict, Dedup: cfg.Link.Dedup}
	s.builtin = cfg.Plugins.Builtin
	s.maxDiagnostics = cfg.Diagnostics.Max
	s.format = cfg.Diagnostics.Format
	if s.format == "" {
		s.format = "pretty"
	}

	if len(args) > 0 {
		s.feeds = args
	}
	if len(s.feeds) == 0 {
		return nil, fmt.Errorf("no feeds: pass them as arguments or list them in [build].feeds")
	}

	if flags.Lookup("main") != nil {
		if flags.Changed("main") {
			s.main, _ = flags.GetString("main")
		}
		if flags.Changed("strict") {
			s.link.Strict, _ = flags.GetBool("strict")
		}
		if flags.Changed("dedup") {
			s.link.Dedup, _ = flags.GetBool("dedup")
		}
		if flags.Changed("builtin") {
			s.builtin, _ = flags.GetBool("builtin")
		}
		if flags.Changed("plugin") {
			extra, _ := flags.GetStringSlice("plugin")
			s.plugins = append(s.plugins, extra...)
		}
		if s.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if pf.Changed("max-diagnostics") || s.manifest == nil {
		if s.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
			return nil, err
		}
	}
	if pf.Changed("format") || s.manifest == nil {
		if s.format, err = pf.GetString("format"); err != nil {
			return nil, err
		}
	}
	switch s.format {
	case "pretty", "json", "short":
	default:
		return nil, fmt.Errorf("invalid --format %q (expected: pretty|json|short)", s.format)
	}
	if s.maxDiagnostics < 0 {
		return nil, fmt.Errorf("--max-diagnostics must not be negative")
	}

	colorMode, err := pf.GetString("color")
	if err != nil {
		return nil, err
	}
	if s.color, err = resolveColor(colorMode, cmd.OutOrStdout()); err != nil {
		return nil, err
	}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return nil, err
	}
	return s, nil
}

// resolveColor decides whether w gets ANSI colours.
func resolveColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always", "on":
		return true, nil
	case "never", "off":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		return ok && isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color %q (expected: auto|always|never)", mode)
	}
}

func (s *settings) driverOptions(expand bool) driver.Options {
	return driver.Options{
		Feeds:          s.feeds,
		Main:           s.main,
		Link:           s.link,
		Expand:         expand,
		Builtin:        s.builtin,
		Plugins:        s.plugins,
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
	}
}
