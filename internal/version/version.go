// Package version carries build identification for the loom CLI.
package version

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	nameColor    = color.New(color.FgCyan, color.Bold)
	versionColor = color.New(color.FgYellow, color.Bold)
	dimColor     = color.New(color.Faint)
)

// String is the one-line plain form, e.g. "loom 0.1.0-dev (abc1234)".
func String() string {
	s := "loom " + Version
	if GitCommit != "" {
		s += " (" + short(GitCommit) + ")"
	}
	return s
}

// WriteBanner prints the version, coloured when useColor is set.
func WriteBanner(w io.Writer, useColor bool) error {
	paint := func(c *color.Color, s string) string {
		if !useColor {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", paint(nameColor, "loom"), paint(versionColor, Version)); err != nil {
		return err
	}
	if GitCommit != "" {
		if _, err := fmt.Fprintf(w, "%s %s\n", paint(dimColor, "commit"), GitCommit); err != nil {
			return err
		}
	}
	if BuildDate != "" {
		if _, err := fmt.Fprintf(w, "%s %s\n", paint(dimColor, "built "), BuildDate); err != nil {
			return err
		}
	}
	return nil
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
