package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"loom/internal/driver"
)

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link [feed.mp...]",
		Short: "Build and link modules from feed shards",
		Long:  `Decodes the feeds, builds one module per path and resolves includes into dependency lists`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, s, err := runPipeline(cmd, args, false)
			return finish(cmd.OutOrStdout(), res, err, func(w io.Writer, res *driver.Result) error {
				if s.format == "json" {
					return writeJSON(w, forestReport(res))
				}
				return printForest(w, res)
			})
		},
	}
	addPipelineFlags(cmd)
	return cmd
}

type moduleJSON struct {
	Path        string   `json:"path"`
	Main        bool     `json:"main,omitempty"`
	Synthesized bool     `json:"synthesized,omitempty"`
	Decls       int      `json:"decls"`
	Deps        []string `json:"deps,omitempty"`
}

type linkJSON struct {
	Main     string       `json:"main"`
	Digest   string       `json:"digest"`
	Modules  []moduleJSON `json:"modules"`
	Resolved int          `json:"resolved"`
	Dropped  int          `json:"dropped"`
	Bound    int          `json:"bound"`
	Unbound  int          `json:"unbound"`
}

func forestReport(res *driver.Result) linkJSON {
	out := linkJSON{
		Main:     res.Main,
		Digest:   res.Digest.String(),
		Modules:  make([]moduleJSON, 0, res.Forest.Len()),
		Resolved: res.Link.Resolved,
		Dropped:  res.Link.Dropped,
		Bound:    res.Feed.Bound,
		Unbound:  res.Feed.Unbound,
	}
	for _, m := range res.Forest.Modules {
		mj := moduleJSON{Path: m.Path, Main: m.Main, Synthesized: m.Synthesized}
		if prog, ok := res.AST.Program(m.Program); ok {
			mj.Decls = res.AST.Count(prog.Decls)
		}
		for _, dep := range res.Forest.Deps(res.Types, m) {
			mj.Deps = append(mj.Deps, dep.Path)
		}
		out.Modules = append(out.Modules, mj)
	}
	return out
}

func printForest(w io.Writer, res *driver.Result) error {
	report := forestReport(res)
	for _, m := range report.Modules {
		marks := ""
		if m.Main {
			marks += " [main]"
		}
		if m.Synthesized {
			marks += " [synthesized]"
		}
		if _, err := fmt.Fprintf(w, "%s%s (%d decls)\n", m.Path, marks, m.Decls); err != nil {
			return err
		}
		for _, dep := range m.Deps {
			if _, err := fmt.Fprintf(w, "  -> %s\n", dep); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d modules, %d includes resolved, %d dropped, %d/%d identifiers bound\n",
		len(report.Modules), report.Resolved, report.Dropped, report.Bound, report.Bound+report.Unbound)
	return err
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
