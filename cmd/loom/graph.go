package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"loom/internal/driver"
	"loom/internal/linker/dag"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph [feed.mp...]",
		Short: "Print the module link order",
		Long:  `Links the feeds and prints the modules in dependency order, grouped into batches of independent modules`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, s, err := runPipeline(cmd, args, false)
			return finish(cmd.OutOrStdout(), res, err, func(w io.Writer, res *driver.Result) error {
				if res.Order == nil {
					return nil
				}
				if s.format == "json" {
					return writeJSON(w, graphReport(res))
				}
				return printGraph(w, res)
			})
		},
	}
	addPipelineFlags(cmd)
	return cmd
}

type graphJSON struct {
	Order   []string   `json:"order"`
	Batches [][]string `json:"batches"`
	Cycles  []string   `json:"cycles,omitempty"`
}

func graphReport(res *driver.Result) graphJSON {
	topo := res.Order
	out := graphJSON{
		Order:   dag.Names(res.Forest, topo.Order),
		Batches: make([][]string, len(topo.Batches)),
	}
	for i, batch := range topo.Batches {
		out.Batches[i] = dag.Names(res.Forest, batch)
	}
	if topo.Cyclic {
		out.Cycles = dag.Names(res.Forest, topo.Cycles)
	}
	return out
}

func printGraph(w io.Writer, res *driver.Result) error {
	report := graphReport(res)
	for i, batch := range report.Batches {
		if _, err := fmt.Fprintf(w, "batch %d: %s\n", i, strings.Join(batch, " ")); err != nil {
			return err
		}
	}
	if len(report.Cycles) > 0 {
		if _, err := fmt.Fprintf(w, "cyclic: %s\n", strings.Join(report.Cycles, " ")); err != nil {
			return err
		}
	}
	return nil
}
