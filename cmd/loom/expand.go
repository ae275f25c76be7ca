package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"loom/internal/diagfmt"
	"loom/internal/driver"
)

func newExpandCmd() *cobra.Command {
	var dump string
	cmd := &cobra.Command{
		Use:   "expand [feed.mp...]",
		Short: "Link modules and run plugin expansion over them",
		Long:  `Links the feeds, then replaces every invoke node with what the named plugin action produces`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch dump {
			case "", "tree", "json":
			default:
				return fmt.Errorf("invalid --dump %q (expected: tree|json)", dump)
			}
			res, _, err := runPipeline(cmd, args, true)
			return finish(cmd.OutOrStdout(), res, err, func(w io.Writer, res *driver.Result) error {
				if err := printExpansion(w, res); err != nil {
					return err
				}
				if dump == "" || res.Forest.Main == nil {
					return nil
				}
				if dump == "json" {
					return diagfmt.FormatASTJSON(w, res.AST, res.Forest.Main.Program, res.Types)
				}
				return diagfmt.FormatASTPretty(w, res.AST, res.Forest.Main.Program, res.Types)
			})
		},
	}
	addPipelineFlags(cmd)
	cmd.Flags().StringVar(&dump, "dump", "", "print the expanded main module (tree|json)")
	return cmd
}

func printExpansion(w io.Writer, res *driver.Result) error {
	st := res.Expand
	_, err := fmt.Fprintf(w, "%d invocations: %d expanded, %d failed, %d unknown, %d panicked\n",
		st.Invocations, st.Expanded, st.Failed, st.Unknown, st.Panics)
	if err != nil {
		return err
	}
	if len(res.Actions) > 0 {
		_, err = fmt.Fprintf(w, "actions: %v\n", res.Actions)
	}
	return err
}
