package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var errNoStore = eris.New("no history database configured; set store.path or pass --store")

func newHistoryCmd(opts *options) *cobra.Command {
	var (
		limit   int
		runID   string
		jsonOut bool
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List stored scan runs",
		Long:  "List the most recent scan runs from the history database, or the stored results of one run with --run.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore(cmd)
			if err != nil {
				return err
			}
			if st == nil {
				return errNoStore
			}
			defer st.Close()

			es, _, err := opts.estimator("")
			if err != nil {
				return err
			}
			r := newRenderer(cmd.OutOrStdout(), es, opts.cfg.Output.Color)

			if runID != "" {
				results, err := st.Results(cmd.Context(), runID)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd.OutOrStdout(), results)
				}
				for _, res := range results {
					r.Result(res)
				}
				return nil
			}

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), runs)
			}
			for _, run := range runs {
				r.Run(run)
			}
			return nil
		},
	}

	historyCmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs listed")
	historyCmd.Flags().StringVar(&runID, "run", "", "show the results of this run")
	historyCmd.Flags().BoolVar(&jsonOut, "json", false, "print as JSON")

	return historyCmd
}
