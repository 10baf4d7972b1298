package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/quidome/whereshot-go/pkg/analyze"
	"github.com/quidome/whereshot-go/pkg/geo"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var (
		jsonOut bool
		from    string
		lang    string
		hash    bool
	)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Estimate the capture time and position of photos",
		Long:  "Analyze one or more files and print the estimated capture time, its confidence, every source considered and the recorded GPS position.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			es, loc, err := opts.estimator(lang)
			if err != nil {
				return err
			}

			aopts := analyze.Options{
				Location:  loc,
				Estimator: es,
				Hash:      hash || opts.cfg.Scan.Hash,
			}
			if from != "" {
				p, err := geo.ParsePoint(from)
				if err != nil {
					return err
				}
				aopts.From = &p
			}

			reports := make([]*analyze.Report, 0, len(args))
			for _, arg := range args {
				abs, err := filepath.Abs(arg)
				if err != nil {
					return eris.Wrapf(err, "resolve %s", arg)
				}

				rep, err := analyze.File(os.DirFS(filepath.Dir(abs)), filepath.Base(abs), aopts)
				if err != nil {
					return err
				}
				rep.Path = arg
				reports = append(reports, rep)
			}

			if jsonOut {
				return writeJSON(cmd.OutOrStdout(), reports)
			}

			r := newRenderer(cmd.OutOrStdout(), es, opts.cfg.Output.Color)
			for i, rep := range reports {
				if i > 0 {
					cmd.Println("")
				}
				r.Report(rep)
			}
			return nil
		},
	}

	analyzeCmd.Flags().BoolVar(&jsonOut, "json", false, "print reports as JSON")
	analyzeCmd.Flags().StringVar(&from, "from", "", "reference point \"LAT,LON\" for distance and bearing")
	analyzeCmd.Flags().StringVar(&lang, "lang", "", "language of descriptions and warnings (en, ja)")
	analyzeCmd.Flags().BoolVar(&hash, "hash", false, "include the SHA-256 of each file")

	return analyzeCmd
}
