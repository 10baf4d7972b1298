package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/quidome/whereshot-go/pkg/analyze"
	"github.com/quidome/whereshot-go/pkg/estimate"
	"github.com/quidome/whereshot-go/pkg/geo"
	"github.com/quidome/whereshot-go/pkg/scan"
)

func newScanCmd(opts *options) *cobra.Command {
	var (
		maxDepth    int
		concurrency int
		jsonOut     bool
		geojsonOut  bool
		hash        bool
		lang        string
	)

	scanCmd := &cobra.Command{
		Use:   "scan [directory]",
		Short: "Analyze every media file in a directory",
		Long:  "Scan a directory for media files, estimate the capture time of each (relative to the scan root) and record the run in the history database when one is configured.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			directory := args[0]
			cfg := opts.cfg

			scanOpts := scan.DefaultOptions()
			scanOpts.MaxDepth = cfg.Scan.MaxDepth
			if cmd.Flags().Changed("max-depth") {
				scanOpts.MaxDepth = maxDepth
			}
			scanOpts.IncludeHidden = cfg.Scan.IncludeHidden

			fsys := os.DirFS(directory)
			records, err := scan.Scan(fsys, ".", scanOpts)
			if err != nil {
				return err
			}

			es, loc, err := opts.estimator(lang)
			if err != nil {
				return err
			}
			aopts := analyze.Options{
				Location:    loc,
				Estimator:   es,
				Hash:        hash || cfg.Scan.Hash,
				Concurrency: cfg.Scan.Concurrency,
			}
			if cmd.Flags().Changed("concurrency") {
				aopts.Concurrency = concurrency
			}

			reports, err := analyze.Batch(cmd.Context(), fsys, scan.Paths(records), aopts)
			if err != nil {
				return err
			}

			if err := saveRun(cmd, opts, directory, reports); err != nil {
				return err
			}

			switch {
			case geojsonOut:
				return writeJSON(cmd.OutOrStdout(), featureCollection(reports))
			case jsonOut:
				return writeJSON(cmd.OutOrStdout(), reports)
			}

			r := newRenderer(cmd.OutOrStdout(), es, cfg.Output.Color)
			for i := range reports {
				r.Line(&reports[i])
			}

			if opts.verbose {
				cmd.PrintErrf("found %d media files\n", len(reports))
			}
			return nil
		},
	}

	scanCmd.Flags().IntVar(&maxDepth, "max-depth", -1, "maximum recursion depth (0 = no recursion)")
	scanCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of files analyzed in parallel")
	scanCmd.Flags().BoolVar(&jsonOut, "json", false, "print reports as JSON")
	scanCmd.Flags().BoolVar(&geojsonOut, "geojson", false, "print positioned files as a GeoJSON FeatureCollection")
	scanCmd.Flags().BoolVar(&hash, "hash", false, "hash files and mark identical copies")
	scanCmd.Flags().StringVar(&lang, "lang", "", "language of descriptions and warnings (en, ja)")

	return scanCmd
}

func saveRun(cmd *cobra.Command, opts *options, directory string, reports []analyze.Report) error {
	st, err := opts.openStore(cmd)
	if err != nil || st == nil {
		return err
	}
	defer st.Close()

	root, err := filepath.Abs(directory)
	if err != nil {
		root = directory
	}
	run, err := st.SaveRun(cmd.Context(), root, reports)
	if err != nil {
		return err
	}
	zap.L().Info("saved run", zap.String("id", run.ID), zap.Int("files", run.Files), zap.Int("failed", run.Failed))
	return nil
}

// featureCollection maps every report with a GPS position to a point feature.
func featureCollection(reports []analyze.Report) *geojson.FeatureCollection {
	var features []*geojson.Feature
	for i := range reports {
		rep := &reports[i]
		gps, ok := rep.Position()
		if !ok {
			continue
		}

		props := map[string]interface{}{
			"path": rep.Path,
		}
		if res := rep.Estimate; res != nil && res.Estimated != nil {
			props["estimated"] = res.Estimated.Format(timeLayout)
			props["confidence"] = res.Confidence
			props["grade"] = estimate.GradeOf(res.Confidence)
			props["method"] = res.Method
		}
		features = append(features, geo.Feature(rep.Path, gps.Point, gps.Altitude, props))
	}
	return geo.FeatureCollection(features)
}
