package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"geodraw/internal/measure"
	"geodraw/internal/registry"
	"geodraw/internal/store"
)

var exportMeasures bool

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List saved feature sets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cmd.Context(), cfg.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		names, err := st.Sets(cmd.Context())
		if err != nil {
			return err
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print a saved feature set as GeoJSON",
	Long: `Print the annotations (or, with --measures, the measures) of the set
selected by --set as a GeoJSON FeatureCollection. Measure totals go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(setsCmd)
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolVar(&exportMeasures, "measures", false, "export measures instead of annotations")
}

func runExport(cmd *cobra.Command, args []string) error {
	st, err := store.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	name := store.AnnotationsSet(cfg.Set)
	if exportMeasures {
		name = store.MeasuresSet(cfg.Set)
	}
	fc, err := st.Load(cmd.Context(), name)
	if err != nil {
		return err
	}
	if exportMeasures {
		fs, err := registry.FromGeoJSON(fc)
		if err != nil {
			return err
		}
		lengths := make([]float64, len(fs))
		areas := make([]float64, len(fs))
		for i, f := range fs {
			lengths[i], areas[i] = f.Length, f.Area
		}
		t := measure.Sum(lengths, areas)
		fmt.Fprintf(os.Stderr, "%d measures  total length %s  total area %s\n",
			len(fs), measure.FormatLength(t.Length, measure.Geodetic), measure.FormatArea(t.Area, measure.Geodetic))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}
