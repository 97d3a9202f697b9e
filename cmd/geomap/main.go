package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"geodraw/internal/config"
	"geodraw/internal/store"
	"geodraw/internal/tui"
)

var cfg = config.Load()

var rootCmd = &cobra.Command{
	Use:   "geomap [snap-layer]",
	Short: "Draw, snap and measure on a terminal map",
	Long: `geomap is a terminal map for drawing annotations and measuring lines,
polygons and circles. An optional GeoJSON, WKT, CSV or KML file is loaded as
the snap layer; drawings are kept in a SQLite file.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite file for saved feature sets")
	f.StringVar(&cfg.Set, "set", cfg.Set, "name of the feature set to load and save")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	rootCmd.Flags().StringVar(&cfg.System, "system", cfg.System, "measurement system: geodetic or planar")
	rootCmd.Flags().Float64Var(&cfg.SnapTolerance, "snap-tolerance", cfg.SnapTolerance, "snap distance in Web Mercator meters")
	rootCmd.Flags().StringVar(&cfg.SnapLayer, "snap-layer", cfg.SnapLayer, "file to snap to")
}

// newLogger writes to the configured log file; the terminal belongs to the UI.
func newLogger() (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "geomap",
	})
	return l, func() { f.Close() }, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(cmd.Context(), cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	opts := tui.Options{Config: cfg, Logger: logger, Store: st}
	var m tui.Model
	if len(args) == 1 {
		m = tui.NewWithPath(opts, args[0])
	} else {
		m = tui.New(opts)
	}
	logger.Info("starting", "db", cfg.DBPath, "set", cfg.Set, "system", cfg.System)

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	if fm, ok := final.(tui.Model); ok {
		fm.Close()
	}
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
