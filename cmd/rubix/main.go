package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gogpu/gg"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/rubix/internal/config"
	"github.com/san-kum/rubix/internal/engine"
	"github.com/san-kum/rubix/internal/export"
	"github.com/san-kum/rubix/internal/gui"
	"github.com/san-kum/rubix/internal/raster"
	"github.com/san-kum/rubix/internal/storage"
	"github.com/san-kum/rubix/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	seed       int64
	size       float64
	projection string
	palette    string
	verbose    bool

	cells         int
	theme         string
	renderFrames  int
	every         int
	recordFrames  int
	recordOut     string
	background    string
	svgFrames     int
	svgOut        string
	galleryFrames int
	galleryOut    string
	count         int
)

// main registers the commands and runs the terminal view when no subcommand
// is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "rubix",
		Short:        "a self-turning 3x3x3 cube",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".rubix", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 seeds from the clock)")
	pf.Float64Var(&size, "size", config.DefaultSize, "display size in pixels")
	pf.StringVar(&projection, "projection", config.DefaultProjection, "orthographic or perspective")
	pf.StringVar(&palette, "palette", config.DefaultPalette, "color palette")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log engine events to stderr")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the cube in the terminal",
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().IntVar(&cells, "cells", viz.DefaultCells, "canvas width in terminal cells")
		c.Flags().StringVar(&theme, "theme", "blush", fmt.Sprintf("panel theme %v", viz.ThemeNames()))
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "animate the cube in a desktop window",
		RunE:  runGUI,
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames offline and store the run",
		RunE:  renderRun,
	}
	renderCmd.Flags().IntVar(&renderFrames, "frames", 120, "frames to render")
	renderCmd.Flags().IntVar(&every, "every", 10, "save a PNG every n frames (0 disables)")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "record an animated GIF",
		RunE:  recordGIF,
	}
	recordCmd.Flags().IntVar(&recordFrames, "frames", 180, "frames to record")
	recordCmd.Flags().StringVarP(&recordOut, "out", "o", "rubix.gif", "output file")
	recordCmd.Flags().StringVar(&background, "bg", "#0a0a0a", "background color")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "write one frame as SVG",
		RunE:  writeSVG,
	}
	svgCmd.Flags().IntVar(&svgFrames, "frames", 30, "frames to advance before capturing")
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")

	galleryCmd := &cobra.Command{
		Use:   "gallery",
		Short: "render one PNG per seed in parallel",
		RunE:  renderGallery,
	}
	galleryCmd.Flags().IntVar(&count, "count", 8, "number of seeds")
	galleryCmd.Flags().IntVar(&galleryFrames, "frames", 90, "frames per cube")
	galleryCmd.Flags().StringVarP(&galleryOut, "out", "o", "gallery", "output directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run frame stats",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(liveCmd, guiCmd, renderCmd, recordCmd, svgCmd, galleryCmd,
		listCmd, plotCmd, exportCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, preset, config file and changed flags, in that
// order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("size") {
		cfg.Size = size
	}
	if flags.Changed("projection") {
		cfg.Projection = projection
	}
	if flags.Changed("palette") {
		cfg.Palette = palette
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	gg.SetLogger(l)
	return l
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(viz.Options{Config: cfg, Cells: cells, Theme: theme, Logger: newLogger()})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, newLogger())
}

// fixSeed pins a clock seed so the stored run can be reproduced.
func fixSeed(cfg *config.Config) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
}

func renderRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fixSeed(cfg)
	log := newLogger()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, runDir, err := st.Create()
	if err != nil {
		return err
	}

	rec := storage.NewRecorder()
	eng, err := engine.NewOffline(cfg, engine.WithLogger(log), engine.WithObserver(rec))
	if err != nil {
		return err
	}
	defer eng.Close()

	surface, err := raster.New(int(cfg.Size))
	if err != nil {
		return err
	}
	defer surface.Close()

	var images []string
	for i := 1; i <= renderFrames; i++ {
		if err := eng.Frame(surface); err != nil {
			return err
		}
		if every > 0 && i%every == 0 {
			name := fmt.Sprintf("frame_%05d.png", i)
			if err := surface.SavePNG(filepath.Join(runDir, name)); err != nil {
				return err
			}
			images = append(images, name)
		}
	}

	meta := storage.RunMetadata{
		ID:         runID,
		Preset:     preset,
		Seed:       cfg.Seed,
		Size:       cfg.Size,
		Projection: cfg.Projection,
		Colors:     cfg.Colors,
		Palette:    cfg.Palette,
		TrackFaces: cfg.TrackFaces,
		FPS:        cfg.FPS,
		Images:     images,
	}
	if _, err := st.Save(meta, rec.Frames()); err != nil {
		return err
	}

	snap := eng.Snapshot()
	fmt.Printf("run: %s\n", runID)
	fmt.Printf("frames: %d  turns: %d  images: %d\n", snap.Frame, snap.Turns, len(images))
	return nil
}

func recordGIF(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bg, err := parseColor(background)
	if err != nil {
		return err
	}
	eng, err := engine.NewOffline(cfg, engine.WithLogger(newLogger()))
	if err != nil {
		return err
	}
	defer eng.Close()

	surface, err := raster.New(int(cfg.Size))
	if err != nil {
		return err
	}
	defer surface.Close()

	images := make([]image.Image, 0, recordFrames)
	for i := 0; i < recordFrames; i++ {
		if err := eng.Frame(surface); err != nil {
			return err
		}
		images = append(images, cloneImage(surface.Image()))
	}

	f, err := os.Create(recordOut)
	if err != nil {
		return err
	}
	defer f.Close()

	delay := max(1, 100/cfg.FPS)
	if err := export.EncodeGIF(f, images, delay, bg); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", len(images), recordOut)
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	eng, err := engine.NewOffline(cfg, engine.WithLogger(newLogger()))
	if err != nil {
		return err
	}
	defer eng.Close()

	for i := 1; i < svgFrames; i++ {
		if err := eng.Step(); err != nil {
			return err
		}
	}
	s := export.NewSVGSurface(cfg.Size)
	if err := eng.Frame(s); err != nil {
		return err
	}

	if svgOut == "" {
		_, err := s.WriteTo(os.Stdout)
		return err
	}
	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = s.WriteTo(f)
	return err
}

func renderGallery(cmd *cobra.Command, args []string) error {
	base, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fixSeed(base)
	if err := os.MkdirAll(galleryOut, 0755); err != nil {
		return err
	}
	ens := engine.NewEnsemble(base, count, base.Seed, engine.WithLogger(newLogger()))
	err = ens.Run(cmd.Context(), func(ctx context.Context, idx int, eng *engine.Offline) error {
		surface, err := raster.New(int(base.Size))
		if err != nil {
			return err
		}
		defer surface.Close()

		for f := 0; f < galleryFrames; f++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := eng.Frame(surface); err != nil {
				return fmt.Errorf("seed %d: %w", ens.Seed(idx), err)
			}
		}
		return surface.SavePNG(filepath.Join(galleryOut, fmt.Sprintf("cube_%d.png", ens.Seed(idx))))
	})
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d cubes to %s\n", count, galleryOut)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tTURNS\tPROJECTION\tPALETTE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\t%s\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Metrics["turns"],
			run.Projection,
			run.Palette,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	records, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", len(records))

	series := []struct {
		caption string
		value   func(storage.FrameRecord) float64
	}{
		{"visible faces", func(f storage.FrameRecord) float64 { return float64(f.VisibleFaces) }},
		{"turn angle (rad)", func(f storage.FrameRecord) float64 { return f.Angle }},
		{"turns committed", func(f storage.FrameRecord) float64 { return float64(f.Turns) }},
	}
	for _, s := range series {
		data := make([]float64, len(records))
		for i, f := range records {
			data[i] = s.value(f)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return config.Encode(os.Stdout, cfg)
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

func parseColor(s string) (color.Color, error) {
	s = strings.TrimPrefix(s, "#")
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil || len(s) != 6 {
		return nil, fmt.Errorf("invalid color %q", "#"+s)
	}
	return color.NRGBA{r, g, b, 255}, nil
}
