package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/harmonik/internal/analysis"
	"github.com/san-kum/harmonik/internal/automation"
	"github.com/san-kum/harmonik/internal/config"
	"github.com/san-kum/harmonik/internal/control"
	"github.com/san-kum/harmonik/internal/export"
	"github.com/san-kum/harmonik/internal/field"
	"github.com/san-kum/harmonik/internal/gui"
	"github.com/san-kum/harmonik/internal/logging"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/raster"
	"github.com/san-kum/harmonik/internal/viz"
	"github.com/spf13/cobra"
)

var (
	configFile string
	dataDir    string
	logLevel   string

	// Parameter flags
	effectName string
	speed      float64
	scale      float64
	blend      float64
	invert     bool
	preset     string
	random     bool
	seed       int64
	width      int
	height     int
	frameRate  int

	// Live view
	theme string
	view  string

	// Output
	renderTime    float64
	renderOut     string
	upscale       int
	saveExport    bool
	recordOut     string
	scriptOut     string
	recordFrames  int
	benchFrames   int
	analyzeFrames int
	force         bool

	// Sweep
	sweepKnob  string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

// main registers the commands and runs the native window when no
// subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "harmonik",
		Short:        "demoscene-style procedural image synthesizer",
		SilenceUsage: true,
		RunE:         runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error, off)")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the native window",
		RunE:  runGUI,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
	liveCmd.Flags().StringVar(&view, "view", config.DefaultView, "terminal mode (blocks, braille)")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render one frame to a PNG",
		RunE:  renderFrame,
	}
	renderCmd.Flags().Float64Var(&renderTime, "time", 0, "frame timestamp in milliseconds")
	renderCmd.Flags().StringVar(&renderOut, "out", "harmonik.png", "output file (empty to skip)")
	renderCmd.Flags().IntVar(&upscale, "upscale", 1, "integer upscale factor")
	renderCmd.Flags().BoolVar(&saveExport, "save", false, "also store the frame in the data directory")

	recordCmd := &cobra.Command{
		Use:   "record",
		Short: "render an animated GIF",
		RunE:  recordGIF,
	}
	recordCmd.Flags().Float64Var(&renderTime, "time", 0, "start timestamp in milliseconds")
	recordCmd.Flags().StringVar(&recordOut, "out", "harmonik.gif", "output file")
	recordCmd.Flags().IntVar(&recordFrames, "frames", 60, "number of frames")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure render throughput per effect",
		RunE:  benchEffects,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 20, "frames per effect")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "spectrum of mean luminance over time",
		RunE:  analyzeSeries,
	}
	analyzeCmd.Flags().IntVar(&analyzeFrames, "frames", 256, "number of samples")

	scriptCmd := &cobra.Command{
		Use:   "script [scenario.yaml]",
		Short: "render a scripted scenario to an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().StringVar(&scriptOut, "out", "", "output file (default <name>.gif)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "luminance statistics across a knob range",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepKnob, "knob", "scale", "knob to sweep (speed, scale, blend)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "number of values")
	sweepCmd.Flags().Float64Var(&renderTime, "time", 0, "frame timestamp in milliseconds")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved exports",
		RunE:  listExports,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	addParamFlags(rootCmd, guiCmd, liveCmd, renderCmd, recordCmd, scriptCmd, sweepCmd, benchCmd, analyzeCmd)

	rootCmd.AddCommand(guiCmd, liveCmd, renderCmd, recordCmd, scriptCmd, sweepCmd, presetsCmd, benchCmd, analyzeCmd, listCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		f := cmd.Flags()
		f.StringVar(&effectName, "effect", "", "effect ("+fmt.Sprint(field.Names())+")")
		f.Float64Var(&speed, "speed", 1, "animation speed")
		f.Float64Var(&scale, "scale", 1, "brightness scale")
		f.Float64Var(&blend, "blend", 0, "blend toward mid-gray")
		f.BoolVar(&invert, "invert", false, "invert luminance")
		f.StringVar(&preset, "preset", "", "start from a named preset")
		f.BoolVar(&random, "random", false, "start from random parameters")
		f.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
		f.IntVar(&width, "width", config.DefaultWidth, "frame width")
		f.IntVar(&height, "height", config.DefaultHeight, "frame height")
		f.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	}
}

// loadSettings resolves the configuration and the starting parameters.
// Precedence: defaults, config file, preset, explicit flags.
func loadSettings(cmd *cobra.Command) (*config.Config, *params.Store, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("view") {
		cfg.View = view
	}
	if flags.Changed("preset") {
		cfg.Preset = preset
		cfg.Params = nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := logging.Setup(cfg.LogLevel, os.Stderr); err != nil {
		return nil, nil, err
	}

	store, err := cfg.NewStore()
	if err != nil {
		return nil, nil, err
	}
	if random {
		store.Randomize(rand.New(rand.NewSource(seed)))
	}

	p, changed := store.Snapshot(), false
	if flags.Changed("effect") {
		e, err := field.ParseEffect(effectName)
		if err != nil {
			return nil, nil, err
		}
		p.Effect, changed = e, true
	}
	if flags.Changed("speed") {
		p.Speed, changed = speed, true
	}
	if flags.Changed("scale") {
		p.Scale, changed = scale, true
	}
	if flags.Changed("blend") {
		p.Blend, changed = blend, true
	}
	if flags.Changed("invert") {
		p.Invert, changed = invert, true
	}
	if changed {
		store.Set(p)
	}

	logging.Logger().Debug("settings resolved", "params", store.Snapshot().String(), "preset", store.ActivePreset())
	return cfg, store, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	gui.Run(raster.New(cfg.RenderOptions()), store, gui.Options{
		Width:   cfg.Width,
		Height:  cfg.Height,
		FPS:     cfg.FPS,
		Seed:    seed,
		Exports: export.NewStore(cfg.DataDir),
	})
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the view; logs go to a file instead.
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "harmonik.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	if err := logging.Setup(cfg.LogLevel, logFile); err != nil {
		return err
	}

	m := viz.NewModel(raster.New(cfg.RenderOptions()), store, viz.Options{
		FPS:     cfg.FPS,
		Theme:   cfg.Theme,
		View:    cfg.View,
		Seed:    seed,
		Exports: export.NewStore(cfg.DataDir),
	})
	return viz.Run(m)
}

func renderFrame(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	start := time.Now()
	f := raster.New(cfg.RenderOptions()).Render(store.Snapshot(), renderTime, cfg.Width, cfg.Height)
	logging.Logger().Info("frame rendered", "size", fmt.Sprintf("%dx%d", f.Width, f.Height), "elapsed", time.Since(start))

	if renderOut != "" {
		if err := export.SavePNG(renderOut, f, upscale); err != nil {
			return fmt.Errorf("failed to write %s: %w", renderOut, err)
		}
		fmt.Printf("wrote %s (%s at %.0fms)\n", renderOut, f.Params, f.Timestamp)
	}
	if saveExport {
		meta, err := export.NewStore(cfg.DataDir).Save(f, store.ActivePreset(), upscale)
		if err != nil {
			return err
		}
		fmt.Printf("saved %s\n", meta.ID)
	}
	return nil
}

func recordGIF(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if recordFrames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", recordFrames)
	}

	r := raster.New(cfg.RenderOptions())
	p := store.Snapshot()
	rec := export.NewGIFRecorder(cfg.FPS)
	step := 1000 / float64(cfg.FPS)
	for i := 0; i < recordFrames; i++ {
		rec.Add(r.Render(p, renderTime+float64(i)*step, cfg.Width, cfg.Height))
	}

	out, err := os.Create(recordOut)
	if err != nil {
		return err
	}
	if err := rec.Encode(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d frames, %s)\n", recordOut, rec.Len(), p)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fps") || sc.FPS <= 0 {
		sc.FPS = cfg.FPS
	}
	presets, err := cfg.Presets()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec := export.NewGIFRecorder(sc.FPS)
	n, err := automation.RunScenario(ctx, sc, presets, raster.New(cfg.RenderOptions()), cfg.Width, cfg.Height, rec)
	if err != nil {
		return err
	}

	out := scriptOut
	if out == "" {
		name := sc.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
		}
		out = name + ".gif"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := rec.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d steps, %d frames)\n", out, len(sc.Steps), n)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	knob, err := control.ParseKnob(sweepKnob)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Base:      store.Snapshot(),
		Knob:      knob,
		Min:       sweepMin,
		Max:       sweepMax,
		Steps:     sweepSteps,
		Timestamp: renderTime,
		Width:     cfg.Width,
		Height:    cfg.Height,
	}, raster.New(cfg.RenderOptions()))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tMEAN\tMIN\tMAX\tCONTRAST\n", strings.ToUpper(knob.String()))
	means := make([]float64, len(results))
	for i, r := range results {
		means[i] = r.Stats.Mean
		fmt.Fprintf(w, "%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n", r.Value, r.Stats.Mean, r.Stats.Min, r.Stats.Max, r.Stats.Max-r.Stats.Min)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(means) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(means, asciigraph.Height(6), asciigraph.Width(60), asciigraph.Caption("mean luminance vs "+knob.String())))
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	presets, err := cfg.Presets()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEFFECT\tSPEED\tSCALE\tBLEND\tINVERT")
	for _, name := range presets.Names() {
		p, err := presets.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f\t%t\n", name, p.Effect, p.Speed, p.Scale, p.Blend, p.Invert)
	}
	return w.Flush()
}

func benchEffects(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if benchFrames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", benchFrames)
	}

	r := raster.New(cfg.RenderOptions())
	base := store.Snapshot()
	fmt.Printf("benchmarking %dx%d, %d frames per effect\n\n", cfg.Width, cfg.Height, benchFrames)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EFFECT\tFRAMES\tTIME\tMS/FRAME\tFRAMES/SEC\tMPIX/SEC")
	for _, e := range field.Effects() {
		p := base
		p.Effect = e
		start := time.Now()
		for i := 0; i < benchFrames; i++ {
			r.Render(p, float64(i)*1000/float64(cfg.FPS), cfg.Width, cfg.Height)
		}
		elapsed := time.Since(start)
		secs := elapsed.Seconds()
		fmt.Fprintf(w, "%s\t%d\t%v\t%.2f\t%.1f\t%.1f\n",
			e,
			benchFrames,
			elapsed.Round(time.Millisecond),
			secs*1000/float64(benchFrames),
			float64(benchFrames)/secs,
			float64(benchFrames*cfg.Width*cfg.Height)/secs/1e6,
		)
	}
	return w.Flush()
}

func analyzeSeries(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if analyzeFrames < 2 {
		return fmt.Errorf("need at least 2 frames, got %d", analyzeFrames)
	}

	r := raster.New(cfg.RenderOptions())
	p := store.Snapshot()
	rate := float64(cfg.FPS)

	series := make([]float64, analyzeFrames)
	var first analysis.Stats
	for i := range series {
		s := analysis.Measure(r.Render(p, float64(i)*1000/rate, cfg.Width, cfg.Height), 16)
		if i == 0 {
			first = s
		}
		series[i] = s.Mean
	}

	fmt.Printf("%s\n\n", p)
	fmt.Printf("first frame: mean %.3f  min %.3f  max %.3f\n", first.Mean, first.Min, first.Max)
	fmt.Println(asciigraph.Plot(series, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("mean luminance")))
	fmt.Println()

	if spectrum := analysis.PowerSpectrum(series); len(spectrum) > 1 {
		fmt.Println(asciigraph.Plot(spectrum[1:], asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("power spectrum")))
	}
	if hz := analysis.DominantFrequency(series, rate); hz > 0 {
		fmt.Printf("\ndominant pulse: %.3f Hz (period %.2fs)\n", hz, 1/hz)
	} else {
		fmt.Println("\nno periodic pulse detected")
	}
	return nil
}

func listExports(cmd *cobra.Command, args []string) error {
	dir := dataDir
	if !cmd.Flags().Changed("data") && configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		dir = cfg.DataDir
	}

	runs, err := export.NewStore(dir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no exports found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEFFECT\tCREATED\tSIZE\tTIME\tPRESET")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%.0fms\t%s\n",
			run.ID,
			run.Params.Effect,
			run.Created.Format("2006-01-02 15:04:05"),
			run.Width,
			run.Height,
			run.Timestamp,
			run.Preset,
		)
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "harmonik.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
