package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/orbitlab/internal/config"
	"github.com/san-kum/orbitlab/internal/engine"
	"github.com/san-kum/orbitlab/internal/export"
	"github.com/san-kum/orbitlab/internal/save"
	"github.com/san-kum/orbitlab/internal/stream"
	"github.com/san-kum/orbitlab/internal/tui"
	"github.com/san-kum/orbitlab/internal/universe"
)

var (
	dataDir    string
	configFile string
	preset     string
	worldName  string
	steps      int
	stepSize   float64
	gravity    float64
	collisions bool
	metric     string
	outFile    string
	addr       string
	every      int
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orbitlab",
		Short: "interactive N-body gravity sandbox with a precomputed timeline",
		RunE:  runLive,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".orbitlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "binary", "starting universe preset")
	rootCmd.PersistentFlags().StringVar(&worldName, "world", "", "saved world to load instead of a preset")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive playback and editing",
		RunE:  runLive,
	}

	runCmd := &cobra.Command{
		Use:   "run [name]",
		Short: "generate a timeline headlessly and save it",
		Args:  cobra.ExactArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&steps, "steps", 4096, "number of steps to generate")
	runCmd.Flags().Float64Var(&stepSize, "dt", config.DefaultStepSize, "step size")
	runCmd.Flags().Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational constant")
	runCmd.Flags().BoolVar(&collisions, "collisions", false, "enable collisions and fragmentation")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved worlds",
		RunE:  listWorlds,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [name]",
		Short: "plot a diagnostic over a saved timeline",
		Args:  cobra.ExactArgs(1),
		RunE:  plotWorld,
	}
	plotCmd.Flags().StringVar(&metric, "metric", "energy", "energy|momentum|angmom")
	plotCmd.Flags().IntVar(&every, "every", 32, "sample every n steps")

	exportCmd := &cobra.Command{
		Use:   "export [name]",
		Short: "export body trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportWorld,
	}
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (default <name>.svg)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "headless playback with a websocket state feed",
		RunE:  serveWorld,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8473", "listen address")

	rootCmd.AddCommand(liveCmd, runCmd, listCmd, plotCmd, exportCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

func loadConfig() (*config.Config, error) {
	if configFile == "" {
		cfg := config.DefaultConfig()
		cfg.DataDir = dataDir
		return cfg, nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configFile, err)
	}
	if dataDir != ".orbitlab" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// buildWorld resolves --world (a save) or --preset into a running world.
func buildWorld(cfg *config.Config, store *save.Store) (*engine.World, error) {
	if worldName != "" {
		sv, err := store.Load(worldName)
		if err != nil {
			return nil, err
		}
		return engine.NewWorldFrom(sv.Name, sv.States, sv.Current, sv.StepSize, sv.Speed, sv.Lookahead), nil
	}
	u := config.GetPreset(preset, cfg)
	if u == nil {
		return nil, fmt.Errorf("unknown preset %q (have: %s)", preset, strings.Join(config.ListPresets(), ", "))
	}
	w := engine.NewWorld(preset, u, cfg.StepSize)
	w.SetSpeed(cfg.Speed)
	w.SetLookahead(cfg.Lookahead)
	return w, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := save.NewStore(cfg.DataDir)
	world, err := buildWorld(cfg, store)
	if err != nil {
		return err
	}
	defer world.Close()

	_, err = tea.NewProgram(tui.New(world, store), tea.WithAltScreen()).Run()
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.StepSize = stepSize
	cfg.Gravity = gravity
	cfg.Collisions = collisions

	u := config.GetPreset(preset, cfg)
	if u == nil {
		return fmt.Errorf("unknown preset %q", preset)
	}

	log.Info("generating timeline",
		zap.String("preset", preset),
		zap.Int("steps", steps),
		zap.Float64("dt", stepSize))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := []*universe.Universe{u}
	initialEnergy := u.Energy()
	start := time.Now()
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			log.Warn("interrupted", zap.Int("completed", i))
			return ctx.Err()
		default:
		}
		next := run[len(run)-1].Clone()
		next.Step(stepSize)
		run = append(run, next)
	}
	elapsed := time.Since(start)

	final := run[len(run)-1]
	drift := 0.0
	if initialEnergy != 0 {
		drift = math.Abs(final.Energy()-initialEnergy) / math.Abs(initialEnergy)
	}
	log.Info("generation complete",
		zap.Duration("elapsed", elapsed),
		zap.Int("bodies", final.Bodies.Len()),
		zap.Float64("energy_drift", drift))

	store := save.NewStore(cfg.DataDir)
	if err := store.Init(); err != nil {
		return err
	}
	sv := &save.Save{
		Name:      args[0],
		Current:   len(run) - 1,
		StepSize:  stepSize,
		Speed:     cfg.Speed,
		Lookahead: cfg.Lookahead,
		States:    run,
	}
	if err := store.Save(sv); err != nil {
		return err
	}
	log.Info("saved", zap.String("name", args[0]), zap.String("dir", cfg.DataDir))
	return nil
}

func listWorlds(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	metas, err := save.NewStore(cfg.DataDir).List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("no saved worlds")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMODIFIED\tBODIES\tSTORED STATES")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", m.Name, m.Modified.Format(time.RFC3339), m.Bodies, m.Stored)
	}
	return w.Flush()
}

func plotWorld(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sv, err := save.NewStore(cfg.DataDir).Load(args[0])
	if err != nil {
		return err
	}

	if every < 1 {
		every = 1
	}
	data := make([]float64, 0, len(sv.States)/every+1)
	for i := 0; i < len(sv.States); i += every {
		u := sv.States[i]
		switch metric {
		case "energy":
			data = append(data, u.Energy())
		case "momentum":
			data = append(data, u.Momentum().Len())
		case "angmom":
			data = append(data, u.AngularMomentum())
		default:
			return fmt.Errorf("unknown metric %q", metric)
		}
	}
	if len(data) < 2 {
		return fmt.Errorf("timeline too short to plot")
	}

	caption := fmt.Sprintf("%s: %s over %d steps (dt=%.5f)", args[0], metric, len(sv.States)-1, sv.StepSize)
	fmt.Println(asciigraph.Plot(data, asciigraph.Height(15), asciigraph.Width(70), asciigraph.Caption(caption)))
	return nil
}

func exportWorld(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sv, err := save.NewStore(cfg.DataDir).Load(args[0])
	if err != nil {
		return err
	}
	svg := export.TimelineSVG(sv.States, 1024, 768)
	if svg == "" {
		return fmt.Errorf("nothing to export")
	}
	out := outFile
	if out == "" {
		out = args[0] + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Println("wrote", out)
	return nil
}

func serveWorld(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := save.NewStore(cfg.DataDir)
	world, err := buildWorld(cfg, store)
	if err != nil {
		return err
	}
	defer world.Close()
	world.Playing = true

	hub := stream.NewHub(log)
	defer hub.Close()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		frame := time.Second / time.Duration(cfg.FrameRate)
		ticker := time.NewTicker(frame)
		defer ticker.Stop()
		last := time.Now()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				world.MoveTime(now.Sub(last).Seconds())
				last = now
				world.SyncFuture()
				hub.Publish(stream.NewFrame(world.Current, world.StepSize, world.Present()))
			}
		}
	}()

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	log.Info("serving state feed", zap.String("addr", addr), zap.String("path", "/ws"))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
