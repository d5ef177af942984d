package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/config"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/movie"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/player"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/telemetry"
	"github.com/enesBerkSakalli/phylo-movies-sub009/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play <plan.json>",
	Short: "Play a movie plan in the terminal",
	Long: `Loads a movie plan and opens the interactive player.

The plan is the JSON document produced by the phylomovie backend: the
tree sequence, per-tree metadata, the transition plan, and the pair
solutions. With --watch the player reloads when the plan file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Int("fps", 0, "autoplay frame rate (default from config)")
	playCmd.Flags().Float64("unit-ms", 0, "microstep duration in milliseconds")
	playCmd.Flags().String("telemetry", "", "JSONL telemetry output path")
	playCmd.Flags().BoolP("watch", "w", false, "reload when the plan file changes")
	_ = viper.BindPFlag("fps", playCmd.Flags().Lookup("fps"))
	_ = viper.BindPFlag("unit_ms", playCmd.Flags().Lookup("unit-ms"))
	_ = viper.BindPFlag("telemetry_path", playCmd.Flags().Lookup("telemetry"))
	_ = viper.BindPFlag("watch", playCmd.Flags().Lookup("watch"))
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	m, err := movie.Load(args[0])
	if err != nil {
		return err
	}
	issues := movie.Validate(m)
	if movie.HasFatal(issues) {
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "✗ %v\n", issue)
		}
		return fmt.Errorf("plan %s is not playable", args[0])
	}
	if cfg.Verbose {
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "! %v\n", issue)
		}
	}

	var emitter *telemetry.Emitter
	if cfg.TelemetryPath != "" {
		emitter, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return err
		}
		defer emitter.Close()
	}

	p := tui.NewProgram(m, tui.Options{
		Emitter:  emitter,
		Tick:     cfg.TickInterval(),
		Throttle: cfg.Throttle(),
		Player:   player.Config{Timeline: cfg.Timeline()},
	})

	if cfg.Watch {
		w, err := movie.NewWatcher(args[0])
		if err != nil {
			return fmt.Errorf("watch %s: %w", args[0], err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watch %s: %w", args[0], err)
		}
		defer w.Stop()
		go forwardReloads(w, p, emitter)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	return nil
}

// forwardReloads reloads the plan on each watcher event and hands the
// fresh movie to the running program. A plan that fails to load or
// validate is reported but does not replace the playing one.
func forwardReloads(w *movie.Watcher, p *tui.Program, emitter *telemetry.Emitter) {
	for reload := range w.Reloads {
		if reload.Kind == movie.ReloadRemoved {
			p.Send(tui.MsgPlanRemoved{Path: reload.Path})
			continue
		}

		m, err := movie.Load(reload.Path)
		if err != nil {
			p.Send(tui.MsgError{Err: err})
			continue
		}
		if issues := movie.Validate(m); movie.HasFatal(issues) {
			p.Send(tui.MsgError{Err: fmt.Errorf("reloaded plan not playable: %v", issues[0])})
			continue
		}

		emitter.Emit(telemetry.Event{
			Kind:  telemetry.KindPlanReload,
			Movie: m.Name,
			Data:  map[string]any{"trees": m.TreeCount()},
		})
		p.Send(tui.MsgPlanReloaded{Movie: m})
	}
}
