// Command ls-atlas is a terminal atlas of the Solar System: a browsable
// planet catalog, a rotating planet viewer, the picture of the day and a
// live space station tracker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/imagery"
	"github.com/litescript/ls-atlas/internal/state"
	"github.com/litescript/ls-atlas/internal/tracker"
	"github.com/litescript/ls-atlas/internal/ui"
	"github.com/litescript/ls-atlas/internal/viewer"
)

// Global flags
type globalFlags struct {
	configPath string
	logLevel   string
	logJSON    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		flags    globalFlags
		planetID string
	)

	root := &cobra.Command{
		Use:   "ls-atlas",
		Short: "ls-atlas - a terminal atlas of the Solar System",
		Long: `ls-atlas - a terminal atlas of the Solar System.

Without a subcommand it starts the interactive atlas: the picture of the
day, a filterable planet catalog, a rotating planet viewer and a live
ISS tracker.

Examples:
  ls-atlas                       # Start the interactive atlas
  ls-atlas --planet mars         # Start on the Mars viewer
  ls-atlas atlas --sort name-asc # Print the catalog
  ls-atlas week                  # Planet of the week
  ls-atlas iss --follow          # Follow the station`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags.configPath, flags.logLevel, flags.logJSON, true)
			if err != nil {
				return err
			}
			defer a.Close()
			open := cmd.Flags().Changed("planet")
			return runTUI(cmd.Context(), a, planetID, open)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default: nearest ls-atlas.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.BoolVar(&flags.logJSON, "log-json", false, "Write logs as JSON lines")

	root.Flags().StringVar(&planetID, "planet", "", "Open the viewer on this planet id")

	root.AddCommand(
		newAtlasCmd(&flags),
		newWeekCmd(&flags),
		newPlanetCmd(&flags),
		newImagesCmd(&flags),
		newAPODCmd(&flags),
		newISSCmd(&flags),
		newVersionCmd(),
	)
	return root
}

// runTUI starts the Bubble Tea program and the background loops that feed
// it. Each loop reports through the state manager, so one failing widget
// never holds up another.
func runTUI(ctx context.Context, a *app, planetID string, openPlanet bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = a.cfg.Tracker.Interval
	stateMgr := state.NewManager(stateCfg)

	textures := a.textureLoader()
	texLog := a.logger.Named("texture")
	model := ui.New(stateMgr, func(ctx context.Context, rec catalog.Record) (viewer.Texture, imagery.Result) {
		surf, res := textures.SurfaceFor(ctx, rec, imagery.Options{}, texLog)
		return surf, res
	})
	if openPlanet {
		model = model.WithPlanet(planetID)
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	push := func() { p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()}) }

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := a.catalogLoader().Fetch(gctx)
		stateMgr.UpdateCatalog(res)
		push()
		if res.Error != nil {
			return nil
		}
		resolveImages(gctx, a.imageResolver(), res.Records, time.Now(), a.cfg.Images.Concurrency, p.Send)
		return nil
	})
	g.Go(func() error {
		stateMgr.UpdateFeatured(a.apodClient().FetchFeatured(gctx))
		push()
		return nil
	})
	g.Go(func() error {
		a.tracker().Run(gctx, func(s tracker.Snapshot) {
			stateMgr.UpdateTracker(s)
			push()
		})
		return nil
	})

	_, err := p.Run()
	cancel()
	_ = g.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrap(err, "run TUI")
	}
	return nil
}

// resolveImages walks the image chains the TUI shows once the catalog is
// in: the week card's featured chain first, then the preview strip at
// preview size, then every atlas thumbnail. Each batch is sent as soon as
// it settles.
func resolveImages(ctx context.Context, r *imagery.Resolver, records []catalog.Record, now time.Time, limit int, send func(tea.Msg)) {
	batch := func(target ui.ImageTarget, recs []catalog.Record, kind imagery.Kind, opts imagery.Options) {
		results := r.ResolveAll(ctx, recs, kind, opts, limit)
		byID := make(map[string]imagery.Result, len(results))
		for i, res := range results {
			byID[recs[i].ID] = res
		}
		send(ui.ImagesResolvedMsg{Target: target, Results: byID})
	}

	if week, ok := catalog.SelectCurrent(records, now); ok {
		batch(ui.ImagesWeek, []catalog.Record{week}, imagery.KindFeatured, imagery.Options{})
	}
	batch(ui.ImagesPreview, catalog.Preview(records, ui.PreviewCount), imagery.KindThumb,
		imagery.Options{PlaceholderSize: imagery.PreviewPlaceholderSize})
	batch(ui.ImagesAtlas, records, imagery.KindThumb, imagery.Options{})
}
