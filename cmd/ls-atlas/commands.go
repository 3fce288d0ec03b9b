package main

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-atlas/internal/apod"
	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/imagery"
	"github.com/litescript/ls-atlas/internal/tracker"
	"github.com/litescript/ls-atlas/internal/version"
	"github.com/litescript/ls-atlas/internal/viewer"
)

func (f *globalFlags) app() (*app, error) {
	return newApp(f.configPath, f.logLevel, f.logJSON, false)
}

func newAtlasCmd(flags *globalFlags) *cobra.Command {
	var (
		typ     string
		query   string
		sortKey string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "atlas",
		Short: "Print the planet catalog, filtered and sorted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.app()
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.catalogLoader().Fetch(cmd.Context())
			if res.Error != nil {
				return res.Error
			}

			f := catalog.Filter{Type: typ, Query: query, Sort: catalog.SortKey(sortKey)}
			records := catalog.Apply(catalog.ByDistance(res.Records), f)
			out := cmd.OutOrStdout()
			if asJSON {
				return catalog.NewExport(records, f, res.Origin, time.Now().UTC()).WriteJSON(out)
			}
			catalog.WriteTable(out, records, res.Origin)
			return nil
		},
	}

	cmd.Flags().StringVar(&typ, "type", catalog.TypeAll, "Only planets of this type")
	cmd.Flags().StringVar(&query, "query", "", "Case-insensitive name search")
	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort: distance-asc, distance-desc, name-asc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write JSON instead of a table")
	return cmd
}

func newWeekCmd(flags *globalFlags) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the planet of the week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					d, derr := time.Parse(time.DateOnly, at)
					if derr != nil {
						return errors.Wrapf(err, "invalid --at %q", at)
					}
					t = d
				}
				now = t
			}

			a, err := flags.app()
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.catalogLoader().Load(cmd.Context())
			if err != nil {
				return err
			}
			r, ok := catalog.SelectCurrent(records, now)
			if !ok {
				return errors.New("the catalog is empty")
			}
			catalog.WriteWeekCard(cmd.OutOrStdout(), r, now)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Pick for this time (RFC 3339 or YYYY-MM-DD) instead of now")
	return cmd
}

func newPlanetCmd(flags *globalFlags) *cobra.Command {
	var (
		width     int
		height    int
		ascii     bool
		noTexture bool
	)

	cmd := &cobra.Command{
		Use:   "planet [id]",
		Short: "Render one planet with its size and atmosphere",
		Long: `Render one planet with its size and atmosphere.

An empty id shows Earth; an unknown id shows the first planet in the catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.app()
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.catalogLoader().Load(cmd.Context())
			if err != nil {
				return err
			}
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			r, ok := viewer.Resolve(records, id)
			if !ok {
				return errors.New("the catalog is empty")
			}

			out := cmd.OutOrStdout()
			if !cmd.Flags().Changed("ascii") {
				ascii = !isTerminal(out)
			}

			var tex viewer.Texture
			if noTexture {
				c, err := imagery.ParseHex(r.Color)
				if err != nil {
					c = color.RGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff}
				}
				tex = imagery.Solid(c)
			} else {
				surf, res := a.textureLoader().SurfaceFor(cmd.Context(), r, imagery.Options{}, a.logger.Named("texture"))
				a.logger.Debug("texture for %s: %s %s", r.ID, res.Status, res.URL)
				tex = surf
			}

			writePlanet(out, r, tex, width, height, ascii)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 60, "Sphere width in cells")
	cmd.Flags().IntVar(&height, "height", 24, "Sphere height in cells")
	cmd.Flags().BoolVar(&ascii, "ascii", false, "Plain ASCII output (default when not a terminal)")
	cmd.Flags().BoolVar(&noTexture, "no-texture", false, "Skip the surface map and use the catalog color")
	return cmd
}

// writePlanet prints a single frame and the side panel facts.
func writePlanet(w io.Writer, r catalog.Record, tex viewer.Texture, width, height int, ascii bool) {
	s := viewer.NewState()
	frame := viewer.Rasterize(s, width, height, tex, viewer.Options{Halo: viewer.HaloColor(r.ID)})
	if ascii {
		fmt.Fprintln(w, frame.ASCII())
	} else {
		fmt.Fprintln(w, frame.String())
	}

	fmt.Fprintf(w, "%s (%s)\n", r.Name, r.ID)
	fmt.Fprintln(w, r.Summary())
	fmt.Fprintf(w, "Size: %s (bar %.0f%%)\n", viewer.SizeLabel(r), viewer.SizePercent(r))

	gases := r.Gases()
	if len(gases) == 0 {
		fmt.Fprintln(w, "Atmosphere: No atmosphere data")
	} else {
		parts := make([]string, len(gases))
		for i, g := range gases {
			parts[i] = fmt.Sprintf("%s %g%%", g.Name, g.Percent)
		}
		fmt.Fprintf(w, "Atmosphere: %s\n", strings.Join(parts, ", "))
	}
	if r.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.Description)
	}
}

func newImagesCmd(flags *globalFlags) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "images [id...]",
		Short: "Resolve image candidates for planets",
		Long: `Resolve image candidates for planets.

Each planet's candidates are tried in order (local asset, curated remote
images, generated placeholder) and the first that loads is reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.app()
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.catalogLoader().Load(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) > 0 {
				var picked []catalog.Record
				for _, id := range args {
					r, ok := catalog.Find(records, id)
					if !ok {
						return errors.Newf("unknown planet %q", id)
					}
					picked = append(picked, r)
				}
				records = picked
			}

			k := imagery.ParseKind(kind)
			results := a.imageResolver().ResolveAll(cmd.Context(), records, k, imagery.Options{}, a.cfg.Images.Concurrency)
			writeImages(cmd.OutOrStdout(), records, results)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "thumb", "Image kind: thumb, full, featured, texture")
	return cmd
}

func writeImages(w io.Writer, records []catalog.Record, results []imagery.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tINDEX\tTRIED\tURL")
	for i, r := range records {
		res := results[i]
		u := res.URL
		if u == "" {
			u = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", r.ID, res.Status, res.Index, len(res.Attempts), u)
	}
	_ = tw.Flush()
}

func newAPODCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "apod",
		Short: "Show NASA's astronomy picture of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.app()
			if err != nil {
				return err
			}
			defer a.Close()

			f := a.apodClient().FetchFeatured(cmd.Context())
			out := cmd.OutOrStdout()
			if isTerminal(out) {
				fmt.Fprintln(out, apod.Render(f, 72))
				return nil
			}
			apod.WriteFeatured(out, f)
			return nil
		},
	}
}

func newISSCmd(flags *globalFlags) *cobra.Command {
	var (
		follow  bool
		geoJSON bool
	)

	cmd := &cobra.Command{
		Use:   "iss",
		Short: "Show the International Space Station position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.app()
			if err != nil {
				return err
			}
			defer a.Close()

			t := a.tracker()
			out := cmd.OutOrStdout()

			if !follow {
				if err := t.Poll(cmd.Context()); err != nil {
					return err
				}
				return writeTracker(out, t.Snapshot(), geoJSON)
			}

			// Follow until interrupted; GeoJSON gets the whole trail at the end.
			t.Run(cmd.Context(), func(s tracker.Snapshot) {
				if !geoJSON {
					writeFollowLine(out, s)
				}
			})
			if geoJSON {
				return tracker.WriteGeoJSON(out, t.Snapshot().Trail)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&follow, "follow", false, "Keep polling until interrupted")
	cmd.Flags().BoolVar(&geoJSON, "geojson", false, "Write the trail and position as GeoJSON")
	return cmd
}

func writeTracker(w io.Writer, s tracker.Snapshot, geoJSON bool) error {
	if geoJSON {
		return tracker.WriteGeoJSON(w, s.Trail)
	}
	tracker.WriteSnapshot(w, s)
	return nil
}

// writeFollowLine prints one line per poll.
func writeFollowLine(w io.Writer, s tracker.Snapshot) {
	if s.LastError != nil {
		fmt.Fprintf(w, "%s  error: %v\n", s.LastPoll.UTC().Format(time.TimeOnly), s.LastError)
		return
	}
	p := s.Latest
	fmt.Fprintf(w, "%s  %8.2f %8.2f  %7.1f km  %8.1f km/h  trail %d\n",
		p.Time().Format(time.TimeOnly), p.Latitude, p.Longitude, p.Altitude, p.Velocity, len(s.Trail))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ls-atlas v%s\n", version.Version)
		},
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
