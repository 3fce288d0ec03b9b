package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-atlas/internal/catalog"
	"github.com/litescript/ls-atlas/internal/imagery"
	"github.com/litescript/ls-atlas/internal/tracker"
	"github.com/litescript/ls-atlas/internal/ui"
	"github.com/litescript/ls-atlas/internal/version"
)

const testCatalog = `[
	{"id":"mars","name":"Mars","type":"terrestrial","color":"#ef4444","distance":227.9,"radius":3390,"atmosphere":{"CO2":95,"N2":2.7}},
	{"id":"earth","name":"Earth","type":"terrestrial","color":"#3b82f6","distance":149.6,"radius":6371}
]`

// execute runs the root command in an empty directory against a catalog
// file and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "planets.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	t.Chdir(dir)
	t.Setenv("LS_ATLAS_CATALOG_SOURCE", path)
	t.Setenv("LS_ATLAS_LOG_LEVEL", "error")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAtlasCmd_JSON(t *testing.T) {
	out, err := execute(t, "atlas", "--json", "--sort", "name-asc")
	require.NoError(t, err)

	var exp catalog.Export
	require.NoError(t, json.Unmarshal([]byte(out), &exp))
	assert.Equal(t, catalog.OriginPrimary, exp.Origin)
	assert.Equal(t, catalog.SortNameAsc, exp.Filter.Sort)
	require.Len(t, exp.Planets, 2)
	assert.Equal(t, "earth", exp.Planets[0].ID)
	assert.Equal(t, "mars", exp.Planets[1].ID)
}

func TestAtlasCmd_NearestFirst(t *testing.T) {
	out, err := execute(t, "atlas", "--json")
	require.NoError(t, err)

	var exp catalog.Export
	require.NoError(t, json.Unmarshal([]byte(out), &exp))
	require.Len(t, exp.Planets, 2)
	assert.Equal(t, "earth", exp.Planets[0].ID)
}

func TestAtlasCmd_Query(t *testing.T) {
	out, err := execute(t, "atlas", "--query", "MAR")
	require.NoError(t, err)
	assert.Contains(t, out, "Mars")
	assert.NotContains(t, out, "Earth")
}

func TestWeekCmd(t *testing.T) {
	// 2024-01-01 is in week 2817; 2817 % 2 picks the second record in
	// document order, not the second-nearest.
	out, err := execute(t, "week", "--at", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Planet of the week #2817: Earth")
	assert.Contains(t, out, "ls-atlas planet earth")

	_, err = execute(t, "week", "--at", "next tuesday")
	assert.Error(t, err)
}

func TestPlanetCmd(t *testing.T) {
	out, err := execute(t, "planet", "--ascii", "--no-texture", "--width", "20", "--height", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "Earth (earth)")
	assert.Contains(t, out, "Size: 1x Earth")
	assert.Contains(t, out, "Atmosphere: No atmosphere data")
	assert.NotContains(t, out, "\x1b[", "ascii output must not carry escape codes")

	out, err = execute(t, "planet", "--ascii", "--no-texture", "mars")
	require.NoError(t, err)
	assert.Contains(t, out, "Mars (mars)")
	assert.Contains(t, out, "CO2 95%, N2 2.7%")

	// Unknown ids show the first planet in the document instead of failing.
	out, err = execute(t, "planet", "--ascii", "--no-texture", "vulcan")
	require.NoError(t, err)
	assert.Contains(t, out, "Mars (mars)")
}

func TestImagesCmd_UnknownPlanet(t *testing.T) {
	_, err := execute(t, "images", "vulcan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vulcan")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ls-atlas v"+version.Version, strings.TrimSpace(out))
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := execute(t, "mars")
	assert.Error(t, err)
}

func TestWriteFollowLine(t *testing.T) {
	var b bytes.Buffer
	writeFollowLine(&b, tracker.Snapshot{
		HasFix: true,
		Latest: tracker.Position{Latitude: 51.5, Longitude: -0.12, Altitude: 420, Velocity: 27600, Timestamp: 1700000000},
		Trail:  make([]tracker.Position, 3),
	})
	line := b.String()
	assert.Contains(t, line, "22:13:20")
	assert.Contains(t, line, "51.50")
	assert.Contains(t, line, "trail 3")
}

func TestResolveImages(t *testing.T) {
	records := []catalog.Record{
		{ID: "mars", Name: "Mars", Color: "#ef4444"},
		{ID: "earth", Name: "Earth", Color: "#3b82f6"},
	}

	// Only the placeholder service answers, so every chain ends there and
	// the placeholder size shows which options each batch used.
	var mu sync.Mutex
	var probed []string
	prober := imagery.ProberFunc(func(ctx context.Context, u string) error {
		mu.Lock()
		probed = append(probed, u)
		mu.Unlock()
		if imagery.IsPlaceholder(u) {
			return nil
		}
		return errors.New("offline")
	})

	var msgs []ui.ImagesResolvedMsg
	send := func(msg tea.Msg) { msgs = append(msgs, msg.(ui.ImagesResolvedMsg)) }

	// Week 0 picks the first record.
	resolveImages(context.Background(), imagery.NewResolver(prober, nil), records, time.UnixMilli(0), 2, send)

	require.Len(t, msgs, 3)
	assert.Equal(t, ui.ImagesWeek, msgs[0].Target)
	require.Len(t, msgs[0].Results, 1)
	week := msgs[0].Results["mars"]
	assert.Equal(t, imagery.StatusResolved, week.Status)
	require.NotEmpty(t, week.Attempts)
	assert.Equal(t, imagery.LocalImagePath("mars"), week.Attempts[0].URL, "featured chain starts with the local asset")

	assert.Equal(t, ui.ImagesPreview, msgs[1].Target)
	assert.Contains(t, msgs[1].Results["earth"].URL, "/"+imagery.PreviewPlaceholderSize+"/")

	assert.Equal(t, ui.ImagesAtlas, msgs[2].Target)
	assert.Len(t, msgs[2].Results, 2)
	assert.Contains(t, msgs[2].Results["earth"].URL, "/"+imagery.DefaultPlaceholderSize+"/")
	assert.Contains(t, probed, imagery.LocalImagePath("mars"))
}
