package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPlanets = `[
	{"id":"mars","name":"Mars","type":"terrestrial","color":"#ef4444","distance":227.9,"radius":3390,"atmosphere":{"CO2":95}},
	{"id":"earth","name":"Earth","type":"terrestrial","color":"#3b82f6","distance":149.6,"radius":6371}
]`

func TestLoader_PrimaryHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "ls-atlas")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoPlanets))
	}))
	defer srv.Close()

	res := NewLoader(WithSource(srv.URL + "/data/planets.json")).Fetch(context.Background())
	require.NoError(t, res.Error)
	assert.Equal(t, OriginPrimary, res.Origin)
	require.Len(t, res.Records, 2)
	// Document order is kept.
	assert.Equal(t, "mars", res.Records[0].ID)
	assert.Equal(t, "earth", res.Records[1].ID)
}

func TestLoader_KeepsDocumentOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":"neptune","name":"Neptune","type":"ice giant","color":"#4b70dd","distance":4495,"radius":24622},
			{"id":"mercury","name":"Mercury","type":"terrestrial","color":"#9ca3af","distance":57.9,"radius":2440}
		]`))
	}))
	defer srv.Close()

	records, err := NewLoader(WithSource(srv.URL)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "neptune", records[0].ID)

	week, ok := SelectCurrent(records, time.UnixMilli(0))
	require.True(t, ok)
	assert.Equal(t, "neptune", week.ID, "week 0 picks the first loaded record")
	assert.Equal(t, "neptune", Preview(records, 6)[0].ID)

	sorted := ByDistance(records)
	assert.Equal(t, "mercury", sorted[0].ID)
	assert.Equal(t, "neptune", records[0].ID, "ByDistance must not reorder its input")
}

func TestLoader_WrappedDataObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":` + twoPlanets + `}`))
	}))
	defer srv.Close()

	records, err := NewLoader(WithSource(srv.URL)).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoader_FallbackOnStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	res := NewLoader(WithSource(srv.URL)).Fetch(context.Background())
	require.NoError(t, res.Error)
	assert.Equal(t, OriginFallback, res.Origin)
	assert.Error(t, res.PrimaryErr)
	assert.Len(t, res.Records, 8)
}

func TestLoader_FallbackOnParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	res := NewLoader(WithSource(srv.URL), WithFallback([]byte(twoPlanets))).Fetch(context.Background())
	require.NoError(t, res.Error)
	assert.Equal(t, OriginFallback, res.Origin)
	assert.Len(t, res.Records, 2)
}

func TestLoader_DataUnavailable(t *testing.T) {
	res := NewLoader(
		WithSource(filepath.Join(t.TempDir(), "missing.json")),
		WithFallback(nil),
	).Fetch(context.Background())

	require.Error(t, res.Error)
	assert.True(t, errors.Is(res.Error, ErrDataUnavailable))
	assert.Empty(t, res.Records)
}

func TestLoader_BrokenFallback(t *testing.T) {
	_, err := NewLoader(
		WithSource(filepath.Join(t.TempDir(), "missing.json")),
		WithFallback([]byte(`{"planets":[]}`)),
	).Load(context.Background())

	assert.True(t, errors.Is(err, ErrDataUnavailable))
}

func TestLoader_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planets.json")
	require.NoError(t, os.WriteFile(path, []byte(twoPlanets), 0o644))

	for _, src := range []string{path, "file://" + path} {
		res := NewLoader(WithSource(src), WithFallback(nil)).Fetch(context.Background())
		require.NoError(t, res.Error, src)
		assert.Equal(t, OriginPrimary, res.Origin)
	}
}

func TestEmbeddedCatalogIsValid(t *testing.T) {
	records, err := Decode(embeddedCatalog)
	require.NoError(t, err)
	require.Len(t, records, 8)
	_, ok := Find(records, ReferenceID)
	assert.True(t, ok, "embedded catalog must contain the reference planet")
}
