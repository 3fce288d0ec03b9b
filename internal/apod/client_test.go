package apod

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const imageJSON = `{"title":"Pillars","url":"https://apod.nasa.gov/pillars.jpg","hdurl":"https://apod.nasa.gov/pillars_hd.jpg","media_type":"image","date":"2026-10-19"}`

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestDirectImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TEST", r.URL.Query().Get("api_key"))
		jsonHandler(http.StatusOK, imageJSON)(w, r)
	}))
	defer srv.Close()

	c := NewClient(WithURL(srv.URL), WithAPIKey("TEST"), WithProxyURL(""))
	f := c.FetchFeatured(context.Background())

	assert.Equal(t, KindImage, f.Kind)
	assert.Equal(t, SourceDirect, f.Source)
	assert.Equal(t, "Pillars", f.Title)
	assert.Equal(t, "https://apod.nasa.gov/pillars.jpg", f.URL)
	assert.Empty(t, f.Errors)
}

func TestDirectVideo(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK,
		`{"title":"Launch","url":"https://youtube.com/embed/x","media_type":"video"}`))
	defer srv.Close()

	f := NewClient(WithURL(srv.URL), WithProxyURL("")).FetchFeatured(context.Background())
	assert.Equal(t, KindVideo, f.Kind)
	assert.Equal(t, "https://youtube.com/embed/x", f.Link)
}

func TestTimeoutFallsBackToProxy(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	var proxied atomic.Value
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied.Store(r.URL.Query().Get("url"))
		jsonHandler(http.StatusOK, imageJSON)(w, r)
	}))
	defer proxy.Close()

	c := NewClient(
		WithURL(slow.URL),
		WithProxyURL(proxy.URL+"/raw?url="),
		WithTimeout(50*time.Millisecond),
	)

	start := time.Now()
	f := c.FetchFeatured(context.Background())
	assert.Less(t, time.Since(start), time.Second)

	assert.Equal(t, SourceProxy, f.Source)
	assert.Equal(t, KindImage, f.Kind)
	require.Len(t, f.Errors, 1)
	assert.True(t, errors.Is(f.Errors[0], context.DeadlineExceeded))
	assert.Equal(t, c.DirectURL(), proxied.Load())
}

func TestRateLimitedThenProxyFailureIsStatic(t *testing.T) {
	direct := httptest.NewServer(jsonHandler(http.StatusTooManyRequests, `{}`))
	defer direct.Close()
	proxy := httptest.NewServer(jsonHandler(http.StatusInternalServerError, `oops`))
	defer proxy.Close()

	c := NewClient(WithURL(direct.URL), WithProxyURL(proxy.URL+"/?url="))
	f := c.FetchFeatured(context.Background())

	assert.Equal(t, KindFallback, f.Kind)
	assert.Equal(t, SourceStatic, f.Source)
	assert.Equal(t, StaticLink, f.Link)
	require.Len(t, f.Errors, 2)
	assert.True(t, errors.Is(f.Errors[0], ErrRateLimited))
	assert.Error(t, f.Err())

	var buf bytes.Buffer
	WriteFeatured(&buf, f)
	assert.Contains(t, buf.String(), "https://apod.nasa.gov")
	assert.Contains(t, Render(f, 60), "apod.nasa.gov")
}

func TestUnsupportedMedia(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, `{"title":"x","media_type":"other"}`))
	defer srv.Close()

	f := NewClient(WithURL(srv.URL), WithProxyURL("")).FetchFeatured(context.Background())
	assert.Equal(t, KindFallback, f.Kind)
	require.Len(t, f.Errors, 1)
	assert.True(t, errors.Is(f.Errors[0], ErrUnsupportedMedia))
}

func TestProxiedURLEscapesDirect(t *testing.T) {
	c := NewClient()
	got := c.ProxiedURL()
	assert.True(t, strings.HasPrefix(got, DefaultProxyURL))
	assert.Contains(t, got, "https%3A%2F%2Fapi.nasa.gov%2Fplanetary%2Fapod%3Fapi_key%3DDEMO_KEY")
}

func TestRenderImage(t *testing.T) {
	f := Featured{Kind: KindImage, Title: "Pillars", URL: "https://x/p.jpg", Source: SourceDirect}
	out := Render(f, 50)
	assert.Contains(t, out, "Pillars")
	assert.Contains(t, out, "Picture of the day")
}

func TestProxyVideoIsStatic(t *testing.T) {
	direct := httptest.NewServer(jsonHandler(http.StatusInternalServerError, `down`))
	defer direct.Close()
	proxy := httptest.NewServer(jsonHandler(http.StatusOK,
		`{"title":"Launch","url":"https://www.youtube.com/embed/x","media_type":"video"}`))
	defer proxy.Close()

	f := NewClient(WithURL(direct.URL), WithProxyURL(proxy.URL+"/?url=")).FetchFeatured(context.Background())

	assert.Equal(t, KindFallback, f.Kind)
	assert.Equal(t, SourceStatic, f.Source)
	require.Len(t, f.Errors, 2)
	assert.True(t, errors.Is(f.Errors[1], ErrUnsupportedMedia))
}
