package imagery

import (
	"net/url"
	"path"
	"strings"

	"github.com/litescript/ls-atlas/internal/catalog"
)

// Kind selects which curated variants a consumer wants.
type Kind int

const (
	// KindThumb is a grid card thumbnail.
	KindThumb Kind = iota
	// KindFull is a full-size detail photo.
	KindFull
	// KindFeatured is the planet-of-the-week card, which prefers a local asset.
	KindFeatured
	// KindTexture is a surface map for the sphere viewer.
	KindTexture
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindThumb:
		return "thumb"
	case KindFull:
		return "full"
	case KindFeatured:
		return "featured"
	case KindTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// ParseKind parses a kind name, defaulting to KindThumb.
func ParseKind(s string) Kind {
	switch s {
	case "full":
		return KindFull
	case "featured", "week":
		return KindFeatured
	case "texture":
		return KindTexture
	default:
		return KindThumb
	}
}

const (
	// PlaceholderHost generates a solid image with centered text.
	PlaceholderHost = "https://placehold.co"

	// DefaultPlaceholderSize matches the atlas grid.
	DefaultPlaceholderSize = "400x400"

	// PreviewPlaceholderSize is used by the landing page preview strip.
	PreviewPlaceholderSize = "200x200"

	// ImagesDir and TexturesDir are the local asset conventions.
	ImagesDir   = "assets/images"
	TexturesDir = "assets/textures"
)

// Options tune candidate generation.
type Options struct {
	// PlaceholderSize is "WxH"; defaults to DefaultPlaceholderSize.
	PlaceholderSize string
	// PlaceholderFormat forces a raster extension ("png") on the placeholder,
	// which the texture decoder needs. Empty leaves the service default.
	PlaceholderFormat string
}

// Candidates returns the ordered list of image URLs to try for r. The list
// is never empty and always ends with the generated placeholder.
func Candidates(r catalog.Record, kind Kind, opts Options) []string {
	var list []string
	add := func(u string) {
		if u != "" {
			list = append(list, u)
		}
	}

	switch kind {
	case KindFull:
		add(remotePhotos[r.ID])
		add(remoteThumbs[r.ID])
	case KindFeatured:
		add(LocalImagePath(r.ID))
		add(remoteThumbs[r.ID])
		add(remotePhotos[r.ID])
	case KindTexture:
		add(LocalTexturePath(r.ID))
		add(remoteTextures[r.ID])
		add(remotePhotos[r.ID])
		if opts.PlaceholderFormat == "" {
			opts.PlaceholderFormat = "png"
		}
	default:
		add(remoteThumbs[r.ID])
		add(remotePhotos[r.ID])
	}

	list = dedupe(list)
	return append(list, Placeholder(r, opts))
}

// Placeholder returns the generated terminal candidate for r.
func Placeholder(r catalog.Record, opts Options) string {
	size := opts.PlaceholderSize
	if size == "" {
		size = DefaultPlaceholderSize
	}
	hex := strings.ToLower(r.HexColor())
	if hex == "" {
		hex = "334155"
	}
	name := r.Name
	if name == "" {
		name = r.ID
	}

	p := "/" + size + "/" + hex + "/ffffff"
	if opts.PlaceholderFormat != "" {
		p += "." + opts.PlaceholderFormat
	}
	return PlaceholderHost + p + "?text=" + encodeComponent(name)
}

// IsPlaceholder reports whether u points at the placeholder service.
func IsPlaceholder(u string) bool {
	return strings.HasPrefix(u, PlaceholderHost+"/")
}

// LocalImagePath is the per-planet photo asset convention.
func LocalImagePath(id string) string {
	return path.Join(ImagesDir, id+".jpg")
}

// LocalTexturePath is the per-planet texture asset convention.
func LocalTexturePath(id string) string {
	return path.Join(TexturesDir, id+".jpg")
}

// IsLocal reports whether u is a local asset path rather than a URL.
func IsLocal(u string) bool {
	return !strings.Contains(u, "://") || strings.HasPrefix(u, "file://")
}

// encodeComponent escapes like a browser's encodeURIComponent: spaces become
// %20 rather than '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, u := range list {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
