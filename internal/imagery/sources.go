// Package imagery builds ordered image candidate lists for planets and
// drives them to the first candidate that loads.
package imagery

// Curated remote photos from Wikimedia Commons, keyed by planet id.
var remotePhotos = map[string]string{
	"mercury": "https://upload.wikimedia.org/wikipedia/commons/2/2e/Mercury_in_true_color.jpg",
	"venus":   "https://upload.wikimedia.org/wikipedia/commons/e/e5/Venus-real_color.jpg",
	"earth":   "https://upload.wikimedia.org/wikipedia/commons/6/6f/Earth_Eastern_Hemisphere.jpg",
	"mars":    "https://upload.wikimedia.org/wikipedia/commons/0/02/OSIRIS_Mars_true_color.jpg",
	"jupiter": "https://upload.wikimedia.org/wikipedia/commons/e/e2/Jupiter.jpg",
	"saturn":  "https://upload.wikimedia.org/wikipedia/commons/c/c7/Saturn_during_Equinox.jpg",
	"uranus":  "https://upload.wikimedia.org/wikipedia/commons/3/3d/Uranus2.jpg",
	"neptune": "https://upload.wikimedia.org/wikipedia/commons/5/56/Neptune_Full.jpg",
}

// Smaller thumbnail variants of remotePhotos. Mercury's 400px rendition is
// unreliable, so it uses the 800px one.
var remoteThumbs = map[string]string{
	"mercury": "https://upload.wikimedia.org/wikipedia/commons/thumb/2/2e/Mercury_in_true_color.jpg/800px-Mercury_in_true_color.jpg",
	"venus":   "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e5/Venus-real_color.jpg/400px-Venus-real_color.jpg",
	"earth":   "https://upload.wikimedia.org/wikipedia/commons/thumb/6/6f/Earth_Eastern_Hemisphere.jpg/400px-Earth_Eastern_Hemisphere.jpg",
	"mars":    "https://upload.wikimedia.org/wikipedia/commons/thumb/0/02/OSIRIS_Mars_true_color.jpg/400px-OSIRIS_Mars_true_color.jpg",
	"jupiter": "https://upload.wikimedia.org/wikipedia/commons/thumb/e/e2/Jupiter.jpg/400px-Jupiter.jpg",
	"saturn":  "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c7/Saturn_during_Equinox.jpg/400px-Saturn_during_Equinox.jpg",
	"uranus":  "https://upload.wikimedia.org/wikipedia/commons/thumb/3/3d/Uranus2.jpg/400px-Uranus2.jpg",
	"neptune": "https://upload.wikimedia.org/wikipedia/commons/thumb/5/56/Neptune_Full.jpg/400px-Neptune_Full.jpg",
}

// Equirectangular surface maps (Solar System Scope, 1024px renditions) used
// to wrap the sphere in the detail viewer.
var remoteTextures = map[string]string{
	"mercury": "https://upload.wikimedia.org/wikipedia/commons/thumb/9/92/Solarsystemscope_texture_2k_mercury.jpg/1024px-Solarsystemscope_texture_2k_mercury.jpg",
	"venus":   "https://upload.wikimedia.org/wikipedia/commons/thumb/a/ac/Solarsystemscope_texture_2k_venus_atmosphere.jpg/1024px-Solarsystemscope_texture_2k_venus_atmosphere.jpg",
	"earth":   "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c3/Solarsystemscope_texture_2k_earth_daymap.jpg/1024px-Solarsystemscope_texture_2k_earth_daymap.jpg",
	"mars":    "https://upload.wikimedia.org/wikipedia/commons/thumb/0/04/Solarsystemscope_texture_2k_mars.jpg/1024px-Solarsystemscope_texture_2k_mars.jpg",
	"jupiter": "https://upload.wikimedia.org/wikipedia/commons/thumb/5/5e/Solarsystemscope_texture_2k_jupiter.jpg/1024px-Solarsystemscope_texture_2k_jupiter.jpg",
	"saturn":  "https://upload.wikimedia.org/wikipedia/commons/thumb/b/b2/Solarsystemscope_texture_2k_saturn.jpg/1024px-Solarsystemscope_texture_2k_saturn.jpg",
	"uranus":  "https://upload.wikimedia.org/wikipedia/commons/thumb/9/95/Solarsystemscope_texture_2k_uranus.jpg/1024px-Solarsystemscope_texture_2k_uranus.jpg",
	"neptune": "https://upload.wikimedia.org/wikipedia/commons/thumb/1/1e/Solarsystemscope_texture_2k_neptune.jpg/1024px-Solarsystemscope_texture_2k_neptune.jpg",
}

// HasCurated reports whether any curated remote image exists for id.
func HasCurated(id string) bool {
	_, a := remotePhotos[id]
	_, b := remoteThumbs[id]
	_, c := remoteTextures[id]
	return a || b || c
}
