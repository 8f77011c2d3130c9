package imageref

import (
	"net/url"
	"path"
	"strings"
)

// LocalPrefix is the path prefix under which the catalog references local
// art assets. A card's imageUrl of "/card_art/ST01-001.webp" points at the
// file ST01-001.webp inside the art directory.
const LocalPrefix = "/card_art/"

// DefaultRemoteHosts are the remote image hosts the pipeline trusts enough
// to keep referencing. Anything else is treated as an arbitrary URL.
var DefaultRemoteHosts = []string{
	"www.gundam-gcg.com",
	"images.gundam-gcg.com",
}

// IsLocal reports whether ref is a local art reference.
func IsLocal(ref string) bool {
	return strings.HasPrefix(ref, LocalPrefix)
}

// LocalName returns the bare file name of a local art reference.
func LocalName(ref string) string {
	return path.Base(ref)
}

// LocalExt returns the extension (without dot, lower-cased) of a local art
// reference, or "" if it has none.
func LocalExt(ref string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(ref)), ".")
}

// LocalRef builds the catalog reference for an asset file {id}.{ext}.
func LocalRef(id, ext string) string {
	return LocalPrefix + id + "." + ext
}

// OnRecognizedHost reports whether ref is an http(s) URL on one of hosts.
func OnRecognizedHost(ref string, hosts []string) bool {
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	for _, h := range hosts {
		if strings.EqualFold(u.Host, h) {
			return true
		}
	}
	return false
}

// StripQuery removes any query string and fragment from ref, leaving the
// rest of the URL untouched.
func StripQuery(ref string) string {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		return ref[:i]
	}
	return ref
}

// Score ranks the quality of an image reference by its string shape alone;
// the file behind a local reference is not read. Local references rank
// above remote ones, with webp preferred among local assets, mirroring the
// extension priority the canonical-path probe uses.
func Score(ref string, hosts []string) int {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return 0
	case IsLocal(ref):
		switch LocalExt(ref) {
		case "webp":
			return 5
		case "png":
			return 4
		case "jpg", "jpeg":
			return 3
		}
		return 1
	case OnRecognizedHost(ref, hosts):
		return 2
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return 1
	}
	return 0
}
