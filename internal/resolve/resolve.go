package resolve

import (
	"path/filepath"

	"github.com/newtype-works/cardwarden/internal/artstore"
	"github.com/newtype-works/cardwarden/internal/card"
	"github.com/newtype-works/cardwarden/internal/imageref"
	"github.com/newtype-works/cardwarden/internal/imagesig"
)

// Resolver picks the single canonical image reference for each card. It
// must run after the art directory has been cleaned (so a surviving file is
// known to be structurally valid) and after reconciliation (one call per
// surviving record).
type Resolver struct {
	ArtDir string
	Hosts  []string
}

// Outcome reports what Resolve did to one card.
type Outcome struct {
	Changed            bool // any field was rewritten
	MissingSource      bool // card ended up with neither imageUrl nor placeholderArt
	HadInvalidLocalRef bool // imageUrl pointed at a local asset that failed validation
}

// Resolve rewrites the card's imageUrl in place. In order: a valid local
// asset under the card's own id is authoritative and overrides whatever was
// there; a local reference whose file is missing or fails validation falls
// back to the placeholder or is dropped; a URL on a recognized remote host
// keeps only its path part. Anything else is left alone, including a local
// reference to a valid file under another card's id (shared art).
func (r *Resolver) Resolve(c card.Card) Outcome {
	var out Outcome
	id := c.ID()
	current := c.Str("imageUrl")

	if ext, ok := artstore.CanonicalExt(r.ArtDir, id); ok {
		ref := imageref.LocalRef(id, ext)
		if current != ref {
			c["imageUrl"] = ref
			out.Changed = true
		}
	} else if r.deadLocalRef(current) {
		// The reference is local and the file it names was either deleted
		// by the cleaner or never there.
		out.HadInvalidLocalRef = true
		out.Changed = true
		placeholder := c.Str("placeholderArt")
		if placeholder != "" && !r.deadLocalRef(placeholder) {
			c["imageUrl"] = placeholder
		} else {
			delete(c, "imageUrl")
		}
	} else if imageref.OnRecognizedHost(current, r.Hosts) {
		if stripped := imageref.StripQuery(current); stripped != current {
			c["imageUrl"] = stripped
			out.Changed = true
		}
	}

	if !c.HasValue("imageUrl") && !c.HasValue("placeholderArt") {
		out.MissingSource = true
	}

	return out
}

// deadLocalRef reports whether ref names a local asset whose file is
// missing or fails signature validation. References to valid files are
// never dead, even when the file belongs to a different id.
func (r *Resolver) deadLocalRef(ref string) bool {
	if !imageref.IsLocal(ref) {
		return false
	}
	path := filepath.Join(r.ArtDir, imageref.LocalName(ref))
	return !imagesig.IsValidImage(path, imageref.LocalExt(ref))
}
