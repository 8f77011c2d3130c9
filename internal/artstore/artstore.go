package artstore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/newtype-works/cardwarden/internal/imagesig"
)

// FileStatus is the scan outcome for one recognized file.
type FileStatus struct {
	Name  string
	Valid bool
}

// CleanResult aggregates the outcome of one cleaning pass over an art
// directory.
type CleanResult struct {
	Scanned int          // files with a recognized extension that were checked
	Deleted int          // files removed because their header failed validation
	Errors  int          // deletions that failed (counted, not fatal)
	Removed []string     // names of the files that were deleted
	Files   []FileStatus // per-file scan outcomes, in directory order
}

// Scan checks every file in dir with a recognized extension against the
// signature for that extension, touching nothing. A missing directory scans
// as empty.
func Scan(dir string) ([]FileStatus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var statuses []FileStatus
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(entry.Name())), ".")
		if !imagesig.Recognized(ext) {
			continue
		}
		statuses = append(statuses, FileStatus{
			Name:  entry.Name(),
			Valid: imagesig.IsValidImage(filepath.Join(dir, entry.Name()), ext),
		})
	}
	return statuses, nil
}

// Clean walks dir and deletes every file whose extension is recognized but
// whose leading bytes do not match the signature for that extension. Files
// with unrecognized extensions are ignored entirely. Deletion is best
// effort: a failed remove is counted in Errors and the pass continues.
//
// Later pipeline stages assume that a surviving file with a recognized
// extension is structurally valid, so this must run before image
// resolution.
func Clean(dir string) (CleanResult, error) {
	var res CleanResult

	statuses, err := Scan(dir)
	if err != nil {
		return res, err
	}
	res.Files = statuses
	res.Scanned = len(statuses)

	for _, st := range statuses {
		if st.Valid {
			continue
		}
		if err := os.Remove(filepath.Join(dir, st.Name)); err != nil {
			res.Errors++
			continue
		}
		res.Deleted++
		res.Removed = append(res.Removed, st.Name)
	}

	return res, nil
}

// CanonicalExt probes dir for id.webp, id.png, id.jpg then id.jpeg and
// returns the extension of the first file that passes signature validation.
// The fixed probe order makes the choice deterministic when several
// variants of the same asset exist.
func CanonicalExt(dir, id string) (string, bool) {
	for _, ext := range imagesig.Extensions {
		path := filepath.Join(dir, id+"."+ext)
		if imagesig.IsValidImage(path, ext) {
			return ext, true
		}
	}
	return "", false
}
