package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/newtype-works/cardwarden/internal/artstore"
	"github.com/newtype-works/cardwarden/internal/card"
	"github.com/newtype-works/cardwarden/internal/imageref"
	"github.com/newtype-works/cardwarden/internal/imagesig"
	"github.com/newtype-works/cardwarden/internal/normalize"
	"github.com/newtype-works/cardwarden/internal/reconcile"
	"github.com/newtype-works/cardwarden/internal/report"
	"github.com/newtype-works/cardwarden/internal/resolve"
	"github.com/newtype-works/cardwarden/internal/validator"
)

// Options configures one pipeline run.
type Options struct {
	CatalogPath string
	ArtDir      string
	RemoteHosts []string
	Fix         bool // run the mutating fix path; otherwise validate only
	Verbose     bool // per-stage counts and per-file scan results
	Out         io.Writer
}

// FixStats counts what one fix pass changed. All counters are zero on a
// second run over the same input: the fix path is idempotent.
type FixStats struct {
	DuplicatesRemoved   int
	ImageURLsNormalized int
	InvalidLocalRefs    int
	MissingImageSource  int
	RecordsTrimmed      int
	RecordsDropped      int
	FilesScanned        int
	FilesDeleted        int
	FileErrors          int
}

// Changed reports whether the fix pass altered anything at all.
func (s FixStats) Changed() bool {
	return s.DuplicatesRemoved > 0 || s.ImageURLsNormalized > 0 ||
		s.InvalidLocalRefs > 0 || s.RecordsTrimmed > 0 ||
		s.RecordsDropped > 0 || s.FilesDeleted > 0
}

// Load reads and decodes the catalog file. Any failure here is fatal to
// the run: the pipeline never proceeds, and never mutates anything, on a
// catalog it could not fully parse.
func Load(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading catalog: %v", err)
	}
	var entries []any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing catalog: %v", err)
	}
	return entries, nil
}

// Run executes one pipeline pass and prints the report. It returns whether
// the (possibly fixed) catalog validated clean; err is non-nil only for
// fatal conditions (unreadable or unparsable catalog, failed write).
func Run(opts Options) (bool, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	entries, err := Load(opts.CatalogPath)
	if err != nil {
		return false, err
	}

	if !opts.Fix {
		if opts.Verbose {
			statuses, scanErr := artstore.Scan(opts.ArtDir)
			if scanErr != nil {
				fmt.Fprintf(out, "error scanning art directory: %v\n", scanErr)
			}
			printScan(out, statuses)
		}
		issues := validator.ValidateRaw(entries)
		issues = corruptAssetIssues(issues, entries, opts.ArtDir)
		rep := report.Build(objectEntries(entries), issues)
		rep.Print(out)
		return len(issues) == 0, nil
	}

	cards, stats, err := Fix(entries, opts, out)
	if err != nil {
		return false, err
	}

	issues := validator.ValidateCards(cards)
	rep := report.Build(sortedCards(cards), issues)
	rep.Print(out)

	if opts.Verbose {
		printStats(out, stats)
	}

	return len(issues) == 0, nil
}

// Fix executes the mutating path: clean the art directory, normalize and
// reconcile the records, resolve every image reference, then atomically
// rewrite the catalog. The file-system deletions happen first and the
// catalog write is the commit point; if the process dies in between, the
// old catalog at worst references already-deleted assets, which the next
// run repairs.
func Fix(entries []any, opts Options, out io.Writer) (map[string]card.Card, FixStats, error) {
	var stats FixStats

	cleaned, err := artstore.Clean(opts.ArtDir)
	if err != nil {
		return nil, stats, fmt.Errorf("error cleaning art directory: %v", err)
	}
	stats.FilesScanned = cleaned.Scanned
	stats.FilesDeleted = cleaned.Deleted
	stats.FileErrors = cleaned.Errors
	if opts.Verbose {
		printScan(out, cleaned.Files)
		for _, name := range cleaned.Removed {
			fmt.Fprintf(out, "deleted invalid asset: %s\n", name)
		}
	}

	for _, entry := range entries {
		if c, ok := card.FromAny(entry); ok {
			if normalize.Normalize(c) {
				stats.RecordsTrimmed++
			}
		}
	}

	rec := reconcile.Reconcile(entries, opts.RemoteHosts)
	stats.DuplicatesRemoved = rec.DuplicatesRemoved
	stats.RecordsDropped = rec.Malformed + rec.MissingID

	resolver := &resolve.Resolver{ArtDir: opts.ArtDir, Hosts: opts.RemoteHosts}
	for _, id := range sortedIDs(rec.Cards) {
		outcome := resolver.Resolve(rec.Cards[id])
		if outcome.Changed {
			stats.ImageURLsNormalized++
		}
		if outcome.HadInvalidLocalRef {
			stats.InvalidLocalRefs++
		}
		if outcome.MissingSource {
			stats.MissingImageSource++
		}
	}

	if err := writeCatalog(opts.CatalogPath, rec.Cards); err != nil {
		return nil, stats, fmt.Errorf("error writing catalog: %v", err)
	}

	return rec.Cards, stats, nil
}

// writeCatalog rewrites the catalog file: records sorted by id ascending,
// pretty-printed with two-space indent, URLs unescaped, one trailing
// newline. The write goes to a temp file first and renames into place so an
// interrupted run never leaves a truncated catalog behind.
func writeCatalog(path string, cards map[string]card.Card) error {
	ordered := sortedCards(cards)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ordered); err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp.%d", path, os.Getpid())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// printScan writes one line per recognized file in the art directory.
func printScan(w io.Writer, statuses []artstore.FileStatus) {
	for _, st := range statuses {
		if st.Valid {
			fmt.Fprintf(w, "scanned %s: ok\n", st.Name)
		} else {
			fmt.Fprintf(w, "scanned %s: invalid signature\n", st.Name)
		}
	}
}

// corruptAssetIssues layers the corrupt-asset check onto the raw validation
// issues. Validate-only mode never runs the cleaner, so a record whose
// imageUrl names a local file with a bad signature would otherwise validate
// clean. A reference to a file that does not exist at all is a dangling
// reference, not a corrupt asset, and is not flagged here.
func corruptAssetIssues(issues []validator.Issue, entries []any, artDir string) []validator.Issue {
	byID := make(map[string]int, len(issues))
	for i, issue := range issues {
		byID[issue.CardID] = i
	}

	for _, entry := range entries {
		c, ok := card.FromAny(entry)
		if !ok {
			continue
		}
		id := c.ID()
		ref := c.Str("imageUrl")
		if id == "" || !imageref.IsLocal(ref) {
			continue
		}
		path := filepath.Join(artDir, imageref.LocalName(ref))
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if imagesig.IsValidImage(path, imageref.LocalExt(ref)) {
			continue
		}
		if i, seen := byID[id]; seen {
			issues[i].Errors = append(issues[i].Errors, validator.ErrCorruptImage)
		} else {
			byID[id] = len(issues)
			issues = append(issues, validator.Issue{
				CardID: id,
				Errors: []validator.ErrorKind{validator.ErrCorruptImage},
			})
		}
	}
	return issues
}

// printStats writes the per-stage counters of a fix pass.
func printStats(w io.Writer, s FixStats) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fix pass:")
	fmt.Fprintf(w, "  assets scanned:        %d\n", s.FilesScanned)
	fmt.Fprintf(w, "  assets deleted:        %d\n", s.FilesDeleted)
	fmt.Fprintf(w, "  asset errors:          %d\n", s.FileErrors)
	fmt.Fprintf(w, "  records trimmed:       %d\n", s.RecordsTrimmed)
	fmt.Fprintf(w, "  records dropped:       %d\n", s.RecordsDropped)
	fmt.Fprintf(w, "  duplicates removed:    %d\n", s.DuplicatesRemoved)
	fmt.Fprintf(w, "  image urls normalized: %d\n", s.ImageURLsNormalized)
	fmt.Fprintf(w, "  invalid local refs:    %d\n", s.InvalidLocalRefs)
	fmt.Fprintf(w, "  missing image sources: %d\n", s.MissingImageSource)
}

// objectEntries filters the raw array down to the entries that are objects,
// for the categorical breakdowns in validate-only mode.
func objectEntries(entries []any) []card.Card {
	var cards []card.Card
	for _, entry := range entries {
		if c, ok := card.FromAny(entry); ok {
			cards = append(cards, c)
		}
	}
	return cards
}

// sortedIDs returns the catalog's ids in ascending order.
func sortedIDs(cards map[string]card.Card) []string {
	ids := make([]string, 0, len(cards))
	for id := range cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// sortedCards returns the catalog's records sorted by id ascending.
func sortedCards(cards map[string]card.Card) []card.Card {
	ordered := make([]card.Card, 0, len(cards))
	for _, id := range sortedIDs(cards) {
		ordered = append(ordered, cards[id])
	}
	return ordered
}
