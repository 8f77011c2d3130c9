package validator

import (
	"fmt"
	"sort"

	"github.com/newtype-works/cardwarden/internal/card"
)

// ErrorKind identifies one class of validation failure. The fix pass only
// ever repairs structural problems (duplicates, malformed entries, image
// bookkeeping); semantic kinds like an invalid enum or a negative cost are
// reported but never auto-corrected.
type ErrorKind string

const (
	ErrMalformedRecord    ErrorKind = "malformed record (not an object)"
	ErrMissingID          ErrorKind = "missing id"
	ErrInvalidIDFormat    ErrorKind = "invalid id format"
	ErrDuplicateID        ErrorKind = "duplicate id"
	ErrMissingName        ErrorKind = "missing name"
	ErrMissingSet         ErrorKind = "missing set"
	ErrMissingColor       ErrorKind = "missing color"
	ErrInvalidColor       ErrorKind = "invalid color"
	ErrMissingType        ErrorKind = "missing type"
	ErrInvalidType        ErrorKind = "invalid type"
	ErrMissingCost        ErrorKind = "missing cost"
	ErrInvalidCost        ErrorKind = "negative or non-finite cost"
	ErrMissingImageSource ErrorKind = "no image source (imageUrl or placeholderArt)"
	ErrCorruptImage       ErrorKind = "referenced local asset fails signature validation"
)

// Issue collects every validation failure found on one card.
type Issue struct {
	CardID string
	Errors []ErrorKind
}

// ValidateCard applies the record-level rule set to a single card. All
// checks run; nothing short-circuits. The function is read-only and does
// not depend on whether a fix pass ran first.
func ValidateCard(c card.Card) []ErrorKind {
	var errs []ErrorKind

	if id := c.ID(); id == "" {
		errs = append(errs, ErrMissingID)
	} else if !card.ValidID(id) {
		errs = append(errs, ErrInvalidIDFormat)
	}

	if !c.HasValue("name") {
		errs = append(errs, ErrMissingName)
	}
	if !c.HasValue("set") {
		errs = append(errs, ErrMissingSet)
	}

	if !c.HasValue("color") {
		errs = append(errs, ErrMissingColor)
	} else if !card.ValidColor(c.Str("color")) {
		errs = append(errs, ErrInvalidColor)
	}

	if !c.HasValue("type") {
		errs = append(errs, ErrMissingType)
	} else if !card.ValidType(c.Str("type")) {
		errs = append(errs, ErrInvalidType)
	}

	if _, present := c["cost"]; !present {
		errs = append(errs, ErrMissingCost)
	} else if cost, ok := c.Number("cost"); !ok || cost < 0 {
		errs = append(errs, ErrInvalidCost)
	}

	if !c.HasValue("imageUrl") && !c.HasValue("placeholderArt") {
		errs = append(errs, ErrMissingImageSource)
	}

	return errs
}

// ValidateRaw validates a decoded catalog array as-is, before any fixing.
// On top of the record-level rules it flags entries that are not objects
// and the second and later occurrence of every id. Cards without an id are
// labeled by their array position so the report has something to point at.
func ValidateRaw(entries []any) []Issue {
	var issues []Issue
	seen := make(map[string]bool)

	for i, entry := range entries {
		c, ok := card.FromAny(entry)
		if !ok {
			issues = append(issues, Issue{
				CardID: fmt.Sprintf("(entry %d)", i),
				Errors: []ErrorKind{ErrMalformedRecord},
			})
			continue
		}

		errs := ValidateCard(c)

		id := c.ID()
		if id != "" {
			if seen[id] {
				errs = append(errs, ErrDuplicateID)
			}
			seen[id] = true
		}

		if len(errs) > 0 {
			label := id
			if label == "" {
				label = fmt.Sprintf("(entry %d)", i)
			}
			issues = append(issues, Issue{CardID: label, Errors: errs})
		}
	}

	return issues
}

// ValidateCards validates an already reconciled catalog. Duplicate checking
// is skipped: the reconciler guarantees id uniqueness by construction.
// Issues come back sorted by card id.
func ValidateCards(cards map[string]card.Card) []Issue {
	ids := make([]string, 0, len(cards))
	for id := range cards {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var issues []Issue
	for _, id := range ids {
		if errs := ValidateCard(cards[id]); len(errs) > 0 {
			issues = append(issues, Issue{CardID: id, Errors: errs})
		}
	}
	return issues
}
