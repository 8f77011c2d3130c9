package card

import (
	"math"
	"regexp"
	"strings"
)

// Card represents one catalog entry. The catalog schema is open: fields the
// pipeline does not recognize must round-trip untouched, so a card is a plain
// JSON object with typed accessors layered on top rather than a fixed struct.
type Card map[string]any

// Colors is the set of valid card colors.
var Colors = []string{"Blue", "Green", "Red", "White", "Purple", "Colorless"}

// Types is the set of valid card types.
var Types = []string{"Unit", "Pilot", "Command", "Base", "Resource"}

// idPattern matches canonical card ids like ST01-001 or GD01-0041A: an
// alphanumeric set prefix, a dash, a 3-4 digit number and an optional
// variant letter.
var idPattern = regexp.MustCompile(`^[A-Z0-9]+-[0-9]{3,4}[A-Z]?$`)

// NormalizeID returns the canonical form of a raw id: trimmed and upper-cased.
func NormalizeID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidID reports whether id (already normalized) matches the id pattern.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// ValidColor reports whether s is one of the defined color values.
func ValidColor(s string) bool {
	for _, c := range Colors {
		if s == c {
			return true
		}
	}
	return false
}

// ValidType reports whether s is one of the defined type values.
func ValidType(s string) bool {
	for _, t := range Types {
		if s == t {
			return true
		}
	}
	return false
}

// ID returns the card's normalized id, or "" if the id field is missing or
// not a string.
func (c Card) ID() string {
	return NormalizeID(c.Str("id"))
}

// Str returns the string value for key, or "" if the field is absent or not
// a string. The value is not trimmed.
func (c Card) Str(key string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return ""
}

// Number returns the numeric value for key. The second return is false if
// the field is absent, not a number, or not finite.
func (c Card) Number(key string) (float64, bool) {
	switch n := c[key].(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Traits returns the card's traits, dropping any non-string entries.
func (c Card) Traits() []string {
	raw, ok := c["traits"].([]any)
	if !ok {
		return nil
	}
	var traits []string
	for _, t := range raw {
		if s, ok := t.(string); ok {
			traits = append(traits, s)
		}
	}
	return traits
}

// HasValue reports whether key holds a meaningful value: a string that is
// non-empty after trimming, a non-empty array or object, or any number or
// boolean. Nil and absent fields do not count.
func (c Card) HasValue(key string) bool {
	v, ok := c[key]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	}
	return true
}

// Clone returns a copy of the card. Top-level fields are copied; nested
// values are shared.
func (c Card) Clone() Card {
	out := make(Card, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// FromAny converts one decoded JSON array entry to a Card. The second return
// is false for malformed entries (anything that is not an object).
func FromAny(v any) (Card, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return Card(obj), true
}
