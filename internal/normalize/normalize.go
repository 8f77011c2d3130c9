package normalize

import (
	"strings"

	"github.com/newtype-works/cardwarden/internal/card"
)

// trimmedFields are the string fields that only need surrounding whitespace
// removed. Non-string values pass through untouched.
var trimmedFields = []string{"name", "set", "color", "type", "imageUrl", "placeholderArt"}

// Normalize cleans up a single card in place and reports whether anything
// changed. It only ever fills fields that are genuinely empty or missing;
// a present value is never overridden, even when it looks wrong - the
// validator flags those instead.
func Normalize(c card.Card) bool {
	touched := false

	if raw, ok := c["id"].(string); ok {
		if norm := card.NormalizeID(raw); norm != raw {
			c["id"] = norm
			touched = true
		}
	}

	for _, field := range trimmedFields {
		if raw, ok := c[field].(string); ok {
			if trimmed := strings.TrimSpace(raw); trimmed != raw {
				c[field] = trimmed
				touched = true
			}
		}
	}

	if raw, ok := c["text"].(string); ok {
		if collapsed := collapseWhitespace(raw); collapsed != raw {
			c["text"] = collapsed
			touched = true
		}
	}

	// Tokens and support cards come out of some sources with no color at
	// all; they are colorless by definition.
	if !c.HasValue("color") {
		c["color"] = "Colorless"
		touched = true
	}

	if !c.HasValue("type") {
		if t, ok := inferType(c); ok {
			c["type"] = t
			touched = true
		}
	}

	if dedupeTraits(c) {
		touched = true
	}

	return touched
}

// collapseWhitespace trims s and squeezes internal whitespace runs down to a
// single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// inferType guesses a missing card type from what else is on the record.
// A card with combat stats can only be a Unit; a "resource" in the name
// marks the resource cards. Anything else stays unset and surfaces as a
// validation error - inference is conservative, not exhaustive.
func inferType(c card.Card) (string, bool) {
	if _, ok := c.Number("ap"); ok {
		return "Unit", true
	}
	if _, ok := c.Number("hp"); ok {
		return "Unit", true
	}
	if strings.Contains(strings.ToLower(c.Str("name")), "resource") {
		return "Resource", true
	}
	return "", false
}

// dedupeTraits removes duplicate and non-string trait entries, keeping
// first-seen order. Reports whether the list changed.
func dedupeTraits(c card.Card) bool {
	raw, ok := c["traits"].([]any)
	if !ok {
		return false
	}

	seen := make(map[string]bool, len(raw))
	deduped := make([]any, 0, len(raw))
	for _, entry := range raw {
		s, isStr := entry.(string)
		if !isStr || seen[s] {
			continue
		}
		seen[s] = true
		deduped = append(deduped, s)
	}

	if len(deduped) == len(raw) {
		return false
	}
	c["traits"] = deduped
	return true
}
