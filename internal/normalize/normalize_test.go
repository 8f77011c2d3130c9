package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/newtype-works/cardwarden/internal/card"
)

func TestNormalizeID(t *testing.T) {
	c := card.Card{"id": "  st01-001 "}
	assert.True(t, Normalize(c))
	assert.Equal(t, "ST01-001", c["id"])
}

func TestNormalizeTrimsStringFields(t *testing.T) {
	c := card.Card{
		"id":       "ST01-001",
		"name":     "  Gundam ",
		"set":      "ST01 ",
		"color":    " Blue",
		"type":     " Unit ",
		"imageUrl": " /card_art/ST01-001.webp ",
	}
	assert.True(t, Normalize(c))
	assert.Equal(t, "Gundam", c["name"])
	assert.Equal(t, "ST01", c["set"])
	assert.Equal(t, "Blue", c["color"])
	assert.Equal(t, "Unit", c["type"])
	assert.Equal(t, "/card_art/ST01-001.webp", c["imageUrl"])
}

func TestNormalizeNonStringPassesThrough(t *testing.T) {
	c := card.Card{"id": "ST01-001", "name": 42.0, "color": "Blue", "type": "Unit"}
	Normalize(c)
	assert.Equal(t, 42.0, c["name"])
}

func TestNormalizeCollapsesText(t *testing.T) {
	c := card.Card{
		"id":    "ST01-001",
		"color": "Blue",
		"type":  "Unit",
		"text":  "  When this  card\n\tattacks,   draw 1. ",
	}
	assert.True(t, Normalize(c))
	assert.Equal(t, "When this card attacks, draw 1.", c["text"])
}

func TestNormalizeDefaultsColor(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		c := card.Card{"id": "ST01-001", "type": "Unit"}
		Normalize(c)
		assert.Equal(t, "Colorless", c["color"])
	})

	t.Run("whitespace only", func(t *testing.T) {
		c := card.Card{"id": "ST01-001", "type": "Unit", "color": "   "}
		Normalize(c)
		assert.Equal(t, "Colorless", c["color"])
	})

	t.Run("present value untouched", func(t *testing.T) {
		c := card.Card{"id": "ST01-001", "type": "Unit", "color": "Chartreuse"}
		Normalize(c)
		// Wrong, but present: the validator flags it, normalization
		// never overrides it.
		assert.Equal(t, "Chartreuse", c["color"])
	})
}

func TestNormalizeInfersType(t *testing.T) {
	t.Run("ap implies unit", func(t *testing.T) {
		c := card.Card{"id": "ST01-001", "color": "Blue", "ap": 3.0}
		Normalize(c)
		assert.Equal(t, "Unit", c["type"])
	})

	t.Run("hp implies unit", func(t *testing.T) {
		c := card.Card{"id": "ST01-001", "color": "Blue", "hp": 4.0}
		Normalize(c)
		assert.Equal(t, "Unit", c["type"])
	})

	t.Run("resource name implies resource", func(t *testing.T) {
		c := card.Card{"id": "EXR-001", "color": "Colorless", "name": "EX Resource"}
		Normalize(c)
		assert.Equal(t, "Resource", c["type"])
	})

	t.Run("no signal stays unset", func(t *testing.T) {
		c := card.Card{"id": "ST01-001", "color": "Blue", "name": "Gundam"}
		Normalize(c)
		_, present := c["type"]
		assert.False(t, present)
	})

	t.Run("present type untouched", func(t *testing.T) {
		c := card.Card{"id": "ST01-001", "color": "Blue", "type": "Pilot", "ap": 3.0}
		Normalize(c)
		assert.Equal(t, "Pilot", c["type"])
	})
}

func TestNormalizeTraits(t *testing.T) {
	c := card.Card{
		"id":     "ST01-001",
		"color":  "Blue",
		"type":   "Unit",
		"traits": []any{"Earth Federation", "Mobile Suit", "Earth Federation", 7.0, nil},
	}
	assert.True(t, Normalize(c))
	assert.Equal(t, []any{"Earth Federation", "Mobile Suit"}, c["traits"])
}

func TestNormalizeUntouchedReportsFalse(t *testing.T) {
	c := card.Card{
		"id":     "ST01-001",
		"name":   "Gundam",
		"color":  "Blue",
		"type":   "Unit",
		"text":   "Clean already.",
		"traits": []any{"Mobile Suit"},
	}
	assert.False(t, Normalize(c))
}
