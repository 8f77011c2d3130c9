package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newtype-works/cardwarden/internal/card"
)

func validCard() card.Card {
	return card.Card{
		"id":       "ST01-001",
		"name":     "Gundam",
		"set":      "ST01",
		"color":    "Blue",
		"type":     "Unit",
		"cost":     3.0,
		"imageUrl": "/card_art/ST01-001.webp",
	}
}

func TestValidateCardClean(t *testing.T) {
	assert.Empty(t, ValidateCard(validCard()))
}

func TestValidateCardIDChecks(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		c := validCard()
		delete(c, "id")
		assert.Contains(t, ValidateCard(c), ErrMissingID)
	})

	t.Run("bad format", func(t *testing.T) {
		for _, id := range []string{"ST01001", "ST01-1", "ST01-12345", "-001", "ST01-001AB"} {
			c := validCard()
			c["id"] = id
			assert.Contains(t, ValidateCard(c), ErrInvalidIDFormat, id)
		}
	})

	t.Run("variant letter allowed", func(t *testing.T) {
		c := validCard()
		c["id"] = "GD01-0041A"
		assert.Empty(t, ValidateCard(c))
	})
}

func TestValidateCardEnums(t *testing.T) {
	c := validCard()
	c["color"] = "Chartreuse"
	c["type"] = "Vehicle"
	errs := ValidateCard(c)
	assert.Contains(t, errs, ErrInvalidColor)
	assert.Contains(t, errs, ErrInvalidType)
}

func TestValidateCardCost(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		c := validCard()
		delete(c, "cost")
		assert.Contains(t, ValidateCard(c), ErrMissingCost)
	})

	t.Run("negative", func(t *testing.T) {
		c := validCard()
		c["cost"] = -1.0
		assert.Contains(t, ValidateCard(c), ErrInvalidCost)
	})

	t.Run("non-numeric", func(t *testing.T) {
		c := validCard()
		c["cost"] = "three"
		assert.Contains(t, ValidateCard(c), ErrInvalidCost)
	})

	t.Run("zero is fine", func(t *testing.T) {
		c := validCard()
		c["cost"] = 0.0
		assert.Empty(t, ValidateCard(c))
	})
}

func TestValidateCardImageSource(t *testing.T) {
	c := validCard()
	delete(c, "imageUrl")
	assert.Contains(t, ValidateCard(c), ErrMissingImageSource)

	c["placeholderArt"] = "p.svg"
	assert.Empty(t, ValidateCard(c))
}

func TestValidateCardCollectsAllErrors(t *testing.T) {
	errs := ValidateCard(card.Card{})
	assert.ElementsMatch(t, []ErrorKind{
		ErrMissingID, ErrMissingName, ErrMissingSet, ErrMissingColor,
		ErrMissingType, ErrMissingCost, ErrMissingImageSource,
	}, errs)
}

func TestValidateRaw(t *testing.T) {
	entries := []any{
		map[string]any(validCard()),
		"garbage",
		map[string]any{"id": "st01-001"}, // same id, different case
		map[string]any{"id": "ST01-001"},
	}

	issues := ValidateRaw(entries)
	require.Len(t, issues, 3)

	assert.Equal(t, "(entry 1)", issues[0].CardID)
	assert.Equal(t, []ErrorKind{ErrMalformedRecord}, issues[0].Errors)

	// Second and later occurrences are the duplicates, not the first.
	assert.Equal(t, "ST01-001", issues[1].CardID)
	assert.Contains(t, issues[1].Errors, ErrDuplicateID)
	assert.Contains(t, issues[2].Errors, ErrDuplicateID)
}

func TestValidateCardsSortedOutput(t *testing.T) {
	cards := map[string]card.Card{
		"ST01-002": {"id": "ST01-002"},
		"GD01-001": {"id": "GD01-001"},
	}

	issues := ValidateCards(cards)
	require.Len(t, issues, 2)
	assert.Equal(t, "GD01-001", issues[0].CardID)
	assert.Equal(t, "ST01-002", issues[1].CardID)
}

func TestValidateCardsSkipsClean(t *testing.T) {
	cards := map[string]card.Card{"ST01-001": validCard()}
	assert.Empty(t, ValidateCards(cards))
}
