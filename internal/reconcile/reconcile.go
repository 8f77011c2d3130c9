package reconcile

import (
	"github.com/newtype-works/cardwarden/internal/card"
	"github.com/newtype-works/cardwarden/internal/imageref"
)

// completenessFields are the fields that count toward a candidate's
// completeness score when breaking merge ties.
var completenessFields = []string{
	"name", "color", "type", "set", "text", "imageUrl", "placeholderArt", "price",
}

// Result is the outcome of one reconciliation pass.
type Result struct {
	Cards             map[string]card.Card // surviving records keyed by normalized id
	DuplicatesRemoved int                  // groupSize-1 summed over all duplicate groups
	Malformed         int                  // array entries that were not objects
	MissingID         int                  // records with no usable id after normalization
}

// Reconcile groups the raw catalog entries by normalized id and collapses
// each duplicate group into a single merged record. Entries that are not
// objects are dropped as malformed; records without a usable id are dropped
// and counted separately from duplicates. hosts is the recognized remote
// host set used by the image preference score.
func Reconcile(entries []any, hosts []string) Result {
	res := Result{Cards: make(map[string]card.Card, len(entries))}

	groups := make(map[string][]card.Card)
	var order []string
	for _, entry := range entries {
		c, ok := card.FromAny(entry)
		if !ok {
			res.Malformed++
			continue
		}
		id := c.ID()
		if id == "" {
			res.MissingID++
			continue
		}
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], c)
	}

	for _, id := range order {
		group := groups[id]
		if len(group) == 1 {
			res.Cards[id] = group[0]
			continue
		}
		res.Cards[id] = merge(group, hosts)
		res.DuplicatesRemoved += len(group) - 1
	}

	return res
}

// merge collapses one duplicate group into a single record. The winner is
// the candidate with the highest image preference score, ties broken by the
// highest completeness score, remaining ties by first-encountered order.
// Losers then fold into the winner in original array order: a field is
// copied only when the accumulator has no meaningful value for it, so a
// merge never fabricates a value neither duplicate had. Traits are unioned
// across the whole group.
func merge(group []card.Card, hosts []string) card.Card {
	winner := 0
	bestImg, bestComp := score(group[0], hosts)
	for i := 1; i < len(group); i++ {
		img, comp := score(group[i], hosts)
		if img > bestImg || (img == bestImg && comp > bestComp) {
			winner, bestImg, bestComp = i, img, comp
		}
	}

	merged := group[winner].Clone()
	for i, loser := range group {
		if i == winner {
			continue
		}
		for key := range loser {
			if key == "traits" {
				continue
			}
			if !merged.HasValue(key) && loser.HasValue(key) {
				merged[key] = loser[key]
			}
		}
	}

	if traits := unionTraits(group, winner); traits != nil {
		merged["traits"] = traits
	}

	return merged
}

// score returns the image preference score and completeness score for one
// merge candidate. The image score is a heuristic over the string shape of
// imageUrl; the file behind it is not read here.
func score(c card.Card, hosts []string) (img, completeness int) {
	img = imageref.Score(c.Str("imageUrl"), hosts)
	for _, field := range completenessFields {
		if c.HasValue(field) {
			completeness++
		}
	}
	return img, completeness
}

// unionTraits merges the trait sets of the whole group, winner first, in
// first-seen order. Returns nil when no candidate carries traits.
func unionTraits(group []card.Card, winner int) []any {
	seen := make(map[string]bool)
	var union []any

	add := func(c card.Card) {
		for _, t := range c.Traits() {
			if !seen[t] {
				seen[t] = true
				union = append(union, t)
			}
		}
	}

	add(group[winner])
	for i, c := range group {
		if i != winner {
			add(c)
		}
	}

	return union
}
