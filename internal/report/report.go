package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/newtype-works/cardwarden/internal/card"
	"github.com/newtype-works/cardwarden/internal/validator"
)

// Report aggregates pass/fail counts and categorical statistics for one
// validation run.
type Report struct {
	Total   int
	Issues  []validator.Issue
	ByColor map[string]int
	ByType  map[string]int
	BySet   map[string]int
}

// Build tallies the categorical breakdowns for cards and pairs them with
// the issues the validator found.
func Build(cards []card.Card, issues []validator.Issue) *Report {
	r := &Report{
		Total:   len(cards),
		Issues:  issues,
		ByColor: make(map[string]int),
		ByType:  make(map[string]int),
		BySet:   make(map[string]int),
	}
	for _, c := range cards {
		r.ByColor[bucket(c.Str("color"))]++
		r.ByType[bucket(c.Str("type"))]++
		r.BySet[bucket(c.Str("set"))]++
	}
	return r
}

// Valid returns the number of cards with no issues. Issues on entries that
// are not objects at all do not count against the card total.
func (r *Report) Valid() int {
	if valid := r.Total - len(r.Issues); valid > 0 {
		return valid
	}
	return 0
}

// Print writes the human-readable report.
func (r *Report) Print(w io.Writer) {
	rule := strings.Repeat("-", ruleWidth())

	fmt.Fprintln(w, "Catalog Report")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Total cards:   %d\n", r.Total)
	fmt.Fprintf(w, "Valid cards:   %s\n", color.GreenString("%d", r.Valid()))
	if len(r.Issues) == 0 {
		fmt.Fprintf(w, "Invalid cards: %d\n", 0)
	} else {
		fmt.Fprintf(w, "Invalid cards: %s\n", color.RedString("%d", len(r.Issues)))
	}

	if len(r.Issues) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Issues:")
		for _, issue := range r.Issues {
			msgs := make([]string, len(issue.Errors))
			for i, e := range issue.Errors {
				msgs[i] = string(e)
			}
			fmt.Fprintf(w, "  %s %s: %s\n",
				color.RedString("✗"), color.HiWhiteString(issue.CardID), strings.Join(msgs, "; "))
		}
	}

	fmt.Fprintln(w)
	printBreakdown(w, "By color", r.ByColor)
	printBreakdown(w, "By type", r.ByType)
	printBreakdown(w, "By set", r.BySet)
}

// printBreakdown writes one categorical section with keys sorted.
func printBreakdown(w io.Writer, title string, counts map[string]int) {
	fmt.Fprintf(w, "%s\n", color.CyanString("%s:", title))
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-16s %d\n", k, counts[k])
	}
}

// bucket maps an empty categorical value to a visible label.
func bucket(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(unset)"
	}
	return v
}

// ruleWidth returns the divider width: the terminal width capped at 80, or
// 80 when stdout is not a terminal.
func ruleWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || width > 80 {
		return 80
	}
	return width
}
