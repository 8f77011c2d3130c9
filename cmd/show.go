package cmd

import (
	"fmt"
	"image"
	"image/color" // This is the standard library color package
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"golang.org/x/term"

	_ "golang.org/x/image/webp" // Local card art is webp-first.

	"github.com/newtype-works/cardwarden/internal/artstore"
	"github.com/newtype-works/cardwarden/internal/card"
	"github.com/newtype-works/cardwarden/internal/pipeline"

	colorize "github.com/fatih/color" // Rename this import to avoid the conflict
	"github.com/spf13/cobra"
)

// Rendered art dimensions in character cells. Cards are portrait, roughly
// 63x88mm, and each cell covers two vertical pixels.
const (
	artWidth  = 30
	artHeight = 21
)

var showCmd = &cobra.Command{
	Use:   "show [card_id] [catalog.json]",
	Short: "Display a card from the catalog with its art in the terminal",
	Long: `Show looks up a card by id and displays its fields next to its local
art rendered as terminal half-block art. The art file is located through
the same canonical-path rules the fix pipeline uses, so what you see is
what a fixed catalog would reference.

Examples:
  cardwarden show ST01-001
  cardwarden show GD01-004 ./cards.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := card.NormalizeID(args[0])

		opts, err := pipelineOptions(cmd, args[1:])
		if err != nil {
			return err
		}

		entries, err := pipeline.Load(opts.CatalogPath)
		if err != nil {
			return err
		}

		c, ok := findCard(entries, id)
		if !ok {
			return fmt.Errorf("card not found: %s", id)
		}

		var artLines []string
		if ext, ok := artstore.CanonicalExt(opts.ArtDir, id); ok {
			path := filepath.Join(opts.ArtDir, id+"."+ext)
			artLines, err = renderArt(path)
			if err != nil {
				return fmt.Errorf("error rendering card art: %v", err)
			}
		}

		displayCard(c, artLines)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("art-dir", "a", "", "Directory holding local card art (default: card_art next to the catalog)")
	showCmd.Flags().BoolP("verbose", "v", false, "Print per-stage counts and per-file scan results")
}

// findCard returns the first record in the raw catalog whose normalized id
// matches id.
func findCard(entries []any, id string) (card.Card, bool) {
	for _, entry := range entries {
		if c, ok := card.FromAny(entry); ok && c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// renderArt converts the image at path into colored half-block lines.
func renderArt(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %v", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}

	return imageToHalfBlocks(img, artWidth, artHeight), nil
}

// imageToHalfBlocks resizes the image and renders it with the upper
// half-block character: the top pixel pair becomes the foreground color and
// the bottom pair the background, giving two rows of pixels per text line.
func imageToHalfBlocks(img image.Image, width, height int) []string {
	resized := resize.Resize(uint(width*2), uint(height*2), img, resize.Lanczos3)

	lines := make([]string, 0, height)
	for y := 0; y < height*2; y += 2 {
		var line strings.Builder
		for x := 0; x < width*2; x += 2 {
			c1 := colorAt(resized, x, y)
			c2 := colorAt(resized, x+1, y)
			c3 := colorAt(resized, x, y+1)
			c4 := colorAt(resized, x+1, y+1)

			col1, _ := colorful.MakeColor(c1)
			col2, _ := colorful.MakeColor(c2)
			col3, _ := colorful.MakeColor(c3)
			col4, _ := colorful.MakeColor(c4)

			fg := averageColor(col1, col2)
			bg := averageColor(col3, col4)

			line.WriteString(fmt.Sprintf("\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀\x1b[0m",
				uint8(fg.R*255), uint8(fg.G*255), uint8(fg.B*255),
				uint8(bg.R*255), uint8(bg.G*255), uint8(bg.B*255)))
		}
		lines = append(lines, line.String())
	}
	return lines
}

// colorAt returns the color at a specific coordinate
func colorAt(img image.Image, x, y int) color.Color {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		return img.At(x, y)
	}
	return color.RGBA{0, 0, 0, 255}
}

// averageColor calculates the average of multiple colors
func averageColor(colors ...colorful.Color) colorful.Color {
	var r, g, b float64
	for _, c := range colors {
		r += c.R
		g += c.G
		b += c.B
	}
	count := float64(len(colors))
	return colorful.Color{R: r / count, G: g / count, B: b / count}
}

// displayCard prints the card fields next to the art, if any.
func displayCard(c card.Card, artLines []string) {
	var infoLines []string

	label := func(name, value string) string {
		return colorize.CyanString("%-7s", name+":") + colorize.HiWhiteString("%s", value)
	}

	infoLines = append(infoLines, label("Card", c.Str("name")))
	infoLines = append(infoLines, label("ID", c.ID()))
	if v := c.Str("color"); v != "" {
		infoLines = append(infoLines, label("Color", v))
	}
	if v := c.Str("type"); v != "" {
		infoLines = append(infoLines, label("Type", v))
	}
	if v := c.Str("set"); v != "" {
		infoLines = append(infoLines, label("Set", v))
	}
	if cost, ok := c.Number("cost"); ok {
		infoLines = append(infoLines, label("Cost", fmt.Sprintf("%g", cost)))
	}
	ap, hasAP := c.Number("ap")
	hp, hasHP := c.Number("hp")
	if hasAP || hasHP {
		infoLines = append(infoLines, label("Stats", fmt.Sprintf("AP %g / HP %g", ap, hp)))
	}
	if traits := c.Traits(); len(traits) > 0 {
		infoLines = append(infoLines, label("Traits", strings.Join(traits, ", ")))
	}

	// Layout: art on the left, fields on the right, text wrapped to the
	// remaining terminal width.
	infoStartCol := 0
	if len(artLines) > 0 {
		infoStartCol = artWidth + 4
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	infoWidth := width - infoStartCol - 4
	if infoWidth < 20 {
		infoWidth = 20
	}

	if text := c.Str("text"); text != "" {
		infoLines = append(infoLines, "")
		infoLines = append(infoLines, colorize.CyanString("Text:"))
		infoLines = append(infoLines, wrapText(text, infoWidth)...)
	}

	fmt.Println()
	maxLines := max(len(artLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Print("  ")
		if i < len(artLines) {
			fmt.Print(artLines[i])
			fmt.Print(strings.Repeat(" ", infoStartCol-artWidth))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}
		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}
		fmt.Println()
	}
	fmt.Println()
}

// wrapText wraps text to a specified width
func wrapText(text string, width int) []string {
	if width < 10 {
		width = 40
	}

	var result []string
	var currentLine string
	words := strings.Fields(text)

	if len(words) == 0 {
		return []string{""}
	}

	for _, word := range words {
		if len(currentLine) == 0 {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result = append(result, currentLine)
			currentLine = word
		}
	}

	if currentLine != "" {
		result = append(result, currentLine)
	}

	return result
}

// max returns the maximum of two integers
func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
