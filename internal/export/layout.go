package export

import "strings"

// A4 portrait in points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 40.0

	TitleY       = 40.0
	TitleGap     = 30.0
	LineHeight   = 20.0
	PageBreakY   = 800.0
	TitleSize    = 16.0
	BodySize     = 12.0
	ContentWidth = PageWidth - 2*Margin
)

// Document is one record's page content.
type Document struct {
	Title string
	Lines []Line
}

// Placed is a piece of text at a position on a page. Y is the baseline.
type Placed struct {
	Page  int
	Y     float64
	Text  string
	Title bool
}

// Measure returns the rendered width of s in points at body size.
type Measure func(s string) float64

// Layout places documents on pages. Each document starts a new page with
// its title; body lines wrap to the content width and spill onto further
// pages once the cursor passes PageBreakY.
func Layout(docs []Document, measure Measure) []Placed {
	var out []Placed
	page := -1
	for _, doc := range docs {
		page++
		y := TitleY
		out = append(out, Placed{Page: page, Y: y, Text: doc.Title, Title: true})
		y += TitleGap

		for _, l := range doc.Lines {
			for _, text := range Wrap(l.Label+": "+l.Value, ContentWidth, measure) {
				if y > PageBreakY {
					page++
					y = TitleY
				}
				out = append(out, Placed{Page: page, Y: y, Text: text})
				y += LineHeight
			}
		}
	}
	return out
}

// Wrap splits text into lines no wider than width, preferring to break at
// the last space. Text without spaces, such as CJK, breaks between runes.
func Wrap(text string, width float64, measure Measure) []string {
	var lines []string
	for text != "" {
		if measure(text) <= width {
			lines = append(lines, text)
			break
		}

		runes := []rune(text)
		cut := 1
		for cut < len(runes) && measure(string(runes[:cut+1])) <= width {
			cut++
		}
		head := string(runes[:cut])
		if i := strings.LastIndexByte(head, ' '); i > 0 {
			head = head[:i]
		}
		lines = append(lines, head)
		text = strings.TrimLeft(text[len(head):], " ")
	}
	return lines
}
