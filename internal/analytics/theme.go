package analytics

import (
	"github.com/xuri/excelize/v2"
)

// palette holds the colors of one theme.
type palette struct {
	series     []string
	background string // empty means the workbook default
	text       string
}

var palettes = map[string]palette{
	"viridis": {
		series: []string{"#440154", "#3B528B", "#21918C", "#5EC962", "#FDE725"},
	},
	"default": {
		series: []string{"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD"},
	},
	"dark": {
		series:     []string{"#88C0D0", "#EBCB8B", "#A3BE8C", "#BF616A", "#B48EAD"},
		background: "#2E3440",
		text:       "#ECEFF4",
	},
}

func paletteFor(theme string) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes["viridis"]
}

func (p palette) color(i int) string {
	return p.series[i%len(p.series)]
}

func (p palette) seriesFill(i int) excelize.Fill {
	return excelize.Fill{Type: "pattern", Color: []string{p.color(i)}, Pattern: 1}
}

func (p palette) chartFill() excelize.Fill {
	if p.background == "" {
		return excelize.Fill{}
	}
	return excelize.Fill{Type: "pattern", Color: []string{p.background}, Pattern: 1}
}

func (p palette) title(text string) []excelize.RichTextRun {
	run := excelize.RichTextRun{Text: text}
	if p.text != "" {
		run.Font = &excelize.Font{Color: p.text, Bold: true}
	}
	return []excelize.RichTextRun{run}
}
