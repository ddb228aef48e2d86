package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/naka-gawa/github-wrapped/internal/domain"
)

// levelGlyphs are indexed by heatmap level.
var levelGlyphs = [...]string{"·", "░", "▒", "▓", "█"}

// HeatmapText writes days as a grid with one column per week and one row per weekday.
// days must be consecutive and ordered.
func HeatmapText(w io.Writer, days []domain.HeatmapDay) error {
	p := newPrinter(w)
	p.title("Contributions")
	if len(days) == 0 {
		p.empty("No days")
		return p.err
	}

	first, err := time.Parse(time.DateOnly, days[0].Date)
	if err != nil {
		return fmt.Errorf("invalid heatmap date %q: %w", days[0].Date, err)
	}
	offset := int(first.Weekday())
	weeks := (offset + len(days) + 6) / 7

	var grid [7][]string
	for row := range grid {
		grid[row] = make([]string, weeks)
		for col := range grid[row] {
			grid[row][col] = " "
		}
	}
	total := 0
	for i, d := range days {
		cell := offset + i
		level := min(max(d.Level, 0), len(levelGlyphs)-1)
		glyph := levelGlyphs[level]
		if level == 0 {
			glyph = p.st.dim.Render(glyph)
		} else {
			glyph = p.st.bar.Render(glyph)
		}
		grid[cell%7][cell/7] = glyph
		total += d.Count
	}

	for row := range grid {
		p.line("  %s %s", time.Weekday(row).String()[:3], strings.Join(grid[row], ""))
	}
	p.line("  %s %s contributions", p.st.label.Render("Total"), number(total))
	p.line("  %s %s %s", p.st.dim.Render("Less"), strings.Join(levelGlyphs[:], " "), p.st.dim.Render("More"))
	return p.err
}
