// Package render writes statistics for people and programs.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const barWidth = 20

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// styles are bound to the writer they render for, so that colors are only
// emitted to terminals.
type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	dim   lipgloss.Style
	bar   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		label: r.NewStyle().Foreground(lipgloss.Color("245")),
		dim:   r.NewStyle().Foreground(lipgloss.Color("240")),
		bar:   r.NewStyle().Foreground(lipgloss.Color("82")),
	}
}

// printer accumulates the first write error so sections can be written without
// checking each line.
type printer struct {
	w   io.Writer
	st  styles
	err error
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, st: newStyles(w)}
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) title(s string) {
	p.line("%s", p.st.title.Render(s))
}

func (p *printer) field(label, value string) {
	p.line("  %s %s", p.st.label.Render(fmt.Sprintf("%-22s", label+":")), value)
}

func (p *printer) empty(s string) {
	p.line("  %s", p.st.dim.Render(s))
}

func number(n int) string {
	return humanize.Comma(int64(n))
}

func decimal(f float64) string {
	return humanize.CommafWithDigits(f, 1)
}

func ratio(r float64) string {
	if math.IsInf(r, 1) {
		return "∞"
	}
	return humanize.CommafWithDigits(r, 2)
}

func monthName(month int) string {
	return time.Month(month + 1).String()
}

func weekdayName(day int) string {
	return time.Weekday(day).String()
}

// bar renders value relative to maxValue as a fixed width bar.
func (p *printer) bar(value, maxValue int) string {
	filled := 0
	if maxValue > 0 {
		filled = value * barWidth / maxValue
	}
	if value > 0 && filled == 0 {
		filled = 1
	}
	return p.st.bar.Render(strings.Repeat("█", filled)) + p.st.dim.Render(strings.Repeat("░", barWidth-filled))
}

// truncate shortens s to n runes on its first line.
func truncate(s string, n int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
