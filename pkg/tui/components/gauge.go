package components

import (
	"fmt"

	"github.com/dshills/goterm"
)

// ProgressGauge renders the pipeline progress indicator: a percentage bar
// plus a status text line.
type ProgressGauge struct {
	x       int
	y       int
	width   int
	percent int
	status  string
	style   GaugeStyle
}

// GaugeStyle defines visual appearance of the progress gauge.
type GaugeStyle struct {
	BarFg    goterm.Color
	TrackFg  goterm.Color
	TextFg   goterm.Color
	StatusFg goterm.Color
}

// DefaultGaugeStyle returns the default gauge style.
func DefaultGaugeStyle() GaugeStyle {
	return GaugeStyle{
		BarFg:    goterm.ColorRGB(100, 200, 255),
		TrackFg:  goterm.ColorRGB(60, 60, 60),
		TextFg:   goterm.ColorRGB(255, 255, 255),
		StatusFg: goterm.ColorRGB(220, 220, 220),
	}
}

// NewProgressGauge creates a gauge at 0% with an empty status.
func NewProgressGauge() *ProgressGauge {
	return &ProgressGauge{
		style: DefaultGaugeStyle(),
	}
}

// SetBounds positions and sizes the gauge.
func (g *ProgressGauge) SetBounds(x, y, width int) {
	g.x = x
	g.y = y
	g.width = width
}

// SetPercent sets the displayed percentage, clamped to [0,100].
func (g *ProgressGauge) SetPercent(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	g.percent = percent
}

// Percent returns the displayed percentage.
func (g *ProgressGauge) Percent() int {
	return g.percent
}

// SetStatus sets the status text shown beside the bar.
func (g *ProgressGauge) SetStatus(status string) {
	g.status = status
}

// Status returns the status text.
func (g *ProgressGauge) Status() string {
	return g.status
}

// SetStyle sets the gauge style.
func (g *ProgressGauge) SetStyle(style GaugeStyle) {
	g.style = style
}

// Render renders the gauge to the screen.
func (g *ProgressGauge) Render(screen *goterm.Screen) {
	if screen == nil || g.width < 12 {
		return
	}

	bg := goterm.ColorDefault()

	// Reserve room for the trailing " 100%" readout
	readout := fmt.Sprintf(" %3d%%", g.percent)
	barWidth := g.width - len(readout) - len(g.status) - 3
	if barWidth < 4 {
		barWidth = 4
	}

	filled := barWidth * g.percent / 100

	x := g.x
	for i := 0; i < barWidth; i++ {
		ch := '░'
		fg := g.style.TrackFg
		if i < filled {
			ch = '█'
			fg = g.style.BarFg
		}
		screen.SetCell(x, g.y, goterm.NewCell(ch, fg, bg, goterm.StyleNone))
		x++
	}

	for _, ch := range readout {
		screen.SetCell(x, g.y, goterm.NewCell(ch, g.style.TextFg, bg, goterm.StyleBold))
		x++
	}

	if g.status != "" {
		x += 2
		for _, ch := range g.status {
			if x >= g.x+g.width {
				break
			}
			screen.SetCell(x, g.y, goterm.NewCell(ch, g.style.StatusFg, bg, goterm.StyleNone))
			x++
		}
	}
}
