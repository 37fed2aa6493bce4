package components

import (
	"strings"

	"github.com/dshills/goterm"
)

// RegionState is the display state of a pipeline region.
type RegionState int

const (
	// RegionIdle means no run has touched the region yet.
	RegionIdle RegionState = iota
	// RegionLoading means a run is in flight and the region awaits its step.
	RegionLoading
	// RegionRendered means the region shows its step's payload.
	RegionRendered
	// RegionError means the region shows an inline error message.
	RegionError
)

// RegionPanel is a bordered display region for one pipeline step's output.
// It renders differently per state: a loading indicator, rendered content
// lines, or an inline error message.
type RegionPanel struct {
	title  string
	x      int
	y      int
	width  int
	height int
	state  RegionState
	lines  []string
	style  RegionStyle
}

// RegionStyle defines visual appearance of a region panel.
type RegionStyle struct {
	TitleFg   goterm.Color
	TitleBg   goterm.Color
	BorderFg  goterm.Color
	ContentFg goterm.Color
	LoadingFg goterm.Color
	ErrorFg   goterm.Color
}

// DefaultRegionStyle returns the default region style.
func DefaultRegionStyle() RegionStyle {
	return RegionStyle{
		TitleFg:   goterm.ColorRGB(255, 255, 255),
		TitleBg:   goterm.ColorRGB(40, 40, 80),
		BorderFg:  goterm.ColorRGB(128, 128, 128),
		ContentFg: goterm.ColorRGB(220, 220, 220),
		LoadingFg: goterm.ColorRGB(180, 180, 100),
		ErrorFg:   goterm.ColorRGB(255, 100, 100),
	}
}

// NewRegionPanel creates a region panel with the given title.
func NewRegionPanel(title string) *RegionPanel {
	return &RegionPanel{
		title: title,
		state: RegionIdle,
		lines: []string{},
		style: DefaultRegionStyle(),
	}
}

// SetBounds positions and sizes the panel.
func (p *RegionPanel) SetBounds(x, y, width, height int) {
	p.x = x
	p.y = y
	p.width = width
	p.height = height
}

// Title returns the region title.
func (p *RegionPanel) Title() string {
	return p.title
}

// State returns the current display state.
func (p *RegionPanel) State() RegionState {
	return p.state
}

// Lines returns the current content lines.
func (p *RegionPanel) Lines() []string {
	return p.lines
}

// SetIdle resets the region to its untouched state.
func (p *RegionPanel) SetIdle() {
	p.state = RegionIdle
	p.lines = []string{}
}

// SetLoading switches the region to its loading indicator.
func (p *RegionPanel) SetLoading() {
	p.state = RegionLoading
	p.lines = []string{"Loading..."}
}

// SetRendered replaces the region content with rendered payload lines.
func (p *RegionPanel) SetRendered(lines []string) {
	p.state = RegionRendered
	p.lines = lines
}

// SetError overwrites the region with an inline error message.
func (p *RegionPanel) SetError(message string) {
	p.state = RegionError
	p.lines = []string{"Error: " + message}
}

// SetStyle sets the panel style.
func (p *RegionPanel) SetStyle(style RegionStyle) {
	p.style = style
}

// contentFg picks the content color for the current state.
func (p *RegionPanel) contentFg() goterm.Color {
	switch p.state {
	case RegionLoading:
		return p.style.LoadingFg
	case RegionError:
		return p.style.ErrorFg
	default:
		return p.style.ContentFg
	}
}

// Render renders the panel to the screen.
func (p *RegionPanel) Render(screen *goterm.Screen) {
	if screen == nil || p.width < 4 || p.height < 3 {
		return
	}

	p.drawBorder(screen)
	p.drawTitle(screen)
	p.drawContent(screen)
}

// drawBorder draws the panel border.
func (p *RegionPanel) drawBorder(screen *goterm.Screen) {
	fg := p.style.BorderFg
	bg := goterm.ColorDefault()

	screen.SetCell(p.x, p.y, goterm.NewCell('┌', fg, bg, goterm.StyleNone))
	screen.SetCell(p.x+p.width-1, p.y, goterm.NewCell('┐', fg, bg, goterm.StyleNone))
	screen.SetCell(p.x, p.y+p.height-1, goterm.NewCell('└', fg, bg, goterm.StyleNone))
	screen.SetCell(p.x+p.width-1, p.y+p.height-1, goterm.NewCell('┘', fg, bg, goterm.StyleNone))

	for i := 1; i < p.width-1; i++ {
		screen.SetCell(p.x+i, p.y, goterm.NewCell('─', fg, bg, goterm.StyleNone))
		screen.SetCell(p.x+i, p.y+p.height-1, goterm.NewCell('─', fg, bg, goterm.StyleNone))
	}
	for i := 1; i < p.height-1; i++ {
		screen.SetCell(p.x, p.y+i, goterm.NewCell('│', fg, bg, goterm.StyleNone))
		screen.SetCell(p.x+p.width-1, p.y+i, goterm.NewCell('│', fg, bg, goterm.StyleNone))
	}
}

// drawTitle draws the panel title in the top border.
func (p *RegionPanel) drawTitle(screen *goterm.Screen) {
	if p.title == "" {
		return
	}

	title := " " + p.title + " "
	maxLen := p.width - 4
	if len(title) > maxLen {
		title = title[:maxLen]
	}

	for i, ch := range title {
		screen.SetCell(p.x+2+i, p.y, goterm.NewCell(ch, p.style.TitleFg, p.style.TitleBg, goterm.StyleBold))
	}
}

// drawContent draws the state-dependent content inside the border,
// word-wrapped to the content width.
func (p *RegionPanel) drawContent(screen *goterm.Screen) {
	contentWidth := p.width - 4
	contentHeight := p.height - 2
	if contentWidth <= 0 || contentHeight <= 0 {
		return
	}

	fg := p.contentFg()
	bg := goterm.ColorDefault()

	wrapped := make([]string, 0, len(p.lines))
	for _, line := range p.lines {
		wrapped = append(wrapped, WrapText(line, contentWidth)...)
	}

	for i := 0; i < contentHeight && i < len(wrapped); i++ {
		line := wrapped[i]
		for j, ch := range line {
			if j >= contentWidth {
				break
			}
			screen.SetCell(p.x+2+j, p.y+1+i, goterm.NewCell(ch, fg, bg, goterm.StyleNone))
		}
	}
}

// WrapText word-wraps text to the given width. Words longer than the width
// are hard-broken.
func WrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	var current strings.Builder

	for _, word := range strings.Fields(text) {
		// Hard-break oversized words
		for len(word) > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
			lines = append(lines, word[:width])
			word = word[width:]
		}

		switch {
		case current.Len() == 0:
			current.WriteString(word)
		case current.Len()+1+len(word) <= width:
			current.WriteByte(' ')
			current.WriteString(word)
		default:
			lines = append(lines, current.String())
			current.Reset()
			current.WriteString(word)
		}
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}
