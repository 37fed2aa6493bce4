package components

import (
	"github.com/dshills/goterm"
)

// OptionSelector cycles through a fixed, enumerated option set. The
// dashboard uses two: one for the topic and one for the quote count.
type OptionSelector struct {
	label   string
	options []string
	index   int
	x       int
	y       int
	focused bool
	style   SelectorStyle
}

// SelectorStyle defines visual appearance of an option selector.
type SelectorStyle struct {
	LabelFg   goterm.Color
	ValueFg   goterm.Color
	FocusedFg goterm.Color
	FocusedBg goterm.Color
}

// DefaultSelectorStyle returns the default selector style.
func DefaultSelectorStyle() SelectorStyle {
	return SelectorStyle{
		LabelFg:   goterm.ColorRGB(160, 160, 160),
		ValueFg:   goterm.ColorRGB(255, 255, 255),
		FocusedFg: goterm.ColorRGB(0, 0, 0),
		FocusedBg: goterm.ColorRGB(100, 200, 255),
	}
}

// NewOptionSelector creates a selector over the given options, starting at
// the first one.
func NewOptionSelector(label string, options []string) *OptionSelector {
	return &OptionSelector{
		label:   label,
		options: options,
		style:   DefaultSelectorStyle(),
	}
}

// SetPosition sets the selector position.
func (s *OptionSelector) SetPosition(x, y int) {
	s.x = x
	s.y = y
}

// SetFocused sets the focused state.
func (s *OptionSelector) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns whether the selector is focused.
func (s *OptionSelector) IsFocused() bool {
	return s.focused
}

// Selected returns the currently selected option, or "" when the option
// set is empty.
func (s *OptionSelector) Selected() string {
	if len(s.options) == 0 {
		return ""
	}
	return s.options[s.index]
}

// Next advances to the next option, wrapping around.
func (s *OptionSelector) Next() {
	if len(s.options) == 0 {
		return
	}
	s.index = (s.index + 1) % len(s.options)
}

// Prev moves to the previous option, wrapping around.
func (s *OptionSelector) Prev() {
	if len(s.options) == 0 {
		return
	}
	s.index = (s.index - 1 + len(s.options)) % len(s.options)
}

// Width returns the rendered width for the widest option.
func (s *OptionSelector) Width() int {
	widest := 0
	for _, opt := range s.options {
		if len(opt) > widest {
			widest = len(opt)
		}
	}
	// label + ": < " + value + " >"
	return len(s.label) + 2 + 2 + widest + 2
}

// Render renders the selector to the screen.
func (s *OptionSelector) Render(screen *goterm.Screen) {
	if screen == nil {
		return
	}

	bg := goterm.ColorDefault()
	x := s.x

	for _, ch := range s.label + ": " {
		screen.SetCell(x, s.y, goterm.NewCell(ch, s.style.LabelFg, bg, goterm.StyleNone))
		x++
	}

	valueFg := s.style.ValueFg
	valueBg := bg
	if s.focused {
		valueFg = s.style.FocusedFg
		valueBg = s.style.FocusedBg
	}

	for _, ch := range "< " + s.Selected() + " >" {
		screen.SetCell(x, s.y, goterm.NewCell(ch, valueFg, valueBg, goterm.StyleNone))
		x++
	}
}
