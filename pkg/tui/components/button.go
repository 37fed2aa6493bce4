package components

import (
	"github.com/dshills/goterm"
)

// TriggerButton is the control that starts a pipeline run. It is disabled
// for as long as a run is in flight and re-enabled on both terminal states.
type TriggerButton struct {
	label   string
	x       int
	y       int
	enabled bool
	focused bool
	onClick func()
	style   ButtonStyle
}

// ButtonStyle defines visual appearance of a button.
type ButtonStyle struct {
	NormalFg   goterm.Color
	NormalBg   goterm.Color
	FocusedFg  goterm.Color
	FocusedBg  goterm.Color
	DisabledFg goterm.Color
	DisabledBg goterm.Color
}

// DefaultButtonStyle returns the default button style.
func DefaultButtonStyle() ButtonStyle {
	return ButtonStyle{
		NormalFg:   goterm.ColorRGB(255, 255, 255),
		NormalBg:   goterm.ColorRGB(60, 60, 60),
		FocusedFg:  goterm.ColorRGB(0, 0, 0),
		FocusedBg:  goterm.ColorRGB(100, 200, 255),
		DisabledFg: goterm.ColorRGB(128, 128, 128),
		DisabledBg: goterm.ColorRGB(40, 40, 40),
	}
}

// NewTriggerButton creates an enabled button with the given label.
func NewTriggerButton(label string, onClick func()) *TriggerButton {
	return &TriggerButton{
		label:   label,
		enabled: true,
		onClick: onClick,
		style:   DefaultButtonStyle(),
	}
}

// SetPosition sets the button position.
func (b *TriggerButton) SetPosition(x, y int) {
	b.x = x
	b.y = y
}

// SetEnabled sets the enabled state.
func (b *TriggerButton) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// IsEnabled returns whether the button is enabled.
func (b *TriggerButton) IsEnabled() bool {
	return b.enabled
}

// SetFocused sets the focused state.
func (b *TriggerButton) SetFocused(focused bool) {
	b.focused = focused
}

// IsFocused returns whether the button is focused.
func (b *TriggerButton) IsFocused() bool {
	return b.focused
}

// Label returns the button label.
func (b *TriggerButton) Label() string {
	return b.label
}

// Width returns the rendered width.
func (b *TriggerButton) Width() int {
	return len(b.label) + 4
}

// Activate triggers the button's onClick callback if enabled.
func (b *TriggerButton) Activate() {
	if b.enabled && b.onClick != nil {
		b.onClick()
	}
}

// Render renders the button to the screen.
func (b *TriggerButton) Render(screen *goterm.Screen) {
	if screen == nil {
		return
	}

	var fg, bg goterm.Color
	switch {
	case !b.enabled:
		fg = b.style.DisabledFg
		bg = b.style.DisabledBg
	case b.focused:
		fg = b.style.FocusedFg
		bg = b.style.FocusedBg
	default:
		fg = b.style.NormalFg
		bg = b.style.NormalBg
	}

	text := "[ " + b.label + " ]"
	width, height := screen.Size()
	for i, ch := range text {
		if b.x+i >= width || b.y >= height {
			break
		}
		screen.SetCell(b.x+i, b.y, goterm.NewCell(ch, fg, bg, goterm.StyleNone))
	}
}
