package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{
			name:  "fits on one line",
			text:  "hello world",
			width: 20,
			want:  []string{"hello world"},
		},
		{
			name:  "wraps at word boundary",
			text:  "hello brave new world",
			width: 11,
			want:  []string{"hello brave", "new world"},
		},
		{
			name:  "hard breaks oversized words",
			text:  "abcdefghij",
			width: 4,
			want:  []string{"abcd", "efgh", "ij"},
		},
		{
			name:  "zero width",
			text:  "hello",
			width: 0,
			want:  nil,
		},
		{
			name:  "empty text",
			text:  "",
			width: 10,
			want:  []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WrapText(tt.text, tt.width))
		})
	}
}

func TestRegionPanelStateTransitions(t *testing.T) {
	panel := NewRegionPanel("Quotes")
	assert.Equal(t, RegionIdle, panel.State())

	panel.SetLoading()
	assert.Equal(t, RegionLoading, panel.State())
	assert.Equal(t, []string{"Loading..."}, panel.Lines())

	panel.SetRendered([]string{"a", "b"})
	assert.Equal(t, RegionRendered, panel.State())
	assert.Equal(t, []string{"a", "b"}, panel.Lines())

	panel.SetError("boom")
	assert.Equal(t, RegionError, panel.State())
	assert.Equal(t, []string{"Error: boom"}, panel.Lines())

	panel.SetIdle()
	assert.Equal(t, RegionIdle, panel.State())
	assert.Empty(t, panel.Lines())
}

func TestProgressGaugeClampsPercent(t *testing.T) {
	gauge := NewProgressGauge()

	gauge.SetPercent(-10)
	assert.Equal(t, 0, gauge.Percent())

	gauge.SetPercent(150)
	assert.Equal(t, 100, gauge.Percent())

	gauge.SetPercent(60)
	assert.Equal(t, 60, gauge.Percent())

	gauge.SetStatus("Loading...")
	assert.Equal(t, "Loading...", gauge.Status())
}

func TestTriggerButtonActivation(t *testing.T) {
	fired := 0
	button := NewTriggerButton("Fetch Quotes", func() { fired++ })

	assert.True(t, button.IsEnabled())
	assert.Equal(t, "Fetch Quotes", button.Label())
	assert.Equal(t, len("Fetch Quotes")+4, button.Width())

	button.Activate()
	assert.Equal(t, 1, fired)

	button.SetEnabled(false)
	button.Activate()
	assert.Equal(t, 1, fired)

	button.SetEnabled(true)
	button.Activate()
	assert.Equal(t, 2, fired)
}

func TestOptionSelectorCycling(t *testing.T) {
	selector := NewOptionSelector("Topic", []string{"a", "b", "c"})

	assert.Equal(t, "a", selector.Selected())

	selector.Next()
	assert.Equal(t, "b", selector.Selected())

	selector.Prev()
	selector.Prev()
	assert.Equal(t, "c", selector.Selected())

	selector.Next()
	assert.Equal(t, "a", selector.Selected())
}

func TestOptionSelectorEmpty(t *testing.T) {
	selector := NewOptionSelector("Topic", nil)

	assert.Equal(t, "", selector.Selected())
	selector.Next()
	selector.Prev()
	assert.Equal(t, "", selector.Selected())
}
