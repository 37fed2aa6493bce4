package tui

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/dshills/goterm"

	"github.com/mleary/quotedash/pkg/execution"
	"github.com/mleary/quotedash/pkg/pipeline"
	"github.com/mleary/quotedash/pkg/quotes"
	"github.com/mleary/quotedash/pkg/tui/components"
)

// Dashboard is the interactive render surface for the pipeline: four step
// regions, a progress gauge, two option selectors, and the trigger button.
//
// It implements execution.Renderer. The runner calls the renderer methods
// from its own goroutine while the app loop renders from the main
// goroutine, so all component state is guarded by one mutex.
type Dashboard struct {
	mu sync.Mutex

	steps    []pipeline.Step
	regions  map[pipeline.StepID]*components.RegionPanel
	gauge    *components.ProgressGauge
	trigger  *components.TriggerButton
	topicSel *components.OptionSelector
	countSel *components.OptionSelector

	// focus: 0 = topic selector, 1 = count selector, 2 = trigger
	focus     int
	onTrigger func(pipeline.Input)
}

// NewDashboard creates the dashboard over the configured option sets.
func NewDashboard(topics []string, counts []int) *Dashboard {
	countOptions := make([]string, len(counts))
	for i, c := range counts {
		countOptions[i] = strconv.Itoa(c)
	}

	d := &Dashboard{
		steps:    pipeline.Steps(),
		regions:  make(map[pipeline.StepID]*components.RegionPanel),
		gauge:    components.NewProgressGauge(),
		topicSel: components.NewOptionSelector("Topic", topics),
		countSel: components.NewOptionSelector("Count", countOptions),
		focus:    2,
	}

	for _, step := range d.steps {
		d.regions[step.ID] = components.NewRegionPanel(step.Title)
	}

	d.trigger = components.NewTriggerButton("Fetch Quotes", d.fireTrigger)
	d.gauge.SetStatus("Ready")
	d.applyFocus()

	return d
}

// SetOnTrigger registers the callback invoked when the trigger activates.
// The callback must not block; the app wires it to start the runner in a
// goroutine.
func (d *Dashboard) SetOnTrigger(fn func(pipeline.Input)) {
	d.mu.Lock()
	d.onTrigger = fn
	d.mu.Unlock()
}

// Input returns the currently selected workflow input.
func (d *Dashboard) Input() pipeline.Input {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.input()
}

// input reads the selectors. Caller holds the lock.
func (d *Dashboard) input() pipeline.Input {
	count, err := strconv.Atoi(d.countSel.Selected())
	if err != nil {
		count = 1
	}
	return pipeline.Input{
		Topic: d.topicSel.Selected(),
		Count: count,
	}
}

// fireTrigger reads the input and invokes the trigger callback outside the
// lock so the callback can safely start a run.
func (d *Dashboard) fireTrigger() {
	d.mu.Lock()
	fn := d.onTrigger
	input := d.input()
	d.mu.Unlock()

	if fn != nil {
		fn(input)
	}
}

// Region returns the panel for a step. Exposed for tests.
func (d *Dashboard) Region(id pipeline.StepID) *components.RegionPanel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regions[id]
}

// Gauge returns the progress gauge. Exposed for tests.
func (d *Dashboard) Gauge() *components.ProgressGauge {
	return d.gauge
}

// TriggerEnabled reports whether the trigger control is enabled.
func (d *Dashboard) TriggerEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trigger.IsEnabled()
}

// RunStarted implements execution.Renderer: regions switch to loading,
// progress drops to zero, the trigger is disabled.
func (d *Dashboard) RunStarted(input pipeline.Input) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, region := range d.regions {
		region.SetLoading()
	}
	d.gauge.SetPercent(0)
	d.gauge.SetStatus(execution.StatusLoading)
	d.trigger.SetEnabled(false)
}

// StepCompleted implements execution.Renderer: the step's region renders
// the payload and progress advances to the step's checkpoint.
func (d *Dashboard) StepCompleted(step pipeline.Step, records []quotes.Quote, percent int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if region, ok := d.regions[step.ID]; ok {
		region.SetRendered(formatQuotes(records))
	}
	d.gauge.SetPercent(percent)
	d.gauge.SetStatus(fmt.Sprintf("Loaded %s", step.Title))
}

// RunCompleted implements execution.Renderer: progress reaches 100 with
// the fixed completion status and the trigger is re-enabled.
func (d *Dashboard) RunCompleted() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gauge.SetPercent(100)
	d.gauge.SetStatus(execution.StatusComplete)
	d.trigger.SetEnabled(true)
}

// RunFailed implements execution.Renderer: progress resets with the fixed
// error status, regions still loading show the failure inline, rendered
// regions keep their content, and the trigger is re-enabled.
func (d *Dashboard) RunFailed(step pipeline.Step, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, region := range d.regions {
		if region.State() == components.RegionLoading {
			region.SetError(err.Error())
		}
	}
	d.gauge.SetPercent(0)
	d.gauge.SetStatus(execution.StatusError)
	d.trigger.SetEnabled(true)
}

// formatQuotes converts payload records into region content lines.
func formatQuotes(records []quotes.Quote) []string {
	if len(records) == 0 {
		return []string{"No quotes matched."}
	}

	lines := make([]string, 0, len(records))
	for _, q := range records {
		lines = append(lines, fmt.Sprintf("%q  (%s)", q.Quote, q.Source))
	}
	return lines
}

// HandleKey processes keyboard input for the dashboard.
func (d *Dashboard) HandleKey(event KeyEvent) {
	d.mu.Lock()

	switch {
	case event.Special == "Tab":
		d.focus = (d.focus + 1) % 3
		d.applyFocus()
	case event.Special == "Left" || event.Key == 'h':
		d.cycleFocused(false)
	case event.Special == "Right" || event.Key == 'l':
		d.cycleFocused(true)
	case event.Special == "Enter" || event.Key == ' ':
		if d.focus == 2 && d.trigger.IsEnabled() {
			// Fire outside the lock; the callback reacquires it
			d.mu.Unlock()
			d.trigger.Activate()
			return
		}
	}

	d.mu.Unlock()
}

// cycleFocused advances the focused selector. Caller holds the lock.
func (d *Dashboard) cycleFocused(forward bool) {
	var sel *components.OptionSelector
	switch d.focus {
	case 0:
		sel = d.topicSel
	case 1:
		sel = d.countSel
	default:
		return
	}

	if forward {
		sel.Next()
	} else {
		sel.Prev()
	}
}

// applyFocus syncs component focus flags with the focus index.
// Caller holds the lock.
func (d *Dashboard) applyFocus() {
	d.topicSel.SetFocused(d.focus == 0)
	d.countSel.SetFocused(d.focus == 1)
	d.trigger.SetFocused(d.focus == 2)
}

// Render lays out and draws the dashboard.
func (d *Dashboard) Render(screen *goterm.Screen) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if screen == nil {
		return
	}

	width, height := screen.Size()
	if width < 40 || height < 14 {
		drawText(screen, 0, 0, "Terminal too small", goterm.ColorRGB(255, 100, 100))
		return
	}

	drawText(screen, 2, 0, "QuoteDash", goterm.ColorRGB(100, 200, 255))
	drawText(screen, 13, 0, "sequential fetch dashboard", goterm.ColorRGB(128, 128, 128))

	// Controls row
	x := 2
	d.topicSel.SetPosition(x, 2)
	d.topicSel.Render(screen)
	x += d.topicSel.Width() + 3

	d.countSel.SetPosition(x, 2)
	d.countSel.Render(screen)
	x += d.countSel.Width() + 3

	d.trigger.SetPosition(x, 2)
	d.trigger.Render(screen)

	// Progress row
	d.gauge.SetBounds(2, 4, width-4)
	d.gauge.Render(screen)

	// Region grid: 2x2 between the gauge and the help line
	gridTop := 6
	gridHeight := height - gridTop - 1
	regionWidth := (width - 2) / 2
	regionHeight := gridHeight / 2

	for i, step := range d.steps {
		col := i % 2
		row := i / 2
		region := d.regions[step.ID]
		region.SetBounds(1+col*regionWidth, gridTop+row*regionHeight, regionWidth-1, regionHeight-1)
		region.Render(screen)
	}

	drawText(screen, 2, height-1,
		"tab: focus  arrows: change  enter: fetch  q: quit",
		goterm.ColorRGB(128, 128, 128))
}

// drawText writes a plain string at a position.
func drawText(screen *goterm.Screen, x, y int, text string, fg goterm.Color) {
	width, height := screen.Size()
	bg := goterm.ColorDefault()
	for i, ch := range text {
		if x+i >= width || y >= height {
			break
		}
		screen.SetCell(x+i, y, goterm.NewCell(ch, fg, bg, goterm.StyleNone))
	}
}
