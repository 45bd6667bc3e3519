package renderer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/df07/obscura/pkg/core"
)

// ErrTimerEvent is returned when timer events are started or stopped out of order
var ErrTimerEvent = errors.New("timer event misuse")

type timedEvent struct {
	start     time.Time
	elapsed   time.Duration
	started   bool
	completed bool
}

func (e *timedEvent) begin() {
	e.start = time.Now()
	e.started = true
}

func (e *timedEvent) finish() {
	e.elapsed = time.Since(e.start)
	e.completed = true
}

// GridTimer times named events and every pixel of a capture
type GridTimer struct {
	mu     sync.Mutex
	events map[string]*timedEvent
	logger core.Logger

	// Each grid cell is only touched by the worker rendering that pixel
	width, height int
	grid          []timedEvent
}

// NewGridTimer creates a timer that reports finished events to logger.
// A nil logger keeps the timer silent.
func NewGridTimer(logger core.Logger) *GridTimer {
	return &GridTimer{
		events: make(map[string]*timedEvent),
		logger: logger,
	}
}

// EventStart begins timing a named event. Names may only be used once.
func (gt *GridTimer) EventStart(name string) error {
	gt.mu.Lock()
	defer gt.mu.Unlock()

	if _, exists := gt.events[name]; exists {
		return fmt.Errorf("event %q already exists: %w", name, ErrTimerEvent)
	}

	event := &timedEvent{}
	event.begin()
	gt.events[name] = event
	return nil
}

// EventStop finishes a named event and logs its duration
func (gt *GridTimer) EventStop(name string) error {
	gt.mu.Lock()
	event, exists := gt.events[name]
	if !exists {
		gt.mu.Unlock()
		return fmt.Errorf("event %q is not found: %w", name, ErrTimerEvent)
	}
	if event.completed {
		gt.mu.Unlock()
		return fmt.Errorf("event %q is already stopped: %w", name, ErrTimerEvent)
	}
	event.finish()
	gt.mu.Unlock()

	if gt.logger != nil {
		gt.logger.Printf("%s:\t%.3g s\n", name, event.elapsed.Seconds())
	}
	return nil
}

// Elapsed returns the duration of a finished event
func (gt *GridTimer) Elapsed(name string) (time.Duration, bool) {
	gt.mu.Lock()
	defer gt.mu.Unlock()

	event, exists := gt.events[name]
	if !exists || !event.completed {
		return 0, false
	}
	return event.elapsed, true
}

// SetGridSize resets the per-pixel grid
func (gt *GridTimer) SetGridSize(width, height int) {
	gt.width = width
	gt.height = height
	gt.grid = make([]timedEvent, width*height)
}

func (gt *GridTimer) cell(x, y int) (*timedEvent, error) {
	if x < 0 || y < 0 || x >= gt.width || y >= gt.height {
		return nil, fmt.Errorf("grid[%d][%d] is outside %dx%d: %w", x, y, gt.width, gt.height, ErrTimerEvent)
	}
	return &gt.grid[y*gt.width+x], nil
}

// GridEventStart begins timing a pixel
func (gt *GridTimer) GridEventStart(x, y int) error {
	event, err := gt.cell(x, y)
	if err != nil {
		return err
	}
	if event.started {
		return fmt.Errorf("event at grid[%d][%d] already exists: %w", x, y, ErrTimerEvent)
	}
	event.begin()
	return nil
}

// GridEventStop finishes timing a pixel
func (gt *GridTimer) GridEventStop(x, y int) error {
	event, err := gt.cell(x, y)
	if err != nil {
		return err
	}
	if !event.started {
		return fmt.Errorf("event at grid[%d][%d] was not started: %w", x, y, ErrTimerEvent)
	}
	if event.completed {
		return fmt.Errorf("event at grid[%d][%d] is already stopped: %w", x, y, ErrTimerEvent)
	}
	event.finish()
	return nil
}

// Heatmap renders the per-pixel timings, cyan for the fastest pixel and red
// for the slowest
func (gt *GridTimer) Heatmap() (*image.RGBA, error) {
	if len(gt.grid) == 0 {
		return nil, fmt.Errorf("grid size was never set: %w", ErrTimerEvent)
	}

	low, high := time.Duration(math.MaxInt64), time.Duration(0)
	for i := range gt.grid {
		if !gt.grid[i].completed {
			return nil, fmt.Errorf("grid[%d][%d] uninitialized: %w", i%gt.width, i/gt.width, ErrTimerEvent)
		}
		low = min(low, gt.grid[i].elapsed)
		high = max(high, gt.grid[i].elapsed)
	}

	span := float64(high - low)
	heatmap := image.NewRGBA(image.Rect(0, 0, gt.width, gt.height))
	for y := 0; y < gt.height; y++ {
		for x := 0; x < gt.width; x++ {
			interpolation := 0.0
			if span > 0 {
				interpolation = float64(gt.grid[y*gt.width+x].elapsed-low) / span
			}
			heatmap.SetRGBA(x, y, colorScale(interpolation))
		}
	}

	return heatmap, nil
}

// colorScale maps [0, 1] onto cyan through grey to red. The cube root keeps
// intermediate values from looking washed out.
func colorScale(interpolation float64) color.RGBA {
	const curve = 1.0 / 3.0

	red := clampChannel(255 * math.Pow(interpolation, curve))
	cyan := clampChannel(255 * math.Pow(1-interpolation, curve))

	return color.RGBA{R: red, G: cyan, B: cyan, A: 255}
}

func clampChannel(v float64) uint8 {
	return uint8(min(max(int(v), 0), 255))
}

// Speedup compares the summed pixel time against the wall time of a finished
// event. Above 1 means pixels overlapped in time.
func (gt *GridTimer) Speedup(eventName string) (float64, error) {
	wall, ok := gt.Elapsed(eventName)
	if !ok {
		return 0, fmt.Errorf("event %q has not finished: %w", eventName, ErrTimerEvent)
	}
	if wall <= 0 {
		return 0, fmt.Errorf("event %q took no time: %w", eventName, ErrTimerEvent)
	}

	var total time.Duration
	for i := range gt.grid {
		total += gt.grid[i].elapsed
	}
	return float64(total) / float64(wall), nil
}

// Hooks adapts the timer to a capture. Misuse errors go to the logger.
func (gt *GridTimer) Hooks() Hooks {
	report := func(err error) {
		if err != nil && gt.logger != nil {
			gt.logger.Printf("timer: %v\n", err)
		}
	}

	return Hooks{
		GridSize:   gt.SetGridSize,
		EventStart: func(name string) { report(gt.EventStart(name)) },
		EventStop:  func(name string) { report(gt.EventStop(name)) },
		PixelStart: func(x, y int) { report(gt.GridEventStart(x, y)) },
		PixelStop:  func(x, y int) { report(gt.GridEventStop(x, y)) },
	}
}
