package renderer

// Hooks lets a caller observe a capture. Every field is optional and the zero
// value observes nothing. Pixel hooks are called from worker goroutines.
type Hooks struct {
	GridSize   func(width, height int)
	EventStart func(name string)
	EventStop  func(name string)
	PixelStart func(x, y int)
	PixelStop  func(x, y int)
}

func (h Hooks) gridSize(width, height int) {
	if h.GridSize != nil {
		h.GridSize(width, height)
	}
}

func (h Hooks) eventStart(name string) {
	if h.EventStart != nil {
		h.EventStart(name)
	}
}

func (h Hooks) eventStop(name string) {
	if h.EventStop != nil {
		h.EventStop(name)
	}
}

func (h Hooks) pixelStart(x, y int) {
	if h.PixelStart != nil {
		h.PixelStart(x, y)
	}
}

func (h Hooks) pixelStop(x, y int) {
	if h.PixelStop != nil {
		h.PixelStop(x, y)
	}
}
