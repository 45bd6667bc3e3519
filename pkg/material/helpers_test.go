package material

import "github.com/df07/obscura/pkg/core"

// fixedSampler returns the same values on every draw
type fixedSampler struct {
	value1D float64
	value2D core.Vec2
}

func (f fixedSampler) Get1D() float64   { return f.value1D }
func (f fixedSampler) Get2D() core.Vec2 { return f.value2D }
