package material

import (
	"github.com/df07/obscura/pkg/core"
)

// Material describes how light scatters off a surface
type Material interface {
	// Scatter returns the outgoing ray for a ray that struck the surface at
	// point with unit normal. ambientIndex is the refraction index of the
	// space outside any object. Returns false when the ray is absorbed.
	Scatter(incoming core.Ray, point, normal core.Vec3, ambientIndex float64, sampler core.Sampler) (core.Ray, bool)

	// Attenuation is the color the surface multiplies into the light it scatters
	Attenuation() core.Color

	// OneSided reports whether back-face hits should be treated as misses
	OneSided() bool
}
