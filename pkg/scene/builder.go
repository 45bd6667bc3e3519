package scene

import (
	"errors"
	"fmt"

	"github.com/df07/obscura/pkg/geometry"
	"github.com/df07/obscura/pkg/loaders"
	"github.com/df07/obscura/pkg/material"
	"github.com/df07/obscura/pkg/renderer"
)

// ErrUndefinedMaterial is returned when a surface names a material that was not defined above it
var ErrUndefinedMaterial = errors.New("undefined material")

// LoadFile builds a scene from a scene description file
func LoadFile(filename string) (*Scene, error) {
	entries, err := loaders.LoadScene(filename)
	if err != nil {
		return nil, err
	}

	s, err := FromEntries(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// FromEntries builds a scene from parsed entries. The scene entry must come
// before any surface and materials must be defined before they are used.
func FromEntries(entries []loaders.Entry) (*Scene, error) {
	var s *Scene
	cameraConfig := renderer.DefaultCameraConfig()
	materials := make(map[string]material.Material)

	for _, entry := range entries {
		switch entry.Type {
		case "scene":
			index, err := entry.Float("index")
			if err != nil {
				return nil, err
			}
			s = NewScene(index)
			if entry.Has("sky") {
				if s.Sky, err = entry.Color("sky"); err != nil {
					return nil, err
				}
			}

		case "camera":
			config, err := cameraFromEntry(entry)
			if err != nil {
				return nil, err
			}
			cameraConfig = config

		case "lambertian", "metallic", "dielectric":
			mat, err := materialFromEntry(entry)
			if err != nil {
				return nil, err
			}
			materials[entry.Name] = mat

		case "plane", "sphere", "quadric":
			if s == nil {
				return nil, fmt.Errorf("%s: surface before scene entry: %w", entry, loaders.ErrFormat)
			}
			surface, err := surfaceFromEntry(entry, materials)
			if err != nil {
				return nil, err
			}
			s.Add(surface)

		default:
			return nil, fmt.Errorf("%s: unknown type %q: %w", entry, entry.Type, loaders.ErrFormat)
		}
	}

	if s == nil {
		return nil, fmt.Errorf("missing scene entry: %w", loaders.ErrFormat)
	}

	s.CameraConfig = cameraConfig
	return s, nil
}

func cameraFromEntry(entry loaders.Entry) (renderer.CameraConfig, error) {
	var override renderer.CameraConfig
	var err error

	if override.Position, err = entry.Vector("position"); err != nil {
		return override, err
	}
	if override.Direction, err = entry.Vector("direction"); err != nil {
		return override, err
	}
	if override.FOV, err = entry.Float("fov"); err != nil {
		return override, err
	}

	if entry.Has("up") {
		if override.Up, err = entry.Vector("up"); err != nil {
			return override, err
		}
	}
	optionalInts := []struct {
		key    string
		target *int
	}{
		{"width", &override.Width},
		{"height", &override.Height},
		{"sampling", &override.Samples},
		{"depth", &override.Depth},
	}
	for _, field := range optionalInts {
		if !entry.Has(field.key) {
			continue
		}
		if *field.target, err = entry.Int(field.key); err != nil {
			return override, err
		}
	}

	config := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), override)
	// Merging skips zero values, but a camera at the origin or a depth of
	// zero is legitimate
	config.Position = override.Position
	if entry.Has("depth") {
		config.Depth = override.Depth
	}
	return config, nil
}

func materialFromEntry(entry loaders.Entry) (material.Material, error) {
	color, err := entry.Color("color")
	if err != nil {
		return nil, err
	}

	switch entry.Type {
	case "metallic":
		fuzz, err := entry.Float("fuzz")
		if err != nil {
			return nil, err
		}
		return material.NewMetallic(color, fuzz), nil
	case "dielectric":
		index, err := entry.Float("index")
		if err != nil {
			return nil, err
		}
		return material.NewDielectric(color, index), nil
	default:
		return material.NewLambertian(color), nil
	}
}

func surfaceFromEntry(entry loaders.Entry, materials map[string]material.Material) (geometry.Surface, error) {
	mat, ok := materials[entry.Properties["material"]]
	if !ok {
		return nil, fmt.Errorf("%s: %q: %w", entry, entry.Properties["material"], ErrUndefinedMaterial)
	}

	position, err := entry.Vector("position")
	if err != nil {
		return nil, err
	}

	switch entry.Type {
	case "plane":
		normal, err := entry.Vector("normal")
		if err != nil {
			return nil, err
		}
		if normal.IsZero() {
			return nil, fmt.Errorf("%s: zero normal: %w", entry, loaders.ErrFormat)
		}
		return geometry.NewPlane(position, normal, mat), nil
	case "sphere":
		radius, err := entry.Float("radius")
		if err != nil {
			return nil, err
		}
		return geometry.NewSphere(position, radius, mat), nil
	default:
		c, err := entry.Tuple("equation", 10)
		if err != nil {
			return nil, err
		}
		coefficients := geometry.QuadricCoefficients{
			A: c[0], B: c[1], C: c[2], D: c[3], E: c[4],
			F: c[5], G: c[6], H: c[7], I: c[8], J: c[9],
		}
		return geometry.NewQuadric(position, coefficients, mat), nil
	}
}
