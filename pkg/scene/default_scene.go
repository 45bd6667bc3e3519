package scene

import (
	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/geometry"
	"github.com/df07/obscura/pkg/material"
	"github.com/df07/obscura/pkg/renderer"
)

// NewDefaultScene creates a white ground plane with a green sphere resting on it
func NewDefaultScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewScene(1.0)
	s.Name = "default"
	s.CameraConfig = cameraConfig(renderer.CameraConfig{
		Position:  core.NewVec3(-4, 0, 3),
		Direction: core.NewVec3(1, 0, 0),
		FOV:       90.0,
	}, cameraOverrides)

	matteWhite := material.NewLambertian(core.White)
	matteGreen := material.NewLambertian(core.NewColor(0, 1, 0))

	s.Add(
		geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), matteWhite),
		geometry.NewSphere(core.NewVec3(5, 0, 3), 3, matteGreen),
	)

	return s
}

// NewSpheresScene lines up one sphere of each material on a grey floor
func NewSpheresScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewScene(1.0)
	s.Name = "spheres"
	s.CameraConfig = cameraConfig(renderer.CameraConfig{
		Position:  core.NewVec3(0, 0, 1.5),
		Direction: core.NewVec3(1, 0, -0.1),
		FOV:       70.0,
	}, cameraOverrides)

	floor := material.NewLambertian(core.NewColor(0.5, 0.5, 0.5))
	red := material.NewLambertian(core.NewColor(0.7, 0.2, 0.2))
	mirror := material.NewMetallic(core.NewColor(0.8, 0.8, 0.8), 0.0)
	brushedGold := material.NewMetallic(core.NewColor(0.8, 0.6, 0.2), 0.3)
	glass := material.NewDielectric(core.White, 1.5)

	s.Add(
		geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), floor),
		geometry.NewSphere(core.NewVec3(6, 0, 1), 1, glass),
		geometry.NewSphere(core.NewVec3(6.5, 2.2, 1), 1, mirror),
		geometry.NewSphere(core.NewVec3(6.5, -2.2, 1), 1, red),
		geometry.NewSphere(core.NewVec3(9, 0, 1.5), 1.5, brushedGold),
	)

	return s
}

// NewQuadricsScene shows a cylinder, an ellipsoid and a hyperboloid
func NewQuadricsScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewScene(1.0)
	s.Name = "quadrics"
	s.CameraConfig = cameraConfig(renderer.CameraConfig{
		Position:  core.NewVec3(0, 0, 2),
		Direction: core.NewVec3(1, 0, -0.1),
		FOV:       80.0,
	}, cameraOverrides)

	floor := material.NewLambertian(core.NewColor(0.9, 0.9, 0.8))
	steel := material.NewMetallic(core.NewColor(0.7, 0.7, 0.75), 0.1)
	glass := material.NewDielectric(core.NewColor(0.8, 0.9, 1.0), 1.5)
	clay := material.NewLambertian(core.NewColor(0.8, 0.4, 0.2))

	s.Add(
		geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), floor),
		// x² + y² = 0.25, an endless vertical pillar
		geometry.NewQuadric(core.NewVec3(8, -3, 0), geometry.QuadricCoefficients{A: 1, B: 1, J: -0.25}, steel),
		// x²/4 + y² + z² = 1
		geometry.NewQuadric(core.NewVec3(8, 0, 1), geometry.QuadricCoefficients{A: 0.25, B: 1, C: 1, J: -1}, glass),
		// x² + y² - z² = 0.25, a hyperboloid of one sheet
		geometry.NewQuadric(core.NewVec3(8, 3, 1), geometry.QuadricCoefficients{A: 1, B: 1, C: -1, J: -0.25}, clay),
	)

	return s
}

// NewHorizonScene places a slightly rough mirror floor under a sunset sky
func NewHorizonScene(cameraOverrides ...renderer.CameraConfig) *Scene {
	s := NewScene(1.0)
	s.Name = "horizon"
	s.Sky = core.NewColor(1.0, 0.6, 0.3)
	s.CameraConfig = cameraConfig(renderer.CameraConfig{
		Position:  core.NewVec3(0, 0, 1),
		Direction: core.NewVec3(1, 0, 0),
		FOV:       100.0,
	}, cameraOverrides)

	water := material.NewMetallic(core.NewColor(0.6, 0.7, 0.8), 0.05)
	buoy := material.NewLambertian(core.NewColor(0.9, 0.1, 0.1))

	s.Add(
		geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), water),
		geometry.NewSphere(core.NewVec3(10, 1, 0.5), 1, buoy),
	)

	return s
}

// cameraConfig layers a scene's own camera and then any caller override on
// top of the defaults
func cameraConfig(sceneCamera renderer.CameraConfig, overrides []renderer.CameraConfig) renderer.CameraConfig {
	config := renderer.MergeCameraConfig(renderer.DefaultCameraConfig(), sceneCamera)
	for _, override := range overrides {
		config = renderer.MergeCameraConfig(config, override)
	}
	return config
}
