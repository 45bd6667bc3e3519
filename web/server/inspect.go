package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/obscura/pkg/core"
	"github.com/df07/obscura/pkg/geometry"
	"github.com/df07/obscura/pkg/material"
	"github.com/df07/obscura/pkg/renderer"
	"github.com/df07/obscura/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	Properties   map[string]interface{} `json:"properties"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func colorArray(c core.Color) [3]float64 {
	return [3]float64{c.R, c.G, c.B}
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := map[string]interface{}{
		"oneSided": mat.OneSided(),
		"color":    mat.Attenuation().String(),
	}

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = colorArray(m.Albedo)
		return "lambertian", properties

	case *material.Metallic:
		properties["albedo"] = colorArray(m.Albedo)
		properties["fuzz"] = m.Fuzz
		return "metallic", properties

	case *material.Dielectric:
		properties["albedo"] = colorArray(m.Albedo)
		properties["refractiveIndex"] = m.RefractiveIndex
		return "dielectric", properties

	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(surface geometry.Surface) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := surface.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Position)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Plane:
		properties["position"] = vecArray(geom.Position)
		properties["normal"] = vecArray(geom.Normal)
		return "plane", properties

	case *geometry.Quadric:
		c := geom.Coefficients
		properties["position"] = vecArray(geom.Position)
		properties["coefficients"] = [10]float64{c.A, c.B, c.C, c.D, c.E, c.F, c.G, c.H, c.I, c.J}
		return "quadric", properties

	default:
		return "unknown", properties
	}
}

// InspectResult holds the first surface hit by an inspection ray
type InspectResult struct {
	Hit          bool
	Intersection *geometry.Intersection
	Surface      geometry.Surface
}

// inspectPixel casts a ray through the centre of a pixel and returns the
// first surface it hits
func inspectPixel(sceneObj *scene.Scene, camera *renderer.Camera, pixelX, pixelY int) (InspectResult, error) {
	ray, err := camera.PixelRay(pixelX, pixelY)
	if err != nil {
		return InspectResult{}, err
	}

	hit, ok := sceneObj.FindNearest(ray, camera.Frustum())
	if !ok {
		return InspectResult{Hit: false}, nil
	}

	// FindNearest does not say which surface it hit, so ask each one for the
	// same distance
	for _, surface := range sceneObj.Surfaces {
		if surfaceHit, ok := surface.Intersect(ray, camera.Frustum()); ok && surfaceHit.Distance == hit.Distance {
			return InspectResult{Hit: true, Intersection: hit, Surface: surface}, nil
		}
	}

	return InspectResult{Hit: true, Intersection: hit}, nil
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}

	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeError(w, statusForSceneError(err), err.Error())
		return
	}

	camera, err := renderer.NewCamera(sceneObj.CameraConfig)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := inspectPixel(sceneObj, camera, pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Inspection failed: %v", err))
		return
	}

	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false})
		return
	}

	materialType, materialProps := extractMaterialInfo(result.Intersection.Material)
	geometryType, geometryProps := extractGeometryInfo(result.Surface)

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vecArray(result.Intersection.Point),
		Normal:       vecArray(result.Intersection.Normal),
		Distance:     result.Intersection.Distance,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}

	writeJSON(w, http.StatusOK, response)
}
