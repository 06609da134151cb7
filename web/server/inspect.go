package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
	"github.com/df07/go-bvh-pathtracer/pkg/geometry"
	"github.com/df07/go-bvh-pathtracer/pkg/material"
	"github.com/df07/go-bvh-pathtracer/pkg/renderer"
	"github.com/df07/go-bvh-pathtracer/pkg/scene"
	"github.com/labstack/echo/v4"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo extracts detailed material information with type assertions
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Emissive:
		properties["albedo"] = vec(m.Albedo)
		properties["emission"] = vec(m.Emit)
		properties["color"] = hexColor(m.Emit)
		return "emissive", properties

	case *material.Lambertian:
		properties["albedo"] = vec(m.Albedo)
		properties["color"] = hexColor(m.Albedo)
		return "lambertian", properties

	default:
		if mat != nil && mat.HasEmission() {
			properties["emission"] = vec(mat.Emission())
			return "emissive", properties
		}
		return "unknown", properties
	}
}

// extractGeometryInfo extracts detailed geometry information
func extractGeometryInfo(prim geometry.Primitive) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if prim == nil {
		return "unknown", properties
	}

	properties["area"] = prim.Area()
	bounds := prim.Bounds()
	properties["boundingBox"] = map[string]interface{}{
		"min": vec(bounds.Min),
		"max": vec(bounds.Max),
	}

	switch geom := prim.(type) {
	case *geometry.Sphere:
		properties["center"] = vec(geom.Center)
		properties["radius"] = geom.Radius
		return "sphere", properties

	case *geometry.Triangle:
		properties["vertices"] = [3][3]float64{vec(geom.V0), vec(geom.V1), vec(geom.V2)}
		properties["normal"] = vec(geom.Normal())
		return "triangle", properties

	case *geometry.TriangleMesh:
		properties["triangleCount"] = geom.TriangleCount()
		return "triangle_mesh", properties

	default:
		return "unknown", properties
	}
}

// inspectPixel casts the centre ray of a pixel and returns the first hit
func inspectPixel(sceneObj *scene.Scene, width, height, pixelX, pixelY int) geometry.Intersection {
	camera := renderer.NewCamera(sceneObj.Camera, width, height)
	ray := camera.GetRay(pixelX, pixelY, core.NewVec2(0.5, 0.5))
	return sceneObj.Intersect(ray)
}

// handleInspect reports what the primary ray through a pixel hits
func (s *Server) handleInspect(c echo.Context) error {
	values := c.QueryParams()

	name := values.Get("scene")
	if name == "" {
		name = s.defaults.Scene
	}
	sceneObj, err := scene.Create(name)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	width, err := parseIntParam(values, "width", sceneObj.Camera.Width, 1, MaxImageSize)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	height, err := parseIntParam(values, "height", sceneObj.Camera.Height, 1, MaxImageSize)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	pixelX, err := strconv.Atoi(values.Get("x"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid x coordinate")
	}
	pixelY, err := strconv.Atoi(values.Get("y"))
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid y coordinate")
	}
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		return errorJSON(c, http.StatusBadRequest, "Pixel coordinates out of bounds")
	}

	split, err := geometry.ParseSplitMethod(s.defaults.Split)
	if err != nil {
		split = geometry.SplitSAH
	}
	if err := sceneObj.Preprocess(s.defaults.MaxLeafSize, split); err != nil {
		return errorJSON(c, http.StatusInternalServerError, err.Error())
	}

	hit := inspectPixel(sceneObj, width, height, pixelX, pixelY)
	if !hit.Happened {
		return c.JSON(http.StatusOK, InspectResponse{Hit: false})
	}

	materialType, materialProps := extractMaterialInfo(hit.Material)
	geometryType, geometryProps := extractGeometryInfo(hit.Primitive)

	return c.JSON(http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        vec(hit.Coords),
		Normal:       vec(hit.Normal),
		Distance:     hit.Distance,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
