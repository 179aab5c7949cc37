package physics

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// MeshDescriptor is one named placeholder sub-mesh of an authored prop
// group. Scale carries the mesh's full dimensions per axis.
type MeshDescriptor struct {
	Name        string
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Scale       mgl64.Vec3
}

// BodyDefinition describes a compound prop body to build from authored
// placeholder meshes.
type BodyDefinition struct {
	Meshes   []MeshDescriptor
	Mass     float64
	Material *Material
	Position mgl64.Vec3

	AllowSleep      bool
	SleepSpeedLimit float64
}

// BuildBody converts named placeholder meshes into one compound-shape body.
//
// Shape selection is driven by name prefix, matched case-insensitively:
// cube*/box* become boxes, cylinder* cylinders, sphere* spheres. A center*
// marker, if present, defines the pivot: every shape offset and the body
// position are translated so the marker's local position becomes the body
// origin. Meshes with unrecognized names carry no collision shape and are
// skipped, since decorative meshes share groups with collision meshes.
func BuildBody(def BodyDefinition) (*Body, error) {
	if def.Mass < 0 {
		return nil, fmt.Errorf("body mass must be >= 0, got %f", def.Mass)
	}

	center := mgl64.Vec3{}
	for _, mesh := range def.Meshes {
		if matchMeshName(mesh.Name, "center") {
			center = mesh.Position
			break
		}
	}

	body := NewBody(def.Mass, def.Position.Add(center), def.Material)
	if def.SleepSpeedLimit > 0 {
		body.SleepSpeedLimit = def.SleepSpeedLimit
	}
	body.AllowSleep = def.AllowSleep

	for _, mesh := range def.Meshes {
		shape, ok, err := shapeForMesh(mesh)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		orientation := mesh.Orientation
		if orientation == (mgl64.Quat{}) {
			orientation = mgl64.QuatIdent()
		}
		body.AddShape(shape, mesh.Position.Sub(center), orientation)
	}

	if len(body.Shapes) == 0 {
		return nil, fmt.Errorf("body definition contains no collision shapes")
	}
	return body, nil
}

func shapeForMesh(mesh MeshDescriptor) (Shape, bool, error) {
	switch {
	case matchMeshName(mesh.Name, "cube"), matchMeshName(mesh.Name, "box"):
		half := mesh.Scale.Mul(0.5)
		if half[0] <= 0 || half[1] <= 0 || half[2] <= 0 {
			return nil, false, fmt.Errorf("box mesh %q has non-positive scale %v", mesh.Name, mesh.Scale)
		}
		return Box{HalfExtents: half}, true, nil

	case matchMeshName(mesh.Name, "cylinder"):
		radius := mesh.Scale[0] / 2
		height := mesh.Scale[2]
		if radius <= 0 || height <= 0 {
			return nil, false, fmt.Errorf("cylinder mesh %q has non-positive scale %v", mesh.Name, mesh.Scale)
		}
		return Cylinder{Radius: radius, Height: height}, true, nil

	case matchMeshName(mesh.Name, "sphere"):
		radius := mesh.Scale[0] / 2
		if radius <= 0 {
			return nil, false, fmt.Errorf("sphere mesh %q has non-positive scale %v", mesh.Name, mesh.Scale)
		}
		return Sphere{Radius: radius}, true, nil
	}
	return nil, false, nil
}

// matchMeshName reports whether name starts with the given shape keyword,
// ignoring case. Authored meshes carry numeric suffixes (Cube001, box_2).
func matchMeshName(name, keyword string) bool {
	return strings.HasPrefix(strings.ToLower(name), keyword)
}
