package records

// ObjectKind identifies the renderable type of a placed object.
type ObjectKind string

const (
	ObjectKindGLTF      ObjectKind = "gltf"
	ObjectKindPrimitive ObjectKind = "primitive"
)

// MaskShape identifies the geometry of a mask volume.
type MaskShape string

const (
	MaskShapeBox    MaskShape = "box"
	MaskShapeSphere MaskShape = "sphere"
)

// Vec3 is an x/y/z triple in world units.
type Vec3 [3]float64

// PlacedObject is an asset positioned inside a generated world.
type PlacedObject struct {
	ID       string     `json:"id"`
	Kind     ObjectKind `json:"kind"`
	URL      string     `json:"url"`
	Position Vec3       `json:"position"`
	Rotation Vec3       `json:"rotation"`
	Scale    Vec3       `json:"scale"`
}

// MaskVolume hides a region of the generated world.
type MaskVolume struct {
	ID       string    `json:"id"`
	Shape    MaskShape `json:"shape"`
	Position Vec3      `json:"position"`
	Rotation Vec3      `json:"rotation"`
	Size     Vec3      `json:"size"`
	Enabled  bool      `json:"enabled"`
}

// SceneEdits captures user modifications layered on a generated world.
type SceneEdits struct {
	Objects []PlacedObject `json:"objects"`
	Masks   []MaskVolume   `json:"masks"`
}

// NewSceneEdits returns an empty edit structure with non-nil slices so it
// serializes as {"objects":[],"masks":[]}.
func NewSceneEdits() *SceneEdits {
	return &SceneEdits{
		Objects: []PlacedObject{},
		Masks:   []MaskVolume{},
	}
}
