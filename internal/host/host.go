// Package host defines the boundary to the surrounding application.
// The control core never mutates world state directly; it goes through
// these adapters, which the embedding host supplies.
package host

// Vector3 is a world-space position in host units.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Rotation is a world-space orientation in degrees.
type Rotation struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// ZeroRotation is the reference spawn orientation.
var ZeroRotation = Rotation{}

// TypeHandle identifies one instantiable type known to the host.
type TypeHandle interface {
	TypeName() string
}

// EntityHandle identifies one live entity in the host world.
type EntityHandle interface {
	EntityID() string
	EntityName() string
}

// EntityInfo is a read-only description of one live entity.
type EntityInfo struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Class    string   `json:"class"`
	Position Vector3  `json:"position"`
	Rotation Rotation `json:"rotation"`
}

// TypeResolver resolves a class name to an instantiable type. A miss is
// not an error of the core, only of the requesting command.
type TypeResolver interface {
	Resolve(name string) (TypeHandle, bool)
}

// EntityFactory performs the actual world mutation for spawns.
type EntityFactory interface {
	Create(t TypeHandle, pos Vector3, rot Rotation) (EntityHandle, bool)
}

// WorldQuery exposes lookup and mutation of already-spawned entities.
type WorldQuery interface {
	Find(name string) (EntityHandle, bool)
	Destroy(h EntityHandle) bool
	SetTransform(h EntityHandle, pos *Vector3, rot *Rotation) bool
	List(prefix string) []EntityInfo
}
