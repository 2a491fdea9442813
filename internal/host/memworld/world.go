// Package memworld is an in-memory host world. It backs the demo host
// binary and the test suites; a real embedding replaces it with
// adapters onto the engine's own type registry and spawn API.
package memworld

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/voidwell/scenectl/internal/host"
)

type classHandle struct {
	name string
}

func (c classHandle) TypeName() string { return c.name }

type entity struct {
	id       string
	name     string
	class    string
	position host.Vector3
	rotation host.Rotation
}

func (e *entity) EntityID() string   { return e.id }
func (e *entity) EntityName() string { return e.name }

// World implements host.TypeResolver, host.EntityFactory and
// host.WorldQuery over plain maps. Not safe for concurrent use; it is
// driven from the single tick goroutine like everything else.
type World struct {
	classes  map[string]classHandle
	entities map[string]*entity
	spawned  map[string]int
}

func New() *World {
	return &World{
		classes:  make(map[string]classHandle),
		entities: make(map[string]*entity),
		spawned:  make(map[string]int),
	}
}

// RegisterClass makes a class name resolvable.
func (w *World) RegisterClass(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	w.classes[name] = classHandle{name: name}
}

func (w *World) Resolve(name string) (host.TypeHandle, bool) {
	c, ok := w.classes[name]
	if !ok {
		return nil, false
	}
	return c, true
}

func (w *World) Create(t host.TypeHandle, pos host.Vector3, rot host.Rotation) (host.EntityHandle, bool) {
	c, ok := t.(classHandle)
	if !ok {
		return nil, false
	}
	w.spawned[c.name]++
	e := &entity{
		id:       uuid.NewString(),
		name:     fmt.Sprintf("%s_%d", c.name, w.spawned[c.name]),
		class:    c.name,
		position: pos,
		rotation: rot,
	}
	w.entities[e.name] = e
	return e, true
}

func (w *World) Find(name string) (host.EntityHandle, bool) {
	e, ok := w.entities[name]
	if !ok {
		return nil, false
	}
	return e, true
}

func (w *World) Destroy(h host.EntityHandle) bool {
	if h == nil {
		return false
	}
	e, ok := w.entities[h.EntityName()]
	if !ok || e.id != h.EntityID() {
		return false
	}
	delete(w.entities, e.name)
	return true
}

func (w *World) SetTransform(h host.EntityHandle, pos *host.Vector3, rot *host.Rotation) bool {
	if h == nil {
		return false
	}
	e, ok := w.entities[h.EntityName()]
	if !ok || e.id != h.EntityID() {
		return false
	}
	if pos != nil {
		e.position = *pos
	}
	if rot != nil {
		e.rotation = *rot
	}
	return true
}

func (w *World) List(prefix string) []host.EntityInfo {
	out := make([]host.EntityInfo, 0, len(w.entities))
	for _, e := range w.entities {
		if prefix != "" && !strings.HasPrefix(e.name, prefix) {
			continue
		}
		out = append(out, host.EntityInfo{
			ID:       e.id,
			Name:     e.name,
			Class:    e.class,
			Position: e.position,
			Rotation: e.rotation,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count reports the number of live entities.
func (w *World) Count() int { return len(w.entities) }
