package dispatch

import (
	"fmt"

	"github.com/voidwell/scenectl/internal/host"
	"github.com/voidwell/scenectl/internal/protocol"
)

// RegisterBuiltins installs the stock intent set.
func RegisterBuiltins(reg *Registry) error {
	handlers := []Handler{
		spawnActorHandler{},
		destroyActorHandler{},
		setActorTransformHandler{},
		listActorsHandler{},
		pingHandler{},
	}
	for _, h := range handlers {
		if err := reg.Register(h); err != nil {
			return err
		}
	}
	return nil
}

// spawnActorHandler instantiates one entity of a named class at a
// world-space location, with zero rotation.
type spawnActorHandler struct{}

func (spawnActorHandler) Name() string { return "spawn_actor" }

func (spawnActorHandler) Handle(cmd protocol.Command, hc HostContext) Result {
	class, res, ok := stringParam(cmd, "class")
	if !ok {
		return res
	}
	loc, res, ok := vec3Param(cmd, "location")
	if !ok {
		return res
	}

	t, ok := hc.Types.Resolve(class)
	if !ok {
		return failure("class not found: %s", class)
	}
	h, ok := hc.Factory.Create(t, loc, host.ZeroRotation)
	if !ok {
		return failure("spawn failed for class: %s", class)
	}
	return success(fmt.Sprintf("spawned %s (%s) at (%g, %g, %g)", h.EntityName(), h.EntityID(), loc.X, loc.Y, loc.Z))
}

// destroyActorHandler removes one named entity from the world.
type destroyActorHandler struct{}

func (destroyActorHandler) Name() string { return "destroy_actor" }

func (destroyActorHandler) Handle(cmd protocol.Command, hc HostContext) Result {
	name, res, ok := stringParam(cmd, "name")
	if !ok {
		return res
	}
	h, ok := hc.World.Find(name)
	if !ok {
		return failure("actor not found: %s", name)
	}
	if !hc.World.Destroy(h) {
		return failure("destroy failed for actor: %s", name)
	}
	return success(fmt.Sprintf("destroyed %s", name))
}

// setActorTransformHandler moves and/or rotates one named entity. At
// least one of location and rotation must be present.
type setActorTransformHandler struct{}

func (setActorTransformHandler) Name() string { return "set_actor_transform" }

func (setActorTransformHandler) Handle(cmd protocol.Command, hc HostContext) Result {
	name, res, ok := stringParam(cmd, "name")
	if !ok {
		return res
	}

	var pos *host.Vector3
	var rot *host.Rotation
	if v, present := cmd.Param("location"); present {
		vec, res, ok := vec3From(v, "location")
		if !ok {
			return res
		}
		pos = &vec
	}
	if v, present := cmd.Param("rotation"); present {
		r, res, ok := rotationFrom(v, "rotation")
		if !ok {
			return res
		}
		rot = &r
	}
	if pos == nil && rot == nil {
		return failure("at least one of 'location' and 'rotation' is required")
	}

	h, ok := hc.World.Find(name)
	if !ok {
		return failure("actor not found: %s", name)
	}
	if !hc.World.SetTransform(h, pos, rot) {
		return failure("transform failed for actor: %s", name)
	}
	return success(fmt.Sprintf("transformed %s", name))
}

// listActorsHandler reports the live entity count, optionally filtered
// by name prefix. The listing itself lands in the log stream.
type listActorsHandler struct{}

func (listActorsHandler) Name() string { return "list_actors" }

func (listActorsHandler) Handle(cmd protocol.Command, hc HostContext) Result {
	prefix := ""
	if v, present := cmd.Param("prefix"); present {
		s, ok := v.AsString()
		if !ok {
			return failure("'prefix' must be a string, got %s", v.Kind())
		}
		prefix = s
	}
	infos := hc.World.List(prefix)
	return success(fmt.Sprintf("%d actors matched prefix %q", len(infos), prefix))
}

// pingHandler is a liveness probe with no host side effect.
type pingHandler struct{}

func (pingHandler) Name() string { return "ping" }

func (pingHandler) Handle(protocol.Command, HostContext) Result {
	return success("pong")
}
