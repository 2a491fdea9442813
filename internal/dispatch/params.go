package dispatch

import (
	"github.com/voidwell/scenectl/internal/host"
	"github.com/voidwell/scenectl/internal/protocol"
)

// stringParam extracts a required string parameter.
func stringParam(cmd protocol.Command, name string) (string, Result, bool) {
	v, ok := cmd.Param(name)
	if !ok {
		return "", failure("missing '%s' parameter", name), false
	}
	s, ok := v.AsString()
	if !ok {
		return "", failure("'%s' must be a string, got %s", name, v.Kind()), false
	}
	return s, Result{}, true
}

// vec3Param extracts a parameter that must be an array of exactly three
// numbers, in X/Y/Z order.
func vec3Param(cmd protocol.Command, name string) (host.Vector3, Result, bool) {
	v, ok := cmd.Param(name)
	if !ok {
		return host.Vector3{}, failure("missing '%s' parameter", name), false
	}
	return vec3From(v, name)
}

func vec3From(v protocol.Value, name string) (host.Vector3, Result, bool) {
	arr, ok := v.AsArray()
	if !ok || len(arr) != 3 {
		return host.Vector3{}, failure("'%s' must be an array of 3 numbers", name), false
	}
	nums := make([]float64, 3)
	for i, item := range arr {
		n, ok := item.AsNumber()
		if !ok {
			return host.Vector3{}, failure("'%s'[%d] must be a number, got %s", name, i, item.Kind()), false
		}
		nums[i] = n
	}
	return host.Vector3{X: nums[0], Y: nums[1], Z: nums[2]}, Result{}, true
}

func rotationFrom(v protocol.Value, name string) (host.Rotation, Result, bool) {
	vec, res, ok := vec3From(v, name)
	if !ok {
		return host.Rotation{}, res, false
	}
	return host.Rotation{Roll: vec.X, Pitch: vec.Y, Yaw: vec.Z}, Result{}, true
}
