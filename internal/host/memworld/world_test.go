package memworld

import (
	"testing"

	"github.com/voidwell/scenectl/internal/host"
)

func TestResolveOnlyRegisteredClasses(t *testing.T) {
	w := New()
	w.RegisterClass("Box")

	if _, ok := w.Resolve("Box"); !ok {
		t.Fatalf("Box should resolve")
	}
	if _, ok := w.Resolve("Sphere"); ok {
		t.Fatalf("Sphere should not resolve")
	}
}

func TestCreateAssignsSequentialNames(t *testing.T) {
	w := New()
	w.RegisterClass("Box")
	cls, _ := w.Resolve("Box")

	first, ok := w.Create(cls, host.Vector3{X: 1}, host.ZeroRotation)
	if !ok {
		t.Fatalf("create failed")
	}
	second, ok := w.Create(cls, host.Vector3{X: 2}, host.ZeroRotation)
	if !ok {
		t.Fatalf("create failed")
	}
	if first.EntityName() != "Box_1" || second.EntityName() != "Box_2" {
		t.Fatalf("unexpected names: %q %q", first.EntityName(), second.EntityName())
	}
	if first.EntityID() == second.EntityID() {
		t.Fatalf("entity ids must be unique")
	}
}

func TestDestroyRemovesExactlyOne(t *testing.T) {
	w := New()
	w.RegisterClass("Box")
	cls, _ := w.Resolve("Box")
	h, _ := w.Create(cls, host.Vector3{}, host.ZeroRotation)

	if !w.Destroy(h) {
		t.Fatalf("destroy should succeed")
	}
	if w.Destroy(h) {
		t.Fatalf("second destroy should fail")
	}
	if w.Count() != 0 {
		t.Fatalf("world should be empty, has %d", w.Count())
	}
}

func TestSetTransformPartialUpdate(t *testing.T) {
	w := New()
	w.RegisterClass("Lamp")
	cls, _ := w.Resolve("Lamp")
	h, _ := w.Create(cls, host.Vector3{X: 1, Y: 2, Z: 3}, host.ZeroRotation)

	rot := host.Rotation{Yaw: 90}
	if !w.SetTransform(h, nil, &rot) {
		t.Fatalf("set transform failed")
	}
	infos := w.List("Lamp")
	if len(infos) != 1 {
		t.Fatalf("expected one entity, got %d", len(infos))
	}
	if infos[0].Rotation.Yaw != 90 {
		t.Fatalf("yaw not applied: %+v", infos[0].Rotation)
	}
	if infos[0].Position.X != 1 {
		t.Fatalf("position should be untouched: %+v", infos[0].Position)
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	w := New()
	w.RegisterClass("Box")
	w.RegisterClass("Wall")
	box, _ := w.Resolve("Box")
	wall, _ := w.Resolve("Wall")
	w.Create(box, host.Vector3{}, host.ZeroRotation)
	w.Create(wall, host.Vector3{}, host.ZeroRotation)
	w.Create(wall, host.Vector3{}, host.ZeroRotation)

	if got := len(w.List("")); got != 3 {
		t.Fatalf("unfiltered list: got %d", got)
	}
	if got := len(w.List("Wall")); got != 2 {
		t.Fatalf("prefix list: got %d", got)
	}
}
