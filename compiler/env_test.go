package compiler

import "testing"

func TestEnvMakeWalksToDefiningFrame(t *testing.T) {
	global := NewEnv(nil)
	global.Bind("x", NumberValue(1))
	child := NewEnv(global)

	child.Make("x", NumberValue(2))

	if _, ok := child.vars["x"]; ok {
		t.Error("make should not create a binding in the child frame when an outer frame already defines the name")
	}
	v, ok := global.Get("x")
	if !ok || v.Num != 2 {
		t.Errorf("got %v, %v, want 2 in global frame", v, ok)
	}
}

func TestEnvMakeCreatesInCurrentFrameWhenUndefined(t *testing.T) {
	global := NewEnv(nil)
	child := NewEnv(global)

	child.Make("y", NumberValue(5))

	if _, ok := global.vars["y"]; ok {
		t.Error("make should not leak into an outer frame when no frame yet defines the name")
	}
	v, ok := child.Get("y")
	if !ok || v.Num != 5 {
		t.Errorf("got %v, %v, want 5 in child frame", v, ok)
	}
}

func TestEnvLocalAlwaysShadowsInCurrentFrame(t *testing.T) {
	global := NewEnv(nil)
	global.Bind("z", NumberValue(1))
	child := NewEnv(global)

	child.Local("z")

	if !IsNoValue(child.vars["z"]) {
		t.Error("local should bind an unset placeholder in the current frame")
	}
	if v, _ := global.Get("z"); v.Num != 1 {
		t.Error("local must not disturb the outer binding")
	}
}

func TestEnvGetSearchesOutward(t *testing.T) {
	global := NewEnv(nil)
	global.Bind("a", NumberValue(9))
	mid := NewEnv(global)
	leaf := NewEnv(mid)

	v, ok := leaf.Get("a")
	if !ok || v.Num != 9 {
		t.Errorf("got %v, %v, want 9 found through ancestor chain", v, ok)
	}

	if _, ok := leaf.Get("nope"); ok {
		t.Error("unbound name should not be found")
	}
}
