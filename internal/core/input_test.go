package core

import "testing"

func TestInputFrameSetHasClear(t *testing.T) {
	f := NewInputFrame()
	if f.Has(ActionUp) {
		t.Error("fresh frame should have no actions")
	}

	f.Set(ActionUp)
	f.Set(ActionPause)
	if !f.Has(ActionUp) || !f.Has(ActionPause) {
		t.Error("set actions not reported")
	}
	if f.Has(ActionDown) {
		t.Error("unset action reported")
	}

	f.Clear()
	if f.Has(ActionUp) || f.Has(ActionPause) {
		t.Error("Clear left actions behind")
	}
}

func TestInputFrameSetOnZeroValue(t *testing.T) {
	var f InputFrame
	f.Set(ActionQuit)
	if !f.Has(ActionQuit) {
		t.Error("Set on zero-value frame lost the action")
	}
}

func TestAxisVertical(t *testing.T) {
	cases := []struct {
		name    string
		actions []Action
		want    float64
	}{
		{"idle", nil, 0},
		{"up", []Action{ActionUp}, -1},
		{"down", []Action{ActionDown}, 1},
		{"both cancel", []Action{ActionUp, ActionDown}, 0},
		{"horizontal ignored", []Action{ActionLeft, ActionRight}, 0},
	}
	for _, tc := range cases {
		f := NewInputFrame()
		for _, a := range tc.actions {
			f.Set(a)
		}
		if got := f.Axis(false); got != tc.want {
			t.Errorf("%s: Axis(vertical) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestAxisHorizontal(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionLeft)
	if got := f.Axis(true); got != -1 {
		t.Errorf("Axis(horizontal) with left = %v, want -1", got)
	}
	f.Set(ActionRight)
	if got := f.Axis(true); got != 0 {
		t.Errorf("Axis(horizontal) with both = %v, want 0", got)
	}
	f.Clear()
	f.Set(ActionRight)
	if got := f.Axis(true); got != 1 {
		t.Errorf("Axis(horizontal) with right = %v, want 1", got)
	}
	// Vertical actions never leak into the horizontal axis.
	f.Set(ActionUp)
	if got := f.Axis(true); got != 1 {
		t.Errorf("Axis(horizontal) with up+right = %v, want 1", got)
	}
}

func TestInputFrameCloneIsIndependent(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionUp)

	c := f.Clone()
	if !c.Has(ActionUp) {
		t.Fatal("clone missing copied action")
	}
	c.Set(ActionDown)
	if f.Has(ActionDown) {
		t.Error("mutating the clone changed the original")
	}
	f.Clear()
	if !c.Has(ActionUp) {
		t.Error("clearing the original changed the clone")
	}
}

func TestActionString(t *testing.T) {
	if ActionPause.String() != "Pause" {
		t.Errorf("ActionPause.String() = %q", ActionPause.String())
	}
	if Action(99).String() != "Unknown" {
		t.Errorf("unknown action String() = %q", Action(99).String())
	}
}
