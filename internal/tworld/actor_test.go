package tworld

import "testing"

func TestActorRoundTrip(t *testing.T) {
	for _, e := range []Entity{EntityChip, EntityBlock, EntityBug, EntityTeeth} {
		for _, d := range []Direction{North, West, South, East} {
			a := MakeActor(e, d)
			if a.Entity() != e || a.Direction() != d {
				t.Errorf("MakeActor(%v, %v) decoded as (%v, %v)",
					e, d, a.Entity(), a.Direction())
			}
		}
	}
}

func TestEntityPredicates(t *testing.T) {
	if !EntityTank.IsTank() || !EntityTankRev.IsTank() {
		t.Error("tank entities not classified as tanks")
	}
	if EntityTeeth.IsTank() || EntityBlob.IsTank() {
		t.Error("non-tank classified as tank")
	}
	if EntityTank.ReverseTank() != EntityTankRev || EntityTankRev.ReverseTank() != EntityTank {
		t.Error("ReverseTank() did not toggle")
	}

	if !EntityBlock.IsBlock() || !EntityBlockGhost.IsBlock() {
		t.Error("block entities not classified as blocks")
	}
	if EntityChip.IsBlock() || EntityBug.IsBlock() {
		t.Error("non-block classified as block")
	}

	// monster boundary: everything above block
	if EntityBlock.IsMonster() {
		t.Error("block classified as monster")
	}
	if !EntityBug.IsMonster() || !EntityTeeth.IsMonster() {
		t.Error("monster not classified as monster")
	}

	// ghost blocks are materialized lazily, so only real blocks and
	// monsters start on the actor list
	if EntityBlockGhost.OnActorList() {
		t.Error("ghost block should not start on the actor list")
	}
	if !EntityBlock.OnActorList() || !EntityWalker.OnActorList() {
		t.Error("block/monster should start on the actor list")
	}
}

func TestActiveActorPacking(t *testing.T) {
	for _, x := range []int8{0, 1, 15, 31} {
		for _, y := range []int8{0, 7, 31} {
			for step := int8(-3); step <= 12; step++ {
				for _, state := range []uint8{StateNone, StateHidden, StateMoved, StateTeleported} {
					a := MakeActiveActor(x, y, step, state)
					if a.X() != x || a.Y() != y || a.Step() != step || a.State() != state {
						t.Fatalf("MakeActiveActor(%d, %d, %d, %d) decoded as (%d, %d, %d, %d)",
							x, y, step, state, a.X(), a.Y(), a.Step(), a.State())
					}
				}
			}
		}
	}
}

func TestActiveActorWith(t *testing.T) {
	a := MakeActiveActor(5, 9, 4, StateMoved)

	b := a.WithPos(20, 30)
	if b.X() != 20 || b.Y() != 30 || b.Step() != 4 || b.State() != StateMoved {
		t.Errorf("WithPos changed more than the position: %v", b)
	}

	c := a.WithStep(-2)
	if c.Step() != -2 || c.X() != 5 || c.Y() != 9 || c.State() != StateMoved {
		t.Errorf("WithStep changed more than the step: %v", c)
	}

	d := a.WithState(StateHidden)
	if d.State() != StateHidden || d.X() != 5 || d.Y() != 9 || d.Step() != 4 {
		t.Errorf("WithState changed more than the state: %v", d)
	}
}
