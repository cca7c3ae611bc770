// seehuhn.de/go/sfnt - a library for reading and writing font files
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package recur

import "testing"

func TestEnterLeave(t *testing.T) {
	g := NewGuard(0, 0)
	if g.Exhausted() {
		t.Fatalf("fresh guard is exhausted")
	}
	if !g.Enter(1) {
		t.Fatalf("Enter(1) failed on a fresh guard")
	}
	if !g.Enter(2) {
		t.Fatalf("Enter(2) failed")
	}
	g.Leave()
	g.Leave()
	if g.Exhausted() {
		t.Errorf("guard exhausted after balanced Enter/Leave")
	}
}

func TestCycleDetection(t *testing.T) {
	g := NewGuard(0, 0)
	if !g.Enter(7) {
		t.Fatalf("Enter(7) failed")
	}
	if g.Enter(7) {
		t.Errorf("re-entering an id on the stack must fail")
	}
	g.Leave()
	if !g.Enter(7) {
		t.Errorf("id must be enterable again after Leave")
	}
}

func TestDepthBudget(t *testing.T) {
	g := NewGuard(3, 0)
	for i := uint32(0); i < 3; i++ {
		if !g.Enter(i) {
			t.Fatalf("Enter(%d) failed within budget", i)
		}
	}
	if g.Enter(99) {
		t.Errorf("Enter succeeded beyond the depth budget")
	}
	if !g.Exhausted() {
		t.Errorf("guard not exhausted at depth limit")
	}
}

func TestEdgeBudget(t *testing.T) {
	g := NewGuard(0, 2)
	if !g.Enter(1) {
		t.Fatalf("first edge refused")
	}
	g.Leave()
	if !g.Enter(2) {
		t.Fatalf("second edge refused")
	}
	g.Leave()
	// edges, unlike depth, are not refunded by Leave
	if g.Enter(3) {
		t.Errorf("edge budget must not be refunded on Leave")
	}
}

func TestConfiguredDepthAboveDefault(t *testing.T) {
	// the decycler stack must track the configured budget, not the default
	g := NewGuard(2*DefaultMaxDepth, 0)
	for i := uint32(0); i < 2*DefaultMaxDepth; i++ {
		if !g.Enter(i) {
			t.Fatalf("Enter(%d) refused within the configured budget", i)
		}
	}
	if g.Enter(99) {
		t.Errorf("Enter succeeded beyond the configured depth budget")
	}
}
