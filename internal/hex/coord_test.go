package hex

import "testing"

func TestCubeInvariant(t *testing.T) {
	coords := []Axial{{0, 0}, {1, 0}, {-3, 7}, {12, -5}, {-100, 42}}
	for _, a := range coords {
		c := a.ToCube()
		if c.X+c.Y+c.Z != 0 {
			t.Fatalf("cube invariant broken for %v: %v", a, c)
		}
		if c.ToAxial() != a {
			t.Fatalf("axial/cube round trip failed for %v", a)
		}
	}
}

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Axial
		want int
	}{
		{Axial{0, 0}, Axial{0, 0}, 0},
		{Axial{0, 0}, Axial{1, 0}, 1},
		{Axial{0, 0}, Axial{0, 1}, 1},
		{Axial{0, 0}, Axial{1, -1}, 1},
		{Axial{0, 0}, Axial{2, -1}, 2},
		{Axial{0, 0}, Axial{3, 3}, 6},
		{Axial{-2, 4}, Axial{1, -1}, 5},
	}
	for _, c := range cases {
		if got := Distance(c.a, c.b); got != c.want {
			t.Fatalf("distance(%v,%v) = %d, want %d", c.a, c.b, got, c.want)
		}
		if got := Distance(c.b, c.a); got != c.want {
			t.Fatalf("distance not symmetric for %v,%v", c.a, c.b)
		}
	}
}

func TestNeighbors(t *testing.T) {
	h := Axial{3, -2}
	ns := Neighbors(h)
	if len(ns) != 6 {
		t.Fatalf("expected 6 neighbors, got %d", len(ns))
	}
	seen := map[Axial]bool{}
	for i, n := range ns {
		if Distance(h, n) != 1 {
			t.Fatalf("neighbor %v not at distance 1 from %v", n, h)
		}
		if seen[n] {
			t.Fatalf("duplicate neighbor %v", n)
		}
		seen[n] = true
		if n != h.Add(Directions[i]) {
			t.Fatalf("neighbor order unstable at index %d", i)
		}
	}
}

func TestRotatePreservesInvariantAndDistance(t *testing.T) {
	c := Axial{4, -7}.ToCube()
	r := c
	for i := 0; i < 6; i++ {
		r = r.RotateRight()
		if r.X+r.Y+r.Z != 0 {
			t.Fatalf("rotate right broke cube invariant: %v", r)
		}
		if DistanceCube(Cube{}, r) != DistanceCube(Cube{}, c) {
			t.Fatalf("rotation changed distance from origin")
		}
	}
	if r != c {
		t.Fatalf("six right rotations should be identity, got %v", r)
	}
	if c.RotateRight().RotateLeft() != c {
		t.Fatalf("rotate right then left should be identity")
	}
}
