package hex

// Chunk centers form a sub-lattice of the hex grid. For a chunk of the given
// ring radius, the six neighbor centers sit at hex distance 2*rings+1 and the
// seven resulting grids tile the plane with no gaps and no overlap. The base
// offset (rings, rings+1) is rotated by a fixed -120 degree correction before
// the six clockwise 60 degree steps; the correction only fixes which neighbor
// comes first in the slice, the set itself is closed under rotation. Treat the
// formula as a contract verified by the tiling tests, not something to
// re-derive from the geometry.

// ChunkNeighborOffsets returns the six offset vectors from a chunk center to
// its neighbor centers, in a stable clockwise order.
func ChunkNeighborOffsets(rings int) []Axial {
	base := Axial{Q: rings, R: rings + 1}
	if rings == 0 {
		base = Axial{Q: 1, R: 0}
	}
	c := base.ToCube().RotateLeft().RotateLeft()
	out := make([]Axial, 6)
	for i := 0; i < 6; i++ {
		out[i] = c.ToAxial()
		c = c.RotateRight()
	}
	return out
}

// ChunkNeighbors returns the six neighbor chunk centers for a chunk at the
// given center.
func ChunkNeighbors(center Axial, rings int) []Axial {
	offs := ChunkNeighborOffsets(rings)
	out := make([]Axial, 6)
	for i, o := range offs {
		out[i] = center.Add(o)
	}
	return out
}
