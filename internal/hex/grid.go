package hex

// Ring returns the axial coordinates at exact distance k from center c,
// starting from c + dir[4]*k and walking k steps along each of the six
// directions in turn. If k==0, returns [c]. Exactly 6k coordinates for k>0,
// no duplicates, deterministic order.
func Ring(c Axial, k int) []Axial {
	if k == 0 {
		return []Axial{c}
	}
	res := make([]Axial, 0, 6*k)
	cur := c.Add(Directions[4].Mul(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			res = append(res, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return res
}

// GridSize returns the number of hexes in a hexagonal grid of the given
// radius: 3*rings*(rings+1)+1.
func GridSize(rings int) int {
	return 3*rings*(rings+1) + 1
}

// Grid returns the union of rings 0..rings around center c, in ring order.
// The result always has exactly GridSize(rings) coordinates.
func Grid(c Axial, rings int) []Axial {
	res := make([]Axial, 0, GridSize(rings))
	for k := 0; k <= rings; k++ {
		res = append(res, Ring(c, k)...)
	}
	return res
}
