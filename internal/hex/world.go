package hex

import "math"

// ToWorld converts an axial coordinate to world-space coordinates for
// pointy-top layout. size is the hex radius (corner to center).
func ToWorld(a Axial, size float64) (x, y float64) {
	// pointy-top: x = size*sqrt(3)*(q + r/2); y = size*3/2*r
	x = size * math.Sqrt(3) * (float64(a.Q) + float64(a.R)/2.0)
	y = size * 1.5 * float64(a.R)
	return
}

// FromWorld converts world-space coordinates back to the containing axial
// coordinate. The fractional cube coordinate is rounded per component and the
// component with the largest rounding error is reset so that x+y+z=0 holds.
// FromWorld(ToWorld(h, size), size) == h for every integer h.
func FromWorld(x, y float64, size float64) Axial {
	q := (math.Sqrt(3)/3.0*x - 1.0/3.0*y) / size
	r := (2.0 / 3.0 * y) / size
	return roundCube(q, -q-r, r)
}

// roundCube rounds fractional cube coordinates to the nearest hex.
func roundCube(fx, fy, fz float64) Axial {
	rx := math.Round(fx)
	ry := math.Round(fy)
	rz := math.Round(fz)

	dx := math.Abs(rx - fx)
	dy := math.Abs(ry - fy)
	dz := math.Abs(rz - fz)

	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return Cube{X: int(rx), Y: int(ry), Z: int(rz)}.ToAxial()
}
