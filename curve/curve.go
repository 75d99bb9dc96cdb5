// Package curve implements the piecewise-linear throttle-curve
// interpolation used by the actuator core's input normalization.
package curve

import "actuatorcore/objects"

// LinearInterpolate maps input through a curve table of points assumed to
// span [lo, hi] on the X axis in ascending order, clamping outside the
// table's domain. An empty table is a safe fallback that returns the
// clamped input unchanged; a single-point table returns that point's Y.
func LinearInterpolate(input float64, table []objects.CurvePoint, lo, hi float64) float64 {
	if input < lo {
		input = lo
	} else if input > hi {
		input = hi
	}

	if len(table) == 0 {
		return input
	}
	if len(table) == 1 {
		return table[0].Y
	}

	if input <= table[0].X {
		return table[0].Y
	}
	last := table[len(table)-1]
	if input >= last.X {
		return last.Y
	}

	for i := 0; i < len(table)-1; i++ {
		a, b := table[i], table[i+1]
		if input >= a.X && input <= b.X {
			span := b.X - a.X
			if span == 0 {
				return a.Y
			}
			frac := (input - a.X) / span
			return a.Y + frac*(b.Y-a.Y)
		}
	}
	return last.Y
}

// Throttle interpolates the primary throttle curve. Input and output both
// live in [0,1] so that a throttle channel's neutral value can double as
// its failsafe value.
func Throttle(input float64, table []objects.CurvePoint) float64 {
	return LinearInterpolate(input, table, 0.0, 1.0)
}

// Collective interpolates the secondary curve, accepting [-1,1] so its
// neutral point can be placed anywhere within the typical channel range.
func Collective(input float64, table []objects.CurvePoint) float64 {
	return LinearInterpolate(input, table, -1.0, 1.0)
}

// IdentityTable builds an identity-shaped curve over [lo, hi] with n
// points, used by tests to verify that interpolation round-trips its input.
func IdentityTable(lo, hi float64, n int) []objects.CurvePoint {
	if n < 2 {
		n = 2
	}
	pts := make([]objects.CurvePoint, n)
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		x := lo + step*float64(i)
		pts[i] = objects.CurvePoint{X: x, Y: x}
	}
	return pts
}
