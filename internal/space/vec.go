package space

import "math"

// Vec3 is a 3D vector in simulation units.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) LengthSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSq())
}

// Normalized returns a unit-length copy, or the zero vector when the input
// has no magnitude.
func (v Vec3) Normalized() Vec3 {
	mag := v.Length()
	if mag == 0 {
		return Vec3{}
	}
	inv := 1 / mag
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// ClampLength limits the vector magnitude while preserving direction.
func (v Vec3) ClampLength(max float64) Vec3 {
	if max <= 0 {
		return Vec3{}
	}
	if v.LengthSq() <= max*max {
		return v
	}
	return v.Normalized().Scale(max)
}

// WithLength rescales the vector to the given magnitude, preserving
// direction. A zero vector stays zero.
func (v Vec3) WithLength(length float64) Vec3 {
	return v.Normalized().Scale(length)
}

func Dist(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

func DistSq(a, b Vec3) float64 {
	return a.Sub(b).LengthSq()
}

func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
