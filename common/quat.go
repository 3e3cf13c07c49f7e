package common

import "math"

// Quat is a unit quaternion expressing a camera orientation.
// Orientations are always roll-free: they are composed from a yaw rotation
// about the world Y axis followed by a pitch rotation about the local X axis.
type Quat struct {
	W, X, Y, Z float32
}

// QuatIdentity returns the identity orientation (looking down -Z).
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromYawPitch builds an orientation from yaw and pitch angles.
// The composition order is yaw about world Y, then pitch about the rotated
// local X axis, so pitch never introduces roll.
//
// Parameters:
//   - yaw: horizontal angle in radians (0 = facing -Z, positive turns left)
//   - pitch: vertical angle in radians (positive looks up)
//
// Returns:
//   - Quat: the resulting unit quaternion
func QuatFromYawPitch(yaw, pitch float32) Quat {
	hy := float64(yaw) * 0.5
	hp := float64(pitch) * 0.5
	qy := Quat{W: float32(math.Cos(hy)), Y: float32(math.Sin(hy))}
	qx := Quat{W: float32(math.Cos(hp)), X: float32(math.Sin(hp))}
	return qy.Mul(qx)
}

// Mul returns the Hamilton product q * o (apply o first, then q).
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

// Dot returns the 4D dot product of two quaternions.
func (q Quat) Dot(o Quat) float32 {
	return q.W*o.W + q.X*o.X + q.Y*o.Y + q.Z*o.Z
}

// Normalize returns q scaled to unit length. A degenerate (near-zero)
// quaternion normalizes to the identity.
func (q Quat) Normalize() Quat {
	l := float32(math.Sqrt(float64(q.Dot(q))))
	if l < 1e-8 {
		return QuatIdentity()
	}
	inv := 1.0 / l
	return Quat{q.W * inv, q.X * inv, q.Y * inv, q.Z * inv}
}

// Rotate applies the orientation to a vector.
//
// Parameters:
//   - v: the vector to rotate
//
// Returns:
//   - Vec3: the rotated vector
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2*cross(q.xyz, cross(q.xyz, v) + w*v)
	u := Vec3{q.X, q.Y, q.Z}
	c1 := Vec3{
		u.Y*v.Z - u.Z*v.Y + q.W*v.X,
		u.Z*v.X - u.X*v.Z + q.W*v.Y,
		u.X*v.Y - u.Y*v.X + q.W*v.Z,
	}
	c2 := Vec3{
		u.Y*c1.Z - u.Z*c1.Y,
		u.Z*c1.X - u.X*c1.Z,
		u.X*c1.Y - u.Y*c1.X,
	}
	return v.Add(c2.Scale(2))
}

// Forward returns the camera's forward direction (the rotated -Z axis).
func (q Quat) Forward() Vec3 {
	return q.Rotate(Vec3{Z: -1})
}

// YawPitch extracts the yaw and pitch angles from a roll-free orientation.
// This is the inverse of QuatFromYawPitch within floating tolerance.
//
// Returns:
//   - yaw: horizontal angle in radians
//   - pitch: vertical angle in radians
func (q Quat) YawPitch() (yaw, pitch float32) {
	f := q.Forward()
	pitch = float32(math.Asin(float64(Clamp(f.Y, -1, 1))))
	yaw = float32(math.Atan2(float64(-f.X), float64(-f.Z)))
	return yaw, pitch
}

// Slerp spherically interpolates between orientations a and b.
// t=0 returns a, t=1 returns b. The shorter arc is always taken. Nearly
// parallel inputs fall back to normalized linear interpolation to avoid a
// division by a vanishing sine.
//
// Parameters:
//   - a: start orientation
//   - b: end orientation
//   - t: interpolation fraction in [0, 1]
//
// Returns:
//   - Quat: the interpolated unit quaternion
func Slerp(a, b Quat, t float32) Quat {
	d := a.Dot(b)
	if d < 0 {
		b = Quat{-b.W, -b.X, -b.Y, -b.Z}
		d = -d
	}
	if d > 0.9995 {
		return Quat{
			Lerp(a.W, b.W, t),
			Lerp(a.X, b.X, t),
			Lerp(a.Y, b.Y, t),
			Lerp(a.Z, b.Z, t),
		}.Normalize()
	}
	theta := math.Acos(float64(Clamp(d, -1, 1)))
	sinTheta := math.Sin(theta)
	wa := float32(math.Sin((1-float64(t))*theta) / sinTheta)
	wb := float32(math.Sin(float64(t)*theta) / sinTheta)
	return Quat{
		a.W*wa + b.W*wb,
		a.X*wa + b.X*wb,
		a.Y*wa + b.Y*wb,
		a.Z*wa + b.Z*wb,
	}.Normalize()
}

// LookAtQuat builds a roll-free orientation at eye facing target.
// If eye and target coincide the identity orientation is returned.
//
// Parameters:
//   - eye: camera position in world space
//   - target: point the camera should face
//
// Returns:
//   - Quat: the resulting unit quaternion
func LookAtQuat(eye, target Vec3) Quat {
	f := target.Sub(eye)
	if f.Length() < 1e-8 {
		return QuatIdentity()
	}
	f = f.Normalize()
	pitch := float32(math.Asin(float64(Clamp(f.Y, -1, 1))))
	yaw := float32(math.Atan2(float64(-f.X), float64(-f.Z)))
	return QuatFromYawPitch(yaw, pitch)
}

// ForwardFromYawPitch returns the unit forward vector for the given yaw and
// pitch without constructing a quaternion.
func ForwardFromYawPitch(yaw, pitch float32) Vec3 {
	cp := float32(math.Cos(float64(pitch)))
	return Vec3{
		X: -float32(math.Sin(float64(yaw))) * cp,
		Y: float32(math.Sin(float64(pitch))),
		Z: -float32(math.Cos(float64(yaw))) * cp,
	}
}
