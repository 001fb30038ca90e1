package math

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuatFromEuler builds a rotation from per-axis angles in radians.
// order names the axes from outermost to innermost: "YXZ" yields Ry * Rx * Rz,
// "XYZ" yields Rz * Ry * Rx (the convention ToEulerXYZ inverts).
func QuatFromEuler(x, y, z float32, order string) (Quat, error) {
	qx := QuatFromAxisAngle(Vec3{X: 1}, x)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, y)
	qz := QuatFromAxisAngle(Vec3{Z: 1}, z)

	switch order {
	case "YXZ":
		return qy.Mul(qx).Mul(qz), nil
	case "XYZ":
		return qz.Mul(qy).Mul(qx), nil
	default:
		return QuatIdentity(), fmt.Errorf("unsupported euler order %q", order)
	}
}

// ToEulerXYZ extracts roll (X), pitch (Y) and yaw (Z) in radians, such that
// QuatFromEuler(x, y, z, "XYZ") reproduces the rotation. At a pitch of ±90 degrees
// roll is 0 and the whole remaining rotation is reported as yaw.
func (q Quat) ToEulerXYZ() Vec3 {
	q = q.Normalize()

	sinp := 2 * (q.W*q.Y - q.Z*q.X)
	if math32.Abs(sinp) >= 1-gimbalEpsilon {
		yaw := 2 * math32.Atan2(q.Z, q.W)
		if yaw > math32.Pi {
			yaw -= 2 * math32.Pi
		} else if yaw <= -math32.Pi {
			yaw += 2 * math32.Pi
		}
		return Vec3{X: 0, Y: math32.Copysign(math32.Pi/2, sinp), Z: yaw}
	}

	sinrCosp := 2 * (q.W*q.X + q.Y*q.Z)
	cosrCosp := 1 - 2*(q.X*q.X+q.Y*q.Y)
	roll := math32.Atan2(sinrCosp, cosrCosp)

	pitch := math32.Asin(sinp)

	sinyCosp := 2 * (q.W*q.Z + q.X*q.Y)
	cosyCosp := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	yaw := math32.Atan2(sinyCosp, cosyCosp)

	return Vec3{X: roll, Y: pitch, Z: yaw}
}

// gimbalEpsilon is how close |sin(pitch)| must be to 1 to be treated as gimbal lock.
const gimbalEpsilon = 1e-6

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := math32.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two quaternions (combines rotations).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}
