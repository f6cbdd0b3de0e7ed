package math

// Mat4 is a 4x4 matrix in column-major order (OpenGL compatible).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
type Mat4 [16]float32

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// quarterSinCos returns exact sine and cosine for n quarter turns.
func quarterSinCos(n int) (s, c float32) {
	switch ((n % 4) + 4) % 4 {
	case 1:
		return 1, 0
	case 2:
		return 0, -1
	case 3:
		return -1, 0
	default:
		return 0, 1
	}
}

// QuarterTurnX returns a rotation of n×90° around the X axis.
func QuarterTurnX(n int) Mat4 {
	s, c := quarterSinCos(n)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// QuarterTurnY returns a rotation of n×90° around the Y axis.
func QuarterTurnY(n int) Mat4 {
	s, c := quarterSinCos(n)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// QuarterTurnZ returns a rotation of n×90° around the Z axis.
func QuarterTurnZ(n int) Mat4 {
	s, c := quarterSinCos(n)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// QuarterTurns composes per-axis quarter turns as Rz * Ry * Rx.
func QuarterTurns(x, y, z int) Mat4 {
	return QuarterTurnZ(z).Mul(QuarterTurnY(y)).Mul(QuarterTurnX(x))
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			result[col*4+row] = sum
		}
	}
	return result
}

// TransformPoint transforms a 3D point by this matrix (w=1, affine only).
func (m Mat4) TransformPoint(p [3]float32) [3]float32 {
	return [3]float32{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}

// TransformVec3 transforms a Vec3 point by this matrix.
func (m Mat4) TransformVec3(v Vec3) Vec3 {
	return FromArray(m.TransformPoint(v.Array()))
}
