package sparams

import (
	"math"
)

// RI is a value in rectangular form.
type RI struct {
	Re float64
	Im float64
}

// MA is a value in polar form with linear magnitude. Deg is not normalized.
type MA struct {
	Mag float64
	Deg float64
}

// DB is a value in polar form with magnitude in decibels.
type DB struct {
	DB  float64
	Deg float64
}

// CZ is a complex impedance R + jX in ohms.
type CZ struct {
	R float64
	X float64
}

// Complex returns the value as a complex128.
func (v RI) Complex() complex128 {
	return complex(v.Re, v.Im)
}

// RIFromComplex converts a complex128 to RI.
func RIFromComplex(c complex128) RI {
	return RI{Re: real(c), Im: imag(c)}
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / halfTurnDegrees
}

func radToDeg(rad float64) float64 {
	return rad * halfTurnDegrees / math.Pi
}

// MA converts rectangular to polar. The angle of a value whose magnitude is
// at or below 1e-20 is 0.
func (v RI) MA() MA {
	mag := math.Hypot(v.Re, v.Im)
	if mag <= minAngleMag {
		return MA{Mag: mag}
	}
	return MA{Mag: mag, Deg: radToDeg(math.Atan2(v.Im, v.Re))}
}

// RI converts polar to rectangular.
func (v MA) RI() RI {
	sin, cos := math.Sincos(degToRad(v.Deg))
	return RI{Re: v.Mag * cos, Im: v.Mag * sin}
}

// DB converts linear magnitude to decibels. Magnitudes below 1e-15 are
// floored there, so the result is never -Inf.
func (v MA) DB() DB {
	return DB{DB: dbPerDecade * math.Log10(max(minDBMag, v.Mag)), Deg: v.Deg}
}

// MA converts decibels to linear magnitude.
func (v DB) MA() MA {
	return MA{Mag: math.Pow(decibelBase, v.DB/dbPerDecade), Deg: v.Deg}
}

// CZ returns the impedance seen through a reflection coefficient v against a
// reference resistance ro.
//
// The result is not finite when v is 1∠0° (open circuit); callers that can
// see such values must check for it.
func (v MA) CZ(ro float64) CZ {
	m2 := v.Mag * v.Mag
	sin, cos := math.Sincos(degToRad(v.Deg))
	d := 1 + m2 - 2*v.Mag*cos

	return CZ{
		R: ro * (1 - m2) / d,
		X: ro * 2 * v.Mag * sin / d,
	}
}

// wrapDegrees maps deg into (-180, 180].
func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, fullTurnDegrees)
	if deg > halfTurnDegrees {
		deg -= fullTurnDegrees
	} else if deg <= -halfTurnDegrees {
		deg += fullTurnDegrees
	}
	return deg
}
