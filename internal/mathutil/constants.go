package mathutil

// Bessel function approximation constants
// These constants are Chebyshev polynomial coefficients from
// Abramowitz & Stegun, "Handbook of Mathematical Functions"

const (
	// Threshold for switching between polynomial and asymptotic approximations
	besselSmallArgThreshold = 3.75 // |x| threshold for I₀
)

// Chebyshev coefficients for I₀(x) small argument approximation
const (
	besselI0Coeff1 = 3.5156229
	besselI0Coeff2 = 3.0899424
	besselI0Coeff3 = 1.2067492
	besselI0Coeff4 = 0.2659732
	besselI0Coeff5 = 0.360768e-1
	besselI0Coeff6 = 0.45813e-2
)

// Chebyshev coefficients for I₀(x) large argument approximation
const (
	besselI0AsympCoeff0 = 0.39894228
	besselI0AsympCoeff1 = 0.1328592e-1
	besselI0AsympCoeff2 = 0.225319e-2
	besselI0AsympCoeff3 = -0.157565e-2
	besselI0AsympCoeff4 = 0.916281e-2
	besselI0AsympCoeff5 = -0.2057706e-1
	besselI0AsympCoeff6 = 0.2635537e-1
	besselI0AsympCoeff7 = -0.1647633e-1
	besselI0AsympCoeff8 = 0.392377e-2
)

// Window constants
const (
	// windowHalfDivisor locates the window centre: α = (N-1)/2
	windowHalfDivisor = 2.0

	// windowCenterTap is the value of a length-1 window
	windowCenterTap = 1.0
)

// Spline constants
const (
	// minSourcePoints is the smallest table either resampler accepts
	minSourcePoints = 2

	// splineGuardScale scales |x| into the minimum node spacing used while
	// computing second derivatives (coincident or near-vertical segments)
	splineGuardScale = 1e-6

	// degenerateIntervalWidth replaces a non-positive interval width during
	// evaluation. Only reachable when the increasing-X precondition is bypassed.
	degenerateIntervalWidth = 0.0001

	// splineSecondDerivScale is the 6 in the natural spline system
	// sig·M[i-1] + 2·M[i] + (1-sig)·M[i+1] = 6·(r1-r0)/h
	splineSecondDerivScale = 6.0

	// splineDiagonal is the interior main-diagonal coefficient
	splineDiagonal = 2.0
)
