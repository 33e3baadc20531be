package sparams

// Port and matrix limits
const (
	onePort            = 1
	twoPort            = 2
	maxTouchstonePorts = twoPort // Touchstone 1.x supports at most two ports
	pairLabelLen       = 3       // "S" plus two port digits
)

// Conversion constants
const (
	halfTurnDegrees = 180.0
	fullTurnDegrees = 360.0
	minAngleMag     = 1e-20 // Below this magnitude the angle is defined as 0
	minDBMag        = 1e-15 // Floor applied before log10 so dB never reaches -Inf
	dbPerDecade     = 20.0  // Voltage ratio dB scale
	decibelBase     = 10.0
)

// Reference impedance defaults
const (
	defaultZo = 50.0 // Ohms
)

// Frequency unit multipliers
const (
	hzPerHz  = 1.0
	hzPerKHz = 1e3
	hzPerMHz = 1e6
	hzPerGHz = 1e9
)

// Touchstone codec constants
const (
	onePortFields       = 3 // freq re im
	twoPortFields       = 9 // freq + four complex pairs
	commentChar         = '!'
	optionChar          = '#'
	versionChar         = '['
	firstPrintableASCII = 0x20
	lastPrintableASCII  = 0x7E
)

// Binary snapshot layout
const (
	snapshotMagic   uint32 = 0x42504E53 // "SNPB" little-endian
	snapshotVersion int32  = 1

	snapshotHeaderSize = 12 // magic + version + payload length
	int32Size          = 4
	float64Size        = 8
	complexSize        = 2 * float64Size
	encodedFormats     = 4 // MA, DB, RI, CZ arrays per pair
)

// T-Check constants
const (
	tcheckMinDenominator = 1e-30
	percentScale         = 100.0
)

// Producer progress
const (
	progressMax = 100
)

// Time-domain transform defaults
const (
	defaultTDPoints = 1024
	defaultTDBeta   = 6.0 // Kaiser beta; ~-44 dB sidelobes
	minTDPoints     = 2
)
