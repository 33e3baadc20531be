// Package sparams stores and manipulates S-parameter data: a frequency-indexed
// matrix of complex network measurements, as produced by a vector network
// analyzer or read from a Touchstone file.
//
// # Features
//
//   - Lazy per-cell cache of four encodings: magnitude/angle (MA),
//     dB/angle (DB), real/imaginary (RI) and complex impedance (CZ)
//   - Frequency interpolation with shortest-arc phase and selectable
//     extrapolation
//   - Linear and natural cubic spline display traces
//   - Touchstone 1.x reader and writer for one- and two-port files
//   - Byte-exact binary snapshots for caching whole matrices
//   - T-Check figure of merit and band-pass time-domain response
//   - A cancellable fill loop for live acquisition
//
// # Quick Start
//
// Reading a file and querying it between samples:
//
//	m := sparams.NewMatrix()
//	if err := m.ReadTouchstoneFile("filter.s2p", 0); err != nil {
//	    log.Fatal(err)
//	}
//
//	v, ok, err := m.DBAt(1.5e9, sparams.S21, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if ok {
//	    fmt.Printf("S21 at 1.5 GHz: %.2f dB %.1f°\n", v.DB, v.Deg)
//	}
//
// Filling a matrix from an instrument and exporting it:
//
//	err := sparams.Fill(ctx, m, sparams.FillOptions{
//	    Ports:       2,
//	    Frequencies: sweep,
//	    Progress:    func(p int) { log.Printf("Progress: %d%%", p) },
//	}, vna)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = m.WriteTouchstoneFile("dut.s2p", sparams.WriteOptions{Format: sparams.FormatDB})
//
// # Encodings
//
// Every cell remembers which encodings it currently holds. Setters store one
// encoding and invalidate the rest; getters derive the requested encoding
// from MA, DB or RI (in that order of preference) and cache it. CZ is always
// derived from MA and the real part of the reference impedance. Reading a
// cell that was never written returns [ErrInvalidAccess].
//
// # Extrapolation
//
// Frequency queries outside [Matrix.MinHz, Matrix.MaxHz] return a zero value
// and a false range flag unless [ExtrapolateLeft] or [ExtrapolateRight] asks
// for the nearest endpoint. [ExtrapolateZero] forces the zero result.
//
// # Concurrency
//
// A Matrix is not safe for concurrent use. Run long reads, writes and fills
// on a goroutine that owns the matrix and hand it over when done.
//
// # Diagnostics
//
// Warnings and errors are delivered to a [MessageSink]; the default sink logs
// warnings and errors through the standard log package. Warnings never abort
// an operation.
package sparams
