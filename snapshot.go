package sparams

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Binary snapshot layout, all fields little-endian:
//
//	magic   uint32  "SNPB"
//	version int32
//	length  int32   payload bytes that follow
//	payload:
//	  ports, points        int32
//	  minHz, maxHz         float64
//	  Zo                   2×float64
//	  freqs[points]        float64
//	  per pair, row-major by (out, in):
//	    mask[points]       uint8
//	    MA[points]         2×float64
//	    DB[points]         2×float64
//	    RI[points]         2×float64
//	    CZ[points]         2×float64
//
// Every cached encoding is written as stored, so a restored matrix is
// identical bit for bit, stale cache entries included.

// snapshotPayloadSize returns the payload length for the given dimensions.
func snapshotPayloadSize(ports, points int) int {
	fixed := 2*int32Size + 2*float64Size + complexSize
	perPair := points * (1 + encodedFormats*complexSize)
	return fixed + points*float64Size + ports*ports*perPair
}

// snapshotHeader is the fixed block prefix.
type snapshotHeader struct {
	Magic   uint32
	Version int32
	Length  int32
}

// snapshotDims is the fixed part of the payload.
type snapshotDims struct {
	Ports  int32
	Points int32
	MinHz  float64
	MaxHz  float64
	ZoRe   float64
	ZoIm   float64
}

// MarshalBinary encodes the whole matrix as a snapshot block.
func (m *Matrix) MarshalBinary() ([]byte, error) {
	if !m.Allocated() {
		return nil, ErrEmptyDataSet
	}
	if m.partial {
		return nil, ErrPartial
	}

	payload := snapshotPayloadSize(m.ports, m.points)
	buf := bytes.NewBuffer(make([]byte, 0, snapshotHeaderSize+payload))

	hdr := snapshotHeader{
		Magic:   snapshotMagic,
		Version: snapshotVersion,
		Length:  int32(payload),
	}
	dims := snapshotDims{
		Ports:  int32(m.ports),
		Points: int32(m.points),
		MinHz:  m.minHz,
		MaxHz:  m.maxHz,
		ZoRe:   real(m.zo),
		ZoIm:   imag(m.zo),
	}

	// Writes to a bytes.Buffer cannot fail.
	_ = binary.Write(buf, binary.LittleEndian, hdr)
	_ = binary.Write(buf, binary.LittleEndian, dims)
	_ = binary.Write(buf, binary.LittleEndian, m.freqs)

	masks := make([]uint8, m.points)
	ma := make([]MA, m.points)
	db := make([]DB, m.points)
	ri := make([]RI, m.points)
	cz := make([]CZ, m.points)

	for _, cells := range m.cells {
		for i, c := range cells {
			masks[i] = uint8(c.mask)
			ma[i], db[i], ri[i], cz[i] = c.ma, c.db, c.ri, c.cz
		}
		_ = binary.Write(buf, binary.LittleEndian, masks)
		_ = binary.Write(buf, binary.LittleEndian, ma)
		_ = binary.Write(buf, binary.LittleEndian, db)
		_ = binary.Write(buf, binary.LittleEndian, ri)
		_ = binary.Write(buf, binary.LittleEndian, cz)
	}

	return buf.Bytes(), nil
}

// WriteSnapshot writes the snapshot block for m to w.
func (m *Matrix) WriteSnapshot(w io.Writer) error {
	block, err := m.MarshalBinary()
	if err != nil {
		m.message(LevelError, "%v", err)
		return err
	}
	if _, err := w.Write(block); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// UnmarshalSnapshot replaces m with the snapshot at the start of data and
// returns the number of bytes consumed.
//
// Data that does not begin with the snapshot magic is not an error: it
// returns (0, nil) and leaves m untouched, so callers can probe several
// decoders in turn. Any other failure clears m.
func (m *Matrix) UnmarshalSnapshot(data []byte) (int, error) {
	if len(data) < int32Size || binary.LittleEndian.Uint32(data) != snapshotMagic {
		m.message(LevelVerbose, "unrecognized block ID")
		return 0, nil
	}

	n, err := m.unmarshalSnapshot(data)
	if err != nil {
		m.Clear()
		m.message(LevelError, "%v", err)
		return 0, err
	}
	return n, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Unlike
// UnmarshalSnapshot it reports foreign data as ErrNotSnapshot.
func (m *Matrix) UnmarshalBinary(data []byte) error {
	n, err := m.UnmarshalSnapshot(data)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotSnapshot
	}
	return nil
}

func (m *Matrix) unmarshalSnapshot(data []byte) (int, error) {
	r := bytes.NewReader(data)

	var hdr snapshotHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return 0, fmt.Errorf("%w: short header", ErrCorruptSnapshot)
	}
	if hdr.Version != snapshotVersion {
		return 0, fmt.Errorf("%w: version 0x%08X, parser handles 0x%08X", ErrSnapshotVersion, uint32(hdr.Version), uint32(snapshotVersion))
	}

	payloadStart := r.Len()

	var dims snapshotDims
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return 0, fmt.Errorf("%w: short payload", ErrCorruptSnapshot)
	}

	ports, points := int(dims.Ports), int(dims.Points)
	if ports <= 0 || points <= 0 {
		return 0, fmt.Errorf("%w: %d ports, %d points", ErrCorruptSnapshot, ports, points)
	}
	if ports > twoPort {
		return 0, fmt.Errorf("%w: %d-port snapshot", ErrTooManyPorts, ports)
	}
	if want := snapshotPayloadSize(ports, points); want != int(hdr.Length) || want > payloadStart {
		return 0, fmt.Errorf("%w: %d bytes expected, %d declared, %d available",
			ErrCorruptSnapshot, want, hdr.Length, payloadStart)
	}

	if err := m.Allocate(ports, points); err != nil {
		return 0, err
	}
	m.zo = complex(dims.ZoRe, dims.ZoIm)
	m.SetBounds(dims.MinHz, dims.MaxHz)

	masks := make([]uint8, points)
	ma := make([]MA, points)
	db := make([]DB, points)
	ri := make([]RI, points)
	cz := make([]CZ, points)

	err := errors.Join(binary.Read(r, binary.LittleEndian, m.freqs))
	for _, cells := range m.cells {
		err = errors.Join(err,
			binary.Read(r, binary.LittleEndian, masks),
			binary.Read(r, binary.LittleEndian, ma),
			binary.Read(r, binary.LittleEndian, db),
			binary.Read(r, binary.LittleEndian, ri),
			binary.Read(r, binary.LittleEndian, cz),
		)
		for i := range cells {
			cells[i] = cell{mask: Format(masks[i]), ma: ma[i], db: db[i], ri: ri[i], cz: cz[i]}
		}
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	consumed := len(data) - r.Len()
	if read := consumed - snapshotHeaderSize; read != int(hdr.Length) {
		return 0, fmt.Errorf("%w: %d bytes expected, %d read", ErrCorruptSnapshot, hdr.Length, read)
	}
	return consumed, nil
}

// ReadSnapshot reads one snapshot block from r and returns the number of
// bytes consumed. If r does not start with the snapshot magic it is seeked
// back to where it was and (0, nil) is returned.
func (m *Matrix) ReadSnapshot(r io.ReadSeeker) (int, error) {
	var magic [int32Size]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		m.message(LevelError, "couldn't read from snapshot")
		return 0, fmt.Errorf("failed to read snapshot header: %w", err)
	}

	if binary.LittleEndian.Uint32(magic[:]) != snapshotMagic {
		if _, err := r.Seek(-int64(len(magic)), io.SeekCurrent); err != nil {
			return 0, fmt.Errorf("failed to rewind snapshot reader: %w", err)
		}
		m.message(LevelVerbose, "unrecognized block ID")
		return 0, nil
	}

	var rest [snapshotHeaderSize - int32Size]byte
	if _, err := io.ReadFull(r, rest[:]); err != nil {
		m.Clear()
		return 0, fmt.Errorf("%w: short header", ErrCorruptSnapshot)
	}

	length := int32(binary.LittleEndian.Uint32(rest[int32Size:]))
	if length < 0 {
		m.Clear()
		return 0, fmt.Errorf("%w: negative payload length %d", ErrCorruptSnapshot, length)
	}

	payload, err := io.ReadAll(io.LimitReader(r, int64(length)))
	if err != nil || len(payload) != int(length) {
		m.Clear()
		return 0, fmt.Errorf("%w: couldn't read %d payload bytes", ErrCorruptSnapshot, length)
	}

	block := make([]byte, 0, snapshotHeaderSize+len(payload))
	block = append(block, magic[:]...)
	block = append(block, rest[:]...)
	block = append(block, payload...)

	return m.UnmarshalSnapshot(block)
}
