// Package formats provides parsers for Chasm: The Rift file formats.
//
// Supported formats:
//   - .3O  static model (faces, vertex table, indexed skin)
//   - .CAR animated character (clip table, frames, embedded 8-bit sounds)
//   - .ANI vertex frames for a .3O model
//   - .ACT-style palette files (last 768 bytes are used)
package formats

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Decoder errors.
var (
	ErrTruncatedData       = errors.New("truncated model data")
	ErrUnrecognizedFormat  = errors.New("unrecognized model format")
	ErrMisalignedFrameData = errors.New("frame data is not a multiple of the frame size")
	ErrIndexOutOfRange     = errors.New("face references a vertex out of range")
	ErrNoPalette           = errors.New("palette is required")
)

// u16At reads a little-endian uint16 at off.
func u16At(data []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(data) {
		return 0, fmt.Errorf("%w: u16 at 0x%X (len %d)", ErrTruncatedData, off, len(data))
	}
	return binary.LittleEndian.Uint16(data[off:]), nil
}

// u16Table reads n consecutive uint16 values starting at off.
func u16Table(data []byte, off, n int) ([]uint16, error) {
	b, err := span(data, off, n*2)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return out, nil
}

// span returns data[off:off+n] after checking it lies inside the buffer.
func span(data []byte, off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(data) || n > len(data)-off {
		return nil, fmt.Errorf("%w: %d bytes at 0x%X (len %d)", ErrTruncatedData, n, off, len(data))
	}
	return data[off : off+n], nil
}

func sum16(values []uint16) int {
	total := 0
	for _, v := range values {
		total += int(v)
	}
	return total
}
