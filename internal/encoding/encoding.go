// Package encoding converts between float32 vectors and their on-disk
// byte representation: raw little-endian float32s, four bytes per
// component, no header and no length prefix. The dimension is not
// self-describing; callers track it out of band.
package encoding

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrCorruptEncoding is returned when a stored vector blob does not have
// the byte length implied by the expected dimension.
var ErrCorruptEncoding = errors.New("corrupt vector encoding")

// Encode packs a float32 vector into len(vector)*4 bytes, little-endian.
func Encode(vector []float32) []byte {
	buf := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Decode unpacks exactly dim float32s from blob. The blob must be
// precisely dim*4 bytes; anything else means the row is corrupt.
func Decode(blob []byte, dim int) ([]float32, error) {
	if dim < 0 {
		return nil, fmt.Errorf("%w: negative dimension %d", ErrCorruptEncoding, dim)
	}
	if len(blob) != dim*4 {
		return nil, fmt.Errorf("%w: blob is %d bytes, expected %d for dimension %d",
			ErrCorruptEncoding, len(blob), dim*4, dim)
	}
	vector := make([]float32, dim)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4 : i*4+4])
		vector[i] = math.Float32frombits(bits)
	}
	return vector, nil
}
