package encoding

import (
	"errors"
	"math"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{},
		{0},
		{1.5, -2.25, 3.125},
		{math.MaxFloat32, math.SmallestNonzeroFloat32, -math.MaxFloat32},
		{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8},
	}

	for _, v := range vectors {
		blob := Encode(v)
		if len(blob) != len(v)*4 {
			t.Errorf("Encode(%v): got %d bytes, want %d", v, len(blob), len(v)*4)
		}

		decoded, err := Decode(blob, len(v))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if len(decoded) != len(v) {
			t.Fatalf("decoded length %d, want %d", len(decoded), len(v))
		}
		for i := range v {
			if decoded[i] != v[i] {
				t.Errorf("component %d: got %v, want %v", i, decoded[i], v[i])
			}
		}
	}
}

func TestDecodeWrongLength(t *testing.T) {
	// 8 bytes cannot hold a dimension-3 vector.
	blob := make([]byte, 8)
	_, err := Decode(blob, 3)
	if !errors.Is(err, ErrCorruptEncoding) {
		t.Errorf("expected ErrCorruptEncoding, got %v", err)
	}

	// Truncated and over-long blobs fail the same way.
	if _, err := Decode(make([]byte, 11), 3); !errors.Is(err, ErrCorruptEncoding) {
		t.Errorf("expected ErrCorruptEncoding for truncated blob, got %v", err)
	}
	if _, err := Decode(make([]byte, 16), 3); !errors.Is(err, ErrCorruptEncoding) {
		t.Errorf("expected ErrCorruptEncoding for over-long blob, got %v", err)
	}
}

func TestDecodeEmpty(t *testing.T) {
	v, err := Decode(nil, 0)
	if err != nil {
		t.Fatalf("Decode(nil, 0) failed: %v", err)
	}
	if len(v) != 0 {
		t.Errorf("expected empty vector, got %v", v)
	}
}
