package ktx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func encode(t *testing.T, h Header, levels [][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	kv := map[string][]byte{"KTXorientation": []byte("S=r,T=d\x00")}
	if err := Encode(&buf, h, kv, []string{"KTXorientation"}, levels); err != nil {
		t.Fatalf("Encode() = %v", err)
	}
	return buf.Bytes()
}

func etc1Header(w, h, levels uint32) Header {
	return Header{
		GLInternalFormat:     0x8D64,
		GLBaseInternalFormat: 0x1907,
		PixelWidth:           w,
		PixelHeight:          h,
		NumberOfFaces:        1,
		NumberOfMipmapLevels: levels,
	}
}

func TestDecode(t *testing.T) {
	levels := [][]byte{make([]byte, 32), make([]byte, 8), make([]byte, 8)}
	b := encode(t, etc1Header(8, 8, 3), levels)

	f, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if !f.Header.Compressed() {
		t.Error("Compressed() = false, want true")
	}
	if got := string(f.KeyValues["KTXorientation"]); got != "S=r,T=d\x00" {
		t.Errorf("KTXorientation = %q", got)
	}
	want := []Level{{8, 8, 0, 32}, {4, 4, 0, 8}, {2, 2, 0, 8}}
	if len(f.Levels) != len(want) {
		t.Fatalf("len(Levels) = %d, want %d", len(f.Levels), len(want))
	}
	prevEnd := uint32(0)
	for i, l := range f.Levels {
		if l.Width != want[i].Width || l.Height != want[i].Height || l.Size != want[i].Size {
			t.Errorf("level %d = %+v, want %+v", i, l, want[i])
		}
		if l.Offset < prevEnd || l.Offset%4 != 0 {
			t.Errorf("level %d offset %d, previous level ended at %d", i, l.Offset, prevEnd)
		}
		prevEnd = l.Offset + l.Size
	}
}

func TestDecodeZeroLevels(t *testing.T) {
	b := encode(t, etc1Header(4, 4, 0), [][]byte{make([]byte, 8)})
	f, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if len(f.Levels) != 1 || f.Header.NumberOfMipmapLevels != 0 {
		t.Errorf("levels = %d, header count = %d, want 1 and 0", len(f.Levels), f.Header.NumberOfMipmapLevels)
	}
}

func TestDecodeBigEndian(t *testing.T) {
	b := encode(t, etc1Header(4, 4, 1), [][]byte{make([]byte, 8)})
	// Rewrite every uint32 of the header and the image size as big-endian.
	for off := 12; off < HeaderSize; off += 4 {
		binary.BigEndian.PutUint32(b[off:], binary.LittleEndian.Uint32(b[off:]))
	}
	kvLen := binary.BigEndian.Uint32(b[60:])
	for off := HeaderSize; off < HeaderSize+int(kvLen); {
		n := binary.LittleEndian.Uint32(b[off:])
		binary.BigEndian.PutUint32(b[off:], n)
		off += 4 + int(n+mipPadding(n))
	}
	sizeOff := HeaderSize + int(kvLen)
	binary.BigEndian.PutUint32(b[sizeOff:], binary.LittleEndian.Uint32(b[sizeOff:]))

	f, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode() = %v", err)
	}
	if f.Header.ByteOrder != binary.BigEndian {
		t.Errorf("ByteOrder = %v, want big endian", f.Header.ByteOrder)
	}
	if f.Header.GLInternalFormat != 0x8D64 || f.Levels[0].Size != 8 {
		t.Errorf("header = %+v, level = %+v", f.Header, f.Levels[0])
	}
}

func TestDecodeTrailingBytes(t *testing.T) {
	good := encode(t, etc1Header(8, 8, 2), [][]byte{make([]byte, 32), make([]byte, 8)})
	if f, err := Decode(good); err != nil || f.TrailingBytes != 0 {
		t.Fatalf("Decode() = %+v, %v, want no trailing bytes", f, err)
	}

	f, err := Decode(append(append([]byte(nil), good...), make([]byte, 8)...))
	if err != nil {
		t.Fatalf("Decode() with junk after the last level = %v, want nil", err)
	}
	if f.TrailingBytes != 8 {
		t.Errorf("TrailingBytes = %d, want 8", f.TrailingBytes)
	}
	if len(f.Levels) != 2 || f.Levels[1].Size != 8 {
		t.Errorf("Levels = %+v, want two levels ending in 8 bytes", f.Levels)
	}
}

func TestDecodeErrors(t *testing.T) {
	good := encode(t, etc1Header(8, 8, 2), [][]byte{make([]byte, 32), make([]byte, 8)})

	cube := etc1Header(8, 8, 1)
	cube.NumberOfFaces = 6

	badKV := append([]byte(nil), good...)
	// Claim a pair larger than the key/value block.
	binary.LittleEndian.PutUint32(badKV[HeaderSize:], 1<<20)

	testCases := []struct {
		name   string
		data   []byte
		target error
	}{
		{"short", good[:20], ErrTruncated},
		{"bad id", append([]byte{0}, good[1:]...), ErrNotKTX},
		{"bad endianness", append(append(append([]byte(nil), good[:12]...), 9, 9, 9, 9), good[16:]...), ErrEndianness},
		{"cube", encode(t, cube, [][]byte{make([]byte, 32)}), ErrUnsupportedDim},
		{"too many levels", encode(t, etc1Header(2, 2, 5), [][]byte{make([]byte, 8)}), ErrTooManyLevels},
		{"truncated level", good[:len(good)-4], ErrTruncated},
		{"key value", badKV, ErrKeyValue},
	}
	for _, tc := range testCases {
		if _, err := Decode(tc.data); !errors.Is(err, tc.target) {
			t.Errorf("tc=%q: Decode() = %v, want %v", tc.name, err, tc.target)
		}
	}
}
