package testbed

import (
	"bytes"
	"encoding/binary"
)

const pvrVersion = 0x03525650

// PVRFile describes a PVR v3 asset to encode. Payload follows the header and
// metadata verbatim.
type PVRFile struct {
	PixelFormat uint64
	Width       uint32
	Height      uint32
	MipmapCount uint32
	MetaData    []byte
	Payload     []byte
}

func EncodePVR(f PVRFile) []byte {
	var buf bytes.Buffer
	header := struct {
		Version      uint32
		Flags        uint32
		PixelFormat  uint64
		ColourSpace  uint32
		ChannelType  uint32
		Height       uint32
		Width        uint32
		Depth        uint32
		NumSurfaces  uint32
		NumFaces     uint32
		MipmapCount  uint32
		MetaDataSize uint32
	}{
		Version:      pvrVersion,
		PixelFormat:  f.PixelFormat,
		Height:       f.Height,
		Width:        f.Width,
		Depth:        1,
		NumSurfaces:  1,
		NumFaces:     1,
		MipmapCount:  f.MipmapCount,
		MetaDataSize: uint32(len(f.MetaData)),
	}
	// binary.Write packs the struct with no padding, 52 bytes.
	binary.Write(&buf, binary.LittleEndian, header)
	buf.Write(f.MetaData)
	buf.Write(f.Payload)
	return buf.Bytes()
}

// PVRTCChainSize is the payload a PVRTC mip chain needs.
func PVRTCChainSize(width, height, levels uint32, bitsPerPixel uint64) int {
	total := 0
	forEachLevel(width, height, levels, func(w, h uint32) {
		total += int(max(32, uint64(w)*uint64(h)*bitsPerPixel>>3))
	})
	return total
}

// Pattern returns n bytes of a repeating non-zero pattern, so PVRTC data is
// visibly noisy rather than black.
func Pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*37 + 11)
	}
	return b
}

func forEachLevel(width, height, levels uint32, fn func(w, h uint32)) {
	if levels == 0 {
		levels = 1
	}
	for i := uint32(0); i < levels; i++ {
		fn(width, height)
		width = max(1, width>>1)
		height = max(1, height>>1)
	}
}
