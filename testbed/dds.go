package testbed

import (
	"bytes"
	"encoding/binary"
	"image/color"
)

const (
	FourCCDXT1 = 0x31545844
	FourCCDXT3 = 0x33545844
	FourCCDXT5 = 0x35545844

	ddsdCaps        = 0x1
	ddsdHeight      = 0x2
	ddsdWidth       = 0x4
	ddsdPixelFormat = 0x1000
	ddsdMipMapCount = 0x20000
	ddsdLinearSize  = 0x80000
	ddpfFourCC      = 0x4
	ddsCapsTexture  = 0x1000
	ddsCapsMipMap   = 0x400000
	ddsCapsComplex  = 0x8
)

// DDSFile describes a DDS asset to encode.
type DDSFile struct {
	FourCC      uint32
	Width       uint32
	Height      uint32
	MipMapCount uint32
	Payload     []byte
}

func EncodeDDS(f DDSFile) []byte {
	var buf bytes.Buffer
	buf.WriteString("DDS ")

	flags := uint32(ddsdCaps | ddsdHeight | ddsdWidth | ddsdPixelFormat | ddsdLinearSize)
	caps := uint32(ddsCapsTexture)
	if f.MipMapCount > 1 {
		flags |= ddsdMipMapCount
		caps |= ddsCapsMipMap | ddsCapsComplex
	}
	header := struct {
		Size              uint32
		Flags             uint32
		Height            uint32
		Width             uint32
		PitchOrLinearSize uint32
		Depth             uint32
		MipMapCount       uint32
		Reserved1         [11]uint32
		PFSize            uint32
		PFFlags           uint32
		FourCC            uint32
		RGBBitCount       uint32
		Masks             [4]uint32
		Caps              [4]uint32
		Reserved2         uint32
	}{
		Size:              124,
		Flags:             flags,
		Height:            f.Height,
		Width:             f.Width,
		PitchOrLinearSize: uint32(S3TCLevelSize(f.Width, f.Height, f.FourCC)),
		MipMapCount:       f.MipMapCount,
		PFSize:            32,
		PFFlags:           ddpfFourCC,
		FourCC:            f.FourCC,
		Caps:              [4]uint32{caps},
	}
	binary.Write(&buf, binary.LittleEndian, header)
	buf.Write(f.Payload)
	return buf.Bytes()
}

func s3tcBlockSize(fourCC uint32) int {
	if fourCC == FourCCDXT1 {
		return 8
	}
	return 16
}

func S3TCLevelSize(width, height, fourCC uint32) int {
	return int((uint64(width)+3)/4) * int((uint64(height)+3)/4) * s3tcBlockSize(fourCC)
}

// S3TCChainSize is the payload an S3TC mip chain needs.
func S3TCChainSize(width, height, levels, fourCC uint32) int {
	total := 0
	forEachLevel(width, height, levels, func(w, h uint32) {
		total += S3TCLevelSize(w, h, fourCC)
	})
	return total
}

func rgb565(c color.NRGBA) uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// S3TCBlock encodes a 4x4 block of one solid color.
func S3TCBlock(fourCC uint32, c color.NRGBA) []byte {
	colour := make([]byte, 8)
	binary.LittleEndian.PutUint16(colour[0:], rgb565(c))
	binary.LittleEndian.PutUint16(colour[2:], rgb565(c))
	// All indices zero select color0.

	switch fourCC {
	case FourCCDXT3:
		alpha := bytes.Repeat([]byte{c.A>>4 | c.A&0xf0}, 8)
		return append(alpha, colour...)
	case FourCCDXT5:
		alpha := []byte{c.A, c.A, 0, 0, 0, 0, 0, 0}
		return append(alpha, colour...)
	}
	return colour
}

// S3TCChain encodes a checkerboard of solid blocks for every level.
func S3TCChain(width, height, levels, fourCC uint32, a, b color.NRGBA) []byte {
	var out []byte
	forEachLevel(width, height, levels, func(w, h uint32) {
		out = append(out, blockChecker(w, h, func(odd bool) []byte {
			if odd {
				return S3TCBlock(fourCC, b)
			}
			return S3TCBlock(fourCC, a)
		})...)
	})
	return out
}

func blockChecker(width, height uint32, block func(odd bool) []byte) []byte {
	var out []byte
	for by := uint32(0); by < (height+3)/4; by++ {
		for bx := uint32(0); bx < (width+3)/4; bx++ {
			out = append(out, block((bx+by)%2 == 1)...)
		}
	}
	return out
}
