package testbed

import (
	"bytes"
	"encoding/binary"
	"image/color"

	"github.com/spaghettifunk/texloader/engine/assets/ktx"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

// ETCBlock encodes a 4x4 ETC1 block of one solid color in differential
// mode. ETC2 decoders read it unchanged.
func ETCBlock(c color.NRGBA) []byte {
	r, g, b := uint64(c.R>>3), uint64(c.G>>3), uint64(c.B>>3)
	// Zero deltas, table 0 for both halves, diff bit set, no flip; every
	// pixel index 0 adds +2 to the base color.
	v := r<<59 | g<<51 | b<<43 | 1<<33
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, v)
	return out
}

// EACAlphaBlock encodes a solid 8 bit alpha block; multiplier 0 yields the
// base value for every pixel.
func EACAlphaBlock(alpha uint8) []byte {
	return []byte{alpha, 0, 0, 0, 0, 0, 0, 0}
}

func etcBlock(format metadata.PixelFormat, c color.NRGBA) []byte {
	if format == metadata.PixelFormatETC2RGBA {
		return append(EACAlphaBlock(c.A), ETCBlock(c)...)
	}
	return ETCBlock(c)
}

// ETCLevels encodes a checkerboard of solid blocks for every level.
func ETCLevels(format metadata.PixelFormat, width, height, levels uint32, a, b color.NRGBA) [][]byte {
	var out [][]byte
	forEachLevel(width, height, levels, func(w, h uint32) {
		out = append(out, blockChecker(w, h, func(odd bool) []byte {
			if odd {
				return etcBlock(format, b)
			}
			return etcBlock(format, a)
		}))
	})
	return out
}

// KTXFile describes a 2D KTX asset. MipmapLevels is written to the header
// as is, so 0 asks the loader to generate mipmaps.
type KTXFile struct {
	Format       metadata.PixelFormat
	Width        uint32
	Height       uint32
	MipmapLevels uint32
	Levels       [][]byte
}

func EncodeKTX(f KTXFile) []byte {
	h := ktx.Header{
		PixelWidth:           f.Width,
		PixelHeight:          f.Height,
		NumberOfFaces:        1,
		NumberOfMipmapLevels: f.MipmapLevels,
	}
	if f.Format.IsCompressed() {
		h.GLTypeSize = 1
		h.GLInternalFormat = f.Format.GLInternalFormat()
		h.GLBaseInternalFormat = metadata.GL_RGB
		if f.Format == metadata.PixelFormatETC2RGBA {
			h.GLBaseInternalFormat = metadata.GL_RGBA
		}
	} else {
		h.GLType = metadata.GL_UNSIGNED_BYTE
		h.GLTypeSize = 1
		h.GLFormat = f.Format.GLInternalFormat()
		h.GLInternalFormat = f.Format.GLInternalFormat()
		h.GLBaseInternalFormat = f.Format.GLInternalFormat()
	}

	var buf bytes.Buffer
	kv := map[string][]byte{"KTXorientation": []byte("S=r,T=d\x00")}
	ktx.Encode(&buf, h, kv, []string{"KTXorientation"}, f.Levels)
	return buf.Bytes()
}
