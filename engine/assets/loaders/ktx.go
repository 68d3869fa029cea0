package loaders

import (
	"fmt"

	"github.com/spaghettifunk/texloader/engine/assets/ktx"
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

var ktxCompressedFormats = map[uint32]metadata.PixelFormat{
	metadata.GL_ETC1_RGB8_OES:             metadata.PixelFormatETC1,
	metadata.GL_COMPRESSED_RGB8_ETC2:      metadata.PixelFormatETC2RGB,
	metadata.GL_COMPRESSED_RGBA8_ETC2_EAC: metadata.PixelFormatETC2RGBA,
}

var ktxPlainFormats = map[uint32]metadata.PixelFormat{
	metadata.GL_LUMINANCE:       metadata.PixelFormatLuminance,
	metadata.GL_LUMINANCE_ALPHA: metadata.PixelFormatLuminanceAlpha,
	metadata.GL_RGB:             metadata.PixelFormatRGB,
	metadata.GL_RGBA:            metadata.PixelFormatRGBA,
}

// KTXPixelFormat resolves the format of a KTX header: compressed files by
// glInternalFormat, uncompressed ones by glFormat with GL_UNSIGNED_BYTE.
func KTXPixelFormat(h *ktx.Header) (metadata.PixelFormat, error) {
	if h.Compressed() {
		if f, ok := ktxCompressedFormats[h.GLInternalFormat]; ok {
			return f, nil
		}
		return metadata.PixelFormatUnknown, fmt.Errorf("KTX glInternalFormat 0x%04X: %w", h.GLInternalFormat, ErrUnknownPixelFormat)
	}
	if h.GLType == metadata.GL_UNSIGNED_BYTE {
		if f, ok := ktxPlainFormats[h.GLFormat]; ok {
			return f, nil
		}
	}
	return metadata.PixelFormatUnknown, fmt.Errorf("KTX glFormat 0x%04X glType 0x%04X: %w", h.GLFormat, h.GLType, ErrUnknownPixelFormat)
}

func etcBlockSize(f metadata.PixelFormat) uint64 {
	if f == metadata.PixelFormatETC2RGBA {
		return 16
	}
	return 8
}

type KTXLoader struct{}

func (kl *KTXLoader) Load(name string, data []byte) (*metadata.Resource, error) {
	f, err := ktx.Decode(data)
	if err != nil {
		return nil, decodeError(name, "ktx", err)
	}
	if f.TrailingBytes > 0 {
		core.LogDebug("%s: ignoring %d bytes after the last mip level", name, f.TrailingBytes)
	}
	format, err := KTXPixelFormat(&f.Header)
	if err != nil {
		return nil, decodeError(name, "ktx", err)
	}

	desc := &metadata.TextureDescriptor{
		Name:            name,
		Format:          format,
		Compressed:      format.IsCompressed(),
		GenerateMipmaps: f.Header.NumberOfMipmapLevels == 0,
		Data:            data,
	}
	if desc.Compressed {
		desc.Levels, err = compressedKTXLevels(f.Levels, etcBlockSize(format))
	} else {
		desc.Levels, desc.Data, err = plainKTXLevels(f.Levels, data, format.BytesPerPixel())
	}
	if err != nil {
		return nil, decodeError(name, "ktx", err)
	}

	if err := desc.Validate(); err != nil {
		return nil, decodeError(name, "ktx", err)
	}
	return resource(name, data, desc), nil
}

func (kl *KTXLoader) Unload(res *metadata.Resource) error {
	return unload(res)
}

func compressedKTXLevels(in []ktx.Level, blockSize uint64) ([]metadata.MipLevel, error) {
	size := blockLevelSize(blockSize)
	levels := make([]metadata.MipLevel, len(in))
	for i, l := range in {
		if want := size(l.Width, l.Height); uint64(l.Size) != want {
			return nil, fmt.Errorf("level %d (%dx%d) has %d bytes, want %d: %w",
				i, l.Width, l.Height, l.Size, want, ErrLevelSize)
		}
		levels[i] = metadata.MipLevel{Width: l.Width, Height: l.Height, Offset: l.Offset, Size: l.Size}
	}
	return levels, nil
}

// plainKTXLevels strips the 4 byte row alignment KTX requires for
// uncompressed data so rows upload with an unpack alignment of 1. The
// input buffer is returned untouched when no row is padded.
func plainKTXLevels(in []ktx.Level, data []byte, bpp int) ([]metadata.MipLevel, []byte, error) {
	padded := false
	total := uint64(0)
	for i, l := range in {
		row := uint64(l.Width) * uint64(bpp)
		pitch := (row + 3) &^ 3
		if uint64(l.Size) != pitch*uint64(l.Height) {
			return nil, nil, fmt.Errorf("level %d (%dx%d) has %d bytes, want %d: %w",
				i, l.Width, l.Height, l.Size, pitch*uint64(l.Height), ErrLevelSize)
		}
		padded = padded || pitch != row
		total += row * uint64(l.Height)
	}

	levels := make([]metadata.MipLevel, len(in))
	if !padded {
		for i, l := range in {
			levels[i] = metadata.MipLevel{Width: l.Width, Height: l.Height, Offset: l.Offset, Size: l.Size}
		}
		return levels, data, nil
	}

	packed := make([]byte, 0, total)
	for i, l := range in {
		row := int(l.Width) * bpp
		pitch := (row + 3) &^ 3
		levels[i] = metadata.MipLevel{Width: l.Width, Height: l.Height, Offset: uint32(len(packed)), Size: uint32(row) * l.Height}
		src := data[l.Offset : l.Offset+l.Size]
		for y := 0; y < int(l.Height); y++ {
			packed = append(packed, src[y*pitch:y*pitch+row]...)
		}
	}
	return levels, packed, nil
}
