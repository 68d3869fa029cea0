package loaders

import (
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

const (
	// DDSHeaderSize counts the "DDS " magic and the 124 byte DDS_HEADER.
	DDSHeaderSize = 128

	ddsMagic         = 0x20534444 // "DDS "
	ddsPixelFormatAt = 76

	FourCCDXT1 = 0x31545844
	FourCCDXT3 = 0x33545844
	FourCCDXT5 = 0x35545844
)

// DDSPixelFormat is the DDS_PIXELFORMAT block embedded in the header.
type DDSPixelFormat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

type DDSHeader struct {
	Size              uint32
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipMapCount       uint32
	PixelFormat       DDSPixelFormat
	Caps              [4]uint32
}

func DecodeDDSHeader(b []byte) (*DDSHeader, error) {
	if len(b) < DDSHeaderSize {
		return nil, fmt.Errorf("%w: %d byte DDS header", ErrTruncated, len(b))
	}
	le := binary.LittleEndian
	if magic := le.Uint32(b[0:]); magic != ddsMagic {
		return nil, fmt.Errorf("%w: DDS magic 0x%08X", ErrBadMagic, magic)
	}
	pf := b[ddsPixelFormatAt:]
	h := &DDSHeader{
		Size:              le.Uint32(b[4:]),
		Flags:             le.Uint32(b[8:]),
		Height:            le.Uint32(b[12:]),
		Width:             le.Uint32(b[16:]),
		PitchOrLinearSize: le.Uint32(b[20:]),
		Depth:             le.Uint32(b[24:]),
		MipMapCount:       le.Uint32(b[28:]),
		PixelFormat: DDSPixelFormat{
			Size:        le.Uint32(pf[0:]),
			Flags:       le.Uint32(pf[4:]),
			FourCC:      le.Uint32(pf[8:]),
			RGBBitCount: le.Uint32(pf[12:]),
			RBitMask:    le.Uint32(pf[16:]),
			GBitMask:    le.Uint32(pf[20:]),
			BBitMask:    le.Uint32(pf[24:]),
			ABitMask:    le.Uint32(pf[28:]),
		},
	}
	for i := range h.Caps {
		h.Caps[i] = le.Uint32(b[108+4*i:])
	}
	return h, nil
}

// DDSPixelFormatOf maps a FourCC onto an S3TC format and its block size.
func DDSPixelFormatOf(fourCC uint32) (metadata.PixelFormat, uint64, error) {
	switch fourCC {
	case FourCCDXT1:
		return metadata.PixelFormatDXT1, 8, nil
	case FourCCDXT3:
		return metadata.PixelFormatDXT3, 16, nil
	case FourCCDXT5:
		return metadata.PixelFormatDXT5, 16, nil
	}
	var cc [4]byte
	binary.LittleEndian.PutUint32(cc[:], fourCC)
	return metadata.PixelFormatUnknown, 0, fmt.Errorf("DDS FourCC %q: %w", cc[:], ErrUnknownPixelFormat)
}

// DDSLevelSize is ceil(w/4)*ceil(h/4)*blockSize with no minimum.
func DDSLevelSize(blockSize uint64) levelSizeFunc {
	return blockLevelSize(blockSize)
}

type DDSLoader struct{}

func (dl *DDSLoader) Load(name string, data []byte) (*metadata.Resource, error) {
	h, err := DecodeDDSHeader(data)
	if err != nil {
		return nil, decodeError(name, "dds", err)
	}
	format, blockSize, err := DDSPixelFormatOf(h.PixelFormat.FourCC)
	if err != nil {
		return nil, decodeError(name, "dds", err)
	}

	levels, err := walkMips(h.Width, h.Height, h.MipMapCount, DDSHeaderSize, len(data), DDSLevelSize(blockSize))
	if err != nil {
		return nil, decodeError(name, "dds", err)
	}

	desc := &metadata.TextureDescriptor{
		Name:       name,
		Format:     format,
		Levels:     levels,
		Compressed: true,
		Data:       data,
	}
	if err := desc.Validate(); err != nil {
		return nil, decodeError(name, "dds", err)
	}
	return resource(name, data, desc), nil
}

func (dl *DDSLoader) Unload(res *metadata.Resource) error {
	return unload(res)
}
