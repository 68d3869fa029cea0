package loaders

import (
	"encoding/binary"
	"fmt"

	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

const (
	PVRHeaderSize = 52
	PVRVersion    = 0x03525650

	// pvrMinLevelSize is two PVRTC blocks, the smallest level a driver
	// accepts for either bit rate.
	pvrMinLevelSize = 32
)

// PVRHeader is the PVR v3 file header. The pixel format is a 64-bit field at
// offset 8, so the header is decoded field by field.
type PVRHeader struct {
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
}

func DecodePVRHeader(b []byte) (*PVRHeader, error) {
	if len(b) < PVRHeaderSize {
		return nil, fmt.Errorf("%w: %d byte PVR header", ErrTruncated, len(b))
	}
	le := binary.LittleEndian
	h := &PVRHeader{
		Version:      le.Uint32(b[0:]),
		Flags:        le.Uint32(b[4:]),
		PixelFormat:  le.Uint64(b[8:]),
		ColourSpace:  le.Uint32(b[16:]),
		ChannelType:  le.Uint32(b[20:]),
		Height:       le.Uint32(b[24:]),
		Width:        le.Uint32(b[28:]),
		Depth:        le.Uint32(b[32:]),
		NumSurfaces:  le.Uint32(b[36:]),
		NumFaces:     le.Uint32(b[40:]),
		MipmapCount:  le.Uint32(b[44:]),
		MetaDataSize: le.Uint32(b[48:]),
	}
	if h.Version != PVRVersion {
		return nil, fmt.Errorf("%w: PVR version 0x%08X", ErrBadMagic, h.Version)
	}
	return h, nil
}

// PVRPixelFormat maps a PVR pixel format code onto a PVRTC format and its
// bit rate.
func PVRPixelFormat(code uint64) (metadata.PixelFormat, uint64, error) {
	switch code {
	case 0:
		return metadata.PixelFormatPVRTC2RGB, 2, nil
	case 1:
		return metadata.PixelFormatPVRTC2RGBA, 2, nil
	case 2:
		return metadata.PixelFormatPVRTC4RGB, 4, nil
	case 3:
		return metadata.PixelFormatPVRTC4RGBA, 4, nil
	}
	return metadata.PixelFormatUnknown, 0, fmt.Errorf("PVR pixel format %d: %w", code, ErrUnknownPixelFormat)
}

// PVRLevelSize is max(32, w*h*bpp/8).
func PVRLevelSize(bitsPerPixel uint64) levelSizeFunc {
	return func(width, height uint32) uint64 {
		return max(pvrMinLevelSize, (uint64(width)*uint64(height)*bitsPerPixel)>>3)
	}
}

type PVRLoader struct{}

func (pl *PVRLoader) Load(name string, data []byte) (*metadata.Resource, error) {
	h, err := DecodePVRHeader(data)
	if err != nil {
		return nil, decodeError(name, "pvr", err)
	}
	format, bpp, err := PVRPixelFormat(h.PixelFormat)
	if err != nil {
		return nil, decodeError(name, "pvr", err)
	}

	offset := uint64(PVRHeaderSize) + uint64(h.MetaDataSize)
	levels, err := walkMips(h.Width, h.Height, h.MipmapCount, offset, len(data), PVRLevelSize(bpp))
	if err != nil {
		return nil, decodeError(name, "pvr", err)
	}

	desc := &metadata.TextureDescriptor{
		Name:       name,
		Format:     format,
		Levels:     levels,
		Compressed: true,
		Data:       data,
	}
	if err := desc.Validate(); err != nil {
		return nil, decodeError(name, "pvr", err)
	}
	return resource(name, data, desc), nil
}

func (pl *PVRLoader) Unload(res *metadata.Resource) error {
	return unload(res)
}
