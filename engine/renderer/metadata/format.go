package metadata

import (
	"errors"
	"fmt"
)

var ErrUnknownPixelFormat = errors.New("unknown pixel format")

// PixelFormat tags the layout of the bytes handed to the GPU.
type PixelFormat int

const (
	PixelFormatUnknown PixelFormat = iota
	PixelFormatLuminance
	PixelFormatLuminanceAlpha
	PixelFormatRGB
	PixelFormatRGBA
	PixelFormatETC1
	PixelFormatETC2RGB
	PixelFormatETC2RGBA
	PixelFormatPVRTC2RGB
	PixelFormatPVRTC2RGBA
	PixelFormatPVRTC4RGB
	PixelFormatPVRTC4RGBA
	PixelFormatDXT1
	PixelFormatDXT3
	PixelFormatDXT5
)

// OpenGL enums for the formats above. The compressed ones come from
// OES_compressed_ETC1_RGB8_texture, GLES 3.0 (ETC2),
// IMG_texture_compression_pvrtc and EXT_texture_compression_s3tc.
const (
	GL_LUMINANCE       uint32 = 0x1909
	GL_LUMINANCE_ALPHA uint32 = 0x190A
	GL_RGB             uint32 = 0x1907
	GL_RGBA            uint32 = 0x1908
	GL_UNSIGNED_BYTE   uint32 = 0x1401

	GL_ETC1_RGB8_OES                uint32 = 0x8D64
	GL_COMPRESSED_RGB8_ETC2         uint32 = 0x9274
	GL_COMPRESSED_RGBA8_ETC2_EAC    uint32 = 0x9278
	GL_COMPRESSED_RGB_PVRTC_4BPPV1  uint32 = 0x8C00
	GL_COMPRESSED_RGB_PVRTC_2BPPV1  uint32 = 0x8C01
	GL_COMPRESSED_RGBA_PVRTC_4BPPV1 uint32 = 0x8C02
	GL_COMPRESSED_RGBA_PVRTC_2BPPV1 uint32 = 0x8C03
	GL_COMPRESSED_RGBA_S3TC_DXT1    uint32 = 0x83F1
	GL_COMPRESSED_RGBA_S3TC_DXT3    uint32 = 0x83F2
	GL_COMPRESSED_RGBA_S3TC_DXT5    uint32 = 0x83F3
)

var pixelFormatNames = [...]string{
	PixelFormatUnknown:        "unknown",
	PixelFormatLuminance:      "luminance",
	PixelFormatLuminanceAlpha: "luminance_alpha",
	PixelFormatRGB:            "rgb",
	PixelFormatRGBA:           "rgba",
	PixelFormatETC1:           "etc1",
	PixelFormatETC2RGB:        "etc2_rgb",
	PixelFormatETC2RGBA:       "etc2_rgba",
	PixelFormatPVRTC2RGB:      "pvrtc_2bpp_rgb",
	PixelFormatPVRTC2RGBA:     "pvrtc_2bpp_rgba",
	PixelFormatPVRTC4RGB:      "pvrtc_4bpp_rgb",
	PixelFormatPVRTC4RGBA:     "pvrtc_4bpp_rgba",
	PixelFormatDXT1:           "dxt1",
	PixelFormatDXT3:           "dxt3",
	PixelFormatDXT5:           "dxt5",
}

func (f PixelFormat) String() string {
	if f >= 0 && int(f) < len(pixelFormatNames) {
		return pixelFormatNames[f]
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

func (f PixelFormat) IsCompressed() bool {
	return f >= PixelFormatETC1 && f <= PixelFormatDXT5
}

// BytesPerPixel returns the channel count of an uncompressed format, or 0.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatLuminance:
		return 1
	case PixelFormatLuminanceAlpha:
		return 2
	case PixelFormatRGB:
		return 3
	case PixelFormatRGBA:
		return 4
	}
	return 0
}

// GLInternalFormat returns the enum passed as internalformat to
// glTexImage2D or glCompressedTexImage2D, or 0 for PixelFormatUnknown.
func (f PixelFormat) GLInternalFormat() uint32 {
	switch f {
	case PixelFormatLuminance:
		return GL_LUMINANCE
	case PixelFormatLuminanceAlpha:
		return GL_LUMINANCE_ALPHA
	case PixelFormatRGB:
		return GL_RGB
	case PixelFormatRGBA:
		return GL_RGBA
	case PixelFormatETC1:
		return GL_ETC1_RGB8_OES
	case PixelFormatETC2RGB:
		return GL_COMPRESSED_RGB8_ETC2
	case PixelFormatETC2RGBA:
		return GL_COMPRESSED_RGBA8_ETC2_EAC
	case PixelFormatPVRTC2RGB:
		return GL_COMPRESSED_RGB_PVRTC_2BPPV1
	case PixelFormatPVRTC2RGBA:
		return GL_COMPRESSED_RGBA_PVRTC_2BPPV1
	case PixelFormatPVRTC4RGB:
		return GL_COMPRESSED_RGB_PVRTC_4BPPV1
	case PixelFormatPVRTC4RGBA:
		return GL_COMPRESSED_RGBA_PVRTC_4BPPV1
	case PixelFormatDXT1:
		return GL_COMPRESSED_RGBA_S3TC_DXT1
	case PixelFormatDXT3:
		return GL_COMPRESSED_RGBA_S3TC_DXT3
	case PixelFormatDXT5:
		return GL_COMPRESSED_RGBA_S3TC_DXT5
	}
	return 0
}
