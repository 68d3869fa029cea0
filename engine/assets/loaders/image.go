package loaders

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// PNG IHDR colour types.
const (
	pngGray      = 0
	pngTrueColor = 2
	pngPaletted  = 3
	pngGrayAlpha = 4
	pngRGBA      = 6
)

// ChannelFormat maps a channel count onto an uncompressed pixel format.
func ChannelFormat(channels int) (metadata.PixelFormat, error) {
	switch channels {
	case 1:
		return metadata.PixelFormatLuminance, nil
	case 2:
		return metadata.PixelFormatLuminanceAlpha, nil
	case 3:
		return metadata.PixelFormatRGB, nil
	case 4:
		return metadata.PixelFormatRGBA, nil
	}
	return metadata.PixelFormatUnknown, fmt.Errorf("%d channels: %w", channels, ErrUnsupportedChannels)
}

// PNGChannels reads the channel count a PNG stores from its IHDR colour type.
// Paletted images count as RGBA when a tRNS chunk precedes the image data.
func PNGChannels(data []byte) (int, error) {
	if len(data) < 33 || !bytes.Equal(data[:8], pngSignature) || string(data[12:16]) != "IHDR" {
		return 0, fmt.Errorf("%w: not a PNG", ErrBadMagic)
	}
	switch colourType := data[25]; colourType {
	case pngGray:
		return 1, nil
	case pngGrayAlpha:
		return 2, nil
	case pngTrueColor:
		return 3, nil
	case pngRGBA:
		return 4, nil
	case pngPaletted:
		if pngHasChunk(data, "tRNS") {
			return 4, nil
		}
		return 3, nil
	default:
		return 0, fmt.Errorf("PNG colour type %d: %w", colourType, ErrUnsupportedChannels)
	}
}

// pngHasChunk scans the chunks ahead of the first IDAT.
func pngHasChunk(data []byte, want string) bool {
	for off := 8; off+8 <= len(data); {
		length := int(binary.BigEndian.Uint32(data[off:]))
		kind := string(data[off+4 : off+8])
		switch kind {
		case want:
			return true
		case "IDAT", "IEND":
			return false
		}
		off += 12 + length
	}
	return false
}

// modelChannels guesses the channel count of a non-PNG image from its color
// model.
func modelChannels(img image.Image) int {
	switch m := img.ColorModel().(type) {
	case color.Palette:
		for _, c := range m {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return 4
			}
		}
		return 3
	default:
		switch m {
		case color.GrayModel, color.Gray16Model:
			return 1
		case color.YCbCrModel, color.CMYKModel:
			return 3
		}
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return 3
	}
	return 4
}

// packPixels converts img to tightly packed 8-bit rows with straight alpha.
func packPixels(img image.Image, channels int) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]byte, 0, w*h*channels)

	if src, ok := img.(*image.NRGBA); ok && channels == 4 {
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			pix = append(pix, src.Pix[i:i+w*4]...)
		}
		return pix
	}
	if src, ok := img.(*image.Gray); ok && channels == 1 {
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			pix = append(pix, src.Pix[i:i+w]...)
		}
		return pix
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			switch channels {
			case 1:
				pix = append(pix, luminance(c))
			case 2:
				pix = append(pix, luminance(c), c.A)
			case 3:
				pix = append(pix, c.R, c.G, c.B)
			default:
				pix = append(pix, c.R, c.G, c.B, c.A)
			}
		}
	}
	return pix
}

// luminance uses the same weights as color.GrayModel on straight color.
func luminance(c color.NRGBA) uint8 {
	y := (19595*uint32(c.R) + 38470*uint32(c.G) + 7471*uint32(c.B) + 1<<15) >> 16
	return uint8(y)
}

// ImageLoader decodes PNG, GIF, JPEG, BMP, TIFF and WebP into a single
// uncompressed level. The GPU builds the rest of the chain.
type ImageLoader struct{}

func (il *ImageLoader) Load(name string, data []byte) (*metadata.Resource, error) {
	img, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeError(name, "image", err)
	}

	var channels int
	if kind == "png" {
		if channels, err = PNGChannels(data); err != nil {
			return nil, decodeError(name, kind, err)
		}
	} else {
		channels = modelChannels(img)
	}
	format, err := ChannelFormat(channels)
	if err != nil {
		return nil, decodeError(name, kind, err)
	}

	pixels := packPixels(img, channels)
	b := img.Bounds()
	desc := &metadata.TextureDescriptor{
		Name:   name,
		Format: format,
		Levels: []metadata.MipLevel{{
			Width:  uint32(b.Dx()),
			Height: uint32(b.Dy()),
			Offset: 0,
			Size:   uint32(len(pixels)),
		}},
		GenerateMipmaps: true,
		Data:            pixels,
	}
	if err := desc.Validate(); err != nil {
		return nil, decodeError(name, kind, err)
	}
	return resource(name, data, desc), nil
}

func (il *ImageLoader) Unload(res *metadata.Resource) error {
	return unload(res)
}
