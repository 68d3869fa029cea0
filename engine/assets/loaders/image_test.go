package loaders

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
	"github.com/spaghettifunk/texloader/testbed"
	"golang.org/x/image/bmp"
)

func TestChannelFormat(t *testing.T) {
	want := map[int]metadata.PixelFormat{
		1: metadata.PixelFormatLuminance,
		2: metadata.PixelFormatLuminanceAlpha,
		3: metadata.PixelFormatRGB,
		4: metadata.PixelFormatRGBA,
	}
	for n := -1; n <= 6; n++ {
		got, err := ChannelFormat(n)
		if f, ok := want[n]; ok {
			if err != nil || got != f {
				t.Errorf("ChannelFormat(%d) = %v, %v, want %v", n, got, err, f)
			}
			continue
		}
		if !errors.Is(err, ErrUnsupportedChannels) || got != metadata.PixelFormatUnknown {
			t.Errorf("ChannelFormat(%d) = %v, %v, want ErrUnsupportedChannels", n, got, err)
		}
	}
}

func TestImageLoaderPNG(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	gray.Pix = []byte{0, 64, 128, 192, 255, 7}

	paletted := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	translucent := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Transparent, color.White})

	translucentGray := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	translucentGray.SetNRGBA(0, 0, color.NRGBA{90, 90, 90, 128})

	testCases := []struct {
		name   string
		img    image.Image
		format metadata.PixelFormat
		size   uint32
	}{
		{"gray", gray, metadata.PixelFormatLuminance, 6},
		{"rgba", testbed.Checker(4, 2, color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 128}), metadata.PixelFormatRGBA, 64},
		{"opaque rgba", testbed.Checker(4, 2, color.NRGBA{255, 0, 0, 255}, color.NRGBA{0, 0, 255, 255}), metadata.PixelFormatRGB, 48},
		{"paletted", paletted, metadata.PixelFormatRGB, 12},
		{"paletted trns", translucent, metadata.PixelFormatRGBA, 16},
		{"translucent gray", translucentGray, metadata.PixelFormatRGBA, 4},
	}
	for _, tc := range testCases {
		desc := loadDescriptor(t, &ImageLoader{}, tc.name+".png", testbed.EncodePNG(tc.img))
		if desc.Format != tc.format {
			t.Errorf("tc=%q: format = %v, want %v", tc.name, desc.Format, tc.format)
		}
		if len(desc.Levels) != 1 || desc.Levels[0].Size != tc.size || uint32(len(desc.Data)) != tc.size {
			t.Errorf("tc=%q: levels = %+v data = %d bytes, want one level of %d", tc.name, desc.Levels, len(desc.Data), tc.size)
		}
		if desc.Compressed || !desc.GenerateMipmaps {
			t.Errorf("tc=%q: compressed = %v generate = %v, want false, true", tc.name, desc.Compressed, desc.GenerateMipmaps)
		}
	}
}

func TestImageLoaderPixels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 2))
	gray.Pix = []byte{0, 64, 128, 192, 255, 7}
	desc := loadDescriptor(t, &ImageLoader{}, "gray.png", testbed.EncodePNG(gray))
	if !bytes.Equal(desc.Data, gray.Pix) {
		t.Errorf("Data = %v, want %v", desc.Data, gray.Pix)
	}

	rgba := testbed.Checker(2, 1, color.NRGBA{1, 2, 3, 4}, color.NRGBA{5, 6, 7, 8})
	desc = loadDescriptor(t, &ImageLoader{}, "rgba.png", testbed.EncodePNG(rgba))
	if !bytes.Equal(desc.Data, rgba.Pix) {
		t.Errorf("Data = %v, want %v", desc.Data, rgba.Pix)
	}
}

func TestImageLoaderOtherFormats(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 3))
	for i := range img.Pix {
		img.Pix[i] = 200
		if i%4 == 3 {
			img.Pix[i] = 255
		}
	}

	var bmpBuf, jpegBuf bytes.Buffer
	if err := bmp.Encode(&bmpBuf, img); err != nil {
		t.Fatalf("bmp.Encode() = %v", err)
	}
	if err := jpeg.Encode(&jpegBuf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode() = %v", err)
	}

	for name, data := range map[string][]byte{"tex.bmp": bmpBuf.Bytes(), "tex.jpg": jpegBuf.Bytes()} {
		desc := loadDescriptor(t, &ImageLoader{}, name, data)
		if desc.Format != metadata.PixelFormatRGB || desc.Width() != 5 || desc.Height() != 3 {
			t.Errorf("%s: %v %dx%d, want rgb 5x3", name, desc.Format, desc.Width(), desc.Height())
		}
	}
}

func TestImageLoaderErrors(t *testing.T) {
	_, err := (&ImageLoader{}).Load("garbage.png", []byte("definitely not an image"))
	var de *DecodeError
	if !errors.As(err, &de) || de.Asset != "garbage.png" {
		t.Errorf("Load() = %v, want DecodeError for garbage.png", err)
	}

	if _, err := PNGChannels([]byte("short")); !errors.Is(err, ErrBadMagic) {
		t.Errorf("PNGChannels() = %v, want ErrBadMagic", err)
	}
}
