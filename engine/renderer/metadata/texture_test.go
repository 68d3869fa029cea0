package metadata

import (
	"errors"
	"testing"
)

func TestTextureDescriptorValidate(t *testing.T) {
	data := make([]byte, 100)
	testCases := []struct {
		name   string
		desc   TextureDescriptor
		target error
	}{
		{
			name: "ok",
			desc: TextureDescriptor{Format: PixelFormatRGB, Data: data, Levels: []MipLevel{
				{Width: 4, Height: 4, Offset: 0, Size: 48},
				{Width: 2, Height: 2, Offset: 48, Size: 12},
			}},
		},
		{
			name:   "unknown format",
			desc:   TextureDescriptor{Data: data, Levels: []MipLevel{{Width: 1, Height: 1, Size: 1}}},
			target: ErrUnknownPixelFormat,
		},
		{
			name:   "no levels",
			desc:   TextureDescriptor{Format: PixelFormatRGBA, Data: data},
			target: ErrNoLevels,
		},
		{
			name:   "zero width",
			desc:   TextureDescriptor{Format: PixelFormatRGBA, Data: data, Levels: []MipLevel{{Width: 0, Height: 1, Size: 1}}},
			target: ErrZeroDimension,
		},
		{
			name:   "empty level",
			desc:   TextureDescriptor{Format: PixelFormatDXT1, Data: data, Levels: []MipLevel{{Width: 4, Height: 4, Offset: 8, Size: 0}}},
			target: ErrEmptyLevel,
		},
		{
			name:   "width past GLsizei",
			desc:   TextureDescriptor{Format: PixelFormatDXT1, Data: data, Levels: []MipLevel{{Width: 0xFFFFFFFE, Height: 4, Size: 8}}},
			target: ErrDimensionTooLarge,
		},
		{
			name: "overlap",
			desc: TextureDescriptor{Format: PixelFormatDXT1, Data: data, Levels: []MipLevel{
				{Width: 4, Height: 4, Offset: 0, Size: 8},
				{Width: 2, Height: 2, Offset: 4, Size: 8},
			}},
			target: ErrLevelOverlap,
		},
		{
			name:   "past end",
			desc:   TextureDescriptor{Format: PixelFormatDXT1, Data: data, Levels: []MipLevel{{Width: 40, Height: 4, Offset: 96, Size: 8}}},
			target: ErrLevelOutOfData,
		},
	}
	for _, tc := range testCases {
		err := tc.desc.Validate()
		if tc.target == nil {
			if err != nil {
				t.Errorf("tc=%q: Validate() = %v, want nil", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, tc.target) {
			t.Errorf("tc=%q: Validate() = %v, want %v", tc.name, err, tc.target)
		}
	}
}

func TestLevelData(t *testing.T) {
	desc := TextureDescriptor{
		Format: PixelFormatLuminance,
		Data:   []byte{0, 1, 2, 3, 4},
		Levels: []MipLevel{{Width: 2, Height: 2, Offset: 0, Size: 4}, {Width: 1, Height: 1, Offset: 4, Size: 1}},
	}
	if got := desc.LevelData(1); len(got) != 1 || got[0] != 4 {
		t.Errorf("LevelData(1) = %v, want [4]", got)
	}
	if !desc.Mipmapped() {
		t.Error("Mipmapped() = false, want true for two levels")
	}
	if desc.Width() != 2 || desc.Height() != 2 {
		t.Errorf("size = %dx%d, want 2x2", desc.Width(), desc.Height())
	}
}

func TestCheckerboard(t *testing.T) {
	d := NewCheckerboard(4)
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if d.Format != PixelFormatRGBA || !d.GenerateMipmaps {
		t.Errorf("checkerboard = %v generate=%v, want rgba generate=true", d.Format, d.GenerateMipmaps)
	}
	// (0,0) is blue, (1,0) is white.
	if got := d.Data[0:4]; got[0] != 0 || got[2] != 255 {
		t.Errorf("pixel(0,0) = %v, want blue", got)
	}
	if got := d.Data[4:8]; got[0] != 255 || got[1] != 255 {
		t.Errorf("pixel(1,0) = %v, want white", got)
	}
}

func TestPixelFormatGLInternalFormat(t *testing.T) {
	for f := PixelFormatLuminance; f <= PixelFormatDXT5; f++ {
		if f.GLInternalFormat() == 0 {
			t.Errorf("%v.GLInternalFormat() = 0", f)
		}
		if f.IsCompressed() == (f.BytesPerPixel() != 0) {
			t.Errorf("%v: IsCompressed() = %v, BytesPerPixel() = %d", f, f.IsCompressed(), f.BytesPerPixel())
		}
	}
	if PixelFormatUnknown.GLInternalFormat() != 0 {
		t.Error("PixelFormatUnknown.GLInternalFormat() != 0")
	}
}

func TestCapabilityAttempt(t *testing.T) {
	testCases := map[Capability]bool{
		CapabilitySupported:   true,
		CapabilityUnsupported: false,
		CapabilityUnavailable: true,
	}
	for c, want := range testCases {
		if got := c.Attempt(); got != want {
			t.Errorf("%v.Attempt() = %v, want %v", c, got, want)
		}
	}
}
