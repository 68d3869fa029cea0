package loaders

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
	"github.com/spaghettifunk/texloader/testbed"
)

func TestDDSScenario(t *testing.T) {
	data := testbed.EncodeDDS(testbed.DDSFile{FourCC: testbed.FourCCDXT1, Width: 10, Height: 10, MipMapCount: 1, Payload: make([]byte, 72)})
	desc := loadDescriptor(t, &DDSLoader{}, "tex_s3tc.dds", data)

	want := metadata.MipLevel{Width: 10, Height: 10, Offset: DDSHeaderSize, Size: 72}
	if len(desc.Levels) != 1 || desc.Levels[0] != want {
		t.Errorf("levels = %+v, want [%+v]", desc.Levels, want)
	}
	if desc.Format != metadata.PixelFormatDXT1 {
		t.Errorf("format = %v, want dxt1", desc.Format)
	}
}

func TestDDSLevelLaw(t *testing.T) {
	testCases := []struct {
		fourCC    uint32
		format    metadata.PixelFormat
		blockSize uint32
		width     uint32
		height    uint32
		count     uint32
	}{
		{testbed.FourCCDXT1, metadata.PixelFormatDXT1, 8, 64, 64, 7},
		{testbed.FourCCDXT3, metadata.PixelFormatDXT3, 16, 30, 18, 5},
		{testbed.FourCCDXT5, metadata.PixelFormatDXT5, 16, 256, 8, 9},
		{testbed.FourCCDXT1, metadata.PixelFormatDXT1, 8, 1, 1, 1},
	}
	for _, tc := range testCases {
		data := testbed.EncodeDDS(testbed.DDSFile{
			FourCC: tc.fourCC, Width: tc.width, Height: tc.height, MipMapCount: tc.count,
			Payload: make([]byte, testbed.S3TCChainSize(tc.width, tc.height, tc.count, tc.fourCC)),
		})
		desc := loadDescriptor(t, &DDSLoader{}, "law.dds", data)
		if desc.Format != tc.format {
			t.Errorf("%v: format = %v", tc.format, desc.Format)
		}
		if uint32(len(desc.Levels)) != tc.count {
			t.Errorf("%v: %d levels, want %d", tc.format, len(desc.Levels), tc.count)
			continue
		}
		w, h := tc.width, tc.height
		offset := uint32(DDSHeaderSize)
		for i, l := range desc.Levels {
			// No minimum: a 1x1 DXT1 level is a single 8 byte block.
			wantSize := ((w + 3) / 4) * ((h + 3) / 4) * tc.blockSize
			if l.Width != w || l.Height != h || l.Size != wantSize || l.Offset != offset {
				t.Errorf("%v level %d = %+v, want %dx%d size %d at %d", tc.format, i, l, w, h, wantSize, offset)
			}
			offset += l.Size
			w, h = max(1, w/2), max(1, h/2)
		}
		if last := desc.Levels[len(desc.Levels)-1]; last.End() != uint64(len(data)) {
			t.Errorf("%v: last level ends at %d, asset has %d bytes", tc.format, last.End(), len(data))
		}
	}
}

func TestDDSErrors(t *testing.T) {
	good := testbed.EncodeDDS(testbed.DDSFile{FourCC: testbed.FourCCDXT5, Width: 4, Height: 4, MipMapCount: 1, Payload: make([]byte, 16)})
	badMagic := append([]byte(nil), good...)
	copy(badMagic, "PNG!")

	testCases := []struct {
		name   string
		data   []byte
		target error
	}{
		{"short header", good[:100], ErrTruncated},
		{"bad magic", badMagic, ErrBadMagic},
		{"dx10", testbed.EncodeDDS(testbed.DDSFile{FourCC: 0x30315844, Width: 4, Height: 4, MipMapCount: 1, Payload: make([]byte, 16)}), ErrUnknownPixelFormat},
		{"boundary", good[:len(good)-1], metadata.ErrLevelOutOfData},
		{"header only", good[:DDSHeaderSize], metadata.ErrLevelOutOfData},
		{"huge width", testbed.EncodeDDS(testbed.DDSFile{FourCC: testbed.FourCCDXT1, Width: 0xFFFFFFFE, Height: 4, MipMapCount: 1}), metadata.ErrDimensionTooLarge},
		{"widest GLsizei", testbed.EncodeDDS(testbed.DDSFile{FourCC: testbed.FourCCDXT1, Width: 0x7FFFFFFF, Height: 4, MipMapCount: 1, Payload: make([]byte, 8)}), metadata.ErrLevelOutOfData},
	}
	for _, tc := range testCases {
		if _, err := (&DDSLoader{}).Load(tc.name, tc.data); !errors.Is(err, tc.target) {
			t.Errorf("tc=%q: Load() = %v, want %v", tc.name, err, tc.target)
		}
	}
}

func TestDecodeDDSHeader(t *testing.T) {
	data := testbed.EncodeDDS(testbed.DDSFile{FourCC: testbed.FourCCDXT3, Width: 32, Height: 16, MipMapCount: 6})
	h, err := DecodeDDSHeader(data)
	if err != nil {
		t.Fatalf("DecodeDDSHeader() = %v", err)
	}
	if h.Size != 124 || h.PixelFormat.Size != 32 || h.PixelFormat.FourCC != FourCCDXT3 {
		t.Errorf("header = %+v", h)
	}
	if h.Width != 32 || h.Height != 16 || h.MipMapCount != 6 {
		t.Errorf("size = %dx%d mips %d, want 32x16 mips 6", h.Width, h.Height, h.MipMapCount)
	}
	if h.PitchOrLinearSize != 8*4*16 {
		t.Errorf("PitchOrLinearSize = %d, want %d", h.PitchOrLinearSize, 8*4*16)
	}
}
