package loaders

import (
	"errors"
	"testing"

	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

func TestWalkMipsChaining(t *testing.T) {
	levels, err := walkMips(100, 3, 8, 10, 1<<20, blockLevelSize(8))
	if err != nil {
		t.Fatalf("walkMips() = %v", err)
	}
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if uint64(cur.Offset) != prev.End() {
			t.Errorf("level %d offset %d, want %d", i, cur.Offset, prev.End())
		}
		if cur.Width != max(1, prev.Width/2) || cur.Height != max(1, prev.Height/2) {
			t.Errorf("level %d is %dx%d after %dx%d", i, cur.Width, cur.Height, prev.Width, prev.Height)
		}
	}
	if levels[0].Offset != 10 {
		t.Errorf("first offset = %d, want 10", levels[0].Offset)
	}
}

func TestWalkMipsBoundary(t *testing.T) {
	// One 4x4 DXT1 level: 8 bytes after a 128 byte header.
	if _, err := walkMips(4, 4, 1, 128, 136, blockLevelSize(8)); err != nil {
		t.Errorf("walkMips() exact fit = %v, want nil", err)
	}
	if _, err := walkMips(4, 4, 1, 128, 135, blockLevelSize(8)); !errors.Is(err, metadata.ErrLevelOutOfData) {
		t.Errorf("walkMips() one byte short = %v, want ErrLevelOutOfData", err)
	}
	// A huge mip count stops at the end of the data.
	if _, err := walkMips(4, 4, 1<<31, 0, 64, blockLevelSize(8)); !errors.Is(err, metadata.ErrLevelOutOfData) {
		t.Errorf("walkMips() huge count = %v, want ErrLevelOutOfData", err)
	}
}

func TestWalkMipsRejectsBadLevels(t *testing.T) {
	testCases := []struct {
		name          string
		width, height uint32
		size          levelSizeFunc
		target        error
	}{
		{"width past GLsizei", 0xFFFFFFFE, 4, blockLevelSize(8), metadata.ErrDimensionTooLarge},
		{"height past GLsizei", 4, 1 << 31, blockLevelSize(8), metadata.ErrDimensionTooLarge},
		{"empty level", 4, 4, func(uint32, uint32) uint64 { return 0 }, metadata.ErrEmptyLevel},
	}
	for _, tc := range testCases {
		if _, err := walkMips(tc.width, tc.height, 1, 0, 1<<20, tc.size); !errors.Is(err, tc.target) {
			t.Errorf("tc=%q: walkMips() = %v, want %v", tc.name, err, tc.target)
		}
	}
}

func TestBlockLevelSizeWide(t *testing.T) {
	testCases := []struct {
		width, height uint32
		blockSize     uint64
		want          uint64
	}{
		{1, 1, 8, 8},
		{5, 4, 16, 32},
		{0xFFFFFFFD, 4, 8, 1 << 33},
		{0xFFFFFFFF, 0xFFFFFFFF, 16, (1 << 30) * (1 << 30) * 16},
	}
	for _, tc := range testCases {
		if got := blockLevelSize(tc.blockSize)(tc.width, tc.height); got != tc.want {
			t.Errorf("blockLevelSize(%d)(%d, %d) = %d, want %d", tc.blockSize, tc.width, tc.height, got, tc.want)
		}
	}
}

func TestPVRLevelSizeFloor(t *testing.T) {
	testCases := []struct {
		bpp           uint64
		width, height uint32
		want          uint64
	}{
		{4, 64, 64, 2048},
		{4, 8, 8, 32},
		{4, 4, 4, 32},
		{2, 16, 8, 32},
		{2, 32, 32, 256},
		{4, 1, 1, 32},
	}
	for _, tc := range testCases {
		if got := PVRLevelSize(tc.bpp)(tc.width, tc.height); got != tc.want {
			t.Errorf("PVRLevelSize(%d)(%d, %d) = %d, want %d", tc.bpp, tc.width, tc.height, got, tc.want)
		}
	}
}
