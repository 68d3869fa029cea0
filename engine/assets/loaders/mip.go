package loaders

import (
	"fmt"
	"math"

	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

// levelSizeFunc returns the byte size of one level for the given dimensions.
type levelSizeFunc func(width, height uint32) uint64

// walkMips lays out count levels back to back starting at offset, halving
// each dimension with a floor of 1 between levels. A count of 0 still yields
// the base level. Every level must be non-empty and end within dataLen.
func walkMips(width, height, count uint32, offset uint64, dataLen int, size levelSizeFunc) ([]metadata.MipLevel, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, metadata.ErrZeroDimension)
	}
	// GL takes sizes as GLsizei.
	if width > math.MaxInt32 || height > math.MaxInt32 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, metadata.ErrDimensionTooLarge)
	}
	if count == 0 {
		count = 1
	}

	levels := make([]metadata.MipLevel, 0, min(count, 32))
	for mip := uint32(0); mip < count; mip++ {
		n := size(width, height)
		if n == 0 {
			return nil, fmt.Errorf("level %d (%dx%d): %w", mip, width, height, metadata.ErrEmptyLevel)
		}
		end := offset + n
		if end > uint64(dataLen) || end > math.MaxUint32 {
			return nil, fmt.Errorf("level %d (%dx%d) needs bytes [%d, %d), asset has %d: %w",
				mip, width, height, offset, end, dataLen, metadata.ErrLevelOutOfData)
		}
		levels = append(levels, metadata.MipLevel{
			Width:  width,
			Height: height,
			Offset: uint32(offset),
			Size:   uint32(n),
		})
		width = max(1, width>>1)
		height = max(1, height>>1)
		offset = end
	}
	return levels, nil
}

// blockLevelSize is the size law of 4x4 block formats: ETC and S3TC.
func blockLevelSize(blockSize uint64) levelSizeFunc {
	return func(width, height uint32) uint64 {
		return ((uint64(width) + 3) >> 2) * ((uint64(height) + 3) >> 2) * blockSize
	}
}
