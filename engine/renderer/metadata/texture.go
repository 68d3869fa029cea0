package metadata

import (
	"errors"
	"fmt"
	"math"
)

const (
	/** @brief The name given to the in-code checkerboard texture. */
	DEFAULT_TEXTURE_NAME string = "default"
)

var (
	ErrNoLevels       = errors.New("texture descriptor has no mip levels")
	ErrLevelOutOfData = errors.New("mip level extends past the end of the asset")
	ErrLevelOverlap   = errors.New("mip levels overlap or are out of order")
	ErrZeroDimension  = errors.New("mip level has a zero dimension")
	ErrEmptyLevel     = errors.New("mip level has no bytes")

	// GL takes texture sizes as a signed 32 bit GLsizei.
	ErrDimensionTooLarge = errors.New("mip level dimension exceeds the GL size range")
)

/** @brief Opaque GPU texture object name. Owned by the GPU context. */
type TextureHandle uint32

/** @brief The zero handle never names a live texture. */
const InvalidTextureHandle TextureHandle = 0

func (h TextureHandle) IsValid() bool {
	return h != InvalidTextureHandle
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
	/** @brief Bilinear within the nearest mip level. */
	TextureFilterModeLinearMipmapNearest TextureFilter = 0x2
)

func (f TextureFilter) String() string {
	switch f {
	case TextureFilterModeNearest:
		return "nearest"
	case TextureFilterModeLinear:
		return "linear"
	case TextureFilterModeLinearMipmapNearest:
		return "linear_mipmap_nearest"
	}
	return fmt.Sprintf("TextureFilter(%d)", int(f))
}

// MipLevel locates one level of a mip chain inside TextureDescriptor.Data.
type MipLevel struct {
	Width  uint32
	Height uint32
	Offset uint32
	Size   uint32
}

// End returns the offset one past the last byte of the level.
func (l MipLevel) End() uint64 {
	return uint64(l.Offset) + uint64(l.Size)
}

// TextureDescriptor is the normalized result of decoding one asset. It is
// built by a loader, handed once to the uploader, and then dropped.
type TextureDescriptor struct {
	Name   string
	Format PixelFormat
	// Mip 0 first, in the same order as the bytes appear in Data.
	Levels     []MipLevel
	Compressed bool
	// Ask the GPU to build the rest of the chain after uploading level 0.
	GenerateMipmaps bool
	// The bytes the levels point into. For container formats this is the
	// whole asset; for decoded images it is the packed pixel rows.
	Data []byte
}

func (d *TextureDescriptor) Width() uint32 {
	if len(d.Levels) == 0 {
		return 0
	}
	return d.Levels[0].Width
}

func (d *TextureDescriptor) Height() uint32 {
	if len(d.Levels) == 0 {
		return 0
	}
	return d.Levels[0].Height
}

// Mipmapped reports whether sampling should use the mip chain.
func (d *TextureDescriptor) Mipmapped() bool {
	return len(d.Levels) > 1 || d.GenerateMipmaps
}

// LevelData returns the bytes of level i. Validate must have succeeded.
func (d *TextureDescriptor) LevelData(i int) []byte {
	l := d.Levels[i]
	return d.Data[l.Offset:l.End()]
}

// Validate checks the invariants every loader promises: a known format, at
// least one level, non-zero dimensions within the GL size range, non-empty
// levels, and strictly increasing non-overlapping levels that stay inside Data.
func (d *TextureDescriptor) Validate() error {
	if d.Format == PixelFormatUnknown {
		return fmt.Errorf("%s: %w", d.Name, ErrUnknownPixelFormat)
	}
	if len(d.Levels) == 0 {
		return fmt.Errorf("%s: %w", d.Name, ErrNoLevels)
	}
	var prevEnd uint64
	for i, l := range d.Levels {
		if l.Width == 0 || l.Height == 0 {
			return fmt.Errorf("%s: level %d: %w", d.Name, i, ErrZeroDimension)
		}
		if l.Width > math.MaxInt32 || l.Height > math.MaxInt32 {
			return fmt.Errorf("%s: level %d is %dx%d: %w", d.Name, i, l.Width, l.Height, ErrDimensionTooLarge)
		}
		if l.Size == 0 {
			return fmt.Errorf("%s: level %d: %w", d.Name, i, ErrEmptyLevel)
		}
		if i > 0 && uint64(l.Offset) < prevEnd {
			return fmt.Errorf("%s: level %d: %w", d.Name, i, ErrLevelOverlap)
		}
		if l.End() > uint64(len(d.Data)) {
			return fmt.Errorf("%s: level %d ends at %d, asset has %d bytes: %w",
				d.Name, i, l.End(), len(d.Data), ErrLevelOutOfData)
		}
		prevEnd = l.End()
	}
	return nil
}

// NewCheckerboard builds the in-code default texture: a dimension×dimension
// RGBA blue/white checkerboard. It is used when not even the fallback asset
// can be loaded.
func NewCheckerboard(dimension uint32) *TextureDescriptor {
	const channels = 4
	pixels := make([]uint8, dimension*dimension*channels)
	for i := range pixels {
		pixels[i] = 255
	}

	for row := uint32(0); row < dimension; row++ {
		for col := uint32(0); col < dimension; col++ {
			index := (row * dimension) + col
			indexBpp := index * channels
			if (row%2 != 0) == (col%2 != 0) {
				pixels[indexBpp+0] = 0
				pixels[indexBpp+1] = 0
			}
		}
	}

	return &TextureDescriptor{
		Name:            DEFAULT_TEXTURE_NAME,
		Format:          PixelFormatRGBA,
		Levels:          []MipLevel{{Width: dimension, Height: dimension, Offset: 0, Size: uint32(len(pixels))}},
		GenerateMipmaps: true,
		Data:            pixels,
	}
}
