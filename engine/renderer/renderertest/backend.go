// Package renderertest provides a RendererBackend that records calls instead
// of talking to a GPU.
package renderertest

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/texloader/engine/renderer"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

var _ renderer.RendererBackend = (*Backend)(nil)

// Upload is one recorded TextureImage2D or TextureCompressedImage2D call.
type Upload struct {
	Texture    metadata.TextureHandle
	Level      int32
	Format     uint32
	Width      uint32
	Height     uint32
	Size       int
	Compressed bool
}

type Backend struct {
	// Formats is returned by CompressedTextureFormats.
	Formats []uint32
	// ExtensionString is returned by Extensions when HasExtensions is set.
	ExtensionString string
	HasExtensions   bool
	// Errors is drained, front first, by GetError.
	Errors []uint32

	Calls     []string
	Uploads   []Upload
	Filters   map[metadata.TextureHandle][2]metadata.TextureFilter
	Mipmapped map[metadata.TextureHandle]bool
	Destroyed []metadata.TextureHandle
	Draws     []renderer.DrawCommand
	Alignment int32

	InitErr error

	next  metadata.TextureHandle
	bound metadata.TextureHandle
}

func New() *Backend {
	return &Backend{
		Filters:   make(map[metadata.TextureHandle][2]metadata.TextureFilter),
		Mipmapped: make(map[metadata.TextureHandle]bool),
		Alignment: 4,
	}
}

func (b *Backend) record(format string, args ...interface{}) {
	b.Calls = append(b.Calls, fmt.Sprintf(format, args...))
}

// CallNames returns the recorded calls without their arguments.
func (b *Backend) CallNames() []string {
	names := make([]string, len(b.Calls))
	for i, c := range b.Calls {
		names[i], _, _ = strings.Cut(c, "(")
	}
	return names
}

func (b *Backend) Initialize(appWidth, appHeight uint32) error {
	b.record("Initialize(%d, %d)", appWidth, appHeight)
	return b.InitErr
}

func (b *Backend) Shutdown() error {
	b.record("Shutdown()")
	return nil
}

func (b *Backend) Resized(width, height uint32) error {
	b.record("Resized(%d, %d)", width, height)
	return nil
}

func (b *Backend) BeginFrame() error {
	b.record("BeginFrame()")
	return nil
}

func (b *Backend) DrawQuad(texture metadata.TextureHandle, quad renderer.Quad) error {
	b.record("DrawQuad(%d)", texture)
	b.Draws = append(b.Draws, renderer.DrawCommand{Texture: texture, Quad: quad})
	return nil
}

func (b *Backend) EndFrame() error {
	b.record("EndFrame()")
	return nil
}

func (b *Backend) CompressedTextureFormats() []uint32 {
	b.record("CompressedTextureFormats()")
	return b.Formats
}

func (b *Backend) Extensions() (string, bool) {
	b.record("Extensions()")
	return b.ExtensionString, b.HasExtensions
}

func (b *Backend) TextureCreate() metadata.TextureHandle {
	b.next++
	b.record("TextureCreate() = %d", b.next)
	return b.next
}

func (b *Backend) TextureBind(texture metadata.TextureHandle) {
	b.record("TextureBind(%d)", texture)
	b.bound = texture
}

func (b *Backend) TextureSetFilter(mag, min metadata.TextureFilter) {
	b.record("TextureSetFilter(%s, %s)", mag, min)
	b.Filters[b.bound] = [2]metadata.TextureFilter{mag, min}
}

func (b *Backend) SetUnpackAlignment(alignment int32) {
	b.record("SetUnpackAlignment(%d)", alignment)
	b.Alignment = alignment
}

func (b *Backend) TextureImage2D(level int32, format uint32, width, height uint32, pixels []byte) {
	b.record("TextureImage2D(%d, 0x%X, %d, %d)", level, format, width, height)
	b.Uploads = append(b.Uploads, Upload{
		Texture: b.bound, Level: level, Format: format, Width: width, Height: height, Size: len(pixels),
	})
}

func (b *Backend) TextureCompressedImage2D(level int32, format uint32, width, height uint32, data []byte) {
	b.record("TextureCompressedImage2D(%d, 0x%X, %d, %d)", level, format, width, height)
	b.Uploads = append(b.Uploads, Upload{
		Texture: b.bound, Level: level, Format: format, Width: width, Height: height, Size: len(data), Compressed: true,
	})
}

func (b *Backend) TextureGenerateMipmap() {
	b.record("TextureGenerateMipmap()")
	b.Mipmapped[b.bound] = true
}

func (b *Backend) TextureDestroy(texture metadata.TextureHandle) {
	b.record("TextureDestroy(%d)", texture)
	b.Destroyed = append(b.Destroyed, texture)
}

func (b *Backend) GetError() uint32 {
	if len(b.Errors) == 0 {
		return 0
	}
	e := b.Errors[0]
	b.Errors = b.Errors[1:]
	return e
}

// UploadsFor returns the uploads recorded while texture was bound.
func (b *Backend) UploadsFor(texture metadata.TextureHandle) []Upload {
	var out []Upload
	for _, u := range b.Uploads {
		if u.Texture == texture {
			out = append(out, u)
		}
	}
	return out
}
