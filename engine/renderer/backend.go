package renderer

import "github.com/spaghettifunk/texloader/engine/renderer/metadata"

// RendererBackend is the slice of a GPU API the texture pipeline talks to.
// Every method must be called on the thread that owns the context.
type RendererBackend interface {
	Initialize(appWidth, appHeight uint32) error
	Shutdown() error
	Resized(width, height uint32) error
	BeginFrame() error
	DrawQuad(texture metadata.TextureHandle, quad Quad) error
	EndFrame() error

	// CompressedTextureFormats lists the internal formats the driver reports
	// through GL_COMPRESSED_TEXTURE_FORMATS.
	CompressedTextureFormats() []uint32
	// Extensions returns the driver extension string. ok is false when the
	// driver gives no report.
	Extensions() (extensions string, ok bool)

	TextureCreate() metadata.TextureHandle
	TextureBind(texture metadata.TextureHandle)
	TextureSetFilter(mag, min metadata.TextureFilter)
	SetUnpackAlignment(alignment int32)
	TextureImage2D(level int32, format uint32, width, height uint32, pixels []byte)
	TextureCompressedImage2D(level int32, format uint32, width, height uint32, data []byte)
	TextureGenerateMipmap()
	TextureDestroy(texture metadata.TextureHandle)
	// GetError pops the oldest pending error flag, 0 when there is none.
	GetError() uint32
}
