// Package opengl implements renderer.RendererBackend on OpenGL ES through
// go-gl. A context must be current on the calling thread before Initialize.
package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v3.1/gles2"
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

var _ renderer.RendererBackend = (*OpenGLRenderer)(nil)

const vertexStride = int32(unsafe.Sizeof(renderer.Vertex{}))

type OpenGLRenderer struct {
	program        uint32
	positionAttrib uint32
	texCoordAttrib uint32
	samplerUniform int32
	vertexBuffer   uint32

	framebufferWidth  uint32
	framebufferHeight uint32
}

func New() *OpenGLRenderer {
	return &OpenGLRenderer{}
}

func (r *OpenGLRenderer) Initialize(appWidth, appHeight uint32) error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize gl: %w", err)
	}
	core.LogInfo("OpenGL version %s, renderer %s", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	program, err := createProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return err
	}
	r.program = program

	r.positionAttrib = uint32(gl.GetAttribLocation(program, gl.Str("aPosition\x00")))
	checkError("glGetAttribLocation")
	r.texCoordAttrib = uint32(gl.GetAttribLocation(program, gl.Str("aTexCoord\x00")))
	checkError("glGetAttribLocation")
	r.samplerUniform = gl.GetUniformLocation(program, gl.Str("sTexture\x00"))
	checkError("glGetUniformLocation")

	gl.GenBuffers(1, &r.vertexBuffer)
	checkError("glGenBuffers")

	return r.Resized(appWidth, appHeight)
}

func (r *OpenGLRenderer) Shutdown() error {
	if r.vertexBuffer != 0 {
		gl.DeleteBuffers(1, &r.vertexBuffer)
		r.vertexBuffer = 0
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
	return nil
}

func (r *OpenGLRenderer) Resized(width, height uint32) error {
	r.framebufferWidth = width
	r.framebufferHeight = height
	gl.Viewport(0, 0, int32(width), int32(height))
	checkError("glViewport")
	return nil
}

func (r *OpenGLRenderer) BeginFrame() error {
	gl.ClearColor(0.8, 0.7, 0.6, 1.0)
	checkError("glClearColor")
	gl.Clear(gl.DEPTH_BUFFER_BIT | gl.COLOR_BUFFER_BIT)
	checkError("glClear")

	gl.UseProgram(r.program)
	checkError("glUseProgram")
	gl.EnableVertexAttribArray(r.positionAttrib)
	gl.EnableVertexAttribArray(r.texCoordAttrib)
	checkError("glEnableVertexAttribArray")

	gl.ActiveTexture(gl.TEXTURE0)
	gl.Uniform1i(r.samplerUniform, 0)
	return nil
}

func (r *OpenGLRenderer) DrawQuad(texture metadata.TextureHandle, quad renderer.Quad) error {
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vertexBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, int(vertexStride)*len(quad), unsafe.Pointer(&quad[0]), gl.STREAM_DRAW)
	checkError("glBufferData")

	gl.VertexAttribPointer(r.positionAttrib, 2, gl.FLOAT, false, vertexStride, gl.PtrOffset(0))
	gl.VertexAttribPointer(r.texCoordAttrib, 2, gl.FLOAT, false, vertexStride, gl.PtrOffset(8))
	checkError("glVertexAttribPointer")

	gl.BindTexture(gl.TEXTURE_2D, uint32(texture))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quad)))
	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("glDrawArrays returned glError 0x%x", e)
	}
	return nil
}

func (r *OpenGLRenderer) EndFrame() error {
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (r *OpenGLRenderer) CompressedTextureFormats() []uint32 {
	var count int32
	gl.GetIntegerv(gl.NUM_COMPRESSED_TEXTURE_FORMATS, &count)
	if count <= 0 {
		return nil
	}
	formats := make([]int32, count)
	gl.GetIntegerv(gl.COMPRESSED_TEXTURE_FORMATS, &formats[0])

	out := make([]uint32, count)
	for i, f := range formats {
		out[i] = uint32(f)
	}
	return out
}

func (r *OpenGLRenderer) Extensions() (string, bool) {
	ext := gl.GetString(gl.EXTENSIONS)
	if ext == nil {
		return "", false
	}
	return gl.GoStr(ext), true
}

func (r *OpenGLRenderer) TextureCreate() metadata.TextureHandle {
	var id uint32
	gl.GenTextures(1, &id)
	return metadata.TextureHandle(id)
}

func (r *OpenGLRenderer) TextureBind(texture metadata.TextureHandle) {
	gl.BindTexture(gl.TEXTURE_2D, uint32(texture))
}

func glFilter(f metadata.TextureFilter) int32 {
	switch f {
	case metadata.TextureFilterModeNearest:
		return gl.NEAREST
	case metadata.TextureFilterModeLinearMipmapNearest:
		return gl.LINEAR_MIPMAP_NEAREST
	default:
		return gl.LINEAR
	}
}

func (r *OpenGLRenderer) TextureSetFilter(mag, min metadata.TextureFilter) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(mag))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(min))
}

func (r *OpenGLRenderer) SetUnpackAlignment(alignment int32) {
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, alignment)
}

func (r *OpenGLRenderer) TextureImage2D(level int32, format uint32, width, height uint32, pixels []byte) {
	gl.TexImage2D(gl.TEXTURE_2D, level, int32(format), int32(width), int32(height), 0,
		format, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
}

func (r *OpenGLRenderer) TextureCompressedImage2D(level int32, format uint32, width, height uint32, data []byte) {
	gl.CompressedTexImage2D(gl.TEXTURE_2D, level, format, int32(width), int32(height), 0,
		int32(len(data)), gl.Ptr(data))
}

func (r *OpenGLRenderer) TextureGenerateMipmap() {
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

func (r *OpenGLRenderer) TextureDestroy(texture metadata.TextureHandle) {
	id := uint32(texture)
	gl.DeleteTextures(1, &id)
}

func (r *OpenGLRenderer) GetError() uint32 {
	return gl.GetError()
}
