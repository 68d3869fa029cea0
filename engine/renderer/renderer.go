package renderer

import (
	"fmt"

	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

type RendererType uint8

const (
	OpenGL RendererType = iota
	Vulkan
)

func (t RendererType) String() string {
	switch t {
	case OpenGL:
		return "opengl"
	case Vulkan:
		return "vulkan"
	}
	return fmt.Sprintf("RendererType(%d)", uint8(t))
}

// Vertex is one corner of a screen-space quad with its texture coordinate.
type Vertex struct {
	X, Y float32
	U, V float32
}

// Quad is two triangles, six vertices, drawn with GL_TRIANGLES.
type Quad [6]Vertex

// ColumnQuad returns the quad covering column index of count equal vertical
// strips across clip space, sampling the matching strip of the texture.
func ColumnQuad(index, count int) Quad {
	step := 2.0 / float32(count)
	x0 := -1.0 + step*float32(index)
	x1 := x0 + step
	u0 := float32(index) / float32(count)
	u1 := float32(index+1) / float32(count)
	return Quad{
		{x1, 1, u1, 0},
		{x0, -1, u0, 1},
		{x1, -1, u1, 1},
		{x0, 1, u0, 0},
		{x0, -1, u0, 1},
		{x1, 1, u1, 0},
	}
}

// DrawCommand pairs a texture with the quad it is drawn on.
type DrawCommand struct {
	Texture metadata.TextureHandle
	Quad    Quad
}

type Renderer struct {
	backend RendererBackend
}

func New(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Backend() RendererBackend {
	return r.backend
}

func (r *Renderer) Initialize(width, height uint32) error {
	return r.backend.Initialize(width, height)
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) error {
	return r.backend.Resized(width, height)
}

func (r *Renderer) DrawFrame(commands []DrawCommand) error {
	if err := r.backend.BeginFrame(); err != nil {
		core.LogError(err.Error())
		return err
	}
	for _, c := range commands {
		if err := r.backend.DrawQuad(c.Texture, c.Quad); err != nil {
			core.LogError("failed to draw texture %d: %s", c.Texture, err)
		}
	}
	if err := r.backend.EndFrame(); err != nil {
		core.LogError("RendererEndFrame failed. Application shutting down...")
		return err
	}
	return nil
}
