package systems

import (
	"fmt"

	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

// MipUploader turns a decoded descriptor into a GPU texture.
type MipUploader struct {
	backend renderer.RendererBackend
}

func NewMipUploader(backend renderer.RendererBackend) *MipUploader {
	return &MipUploader{backend: backend}
}

// Upload creates a texture, sets its filters and uploads every level of desc
// in order. GPU errors raised along the way are logged, not returned: the
// handle is still usable by the draw loop. The texture is left bound.
func (mu *MipUploader) Upload(desc *metadata.TextureDescriptor) (metadata.TextureHandle, error) {
	if err := desc.Validate(); err != nil {
		return metadata.InvalidTextureHandle, err
	}
	internalFormat := desc.Format.GLInternalFormat()

	texture := mu.backend.TextureCreate()
	mu.backend.TextureBind(texture)
	mu.checkError(desc.Name, "bind")

	minFilter := metadata.TextureFilterModeLinear
	if desc.Mipmapped() {
		minFilter = metadata.TextureFilterModeLinearMipmapNearest
	}
	mu.backend.TextureSetFilter(metadata.TextureFilterModeLinear, minFilter)
	mu.checkError(desc.Name, "filter")

	if !desc.Compressed {
		// Decoded rows carry no padding.
		mu.backend.SetUnpackAlignment(1)
	}

	for i, level := range desc.Levels {
		data := desc.LevelData(i)
		if desc.Compressed {
			mu.backend.TextureCompressedImage2D(int32(i), internalFormat, level.Width, level.Height, data)
		} else {
			mu.backend.TextureImage2D(int32(i), internalFormat, level.Width, level.Height, data)
		}
		mu.checkError(desc.Name, fmt.Sprintf("upload level %d (%dx%d, %d bytes)", i, level.Width, level.Height, level.Size))
	}

	if desc.GenerateMipmaps {
		mu.backend.TextureGenerateMipmap()
		mu.checkError(desc.Name, "generate mipmap")
	}

	core.LogDebug("uploaded %s as texture %d: %s, %d level(s)", desc.Name, texture, desc.Format, len(desc.Levels))
	return texture, nil
}

func (mu *MipUploader) checkError(name, op string) {
	for e := mu.backend.GetError(); e != 0; e = mu.backend.GetError() {
		core.LogError("%s: %s raised GL error 0x%X", name, op, e)
	}
}
