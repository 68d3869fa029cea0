package systems

import (
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer"
)

// SystemManager wires the texture systems to one renderer backend.
type SystemManager struct {
	CapabilityProbe *CapabilityProbe
	TextureSystem   *TextureSystem
}

func NewSystemManager(config *core.Config, am AssetLoader, r *renderer.Renderer) *SystemManager {
	return &SystemManager{
		CapabilityProbe: NewCapabilityProbe(r.Backend()),
		TextureSystem: NewTextureSystem(&TextureSystemConfig{
			Textures: config.Textures,
		}, am, r.Backend()),
	}
}

// Initialize probes the context and loads the catalog. It must run after the
// backend has a current context.
func (sm *SystemManager) Initialize() error {
	return sm.TextureSystem.Load(sm.CapabilityProbe.Probe())
}

func (sm *SystemManager) Shutdown() error {
	return sm.TextureSystem.Shutdown()
}
