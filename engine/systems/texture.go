package systems

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

var (
	ErrNoFallbackTexture = errors.New("fallback texture could not be loaded")
	ErrNotTexture        = errors.New("resource does not hold a texture")
)

// CheckerboardDimension is the size of the built-in fallback texture used
// when no fallback asset is configured.
const CheckerboardDimension = 64

type TextureSlot int

const (
	TextureSlotPlain TextureSlot = iota
	TextureSlotUnsupported
	TextureSlotETC1
	TextureSlotETC2
	TextureSlotPVRTC
	TextureSlotS3TC
	TextureSlotCount
)

// DrawnSlots are the slots shown on screen, left to right. The fallback
// slot only ever appears through substitution.
var DrawnSlots = []TextureSlot{
	TextureSlotPlain,
	TextureSlotETC1,
	TextureSlotETC2,
	TextureSlotPVRTC,
	TextureSlotS3TC,
}

var textureSlotNames = [...]string{
	TextureSlotPlain:       "plain",
	TextureSlotUnsupported: "unsupported",
	TextureSlotETC1:        "etc1",
	TextureSlotETC2:        "etc2",
	TextureSlotPVRTC:       "pvrtc",
	TextureSlotS3TC:        "s3tc",
}

func (s TextureSlot) String() string {
	if s >= 0 && s < TextureSlotCount {
		return textureSlotNames[s]
	}
	return fmt.Sprintf("TextureSlot(%d)", int(s))
}

// AssetLoader is the part of the asset manager the catalog needs.
type AssetLoader interface {
	LoadAsset(name string, resourceType metadata.ResourceType) (*metadata.Resource, error)
	UnloadAsset(res *metadata.Resource) error
}

type slotBinding struct {
	slot         TextureSlot
	asset        string
	resourceType metadata.ResourceType
	capability   func(metadata.CapabilityTable) metadata.Capability
}

type TextureSystemConfig struct {
	Textures core.TexturesConfig
}

// TextureSystem owns one GPU texture per slot. Slots whose format the driver
// cannot sample, or whose asset fails to load, share the fallback texture.
type TextureSystem struct {
	Config *TextureSystemConfig

	assets   AssetLoader
	backend  renderer.RendererBackend
	uploader *MipUploader

	handles      [TextureSlotCount]metadata.TextureHandle
	capabilities metadata.CapabilityTable
	loaded       bool
}

func NewTextureSystem(config *TextureSystemConfig, am AssetLoader, backend renderer.RendererBackend) *TextureSystem {
	return &TextureSystem{
		Config:   config,
		assets:   am,
		backend:  backend,
		uploader: NewMipUploader(backend),
	}
}

func (ts *TextureSystem) bindings() []slotBinding {
	always := func(metadata.CapabilityTable) metadata.Capability { return metadata.CapabilitySupported }
	t := ts.Config.Textures
	return []slotBinding{
		{TextureSlotPlain, t.Plain, metadata.ResourceTypeImage, always},
		{TextureSlotETC1, t.ETC1, metadata.ResourceTypeKTX, func(c metadata.CapabilityTable) metadata.Capability { return c.ETC1 }},
		{TextureSlotETC2, t.ETC2, metadata.ResourceTypeKTX, func(c metadata.CapabilityTable) metadata.Capability { return c.ETC2 }},
		{TextureSlotPVRTC, t.PVRTC, metadata.ResourceTypePVR, func(c metadata.CapabilityTable) metadata.Capability { return c.PVRTC }},
		{TextureSlotS3TC, t.S3TC, metadata.ResourceTypeDDS, func(c metadata.CapabilityTable) metadata.Capability { return c.S3TC }},
	}
}

// Load fills every slot. The fallback is loaded first; failing to get it is
// the only error Load returns. Calling Load again is a no-op.
func (ts *TextureSystem) Load(capabilities metadata.CapabilityTable) error {
	if ts.loaded {
		core.LogWarn("texture catalog already loaded")
		return nil
	}
	logger := core.Logger().With("pass", uuid.New().String())
	ts.capabilities = capabilities

	fallback, err := ts.loadFallback()
	if err != nil {
		logger.Error("no fallback texture", "asset", ts.Config.Textures.Unsupported, "err", err)
		return fmt.Errorf("%w: %w", ErrNoFallbackTexture, err)
	}
	ts.handles[TextureSlotUnsupported] = fallback

	for _, b := range ts.bindings() {
		capability := b.capability(capabilities)
		if !capability.Attempt() {
			logger.Info("format not supported, using fallback", "slot", b.slot, "capability", capability)
			ts.handles[b.slot] = fallback
			continue
		}
		handle, err := ts.loadTexture(b.asset, b.resourceType)
		if err != nil {
			logger.Error("failed to load texture, using fallback", "slot", b.slot, "asset", b.asset, "err", err)
			ts.handles[b.slot] = fallback
			continue
		}
		logger.Info("texture loaded", "slot", b.slot, "asset", b.asset, "handle", handle)
		ts.handles[b.slot] = handle
	}

	ts.loaded = true
	return nil
}

func (ts *TextureSystem) loadFallback() (metadata.TextureHandle, error) {
	name := ts.Config.Textures.Unsupported
	if name == "" {
		core.LogInfo("no fallback asset configured, using the built-in checkerboard")
		return ts.uploader.Upload(metadata.NewCheckerboard(CheckerboardDimension))
	}
	return ts.loadTexture(name, metadata.ResourceTypeImage)
}

// loadTexture decodes and uploads one asset. The decoded bytes are released
// before returning.
func (ts *TextureSystem) loadTexture(name string, resourceType metadata.ResourceType) (metadata.TextureHandle, error) {
	res, err := ts.assets.LoadAsset(name, resourceType)
	if err != nil {
		return metadata.InvalidTextureHandle, err
	}
	defer func() {
		if err := ts.assets.UnloadAsset(res); err != nil {
			core.LogWarn("failed to unload %s: %s", name, err)
		}
	}()

	desc, ok := res.Texture()
	if !ok {
		return metadata.InvalidTextureHandle, fmt.Errorf("%s: %w", name, ErrNotTexture)
	}
	return ts.uploader.Upload(desc)
}

// Handle returns the texture bound to slot, InvalidTextureHandle before Load.
func (ts *TextureSystem) Handle(slot TextureSlot) metadata.TextureHandle {
	if slot < 0 || slot >= TextureSlotCount {
		return metadata.InvalidTextureHandle
	}
	return ts.handles[slot]
}

func (ts *TextureSystem) Handles() [TextureSlotCount]metadata.TextureHandle {
	return ts.handles
}

func (ts *TextureSystem) Capabilities() metadata.CapabilityTable {
	return ts.capabilities
}

func (ts *TextureSystem) Loaded() bool {
	return ts.loaded
}

// DrawCommands lays the drawn slots out as equal columns across the screen.
func (ts *TextureSystem) DrawCommands() []renderer.DrawCommand {
	commands := make([]renderer.DrawCommand, len(DrawnSlots))
	for i, slot := range DrawnSlots {
		commands[i] = renderer.DrawCommand{
			Texture: ts.Handle(slot),
			Quad:    renderer.ColumnQuad(i, len(DrawnSlots)),
		}
	}
	return commands
}

// Shutdown destroys every distinct texture the catalog created.
func (ts *TextureSystem) Shutdown() error {
	seen := make(map[metadata.TextureHandle]bool)
	for _, h := range ts.handles {
		if !h.IsValid() || seen[h] {
			continue
		}
		seen[h] = true
		ts.backend.TextureDestroy(h)
	}
	ts.handles = [TextureSlotCount]metadata.TextureHandle{}
	ts.loaded = false
	return nil
}
