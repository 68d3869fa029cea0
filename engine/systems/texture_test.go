package systems

import (
	"errors"
	"math"
	"testing"
	"testing/fstest"

	"github.com/spaghettifunk/texloader/engine/assets"
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
	"github.com/spaghettifunk/texloader/engine/renderer/renderertest"
	"github.com/spaghettifunk/texloader/testbed"
)

var allSupported = metadata.CapabilityTable{
	ETC1:  metadata.CapabilitySupported,
	ETC2:  metadata.CapabilitySupported,
	PVRTC: metadata.CapabilitySupported,
	S3TC:  metadata.CapabilitySupported,
}

func newTestCatalog(t *testing.T, cfg core.TexturesConfig, fsys fstest.MapFS) (*TextureSystem, *renderertest.Backend) {
	t.Helper()
	am := assets.NewAssetManager()
	if err := am.SetSource(fsys); err != nil {
		t.Fatalf("SetSource() error = %v", err)
	}
	backend := renderertest.New()
	return NewTextureSystem(&TextureSystemConfig{Textures: cfg}, am, backend), backend
}

func TestLoadAllSupported(t *testing.T) {
	cfg := core.DefaultConfig().Textures
	ts, backend := newTestCatalog(t, cfg, testbed.DemoFS(cfg))

	if err := ts.Load(allSupported); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	seen := make(map[metadata.TextureHandle]TextureSlot)
	for slot := TextureSlot(0); slot < TextureSlotCount; slot++ {
		h := ts.Handle(slot)
		if !h.IsValid() {
			t.Errorf("Handle(%s) = %d, want valid", slot, h)
		}
		if other, dup := seen[h]; dup {
			t.Errorf("Handle(%s) = Handle(%s) = %d, want distinct", slot, other, h)
		}
		seen[h] = slot
	}

	// 256x256, five levels in every container.
	for _, slot := range []TextureSlot{TextureSlotETC1, TextureSlotETC2, TextureSlotPVRTC, TextureSlotS3TC} {
		if got := len(backend.UploadsFor(ts.Handle(slot))); got != 5 {
			t.Errorf("%s uploads = %d, want 5", slot, got)
		}
	}
	plain := backend.UploadsFor(ts.Handle(TextureSlotPlain))
	if len(plain) != 1 || plain[0].Format != metadata.GL_RGB {
		t.Errorf("plain uploads = %+v, want one GL_RGB level", plain)
	}
	if !backend.Mipmapped[ts.Handle(TextureSlotPlain)] {
		t.Errorf("plain texture should generate mipmaps")
	}
	if got := backend.UploadsFor(ts.Handle(TextureSlotUnsupported)); len(got) != 1 || got[0].Format != metadata.GL_LUMINANCE {
		t.Errorf("fallback uploads = %+v, want one GL_LUMINANCE level", got)
	}
}

func TestLoadUnsupportedUsesFallback(t *testing.T) {
	cfg := core.DefaultConfig().Textures
	ts, backend := newTestCatalog(t, cfg, testbed.DemoFS(cfg))

	caps := allSupported
	caps.PVRTC = metadata.CapabilityUnsupported
	caps.S3TC = metadata.CapabilityUnsupported
	if err := ts.Load(caps); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fallback := ts.Handle(TextureSlotUnsupported)
	for _, slot := range []TextureSlot{TextureSlotPVRTC, TextureSlotS3TC} {
		if got := ts.Handle(slot); got != fallback {
			t.Errorf("Handle(%s) = %d, want fallback %d", slot, got, fallback)
		}
	}
	for _, u := range backend.Uploads {
		if u.Format == metadata.GL_COMPRESSED_RGBA_PVRTC_4BPPV1 || u.Format == metadata.GL_COMPRESSED_RGBA_S3TC_DXT1 {
			t.Errorf("unsupported format uploaded: %+v", u)
		}
	}
	if ts.Capabilities() != caps {
		t.Errorf("Capabilities() = %+v, want %+v", ts.Capabilities(), caps)
	}
}

func TestLoadUnavailableStillAttempts(t *testing.T) {
	cfg := core.DefaultConfig().Textures
	ts, _ := newTestCatalog(t, cfg, testbed.DemoFS(cfg))

	caps := allSupported
	caps.PVRTC = metadata.CapabilityUnavailable
	if err := ts.Load(caps); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ts.Handle(TextureSlotPVRTC) == ts.Handle(TextureSlotUnsupported) {
		t.Errorf("Handle(pvrtc) = fallback, want its own texture")
	}
}

func TestLoadFailureUsesFallback(t *testing.T) {
	cfg := core.DefaultConfig().Textures
	fsys := testbed.DemoFS(cfg)
	delete(fsys, cfg.S3TC)
	fsys[cfg.ETC2] = &fstest.MapFile{Data: []byte("not a ktx file")}

	ts, _ := newTestCatalog(t, cfg, fsys)
	if err := ts.Load(allSupported); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fallback := ts.Handle(TextureSlotUnsupported)
	for _, slot := range []TextureSlot{TextureSlotETC2, TextureSlotS3TC} {
		if got := ts.Handle(slot); got != fallback {
			t.Errorf("Handle(%s) = %d, want fallback %d", slot, got, fallback)
		}
	}
	if got := ts.Handle(TextureSlotETC1); got == fallback || !got.IsValid() {
		t.Errorf("Handle(etc1) = %d, want its own texture", got)
	}
}

func TestLoadWithoutFallback(t *testing.T) {
	cfg := core.DefaultConfig().Textures
	fsys := testbed.DemoFS(cfg)
	delete(fsys, cfg.Unsupported)

	ts, backend := newTestCatalog(t, cfg, fsys)
	err := ts.Load(allSupported)
	if !errors.Is(err, ErrNoFallbackTexture) {
		t.Errorf("Load() error = %v, want %v", err, ErrNoFallbackTexture)
	}
	if !errors.Is(err, assets.ErrAssetNotFound) {
		t.Errorf("Load() error = %v, want it to wrap %v", err, assets.ErrAssetNotFound)
	}
	if ts.Loaded() {
		t.Errorf("Loaded() = true after failed Load")
	}
	if len(backend.Uploads) != 0 {
		t.Errorf("uploads = %d, want none", len(backend.Uploads))
	}
}

func TestLoadCheckerboardFallback(t *testing.T) {
	cfg := core.DefaultConfig().Textures
	fsys := testbed.DemoFS(cfg)
	cfg.Unsupported = ""

	ts, backend := newTestCatalog(t, cfg, fsys)
	caps := allSupported
	caps.S3TC = metadata.CapabilityUnsupported
	if err := ts.Load(caps); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	fallback := ts.Handle(TextureSlotUnsupported)
	uploads := backend.UploadsFor(fallback)
	if len(uploads) != 1 || uploads[0].Width != CheckerboardDimension || uploads[0].Format != metadata.GL_RGBA {
		t.Errorf("fallback uploads = %+v, want one %dx%d GL_RGBA level", uploads, CheckerboardDimension, CheckerboardDimension)
	}
	if got := ts.Handle(TextureSlotS3TC); got != fallback {
		t.Errorf("Handle(s3tc) = %d, want fallback %d", got, fallback)
	}
}

func TestLoadRunsOnce(t *testing.T) {
	cfg := core.DefaultConfig().Textures
	ts, backend := newTestCatalog(t, cfg, testbed.DemoFS(cfg))
	if err := ts.Load(allSupported); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	handles := ts.Handles()
	uploads := len(backend.Uploads)

	if err := ts.Load(allSupported); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if ts.Handles() != handles || len(backend.Uploads) != uploads {
		t.Errorf("second Load() changed the catalog")
	}
}

func TestDrawCommands(t *testing.T) {
	cfg := core.DefaultConfig().Textures
	ts, _ := newTestCatalog(t, cfg, testbed.DemoFS(cfg))
	if err := ts.Load(allSupported); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	commands := ts.DrawCommands()
	if len(commands) != len(DrawnSlots) {
		t.Fatalf("DrawCommands() = %d commands, want %d", len(commands), len(DrawnSlots))
	}
	for i, c := range commands {
		if want := ts.Handle(DrawnSlots[i]); c.Texture != want {
			t.Errorf("command %d texture = %d, want %d", i, c.Texture, want)
		}
	}
	first, last := commands[0].Quad[1].X, commands[len(commands)-1].Quad[0].X
	if math.Abs(float64(first)+1) > 1e-6 || math.Abs(float64(last)-1) > 1e-6 {
		t.Errorf("columns span [%v, %v], want [-1, 1]", first, last)
	}
}

func TestShutdownDestroysDistinctTextures(t *testing.T) {
	cfg := core.DefaultConfig().Textures
	ts, backend := newTestCatalog(t, cfg, testbed.DemoFS(cfg))
	caps := allSupported
	caps.PVRTC = metadata.CapabilityUnsupported
	caps.S3TC = metadata.CapabilityUnsupported
	if err := ts.Load(caps); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := ts.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	// fallback, plain, etc1, etc2
	if got := len(backend.Destroyed); got != 4 {
		t.Errorf("destroyed %d textures, want 4: %v", got, backend.Destroyed)
	}
	if ts.Handle(TextureSlotPlain).IsValid() {
		t.Errorf("Handle(plain) still valid after Shutdown")
	}
}

func TestTextureSlotString(t *testing.T) {
	if got := TextureSlotPVRTC.String(); got != "pvrtc" {
		t.Errorf("String() = %q, want %q", got, "pvrtc")
	}
	if got := TextureSlot(42).String(); got != "TextureSlot(42)" {
		t.Errorf("String() = %q, want %q", got, "TextureSlot(42)")
	}
}
