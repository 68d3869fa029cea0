// Package testbed builds the demo texture assets in every supported
// container so the loader can be exercised without authoring tools.
package testbed

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing/fstest"

	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

const demoSize = 256

var (
	white  = color.NRGBA{255, 255, 255, 255}
	black  = color.NRGBA{0, 0, 0, 255}
	orange = color.NRGBA{240, 128, 32, 255}
	green  = color.NRGBA{32, 200, 64, 255}
	blue   = color.NRGBA{32, 64, 224, 255}
	purple = color.NRGBA{160, 48, 200, 160}
	yellow = color.NRGBA{240, 220, 40, 255}
)

// DemoAssets returns the encoded demo assets keyed by the names in cfg.
func DemoAssets(cfg core.TexturesConfig) map[string][]byte {
	levels := uint32(5)
	gray := image.NewGray(image.Rect(0, 0, demoSize, demoSize))
	bw := Checker(demoSize, 32, white, black)
	for i := range gray.Pix {
		gray.Pix[i] = bw.Pix[i*4]
	}

	return map[string][]byte{
		cfg.Plain:       EncodePNG(Checker(demoSize, 16, orange, white)),
		cfg.Unsupported: EncodePNG(gray),
		cfg.ETC1: EncodeKTX(KTXFile{
			Format: metadata.PixelFormatETC1, Width: demoSize, Height: demoSize, MipmapLevels: levels,
			Levels: ETCLevels(metadata.PixelFormatETC1, demoSize, demoSize, levels, green, white),
		}),
		cfg.ETC2: EncodeKTX(KTXFile{
			Format: metadata.PixelFormatETC2RGBA, Width: demoSize, Height: demoSize, MipmapLevels: levels,
			Levels: ETCLevels(metadata.PixelFormatETC2RGBA, demoSize, demoSize, levels, purple, white),
		}),
		cfg.PVRTC: EncodePVR(PVRFile{
			PixelFormat: 3, Width: demoSize, Height: demoSize, MipmapCount: levels,
			Payload: Pattern(PVRTCChainSize(demoSize, demoSize, levels, 4)),
		}),
		cfg.S3TC: EncodeDDS(DDSFile{
			FourCC: FourCCDXT1, Width: demoSize, Height: demoSize, MipMapCount: levels,
			Payload: S3TCChain(demoSize, demoSize, levels, FourCCDXT1, blue, yellow),
		}),
	}
}

// DemoFS serves the demo assets from memory.
func DemoFS(cfg core.TexturesConfig) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, data := range DemoAssets(cfg) {
		fsys[name] = &fstest.MapFile{Data: data, Mode: 0o644}
	}
	return fsys
}

// Generate writes the demo assets into dir.
func Generate(dir string, cfg core.TexturesConfig) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, data := range DemoAssets(cfg) {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		core.LogInfo("wrote %s (%d bytes)", path, len(data))
	}
	return nil
}
