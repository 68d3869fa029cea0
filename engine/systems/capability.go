package systems

import (
	"strings"

	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/renderer"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
	"golang.org/x/exp/slices"
)

const (
	ExtensionPVRTC = "GL_IMG_texture_compression_pvrtc"
	ExtensionS3TC  = "GL_EXT_texture_compression_s3tc"
)

// CapabilityProbe asks the live context which compressed formats it can
// sample. It only issues read-only queries.
type CapabilityProbe struct {
	backend renderer.RendererBackend
}

func NewCapabilityProbe(backend renderer.RendererBackend) *CapabilityProbe {
	return &CapabilityProbe{backend: backend}
}

// ProbeETC1 searches the driver's compressed format list for
// GL_ETC1_RGB8_OES but reports ETC1 as supported either way: GLES 3.0
// drivers decode ETC1 data through the ETC2 path.
func (cp *CapabilityProbe) ProbeETC1() metadata.Capability {
	formats := cp.backend.CompressedTextureFormats()
	listed := slices.Contains(formats, metadata.GL_ETC1_RGB8_OES)
	core.LogDebug("ETC1 listed in %d compressed formats: %t", len(formats), listed)
	return metadata.CapabilitySupported
}

// ProbeETC2 is always supported on a GLES 3.0 context.
func (cp *CapabilityProbe) ProbeETC2() metadata.Capability {
	return metadata.CapabilitySupported
}

func (cp *CapabilityProbe) ProbePVRTC() metadata.Capability {
	return cp.probeExtension(ExtensionPVRTC)
}

func (cp *CapabilityProbe) ProbeS3TC() metadata.Capability {
	return cp.probeExtension(ExtensionS3TC)
}

func (cp *CapabilityProbe) probeExtension(name string) metadata.Capability {
	extensions, ok := cp.backend.Extensions()
	if !ok {
		core.LogWarn("driver gave no extension report while probing %s", name)
		return metadata.CapabilityUnavailable
	}
	return metadata.CapabilityOf(strings.Contains(extensions, name))
}

// Probe fills the capability table. It is meant to run once, right after the
// context is created.
func (cp *CapabilityProbe) Probe() metadata.CapabilityTable {
	table := metadata.CapabilityTable{
		ETC1:  cp.ProbeETC1(),
		ETC2:  cp.ProbeETC2(),
		PVRTC: cp.ProbePVRTC(),
		S3TC:  cp.ProbeS3TC(),
	}
	core.Logger().Info("texture capabilities",
		"etc1", table.ETC1, "etc2", table.ETC2, "pvrtc", table.PVRTC, "s3tc", table.S3TC)
	return table
}
