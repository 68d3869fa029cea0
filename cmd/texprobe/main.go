// Command texprobe prints the compressed texture support of the local GL and
// Vulkan drivers and, with -inspect, what the loaders make of asset files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spaghettifunk/texloader/engine/assets"
	"github.com/spaghettifunk/texloader/engine/core"
	"github.com/spaghettifunk/texloader/engine/platform"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
	"github.com/spaghettifunk/texloader/engine/renderer/opengl"
	"github.com/spaghettifunk/texloader/engine/renderer/vulkan"
	"github.com/spaghettifunk/texloader/engine/systems"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func main() {
	inspect := flag.Bool("inspect", false, "decode the files given as arguments instead of probing drivers")
	skipGL := flag.Bool("no-gl", false, "skip the OpenGL ES probe")
	skipVulkan := flag.Bool("no-vulkan", false, "skip the Vulkan probe")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	core.SetLogLevel(core.ParseLogLevel(*logLevel))

	if *inspect {
		failed := false
		for _, path := range flag.Args() {
			if err := inspectFile(path); err != nil {
				core.LogError(err.Error())
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
		return
	}

	p := platform.New()
	if err := p.StartupHidden("texprobe"); err != nil {
		core.LogFatal("failed to start platform: %s", err)
	}
	defer p.Shutdown()

	if !*skipGL {
		if err := probeGL(); err != nil {
			core.LogError("OpenGL ES probe failed: %s", err)
		}
	}
	if !*skipVulkan {
		if err := probeVulkan(p); err != nil {
			core.LogError("Vulkan probe failed: %s", err)
		}
	}
}

func capabilityRows(c metadata.CapabilityTable) [][]string {
	return [][]string{
		{"ETC1", c.ETC1.String()},
		{"ETC2", c.ETC2.String()},
		{"PVRTC", c.PVRTC.String()},
		{"S3TC", c.S3TC.String()},
	}
}

func printTable(title string, headers []string, rows [][]string) {
	fmt.Println(headerStyle.Render(title))
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Println(t.String())
}

func probeGL() error {
	backend := opengl.New()
	if err := backend.Initialize(64, 64); err != nil {
		return err
	}
	defer backend.Shutdown()

	caps := systems.NewCapabilityProbe(backend).Probe()
	printTable("OpenGL ES", []string{"format", "capability"}, capabilityRows(caps))
	return nil
}

func probeVulkan(p *platform.Platform) error {
	reports, err := vulkan.NewProbe("texprobe", p.VulkanProcAddress()).Run()
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println(headerStyle.Render("Vulkan: no devices"))
		return nil
	}
	for _, r := range reports {
		printTable("Vulkan "+r.String(), []string{"format", "capability"}, capabilityRows(r.Capabilities))
	}
	return nil
}

func inspectFile(path string) error {
	am := assets.NewAssetManager()
	if err := am.SetSourceDir(filepath.Dir(path)); err != nil {
		return err
	}
	name := filepath.Base(path)
	resourceType := assets.DetermineAssetType(name)
	res, err := am.LoadAsset(name, resourceType)
	if err != nil {
		return err
	}
	defer am.UnloadAsset(res)

	desc, ok := res.Texture()
	if !ok {
		return fmt.Errorf("%s: %w", name, systems.ErrNotTexture)
	}

	rows := make([][]string, len(desc.Levels))
	for i, l := range desc.Levels {
		rows[i] = []string{
			fmt.Sprint(i),
			fmt.Sprintf("%dx%d", l.Width, l.Height),
			fmt.Sprint(l.Offset),
			fmt.Sprint(l.Size),
		}
	}
	title := fmt.Sprintf("%s: %s %s, %d bytes, generate mipmaps %t",
		name, resourceType, desc.Format, res.DataSize, desc.GenerateMipmaps)
	printTable(title, []string{"level", "size", "offset", "bytes"}, rows)
	return nil
}
