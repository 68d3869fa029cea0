// Package vulkan reports the compressed texture support of every Vulkan
// physical device. It is diagnostic only and never uploads textures.
package vulkan

import (
	"errors"
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/texloader/engine/core"
)

var ErrNoVulkan = errors.New("vulkan: loader not available")

type Probe struct {
	appName  string
	procAddr unsafe.Pointer
}

// NewProbe takes the vkGetInstanceProcAddr pointer handed out by the
// windowing layer.
func NewProbe(appName string, procAddr unsafe.Pointer) *Probe {
	return &Probe{appName: appName, procAddr: procAddr}
}

// Run creates a throwaway instance and describes every physical device.
func (p *Probe) Run() ([]DeviceReport, error) {
	if p.procAddr == nil {
		return nil, ErrNoVulkan
	}
	vk.SetGetInstanceProcAddr(p.procAddr)
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoVulkan, err)
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(p.appName),
		PEngineName:        VulkanSafeString("texloader"),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return nil, fmt.Errorf("failed in creating the Vulkan Instance with error `%s`", VulkanResultString(res))
	}
	defer vk.DestroyInstance(instance, nil)
	if err := vk.InitInstance(instance); err != nil {
		return nil, err
	}
	core.LogDebug("Vulkan Instance created.")

	var count uint32
	if res := vk.EnumeratePhysicalDevices(instance, &count, nil); res != vk.Success {
		return nil, fmt.Errorf("vkEnumeratePhysicalDevices: %s", VulkanResultString(res))
	}
	if count == 0 {
		core.LogWarn("No devices which support Vulkan were found.")
		return nil, nil
	}
	devices := make([]vk.PhysicalDevice, count)
	if res := vk.EnumeratePhysicalDevices(instance, &count, devices); res != vk.Success {
		return nil, fmt.Errorf("vkEnumeratePhysicalDevices: %s", VulkanResultString(res))
	}

	reports := make([]DeviceReport, 0, count)
	for _, d := range devices {
		r, err := describeDevice(d)
		if err != nil {
			core.LogWarn("skipping device: %s", err)
			continue
		}
		core.LogDebug("Vulkan device %s: %+v", r, r.Capabilities)
		reports = append(reports, r)
	}
	return reports, nil
}
