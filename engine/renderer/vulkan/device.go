package vulkan

import (
	"fmt"
	"strings"

	vk "github.com/goki/vulkan"
	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
	"golang.org/x/exp/slices"
)

// VK_IMG_format_pvrtc exposes the PVRTC1/2 formats; it has no feature bit.
const pvrtcExtensionName = "VK_IMG_format_pvrtc"

// DeviceReport is what the probe learned about one physical device.
type DeviceReport struct {
	Name         string
	Type         string
	APIVersion   string
	Extensions   []string
	Capabilities metadata.CapabilityTable
}

func (d DeviceReport) String() string {
	return fmt.Sprintf("%s (%s, Vulkan %s)", d.Name, d.Type, d.APIVersion)
}

// CapabilitiesFromFeatures maps device features onto the GL capability table.
// ETC2 support in Vulkan includes ETC1, since ETC2 decoders read ETC1 blocks.
func CapabilitiesFromFeatures(etc2, bc bool, extensions []string) metadata.CapabilityTable {
	pvrtc := slices.Contains(extensions, pvrtcExtensionName)
	return metadata.CapabilityTable{
		ETC1:  metadata.CapabilityOf(etc2),
		ETC2:  metadata.CapabilityOf(etc2),
		PVRTC: metadata.CapabilityOf(pvrtc),
		S3TC:  metadata.CapabilityOf(bc),
	}
}

func deviceTypeString(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}

func versionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>22, (v>>12)&0x3ff, v&0xfff)
}

func deviceExtensions(device vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(device, "", &count, nil); res != vk.Success {
		return nil, fmt.Errorf("vkEnumerateDeviceExtensionProperties: %s", VulkanResultString(res))
	}
	if count == 0 {
		return nil, nil
	}
	props := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateDeviceExtensionProperties(device, "", &count, props); res != vk.Success {
		return nil, fmt.Errorf("vkEnumerateDeviceExtensionProperties: %s", VulkanResultString(res))
	}
	names := make([]string, 0, count)
	for i := range props {
		props[i].Deref()
		names = append(names, goString(props[i].ExtensionName[:]))
	}
	return names, nil
}

func describeDevice(device vk.PhysicalDevice) (DeviceReport, error) {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &properties)
	properties.Deref()

	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(device, &features)
	features.Deref()

	extensions, err := deviceExtensions(device)
	if err != nil {
		return DeviceReport{}, err
	}

	return DeviceReport{
		Name:       strings.TrimSpace(goString(properties.DeviceName[:])),
		Type:       deviceTypeString(properties.DeviceType),
		APIVersion: versionString(properties.ApiVersion),
		Extensions: extensions,
		Capabilities: CapabilitiesFromFeatures(
			features.TextureCompressionETC2 == vk.True,
			features.TextureCompressionBC == vk.True,
			extensions,
		),
	}, nil
}
