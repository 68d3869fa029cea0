package metadata

import "fmt"

type ResourceType int

/** @brief Pre-defined resource types, one per texture container the loaders understand. */
const (
	/** @brief Not a texture asset. */
	ResourceTypeNone ResourceType = iota
	/** @brief Generic raster image (PNG, BMP, TIFF, WebP, GIF, JPEG). */
	ResourceTypeImage
	/** @brief Khronos KTX 1.1 container. */
	ResourceTypeKTX
	/** @brief PowerVR v3 container. */
	ResourceTypePVR
	/** @brief DirectDraw Surface container. */
	ResourceTypeDDS
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeNone:
		return "none"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeKTX:
		return "ktx"
	case ResourceTypePVR:
		return "pvr"
	case ResourceTypeDDS:
		return "dds"
	}
	return fmt.Sprintf("ResourceType(%d)", int(t))
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The resource type that selected the loader. */
	Type ResourceType
	/** @brief The size of the raw asset in bytes. */
	DataSize uint64
	/** @brief The resource data. Texture loaders store a *TextureDescriptor. */
	Data interface{}
}

// Texture returns the descriptor carried by a texture resource.
func (r *Resource) Texture() (*TextureDescriptor, bool) {
	d, ok := r.Data.(*TextureDescriptor)
	return d, ok
}
