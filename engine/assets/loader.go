package assets

import "github.com/spaghettifunk/texloader/engine/renderer/metadata"

// Loader turns the raw bytes of one asset into a resource. The loader owns
// data for the duration of the call and may keep slices of it in the result.
type Loader interface {
	Load(name string, data []byte) (*metadata.Resource, error)
	Unload(*metadata.Resource) error
}

// ByteSource resolves an asset name to an owned byte buffer.
type ByteSource interface {
	ReadAsset(name string) ([]byte, error)
}
