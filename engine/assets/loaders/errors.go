package loaders

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/texloader/engine/renderer/metadata"
)

var (
	ErrUnknownPixelFormat  = metadata.ErrUnknownPixelFormat
	ErrUnsupportedChannels = errors.New("loaders: unsupported channel count")
	ErrTruncated           = errors.New("loaders: asset is shorter than its header")
	ErrBadMagic            = errors.New("loaders: bad magic number")
	ErrLevelSize           = errors.New("loaders: mip level size does not match its format")
)

// DecodeError is returned by every loader; it names the asset and the
// container that failed to parse.
type DecodeError struct {
	Asset  string
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s asset %q: %s", e.Format, e.Asset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func decodeError(asset, format string, err error) error {
	return &DecodeError{Asset: asset, Format: format, Err: err}
}

func resource(name string, data []byte, desc *metadata.TextureDescriptor) *metadata.Resource {
	return &metadata.Resource{
		Name:     name,
		DataSize: uint64(len(data)),
		Data:     desc,
	}
}

// unload drops the descriptor so the asset bytes can be collected once the
// upload is done.
func unload(res *metadata.Resource) error {
	if res == nil {
		return nil
	}
	res.Data = nil
	return nil
}
