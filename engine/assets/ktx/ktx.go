// Package ktx decodes and encodes Khronos KTX 1.1 texture containers.
package ktx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var fileID = [12]byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x31, 0x31, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// HeaderSize is the size of an encoded ktx file header: a 12 byte identifier
// followed by 13 uint32 fields.
const HeaderSize = 64

// endiannessValue is contained in the 4 bytes following the fileID and is used
// to determine the encoding for the rest of the file.
const endiannessValue = 0x04030201

var (
	ErrNotKTX         = errors.New("ktx: not a ktx header")
	ErrEndianness     = errors.New("ktx: cannot determine endianness")
	ErrTruncated      = errors.New("ktx: truncated file")
	ErrKeyValue       = errors.New("ktx: malformed key/value data")
	ErrTooManyLevels  = errors.New("ktx: more mip levels than the base size allows")
	ErrUnsupportedDim = errors.New("ktx: only 2D textures are supported")
)

// Header contains ktx file header metadata
type Header struct {
	ByteOrder             binary.ByteOrder
	GLType                uint32
	GLTypeSize            uint32
	GLFormat              uint32
	GLInternalFormat      uint32
	GLBaseInternalFormat  uint32
	PixelWidth            uint32
	PixelHeight           uint32
	PixelDepth            uint32
	NumberOfArrayElements uint32
	NumberOfFaces         uint32
	NumberOfMipmapLevels  uint32
	BytesOfKeyValueData   uint32
}

// Compressed reports whether the payload is a compressed format. KTX marks
// compressed data with glType and glFormat both zero.
func (h *Header) Compressed() bool {
	return h.GLType == 0 && h.GLFormat == 0
}

// Is2D reports whether the file holds a single non-array 2D texture.
func (h *Header) Is2D() bool {
	return h.PixelHeight > 0 && h.PixelDepth == 0 &&
		h.NumberOfArrayElements == 0 && h.NumberOfFaces == 1
}

// LevelCount is the number of images stored. Zero mipmap levels in the
// header means one stored level and a request to generate the rest.
func (h *Header) LevelCount() uint32 {
	if h.NumberOfMipmapLevels == 0 {
		return 1
	}
	return h.NumberOfMipmapLevels
}

// Level locates one mip image inside the decoded buffer.
type Level struct {
	Width  uint32
	Height uint32
	Offset uint32
	Size   uint32
}

type File struct {
	Header    Header
	KeyValues map[string][]byte
	Levels    []Level
	// TrailingBytes counts the bytes after the last level and its padding.
	TrailingBytes int
}

// DecodeHeader decodes a ktx file header from the start of b.
func DecodeHeader(b []byte) (*Header, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("%w: %d byte header", ErrTruncated, len(b))
	}
	if !bytes.Equal(b[:12], fileID[:]) {
		return nil, ErrNotKTX
	}
	b = b[12:HeaderSize]

	order, ok := byteOrder(b[:4])
	if !ok {
		return nil, ErrEndianness
	}
	b = b[4:]

	h := &Header{ByteOrder: order}
	fields := []*uint32{
		&h.GLType, &h.GLTypeSize, &h.GLFormat, &h.GLInternalFormat,
		&h.GLBaseInternalFormat, &h.PixelWidth, &h.PixelHeight, &h.PixelDepth,
		&h.NumberOfArrayElements, &h.NumberOfFaces, &h.NumberOfMipmapLevels,
		&h.BytesOfKeyValueData,
	}
	for i, f := range fields {
		*f = order.Uint32(b[i*4:])
	}
	return h, nil
}

// Decode parses a whole 2D ktx file. Level offsets point into b, which is
// not copied.
func Decode(b []byte) (*File, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}
	if !h.Is2D() {
		return nil, fmt.Errorf("%w: %dx%dx%d, %d faces, %d array elements", ErrUnsupportedDim,
			h.PixelWidth, h.PixelHeight, h.PixelDepth, h.NumberOfFaces, h.NumberOfArrayElements)
	}
	if h.LevelCount() > maxLevels(h.PixelWidth, h.PixelHeight) {
		return nil, fmt.Errorf("%w: %d levels for %dx%d", ErrTooManyLevels,
			h.LevelCount(), h.PixelWidth, h.PixelHeight)
	}

	offset := uint64(HeaderSize)
	kvEnd := offset + uint64(h.BytesOfKeyValueData)
	if kvEnd > uint64(len(b)) {
		return nil, fmt.Errorf("%w: key/value data ends at %d, file has %d bytes", ErrTruncated, kvEnd, len(b))
	}
	kv, err := DecodeKeyValues(h.ByteOrder, b[offset:kvEnd])
	if err != nil {
		return nil, err
	}
	offset = kvEnd

	f := &File{Header: *h, KeyValues: kv}
	width, height := h.PixelWidth, h.PixelHeight
	for level := uint32(0); level < h.LevelCount(); level++ {
		if offset+4 > uint64(len(b)) {
			return nil, fmt.Errorf("%w: level %d image size", ErrTruncated, level)
		}
		size := h.ByteOrder.Uint32(b[offset:])
		offset += 4
		if offset+uint64(size) > uint64(len(b)) {
			return nil, fmt.Errorf("%w: level %d needs %d bytes at %d, file has %d",
				ErrTruncated, level, size, offset, len(b))
		}
		f.Levels = append(f.Levels, Level{Width: width, Height: height, Offset: uint32(offset), Size: size})
		offset += uint64(size) + uint64(mipPadding(size))
		width = max(1, width>>1)
		height = max(1, height>>1)
	}
	// offset may run past len(b) when the writer dropped the final padding.
	if offset < uint64(len(b)) {
		f.TrailingBytes = int(uint64(len(b)) - offset)
	}
	return f, nil
}

// DecodeKeyValues decodes the key/value pairs that follow the header. Values
// keep any terminating null that the writer counted in keyAndValueByteSize.
func DecodeKeyValues(order binary.ByteOrder, meta []byte) (map[string][]byte, error) {
	if len(meta) == 0 {
		return nil, nil
	}
	m := map[string][]byte{}
	for len(meta) > 0 {
		if len(meta) < 4 {
			return nil, fmt.Errorf("%w: %d stray bytes", ErrKeyValue, len(meta))
		}
		kvsize := order.Uint32(meta)
		meta = meta[4:]
		padded := uint64(kvsize) + uint64(mipPadding(kvsize))
		if padded > uint64(len(meta)) {
			return nil, fmt.Errorf("%w: pair of %d bytes overruns block", ErrKeyValue, kvsize)
		}
		kvdata := meta[:kvsize]
		meta = meta[padded:]

		klen := bytes.IndexByte(kvdata, 0)
		if klen < 0 {
			return nil, fmt.Errorf("%w: key is not null terminated", ErrKeyValue)
		}
		m[string(kvdata[:klen])] = kvdata[klen+1:]
	}
	return m, nil
}

// mipPadding is the number of bytes needed to round n up to a multiple of 4.
func mipPadding(n uint32) uint32 {
	return 3 - (n+3)%4
}

func maxLevels(width, height uint32) uint32 {
	n := uint32(1)
	for s := max(width, height); s > 1; s >>= 1 {
		n++
	}
	return n
}

func byteOrder(endianness []byte) (binary.ByteOrder, bool) {
	if binary.LittleEndian.Uint32(endianness) == endiannessValue {
		return binary.LittleEndian, true
	}
	if binary.BigEndian.Uint32(endianness) == endiannessValue {
		return binary.BigEndian, true
	}
	return nil, false
}

// Encode writes a little-endian 2D ktx file. levels holds the image data of
// each mip level, mip 0 first; h.NumberOfMipmapLevels is written as given so
// callers can store a single level with a zero count.
func Encode(w io.Writer, h Header, kv map[string][]byte, keys []string, levels [][]byte) error {
	var kvBuf bytes.Buffer
	for _, k := range keys {
		v := kv[k]
		size := uint32(len(k) + 1 + len(v))
		binary.Write(&kvBuf, binary.LittleEndian, size)
		kvBuf.WriteString(k)
		kvBuf.WriteByte(0)
		kvBuf.Write(v)
		kvBuf.Write(make([]byte, mipPadding(size)))
	}
	h.BytesOfKeyValueData = uint32(kvBuf.Len())

	var buf bytes.Buffer
	buf.Write(fileID[:])
	fields := []uint32{
		endiannessValue, h.GLType, h.GLTypeSize, h.GLFormat, h.GLInternalFormat,
		h.GLBaseInternalFormat, h.PixelWidth, h.PixelHeight, h.PixelDepth,
		h.NumberOfArrayElements, h.NumberOfFaces, h.NumberOfMipmapLevels,
		h.BytesOfKeyValueData,
	}
	if err := binary.Write(&buf, binary.LittleEndian, fields); err != nil {
		return err
	}
	buf.Write(kvBuf.Bytes())
	for _, l := range levels {
		size := uint32(len(l))
		if err := binary.Write(&buf, binary.LittleEndian, size); err != nil {
			return err
		}
		buf.Write(l)
		buf.Write(make([]byte, mipPadding(size)))
	}
	_, err := w.Write(buf.Bytes())
	return err
}
