package emoji

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"

	"github.com/pierrec/lz4/v4"
)

// CacheVersion is the version written into serialized caches.
const CacheVersion = 1

// HeaderSize is the byte length of the serialized header: four
// little-endian int32 values (version, size, frames, length).
const HeaderSize = 16

// ErrCorruptCache wraps every reason a serialized cache is rejected.
var ErrCorruptCache = errors.New("emoji: corrupt cache")

// Header is the fixed prefix of a serialized cache.
type Header struct {
	Version int32
	Size    int32
	Frames  int32
	// Length is the byte length of the LZ4 block that follows the header.
	Length int32
}

// ReadHeader decodes the header at the start of data.
func ReadHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorruptCache, len(data))
	}
	return Header{
		Version: int32(binary.LittleEndian.Uint32(data[0:])),
		Size:    int32(binary.LittleEndian.Uint32(data[4:])),
		Frames:  int32(binary.LittleEndian.Uint32(data[8:])),
		Length:  int32(binary.LittleEndian.Uint32(data[12:])),
	}, nil
}

func (h Header) put(data []byte) {
	binary.LittleEndian.PutUint32(data[0:], uint32(h.Version))
	binary.LittleEndian.PutUint32(data[4:], uint32(h.Size))
	binary.LittleEndian.PutUint32(data[8:], uint32(h.Frames))
	binary.LittleEndian.PutUint32(data[12:], uint32(h.Length))
}

// Validate checks h against a blob of total length bytes for frames of
// requestedSize.
func (h Header) Validate(total, requestedSize int) error {
	size := int64(h.Size)
	frames := int64(h.Frames)
	length := int64(h.Length)
	switch {
	case h.Version != CacheVersion:
		return fmt.Errorf("%w: version %d, want %d", ErrCorruptCache, h.Version, CacheVersion)
	case size <= 0 || size != int64(requestedSize):
		return fmt.Errorf("%w: size %d, want %d", ErrCorruptCache, h.Size, requestedSize)
	case frames <= 0 || frames >= MaxFrames:
		return fmt.Errorf("%w: frame count %d out of range", ErrCorruptCache, h.Frames)
	case length <= 0 || length > size*size*frames*4:
		return fmt.Errorf("%w: payload length %d out of range", ErrCorruptCache, h.Length)
	case int64(total) != HeaderSize+length+frames*2:
		return fmt.Errorf("%w: blob length %d does not match header", ErrCorruptCache, total)
	}
	return nil
}

// Serialize packs a finished cache into the versioned blob format: header,
// LZ4 block of the frame grid, then one little-endian uint16 duration per
// frame.
func (c *Cache) Serialize() ([]byte, error) {
	if !c.finished {
		panic("emoji: Cache.Serialize before Finish")
	}
	if len(c.durations) != c.frames {
		panic("emoji: Cache.Serialize duration count mismatch")
	}
	input := c.full.Pix
	bound := lz4.CompressBlockBound(len(input))
	result := make([]byte, HeaderSize+bound+c.frames*2)
	length, err := lz4.CompressBlock(input, result[HeaderSize:HeaderSize+bound], nil)
	if err != nil {
		return nil, fmt.Errorf("emoji: compress frames: %w", err)
	}
	if length <= 0 {
		return nil, errors.New("emoji: compress frames: empty output")
	}
	Header{
		Version: CacheVersion,
		Size:    int32(c.size),
		Frames:  int32(c.frames),
		Length:  int32(length),
	}.put(result)
	tail := result[HeaderSize+length:]
	for i, d := range c.durations {
		binary.LittleEndian.PutUint16(tail[2*i:], d)
	}
	return result[:HeaderSize+length+c.frames*2], nil
}

// FromSerialized reconstructs a finished cache. The header is validated
// before anything is decompressed; any failure wraps ErrCorruptCache.
func FromSerialized(data []byte, requestedSize int) (*Cache, error) {
	if len(data) <= HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is too short", ErrCorruptCache, len(data))
	}
	header, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}
	if err := header.Validate(len(data), requestedSize); err != nil {
		return nil, err
	}
	size := int(header.Size)
	frames := int(header.Frames)
	length := int(header.Length)

	rows := (frames + perRow - 1) / perRow
	columns := min(frames, perRow)
	full := image.NewRGBA(image.Rect(0, 0, columns*size, rows*size))
	n, err := lz4.UncompressBlock(data[HeaderSize:HeaderSize+length], full.Pix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}
	if n != len(full.Pix) {
		return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", ErrCorruptCache, n, len(full.Pix))
	}
	durations := make([]uint16, frames)
	tail := data[HeaderSize+length:]
	for i := range durations {
		durations[i] = binary.LittleEndian.Uint16(tail[2*i:])
	}
	return &Cache{
		durations: durations,
		full:      full,
		size:      size,
		frames:    frames,
		finished:  true,
	}, nil
}
