package zbp

import (
	"fmt"
	"io"
	"os"
)

// HeaderReadSize bounds how much of a file the preview decoder looks at.
// The compressed preview always fits inside the first 37 000 bytes.
const HeaderReadSize = 37_000

// Options control decoding behaviour that is not derived from the file.
type Options struct {
	// ToneAdjust boosts the alpha channel so dark-background previews
	// render fully opaque. Material and light presets are stored without
	// the boost baked in and should leave this off.
	ToneAdjust bool

	// Planes overrides the plane-to-channel mapping. Zero value means
	// the layout's default mapping.
	Planes *PlaneLayout
}

// Extract decodes the embedded 96×96 RGBA preview from raw file bytes.
// On success the returned buffer is exactly ThumbnailBytes long. The
// function is pure: it touches no caches and keeps no state, so any
// number of extractions may run concurrently.
func Extract(data []byte, opts Options) ([]byte, error) {
	magicOffset, err := FindMagic(data)
	if err != nil {
		return nil, err
	}

	hdr, err := ParseHeader(data, magicOffset)
	if err != nil {
		return nil, err
	}

	planeLen := hdr.PlaneLength()
	prefix := hdr.BlockPrefix()

	planes := make([][]byte, len(hdr.BlockSizes))
	start := hdr.PayloadStart
	for i, size := range hdr.BlockSizes {
		if size < prefix || start+size > len(data) {
			return nil, ErrCorruptBlock
		}
		// The declared size spans the whole block, reserved prefix
		// included; the RLE stream begins after the prefix.
		stream := data[start+prefix : start+size]
		plane, err := DecodeRLE(stream, planeLen)
		if err != nil {
			return nil, err
		}
		planes[i] = plane
		start += size
	}

	layout := hdr.Layout.planeLayout()
	if opts.Planes != nil {
		layout = *opts.Planes
	}
	return Assemble(planes, layout, opts.ToneAdjust)
}

// ExtractFile reads a preset file from disk and decodes its preview. Only
// the first 37 000 bytes are read. I/O failures are wrapped so callers can
// distinguish unreadable sources from malformed ones.
func ExtractFile(path string, opts Options) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	data := make([]byte, HeaderReadSize)
	n, err := io.ReadFull(f, data)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Extract(data[:n], opts)
}
