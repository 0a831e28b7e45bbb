package zbp

import "encoding/binary"

// Layout identifies one of the known compression header layouts. The
// version byte is resolved to a Layout exactly once, in ParseHeader; all
// later stages branch on the Layout, never on the raw version.
type Layout int

const (
	// LayoutV4 stores four blocks with 2-byte size fields directly after
	// the marker. Each block decodes to a single sub-channel plane.
	LayoutV4 Layout = iota
	// LayoutV5 stores two blocks with 4-byte size fields after 12
	// reserved bytes. Each block decodes to two sub-channel planes.
	LayoutV5
	// LayoutV6 is the v5 layout with 4 additional reserved bytes at the
	// start of every block's payload.
	LayoutV6
)

// layoutSpec captures how one layout arranges the size table and block
// payloads.
type layoutSpec struct {
	blockCount  int
	reserved    int // bytes between the marker and the size table
	sizeWidth   int // width of each size field
	blockPrefix int // reserved bytes preceding each block's RLE stream
}

var layoutSpecs = map[Layout]layoutSpec{
	LayoutV4: {blockCount: 4, reserved: 0, sizeWidth: 2, blockPrefix: 0},
	LayoutV5: {blockCount: 2, reserved: 12, sizeWidth: 4, blockPrefix: 0},
	LayoutV6: {blockCount: 2, reserved: 12, sizeWidth: 4, blockPrefix: 4},
}

func layoutFor(version byte) (Layout, bool) {
	switch {
	case version == 4:
		return LayoutV4, true
	case version == 5:
		return LayoutV5, true
	case version >= 6:
		return LayoutV6, true
	default:
		return 0, false
	}
}

// CompressionHeader describes the compressed preview section of one file.
type CompressionHeader struct {
	Version      byte
	Layout       Layout
	BlockSizes   []int
	PayloadStart int // absolute offset of the first block
}

// BlockPrefix returns the number of reserved bytes at the start of each
// block's payload (4 for v6+, 0 otherwise).
func (h *CompressionHeader) BlockPrefix() int {
	return layoutSpecs[h.Layout].blockPrefix
}

// PlaneLength returns the number of bytes each block must decode to:
// the 36 864-byte preview divided evenly across the layout's blocks.
func (h *CompressionHeader) PlaneLength() int {
	return ThumbnailBytes / len(h.BlockSizes)
}

// ParseHeader reads the compression version byte (6 bytes before the
// marker) and the version-dependent block size table. magicOffset must be
// a value returned by FindMagic for the same data.
//
// Unknown versions fail with UnsupportedVersionError; a size table that
// runs past the end of the input fails with ErrCorruptBlock.
func ParseHeader(data []byte, magicOffset int) (*CompressionHeader, error) {
	version := data[magicOffset-6]

	layout, ok := layoutFor(version)
	if !ok {
		return nil, &UnsupportedVersionError{Version: version}
	}
	spec := layoutSpecs[layout]

	pos := magicOffset + len(magic) + spec.reserved
	tableLen := spec.blockCount * spec.sizeWidth
	if pos+tableLen > len(data) {
		return nil, ErrCorruptBlock
	}

	sizes := make([]int, spec.blockCount)
	for i := range sizes {
		switch spec.sizeWidth {
		case 2:
			sizes[i] = int(binary.LittleEndian.Uint16(data[pos:]))
		case 4:
			sizes[i] = int(binary.LittleEndian.Uint32(data[pos:]))
		}
		pos += spec.sizeWidth
	}

	return &CompressionHeader{
		Version:      version,
		Layout:       layout,
		BlockSizes:   sizes,
		PayloadStart: pos,
	}, nil
}
