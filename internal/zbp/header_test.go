package zbp

import (
	"encoding/binary"
	"errors"
	"testing"
)

// headerFixture builds just enough of a file to exercise ParseHeader: the
// zeroed fixed header, the marker at 200, and a size table.
func headerFixture(version byte, table []byte) []byte {
	data := make([]byte, headerSkip)
	data[headerSkip-6] = version
	data = append(data, magic...)
	return append(data, table...)
}

func TestParseHeaderVersion4(t *testing.T) {
	table := make([]byte, 8)
	for i, size := range []uint16{100, 200, 300, 400} {
		binary.LittleEndian.PutUint16(table[i*2:], size)
	}
	data := headerFixture(4, table)

	hdr, err := ParseHeader(data, 200)
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}

	if hdr.Layout != LayoutV4 {
		t.Errorf("Layout = %v, want LayoutV4", hdr.Layout)
	}
	if len(hdr.BlockSizes) != 4 {
		t.Fatalf("len(BlockSizes) = %d, want 4", len(hdr.BlockSizes))
	}
	for i, want := range []int{100, 200, 300, 400} {
		if hdr.BlockSizes[i] != want {
			t.Errorf("BlockSizes[%d] = %d, want %d", i, hdr.BlockSizes[i], want)
		}
	}
	if want := 200 + 8 + 8; hdr.PayloadStart != want {
		t.Errorf("PayloadStart = %d, want %d", hdr.PayloadStart, want)
	}
	if hdr.BlockPrefix() != 0 {
		t.Errorf("BlockPrefix() = %d, want 0", hdr.BlockPrefix())
	}
	if hdr.PlaneLength() != ThumbnailPixels {
		t.Errorf("PlaneLength() = %d, want %d", hdr.PlaneLength(), ThumbnailPixels)
	}
}

func TestParseHeaderVersion5(t *testing.T) {
	table := make([]byte, 12+8)
	binary.LittleEndian.PutUint32(table[12:], 18500)
	binary.LittleEndian.PutUint32(table[16:], 18600)
	data := headerFixture(5, table)

	hdr, err := ParseHeader(data, 200)
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}

	if hdr.Layout != LayoutV5 {
		t.Errorf("Layout = %v, want LayoutV5", hdr.Layout)
	}
	if len(hdr.BlockSizes) != 2 || hdr.BlockSizes[0] != 18500 || hdr.BlockSizes[1] != 18600 {
		t.Errorf("BlockSizes = %v, want [18500 18600]", hdr.BlockSizes)
	}
	// Marker end + 12 reserved + two 4-byte size fields.
	if want := 200 + 8 + 12 + 8; hdr.PayloadStart != want {
		t.Errorf("PayloadStart = %d, want %d", hdr.PayloadStart, want)
	}
	if hdr.BlockPrefix() != 0 {
		t.Errorf("BlockPrefix() = %d, want 0", hdr.BlockPrefix())
	}
	if hdr.PlaneLength() != 2*ThumbnailPixels {
		t.Errorf("PlaneLength() = %d, want %d", hdr.PlaneLength(), 2*ThumbnailPixels)
	}
}

func TestParseHeaderVersion6AndAbove(t *testing.T) {
	for _, version := range []byte{6, 7, 9, 255} {
		table := make([]byte, 12+8)
		data := headerFixture(version, table)

		hdr, err := ParseHeader(data, 200)
		if err != nil {
			t.Fatalf("ParseHeader(version=%d) error = %v", version, err)
		}
		if hdr.Layout != LayoutV6 {
			t.Errorf("version %d: Layout = %v, want LayoutV6", version, hdr.Layout)
		}
		if hdr.BlockPrefix() != 4 {
			t.Errorf("version %d: BlockPrefix() = %d, want 4", version, hdr.BlockPrefix())
		}
	}
}

func TestParseHeaderUnsupportedVersion(t *testing.T) {
	for _, version := range []byte{0, 1, 2, 3} {
		data := headerFixture(version, make([]byte, 20))

		_, err := ParseHeader(data, 200)
		var vErr *UnsupportedVersionError
		if !errors.As(err, &vErr) {
			t.Fatalf("ParseHeader(version=%d) error = %v, want UnsupportedVersionError", version, err)
		}
		if vErr.Version != version {
			t.Errorf("UnsupportedVersionError.Version = %d, want %d", vErr.Version, version)
		}
	}
}

func TestParseHeaderTruncatedSizeTable(t *testing.T) {
	// Marker present but the file ends before the size table does.
	data := headerFixture(4, make([]byte, 3))

	if _, err := ParseHeader(data, 200); !errors.Is(err, ErrCorruptBlock) {
		t.Errorf("ParseHeader() error = %v, want ErrCorruptBlock", err)
	}
}
