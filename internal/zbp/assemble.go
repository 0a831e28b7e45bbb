package zbp

// Preview dimensions are fixed by the file format.
const (
	ThumbnailWidth  = 96
	ThumbnailHeight = 96
	ThumbnailPixels = ThumbnailWidth * ThumbnailHeight
	// ThumbnailBytes is the exact size of an assembled RGBA preview.
	ThumbnailBytes = ThumbnailPixels * 4
)

// PlaneSlot locates one sub-channel's planar data: the decoded plane that
// holds it and the byte offset of its first pixel within that plane.
type PlaneSlot struct {
	Plane  int
	Offset int
}

// PlaneLayout maps the four sub-channels (indexes 0..3, stored as R, G, B,
// A) to their source slots. The four-block layout carries one channel per
// plane. For the two-block layouts the pairing is not documented anywhere
// authoritative; TwoPlaneLayout is the pairing validated against known-good
// files, and Assemble takes the layout as an argument so a different
// pairing can be supplied without touching the decoder.
type PlaneLayout [4]PlaneSlot

var (
	// FourPlaneLayout: plane k carries sub-channel k in full.
	FourPlaneLayout = PlaneLayout{{0, 0}, {1, 0}, {2, 0}, {3, 0}}

	// TwoPlaneLayout: plane 0 carries sub-channels 0 and 1, plane 1
	// carries 2 and 3, each as a contiguous 9 216-byte run.
	TwoPlaneLayout = PlaneLayout{
		{0, 0}, {0, ThumbnailPixels},
		{1, 0}, {1, ThumbnailPixels},
	}
)

// planeLayout returns the default plane mapping for a header layout.
func (l Layout) planeLayout() PlaneLayout {
	if l == LayoutV4 {
		return FourPlaneLayout
	}
	return TwoPlaneLayout
}

// Assemble interleaves decoded planar data into a packed 96×96 RGBA
// buffer of exactly ThumbnailBytes bytes.
//
// For every pixel the four sub-channel bytes are written in order; when
// the alpha byte (sub-channel 3) lands, the red and blue bytes already
// written for that pixel are swapped, exactly once. If toneAdjust is set
// the alpha byte is then replaced with min(a*a/2, 255) where a is the
// alpha value before adjustment.
//
// The planes must together hold exactly ThumbnailBytes bytes and each
// slot's run must fit inside its plane; anything else is ErrCorruptBlock.
func Assemble(planes [][]byte, layout PlaneLayout, toneAdjust bool) ([]byte, error) {
	total := 0
	for _, p := range planes {
		total += len(p)
	}
	if total != ThumbnailBytes {
		return nil, ErrCorruptBlock
	}
	for _, slot := range layout {
		if slot.Plane >= len(planes) || slot.Offset+ThumbnailPixels > len(planes[slot.Plane]) {
			return nil, ErrCorruptBlock
		}
	}

	out := make([]byte, ThumbnailBytes)
	for px := 0; px < ThumbnailPixels; px++ {
		base := px * 4
		for ch := 0; ch < 4; ch++ {
			slot := layout[ch]
			out[base+ch] = planes[slot.Plane][slot.Offset+px]

			if ch != 3 {
				continue
			}
			// Stored pixel order is BGRA; swapping red and blue at
			// alpha-write time yields RGBA.
			out[base], out[base+2] = out[base+2], out[base]

			if toneAdjust {
				out[base+3] = boostAlpha(out[base+3])
			}
		}
	}
	return out, nil
}

// boostAlpha applies the non-linear tone curve min(a²/2, 255). It is not
// idempotent and must run at most once per pixel.
func boostAlpha(a byte) byte {
	v := int(a) * int(a) / 2
	if v > 255 {
		return 255
	}
	return byte(v)
}
