package zbp

import (
	"errors"
	"testing"
)

func constPlane(n int, v byte) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = v
	}
	return p
}

func TestAssembleSwapsRedAndBlue(t *testing.T) {
	planes := [][]byte{
		constPlane(ThumbnailPixels, 1), // stored sub-channel 0
		constPlane(ThumbnailPixels, 2),
		constPlane(ThumbnailPixels, 3),
		constPlane(ThumbnailPixels, 4), // alpha
	}

	out, err := Assemble(planes, FourPlaneLayout, false)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(out) != ThumbnailBytes {
		t.Fatalf("len(out) = %d, want %d", len(out), ThumbnailBytes)
	}

	// The swap runs exactly once per pixel: stored [1 2 3 4] must come
	// out as [3 2 1 4], never [1 2 3 4] (no swap) or a double swap back.
	for px := 0; px < ThumbnailPixels; px++ {
		got := [4]byte{out[px*4], out[px*4+1], out[px*4+2], out[px*4+3]}
		if got != [4]byte{3, 2, 1, 4} {
			t.Fatalf("pixel %d = %v, want [3 2 1 4]", px, got)
		}
	}
}

func TestAssembleTwoPlaneLayout(t *testing.T) {
	p0 := append(constPlane(ThumbnailPixels, 1), constPlane(ThumbnailPixels, 2)...)
	p1 := append(constPlane(ThumbnailPixels, 3), constPlane(ThumbnailPixels, 4)...)

	out, err := Assemble([][]byte{p0, p1}, TwoPlaneLayout, false)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	got := [4]byte{out[0], out[1], out[2], out[3]}
	if got != [4]byte{3, 2, 1, 4} {
		t.Errorf("pixel 0 = %v, want [3 2 1 4]", got)
	}
}

func TestBoostAlpha(t *testing.T) {
	tests := []struct {
		alpha byte
		want  byte
	}{
		{0, 0},
		{10, 50},
		{20, 200},
		{22, 242},
		{23, 255}, // 23*23/2 = 264, capped
		{200, 255},
		{255, 255},
	}

	for _, tt := range tests {
		if got := boostAlpha(tt.alpha); got != tt.want {
			t.Errorf("boostAlpha(%d) = %d, want %d", tt.alpha, got, tt.want)
		}
	}
}

func TestBoostAlphaNotIdempotent(t *testing.T) {
	// The curve is not idempotent; re-applying it must change the value.
	// Assemble therefore has to apply it at most once per pixel.
	once := boostAlpha(10)
	twice := boostAlpha(once)
	if once == twice {
		t.Fatalf("boostAlpha(boostAlpha(10)) = %d, expected it to differ from %d", twice, once)
	}
}

func TestAssembleToneAdjustUsesPreAdjustmentAlpha(t *testing.T) {
	planes := [][]byte{
		constPlane(ThumbnailPixels, 0),
		constPlane(ThumbnailPixels, 0),
		constPlane(ThumbnailPixels, 0),
		constPlane(ThumbnailPixels, 10),
	}

	out, err := Assemble(planes, FourPlaneLayout, true)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	for px := 0; px < ThumbnailPixels; px++ {
		if out[px*4+3] != 50 {
			t.Fatalf("pixel %d alpha = %d, want 50", px, out[px*4+3])
		}
	}
}

func TestAssembleSizeMismatch(t *testing.T) {
	tests := []struct {
		name   string
		planes [][]byte
	}{
		{
			name: "short plane",
			planes: [][]byte{
				constPlane(ThumbnailPixels, 1),
				constPlane(ThumbnailPixels, 2),
				constPlane(ThumbnailPixels, 3),
				constPlane(ThumbnailPixels-1, 4),
			},
		},
		{
			name: "oversized plane",
			planes: [][]byte{
				constPlane(ThumbnailPixels+4, 1),
				constPlane(ThumbnailPixels, 2),
				constPlane(ThumbnailPixels, 3),
				constPlane(ThumbnailPixels, 4),
			},
		},
		{
			name:   "no planes",
			planes: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Assemble(tt.planes, FourPlaneLayout, false); !errors.Is(err, ErrCorruptBlock) {
				t.Errorf("Assemble() error = %v, want ErrCorruptBlock", err)
			}
		})
	}
}
