package zbp

import (
	"errors"
	"testing"
)

func TestFindMagic(t *testing.T) {
	t.Run("match at start of scan region", func(t *testing.T) {
		data := make([]byte, 300)
		copy(data[200:], magic)

		off, err := FindMagic(data)
		if err != nil {
			t.Fatalf("FindMagic() error = %v", err)
		}
		if off != 200 {
			t.Errorf("FindMagic() = %d, want 200", off)
		}
	})

	t.Run("match past scan region start", func(t *testing.T) {
		data := make([]byte, 400)
		copy(data[237:], magic)

		off, err := FindMagic(data)
		if err != nil {
			t.Fatalf("FindMagic() error = %v", err)
		}
		if off != 237 {
			t.Errorf("FindMagic() = %d, want 237", off)
		}
	})

	t.Run("pattern inside header region is ignored", func(t *testing.T) {
		data := make([]byte, 400)
		copy(data[50:], magic) // decoy inside the fixed header
		copy(data[260:], magic)

		off, err := FindMagic(data)
		if err != nil {
			t.Fatalf("FindMagic() error = %v", err)
		}
		if off != 260 {
			t.Errorf("FindMagic() = %d, want 260", off)
		}
	})

	t.Run("pattern only inside header region", func(t *testing.T) {
		data := make([]byte, 400)
		copy(data[50:], magic)

		if _, err := FindMagic(data); !errors.Is(err, ErrMagicNotFound) {
			t.Errorf("FindMagic() error = %v, want ErrMagicNotFound", err)
		}
	})

	t.Run("pattern straddling the boundary", func(t *testing.T) {
		// First byte of the marker lands at 196; a match may only be
		// reported at offset >= 200.
		data := make([]byte, 400)
		copy(data[196:], magic)

		if _, err := FindMagic(data); !errors.Is(err, ErrMagicNotFound) {
			t.Errorf("FindMagic() error = %v, want ErrMagicNotFound", err)
		}
	})

	t.Run("input shorter than header plus marker", func(t *testing.T) {
		for _, n := range []int{0, 1, 199, 200, 207} {
			data := make([]byte, n)
			if _, err := FindMagic(data); !errors.Is(err, ErrMagicNotFound) {
				t.Errorf("FindMagic(len=%d) error = %v, want ErrMagicNotFound", n, err)
			}
		}
	})

	t.Run("no match", func(t *testing.T) {
		data := make([]byte, 1000)
		for i := range data {
			data[i] = 0xFF
		}
		if _, err := FindMagic(data); !errors.Is(err, ErrMagicNotFound) {
			t.Errorf("FindMagic() error = %v, want ErrMagicNotFound", err)
		}
	})
}
