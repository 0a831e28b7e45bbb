// Command zbpthumb extracts the embedded 96x96 preview from a ZBrush
// preset file and writes it as a PNG, or as a raw RGBA buffer with -raw.
//
// Usage:
//
//	zbpthumb [-o output.png] [-tone] [-raw] preset.zbp
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"brushvault/internal/zbp"
)

func main() {
	var (
		output = flag.String("o", "", "output path (default: input name with .png, or .rgba with -raw)")
		tone   = flag.Bool("tone", false, "apply the alpha tone boost used for brush previews")
		raw    = flag.Bool("raw", false, "write the raw 96x96 RGBA buffer instead of a PNG")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] preset.zbp\n\nFlags:\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	input := flag.Arg(0)

	if err := run(input, *output, *tone, *raw); err != nil {
		fmt.Fprintf(os.Stderr, "zbpthumb: %v\n", err)
		os.Exit(1)
	}
}

func run(input, output string, tone, raw bool) error {
	pixels, err := zbp.ExtractFile(input, zbp.Options{ToneAdjust: tone})
	if err != nil {
		return fmt.Errorf("extract %s: %w", input, err)
	}

	if output == "" {
		output = defaultOutput(input, raw)
	}

	if raw {
		if err := os.WriteFile(output, pixels, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		fmt.Printf("Wrote %s (%d bytes raw RGBA)\n", output, len(pixels))
		return nil
	}

	img := &image.RGBA{
		Pix:    pixels,
		Stride: zbp.ThumbnailWidth * 4,
		Rect:   image.Rect(0, 0, zbp.ThumbnailWidth, zbp.ThumbnailHeight),
	}
	if err := imaging.Save(img, output); err != nil {
		return fmt.Errorf("save %s: %w", output, err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", output, zbp.ThumbnailWidth, zbp.ThumbnailHeight)
	return nil
}

// defaultOutput derives the output path next to the input file.
func defaultOutput(input string, raw bool) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	if raw {
		return stem + ".rgba"
	}
	return stem + ".png"
}
