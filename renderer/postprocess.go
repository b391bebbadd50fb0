package renderer

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// A stage executed on each completed frame.
type PostProcessStage func(ctx context.Context, frame *Frame) error

// Save the frame to an image file. The format is selected by the file
// extension (.png, .jpg or .jpeg).
func SaveFrameBuffer(imgFile string) PostProcessStage {
	return func(_ context.Context, frame *Frame) error {
		return writeImage(imgFile, frame.ToImage())
	}
}

// Save a downscaled copy of the frame that is width pixels wide. The
// aspect ratio is preserved.
func SaveThumbnail(imgFile string, width uint) PostProcessStage {
	return func(_ context.Context, frame *Frame) error {
		if width == 0 {
			return fmt.Errorf("renderer: thumbnail width must be non-zero")
		}
		thumb := resize.Resize(width, 0, frame.ToImage(), resize.Lanczos3)
		return writeImage(imgFile, thumb)
	}
}

func writeImage(imgFile string, img image.Image) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = encodeImage(f, filepath.Ext(imgFile), img); err != nil {
		return fmt.Errorf("renderer: could not encode %s: %w", imgFile, err)
	}

	return f.Close()
}

func encodeImage(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case ".png", "":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", ext)
	}
}
