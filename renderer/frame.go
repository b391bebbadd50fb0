package renderer

import (
	"image"
	"image/color"
)

// An 8-bit RGB frame. Rows are stored top to bottom.
type Frame struct {
	W, H uint32
	Pix  []uint8
}

func NewFrame(w, h uint32) *Frame {
	return &Frame{
		W:   w,
		H:   h,
		Pix: make([]uint8, w*h*3),
	}
}

// Get the color of the pixel at column x of storage row y.
func (f *Frame) At(x, y uint32) color.RGBA {
	offset := (y*f.W + x) * 3
	return color.RGBA{f.Pix[offset], f.Pix[offset+1], f.Pix[offset+2], 255}
}

// Convert the frame to an opaque image.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(f.W), int(f.H)))
	for src, dst := 0, 0; src < len(f.Pix); src, dst = src+3, dst+4 {
		img.Pix[dst] = f.Pix[src]
		img.Pix[dst+1] = f.Pix[src+1]
		img.Pix[dst+2] = f.Pix[src+2]
		img.Pix[dst+3] = 255
	}
	return img
}
