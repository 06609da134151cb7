package renderer

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-bvh-pathtracer/pkg/core"
)

// Gamma applied when converting radiance to 8-bit output
const outputGamma = 0.6

// Framebuffer is a row-major grid of linear radiance values
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewFramebuffer creates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// At returns the radiance of pixel (x, y)
func (f *Framebuffer) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Set stores the radiance of pixel (x, y)
func (f *Framebuffer) Set(x, y int, c core.Vec3) {
	f.Pixels[y*f.Width+x] = c
}

// toByte clamps a channel to [0,1], applies the output gamma and scales to 0..255
func toByte(value float64) byte {
	if math.IsNaN(value) {
		value = 0
	}
	value = math.Max(0, math.Min(1, value))
	return byte(255 * math.Pow(value, outputGamma))
}

// WritePPM writes the frame as a binary (P6) PPM
func (f *Framebuffer) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", f.Width, f.Height); err != nil {
		return err
	}

	rgb := make([]byte, 3)
	for _, p := range f.Pixels {
		rgb[0], rgb[1], rgb[2] = toByte(p.X), toByte(p.Y), toByte(p.Z)
		if _, err := bw.Write(rgb); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Image converts the frame to an 8-bit image with the same tone mapping as WritePPM
func (f *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			p := f.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: toByte(p.X), G: toByte(p.Y), B: toByte(p.Z), A: 255})
		}
	}
	return img
}

// WritePNG writes the frame as a PNG
func (f *Framebuffer) WritePNG(w io.Writer) error {
	return png.Encode(w, f.Image())
}

// Save writes the frame to path, as PNG when the extension is .png and PPM otherwise
func (f *Framebuffer) Save(path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("renderer: creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("renderer: creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	if strings.EqualFold(filepath.Ext(path), ".png") {
		return f.WritePNG(file)
	}
	return f.WritePPM(file)
}

// AverageLuminance returns the mean luminance of the linear radiance values
func (f *Framebuffer) AverageLuminance() float64 {
	if len(f.Pixels) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range f.Pixels {
		sum += p.Luminance()
	}
	return sum / float64(len(f.Pixels))
}
