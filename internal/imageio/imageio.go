// Package imageio encodes preview images as WebP or TGA and decodes them back.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Format is an output image format.
type Format string

const (
	WebP Format = "webp"
	TGA  Format = "tga"
)

// ParseFormat accepts "webp" or "tga" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case WebP, TGA:
		return f, nil
	}
	return "", fmt.Errorf("imageio: unknown format %q", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType is the MIME type served over HTTP.
func (f Format) ContentType() string {
	if f == TGA {
		return "image/x-tga"
	}
	return "image/webp"
}

// Encode writes img in format f. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("imageio: webp encode: %w", err)
		}
	case TGA:
		if err := tga.Encode(w, toNRGBA(img)); err != nil {
			return fmt.Errorf("imageio: tga encode: %w", err)
		}
	default:
		return fmt.Errorf("imageio: unknown format %q", f)
	}
	return nil
}

// EncodeAnimation writes the frames as an animated WebP that loops forever,
// showing each frame for delayMs milliseconds.
func EncodeAnimation(w io.Writer, frames []image.Image, delayMs uint) error {
	if len(frames) == 0 {
		return fmt.Errorf("imageio: animation has no frames")
	}
	ani := &nativewebp.Animation{
		Images:    frames,
		Durations: make([]uint, len(frames)),
		Disposals: make([]uint, len(frames)),
	}
	for i := range frames {
		ani.Durations[i] = delayMs
		// dispose to background between frames
		ani.Disposals[i] = 1
	}
	if err := nativewebp.EncodeAll(w, ani, nil); err != nil {
		return fmt.Errorf("imageio: webp animation: %w", err)
	}
	return nil
}

// WriteFile encodes img to path, choosing the format from the extension.
// Parent directories are created as needed.
func WriteFile(path string, img image.Image) error {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: mkdir %s: %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("imageio: write %s: %w", path, err)
	}
	return nil
}

// Decode reads a WebP or TGA image and returns it as NRGBA.
func Decode(r io.Reader) (*image.NRGBA, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("imageio: read: %w", err)
	}

	var img image.Image
	if bytes.HasPrefix(raw, []byte("RIFF")) {
		img, err = nativewebp.Decode(bytes.NewReader(raw))
	} else {
		// TGA has no magic number
		img, err = tga.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, fmt.Errorf("imageio: decode: %w", err)
	}
	return toNRGBA(img), nil
}

// toNRGBA converts any image to NRGBA format.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha
		draw.Draw(dst, b, src, b.Min, draw.Src)
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.SetNRGBA(x, y, color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA))
			}
		}
	}
	return dst
}
