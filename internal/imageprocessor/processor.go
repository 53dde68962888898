package imageprocessor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // регистрирует декодер GIF
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// ImageSize represents a target image size
type ImageSize struct {
	Name   string
	Width  int
	Height int
}

// SizeAvatar - размер аватара пользователя
var SizeAvatar = ImageSize{Name: "avatar", Width: 250, Height: 250}

// Processor handles image processing operations
type Processor struct {
	quality int // JPEG quality (1-100)
}

// NewProcessor creates a new image processor
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Processor{
		quality: quality,
	}
}

// ProcessImage decodes the image, fills the target size exactly (center crop
// to the target aspect ratio, then scale) and encodes it in the given format.
func (p *Processor) ProcessImage(reader io.Reader, size ImageSize, format string) (io.Reader, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", size.Width, size.Height)
	}

	img, _, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := p.fill(img, size.Width, size.Height)

	var buf bytes.Buffer
	switch format {
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
	case "png":
		if err := png.Encode(&buf, resized); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	return &buf, nil
}

// fill crops the largest centered region with the target aspect ratio and scales it
func (p *Processor) fill(img image.Image, width, height int) image.Image {
	src := img.Bounds()
	srcW, srcH := src.Dx(), src.Dy()

	crop := src
	if srcW*height > srcH*width {
		// слишком широкое - режем по бокам
		cropW := srcH * width / height
		x0 := src.Min.X + (srcW-cropW)/2
		crop = image.Rect(x0, src.Min.Y, x0+cropW, src.Max.Y)
	} else if srcW*height < srcH*width {
		cropH := srcW * height / width
		y0 := src.Min.Y + (srcH-cropH)/2
		crop = image.Rect(src.Min.X, y0, src.Max.X, y0+cropH)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// белый фон для прозрачных PNG/GIF при сохранении в JPEG
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	return dst
}

// GetImageDimensions returns the dimensions of an image
func GetImageDimensions(reader io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
