package avatarfunc

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

type Processor struct {
	maxSide int
	format  imaging.Format
	quality int
}

func NewProcessor(cfg *Config) (*Processor, error) {
	format, err := imaging.FormatFromExtension(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("unsupported target format %q: %w", cfg.Format, err)
	}

	return &Processor{
		maxSide: cfg.MaxSide,
		format:  format,
		quality: cfg.Quality,
	}, nil
}

func (p *Processor) ContentType() string {
	switch p.format {
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// Process decodes with EXIF orientation applied, flattens any alpha onto a
// white background, downscales so the longer side fits maxSide (never
// upscales) and re-encodes to the target format.
func (p *Processor) Process(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	img = flatten(img)

	bounds := img.Bounds()
	if bounds.Dx() > p.maxSide || bounds.Dy() > p.maxSide {
		img = imaging.Fit(img, p.maxSide, p.maxSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, p.format, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return buf.Bytes(), nil
}

func flatten(img image.Image) image.Image {
	background := imaging.New(img.Bounds().Dx(), img.Bounds().Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}
