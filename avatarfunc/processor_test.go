package avatarfunc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Prefix:  "avatars/",
		Suffix:  "_processed",
		MaxSide: 512,
		Format:  "jpeg",
		Quality: 80,
	}
}

func encodeTestImage(t *testing.T, width, height int, fill color.Color) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessDownscalesLongerSide(t *testing.T) {
	p, err := NewProcessor(testConfig())
	require.NoError(t, err)

	out, err := p.Process(encodeTestImage(t, 1024, 768, color.NRGBA{R: 200, G: 10, B: 10, A: 255}))
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, 512, decoded.Bounds().Dx())
	assert.Equal(t, 384, decoded.Bounds().Dy())
}

func TestProcessNeverUpscales(t *testing.T) {
	p, err := NewProcessor(testConfig())
	require.NoError(t, err)

	out, err := p.Process(encodeTestImage(t, 100, 80, color.NRGBA{R: 10, G: 200, B: 10, A: 255}))
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 80, decoded.Bounds().Dy())
}

func TestProcessFlattensAlphaOntoWhite(t *testing.T) {
	p, err := NewProcessor(testConfig())
	require.NoError(t, err)

	out, err := p.Process(encodeTestImage(t, 64, 64, color.NRGBA{A: 0}))
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	r, g, b, _ := decoded.At(32, 32).RGBA()
	assert.Greater(t, r>>8, uint32(250))
	assert.Greater(t, g>>8, uint32(250))
	assert.Greater(t, b>>8, uint32(250))
}

func TestProcessRejectsGarbage(t *testing.T) {
	p, err := NewProcessor(testConfig())
	require.NoError(t, err)

	_, err = p.Process([]byte("not an image"))
	assert.Error(t, err)
}

func TestNewProcessorRejectsUnknownFormat(t *testing.T) {
	cfg := testConfig()
	cfg.Format = "tga"

	_, err := NewProcessor(cfg)
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", "image/jpeg"},
		{"png", "image/png"},
		{"gif", "image/gif"},
	}

	for _, tc := range tests {
		t.Run(tc.format, func(t *testing.T) {
			cfg := testConfig()
			cfg.Format = tc.format

			p, err := NewProcessor(cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.ContentType())
		})
	}
}
