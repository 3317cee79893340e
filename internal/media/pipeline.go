package media

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // register the webp decoder

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// Preset describes how one variant is derived from the source image.
type Preset struct {
	Name    string
	MaxSide int // bound for the longer side, never upscales
	Width   int // exact output size with center crop when set
	Height  int
	Quality int
}

// Presets are the stored variants in the order they are rendered.
var Presets = []Preset{ //nolint:gochecknoglobals
	{Name: models.SizeLarge, MaxSide: 1920, Quality: 85},
	{Name: models.SizeMedium, MaxSide: 800, Quality: 80},
	{Name: models.SizeThumbnail, Width: 300, Height: 300, Quality: 75},
}

// Renditions holds the encoded output of all presets.
type Renditions struct {
	Large     models.Variant
	Medium    models.Variant
	Thumbnail models.Variant
}

// Apply resizes src according to the preset.
func (p Preset) Apply(src image.Image) image.Image {
	if p.Width > 0 && p.Height > 0 {
		return imaging.Fill(src, p.Width, p.Height, imaging.Center, imaging.Lanczos)
	}

	b := src.Bounds()
	if max(b.Dx(), b.Dy()) <= p.MaxSide {
		return src
	}

	return imaging.Fit(src, p.MaxSide, p.MaxSide, imaging.Lanczos)
}

// CheckDimensions reads only the image header and rejects images whose
// width*height exceeds maxPixels, so oversized rasters are never decoded.
func CheckDimensions(raw []byte, maxPixels int64) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return errors.Wrap(ErrInvalidImage, err.Error())
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.Wrap(ErrInvalidImage, "image has no pixels")
	}

	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return errors.Wrapf(ErrInvalidImage, "%dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxPixels)
	}

	return nil
}

// Decode reads an image, applies its EXIF orientation and flattens
// transparency onto white since variants are stored as JPEG.
func Decode(raw []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidImage, err.Error())
	}

	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		b := img.Bounds()
		bg := imaging.New(b.Dx(), b.Dy(), color.White)
		img = imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
	}

	return img, nil
}

// Render encodes every preset of src.
func Render(src image.Image) (Renditions, error) {
	var out Renditions

	for _, p := range Presets {
		v, err := encode(p.Apply(src), p.Quality)
		if err != nil {
			return Renditions{}, errors.Wrapf(err, "failed to encode %s variant", p.Name)
		}

		switch p.Name {
		case models.SizeLarge:
			out.Large = v
		case models.SizeMedium:
			out.Medium = v
		case models.SizeThumbnail:
			out.Thumbnail = v
		}
	}

	return out, nil
}

// Flip mirrors src on the requested axes.
func Flip(src image.Image, horizontal, vertical bool) image.Image {
	out := src
	if horizontal {
		out = imaging.FlipH(out)
	}

	if vertical {
		out = imaging.FlipV(out)
	}

	return out
}

func encode(img image.Image, quality int) (models.Variant, error) {
	var buf bytes.Buffer

	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return models.Variant{}, err //nolint:wrapcheck
	}

	b := img.Bounds()

	return models.Variant{Data: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}
