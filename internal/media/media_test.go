package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgcpoolandspa/poolsite/internal/db/dbtest"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

// halves is red on the left and blue on the right.
func halves(w, h int) image.Image {
	img := imaging.New(w, h, color.NRGBA{R: 220, A: 255})
	blue := imaging.New(w/2, h, color.NRGBA{B: 220, A: 255})

	return imaging.Paste(img, blue, image.Pt(w/2, 0))
}

func decodeVariant(t *testing.T, v models.Variant) image.Image {
	t.Helper()

	img, err := imaging.Decode(bytes.NewReader(v.Data))
	require.NoError(t, err)

	return img
}

func meanAbsDiff(a, b image.Image) float64 {
	na, nb := imaging.Clone(a), imaging.Clone(b)

	var sum float64

	for i := range na.Pix {
		d := int(na.Pix[i]) - int(nb.Pix[i])
		if d < 0 {
			d = -d
		}

		sum += float64(d)
	}

	return sum / float64(len(na.Pix))
}

func TestPresetApply(t *testing.T) {
	tests := []struct {
		name   string
		preset Preset
		w, h   int
		wantW  int
		wantH  int
	}{
		{name: "large downscale", preset: Presets[0], w: 3000, h: 2000, wantW: 1920, wantH: 1280},
		{name: "large keeps small", preset: Presets[0], w: 400, h: 300, wantW: 400, wantH: 300},
		{name: "medium portrait", preset: Presets[1], w: 1000, h: 2000, wantW: 400, wantH: 800},
		{name: "medium keeps small", preset: Presets[1], w: 400, h: 300, wantW: 400, wantH: 300},
		{name: "thumbnail crop", preset: Presets[2], w: 3000, h: 2000, wantW: 300, wantH: 300},
		{name: "thumbnail upscales", preset: Presets[2], w: 100, h: 50, wantW: 300, wantH: 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.preset.Apply(imaging.New(tt.w, tt.h, color.White))
			assert.Equal(t, tt.wantW, out.Bounds().Dx())
			assert.Equal(t, tt.wantH, out.Bounds().Dy())
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	require.ErrorIs(t, err, ErrInvalidImage)
}

func TestDecodeFlattensTransparency(t *testing.T) {
	img, err := Decode(pngBytes(t, imaging.New(10, 10, color.NRGBA{})))
	require.NoError(t, err)

	r, g, b, a := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

func TestSniff(t *testing.T) {
	up, err := Sniff("pool.png", pngBytes(t, imaging.New(4, 4, color.White)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", up.MimeType)
	assert.Equal(t, "pool.png", up.Filename)

	_, err = Sniff("notes.txt", []byte("hello world, this is text"))
	require.ErrorIs(t, err, ErrNotAnImage)
}

func TestIngest(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)

	m, err := svc.Ingest(context.Background(), Upload{
		Filename: "big.png",
		MimeType: "image/png",
		Data:     pngBytes(t, imaging.New(3000, 2000, color.NRGBA{G: 128, A: 255})),
	})
	require.NoError(t, err)
	require.NotZero(t, m.ID)

	assert.Equal(t, 1, m.Version)
	assert.Equal(t, 1920, m.Large.Width)
	assert.Equal(t, 1280, m.Large.Height)
	assert.Equal(t, 800, m.Medium.Width)
	assert.Equal(t, 533, m.Medium.Height)
	assert.Equal(t, 300, m.Thumbnail.Width)
	assert.Equal(t, 300, m.Thumbnail.Height)

	thumb := decodeVariant(t, m.Thumbnail)
	assert.Equal(t, 300, thumb.Bounds().Dx())
	assert.Equal(t, 300, thumb.Bounds().Dy())
}

func TestIngestSmallImageKeepsSize(t *testing.T) {
	db := dbtest.Open(t)

	m, err := NewService(db).Ingest(context.Background(), Upload{
		Filename: "small.png",
		Data:     pngBytes(t, imaging.New(400, 300, color.White)),
	})
	require.NoError(t, err)

	assert.Equal(t, 400, m.Large.Width)
	assert.Equal(t, 300, m.Large.Height)
	assert.Equal(t, 400, m.Medium.Width)
	assert.Equal(t, 300, m.Medium.Height)
}

func TestIngestInvalidStoresNothing(t *testing.T) {
	db := dbtest.Open(t)

	_, err := NewService(db).Ingest(context.Background(), Upload{Filename: "broken.jpg", Data: []byte{0xff, 0xd8, 0xff, 0x00}})
	require.ErrorIs(t, err, ErrInvalidImage)

	var count int64
	require.NoError(t, db.Model(&models.Media{}).Count(&count).Error)
	assert.Zero(t, count)
}

// pngHeader returns a PNG signature and IHDR chunk announcing w x h 8 bit
// grayscale. It carries no pixel data, only the header is ever read.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth, color type 0, default compression/filter/interlace

	chunk := append([]byte("IHDR"), ihdr...)

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))

	return buf.Bytes()
}

func TestCheckDimensions(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		max     int64
		wantErr bool
	}{
		{name: "within default", raw: pngHeader(4000, 3000), max: DefaultMaxPixels},
		{name: "at ceiling", raw: pngHeader(100, 100), max: 10_000},
		{name: "above ceiling", raw: pngHeader(101, 100), max: 10_000, wantErr: true},
		{name: "huge raster", raw: pngHeader(12000, 12000), max: DefaultMaxPixels, wantErr: true},
		{name: "garbage", raw: []byte("not an image"), max: DefaultMaxPixels, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDimensions(tt.raw, tt.max)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrInvalidImage)
		})
	}
}

func TestIngestRejectsHugeRaster(t *testing.T) {
	db := dbtest.Open(t)

	up, err := Sniff("bomb.png", pngHeader(12000, 12000))
	require.NoError(t, err, "header passes the type filter")

	_, err = NewService(db).Ingest(context.Background(), up)
	require.ErrorIs(t, err, ErrInvalidImage)
	assert.Contains(t, err.Error(), "12000x12000 exceeds")

	var count int64
	require.NoError(t, db.Model(&models.Media{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestIngestHonoursConfiguredCeiling(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db, WithMaxPixels(100*100))

	_, err := svc.Ingest(context.Background(), Upload{
		Filename: "wide.png",
		Data:     pngBytes(t, imaging.New(200, 100, color.White)),
	})
	require.ErrorIs(t, err, ErrInvalidImage)

	m, err := svc.Ingest(context.Background(), Upload{
		Filename: "square.png",
		Data:     pngBytes(t, imaging.New(100, 100, color.White)),
	})
	require.NoError(t, err)
	assert.Equal(t, 100, m.Large.Width)

	var count int64
	require.NoError(t, db.Model(&models.Media{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFlipRoundTrip(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	orig, err := svc.Ingest(ctx, Upload{Filename: "halves.png", Data: pngBytes(t, halves(400, 300))})
	require.NoError(t, err)

	before := decodeVariant(t, orig.Large)

	flipped, err := svc.Flip(ctx, orig.ID, true, false)
	require.NoError(t, err)
	assert.True(t, flipped.FlipHorizontal)
	assert.False(t, flipped.FlipVertical)
	assert.Equal(t, 2, flipped.Version)

	mirrored := decodeVariant(t, flipped.Large)
	r, _, b, _ := mirrored.At(10, 150).RGBA()
	assert.Greater(t, b, r, "left edge should be blue after a horizontal flip")

	back, err := svc.Flip(ctx, orig.ID, true, false)
	require.NoError(t, err)
	assert.False(t, back.FlipHorizontal)
	assert.Equal(t, 3, back.Version)

	after := decodeVariant(t, back.Large)
	require.Equal(t, before.Bounds().Size(), after.Bounds().Size())
	assert.Less(t, meanAbsDiff(before, after), 8.0)
}

func TestFlipNeedsAxis(t *testing.T) {
	_, err := NewService(dbtest.Open(t)).Flip(context.Background(), 1, false, false)
	require.ErrorIs(t, err, ErrNoFlipAxis)
}

func TestImageFallsBackToMedium(t *testing.T) {
	db := dbtest.Open(t)
	svc := NewService(db)
	ctx := context.Background()

	m, err := svc.Ingest(ctx, Upload{Filename: "p.png", Data: pngBytes(t, imaging.New(50, 50, color.White))})
	require.NoError(t, err)

	data, ct, err := svc.Image(ctx, m.ID, "")
	require.NoError(t, err)
	assert.Equal(t, ContentType, ct)
	assert.Equal(t, m.Medium.Data, data)

	data, _, err = svc.Image(ctx, m.ID, "poster")
	require.NoError(t, err)
	assert.Equal(t, m.Medium.Data, data)

	require.NoError(t, db.Model(&models.Media{}).Where("id = ?", m.ID).
		Update("thumbnail_data", nil).Error)

	data, _, err = svc.Image(ctx, m.ID, models.SizeThumbnail)
	require.NoError(t, err)
	assert.Equal(t, m.Medium.Data, data)

	_, _, err = svc.Image(ctx, m.ID+100, models.SizeLarge)
	require.Error(t, err)
}
