package media

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	mediactl "github.com/rgcpoolandspa/poolsite/internal/db/controller/media"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// ContentType of every stored variant.
const ContentType = "image/jpeg"

// DefaultMaxPixels bounds the decoded size of an upload, about 50 megapixels.
const DefaultMaxPixels = 50_000_000

// Service ingests, flips and serves media.
type Service struct {
	db        *gorm.DB
	maxPixels int64
}

// Option configures a Service.
type Option func(*Service)

// WithMaxPixels sets the largest width*height accepted by Ingest.
// Values <= 0 keep DefaultMaxPixels.
func WithMaxPixels(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPixels = n
		}
	}
}

// NewService creates a media service on db.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, maxPixels: DefaultMaxPixels}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ingest decodes up, renders all variants and stores a new media row.
// Nothing is stored when decoding or encoding fails.
func (s *Service) Ingest(ctx context.Context, up Upload) (m *models.Media, err error) {
	start := time.Now()
	defer func() { observe("ingest", time.Since(start).Seconds(), err) }()

	if err = CheckDimensions(up.Data, s.maxPixels); err != nil {
		return nil, err
	}

	img, err := Decode(up.Data)
	if err != nil {
		return nil, err
	}

	r, err := Render(img)
	if err != nil {
		return nil, err
	}

	m = &models.Media{
		OriginalName: up.Filename,
		MimeType:     up.MimeType,
		Size:         int64(len(up.Data)),
		Version:      1,
		Large:        r.Large,
		Medium:       r.Medium,
		Thumbnail:    r.Thumbnail,
	}

	if err = s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, errors.Wrap(err, "failed to store media")
	}

	return m, nil
}

// Flip mirrors the stored image on the requested axes and re-renders all
// variants from the large variant. Each requested axis toggles its flag.
func (s *Service) Flip(ctx context.Context, id uint64, horizontal, vertical bool) (m *models.Media, err error) {
	if !horizontal && !vertical {
		return nil, ErrNoFlipAxis
	}

	start := time.Now()
	defer func() { observe("flip", time.Since(start).Seconds(), err) }()

	tx := s.db.WithContext(ctx)

	m, err = mediactl.Get(tx, id)
	if err != nil {
		return nil, err
	}

	src, err := Decode(m.Large.Data)
	if err != nil {
		return nil, err
	}

	r, err := Render(Flip(src, horizontal, vertical))
	if err != nil {
		return nil, err
	}

	m.Large, m.Medium, m.Thumbnail = r.Large, r.Medium, r.Thumbnail
	m.FlipHorizontal = m.FlipHorizontal != horizontal
	m.FlipVertical = m.FlipVertical != vertical
	m.Version++

	if err = tx.Save(m).Error; err != nil {
		return nil, errors.Wrap(err, "failed to store flipped media")
	}

	return m, nil
}

// Image returns the stored bytes for size. Empty or unknown sizes resolve to
// medium, and a missing variant falls back to medium.
func (s *Service) Image(ctx context.Context, id uint64, size string) ([]byte, string, error) {
	switch size {
	case models.SizeLarge, models.SizeMedium, models.SizeThumbnail:
	default:
		size = models.SizeMedium
	}

	requested, medium, err := mediactl.Variant(s.db.WithContext(ctx), id, size)
	if err != nil {
		return nil, "", err
	}

	switch {
	case len(requested) > 0:
		return requested, ContentType, nil
	case len(medium) > 0:
		return medium, ContentType, nil
	}

	return nil, "", mediactl.ErrNotFound
}
