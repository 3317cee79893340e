package daemon

import (
	"bytes"
	"context"
	"image/color"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rgcpoolandspa/poolsite/internal/db/controller/slug"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/media"
)

// SeedResult counts the rows inserted by Seed.
type SeedResult struct {
	Services  int
	Products  int
	Portfolio int
	Events    int
	Media     int
}

var sampleServices = []models.Service{
	{Name: "Pool Installation", Description: "Inground and above ground pools installed start to finish.", Icon: "pool", Order: 1},
	{Name: "Spa & Hot Tub Sales", Description: "Hot tubs and swim spas for every backyard.", Icon: "spa", Order: 2},
	{Name: "Pool Openings & Closings", Description: "Seasonal service so your pool is ready when you are.", Icon: "calendar", Order: 3},
	{Name: "Repairs & Maintenance", Description: "Liners, pumps, heaters and filters serviced.", Icon: "wrench", Order: 4},
}

// Seed inserts sample services, products, portfolio items and events with
// generated placeholder images. It does nothing when services already exist.
func Seed(ctx context.Context, db *gorm.DB, ms *media.Service) (SeedResult, error) {
	var res SeedResult

	var count int64
	if err := db.WithContext(ctx).Model(&models.Service{}).Count(&count).Error; err != nil {
		return res, errors.Wrap(err, "failed to count services")
	}

	if count > 0 {
		log.Info().Int64("services", count).Msg("sample data already present, skipping")
		return res, nil
	}

	for i := range sampleServices {
		svc := sampleServices[i]
		svc.Active = true
		svc.Featured = i < 3

		if err := db.WithContext(ctx).Create(&svc).Error; err != nil {
			return res, errors.Wrap(err, "failed to create service")
		}

		res.Services++
	}

	palette := []color.NRGBA{
		{R: 0x1e, G: 0x88, B: 0xe5, A: 0xff},
		{R: 0x00, G: 0xac, B: 0xc1, A: 0xff},
		{R: 0x43, G: 0xa0, B: 0x47, A: 0xff},
	}

	images := make([]uint64, 0, len(palette))

	for i, c := range palette {
		m, err := placeholder(ctx, ms, i, c)
		if err != nil {
			return res, err
		}

		images = append(images, m.ID)
		res.Media++
	}

	products := []models.Product{
		{
			Name:        "Fiberglass Inground Pool",
			Description: "A one piece fiberglass shell with a smooth, durable finish.",
			Sizes: []models.SizeOption{
				{Label: "12x24", Value: "12x24"},
				{Label: "14x28", Value: "14x28"},
				{Label: "16x32", Value: "16x32"},
			},
			ShowContactForm: true,
			Featured:        true,
		},
		{
			Name:            "Six Seat Hot Tub",
			Description:     "Seats six with a lounger and LED lighting.",
			ShowContactForm: true,
		},
	}

	for i := range products {
		p := &products[i]
		p.Active = true
		p.Images = images
		featured := images[i%len(images)]
		p.FeaturedImageID = &featured

		var err error
		if p.Slug, err = slug.ForCreate(db, &models.Product{}, "", p.Name); err != nil {
			return res, err
		}

		if err = db.WithContext(ctx).Create(p).Error; err != nil {
			return res, errors.Wrap(err, "failed to create product")
		}

		res.Products++
	}

	items := []models.Portfolio{
		{Title: "Backyard Oasis", Description: "A 16x32 inground pool with a stamped concrete deck."},
		{Title: "Lakeside Spa Deck", Description: "A hot tub set into a custom cedar deck."},
	}

	for i := range items {
		it := &items[i]
		it.Active = true
		it.Featured = true
		it.Images = images[i:]
		featured := images[i]
		it.FeaturedImageID = &featured

		var err error
		if it.Slug, err = slug.ForCreate(db, &models.Portfolio{}, "", it.Title); err != nil {
			return res, err
		}

		if err = db.WithContext(ctx).Create(it).Error; err != nil {
			return res, errors.Wrap(err, "failed to create portfolio item")
		}

		res.Portfolio++
	}

	now := time.Now()
	openHouseEnd := now.AddDate(0, 0, 15)
	events := []models.Event{
		{Title: "Spring Open House", Description: "Tour our showroom and try a hot tub.", StartDate: now.AddDate(0, 0, 14), EndDate: &openHouseEnd, Location: "Showroom"},
		{Title: "Pool Opening Season", Description: "Book your opening early.", StartDate: now.AddDate(0, 1, 0), AllDay: true},
	}

	for i := range events {
		events[i].Active = true

		if err := db.WithContext(ctx).Create(&events[i]).Error; err != nil {
			return res, errors.Wrap(err, "failed to create event")
		}

		res.Events++
	}

	return res, nil
}

func placeholder(ctx context.Context, ms *media.Service, n int, c color.NRGBA) (*models.Media, error) {
	img := imaging.New(1600, 900, c)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "failed to encode placeholder")
	}

	up, err := media.Sniff("sample-"+string(rune('a'+n))+".png", buf.Bytes())
	if err != nil {
		return nil, err
	}

	return ms.Ingest(ctx, up)
}
