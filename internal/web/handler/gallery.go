package handler

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	mediactl "github.com/rgcpoolandspa/poolsite/internal/db/controller/media"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
)

// Gallery is the resolved media of a product or portfolio item. Featured is
// nil when the reference is unset or dangling and Images skips dangling ids.
type Gallery struct {
	Featured *models.Media
	Images   []*models.Media
}

// ResolveGallery loads the media referenced by featured and images. The
// featured image defaults to the first resolvable image.
func ResolveGallery(db *gorm.DB, featured *uint64, images []uint64) (Gallery, error) {
	ids := append([]uint64{}, images...)
	if featured != nil {
		ids = append(ids, *featured)
	}

	found, err := mediactl.Lookup(db, ids)
	if err != nil {
		return Gallery{}, err
	}

	var g Gallery

	for _, id := range images {
		if m, ok := found[id]; ok {
			g.Images = append(g.Images, m)
		}
	}

	if featured != nil {
		g.Featured = found[*featured]
	}

	if g.Featured == nil && len(g.Images) > 0 {
		g.Featured = g.Images[0]
	}

	return g, nil
}

// ResolveOne loads a single optional media reference, nil when unset or dangling.
func ResolveOne(db *gorm.DB, id *uint64) (*models.Media, error) {
	if id == nil {
		return nil, nil //nolint:nilnil
	}

	found, err := mediactl.Lookup(db, []uint64{*id})
	if err != nil {
		return nil, err
	}

	return found[*id], nil
}

// Covers resolves the first resolvable media id of every list in one query.
// The result has one entry per list, nil when none of its ids resolve.
func Covers(db *gorm.DB, lists [][]uint64) ([]*models.Media, error) {
	var ids []uint64
	for _, l := range lists {
		ids = append(ids, l...)
	}

	found, err := mediactl.Lookup(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Media, len(lists))

	for i, l := range lists {
		for _, id := range l {
			if m, ok := found[id]; ok {
				out[i] = m
				break
			}
		}
	}

	return out, nil
}

// PortfolioCard is a portfolio item with its cover image.
type PortfolioCard struct {
	Item  models.Portfolio
	Cover *models.Media
}

// ProductCard is a product with its cover image.
type ProductCard struct {
	Product models.Product
	Cover   *models.Media
}

// PortfolioCards pairs portfolio items with their cover images.
func PortfolioCards(db *gorm.DB, items []models.Portfolio) []PortfolioCard {
	lists := make([][]uint64, len(items))
	for i := range items {
		lists[i] = items[i].MediaIDs()
	}

	covers := coversOrNone(db, lists)
	cards := make([]PortfolioCard, len(items))

	for i := range items {
		cards[i] = PortfolioCard{Item: items[i], Cover: covers[i]}
	}

	return cards
}

// ProductCards pairs products with their cover images.
func ProductCards(db *gorm.DB, items []models.Product) []ProductCard {
	lists := make([][]uint64, len(items))
	for i := range items {
		lists[i] = items[i].MediaIDs()
	}

	covers := coversOrNone(db, lists)
	cards := make([]ProductCard, len(items))

	for i := range items {
		cards[i] = ProductCard{Product: items[i], Cover: covers[i]}
	}

	return cards
}

// coversOrNone renders every card with the placeholder when the lookup fails.
func coversOrNone(db *gorm.DB, lists [][]uint64) []*models.Media {
	out, err := Covers(db, lists)
	if err != nil {
		log.Warn().Err(err).Msg("failed to resolve cover images")
		return make([]*models.Media, len(lists))
	}

	return out
}
