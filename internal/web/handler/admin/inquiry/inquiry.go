// Package inquiry provides the admin inbox for contact form submissions.
package inquiry

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/navigation"
)

const (
	// Path is the base path of the inbox.
	Path = handler.AdminPath + "/inquiries"

	// TemplateList is the template for listing inquiries.
	TemplateList = "admin/inquiries/list"
	// TemplateShow is the template for a single inquiry.
	TemplateShow = "admin/inquiries/show"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25
)

// Service lists, reads and deletes inquiries. Inquiries are never edited
// apart from the read flag.
type Service struct {
	deps *handler.Deps
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	router.Get(Path, deps.Guard, s.List)
	router.Get(Path+"/:id", deps.Guard, s.Show)
	router.Post(Path+"/:id/read", deps.Guard, s.MarkRead)
	router.Put(Path+"/:id/read", deps.Guard, s.MarkRead)
	router.Delete(Path+"/:id", deps.Guard, s.Delete)
	router.Post(Path+"/:id/delete", deps.Guard, s.Delete)

	return nil
}

// List shows inquiries newest first, optionally only unread ones.
func (s *Service) List(c *fiber.Ctx) error {
	nav := navigation.Admin("Inquiries", navigation.SectionInbox, "inquiries").
		AddBreadcrumb("Inquiries", Path, true)

	unreadOnly := c.Query("unread") == "1"

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	var (
		inquiries  []models.Inquiry
		totalCount int64
		tx         = s.deps.DB.Model(&models.Inquiry{})
	)

	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}

	if err := tx.Count(&totalCount).Error; err != nil {
		log.Error().Err(err).Msg("count inquiries failed")

		return handler.RenderAdmin(c.Status(fiber.StatusInternalServerError), TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load inquiries",
		})
	}

	totalPages := int((totalCount + DefaultPageSize - 1) / DefaultPageSize)
	if totalPages == 0 {
		totalPages = 1
	}

	if page > totalPages {
		page = totalPages
	}

	offset := (page - 1) * DefaultPageSize
	if err := tx.Order("created_at DESC, id DESC").Limit(DefaultPageSize).Offset(offset).Find(&inquiries).Error; err != nil {
		log.Error().Err(err).Msg("query inquiries failed")

		return handler.RenderAdmin(c.Status(fiber.StatusInternalServerError), TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load inquiries",
		})
	}

	return handler.RenderAdmin(c, TemplateList, fiber.Map{
		"Navigation": nav,
		"Inquiries":  inquiries,
		"UnreadOnly": unreadOnly,
		"Page":       page,
		"TotalItems": totalCount,
		"TotalPages": totalPages,
		"HasPrev":    page > 1,
		"HasNext":    page < totalPages,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
	})
}

// Show renders one inquiry with the product it refers to.
func (s *Service) Show(c *fiber.Ctx) error {
	inq, err := s.load(c)
	if err != nil {
		return err
	}

	var product *models.Product

	if inq.ProductID != nil {
		var p models.Product
		if res := s.deps.DB.Limit(1).Find(&p, *inq.ProductID); res.Error == nil && res.RowsAffected > 0 {
			product = &p
		}
	}

	nav := navigation.Admin("Inquiry", navigation.SectionInbox, "inquiries").
		AddBreadcrumb("Inquiries", Path, false).
		AddBreadcrumb(inq.Name, Path+"/"+strconv.FormatUint(inq.ID, 10), true)

	return handler.RenderAdmin(c, TemplateShow, fiber.Map{
		"Navigation": nav,
		"Inquiry":    inq,
		"Product":    product,
	})
}

// MarkRead sets the read flag.
func (s *Service) MarkRead(c *fiber.Ctx) error {
	inq, err := s.load(c)
	if err != nil {
		return err
	}

	if err = s.deps.DB.Model(inq).Update("is_read", true).Error; err != nil {
		log.Error().Err(err).Uint64("inquiry", inq.ID).Msg("mark inquiry read failed")
		return handler.Fail(c, fiber.StatusInternalServerError, Path, "Failed to update inquiry")
	}

	return handler.Done(c, Path, "Inquiry marked as read")
}

// Delete removes an inquiry.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Inquiry not found")
	}

	res := s.deps.DB.Delete(&models.Inquiry{}, id)
	if res.Error != nil {
		log.Error().Err(res.Error).Uint64("inquiry", id).Msg("delete inquiry failed")
		return handler.Fail(c, fiber.StatusInternalServerError, Path, "Failed to delete inquiry")
	}

	if res.RowsAffected == 0 {
		return handler.Fail(c, fiber.StatusNotFound, Path, "Inquiry not found")
	}

	return handler.Done(c, Path, "Inquiry deleted")
}

func (s *Service) load(c *fiber.Ctx) (*models.Inquiry, error) {
	id, ok := handler.ParamID(c)
	if !ok {
		return nil, fiber.ErrNotFound
	}

	var inq models.Inquiry

	res := s.deps.DB.Limit(1).Find(&inq, id)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		return nil, fiber.ErrNotFound
	}

	return &inq, nil
}
