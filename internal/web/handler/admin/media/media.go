// Package media provides the admin media library: uploads, metadata edits,
// flipping, deletion and the public image endpoint.
package media

import (
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	mediactl "github.com/rgcpoolandspa/poolsite/internal/db/controller/media"
	"github.com/rgcpoolandspa/poolsite/internal/db/models"
	mediasvc "github.com/rgcpoolandspa/poolsite/internal/media"
	"github.com/rgcpoolandspa/poolsite/internal/web/handler"
	"github.com/rgcpoolandspa/poolsite/internal/web/navigation"
)

const (
	// Path is the base path of the media library.
	Path = handler.AdminPath + "/media"
	// ImagePath serves stored variants without authentication.
	ImagePath = Path + "/image"

	// TemplateList is the media library template.
	TemplateList = "admin/media/list"

	// DefaultPageSize for the library page and the JSON listing.
	DefaultPageSize = 20

	// CacheControl is sent with every image. Urls carry the media version so
	// a changed image gets a new url.
	CacheControl = "public, max-age=31536000, immutable"
)

// Item is the JSON representation of a media row.
type Item struct {
	ID             uint64            `json:"id"`
	OriginalName   string            `json:"originalName"`
	MimeType       string            `json:"mimeType"`
	Size           int64             `json:"size"`
	Title          string            `json:"title"`
	Alt            string            `json:"alt"`
	Caption        string            `json:"caption"`
	Width          int               `json:"width"`
	Height         int               `json:"height"`
	FlipHorizontal bool              `json:"flipHorizontal"`
	FlipVertical   bool              `json:"flipVertical"`
	Version        int               `json:"version"`
	URLs           map[string]string `json:"urls"`
}

// UploadResult reports the outcome for one uploaded file.
type UploadResult struct {
	Filename string `json:"filename"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Media    *Item  `json:"media,omitempty"`
}

type metaInput struct {
	Title   string `form:"title"   json:"title"   validate:"max=255"`
	Alt     string `form:"alt"     json:"alt"     validate:"max=255"`
	Caption string `form:"caption" json:"caption"`
}

// Service serves the media library.
type Service struct {
	deps *handler.Deps
}

// NewItem converts a media row for JSON output.
func NewItem(m *models.Media) *Item {
	return &Item{
		ID:             m.ID,
		OriginalName:   m.OriginalName,
		MimeType:       m.MimeType,
		Size:           m.Size,
		Title:          m.Title,
		Alt:            m.Alt,
		Caption:        m.Caption,
		Width:          m.Large.Width,
		Height:         m.Large.Height,
		FlipHorizontal: m.FlipHorizontal,
		FlipVertical:   m.FlipVertical,
		Version:        m.Version,
		URLs: map[string]string{
			models.SizeLarge:     m.URL(models.SizeLarge),
			models.SizeMedium:    m.URL(models.SizeMedium),
			models.SizeThumbnail: m.URL(models.SizeThumbnail),
		},
	}
}

// Init registers routes. The image route is public, everything else needs a session.
func (s *Service) Init(router fiber.Router, deps *handler.Deps) error {
	if router == nil || deps.Check() != nil || deps.Media == nil {
		return handler.ErrMissingDeps
	}

	s.deps = deps

	router.Get(ImagePath+"/:id/:size?", s.Image)

	router.Get(Path, deps.Guard, s.Library)
	router.Get(Path+"/list", deps.Guard, s.List)
	router.Post(Path+"/upload", deps.Guard, s.Upload)
	router.Get(Path+"/:id", deps.Guard, s.Get)
	router.Put(Path+"/:id", deps.Guard, s.UpdateMeta)
	router.Post(Path+"/:id", deps.Guard, s.UpdateMeta)
	router.Post(Path+"/:id/flip", deps.Guard, s.Flip)
	router.Delete(Path+"/:id", deps.Guard, s.Delete)
	router.Post(Path+"/:id/delete", deps.Guard, s.Delete)

	return nil
}

type page struct {
	items      []models.Media
	total      int64
	page       int
	totalPages int
}

func (s *Service) page(c *fiber.Ctx) (page, error) {
	p := page{page: c.QueryInt("page", 1)}
	if p.page < 1 {
		p.page = 1
	}

	items, total, err := mediactl.List(s.deps.DB, (p.page-1)*DefaultPageSize, DefaultPageSize)
	if err != nil {
		return p, err
	}

	p.items, p.total = items, total

	p.totalPages = int((total + DefaultPageSize - 1) / DefaultPageSize)
	if p.totalPages == 0 {
		p.totalPages = 1
	}

	return p, nil
}

// Library renders the media library page.
func (s *Service) Library(c *fiber.Ctx) error {
	nav := navigation.Admin("Media Library", navigation.SectionMedia, "media").
		AddBreadcrumb("Media", Path, true)

	p, err := s.page(c)
	if err != nil {
		log.Error().Err(err).Msg("query media failed")

		return handler.RenderAdmin(c.Status(fiber.StatusInternalServerError), TemplateList, fiber.Map{
			"Navigation": nav,
			"Error":      "Failed to load media",
		})
	}

	return handler.RenderAdmin(c, TemplateList, fiber.Map{
		"Navigation":    nav,
		"Media":         p.items,
		"Page":          p.page,
		"TotalItems":    p.total,
		"TotalPages":    p.totalPages,
		"HasPrev":       p.page > 1,
		"HasNext":       p.page < p.totalPages,
		"PrevPage":      p.page - 1,
		"NextPage":      p.page + 1,
		"MaxUploadSize": s.deps.Cfg.Media.MaxUploadSize,
		"MaxFiles":      s.deps.Cfg.Media.MaxFiles,
	})
}

// List returns one page of media as JSON for the picker.
func (s *Service) List(c *fiber.Ctx) error {
	p, err := s.page(c)
	if err != nil {
		log.Error().Err(err).Msg("query media failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load media"})
	}

	items := make([]*Item, 0, len(p.items))
	for i := range p.items {
		items = append(items, NewItem(&p.items[i]))
	}

	return c.JSON(fiber.Map{
		"items":      items,
		"total":      p.total,
		"page":       p.page,
		"totalPages": p.totalPages,
	})
}

// Upload ingests every file of the "images" field. Each file succeeds or
// fails on its own; the response is 200 when at least one file was stored.
func (s *Service) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Expected a multipart upload"})
	}

	files := make([]*multipart.FileHeader, 0, len(form.File["images"]))
	files = append(files, form.File["images"]...)
	files = append(files, form.File["images[]"]...)

	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "No files uploaded"})
	}

	if maxFiles := s.deps.Cfg.Media.MaxFiles; maxFiles > 0 && len(files) > maxFiles {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Too many files, at most " + strconv.Itoa(maxFiles) + " per upload",
		})
	}

	var (
		results = make([]UploadResult, 0, len(files))
		stored  int
	)

	for _, fh := range files {
		result := UploadResult{Filename: fh.Filename}

		m, err := s.ingest(c, fh)
		if err != nil {
			result.Error = uploadError(err)
		} else {
			result.Success = true
			result.Media = NewItem(m)
			stored++
		}

		results = append(results, result)
	}

	status := fiber.StatusOK
	if stored == 0 {
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(fiber.Map{
		"success":  stored > 0,
		"uploaded": stored,
		"failed":   len(files) - stored,
		"results":  results,
	})
}

func (s *Service) ingest(c *fiber.Ctx, fh *multipart.FileHeader) (*models.Media, error) {
	filename := fh.Filename

	up, err := mediasvc.ReadUpload(fh, s.deps.Cfg.Media.MaxUploadSize)
	if err != nil {
		log.Warn().Err(err).Str("file", filename).Msg("upload rejected")
		return nil, err
	}

	m, err := s.deps.Media.Ingest(c.UserContext(), up)
	if err != nil {
		log.Error().Err(err).Str("file", filename).Msg("media ingest failed")
		return nil, err
	}

	log.Info().Uint64("media", m.ID).Str("file", filename).Msg("media uploaded")

	return m, nil
}

func uploadError(err error) string {
	switch {
	case errors.Is(err, mediasvc.ErrFileTooLarge),
		errors.Is(err, mediasvc.ErrNotAnImage),
		errors.Is(err, mediasvc.ErrInvalidImage):
		return errors.Cause(err).Error()
	}

	return "Failed to process image"
}

// Get returns the metadata of one media row.
func (s *Service) Get(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return notFound(c)
	}

	m, err := mediactl.GetMeta(s.deps.DB, id)
	if err != nil {
		return s.dbError(c, err, id)
	}

	return c.JSON(NewItem(m))
}

// UpdateMeta sets title, alt text and caption.
func (s *Service) UpdateMeta(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return notFound(c)
	}

	var in metaInput
	if err := c.BodyParser(&in); err != nil {
		return handler.Fail(c, fiber.StatusBadRequest, Path, "Invalid form data")
	}

	if msg := s.deps.Validator.First(in); msg != "" {
		return handler.Fail(c, fiber.StatusBadRequest, Path, msg)
	}

	m, err := mediactl.UpdateMeta(s.deps.DB, id,
		strings.TrimSpace(in.Title), strings.TrimSpace(in.Alt), strings.TrimSpace(in.Caption))
	if err != nil {
		return s.dbError(c, err, id)
	}

	if handler.IsAPIRequest(c) {
		return c.JSON(fiber.Map{"success": true, "media": NewItem(m)})
	}

	return handler.Done(c, Path, "Media updated")
}

// Flip mirrors an image. The axis comes from "axis" (horizontal, vertical or
// both) or from the horizontal and vertical checkboxes.
func (s *Service) Flip(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return notFound(c)
	}

	horizontal, vertical := handler.Checked(c, "horizontal"), handler.Checked(c, "vertical")

	switch strings.ToLower(c.FormValue("axis", c.Query("axis"))) {
	case "horizontal", "h":
		horizontal = true
	case "vertical", "v":
		vertical = true
	case "both":
		horizontal, vertical = true, true
	}

	m, err := s.deps.Media.Flip(c.UserContext(), id, horizontal, vertical)
	if err != nil {
		if errors.Is(err, mediasvc.ErrNoFlipAxis) {
			return handler.Fail(c, fiber.StatusBadRequest, Path, "Choose a flip direction")
		}

		return s.dbError(c, err, id)
	}

	if handler.IsAPIRequest(c) {
		return c.JSON(fiber.Map{"success": true, "media": NewItem(m)})
	}

	return handler.Done(c, Path, "Image flipped")
}

// Delete removes a media row. Records still referencing it render the placeholder.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return notFound(c)
	}

	if err := mediactl.Delete(s.deps.DB, id); err != nil {
		return s.dbError(c, err, id)
	}

	log.Info().Uint64("media", id).Msg("media deleted")

	return handler.Done(c, Path, "Media deleted")
}

// Image serves a stored variant. Unknown sizes resolve to medium.
func (s *Service) Image(c *fiber.Ctx) error {
	id, ok := handler.ParamID(c)
	if !ok {
		return fiber.ErrNotFound
	}

	data, contentType, err := s.deps.Media.Image(c.UserContext(), id, c.Params("size"))
	if err != nil {
		if errors.Is(err, mediactl.ErrNotFound) {
			return fiber.ErrNotFound
		}

		log.Error().Err(err).Uint64("media", id).Msg("failed to load image")

		return fiber.ErrInternalServerError
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, CacheControl)

	return c.Send(data)
}

func notFound(c *fiber.Ctx) error {
	return handler.Fail(c, fiber.StatusNotFound, Path, "Media not found")
}

func (s *Service) dbError(c *fiber.Ctx, err error, id uint64) error {
	if errors.Is(err, mediactl.ErrNotFound) {
		return notFound(c)
	}

	log.Error().Err(err).Uint64("media", id).Msg("media operation failed")

	return handler.Fail(c, fiber.StatusInternalServerError, Path, "Media operation failed")
}
