package handler

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown after a redirect.
type Flash struct {
	Kind    string
	Message string
}

// SetFlash stores a message for the next page view.
func SetFlash(c *fiber.Ctx, kind, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    kind + ":" + url.QueryEscape(message),
		Path:     "/",
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// PopFlash returns and clears the pending message, nil when there is none.
func PopFlash(c *fiber.Ctx) *Flash {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return nil
	}

	c.ClearCookie(flashCookie)

	kind, msg, ok := strings.Cut(raw, ":")
	if !ok {
		return nil
	}

	msg, err := url.QueryUnescape(msg)
	if err != nil || msg == "" {
		return nil
	}

	return &Flash{Kind: kind, Message: msg}
}
