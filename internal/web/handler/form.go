package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// FormList returns every non-empty value submitted for key, accepting both
// "key" and "key[]" and both urlencoded and multipart bodies. A single value
// becomes a one element list.
func FormList(c *fiber.Ctx, key string) []string {
	var raw []string

	if form, err := c.MultipartForm(); err == nil && form != nil {
		raw = append(raw, form.Value[key]...)
		raw = append(raw, form.Value[key+"[]"]...)
	} else {
		args := c.Request().PostArgs()
		for _, v := range args.PeekMulti(key) {
			raw = append(raw, string(v))
		}

		for _, v := range args.PeekMulti(key + "[]") {
			raw = append(raw, string(v))
		}
	}

	out := make([]string, 0, len(raw))

	for _, v := range raw {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}

// IDList parses ids from FormList, also splitting comma separated values.
// Invalid entries and duplicates are dropped, order is kept.
func IDList(c *fiber.Ctx, key string) []uint64 {
	var (
		out  []uint64
		seen = map[uint64]bool{}
	)

	for _, v := range FormList(c, key) {
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil || id == 0 || seen[id] {
				continue
			}

			seen[id] = true
			out = append(out, id)
		}
	}

	return out
}

// Checked reports whether a checkbox style field is set.
func Checked(c *fiber.Ctx, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.FormValue(key))) {
	case "on", "true", "1", "yes":
		return true
	}

	return false
}

// OptionalID parses an id field, nil when empty or invalid.
func OptionalID(c *fiber.Ctx, key string) *uint64 {
	id, err := strconv.ParseUint(strings.TrimSpace(c.FormValue(key)), 10, 64)
	if err != nil || id == 0 {
		return nil
	}

	return &id
}

// ParamID returns the positive numeric :id route parameter.
func ParamID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}

var timeLayouts = []string{ //nolint:gochecknoglobals
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseTime parses the value of a date or datetime-local input in loc.
func ParseTime(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
