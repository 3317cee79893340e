package models

import "time"

// Theme names selectable in the settings form.
const (
	ThemeBlueOcean    = "blue-ocean"
	ThemeAquaBlue     = "aqua-blue"
	ThemeDeepBlue     = "deep-blue"
	ThemeTropicalBlue = "tropical-blue"
	ThemeCustom       = "custom"
)

// Themes lists every valid theme in display order.
var Themes = []string{ThemeBlueOcean, ThemeAquaBlue, ThemeDeepBlue, ThemeTropicalBlue, ThemeCustom} //nolint:gochecknoglobals

// ThemePalette holds the colors used when the custom theme is selected.
type ThemePalette struct {
	Primary   string `gorm:"size:20"`
	Secondary string `gorm:"size:20"`
	Accent    string `gorm:"size:20"`
}

// SocialLinks holds the social media profile urls shown in the footer.
type SocialLinks struct {
	Facebook  string `gorm:"size:255"`
	Instagram string `gorm:"size:255"`
	Twitter   string `gorm:"size:255"`
	Youtube   string `gorm:"size:255"`
}

// Settings is the site wide configuration. Exactly one row exists.
type Settings struct {
	ID             uint64 `gorm:"primaryKey"`
	CompanyName    string `gorm:"size:255"`
	CompanyEmail   string `gorm:"size:255"`
	CompanyPhone   string `gorm:"size:50"`
	CompanyAddress string `gorm:"size:500"`
	HeroImageID    *uint64
	Theme          string       `gorm:"size:30;not null"`
	Palette        ThemePalette `gorm:"embedded;embeddedPrefix:palette_"`
	Social         SocialLinks  `gorm:"embedded;embeddedPrefix:social_"`
	FooterText     string       `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DefaultSettings returns the values a fresh settings row is created with.
func DefaultSettings() Settings {
	return Settings{
		CompanyName: "RGC Pool and Spa",
		Theme:       ThemeBlueOcean,
		Palette: ThemePalette{
			Primary:   "#0066cc",
			Secondary: "#00a3e0",
			Accent:    "#ffb400",
		},
	}
}

// ValidTheme reports whether name is a selectable theme.
func ValidTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}

	return false
}
