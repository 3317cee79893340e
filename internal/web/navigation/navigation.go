// Package navigation provides utilities for managing navigation state and breadcrumbs.
package navigation

// Admin sidebar sections.
const (
	SectionDashboard = "dashboard"
	SectionCatalog   = "catalog"
	SectionInbox     = "inbox"
	SectionMedia     = "media"
	SectionSettings  = "settings"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// Admin creates a navigation context for an admin page whose trail starts at
// the dashboard.
func Admin(pageTitle, activeSection, activePage string) *Context {
	return NewContext(pageTitle, activeSection, activePage).
		AddBreadcrumb("Dashboard", "/admin/dashboard", false)
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
