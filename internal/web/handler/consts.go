package handler

const (
	// BaseLayout is the layout for admin pages.
	BaseLayout = "layouts/admin"

	// PublicLayout is the layout for the public site.
	PublicLayout = "layouts/public"

	// TemplateError renders error pages.
	TemplateError = "error"

	// RootPath is the root path the route group.
	RootPath = "/"

	// AdminPath is the prefix of the back office.
	AdminPath = RootPath + "admin"

	// LoginPath is the admin login page.
	LoginPath = AdminPath + "/login"

	// DashboardPath is the admin landing page.
	DashboardPath = AdminPath + "/dashboard"

	// LocalsAdmin holds the authenticated *models.Admin in fiber locals.
	LocalsAdmin = "CurrentAdmin"

	// ErrNilACDFatalLogMsg is used if app or deps var pointer is nil.
	ErrNilACDFatalLogMsg = "app or deps is nil"
)
