package browser

// Routes of the application under test.
const (
	RouteLogin     = "/login"
	RouteDashboard = "/dashboard"
	RouteIdea      = "/idea/"
)

// Selectors for the application markup. Every lookup the suite performs goes
// through this table so a markup change is fixed in one place.
const (
	// Login page and login modal
	LoginUsername = "#username"
	LoginPassword = "#password"
	LoginSubmit   = `button[type="submit"]`
	LoginError    = ".text-destructive"

	// Dashboard
	DashboardHeading = "h1"
	DashboardSearch  = `input[placeholder*="Search" i]`
	IdeaCard         = `[class*="cursor-pointer"]`
	DashboardEmpty   = "text=No ideas found"

	// Idea viewer
	IdeaTitle     = "h1, h2"
	IdeaHeadings  = "h1, h2, h3"
	BackButton    = "button:has-text('Back'), button:has-text('Dashboard')"
	PageTabButton = "button"

	// Navbar
	Navbar       = "nav"
	NavLogo      = "nav button:has-text('HackIdeas'), nav button:has(svg.lucide-lightbulb)"
	NavBrowse    = "button:has-text('Browse Ideas')"
	NavCreate    = "button:has-text('Create')"
	NavLogin     = "button:has-text('Login')"
	NavButtons   = "nav button"
	MenuLogout   = "[role='menuitem']:has-text('Logout')"
	ThemeOptions = "[role='menuitem']:has-text('Dark'), [role='menuitemradio']:has-text('Dark')"

	// Create modal
	CreateUploadTab = "button:has-text('Upload ZIP')"
	Textarea        = "textarea"

	Body = "body"
)

// Copy the application renders.
const (
	TextAppTitle       = "Hackathon Ideas Hub"
	TextDashboardTitle = "Hackathon Ideas"
	TextLoginModal     = "Login to HackIdeas"
	TextNoIdeas        = "No ideas found"
)

// Seed ideas the backend creates on first start.
var SeedIdeas = []string{
	"Educational Reels Generator",
	"Smart Campus Navigator",
	"EcoTrack - Carbon Footprint Tracker",
}
