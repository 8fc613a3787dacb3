package home

import (
	"net/http"

	"github.com/bearenergy/dealflow/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the marketing site.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}

// serviceVM is one offering shown in the services section.
type serviceVM struct {
	Title       string
	Description string
}

// statVM is one headline figure in the stats band.
type statVM struct {
	Number      string
	Label       string
	Description string
}

// testimonialVM is one quote card in the testimonials section.
type testimonialVM struct {
	Quote   string
	Name    string
	Role    string
	Company string
}

var landingServices = []serviceVM{
	{
		Title:       "Deal Origination",
		Description: "We source solar, wind, hydro, and battery storage opportunities directly from developers across the UK and Europe.",
	},
	{
		Title:       "Introducer Network",
		Description: "Our introducer partners match vetted deals to investor mandates and earn commission on completed transactions.",
	},
	{
		Title:       "Investor Access",
		Description: "Investors receive tiered project disclosures, from executive summaries through full data room access.",
	},
}

var landingStats = []statVM{
	{
		Number:      "3,500+",
		Label:       "Companies in Network",
		Description: "Renewable energy companies, investors, and developers",
	},
	{
		Number:      "$50B+",
		Label:       "Deals Tracked",
		Description: "Total value of renewable energy transactions on our platform",
	},
	{
		Number:      "150+",
		Label:       "Countries",
		Description: "Global reach across all major renewable energy markets",
	},
	{
		Number:      "95%",
		Label:       "Success Rate",
		Description: "Of users find relevant connections within 30 days",
	},
}

var landingPartners = []string{
	"EDF Renewables", "Scatec", "Statkraft", "Ørsted",
	"Vattenfall", "Engie", "NextEra Energy", "Iberdrola",
}

var landingTestimonials = []testimonialVM{
	{
		Quote:   "Bear Energy has transformed how we source renewable energy deals. The quality of opportunities and the speed of connections is unmatched.",
		Name:    "Sarah Chen",
		Role:    "Investment Director",
		Company: "GreenTech Capital",
	},
	{
		Quote:   "We closed three major funding rounds through connections made on Bear Energy. The platform is essential for any serious renewable energy developer.",
		Name:    "Marcus Rodriguez",
		Role:    "CEO",
		Company: "Solar Dynamics",
	},
	{
		Quote:   "The market intelligence and deal flow visibility we get from Bear Energy gives us a significant competitive advantage in the market.",
		Name:    "Emma Thompson",
		Role:    "Managing Partner",
		Company: "Clean Energy Ventures",
	},
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := struct {
		viewdata.BaseVM
		Tagline      string
		Services     []serviceVM
		Stats        []statVM
		Partners     []string
		Testimonials []testimonialVM
	}{
		BaseVM:       viewdata.NewBaseVM(r, h.DB, "Welcome", "/"),
		Tagline:      "Connecting renewable energy projects with the capital to build them.",
		Services:     landingServices,
		Stats:        landingStats,
		Partners:     landingPartners,
		Testimonials: landingTestimonials,
	}

	templates.Render(w, r, "home", data)
}
