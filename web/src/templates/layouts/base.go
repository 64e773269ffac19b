// Package layouts holds the page shell every handler renders into.
package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/nfrund/wastewise/internal/domain"
	"github.com/nfrund/wastewise/internal/view"
	"github.com/nfrund/wastewise/web/src/templates/partials"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Page carries what the shell needs besides the content.
type Page struct {
	Title   string
	Flashes view.FlashData
	// User is the signed-in profile, nil for anonymous pages.
	User *domain.Profile
}

// Base wraps content in the HTML document with navigation and flashes.
func Base(p Page, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		doc := c.HTML5(c.HTML5Props{
			Title:    CalculateTitle(p.Title),
			Language: "en",
			Head: []g.Node{
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
				h.Script(h.Src(htmxSrc), h.Defer()),
			},
			Body: []g.Node{
				hx.Boost("true"),
				navBar(p.User),
				h.Main(h.Class("container"),
					view.Node(ctx, partials.Flash(p.Flashes)),
					view.Node(ctx, content),
				),
				h.Footer(h.Class("footer"), g.Text("WasteWise waste management")),
			},
		})
		return doc.Render(w)
	})
}

func navBar(user *domain.Profile) g.Node {
	return h.Nav(h.Class("nav"),
		h.A(h.Class("brand"), h.Href(domain.PathLanding), g.Text("WasteWise")),
		g.If(user == nil, g.Group{
			h.A(h.Href(domain.PathSignIn), g.Text("Sign in")),
			h.A(h.Href(domain.PathSignUp), g.Text("Sign up")),
		}),
		g.Iff(user != nil, func() g.Node {
			return g.Group{
				g.If(user.Role.IsAdmin(), adminLinks()),
				g.If(!user.Role.IsAdmin(), h.A(h.Href(domain.PathDashboard), g.Text("Dashboard"))),
				h.Span(h.Class("who"), g.Text(displayName(user))),
				h.A(h.Href(domain.PathLogout), g.Text("Log out")),
			}
		}),
	)
}

func adminLinks() g.Node {
	return g.Group{
		h.A(h.Href(domain.PathAdminDashboard), g.Text("Overview")),
		h.A(h.Href(domain.PathAdminUsers), g.Text("Users")),
		h.A(h.Href(domain.PathAdminPayments), g.Text("Payments")),
		h.A(h.Href(domain.PathAdminSchedule), g.Text("Schedule")),
		h.A(h.Href(domain.PathAdminComplaints), g.Text("Complaints")),
	}
}

func displayName(user *domain.Profile) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}
