package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// Pages are built with gomponents while the layout shell and flash partial
// are templ components; these adapters let either side embed the other.

// Templ wraps a gomponents node as a templ.Component.
func Templ(node gomponents.Node) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if node == nil {
			return nil
		}
		return node.Render(w)
	})
}

// contextualNode renders a templ component inside a gomponents tree. The
// context is captured when the node is created so request values reach the
// component.
type contextualNode struct {
	ctx       context.Context
	component templ.Component
}

func (n contextualNode) Render(w io.Writer) error {
	return n.component.Render(n.ctx, w)
}

// Node wraps a templ component as a gomponents node rendered with ctx.
func Node(ctx context.Context, component templ.Component) gomponents.Node {
	if ctx == nil {
		ctx = context.Background()
	}
	return contextualNode{ctx: ctx, component: component}
}
