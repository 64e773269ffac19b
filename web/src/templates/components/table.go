package components

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// Table renders a data table, or the empty text when there are no rows.
func Table(headers []string, rows []g.Node, empty string) g.Node {
	if len(rows) == 0 {
		return h.P(h.Class("empty"), g.Text(empty))
	}
	return h.Table(h.Class("table"),
		h.THead(h.Tr(g.Map(headers, func(s string) g.Node { return h.Th(g.Text(s)) }))),
		h.TBody(g.Group(rows)),
	)
}

// Cells renders one table row of plain text cells.
func Cells(values ...string) g.Node {
	return h.Tr(g.Map(values, func(s string) g.Node { return h.Td(g.Text(s)) }))
}

// Badge renders a status pill. The variant becomes a CSS modifier class.
func Badge(label, variant string) g.Node {
	return h.Span(h.Class("badge badge-"+variant), g.Text(label))
}

// Card wraps a section of a dashboard.
func Card(title string, children ...g.Node) g.Node {
	return h.Section(h.Class("card"),
		g.If(title != "", h.H2(g.Text(title))),
		g.Group(children),
	)
}

// Alert renders an inline banner.
func Alert(variant, msg string) g.Node {
	return g.If(msg != "", h.Div(h.Class("alert alert-"+variant), g.Attr("role", "alert"), g.Text(msg)))
}
