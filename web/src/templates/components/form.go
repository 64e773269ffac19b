// Package components holds the form and table building blocks shared by the
// pages.
package components

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	h "maragu.dev/gomponents/html"
)

// FieldProps describes one labelled input.
type FieldProps struct {
	Label       string
	Name        string
	Type        string
	Value       string
	Error       string
	Placeholder string
	Required    bool
	// Extra attributes appended to the input.
	Extra []g.Node
}

// Field renders a labelled input with its validation message.
func Field(p FieldProps) g.Node {
	if p.Type == "" {
		p.Type = "text"
	}
	return h.Div(h.Class("field"),
		h.Label(h.For(p.Name), g.Text(p.Label)),
		h.Input(
			h.ID(p.Name),
			h.Name(p.Name),
			h.Type(p.Type),
			g.If(p.Value != "" && p.Type != "password", h.Value(p.Value)),
			g.If(p.Placeholder != "", h.Placeholder(p.Placeholder)),
			g.If(p.Required, h.Required()),
			g.If(p.Error != "", g.Attr("aria-invalid", "true")),
			g.Group(p.Extra),
		),
		FieldError(p.Error),
	)
}

// FieldError renders a validation message, or nothing.
func FieldError(msg string) g.Node {
	return g.If(msg != "", h.P(h.Class("field-error"), g.Text(msg)))
}

// Form posts to action. The submit button is disabled while the request is
// in flight so a form cannot be submitted twice.
func Form(action string, children ...g.Node) g.Node {
	return h.Form(
		h.Method("post"),
		h.Action(action),
		h.Class("form"),
		g.Attr("hx-disabled-elt", "find button[type='submit']"),
		g.Group(children),
	)
}

// Submit renders the submit button of a form.
func Submit(label string) g.Node {
	return h.Button(h.Type("submit"), h.Class("btn btn-primary"), g.Text(label))
}

// DangerSubmit is a submit button that asks for confirmation first.
func DangerSubmit(label, confirm string) g.Node {
	return h.Button(h.Type("submit"), h.Class("btn btn-danger"), hx.Confirm(confirm), g.Text(label))
}

// Hidden renders a hidden input.
func Hidden(name, value string) g.Node {
	return h.Input(h.Type("hidden"), h.Name(name), h.Value(value))
}

// SelectProps describes a select box.
type SelectProps struct {
	Label    string
	Name     string
	Options  []Option
	Selected string
	Error    string
	// AutoSubmit submits the enclosing form whenever the selection changes.
	AutoSubmit bool
}

// Option is one entry of a select box.
type Option struct {
	Value string
	Label string
}

// Select renders a labelled select box.
func Select(p SelectProps) g.Node {
	return h.Div(h.Class("field"),
		h.Label(h.For(p.Name), g.Text(p.Label)),
		h.Select(
			h.ID(p.Name),
			h.Name(p.Name),
			g.If(p.AutoSubmit, g.Attr("onchange", "this.form.requestSubmit()")),
			g.Map(p.Options, func(o Option) g.Node {
				return h.Option(h.Value(o.Value), g.If(o.Value == p.Selected, h.Selected()), g.Text(o.Label))
			}),
		),
		FieldError(p.Error),
	)
}
