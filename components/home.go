//go:build js

package components

import (
	"context"

	"github.com/hexops/vecty"
	"github.com/hexops/vecty/elem"

	"ichthyo-signup/internal/session"
)

// HomePage is the landing page the signup flow redirects to.
type HomePage struct {
	vecty.Core
	Session *session.Watcher `vecty:"prop"`

	current session.Snapshot
	cancel  context.CancelFunc
}

func (h *HomePage) Mount() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	events := h.Session.Subscribe(ctx)
	go func() {
		for ev := range events {
			h.current = ev.Payload
			vecty.Rerender(h)
		}
	}()
}

func (h *HomePage) Unmount() {
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *HomePage) Render() vecty.ComponentOrHTML {
	if h.current.Authenticated() {
		name := h.current.User.Name
		if name == "" {
			name = h.current.User.Email
		}
		return elem.Div(
			vecty.Markup(vecty.Class("home-container")),
			elem.Heading1(vecty.Text("Welcome, "+name)),
		)
	}
	return elem.Div(
		vecty.Markup(vecty.Class("home-container")),
		elem.Heading1(vecty.Text("Welcome")),
		elem.Paragraph(
			elem.Anchor(vecty.Markup(vecty.Property("href", "#/signup")), vecty.Text("Sign Up")),
			vecty.Text(" or "),
			elem.Anchor(vecty.Markup(vecty.Property("href", "#/login")), vecty.Text("Log In")),
		),
	)
}
