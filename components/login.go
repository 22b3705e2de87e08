//go:build js

package components

import (
	"context"

	"github.com/hexops/vecty"
	"github.com/hexops/vecty/elem"
	"github.com/hexops/vecty/event"

	"ichthyo-signup/internal/authclient"
	"ichthyo-signup/internal/logging"
	"ichthyo-signup/internal/session"
	"ichthyo-signup/internal/signup"
)

// SignInFunc opens a session for an existing account.
type SignInFunc func(ctx context.Context, username, password string, hooks authclient.Hooks) (*authclient.Result, error)

// LoginPage is a component that displays a login form.
type LoginPage struct {
	vecty.Core
	SignIn  SignInFunc       `vecty:"prop"`
	Session *session.Watcher `vecty:"prop"`
	Nav     signup.Navigator `vecty:"prop"`
	Log     logging.Logger   `vecty:"prop"`

	username string
	password string
	message  string
	busy     bool
}

// onLoginAttempt signs in, refreshes the session and goes home.
func (p *LoginPage) onLoginAttempt(e *vecty.Event) {
	if p.busy {
		return
	}
	p.busy = true
	p.message = ""
	vecty.Rerender(p)

	username, password := p.username, p.password
	go func() {
		ctx := context.Background()
		defer func() {
			p.busy = false
			vecty.Rerender(p)
		}()

		res, err := p.SignIn(ctx, username, password, authclient.Hooks{})
		if err != nil {
			p.Log.Error(ctx, "login error", "err", err)
			p.message = signup.MsgUnexpected
			return
		}
		if res.Error != nil {
			p.message = "Login failed"
			if res.Error.Message != "" {
				p.message = "Login failed: " + res.Error.Message
			}
			return
		}

		if _, err := p.Session.Refresh(ctx); err != nil {
			p.Log.Warn(ctx, "session refresh after login failed", "err", err)
		}
		p.Nav.NavigateTo(signup.HomePath)
	}()
}

// Render renders the component.
func (p *LoginPage) Render() vecty.ComponentOrHTML {
	label := "Login"
	if p.busy {
		label = "Logging in..."
	}
	return elem.Div(
		vecty.Markup(
			vecty.Class("login-container"),
		),
		elem.Form(
			vecty.Markup(
				event.Submit(p.onLoginAttempt).PreventDefault(),
			),
			elem.Heading1(vecty.Text("Login")),
			elem.Div(
				elem.Label(vecty.Text("Username:")),
				elem.Input(vecty.Markup(
					vecty.Property("type", "text"),
					event.Input(func(e *vecty.Event) {
						p.username = e.Target.Get("value").String()
					}),
				)),
			),
			elem.Div(
				elem.Label(vecty.Text("Password:")),
				elem.Input(vecty.Markup(
					vecty.Property("type", "password"),
					event.Input(func(e *vecty.Event) {
						p.password = e.Target.Get("value").String()
					}),
				)),
			),
			elem.Button(
				vecty.Markup(
					vecty.Property("type", "submit"),
					vecty.Property("disabled", p.busy),
				),
				vecty.Text(label),
			),
			p.renderMessage(),
		),
		elem.Anchor(
			vecty.Markup(vecty.Property("href", "#/signup")),
			vecty.Text("Don't have an account? Sign Up"),
		),
	)
}

func (p *LoginPage) renderMessage() vecty.ComponentOrHTML {
	if p.message != "" {
		return elem.Paragraph(vecty.Text(p.message))
	}
	return nil
}
