//go:build js

package components

import (
	"context"
	"errors"

	"github.com/hexops/vecty"
	"github.com/hexops/vecty/elem"
	"github.com/hexops/vecty/event"

	"ichthyo-signup/internal/logging"
	"ichthyo-signup/internal/session"
	"ichthyo-signup/internal/signup"
)

type fieldSpec struct {
	field       signup.Field
	label       string
	inputType   string
	placeholder string
}

var signupFields = []fieldSpec{
	{signup.FieldUsername, "Username", "text", "Enter your username"},
	{signup.FieldEmail, "Email", "email", "Enter your email"},
	{signup.FieldName, "Name", "text", "Enter your name"},
	{signup.FieldPassword, "Password", "password", "Enter your password"},
}

// SignupPage draws a signup.Page. It subscribes to the session watcher while
// mounted so that a session appearing at any time hides the form.
type SignupPage struct {
	vecty.Core
	Page    *signup.Page     `vecty:"prop"`
	Session *session.Watcher `vecty:"prop"`
	Log     logging.Logger   `vecty:"prop"`

	cancel context.CancelFunc
}

func (s *SignupPage) Mount() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.Page.SetOnChange(func() { vecty.Rerender(s) })
	go s.Page.Watch(ctx, s.Session.Subscribe(ctx))
}

func (s *SignupPage) Unmount() {
	if s.cancel != nil {
		s.cancel()
	}
	s.Page.SetOnChange(nil)
}

func (s *SignupPage) Render() vecty.ComponentOrHTML {
	snap := s.Page.Snapshot()
	if snap.Display == signup.Authenticated {
		return elem.Div(vecty.Markup(vecty.Class("signup-container")))
	}

	label := "Sign Up"
	if snap.IsSubmitting {
		label = "Creating account..."
	}

	return elem.Div(
		vecty.Markup(vecty.Class("signup-container")),
		elem.Div(
			vecty.Markup(vecty.Class("card")),
			elem.Heading2(
				vecty.Markup(vecty.Class("card-title")),
				vecty.Text("Create Account"),
			),
			elem.Form(
				vecty.Markup(
					vecty.Class("card-content"),
					event.Submit(s.onSubmit).PreventDefault(),
				),
				s.renderFields(snap.Form),
				elem.Button(
					vecty.Markup(
						vecty.Class("button"),
						vecty.Property("type", "submit"),
						vecty.Property("disabled", snap.IsSubmitting),
					),
					vecty.Text(label),
				),
			),
			elem.Div(
				vecty.Markup(vecty.Class("card-footer")),
				elem.Span(
					vecty.Text("Already have an account? "),
					elem.Anchor(
						vecty.Markup(vecty.Property("href", "#"+signup.LoginPath)),
						vecty.Text("Log In"),
					),
				),
			),
		),
	)
}

func (s *SignupPage) renderFields(form signup.FormState) vecty.List {
	var list vecty.List
	for _, spec := range signupFields {
		list = append(list, elem.Div(
			elem.Label(
				vecty.Markup(vecty.Attribute("for", string(spec.field))),
				vecty.Text(spec.label),
			),
			elem.Input(vecty.Markup(
				vecty.Property("id", string(spec.field)),
				vecty.Property("name", string(spec.field)),
				vecty.Property("type", spec.inputType),
				vecty.Property("placeholder", spec.placeholder),
				vecty.Property("value", form.Get(spec.field)),
				event.Input(s.onInput),
			)),
		))
	}
	return list
}

// onInput is shared by every field; the input's name picks the field.
func (s *SignupPage) onInput(e *vecty.Event) {
	name := e.Target.Get("name").String()
	if err := s.Page.UpdateField(name, e.Target.Get("value").String()); err != nil {
		s.Log.Warn(context.Background(), "ignoring input", "name", name, "err", err)
	}
}

func (s *SignupPage) onSubmit(e *vecty.Event) {
	go func() {
		ctx := context.Background()
		if err := s.Page.Submit(ctx); errors.Is(err, signup.ErrSubmitInFlight) {
			s.Log.Debug(ctx, "submit ignored, signup in flight")
		}
	}()
}
