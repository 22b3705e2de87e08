// Package signup holds the state and behaviour of the account registration
// page, independent of how the page is drawn.
//
// A Page tracks the four form fields, the busy flag of the one sign-up
// request that may be in flight, and whether a session already exists.
// Everything with a visible side effect (navigation, user notification,
// diagnostics) goes through injected collaborators.
package signup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ichthyo-signup/internal/authclient"
	"ichthyo-signup/internal/logging"
	"ichthyo-signup/internal/session"
)

const (
	HomePath  = "/"
	LoginPath = "/login"

	MsgSignupFailed = "Signup failed. Please try again."
	MsgUnexpected   = "An unexpected error occurred."
)

var ErrSubmitInFlight = errors.New("signup already in progress")

// Registrar is the provider's email sign-up operation.
type Registrar interface {
	SignUp(ctx context.Context, req authclient.SignUpRequest, hooks authclient.Hooks) (*authclient.Result, error)
}

type Navigator interface {
	NavigateTo(path string)
}

// Notifier shows a message to the user and returns once it was shown.
type Notifier interface {
	Notify(message string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) NavigateTo(path string) { f(path) }

type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// DisplayState selects what the page renders.
type DisplayState int

const (
	// Anonymous shows the form.
	Anonymous DisplayState = iota
	// Authenticated renders nothing.
	Authenticated
)

func (d DisplayState) String() string {
	switch d {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("DisplayState(%d)", int(d))
	}
}

// Snapshot is a consistent copy of the page state for rendering.
type Snapshot struct {
	Form         FormState
	IsSubmitting bool
	Display      DisplayState
}

type Page struct {
	registrar Registrar
	nav       Navigator
	notifier  Notifier
	log       logging.Logger

	mu       sync.Mutex
	form     FormState
	current  *attempt
	session  session.Snapshot
	onChange func()
}

type Option func(*Page)

func WithLogger(l logging.Logger) Option {
	return func(p *Page) { p.log = l }
}

func NewPage(r Registrar, nav Navigator, n Notifier, opts ...Option) *Page {
	p := &Page{
		registrar: r,
		nav:       nav,
		notifier:  n,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetOnChange registers the callback run after the busy flag or the display
// state changes. The view uses it to re-render.
func (p *Page) SetOnChange(fn func()) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// UpdateField overwrites the input called name and leaves the others alone.
func (p *Page) UpdateField(name, value string) error {
	f, err := ParseField(name)
	if err != nil {
		return err
	}
	p.Set(f, value)
	return nil
}

func (p *Page) Set(f Field, value string) {
	p.mu.Lock()
	p.form = p.form.With(f, value)
	p.mu.Unlock()
}

func (p *Page) Form() FormState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.form
}

func (p *Page) IsSubmitting() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

func (p *Page) Display() DisplayState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.display()
}

func (p *Page) display() DisplayState {
	if p.session.Authenticated() {
		return Authenticated
	}
	return Anonymous
}

func (p *Page) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{Form: p.form, IsSubmitting: p.current != nil, Display: p.display()}
}

// SetSession records the latest session seen by the provider.
func (p *Page) SetSession(s session.Snapshot) {
	p.mu.Lock()
	before := p.display()
	p.session = s
	after := p.display()
	p.mu.Unlock()

	if before != after {
		p.changed()
	}
}

// Watch applies session events until ctx is done or events is closed.
func (p *Page) Watch(ctx context.Context, events <-chan session.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			p.SetSession(ev.Payload)
		}
	}
}

// Submit sends the current form to the provider and blocks until it answers.
//
// The form is forwarded as-is. On success the user is taken to HomePath.
// A provider-reported error is shown with its message, or MsgSignupFailed
// when it has none. A transport failure or a panic inside the provider is
// logged and shown as MsgUnexpected. The busy flag is cleared on every path
// and the form keeps its values so the user can retry.
//
// Submit returns ErrSubmitInFlight when a previous call has not resolved;
// every other outcome is reported to the user rather than returned.
func (p *Page) Submit(ctx context.Context) error {
	a := &attempt{page: p}

	p.mu.Lock()
	if p.current != nil {
		p.mu.Unlock()
		return ErrSubmitInFlight
	}
	p.current = a
	req := p.form.request()
	p.mu.Unlock()
	p.changed()

	defer p.finish(a)
	defer func() {
		if r := recover(); r != nil {
			// May fire after resolution, when a.unexpected is a no-op.
			p.log.Error(ctx, "recovered panic during signup", "panic", r)
			a.unexpected(ctx, fmt.Errorf("signup panicked: %v", r))
		}
	}()

	res, err := p.registrar.SignUp(ctx, req, authclient.Hooks{
		// Busy was set above, before the payload left; nothing to do here.
		OnRequest: func(c authclient.HookContext) {
			p.log.Debug(ctx, "signup request sent", "request_id", c.RequestID)
		},
		OnSuccess: func(authclient.HookContext) { a.succeed() },
		OnError:   func(c authclient.HookContext) { a.fail(c.Error) },
	})
	switch {
	case err != nil:
		a.unexpected(ctx, err)
	case res != nil && res.Error != nil:
		a.fail(res.Error)
	default:
		a.succeed()
	}
	return nil
}

// finish clears the busy flag if a is still the in-flight submission.
func (p *Page) finish(a *attempt) {
	p.mu.Lock()
	changed := p.current == a
	if changed {
		p.current = nil
	}
	p.mu.Unlock()

	if changed {
		p.changed()
	}
}

func (p *Page) changed() {
	p.mu.Lock()
	fn := p.onChange
	p.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// attempt resolves one submission exactly once, whichever of the hooks,
// the returned result or a recovered panic reports first. The busy flag is
// cleared before the outcome is acted on.
type attempt struct {
	page *Page
	once sync.Once
}

func (a *attempt) resolve(fn func()) {
	a.once.Do(func() {
		a.page.finish(a)
		fn()
	})
}

func (a *attempt) succeed() {
	a.resolve(func() {
		a.page.nav.NavigateTo(HomePath)
	})
}

func (a *attempt) fail(apiErr *authclient.APIError) {
	a.resolve(func() {
		msg := MsgSignupFailed
		if apiErr != nil && apiErr.Message != "" {
			msg = apiErr.Message
		}
		a.page.notifier.Notify(msg)
	})
}

func (a *attempt) unexpected(ctx context.Context, err error) {
	a.resolve(func() {
		a.page.log.Error(ctx, "signup error", "err", err)
		a.page.notifier.Notify(MsgUnexpected)
	})
}
