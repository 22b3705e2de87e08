//go:build js

package main

import (
	"context"

	"github.com/hexops/vecty"
	"github.com/hexops/vecty/elem"

	"ichthyo-signup/components"
	"ichthyo-signup/internal/authclient"
	"ichthyo-signup/internal/browser"
	"ichthyo-signup/internal/logging"
	"ichthyo-signup/internal/session"
	"ichthyo-signup/internal/signup"
)

const (
	routeHome   = "#/"
	routeSignup = "#/signup"
	routeLogin  = "#/login"
)

// App is the main application component, acting as a router.
type App struct {
	vecty.Core
	currentRoute string

	auth    *authclient.Client
	session *session.Watcher
	log     logging.Logger

	signupPage *components.SignupPage
}

// NewApp creates a new App component.
func NewApp(auth *authclient.Client, watcher *session.Watcher, log logging.Logger) *App {
	return &App{auth: auth, session: watcher, log: log}
}

// Mount handles component mounting and sets up routing.
func (a *App) Mount() {
	a.handleRouteChange()
	browser.OnRouteChange(a.handleRouteChange)
}

func (a *App) handleRouteChange() {
	newRoute := browser.CurrentRoute()
	if newRoute == "" || newRoute == "#" {
		newRoute = routeHome
	}
	if newRoute == routeSignup && a.currentRoute != routeSignup {
		// Every visit starts from an empty form.
		a.signupPage = a.newSignupPage()
	}
	a.currentRoute = newRoute
	vecty.Rerender(a)
}

func (a *App) newSignupPage() *components.SignupPage {
	// A fresh account has a session the cached snapshot does not know about.
	nav := signup.NavigatorFunc(func(path string) {
		go func() {
			ctx := context.Background()
			if _, err := a.session.Refresh(ctx); err != nil {
				a.log.Warn(ctx, "session refresh after signup failed", "err", err)
			}
		}()
		browser.HashNavigator{}.NavigateTo(path)
	})
	page := signup.NewPage(a.auth, nav, browser.AlertNotifier{},
		signup.WithLogger(a.log.With("page", "signup")))
	return &components.SignupPage{Page: page, Session: a.session, Log: a.log}
}

// Render renders the component based on the current route.
func (a *App) Render() vecty.ComponentOrHTML {
	switch a.currentRoute {
	case routeSignup:
		return elem.Body(a.signupPage)
	case routeLogin:
		return elem.Body(&components.LoginPage{
			SignIn:  a.auth.SignIn,
			Session: a.session,
			Nav:     browser.HashNavigator{},
			Log:     a.log.With("page", "login"),
		})
	default:
		return elem.Body(&components.HomePage{Session: a.session})
	}
}
