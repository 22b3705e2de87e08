//go:build js

package main

import (
	"context"
	"os"

	"github.com/hexops/vecty"

	"ichthyo-signup/internal/authclient"
	"ichthyo-signup/internal/browser"
	"ichthyo-signup/internal/config"
	"ichthyo-signup/internal/logging"
	"ichthyo-signup/internal/session"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(browser.ConfigJSON())
	if err != nil {
		logging.New(os.Stderr, "info").Warn(ctx, "falling back to default config", "err", err)
		cfg = &config.Config{}
		cfg.LoadDefaults()
	}
	log := logging.New(os.Stderr, cfg.LogLevel)

	auth := authclient.New(cfg.APIBaseURL,
		authclient.WithTimeout(cfg.RequestTimeout),
		authclient.WithLogger(log.With("component", "authclient")),
	)
	watcher := session.NewWatcher(auth,
		session.WithPollInterval(cfg.SessionPollInterval),
		session.WithCacheTTL(cfg.SessionCacheTTL),
		session.WithLogger(log.With("component", "session")),
	)
	go watcher.Run(ctx)

	vecty.SetTitle("Create Account")
	vecty.RenderBody(NewApp(auth, watcher, log))
	// Block so the runtime keeps serving DOM callbacks.
	select {}
}
