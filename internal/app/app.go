// Package app wires configuration, the backend client, stores, pages and
// the router into a runnable application.
package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/config"
	"github.com/NaloDAO/community_app/internal/gateway"
	"github.com/NaloDAO/community_app/internal/pages"
	"github.com/NaloDAO/community_app/internal/router"
	"github.com/NaloDAO/community_app/internal/store/authstore"
	"github.com/NaloDAO/community_app/internal/store/prefs"
	"github.com/NaloDAO/community_app/internal/store/uistore"
	"github.com/NaloDAO/community_app/pkg/logger"
)

// Pages groups the route controllers.
type Pages struct {
	Landing        pages.Landing
	Login          *pages.Login
	Register       *pages.Register
	ForgotPassword *pages.ForgotPassword
	ResetPassword  *pages.ResetPassword
	Dashboard      *pages.Dashboard
	Profile        *pages.Profile
}

// App owns every long-lived component.
type App struct {
	Config  *config.Config
	Log     zerolog.Logger
	Client  *supabase.Client
	Gateway *gateway.Gateway
	Auth    *authstore.Store
	UI      *uistore.Store
	Router  *router.Router
	Pages   Pages
}

// New builds the application from its configuration.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(cfg.LogLevel)

	client, err := supabase.New(supabase.Config{
		ProjectURL: cfg.SupabaseURL,
		AnonKey:    cfg.SupabaseAnonKey,
		Timeout:    cfg.HTTPTimeout,
	})
	if err != nil {
		return nil, err
	}

	gw := gateway.New(client, log)

	store, err := prefs.NewFileStore()
	if err != nil {
		// preferences stay functional for the session even when the config
		// dir is unavailable
		log.Warn().Err(err).Msg("user config dir unavailable, using temp dir")
		store = prefs.NewFileStoreAt(filepath.Join(os.TempDir(), "nalodao", "preferences.json"))
	}

	// the one preferences file carries both the theme and the saved session
	ui := uistore.New(store, prefs.EnvScheme{}, nil, log)
	auth := authstore.New(gw.Auth, gw.Users, store, log)

	a := &App{
		Config:  cfg,
		Log:     log,
		Client:  client,
		Gateway: gw,
		Auth:    auth,
		UI:      ui,
		Router:  router.New(auth),
	}
	a.Pages = Pages{
		Landing:        pages.Landing{},
		Login:          pages.NewLogin(auth, ui),
		Register:       pages.NewRegister(auth, ui),
		ForgotPassword: pages.NewForgotPassword(auth, ui),
		ResetPassword:  pages.NewResetPassword(auth, ui),
		Dashboard:      pages.NewDashboard(auth, ui, gw.Activities, gw.Proposals),
		Profile:        pages.NewProfile(auth, ui, gw.Storage, cfg.StorageBucket),
	}
	return a, nil
}

// Run initializes the stores and blocks until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.Auth.Initialize(ctx)
	a.Log.Info().Str("url", a.Config.SupabaseURL).Msg("application ready")

	<-ctx.Done()
	a.Auth.Close()
	a.UI.Close()
	return ctx.Err()
}
