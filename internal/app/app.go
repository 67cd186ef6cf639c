package app

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/storefront/internal/adapters/cartstate"
	"github.com/phenrril/storefront/internal/adapters/httpserver"
	"github.com/phenrril/storefront/internal/adapters/payments/stripe"
	"github.com/phenrril/storefront/internal/adapters/restapi"
	"github.com/phenrril/storefront/internal/adapters/session"
	"github.com/phenrril/storefront/internal/config"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/views"
)

type App struct {
	Config   *config.Config
	API      *restapi.Client
	Views    *views.Renderer
	Payments *stripe.Tokenizer
	Carts    domain.CartState
	Sessions *session.Store

	closers []func() error
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	api, err := restapi.New(cfg.APIBaseURL, cfg.APIAuthURL, cfg.APIAuthScheme, nil)
	if err != nil {
		return nil, err
	}
	tmpl, err := views.New(cfg.MediaBaseURL)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		API:      api,
		Views:    tmpl,
		Payments: stripe.New(cfg.StripeSecretKey, cfg.StripeAPIURL),
		Sessions: session.New(cfg.SessionKey, cfg.IsProduction()),
	}
	if !app.Payments.Verifies() {
		log.Warn().Msg("STRIPE_SECRET_KEY not set: card tokens are not verified")
	}
	if cfg.SessionKey == "dev-insecure" && cfg.IsProduction() {
		log.Warn().Msg("SESSION_KEY is the development default")
	}

	if cfg.RedisAddr != "" {
		rdb, err := cartstate.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		app.Carts = cartstate.NewRedis(rdb, cartstate.DefaultTTL)
		app.closers = append(app.closers, rdb.Close)
		log.Info().Str("addr", cfg.RedisAddr).Msg("cart state in redis")
	} else {
		app.Carts = cartstate.NewMemory()
		log.Info().Msg("cart state in memory")
	}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Views, a.API, a.Payments, a.Carts, a.Sessions, a.Config.StripePublishableKey)
}

func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
