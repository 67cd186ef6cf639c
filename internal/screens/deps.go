// Package screens holds one type per page of the storefront. A screen is
// mounted for the duration of a request: Mount fetches what the page shows,
// action methods mutate it, View snapshots it for the renderer and Unmount
// cancels anything still in flight.
package screens

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/viewstate"
)

// Deps is the shared state a screen may touch. The API ports are already
// bound to the browser's credential when Authenticated is true.
type Deps struct {
	Catalog   domain.Catalog
	Cart      domain.Cart
	Orders    domain.Orders
	Addresses domain.Addresses
	Account   domain.Account
	Payments  domain.PaymentTokenizer
	CartState domain.CartState

	SessionID     string
	Authenticated bool
}

func (d Deps) refresher() CartRefresher {
	return CartRefresher{Orders: d.Orders, State: d.CartState, SessionID: d.SessionID}
}

// CartRefresher mirrors the server-side cart into the navigation badge.
type CartRefresher struct {
	Orders    domain.Orders
	State     domain.CartState
	SessionID string
}

func (c CartRefresher) Refresh(ctx context.Context) error {
	if c.State == nil || c.Orders == nil || c.SessionID == "" {
		return nil
	}
	o, err := c.Orders.OrderSummary(ctx)
	switch {
	case apperr.IsNotFound(err) || apperr.IsUnauthorized(err):
		return c.State.Clear(ctx, c.SessionID)
	case err != nil:
		return err
	}
	return c.State.Set(ctx, c.SessionID, domain.CartSnapshot{Items: o.ItemCount(), Total: o.Total})
}

// refreshQuietly runs after a successful cart change; the badge is secondary
// to the action the user just took, so failures are only logged.
func refreshQuietly(ctx context.Context, d Deps) {
	if err := d.refresher().Refresh(ctx); err != nil {
		log.Warn().Err(err).Str("session", d.SessionID).Msg("cart badge refresh")
	}
}

// none is the result type of writes that answer with nothing useful.
type none = struct{}

func call(fn func(ctx context.Context) error) func(ctx context.Context) (none, error) {
	return func(ctx context.Context) (none, error) {
		return none{}, fn(ctx)
	}
}

// settled drops the sentinel errors of results the screen chose to ignore.
func settled(err error) error {
	if errors.Is(err, viewstate.ErrStale) || errors.Is(err, viewstate.ErrStopped) {
		return nil
	}
	return err
}
