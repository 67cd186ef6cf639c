package screens

import (
	"context"

	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/viewstate"
)

// RedirectNoOrder is where order pages send a browser without an active order.
const RedirectNoOrder = "/products"

type OrderSummaryState struct {
	Order    *domain.Order
	Redirect string
}

type OrderSummary struct {
	deps  Deps
	store *viewstate.Store[OrderSummaryState]
}

func NewOrderSummary(d Deps) *OrderSummary { return &OrderSummary{deps: d} }

func (s *OrderSummary) Mount(ctx context.Context) {
	s.store = viewstate.New(ctx, OrderSummaryState{})
	_ = fetchOrder(s.store, s.deps.Orders,
		func(st *OrderSummaryState, o *domain.Order) { st.Order = o },
		func(st *OrderSummaryState) { st.Redirect = RedirectNoOrder },
	)
}

func (s *OrderSummary) Unmount() { s.store.Stop() }

func (s *OrderSummary) View() View[OrderSummaryState] { return viewOf(s.store) }

// fetchOrder loads the active order into any screen showing one. A missing
// order is not an error: noOrder decides what the screen does instead.
func fetchOrder[S any](store *viewstate.Store[S], orders domain.Orders, apply func(*S, *domain.Order), noOrder func(*S)) error {
	return viewstate.Fire(store, viewstate.Trigger[S, *domain.Order]{
		Key:   "order",
		Call:  orders.OrderSummary,
		Apply: apply,
		Absorb: func(st *S, err error) bool {
			if !apperr.IsNotFound(err) {
				return false
			}
			noOrder(st)
			return true
		},
	})
}
