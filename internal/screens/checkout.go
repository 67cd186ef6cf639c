package screens

import (
	"context"
	"strings"

	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/viewstate"
)

type CheckoutState struct {
	Order    *domain.Order
	Billing  []domain.Address
	Shipping []domain.Address

	SelectedBilling  int
	SelectedShipping int
	// CouponCode is the coupon field; it is emptied on every submit.
	CouponCode string

	Success  bool
	Redirect string
}

// NeedsAddresses reports whether the payment form must be replaced by a
// prompt to add addresses first.
func (st CheckoutState) NeedsAddresses() bool {
	return len(st.Billing) == 0 || len(st.Shipping) == 0
}

type Checkout struct {
	deps  Deps
	store *viewstate.Store[CheckoutState]
}

func NewCheckout(d Deps) *Checkout { return &Checkout{deps: d} }

// Mount loads the order and both address lists concurrently. The first
// default address of each list is preselected.
func (s *Checkout) Mount(ctx context.Context) {
	s.store = viewstate.New(ctx, CheckoutState{})
	_ = viewstate.Together(
		s.fetchOrder,
		func() error {
			return s.fetchAddresses(domain.AddressBilling, func(st *CheckoutState, list []domain.Address) {
				st.Billing = list
				if st.SelectedBilling == 0 {
					st.SelectedBilling = domain.DefaultAddressID(list)
				}
			})
		},
		func() error {
			return s.fetchAddresses(domain.AddressShipping, func(st *CheckoutState, list []domain.Address) {
				st.Shipping = list
				if st.SelectedShipping == 0 {
					st.SelectedShipping = domain.DefaultAddressID(list)
				}
			})
		},
	)
}

func (s *Checkout) Unmount() { s.store.Stop() }

func (s *Checkout) fetchOrder() error {
	return fetchOrder(s.store, s.deps.Orders,
		func(st *CheckoutState, o *domain.Order) { st.Order = o },
		func(st *CheckoutState) { st.Redirect = RedirectNoOrder },
	)
}

func (s *Checkout) fetchAddresses(t domain.AddressType, apply func(*CheckoutState, []domain.Address)) error {
	return viewstate.Fire(s.store, viewstate.Trigger[CheckoutState, []domain.Address]{
		Key: "addresses-" + string(t),
		Call: func(ctx context.Context) ([]domain.Address, error) {
			return s.deps.Addresses.ListAddresses(ctx, t)
		},
		Apply: apply,
	})
}

// Select replaces both choices as posted; 0 clears one.
func (s *Checkout) Select(billing, shipping int) {
	s.store.Update(func(st *CheckoutState) {
		st.SelectedBilling = billing
		st.SelectedShipping = shipping
	})
}

// ApplyCoupon redeems code and, only if that worked, reloads the order once
// so the total shown is the one the server computed.
func (s *Checkout) ApplyCoupon(ctx context.Context, code string) error {
	s.store.Update(func(st *CheckoutState) { st.CouponCode = "" })
	in := struct {
		Code string `json:"code" validate:"required"`
	}{Code: strings.TrimSpace(code)}
	if err := check(in, "Enter a coupon code."); err != nil {
		s.store.Fail(err)
		return err
	}
	err := viewstate.Fire(s.store, viewstate.Trigger[CheckoutState, none]{
		Key: "coupon",
		Call: call(func(ctx context.Context) error {
			return s.deps.Orders.AddCoupon(ctx, in.Code)
		}),
	})
	if err != nil {
		return settled(err)
	}
	return settled(s.fetchOrder())
}

type checkoutSelection struct {
	Billing  int `json:"selectedBillingAddress" validate:"required"`
	Shipping int `json:"selectedShippingAddress" validate:"required"`
}

// Submit pays for the order. The card is tokenized first; a tokenization
// failure shows the provider's message and the order API is never called.
func (s *Checkout) Submit(ctx context.Context, card domain.CardSubmission) error {
	st, _ := s.store.View()
	sel := checkoutSelection{Billing: st.SelectedBilling, Shipping: st.SelectedShipping}
	if err := check(sel, "Select a billing and a shipping address."); err != nil {
		s.store.Fail(err)
		return err
	}
	err := viewstate.Fire(s.store, viewstate.Trigger[CheckoutState, none]{
		Key: "checkout",
		Call: call(func(ctx context.Context) error {
			token, err := s.deps.Payments.Tokenize(ctx, card)
			if err != nil {
				return err
			}
			return s.deps.Orders.Checkout(ctx, domain.CheckoutRequest{
				Token:             token,
				BillingAddressID:  sel.Billing,
				ShippingAddressID: sel.Shipping,
			})
		}),
		Apply: func(st *CheckoutState, _ none) { st.Success = true },
	})
	if err != nil {
		return settled(err)
	}
	refreshQuietly(ctx, s.deps)
	return nil
}

func (s *Checkout) View() View[CheckoutState] { return viewOf(s.store) }
