package screens

import (
	"context"

	"github.com/phenrril/storefront/internal/apperr"
	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/viewstate"
)

type Tab string

const (
	TabBilling        Tab = "billingAddress"
	TabShipping       Tab = "shippingAddress"
	TabPaymentHistory Tab = "paymentHistory"
)

// RedirectLogin is where pages that need a credential send anonymous browsers.
const RedirectLogin = "/login"

func ParseTab(raw string) Tab {
	switch Tab(raw) {
	case TabShipping, TabPaymentHistory:
		return Tab(raw)
	default:
		return TabBilling
	}
}

// AddressType is the list a tab shows; the payment history tab has none.
func (t Tab) AddressType() domain.AddressType {
	switch t {
	case TabBilling:
		return domain.AddressBilling
	case TabShipping:
		return domain.AddressShipping
	default:
		return ""
	}
}

type ProfileState struct {
	Tab       Tab
	UserID    int
	Countries []domain.Country
	Addresses []domain.Address
	// Selected is the address open in the edit form, nil for the create form.
	Selected *domain.Address
	Redirect string
}

type Profile struct {
	deps  Deps
	ctx   context.Context
	store *viewstate.Store[ProfileState]
	form  *AddressForm
}

func NewProfile(d Deps) *Profile { return &Profile{deps: d} }

func (s *Profile) Mount(ctx context.Context, tab Tab) {
	s.ctx = ctx
	s.store = viewstate.New(ctx, ProfileState{Tab: tab})
	if !s.deps.Authenticated {
		s.store.Update(func(st *ProfileState) { st.Redirect = RedirectLogin })
		return
	}
	_ = viewstate.Together(s.fetchAddresses, s.fetchCountries, s.fetchUserID)
}

func (s *Profile) Unmount() {
	if s.form != nil {
		s.form.Unmount()
	}
	s.store.Stop()
}

func (s *Profile) loginOnUnauthorized(st *ProfileState, err error) bool {
	if !apperr.IsUnauthorized(err) {
		return false
	}
	st.Redirect = RedirectLogin
	return true
}

func (s *Profile) fetchAddresses() error {
	st, _ := s.store.View()
	t := st.Tab.AddressType()
	if t == "" {
		s.store.Update(func(st *ProfileState) { st.Addresses = nil })
		return nil
	}
	return viewstate.Fire(s.store, viewstate.Trigger[ProfileState, []domain.Address]{
		Key: "addresses",
		Call: func(ctx context.Context) ([]domain.Address, error) {
			return s.deps.Addresses.ListAddresses(ctx, t)
		},
		Apply:  func(st *ProfileState, list []domain.Address) { st.Addresses = list },
		Absorb: s.loginOnUnauthorized,
	})
}

func (s *Profile) fetchCountries() error {
	return viewstate.Fire(s.store, viewstate.Trigger[ProfileState, []domain.Country]{
		Key:   "countries",
		Quiet: true,
		Call:  s.deps.Addresses.ListCountries,
		Apply: func(st *ProfileState, list []domain.Country) { st.Countries = list },
	})
}

func (s *Profile) fetchUserID() error {
	return viewstate.Fire(s.store, viewstate.Trigger[ProfileState, int]{
		Key:    "user-id",
		Quiet:  true,
		Call:   s.deps.Account.CurrentUserID,
		Apply:  func(st *ProfileState, id int) { st.UserID = id },
		Absorb: s.loginOnUnauthorized,
	})
}

// SwitchTab shows another tab and re-fetches its addresses.
func (s *Profile) SwitchTab(tab Tab) error {
	s.store.Update(func(st *ProfileState) {
		st.Tab = tab
		st.Selected = nil
	})
	s.resetForm()
	return settled(s.fetchAddresses())
}

// Select opens the address with id in the edit form. An unknown id keeps the
// create form.
func (s *Profile) Select(id int) {
	s.store.Update(func(st *ProfileState) {
		st.Selected = nil
		for i := range st.Addresses {
			if st.Addresses[i].ID == id {
				a := st.Addresses[i]
				st.Selected = &a
				return
			}
		}
	})
	s.resetForm()
}

// DeleteAddress removes an address right away, then reloads the list and
// drops the selection.
func (s *Profile) DeleteAddress(id int) error {
	err := viewstate.Fire(s.store, viewstate.Trigger[ProfileState, none]{
		Key: "delete",
		Call: call(func(ctx context.Context) error {
			return s.deps.Addresses.DeleteAddress(ctx, id)
		}),
		Absorb: s.loginOnUnauthorized,
	})
	if err != nil {
		return settled(err)
	}
	return s.addressSaved()
}

// addressSaved is the form's callback: reload and go back to the create form.
func (s *Profile) addressSaved() error {
	s.store.Update(func(st *ProfileState) { st.Selected = nil })
	return settled(s.fetchAddresses())
}

func (s *Profile) resetForm() {
	if s.form != nil {
		s.form.Unmount()
		s.form = nil
	}
}

// Form is the address form matching the current tab and selection. It lives
// until the selection changes or the profile unmounts.
func (s *Profile) Form() *AddressForm {
	if s.form != nil {
		return s.form
	}
	st, _ := s.store.View()
	s.form = NewAddressForm(s.deps, st.Tab.AddressType(), st.UserID, st.Selected, s.addressSaved)
	s.form.Mount(s.ctx)
	return s.form
}

func (s *Profile) View() View[ProfileState] { return viewOf(s.store) }
