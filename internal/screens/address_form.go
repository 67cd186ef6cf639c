package screens

import (
	"context"
	"strings"

	"github.com/phenrril/storefront/internal/domain"
	"github.com/phenrril/storefront/internal/viewstate"
)

type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeUpdate FormMode = "update"
)

type AddressFormState struct {
	Mode    FormMode
	Fields  domain.Address
	Success bool
}

// AddressForm creates or edits one address. Its owner learns about a save
// through onSaved.
type AddressForm struct {
	deps    Deps
	mode    FormMode
	kind    domain.AddressType
	userID  int
	initial domain.Address
	onSaved func() error
	store   *viewstate.Store[AddressFormState]
}

// NewAddressForm builds a form in ModeUpdate when initial has an id, in
// ModeCreate otherwise.
func NewAddressForm(d Deps, kind domain.AddressType, userID int, initial *domain.Address, onSaved func() error) *AddressForm {
	f := &AddressForm{deps: d, mode: ModeCreate, kind: kind, userID: userID, onSaved: onSaved}
	if initial != nil && initial.ID != 0 {
		f.mode = ModeUpdate
		f.initial = *initial
	}
	return f
}

func (f *AddressForm) Mount(ctx context.Context) {
	fields := domain.Address{Type: f.kind}
	if f.mode == ModeUpdate {
		fields = f.initial
	}
	f.store = viewstate.New(ctx, AddressFormState{Mode: f.mode, Fields: fields})
}

func (f *AddressForm) Unmount() { f.store.Stop() }

func (f *AddressForm) Mode() FormMode { return f.mode }

// Submit validates input and saves it. On success the form goes back to
// creating an empty non-default address and the owner is told.
func (f *AddressForm) Submit(ctx context.Context, input domain.Address) error {
	a := domain.Address{
		Street:    strings.TrimSpace(input.Street),
		Apartment: strings.TrimSpace(input.Apartment),
		Country:   strings.TrimSpace(input.Country),
		Zip:       strings.TrimSpace(input.Zip),
		Default:   input.Default,
		UserID:    f.userID,
		Type:      f.kind,
	}
	if f.mode == ModeUpdate {
		a.ID = f.initial.ID
		if a.Type == "" {
			a.Type = f.initial.Type
		}
	}
	f.store.Update(func(st *AddressFormState) {
		st.Fields = a
		st.Success = false
	})
	if err := check(a, "Please fill in every address field."); err != nil {
		f.store.Fail(err)
		return err
	}

	err := viewstate.Fire(f.store, viewstate.Trigger[AddressFormState, none]{
		Key: "save",
		Call: call(func(ctx context.Context) error {
			var err error
			if f.mode == ModeUpdate {
				_, err = f.deps.Addresses.UpdateAddress(ctx, a)
			} else {
				_, err = f.deps.Addresses.CreateAddress(ctx, a)
			}
			return err
		}),
		Apply: func(st *AddressFormState, _ none) {
			st.Success = true
			st.Mode = ModeCreate
			st.Fields = domain.Address{Type: f.kind, Default: false}
		},
	})
	if err != nil {
		return settled(err)
	}
	f.mode, f.initial = ModeCreate, domain.Address{}
	if f.onSaved != nil {
		return f.onSaved()
	}
	return nil
}

func (f *AddressForm) View() View[AddressFormState] { return viewOf(f.store) }
