package screens

import (
	"context"
	"strings"

	"github.com/phenrril/storefront/internal/viewstate"
)

type LoginState struct {
	Username string
	// Key is the API credential handed out on success; the caller stores it.
	Key      string
	Redirect string
}

type Login struct {
	deps  Deps
	store *viewstate.Store[LoginState]
}

func NewLogin(d Deps) *Login { return &Login{deps: d} }

func (s *Login) Mount(ctx context.Context) {
	s.store = viewstate.New(ctx, LoginState{})
	if s.deps.Authenticated {
		s.store.Update(func(st *LoginState) { st.Redirect = "/" })
	}
}

func (s *Login) Unmount() { s.store.Stop() }

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Login) Submit(username, password string) error {
	in := credentials{Username: strings.TrimSpace(username), Password: password}
	s.store.Update(func(st *LoginState) { st.Username = in.Username })
	if err := check(in, "Enter your username and password."); err != nil {
		s.store.Fail(err)
		return err
	}
	return settled(viewstate.Fire(s.store, viewstate.Trigger[LoginState, string]{
		Key: "login",
		Call: func(ctx context.Context) (string, error) {
			return s.deps.Account.Login(ctx, in.Username, in.Password)
		},
		Apply: func(st *LoginState, key string) {
			st.Key = key
			st.Redirect = "/"
		},
	}))
}

func (s *Login) View() View[LoginState] { return viewOf(s.store) }
